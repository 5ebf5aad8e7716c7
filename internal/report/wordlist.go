package report

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/nao1215/wordspider/internal/model"
)

// CSVWriter writes the site-wide counts as "count,word" records, highest
// count first. There is no header row.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs one record per word.
func (w *CSVWriter) Write(report *model.CrawlReport) (int, error) {
	cw := &countingWriter{w: w.output}
	csvw := csv.NewWriter(cw)

	for _, wc := range rankedWords(report) {
		if err := csvw.Write([]string{strconv.Itoa(wc.Count), wc.Word}); err != nil {
			return cw.n, err
		}
	}
	csvw.Flush()

	return cw.n, csvw.Error()
}

// TextWriter writes the site-wide counts as plain "count,word" lines,
// highest count first.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs one line per word.
func (w *TextWriter) Write(report *model.CrawlReport) (int, error) {
	cw := &countingWriter{w: w.output}
	bw := bufio.NewWriter(cw)

	for _, wc := range rankedWords(report) {
		bw.WriteString(strconv.Itoa(wc.Count)) //nolint:errcheck // surfaced by Flush
		bw.WriteByte(',')                      //nolint:errcheck // surfaced by Flush
		bw.WriteString(wc.Word)                //nolint:errcheck // surfaced by Flush
		bw.WriteByte('\n')                     //nolint:errcheck // surfaced by Flush
	}

	err := bw.Flush()
	return cw.n, err
}

// countingWriter counts bytes passed through to w.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
