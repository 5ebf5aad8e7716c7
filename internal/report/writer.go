package report

import (
	"io"

	"github.com/nao1215/wordspider/internal/model"
)

// Writer renders a crawl report to its destination.
//
// Design decision: every output format, the terminal summary included,
// consumes the same model.CrawlReport. The crawler never knows which
// format was chosen; the command picks a Writer with NewWriter.
type Writer interface {
	// Write outputs the report and returns the number of bytes written.
	Write(report *model.CrawlReport) (int, error)
}

// baseWriter holds the destination shared by the writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// rankedWords returns every word of report, highest count first.
func rankedWords(report *model.CrawlReport) []model.WordCount {
	return report.TopWords(0)
}
