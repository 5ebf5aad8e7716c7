// Package pipeline runs the stages of one wordspider invocation in order:
// crawl the site, store it in the history database, write the word list,
// and print the summary.
//
// Design decision: We use a pipeline of steps instead of direct calls in
// the CLI because:
// 1. Optional stages (saving, extra outputs) are added or left out without
// touching the others
// 2. Error handling and logging are the same for every stage
// 3. Interrupt handling lives in one place: after Ctrl+C the crawl stops,
// but steps marked as finalizers still run so partial results are kept
package pipeline
