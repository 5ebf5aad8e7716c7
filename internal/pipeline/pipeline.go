package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/wordspider/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the report produced so far.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
type Step interface {
	// Do executes the pipeline step.
	// Returns an error if the step fails critically; recoverable problems
	// should be recorded in the report and return nil.
	Do(ctx context.Context, report *model.CrawlReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Finalizer is implemented by steps that must run even after the context
// was cancelled, such as writing partial results. They receive a context
// that keeps the parent's values but is never cancelled.
type Finalizer interface {
	Step

	// Finalize reports whether the step runs after cancellation.
	Finalize() bool
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to keep going after a step
// fails. The first error is still returned by Execute.
//
// Design decision: The default is to stop on error. A failed database
// write should not hide the word list, so the CLI turns this on.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence.
//
// Once ctx is cancelled, ordinary steps are skipped and only Finalizers
// run, with cancellation removed from their context. The report is marked
// Cancelled in that case. Execute returns the first step error, or
// ctx.Err() if the pipeline was cut short and no step failed.
func (p *Pipeline) Execute(ctx context.Context, report *model.CrawlReport) error {
	var firstErr error

	for _, step := range p.steps {
		stepCtx := ctx
		if ctx.Err() != nil {
			if !isFinalizer(step) {
				p.logger.Debug("step skipped after cancellation", "step", step.Name())
				continue
			}
			if !report.Cancelled {
				report.Cancelled = true
				report.SetError(ctx.Err())
			}
			stepCtx = context.WithoutCancel(ctx)
		}

		p.logger.Debug("executing step", "step", step.Name(), "domain", report.Domain)

		if err := step.Do(stepCtx, report); err != nil {
			p.logger.Error("step failed", "step", step.Name(), "domain", report.Domain, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			if !p.continueOnError {
				return err
			}
			continue
		}

		p.logger.Debug("step completed", "step", step.Name(), "domain", report.Domain)
	}

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// isFinalizer reports whether step runs after cancellation.
func isFinalizer(step Step) bool {
	f, ok := step.(Finalizer)
	return ok && f.Finalize()
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
