// Package pipeline runs the collection steps in order and decides
// whether the run may proceed to matching.
package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNoMandatoryData halts the run: every mandatory source came back
// empty, so there is nothing worth matching.
var ErrNoMandatoryData = errors.New("no mandatory source produced data")

// Step is a single collection stage. Optional steps may fail or come
// back empty without affecting the gating decision.
type Step interface {
	Name() string
	Optional() bool
	Run(ctx context.Context) (Report, error)
}

// Report describes the outcome of one executed step.
type Report struct {
	Collected int
}

// Result aggregates the per-step outcomes of a run.
type Result struct {
	Reports map[string]Report
	Errors  map[string]error
}

// Collected sums the postings gathered across all steps.
func (r *Result) Collected() int {
	total := 0
	for _, report := range r.Reports {
		total += report.Collected
	}
	return total
}

type collector struct {
	name     string
	optional bool
	run      func(ctx context.Context) (int, error)
}

// NewCollector adapts a collection function into a Step.
func NewCollector(name string, optional bool, run func(ctx context.Context) (int, error)) Step {
	return &collector{name: name, optional: optional, run: run}
}

func (c *collector) Name() string   { return c.name }
func (c *collector) Optional() bool { return c.optional }
func (c *collector) Run(ctx context.Context) (Report, error) {
	collected, err := c.run(ctx)
	return Report{Collected: collected}, err
}

// Run executes the steps sequentially. A failing step is logged and the
// run continues; afterwards the run is allowed to proceed only if at
// least one mandatory step produced data. Context cancellation aborts
// immediately.
func Run(ctx context.Context, logger *zap.Logger, steps []Step) (*Result, error) {
	result := &Result{
		Reports: make(map[string]Report, len(steps)),
		Errors:  make(map[string]error),
	}

	mandatoryCollected := 0
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		report, err := step.Run(ctx)
		result.Reports[step.Name()] = report
		if err != nil {
			result.Errors[step.Name()] = err
			logger.Warn("collection step failed",
				zap.String("name", step.Name()),
				zap.Bool("optional", step.Optional()),
				zap.Error(err),
			)
			continue
		}

		logger.Info("collection step",
			zap.String("name", step.Name()),
			zap.Bool("optional", step.Optional()),
			zap.Int("collected", report.Collected),
		)

		if !step.Optional() {
			mandatoryCollected += report.Collected
		}
	}

	if mandatoryCollected == 0 {
		return result, ErrNoMandatoryData
	}

	return result, nil
}
