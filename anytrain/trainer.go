// Package anytrain combines an objective, an optimizer and
// a stopping criterion into a training procedure.
package anytrain

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/unixpickle/anystop"
	"go.uber.org/zap"
)

const defaultLogEvery = 10

// A Report summarizes a training run.
type Report struct {
	// Iterations is the number of optimizer steps taken.
	Iterations int

	// Last is the final Result given to the criterion.
	Last anystop.Result

	// Restored is true if the parameters were reset to the
	// best validated point after training.
	Restored bool

	Duration time.Duration
}

// An OptimizationTrainer minimizes an Objective with an
// Optimizer until a Criterion says to stop.
//
// A trainer can be run multiple times; the optimizer and
// criterion are reset at the start of every run, while the
// parameters continue from their current values.
type OptimizationTrainer struct {
	Objective anystop.Objective
	Optimizer anystop.Optimizer
	Criterion anystop.Criterion

	// RestoreBest, if true, resets the parameters to the
	// best validated point when training ends, provided
	// that the criterion is an anystop.BestRestorer.
	RestoreBest bool

	// StatusFunc, if non-nil, is called after every step
	// with the Result the criterion has seen.
	StatusFunc func(r anystop.Result)

	// Logger receives progress messages.
	// If nil, nothing is logged.
	Logger *zap.Logger

	// LogEvery is the number of iterations between
	// progress messages.
	// If it is 0, a default is used.
	LogEvery int
}

// Train runs the optimization loop.
//
// If ctx is cancelled, Train stops after the current step
// and returns the partial report along with the error.
func (o *OptimizationTrainer) Train(ctx context.Context) (*Report, error) {
	if o.Objective == nil || o.Optimizer == nil || o.Criterion == nil {
		return nil, errors.New("train: objective, optimizer and criterion are required")
	}
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logEvery := o.LogEvery
	if logEvery <= 0 {
		logEvery = defaultLogEvery
	}

	start := time.Now()
	report := &Report{}

	o.Criterion.Reset()
	o.Optimizer.Init(o.Objective)

	for {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, errors.Wrap(err, "train")
		}

		result := anystop.Result{
			Iteration: report.Iterations + 1,
			Value:     o.Optimizer.Step(o.Objective),
		}
		stop := o.Criterion.Stop(&result)
		report.Iterations = result.Iteration
		report.Last = result

		if o.StatusFunc != nil {
			o.StatusFunc(result)
		}
		if result.Iteration%logEvery == 0 || stop {
			logger.Debug("step", resultFields(result)...)
		}
		if stop {
			break
		}
	}

	if o.RestoreBest {
		if r, ok := o.Criterion.(anystop.BestRestorer); ok {
			report.Restored = r.RestoreBest()
		}
	}
	report.Duration = time.Since(start)

	logger.Info("training stopped",
		append(resultFields(report.Last),
			zap.Bool("restored", report.Restored),
			zap.Duration("duration", report.Duration))...)
	return report, nil
}

func resultFields(r anystop.Result) []zap.Field {
	fields := []zap.Field{
		zap.Int("iteration", r.Iteration),
		zap.Float64("value", r.Value),
	}
	if r.Validated {
		fields = append(fields, zap.Float64("validation", r.Validation))
	}
	return fields
}
