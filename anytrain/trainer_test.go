package anytrain

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/anystop"
	"github.com/unixpickle/anystop/anydata"
	"github.com/unixpickle/anystop/anymodel"
	"github.com/unixpickle/anystop/anyobj"
	"github.com/unixpickle/anystop/anyopt"
	"github.com/unixpickle/anyvec/anyvec64"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type problem struct {
	Net        anymodel.Net
	Training   *anyobj.ErrorFunction
	Validation *anyobj.ErrorFunction
}

func newProblem(seed int64) *problem {
	c := anyvec64.DefaultCreator{}
	rng := rand.New(rand.NewSource(seed))
	net := anymodel.NewMLP(c, rng, anymodel.Tanh, anymodel.LogSoftmax, 2, 8, 2)
	data := anydata.Chessboard(c, 120, 0.2, rng)
	train, val := anydata.Split(data, 0.5)
	return &problem{
		Net: net,
		Training: &anyobj.ErrorFunction{
			Model:   net,
			Cost:    anymodel.DotCost{},
			Samples: train,
		},
		Validation: &anyobj.ErrorFunction{
			Model:   net,
			Cost:    anymodel.DotCost{},
			Samples: val,
		},
	}
}

func TestTrainMaxIterations(t *testing.T) {
	p := newProblem(1)
	initial := p.Training.Value()

	var statuses []anystop.Result
	trainer := &OptimizationTrainer{
		Objective: p.Training,
		Optimizer: &anyopt.Rprop{},
		Criterion: anystop.MaxIterations(25),
		StatusFunc: func(r anystop.Result) {
			statuses = append(statuses, r)
		},
	}
	report, err := trainer.Train(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, report.Iterations)
	assert.Equal(t, 25, report.Last.Iteration)
	assert.False(t, report.Last.Validated)
	require.Len(t, statuses, 25)
	for i, s := range statuses {
		assert.Equal(t, i+1, s.Iteration)
	}
	assert.Less(t, p.Training.Value(), initial)

	// A second run starts over with a fresh criterion.
	report, err = trainer.Train(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, report.Iterations)
}

func TestTrainRestoreBest(t *testing.T) {
	p := newProblem(2)
	validated := &anystop.Validated{
		Evaluator: p.Validation,
		Base:      anystop.MaxIterations(200),
		Params:    p.Net.Parameters(),
	}
	trainer := &OptimizationTrainer{
		Objective:   p.Training,
		Optimizer:   &anyopt.Rprop{},
		Criterion:   validated,
		RestoreBest: true,
	}
	report, err := trainer.Train(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Restored)
	assert.True(t, report.Last.Validated)

	best, iter, ok := validated.Best()
	require.True(t, ok)
	assert.True(t, iter >= 1 && iter <= 200)
	assert.InDelta(t, best, p.Validation.Value(), 1e-9)
	assert.True(t, best <= report.Last.Validation)
}

func TestTrainCancelled(t *testing.T) {
	p := newProblem(3)
	ctx, cancel := context.WithCancel(context.Background())
	steps := 0
	trainer := &OptimizationTrainer{
		Objective: p.Training,
		Optimizer: &anyopt.Rprop{},
		Criterion: anystop.MaxIterations(math.MaxInt32),
		StatusFunc: func(r anystop.Result) {
			steps++
			if steps == 5 {
				cancel()
			}
		},
	}
	report, err := trainer.Train(ctx)
	require.Error(t, err)
	assert.Equal(t, context.Canceled, errors.Cause(err))
	assert.Equal(t, 5, report.Iterations)
}

func TestTrainMissingPieces(t *testing.T) {
	_, err := (&OptimizationTrainer{}).Train(context.Background())
	assert.Error(t, err)
}

func TestTrainLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := newProblem(4)
	trainer := &OptimizationTrainer{
		Objective: p.Training,
		Optimizer: &anyopt.Rprop{},
		Criterion: &anystop.Validated{
			Evaluator: p.Validation,
			Base:      anystop.MaxIterations(7),
		},
		Logger:   zap.New(core),
		LogEvery: 3,
	}
	_, err := trainer.Train(context.Background())
	require.NoError(t, err)

	// Steps 3, 6 and the final step 7, then the summary.
	assert.Equal(t, 3, logs.FilterMessage("step").Len())
	summary := logs.FilterMessage("training stopped").All()
	require.Len(t, summary, 1)
	fields := summary[0].ContextMap()
	assert.EqualValues(t, 7, fields["iteration"])
	assert.Contains(t, fields, "validation")
}
