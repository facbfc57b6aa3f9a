package main

import (
	"context"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/anystop/anymodel"
	"github.com/unixpickle/anyvec/anyvec64"
	"github.com/unixpickle/serializer"
	"go.uber.org/zap"
)

func smallConfig() *Config {
	cfg := DefaultConfig()
	cfg.Dataset.Samples = 90
	cfg.Network.Hidden = []int{6}
	cfg.IterationCap = 40
	cfg.Strategies = []StrategyConfig{
		{Name: "3 iterations", Type: "max_iterations", MaxIterations: 3},
		{Name: "quotient", Type: "generalization_quotient", Interval: 3,
			MaxQuotient: 0.1},
	}
	return cfg
}

func TestLoadDataSplits(t *testing.T) {
	cfg := smallConfig()
	c := anyvec64.DefaultCreator{}
	data, err := LoadData(c, cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Len(t, data.Test, 36)
	assert.Len(t, data.Training, 36)
	assert.Len(t, data.Validation, 18)
}

func TestLoadDataHashSplits(t *testing.T) {
	cfg := smallConfig()
	cfg.Dataset.Samples = 2000
	cfg.Split.Hash = true
	cfg.Split.Test = 0.4
	cfg.Split.Validation = 0.5

	c := anyvec64.DefaultCreator{}
	data, err := LoadData(c, cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 2000, len(data.Training)+len(data.Validation)+len(data.Test))
	assert.InDelta(t, 800, len(data.Test), 100)
	assert.InDelta(t, 600, len(data.Training), 100)
	assert.InDelta(t, 600, len(data.Validation), 100)

	// Validation smaller than the test fraction.
	cfg = DefaultConfig()
	cfg.Split.Hash = true
	data, err = LoadData(c, cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.InDelta(t, 320, len(data.Test), 60)
	assert.InDelta(t, 0.33*480, len(data.Validation), 60)
}

func TestExperimentRun(t *testing.T) {
	cfg := smallConfig()
	dir, err := ioutil.TempDir("", "stopping")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	cfg.SaveDir = dir

	c := anyvec64.DefaultCreator{}
	rng := rand.New(rand.NewSource(2))
	data, err := LoadData(c, cfg, rng)
	require.NoError(t, err)
	exp, err := NewExperiment(c, cfg, data, rng, zap.NewNop())
	require.NoError(t, err)

	outcomes, err := exp.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, 3, outcomes[0].Report.Iterations)
	assert.True(t, outcomes[0].Report.Last.Iteration == 3)
	assert.False(t, outcomes[0].Report.Last.Validated)
	assert.Equal(t, "criterion", outcomes[0].StoppedBy)

	assert.LessOrEqual(t, outcomes[1].Report.Iterations, 40)
	assert.True(t, outcomes[1].Report.Last.Validated)

	for _, o := range outcomes {
		assert.True(t, o.TestError >= 0 && o.TestError <= 1, o.Name)
	}

	saved, err := ioutil.ReadFile(filepath.Join(dir, "3_iterations.net"))
	require.NoError(t, err)
	var net anymodel.Net
	require.NoError(t, serializer.DeserializeAny(saved, &net))
	assert.Equal(t, exp.Net.NumParams(), net.NumParams())
}

func TestExperimentSameStart(t *testing.T) {
	cfg := smallConfig()
	cfg.Strategies = cfg.Strategies[:1]
	cfg.Strategies = append(cfg.Strategies, cfg.Strategies[0])

	c := anyvec64.DefaultCreator{}
	rng := rand.New(rand.NewSource(3))
	data, err := LoadData(c, cfg, rng)
	require.NoError(t, err)
	exp, err := NewExperiment(c, cfg, data, rng, zap.NewNop())
	require.NoError(t, err)

	outcomes, err := exp.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, outcomes[0].Training, outcomes[1].Training)
	assert.Equal(t, outcomes[0].TestError, outcomes[1].TestError)
}

func TestExperimentInterrupt(t *testing.T) {
	cfg := smallConfig()
	cfg.Strategies = []StrategyConfig{
		{Type: "max_iterations", MaxIterations: 1000},
	}
	cfg.IterationCap = 0

	c := anyvec64.DefaultCreator{}
	rng := rand.New(rand.NewSource(4))
	data, err := LoadData(c, cfg, rng)
	require.NoError(t, err)
	exp, err := NewExperiment(c, cfg, data, rng, zap.NewNop())
	require.NoError(t, err)

	ch := make(chan struct{}, 1)
	ch <- struct{}{}
	exp.Interrupts = ch
	outcomes, err := exp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, outcomes[0].Report.Iterations)
	assert.Equal(t, "interrupt", outcomes[0].StoppedBy)
}

func TestExperimentCapped(t *testing.T) {
	cfg := smallConfig()
	cfg.IterationCap = 7

	c := anyvec64.DefaultCreator{}
	rng := rand.New(rand.NewSource(5))
	data, err := LoadData(c, cfg, rng)
	require.NoError(t, err)
	exp, err := NewExperiment(c, cfg, data, rng, zap.NewNop())
	require.NoError(t, err)

	out, err := exp.RunStrategy(context.Background(), StrategyConfig{
		Type:           "training_error",
		Interval:       3,
		MinImprovement: -1e9,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, out.Report.Iterations)
	assert.Equal(t, "cap", out.StoppedBy)
}
