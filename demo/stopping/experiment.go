package main

import (
	"context"
	"io/ioutil"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/anystop"
	"github.com/unixpickle/anystop/anydata"
	"github.com/unixpickle/anystop/anymodel"
	"github.com/unixpickle/anystop/anyobj"
	"github.com/unixpickle/anystop/anytrain"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/serializer"
	"go.uber.org/zap"
)

// Data holds the three partitions of the data set.
type Data struct {
	Training   anydata.Set
	Validation anydata.Set
	Test       anydata.Set
}

// LoadData loads and splits the configured data set.
func LoadData(c anyvec.Creator, cfg *Config, rng *rand.Rand) (*Data, error) {
	var all anydata.Set
	switch cfg.Dataset.Source {
	case "chessboard":
		all = anydata.Chessboard(c, cfg.Dataset.Samples, cfg.Dataset.Noise, rng)
	case "csv":
		var err error
		all, err = anydata.LoadCSV(cfg.Dataset.Path, c, anydata.CSVOptions{
			LabelColumn: cfg.Dataset.LabelColumn,
			HasHeader:   cfg.Dataset.HasHeader,
		})
		if err != nil {
			return nil, err
		}
	case "mnist":
		train, test := anydata.LoadMNIST(c, cfg.Dataset.Samples)
		all = append(append(anydata.Set{}, train...), test...)
	default:
		return nil, errors.Errorf("unknown dataset source: %q", cfg.Dataset.Source)
	}
	if len(all) < 3 {
		return nil, errors.Errorf("need at least 3 samples, got %d", len(all))
	}

	trainFrac := 1 - cfg.Split.Test
	var train, validation, test anydata.Set
	if cfg.Split.Hash {
		// Hash cutoffs are absolute, so the second split is
		// relative to the whole set.
		train, test = anydata.HashSplit(all, trainFrac)
		train, validation = anydata.HashSplit(train,
			trainFrac*(1-cfg.Split.Validation))
	} else {
		anydata.Shuffle(all, rng)
		train, test = anydata.Split(all, trainFrac)
		train, validation = anydata.Split(train, 1-cfg.Split.Validation)
	}
	if len(train) == 0 || len(validation) == 0 || len(test) == 0 {
		return nil, errors.New("split produced an empty partition")
	}
	return &Data{Training: train, Validation: validation, Test: test}, nil
}

// Outcome is the result of training with one strategy.
type Outcome struct {
	Name   string
	Report *anytrain.Report

	// StoppedBy is "criterion" if the strategy's own
	// criterion ended training, otherwise "cap" or
	// "interrupt".
	StoppedBy string

	Training   float64
	Validation float64
	TestError  float64
}

// Experiment trains one network per stopping strategy,
// always starting from the same initial parameters.
type Experiment struct {
	Config *Config
	Data   *Data
	Net    anymodel.Net
	Logger *zap.Logger

	// Interrupts, if non-nil, ends the current strategy
	// early whenever it yields a value.
	Interrupts <-chan struct{}

	initial anystop.Snapshot
}

// NewExperiment creates a randomly initialized network for
// the data.
func NewExperiment(c anyvec.Creator, cfg *Config, data *Data, rng *rand.Rand,
	logger *zap.Logger) (*Experiment, error) {
	act, err := anymodel.ParseActivation(cfg.Network.Activation)
	if err != nil {
		return nil, err
	}
	sizes := append([]int{data.Training.InputSize()}, cfg.Network.Hidden...)
	sizes = append(sizes, data.Training.OutputSize())
	net := anymodel.NewMLP(c, rng, act, anymodel.LogSoftmax, sizes...)
	logger.Info("created network", zap.Ints("sizes", sizes),
		zap.Int("params", net.NumParams()))
	return &Experiment{
		Config:  cfg,
		Data:    data,
		Net:     net,
		Logger:  logger,
		initial: anystop.TakeSnapshot(net.Parameters()),
	}, nil
}

// Run trains with every strategy in turn.
func (e *Experiment) Run(ctx context.Context) ([]*Outcome, error) {
	var res []*Outcome
	for _, s := range e.Config.Strategies {
		out, err := e.RunStrategy(ctx, s)
		if err != nil {
			return res, errors.Wrapf(err, "strategy %s", s.DisplayName())
		}
		res = append(res, out)
	}
	return res, nil
}

// RunStrategy resets the network and trains it with a
// single strategy.
func (e *Experiment) RunStrategy(ctx context.Context, s StrategyConfig) (*Outcome, error) {
	params := e.Net.Parameters()
	if err := e.initial.Restore(params); err != nil {
		return nil, err
	}

	train := e.objective(e.Data.Training, anymodel.DotCost{})
	validation := e.objective(e.Data.Validation, anymodel.DotCost{})

	crit, err := s.NewCriterion()
	if err != nil {
		return nil, err
	}
	if s.NeedsValidation() {
		crit = &anystop.Validated{
			Evaluator: validation,
			Base:      crit,
			Params:    params,
		}
	}
	strategy := &tracked{Criterion: crit}
	crit = strategy
	if e.Config.IterationCap > 0 {
		crit = anystop.Any{crit, anystop.MaxIterations(e.Config.IterationCap)}
	}
	if e.Interrupts != nil {
		crit = anystop.Any{crit, &anystop.Interrupt{Chan: e.Interrupts}}
	}

	opt, err := e.Config.Network.NewOptimizer()
	if err != nil {
		return nil, err
	}
	trainer := &anytrain.OptimizationTrainer{
		Objective:   train,
		Optimizer:   opt,
		Criterion:   crit,
		RestoreBest: e.Config.RestoreBest,
		Logger:      e.Logger.With(zap.String("strategy", s.DisplayName())),
		LogEvery:    e.Config.LogEvery,
	}
	report, err := trainer.Train(ctx)
	if err != nil {
		return nil, err
	}

	stoppedBy := "criterion"
	if !strategy.fired {
		stoppedBy = "interrupt"
		if e.Config.IterationCap > 0 && report.Iterations >= e.Config.IterationCap {
			stoppedBy = "cap"
		}
	}
	out := &Outcome{
		Name:       s.DisplayName(),
		Report:     report,
		StoppedBy:  stoppedBy,
		Training:   train.Value(),
		Validation: validation.Value(),
		TestError:  e.objective(e.Data.Test, anymodel.ZeroOne{}).Value(),
	}
	if err := e.save(out.Name); err != nil {
		return nil, err
	}
	return out, nil
}

// tracked records whether its Criterion asked to stop.
type tracked struct {
	anystop.Criterion
	fired bool
}

func (t *tracked) Stop(r *anystop.Result) bool {
	stop := t.Criterion.Stop(r)
	if stop {
		t.fired = true
	}
	return stop
}

func (t *tracked) Reset() {
	t.Criterion.Reset()
	t.fired = false
}

func (t *tracked) RestoreBest() bool {
	if r, ok := t.Criterion.(anystop.BestRestorer); ok {
		return r.RestoreBest()
	}
	return false
}

func (e *Experiment) objective(samples anydata.Set, cost anymodel.Cost) *anyobj.ErrorFunction {
	return &anyobj.ErrorFunction{
		Model:   e.Net,
		Cost:    cost,
		Samples: samples,
	}
}

func (e *Experiment) save(name string) error {
	if e.Config.SaveDir == "" {
		return nil
	}
	data, err := serializer.SerializeAny(e.Net)
	if err != nil {
		return errors.Wrap(err, "serialize network")
	}
	fileName := strings.Replace(strings.ToLower(name), " ", "_", -1) + ".net"
	path := filepath.Join(e.Config.SaveDir, fileName)
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "save network")
	}
	e.Logger.Info("saved network", zap.String("path", path))
	return nil
}
