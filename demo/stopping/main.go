// Command stopping compares early stopping strategies.
//
// One network is trained per strategy, always starting
// from the same initial weights, and the resulting test
// errors are printed side by side.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"

	"github.com/alexflint/go-arg"
	"github.com/olekukonko/tablewriter"
	"github.com/unixpickle/anyvec/anyvec32"
	"go.uber.org/zap"
)

type args struct {
	Config      string `arg:"-c,--config" help:"YAML experiment config"`
	Source      string `arg:"--source" help:"override dataset.source"`
	Path        string `arg:"--path" help:"override dataset.path"`
	Seed        int64  `arg:"--seed" help:"override the random seed"`
	SaveDir     string `arg:"--save-dir" help:"directory to save trained networks to"`
	RestoreBest bool   `arg:"--restore-best" help:"test validated runs at their best point"`
	Verbose     bool   `arg:"-v,--verbose" help:"log every training step"`
}

func (args) Description() string {
	return "Train one network per early stopping strategy and compare test errors."
}

func main() {
	var a args
	arg.MustParse(&a)

	logger, err := newLogger(a.Verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(a, logger); err != nil {
		logger.Fatal("experiment failed", zap.Error(err))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func run(a args, logger *zap.Logger) error {
	cfg, err := LoadConfig(a.Config)
	if err != nil {
		return err
	}
	a.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	creator := anyvec32.CurrentCreator()
	rng := rand.New(rand.NewSource(cfg.Seed))

	logger.Info("loading data", zap.String("source", cfg.Dataset.Source))
	data, err := LoadData(creator, cfg, rng)
	if err != nil {
		return err
	}
	logger.Info("split data",
		zap.Int("training", len(data.Training)),
		zap.Int("validation", len(data.Validation)),
		zap.Int("test", len(data.Test)))

	exp, err := NewExperiment(creator, cfg, data, rng, logger)
	if err != nil {
		return err
	}
	exp.Interrupts = interrupts()

	logger.Info("press ctrl+c to skip the current strategy")
	outcomes, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	printOutcomes(outcomes)
	return nil
}

func (a args) apply(cfg *Config) {
	if a.Source != "" {
		cfg.Dataset.Source = a.Source
	}
	if a.Path != "" {
		cfg.Dataset.Path = a.Path
	}
	if a.Seed != 0 {
		cfg.Seed = a.Seed
	}
	if a.SaveDir != "" {
		cfg.SaveDir = a.SaveDir
	}
	if a.RestoreBest {
		cfg.RestoreBest = true
	}
}

// interrupts forwards keyboard interrupts without
// blocking, so that every ctrl+c ends one strategy.
func interrupts() <-chan struct{} {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	res := make(chan struct{}, 1)
	go func() {
		for range sig {
			select {
			case res <- struct{}{}:
			default:
			}
		}
	}()
	return res
}

func printOutcomes(outcomes []*Outcome) {
	for _, o := range outcomes {
		fmt.Printf("%s : %g\n", o.Name, o.TestError)
	}
	fmt.Println()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Strategy", "Iterations", "Stopped by", "Training",
		"Validation", "Test error"})
	for _, o := range outcomes {
		table.Append([]string{
			o.Name,
			strconv.Itoa(o.Report.Iterations),
			o.StoppedBy,
			formatFloat(o.Training),
			formatFloat(o.Validation),
			formatFloat(o.TestError),
		})
	}
	table.Render()
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 4, 64)
}
