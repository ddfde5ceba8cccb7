package train

import (
	"fmt"
	"math/rand"
	"time"

	"parbench/boolfn"
	"parbench/optim"
)

// Result is the outcome of one training run, as persisted and tabulated by
// the benchmark.
type Result struct {
	Model        string
	Fn           string
	Bits         int
	Hidden       int
	Seed         int64
	Epochs       int // epochs actually run (early stop may cut this short)
	LearningRate float64
	FinalLoss    float64
	Accuracy     float64
	Perfect      bool // 100% accuracy over the full input space
	Duration     time.Duration
}

// RunConfig describes one training run of the benchmark sweep.
type RunConfig struct {
	Model        string
	Fn           string
	Bits         int
	Hidden       int
	Grid         int
	Seed         int64
	Epochs       int
	MinLoss      float64
	LearningRate float64
	Optimizer    string
}

// Run trains a fresh model on the full input space of the configured
// function and evaluates it on the same space. The seed fixes both weight
// initialization and epoch shuffling, so runs are reproducible.
func Run(cfg RunConfig) (Result, error) {
	res := Result{
		Model:        cfg.Model,
		Fn:           cfg.Fn,
		Bits:         cfg.Bits,
		Hidden:       cfg.Hidden,
		Seed:         cfg.Seed,
		LearningRate: cfg.LearningRate,
	}

	fn, err := boolfn.New(cfg.Fn, cfg.Bits, cfg.Seed)
	if err != nil {
		return res, err
	}
	ds := boolfn.FullSpace(fn)

	rng := rand.New(rand.NewSource(cfg.Seed))
	model, err := BuildModel(cfg.Model, cfg.Bits, cfg.Hidden, cfg.Grid, rng)
	if err != nil {
		return res, err
	}

	optName := cfg.Optimizer
	if optName == "" {
		optName = "adam"
	}
	opt, err := optim.New(optName, cfg.LearningRate)
	if err != nil {
		return res, err
	}

	tr := NewTrainer(model, opt)
	start := time.Now()
	history, err := tr.Fit(ds, FitConfig{
		Epochs:  cfg.Epochs,
		MinLoss: cfg.MinLoss,
		Shuffle: rng,
	})
	if err != nil {
		return res, fmt.Errorf("training %s on %s/%d: %w", cfg.Model, cfg.Fn, cfg.Bits, err)
	}
	res.Duration = time.Since(start)
	res.Epochs = len(history)
	if len(history) > 0 {
		res.FinalLoss = history[len(history)-1]
	}

	acc, err := tr.Evaluate(boolfn.FullSpace(fn))
	if err != nil {
		return res, err
	}
	res.Accuracy = acc
	res.Perfect = acc == 1.0
	return res, nil
}
