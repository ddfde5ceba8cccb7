// parbench-train: trains a single model on one boolean function.
//
// Usage:
//
//	parbench-train --model=mlp --fn=parity --bits=4 --epochs=500 --lr=0.01
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"parbench/boolfn"
	"parbench/nn"
	"parbench/optim"
	"parbench/train"
	"parbench/utils"
)

var (
	modelType    = flag.String("model", "mlp", "Model type: mlp, rnn, lstm, kan")
	fnName       = flag.String("fn", "parity", "Boolean function: parity, majority, and, or, first, random")
	bits         = flag.Int("bits", 2, "Input width in bits")
	hidden       = flag.Int("hidden", 8, "Hidden layer size")
	grid         = flag.Int("grid", train.DefaultGrid, "KAN basis size per edge")
	epochs       = flag.Int("epochs", 500, "Number of training epochs")
	learningRate = flag.Float64("lr", 0.01, "Learning rate")
	optName      = flag.String("optimizer", "adam", "Optimizer: sgd, adam")
	minLoss      = flag.Float64("min-loss", 0, "Stop early when average epoch loss drops below (0 disables)")
	verbose      = flag.Bool("verbose", true, "Verbose output")
	seed         = flag.Int64("seed", 42, "Random seed")
	samples      = flag.Int("samples", 0, "Random training samples (0 trains on the full input space)")
	outputFile   = flag.String("output", "", "Output weights file (JSON)")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                   parbench Trainer                           ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nConfiguration:\n")
	fmt.Printf("  Model:         %s\n", *modelType)
	fmt.Printf("  Function:      %s\n", *fnName)
	fmt.Printf("  Bits:          %d\n", *bits)
	fmt.Printf("  Hidden:        %d\n", *hidden)
	fmt.Printf("  Epochs:        %d\n", *epochs)
	fmt.Printf("  Learning Rate: %.4f\n", *learningRate)
	fmt.Printf("  Optimizer:     %s\n", *optName)
	fmt.Printf("  Seed:          %d\n", *seed)
	fmt.Println()

	fn, err := boolfn.New(*fnName, *bits, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))

	stats := &utils.TimingStats{}
	start := time.Now()
	var ds *boolfn.Dataset
	if *samples > 0 {
		fmt.Printf("Sampling %d training inputs...\n", *samples)
		ds, err = boolfn.Sample(fn, *samples, rng)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Printf("Generating the full %d-bit input space (%d samples)...\n", *bits, 1<<uint(*bits))
		ds = boolfn.FullSpace(fn)
	}
	stats.DataGenTime = time.Since(start)

	start = time.Now()
	model, err := train.BuildModel(*modelType, *bits, *hidden, *grid, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	stats.ModelInitTime = time.Since(start)
	fmt.Printf("\nModel: %d layers, %d parameters\n", len(model.Layers), countParams(model))

	opt, err := optim.New(*optName, *learningRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nStarting training...")
	tr := train.NewTrainer(model, opt)
	tr.Stats = stats
	history, err := tr.Fit(ds, train.FitConfig{
		Epochs:   *epochs,
		MinLoss:  *minLoss,
		LogEvery: logEvery(*epochs),
		Shuffle:  rng,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nTraining complete! Epochs run: %d, final loss: %.6f\n",
		len(history), history[len(history)-1])

	acc, err := tr.Evaluate(boolfn.FullSpace(fn))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Accuracy over the full input space: %.2f%%\n", acc*100)
	if acc == 1.0 {
		fmt.Printf("The %s represents %s perfectly at width %d.\n", *modelType, fn.Name(), *bits)
	}

	if *verbose {
		utils.PrintTimingStats(stats, len(history)*ds.Len())
	}

	if *outputFile != "" {
		fmt.Printf("\nSaving weights to %s...\n", *outputFile)
		if err := saveWeights(model, *outputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Done!")
	}
}

func countParams(model *nn.Sequential) int {
	n := 0
	for _, p := range model.Parameters() {
		n += p.Value.Size()
	}
	return n
}

func logEvery(epochs int) int {
	if epochs >= 1000 {
		return 100
	}
	if epochs >= 100 {
		return 10
	}
	return 1
}

func saveWeights(model *nn.Sequential, filepath string) error {
	weights := &utils.ModelWeights{
		Version: "1.0",
		Model:   *modelType,
		Fn:      *fnName,
		Bits:    *bits,
		Hidden:  *hidden,
		Grid:    *grid,
		Layers:  utils.CollectWeights(model),
	}
	return utils.SaveWeights(filepath, weights)
}
