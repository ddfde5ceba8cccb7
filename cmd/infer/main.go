// parbench-infer: loads a trained checkpoint and evaluates it over the
// full input space of its boolean function, printing the truth table for
// small widths. Without --weights it runs a quick XOR demo: train a small
// MLP on 2-bit parity and show the learned table.
//
// Usage:
//
//	parbench-infer --weights=model.json
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"parbench/boolfn"
	"parbench/nn"
	"parbench/optim"
	"parbench/train"
	"parbench/utils"
)

var (
	weightsFile = flag.String("weights", "", "Weights file (JSON) written by parbench-train; empty runs the XOR demo")
	tableBits   = flag.Int("table-bits", 4, "Print the truth table when the width is at most this")
	verbose     = flag.Bool("verbose", true, "Verbose output")
	fnSeed      = flag.Int64("fn-seed", 42, "Seed for the random function's truth table")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                  parbench Inference                          ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")

	var (
		model     *nn.Sequential
		modelName string
		fnName    string
		bits      int
		err       error
	)
	if *weightsFile == "" {
		fmt.Println("\nNo weights file given, running the XOR demo...")
		model, err = demoModel()
		modelName, fnName, bits = "mlp", "parity", 2
	} else {
		var weights *utils.ModelWeights
		weights, err = utils.LoadWeights(*weightsFile)
		if err == nil {
			fmt.Printf("\nCheckpoint:\n")
			fmt.Printf("  Model:    %s\n", weights.Model)
			fmt.Printf("  Function: %s\n", weights.Fn)
			fmt.Printf("  Bits:     %d\n", weights.Bits)
			fmt.Printf("  Hidden:   %d\n", weights.Hidden)
			model, err = restoreModel(weights)
			modelName, fnName, bits = weights.Model, weights.Fn, weights.Bits
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fn, err := boolfn.New(fnName, bits, *fnSeed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := evaluate(model, modelName, fn); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// restoreModel rebuilds the architecture from the checkpoint metadata and
// overwrites its weights. The rng only seeds values ApplyWeights replaces.
func restoreModel(weights *utils.ModelWeights) (*nn.Sequential, error) {
	model, err := train.BuildModel(weights.Model, weights.Bits, weights.Hidden, weights.Grid, rand.New(rand.NewSource(0)))
	if err != nil {
		return nil, err
	}
	if err := utils.ApplyWeights(model, weights.Layers); err != nil {
		return nil, fmt.Errorf("applying weights: %w", err)
	}
	return model, nil
}

// demoModel trains a small MLP on 2-bit parity.
func demoModel() (*nn.Sequential, error) {
	fn, err := boolfn.New("parity", 2, *fnSeed)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(*fnSeed))
	model, err := train.BuildModel("mlp", 2, 8, 0, rng)
	if err != nil {
		return nil, err
	}

	tr := train.NewTrainer(model, optim.NewAdam(0.05))
	history, err := tr.Fit(boolfn.FullSpace(fn), train.FitConfig{
		Epochs:  2000,
		MinLoss: 0.01,
		Shuffle: rng,
	})
	if err != nil {
		return nil, err
	}
	fmt.Printf("Demo training: %d epochs, final loss %.6f\n", len(history), history[len(history)-1])
	return model, nil
}

func evaluate(model *nn.Sequential, modelName string, fn boolfn.Func) error {
	ds := boolfn.FullSpace(fn)
	bits := fn.Bits()

	correct := 0
	printTable := bits <= *tableBits
	if printTable {
		fmt.Printf("\n%-*s  %s  %s\n", bits+6, "input", "want", "got")
	}
	for i := 0; i < ds.Len(); i++ {
		out, err := model.Forward(ds.Inputs[i])
		if err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
		pred := 0
		if nn.Sigmoid(out.Data[0]) >= 0.5 {
			pred = 1
		}
		want := int(ds.Labels[i].Data[0])
		if pred == want {
			correct++
		}
		if printTable {
			mark := ""
			if pred != want {
				mark = "  <-- wrong"
			}
			fmt.Printf("%-*s  %4d  %3d%s\n", bits+6, formatBits(ds.Inputs[i].Data), want, pred, mark)
		}
	}

	acc := float64(correct) / float64(ds.Len())
	fmt.Printf("\nAccuracy over the full %d-bit space: %.2f%% (%d/%d)\n",
		bits, acc*100, correct, ds.Len())
	if acc == 1.0 {
		fmt.Printf("The %s represents %s perfectly at width %d.\n", modelName, fn.Name(), bits)
	}
	return nil
}

func formatBits(data []float64) string {
	var b strings.Builder
	for _, v := range data {
		if v >= 0.5 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
