// parbench-bench: sweeps the compared architectures across input widths
// and seeds on one boolean function, tabulating how accuracy degrades as
// the width grows.
//
// Usage:
//
//	parbench-bench --models=mlp,rnn,lstm,kan --widths=2,3,4,5 --seeds=3
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat"

	"parbench/boolfn"
	"parbench/nn"
	"parbench/nn/bench"
	"parbench/nn/layers"
	"parbench/refnet"
	"parbench/results"
	"parbench/tensor"
	"parbench/train"
	"parbench/utils"
)

var (
	models       = flag.String("models", "mlp,rnn,lstm,kan", "Comma-separated model list (refnet adds the gonum baseline)")
	widths       = flag.String("widths", "2,3,4,5", "Comma-separated input widths in bits")
	fnName       = flag.String("fn", "parity", "Boolean function: parity, majority, and, or, first, random")
	seeds        = flag.Int("seeds", 3, "Seeds (independent runs) per configuration")
	hidden       = flag.Int("hidden", 8, "Hidden layer size")
	grid         = flag.Int("grid", train.DefaultGrid, "KAN basis size per edge")
	epochs       = flag.Int("epochs", 500, "Training epochs per run")
	learningRate = flag.Float64("lr", 0.01, "Learning rate")
	optName      = flag.String("optimizer", "adam", "Optimizer: sgd, adam")
	dbPath       = flag.String("db", "", "SQLite database to accumulate runs in (optional)")
	csvPath      = flag.String("csv", "", "CSV file to append per-run rows to (optional)")
	micro        = flag.Bool("micro", false, "Run the per-layer microbenchmark instead of the sweep")
	microRuns    = flag.Int("micro-runs", 1000, "Passes per layer in the microbenchmark")
	verbose      = flag.Bool("verbose", true, "Verbose output")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	if *micro {
		if err := runMicro(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg := &utils.BenchConfig{
		Models:       utils.ParseStringList(*models),
		Fn:           *fnName,
		Seeds:        *seeds,
		Hidden:       *hidden,
		Grid:         *grid,
		Epochs:       *epochs,
		LearningRate: *learningRate,
	}
	var err error
	cfg.Widths, err = utils.ParseIntList(*widths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := utils.ValidateBenchConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var store *results.Store
	if *dbPath != "" {
		store, err = results.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                  parbench Comparison                         ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nSweep: %v x widths %v x %d seeds on %s, %d epochs each\n\n",
		cfg.Models, cfg.Widths, cfg.Seeds, cfg.Fn, cfg.Epochs)

	var all []train.Result
	for _, model := range cfg.Models {
		for _, bits := range cfg.Widths {
			for seed := 0; seed < cfg.Seeds; seed++ {
				res, err := runOne(cfg, model, bits, int64(seed))
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: %s bits=%d seed=%d: %v\n", model, bits, seed, err)
					os.Exit(1)
				}
				all = append(all, res)

				if utils.Verbose {
					fmt.Fprintf(utils.Output, "%-6s bits=%-2d seed=%-2d | loss %.4f | accuracy %6.2f%% | %v\n",
						model, bits, seed, res.FinalLoss, res.Accuracy*100, res.Duration.Round(time.Millisecond))
				}
				if store != nil {
					if _, err := store.SaveRun(res); err != nil {
						fmt.Fprintf(os.Stderr, "Error saving run: %v\n", err)
						os.Exit(1)
					}
				}
			}
		}
	}

	printSummary(cfg, all)

	if *csvPath != "" {
		if err := writeCSV(*csvPath, all); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing csv: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote %d rows to %s\n", len(all), *csvPath)
	}
}

// runOne trains one model at one width with one seed. The refnet baseline
// goes through its own gonum path; everything else uses train.Run.
func runOne(cfg *utils.BenchConfig, model string, bits int, seed int64) (train.Result, error) {
	if model != "refnet" {
		return train.Run(train.RunConfig{
			Model:        model,
			Fn:           cfg.Fn,
			Bits:         bits,
			Hidden:       cfg.Hidden,
			Grid:         cfg.Grid,
			Seed:         seed,
			Epochs:       cfg.Epochs,
			LearningRate: cfg.LearningRate,
			Optimizer:    *optName,
		})
	}

	res := train.Result{
		Model:        model,
		Fn:           cfg.Fn,
		Bits:         bits,
		Hidden:       cfg.Hidden,
		Seed:         seed,
		Epochs:       cfg.Epochs,
		LearningRate: cfg.LearningRate,
	}
	fn, err := boolfn.New(cfg.Fn, bits, seed)
	if err != nil {
		return res, err
	}
	ds := boolfn.FullSpace(fn)

	net, err := refnet.NewNetwork(refnet.Config{
		Name:               fmt.Sprintf("%s-%d", cfg.Fn, bits),
		InputNum:           bits,
		HiddenLayerNeurons: []int{cfg.Hidden},
		Activator:          refnet.ActivatorLookup["tanh"],
		LearningRate:       cfg.LearningRate,
		Epochs:             cfg.Epochs,
	})
	if err != nil {
		return res, err
	}

	start := time.Now()
	if err := net.Train(ds); err != nil {
		return res, err
	}
	res.Duration = time.Since(start)
	res.Accuracy = net.Accuracy(ds)
	res.Perfect = res.Accuracy == 1.0
	return res, nil
}

// printSummary tabulates mean and standard deviation of accuracy per model
// and width, plus how many of the seeds reached a perfect representation.
func printSummary(cfg *utils.BenchConfig, all []train.Result) {
	fmt.Printf("\n%-8s", "model")
	for _, bits := range cfg.Widths {
		fmt.Printf(" %16s", fmt.Sprintf("%d bits", bits))
	}
	fmt.Println()

	for _, model := range cfg.Models {
		fmt.Printf("%-8s", model)
		for _, bits := range cfg.Widths {
			var accs []float64
			perfect := 0
			for _, r := range all {
				if r.Model != model || r.Bits != bits {
					continue
				}
				accs = append(accs, r.Accuracy)
				if r.Perfect {
					perfect++
				}
			}
			mean := stat.Mean(accs, nil)
			std := 0.0
			if len(accs) > 1 {
				std = stat.StdDev(accs, nil)
			}
			fmt.Printf(" %7.2f±%-5.2f %d/%d", mean*100, std*100, perfect, len(accs))
		}
		fmt.Println()
	}
	fmt.Println("\nCells are accuracy mean±std (%) and perfect-runs/seeds over the full input space.")
}

func writeCSV(path string, all []train.Result) error {
	var needsHeaders bool
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeaders = true
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if needsHeaders {
		if err := w.Write([]string{
			"model", "fn", "bits", "hidden", "seed", "epochs", "lr", "final_loss", "accuracy", "perfect", "duration_ms",
		}); err != nil {
			return fmt.Errorf("writing csv headers: %w", err)
		}
	}
	for _, r := range all {
		record := []string{
			r.Model,
			r.Fn,
			strconv.Itoa(r.Bits),
			strconv.Itoa(r.Hidden),
			strconv.FormatInt(r.Seed, 10),
			strconv.Itoa(r.Epochs),
			strconv.FormatFloat(r.LearningRate, 'f', 4, 64),
			strconv.FormatFloat(r.FinalLoss, 'f', 6, 64),
			strconv.FormatFloat(r.Accuracy, 'f', 5, 64),
			strconv.FormatBool(r.Perfect),
			strconv.FormatInt(r.Duration.Milliseconds(), 10),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// runMicro times each layer type in isolation at the configured sizes.
func runMicro() error {
	widthList, err := utils.ParseIntList(*widths)
	if err != nil {
		return err
	}

	for _, bits := range widthList {
		rng := rand.New(rand.NewSource(1))
		input := tensor.New(bits)
		for i := range input.Data {
			input.Data[i] = float64(rng.Intn(2))
		}

		act, err := layers.NewActivation("tanh")
		if err != nil {
			return err
		}
		kan, err := layers.NewKAN(bits, *hidden, *grid, rng)
		if err != nil {
			return err
		}

		// The activation works on the hidden vector, everything else on
		// the raw bit vector.
		cases := []struct {
			layer nn.Module
			input *tensor.Tensor
		}{
			{layers.NewLinear(bits, *hidden, rng), input},
			{act, tensor.New(*hidden)},
			{layers.NewRNN(*hidden, bits, rng), input},
			{layers.NewLSTM(*hidden, bits, rng), input},
			{kan, input},
		}

		fmt.Printf("\n--- %d-bit input, hidden %d, %d runs ---\n", bits, *hidden, *microRuns)
		var points []bench.Point
		for _, c := range cases {
			p, err := bench.TimeLayer(c.layer, c.input, *microRuns)
			if err != nil {
				return err
			}
			points = append(points, p)
		}
		bench.Print(points)
	}
	return nil
}
