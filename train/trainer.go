package train

import (
	"fmt"
	"math/rand"
	"time"

	"parbench/boolfn"
	"parbench/nn"
	"parbench/optim"
	"parbench/tensor"
	"parbench/utils"
)

// FitConfig controls a training run.
type FitConfig struct {
	Epochs   int
	MinLoss  float64 // early stop when average epoch loss drops below; 0 disables
	LogEvery int     // print a loss line every N epochs; 0 disables
	Shuffle  *rand.Rand
}

// Trainer runs per-sample SGD over a boolean-function dataset.
type Trainer struct {
	Model *nn.Sequential
	Optim optim.Optimizer
	Loss  nn.Loss
	Stats *utils.TimingStats
}

// NewTrainer wires a model to an optimizer with the fused sigmoid-BCE loss.
func NewTrainer(model *nn.Sequential, opt optim.Optimizer) *Trainer {
	return &Trainer{
		Model: model,
		Optim: opt,
		Loss:  &nn.SigmoidBCE{},
		Stats: &utils.TimingStats{},
	}
}

// Fit trains the model and returns the average loss per epoch.
func (tr *Trainer) Fit(ds *boolfn.Dataset, cfg FitConfig) ([]float64, error) {
	if ds.Len() == 0 {
		return nil, fmt.Errorf("empty dataset")
	}
	if cfg.Epochs < 1 {
		return nil, fmt.Errorf("epochs must be positive, got %d", cfg.Epochs)
	}
	params := tr.Model.Parameters()
	history := make([]float64, 0, cfg.Epochs)
	totalStart := time.Now()

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		if cfg.Shuffle != nil {
			ds.Shuffle(cfg.Shuffle)
		}
		epochLoss := 0.0
		for i := 0; i < ds.Len(); i++ {
			loss, err := tr.step(ds.Inputs[i], ds.Labels[i], params)
			if err != nil {
				return history, fmt.Errorf("epoch %d sample %d: %w", epoch, i, err)
			}
			epochLoss += loss
		}
		avg := epochLoss / float64(ds.Len())
		history = append(history, avg)

		if cfg.LogEvery > 0 && epoch%cfg.LogEvery == 0 {
			fmt.Fprintf(utils.Output, "Epoch %d/%d | Loss: %.6f\n", epoch, cfg.Epochs, avg)
		}
		if cfg.MinLoss > 0 && avg < cfg.MinLoss {
			break
		}
	}

	tr.Stats.TotalTime += time.Since(totalStart)
	return history, nil
}

// step runs forward, loss, backward and update for a single sample.
func (tr *Trainer) step(input, label *tensor.Tensor, params []*nn.Parameter) (float64, error) {
	start := time.Now()
	out, err := tr.Model.Forward(input)
	if err != nil {
		return 0, err
	}
	tr.Stats.ForwardPassTime += time.Since(start)

	start = time.Now()
	loss, err := tr.Loss.Forward(out, label)
	if err != nil {
		return 0, err
	}
	tr.Stats.LossComputationTime += time.Since(start)

	start = time.Now()
	grad, err := tr.Loss.Backward()
	if err != nil {
		return 0, err
	}
	if _, err := tr.Model.Backward(grad); err != nil {
		return 0, err
	}
	tr.Stats.BackwardPassTime += time.Since(start)

	start = time.Now()
	if err := tr.Optim.Step(params); err != nil {
		return 0, err
	}
	optim.ZeroGrad(params)
	tr.Stats.UpdateTime += time.Since(start)

	return loss, nil
}

// Evaluate returns the bit accuracy of the model over a dataset. A logit is
// decoded to 1 when its sigmoid probability is at least 0.5.
func (tr *Trainer) Evaluate(ds *boolfn.Dataset) (float64, error) {
	if ds.Len() == 0 {
		return 0, fmt.Errorf("empty dataset")
	}
	start := time.Now()
	defer func() { tr.Stats.EvalTime += time.Since(start) }()

	correct := 0
	for i := 0; i < ds.Len(); i++ {
		out, err := tr.Model.Forward(ds.Inputs[i])
		if err != nil {
			return 0, err
		}
		pred := 0.0
		if nn.Sigmoid(out.Data[0]) >= 0.5 {
			pred = 1.0
		}
		if pred == ds.Labels[i].Data[0] {
			correct++
		}
	}
	return float64(correct) / float64(ds.Len()), nil
}
