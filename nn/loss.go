package nn

import (
	"fmt"
	"math"

	"parbench/tensor"
)

// Loss scores a model output against a target and produces the gradient of
// the loss with respect to the output.
type Loss interface {
	Forward(output, target *tensor.Tensor) (float64, error)
	Backward() (*tensor.Tensor, error)
	Name() string
}

// Sigmoid is the logistic function.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// SigmoidBCE is binary cross-entropy fused with a sigmoid on the logit.
// The fused backward gradient is simply p - y, which avoids the unstable
// division in a separate BCE-on-probability backward.
type SigmoidBCE struct {
	probs  *tensor.Tensor
	target *tensor.Tensor
}

func (l *SigmoidBCE) Forward(output, target *tensor.Tensor) (float64, error) {
	if len(output.Data) != len(target.Data) {
		return 0, fmt.Errorf("output/target size mismatch: %d vs %d", len(output.Data), len(target.Data))
	}
	l.probs = tensor.New(output.Shape...)
	l.target = target
	loss := 0.0
	for i, logit := range output.Data {
		p := Sigmoid(logit)
		l.probs.Data[i] = p
		y := target.Data[i]
		// Clamp to keep log finite
		if p < 1e-12 {
			p = 1e-12
		}
		if p > 1-1e-12 {
			p = 1 - 1e-12
		}
		loss -= y*math.Log(p) + (1-y)*math.Log(1-p)
	}
	return loss / float64(len(output.Data)), nil
}

func (l *SigmoidBCE) Backward() (*tensor.Tensor, error) {
	if l.probs == nil {
		return nil, fmt.Errorf("no cached forward pass")
	}
	grad := tensor.New(l.probs.Shape...)
	for i := range grad.Data {
		grad.Data[i] = (l.probs.Data[i] - l.target.Data[i]) / float64(len(grad.Data))
	}
	return grad, nil
}

func (l *SigmoidBCE) Name() string { return "sigmoid-bce" }

// Probs returns the probabilities from the last forward pass.
func (l *SigmoidBCE) Probs() *tensor.Tensor { return l.probs }

// MSE is mean squared error on the raw output.
type MSE struct {
	output *tensor.Tensor
	target *tensor.Tensor
}

func (l *MSE) Forward(output, target *tensor.Tensor) (float64, error) {
	if len(output.Data) != len(target.Data) {
		return 0, fmt.Errorf("output/target size mismatch: %d vs %d", len(output.Data), len(target.Data))
	}
	l.output = output
	l.target = target
	loss := 0.0
	for i := range output.Data {
		d := output.Data[i] - target.Data[i]
		loss += d * d
	}
	return loss / float64(len(output.Data)), nil
}

func (l *MSE) Backward() (*tensor.Tensor, error) {
	if l.output == nil {
		return nil, fmt.Errorf("no cached forward pass")
	}
	grad := tensor.New(l.output.Shape...)
	n := float64(len(grad.Data))
	for i := range grad.Data {
		grad.Data[i] = 2 * (l.output.Data[i] - l.target.Data[i]) / n
	}
	return grad, nil
}

func (l *MSE) Name() string { return "mse" }
