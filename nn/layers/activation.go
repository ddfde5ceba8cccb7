package layers

import (
	"fmt"
	"math"

	"parbench/nn"
	"parbench/tensor"
)

// Activator is an element-wise activation with its derivative.
type Activator struct {
	Name  string
	Fn    func(float64) float64
	Deriv func(float64) float64 // derivative expressed in terms of the input
}

// ActivatorLookup maps names to supported activations.
var ActivatorLookup = map[string]Activator{
	"sigmoid": {
		Name: "sigmoid",
		Fn:   nn.Sigmoid,
		Deriv: func(x float64) float64 {
			s := nn.Sigmoid(x)
			return s * (1 - s)
		},
	},
	"tanh": {
		Name: "tanh",
		Fn:   math.Tanh,
		Deriv: func(x float64) float64 {
			t := math.Tanh(x)
			return 1 - t*t
		},
	},
	"relu": {
		Name: "relu",
		Fn: func(x float64) float64 {
			if x > 0 {
				return x
			}
			return 0
		},
		Deriv: func(x float64) float64 {
			if x > 0 {
				return 1
			}
			return 0
		},
	},
}

// Activation applies an element-wise nonlinearity.
type Activation struct {
	act       Activator
	lastInput *tensor.Tensor
}

// NewActivation creates an activation layer by name.
func NewActivation(name string) (*Activation, error) {
	act, ok := ActivatorLookup[name]
	if !ok {
		return nil, fmt.Errorf("unsupported activation: %s", name)
	}
	return &Activation{act: act}, nil
}

func (a *Activation) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	a.lastInput = x.Clone()
	y := tensor.New(x.Shape...)
	for i, v := range x.Data {
		y.Data[i] = a.act.Fn(v)
	}
	return y, nil
}

func (a *Activation) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if a.lastInput == nil {
		return nil, fmt.Errorf("Activation %s: no cached input for backward pass", a.act.Name)
	}
	if len(gradOut.Data) != len(a.lastInput.Data) {
		return nil, fmt.Errorf("Activation %s: grad size %d, input size %d", a.act.Name, len(gradOut.Data), len(a.lastInput.Data))
	}
	gradIn := tensor.New(a.lastInput.Shape...)
	for i := range gradIn.Data {
		gradIn.Data[i] = gradOut.Data[i] * a.act.Deriv(a.lastInput.Data[i])
	}
	return gradIn, nil
}

func (a *Activation) Parameters() []*nn.Parameter { return nil }

func (a *Activation) Tag() string {
	return "Activation_" + a.act.Name
}
