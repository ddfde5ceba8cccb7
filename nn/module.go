package nn

import (
	"parbench/tensor"
)

// Module defines a single layer/unit in the network.
type Module interface {
	Forward(input *tensor.Tensor) (*tensor.Tensor, error)
	// Backward computes gradients and propagates them.
	// It takes the gradient of the loss with respect to the module's output,
	// accumulates parameter gradients, and returns the gradient of the loss
	// with respect to the module's input.
	Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error)
	Parameters() []*Parameter
	Tag() string
}

// Parameter is a trainable tensor with its accumulated gradient.
type Parameter struct {
	Name  string
	Value *tensor.Tensor
	Grad  *tensor.Tensor
}

// NewParameter wraps a value tensor with a zeroed gradient of the same shape.
func NewParameter(name string, value *tensor.Tensor) *Parameter {
	return &Parameter{
		Name:  name,
		Value: value,
		Grad:  tensor.New(value.Shape...),
	}
}

// Sequential chains multiple Modules in order.
type Sequential struct {
	Layers []Module
}

// Forward applies each layer in sequence.
func (s *Sequential) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	var err error
	out := x
	for _, layer := range s.Layers {
		out, err = layer.Forward(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Backward applies Backward in reverse order.
func (s *Sequential) Backward(grad *tensor.Tensor) (*tensor.Tensor, error) {
	var err error
	out := grad
	for i := len(s.Layers) - 1; i >= 0; i-- {
		out, err = s.Layers[i].Backward(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Parameters collects the parameters of all layers.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, layer := range s.Layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}
