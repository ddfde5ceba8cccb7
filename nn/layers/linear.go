package layers

import (
	"fmt"
	"math"
	"math/rand"

	"parbench/nn"
	"parbench/tensor"
)

// Linear is a fully-connected layer computing y = Wx + b on 1-D inputs.
// W has shape (outDim, inDim), b has shape (outDim).
type Linear struct {
	W *nn.Parameter
	B *nn.Parameter

	inDim, outDim int
	lastInput     *tensor.Tensor
}

// NewLinear builds a Linear layer with Xavier-uniform weights and zero bias.
func NewLinear(inDim, outDim int, rng *rand.Rand) *Linear {
	w := tensor.New(outDim, inDim)
	limit := math.Sqrt(6.0 / float64(inDim+outDim))
	for i := range w.Data {
		w.Data[i] = rng.Float64()*2*limit - limit
	}
	return &Linear{
		W:      nn.NewParameter("weight", w),
		B:      nn.NewParameter("bias", tensor.New(outDim)),
		inDim:  inDim,
		outDim: outDim,
	}
}

// Forward computes y = Wx + b, caching x for the backward pass.
func (l *Linear) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if len(x.Data) != l.inDim {
		return nil, fmt.Errorf("Linear %s: expected input dim %d, got %d", l.Tag(), l.inDim, len(x.Data))
	}
	l.lastInput = x.Clone()
	w := l.W.Value
	y := tensor.New(l.outDim)
	for j := 0; j < l.outDim; j++ {
		sum := l.B.Value.Data[j]
		for i := 0; i < l.inDim; i++ {
			sum += w.Data[j*l.inDim+i] * x.Data[i]
		}
		y.Data[j] = sum
	}
	return y, nil
}

// Backward accumulates dL/dW = gradOut·x^T and dL/db = gradOut, and returns
// dL/dx = W^T·gradOut.
func (l *Linear) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if l.lastInput == nil {
		return nil, fmt.Errorf("Linear %s: no cached input for backward pass", l.Tag())
	}
	if len(gradOut.Data) != l.outDim {
		return nil, fmt.Errorf("Linear %s: expected grad dim %d, got %d", l.Tag(), l.outDim, len(gradOut.Data))
	}
	x := l.lastInput
	w := l.W.Value
	gradIn := tensor.New(l.inDim)
	for j := 0; j < l.outDim; j++ {
		g := gradOut.Data[j]
		l.B.Grad.Data[j] += g
		for i := 0; i < l.inDim; i++ {
			l.W.Grad.Data[j*l.inDim+i] += g * x.Data[i]
			gradIn.Data[i] += w.Data[j*l.inDim+i] * g
		}
	}
	return gradIn, nil
}

func (l *Linear) Parameters() []*nn.Parameter {
	return []*nn.Parameter{l.W, l.B}
}

func (l *Linear) Tag() string {
	return fmt.Sprintf("Linear_%d_%d", l.inDim, l.outDim)
}
