package layers

import (
	"fmt"
	"math"
	"math/rand"

	"parbench/nn"
	"parbench/tensor"
)

// RNN is an Elman recurrent layer that consumes its 1-D input as a sequence
// of scalar steps: h_t = tanh(Wx*x_t + Whh*h_{t-1} + b). It emits the final
// hidden state, so a bit string of width `steps` maps to a vector of size
// `hidden`.
type RNN struct {
	Wx  *nn.Parameter // (hidden) input-to-hidden, scalar input per step
	Whh *nn.Parameter // (hidden, hidden)
	B   *nn.Parameter // (hidden)

	hidden, steps int

	lastInput *tensor.Tensor
	states    *tensor.Tensor // (steps+1, hidden), row 0 is h_0 = 0
}

// NewRNN builds an RNN with Xavier-normal weights.
func NewRNN(hidden, steps int, rng *rand.Rand) *RNN {
	stdX := math.Sqrt(2.0 / float64(1+hidden))
	stdH := math.Sqrt(1.0 / float64(hidden))

	wx := tensor.New(hidden)
	for i := range wx.Data {
		wx.Data[i] = rng.NormFloat64() * stdX
	}
	whh := tensor.New(hidden, hidden)
	for i := range whh.Data {
		whh.Data[i] = rng.NormFloat64() * stdH
	}
	return &RNN{
		Wx:     nn.NewParameter("wx", wx),
		Whh:    nn.NewParameter("whh", whh),
		B:      nn.NewParameter("bias", tensor.New(hidden)),
		hidden: hidden,
		steps:  steps,
	}
}

func (r *RNN) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if len(x.Data) != r.steps {
		return nil, fmt.Errorf("RNN %s: expected %d steps, got %d", r.Tag(), r.steps, len(x.Data))
	}
	r.lastInput = x.Clone()
	r.states = tensor.New(r.steps+1, r.hidden)

	h := r.hidden
	for t := 1; t <= r.steps; t++ {
		xt := x.Data[t-1]
		for j := 0; j < h; j++ {
			sum := r.B.Value.Data[j] + r.Wx.Value.Data[j]*xt
			for k := 0; k < h; k++ {
				sum += r.Whh.Value.Data[j*h+k] * r.states.Data[(t-1)*h+k]
			}
			r.states.Data[t*h+j] = math.Tanh(sum)
		}
	}

	out := tensor.New(h)
	copy(out.Data, r.states.Data[r.steps*h:])
	return out, nil
}

// Backward runs full backpropagation through time over all steps.
func (r *RNN) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if r.states == nil {
		return nil, fmt.Errorf("RNN %s: no cached states for backward pass", r.Tag())
	}
	h := r.hidden
	if len(gradOut.Data) != h {
		return nil, fmt.Errorf("RNN %s: expected grad dim %d, got %d", r.Tag(), h, len(gradOut.Data))
	}

	gradIn := tensor.New(r.steps)
	dh := append([]float64(nil), gradOut.Data...)

	for t := r.steps; t >= 1; t-- {
		xt := r.lastInput.Data[t-1]
		dhPrev := make([]float64, h)
		for j := 0; j < h; j++ {
			ht := r.states.Data[t*h+j]
			da := dh[j] * (1 - ht*ht) // tanh derivative
			r.Wx.Grad.Data[j] += da * xt
			r.B.Grad.Data[j] += da
			gradIn.Data[t-1] += r.Wx.Value.Data[j] * da
			for k := 0; k < h; k++ {
				r.Whh.Grad.Data[j*h+k] += da * r.states.Data[(t-1)*h+k]
				dhPrev[k] += r.Whh.Value.Data[j*h+k] * da
			}
		}
		dh = dhPrev
	}
	return gradIn, nil
}

func (r *RNN) Parameters() []*nn.Parameter {
	return []*nn.Parameter{r.Wx, r.Whh, r.B}
}

func (r *RNN) Tag() string {
	return fmt.Sprintf("RNN_%d_%d", r.hidden, r.steps)
}
