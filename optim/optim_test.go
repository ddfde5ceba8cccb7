package optim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"parbench/nn"
	"parbench/tensor"
)

func param(values, grads []float64) *nn.Parameter {
	p := nn.NewParameter("p", tensor.NewWithData(values))
	copy(p.Grad.Data, grads)
	return p
}

func TestSGDNoMomentum(t *testing.T) {
	p := param([]float64{1, 2}, []float64{0.5, -1})
	s := NewSGD(0.1, 0)
	require.NoError(t, s.Step([]*nn.Parameter{p}))
	require.InDelta(t, 0.95, p.Value.Data[0], 1e-12)
	require.InDelta(t, 2.1, p.Value.Data[1], 1e-12)
}

func TestSGDMomentumAccumulates(t *testing.T) {
	p := param([]float64{0}, []float64{1})
	s := NewSGD(0.1, 0.9)
	params := []*nn.Parameter{p}

	require.NoError(t, s.Step(params))
	require.InDelta(t, -0.1, p.Value.Data[0], 1e-12)

	// Same gradient again: velocity = 0.9*1 + 1 = 1.9
	require.NoError(t, s.Step(params))
	require.InDelta(t, -0.1-0.19, p.Value.Data[0], 1e-12)
}

func TestAdamFirstStepIsLR(t *testing.T) {
	// With bias correction, the first Adam step is ≈ lr regardless of
	// gradient magnitude.
	p := param([]float64{0}, []float64{3})
	a := NewAdam(0.01)
	require.NoError(t, a.Step([]*nn.Parameter{p}))
	require.InDelta(t, -0.01, p.Value.Data[0], 1e-6)
}

func TestAdamConvergesOnQuadratic(t *testing.T) {
	// Minimize f(x) = x² from x = 1.
	p := param([]float64{1}, []float64{0})
	a := NewAdam(0.05)
	for i := 0; i < 400; i++ {
		p.Grad.Data[0] = 2 * p.Value.Data[0]
		require.NoError(t, a.Step([]*nn.Parameter{p}))
	}
	require.Less(t, math.Abs(p.Value.Data[0]), 0.05)
}

func TestZeroGrad(t *testing.T) {
	p := param([]float64{1}, []float64{5})
	ZeroGrad([]*nn.Parameter{p})
	require.Zero(t, p.Grad.Data[0])
}

func TestNewByName(t *testing.T) {
	for _, name := range []string{"sgd", "adam"} {
		opt, err := New(name, 0.01)
		require.NoError(t, err)
		require.Equal(t, name, opt.Name())
	}
	_, err := New("rmsprop", 0.01)
	require.Error(t, err)
}
