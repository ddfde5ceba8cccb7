package layers

import (
	"fmt"
	"math"
	"math/rand"

	"parbench/nn"
	"parbench/tensor"
)

// KAN is a Kolmogorov-Arnold layer: each edge (i -> j) carries its own
// learnable univariate function instead of a scalar weight. The edge
// functions are Gaussian RBF expansions on a fixed grid plus a SiLU base
// branch:
//
//	y_j = b_j + Σ_i [ wb_ji·silu(x_i) + Σ_k ws_jik·exp(-((x_i-c_k)/h)²) ]
//
// This is the radial-basis formulation of the KAN spline layer; it spans the
// same function class as B-splines with exact, cheap gradients.
type KAN struct {
	BaseW   *nn.Parameter // (out, in)
	SplineW *nn.Parameter // (out, in, grid)
	B       *nn.Parameter // (out)

	inDim, outDim, grid int
	centers             []float64
	bandwidth           float64

	lastInput *tensor.Tensor
	silu      []float64 // silu(x_i), cached per forward
	basis     []float64 // (in, grid) RBF values, cached per forward
}

// gridLo and gridHi bound the RBF grid. Inputs are 0/1 bits at the first
// layer but intermediate activations drift, so the grid covers [-2, 2].
const (
	gridLo = -2.0
	gridHi = 2.0
)

// NewKAN builds a KAN layer with `grid` basis functions per edge (minimum 3).
func NewKAN(inDim, outDim, grid int, rng *rand.Rand) (*KAN, error) {
	if grid < 3 {
		return nil, fmt.Errorf("KAN grid must be at least 3, got %d", grid)
	}
	spacing := (gridHi - gridLo) / float64(grid-1)
	centers := make([]float64, grid)
	for k := range centers {
		centers[k] = gridLo + float64(k)*spacing
	}

	base := tensor.New(outDim, inDim)
	limit := math.Sqrt(6.0 / float64(inDim+outDim))
	for i := range base.Data {
		base.Data[i] = rng.Float64()*2*limit - limit
	}
	// Spline coefficients start small so the layer begins near its base branch.
	spline := tensor.New(outDim, inDim, grid)
	splineStd := 0.1 / math.Sqrt(float64(grid))
	for i := range spline.Data {
		spline.Data[i] = rng.NormFloat64() * splineStd
	}

	return &KAN{
		BaseW:     nn.NewParameter("base", base),
		SplineW:   nn.NewParameter("spline", spline),
		B:         nn.NewParameter("bias", tensor.New(outDim)),
		inDim:     inDim,
		outDim:    outDim,
		grid:      grid,
		centers:   centers,
		bandwidth: spacing,
	}, nil
}

func silu(x float64) float64 {
	return x * nn.Sigmoid(x)
}

func siluDeriv(x float64) float64 {
	s := nn.Sigmoid(x)
	return s * (1 + x*(1-s))
}

func (l *KAN) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if len(x.Data) != l.inDim {
		return nil, fmt.Errorf("KAN %s: expected input dim %d, got %d", l.Tag(), l.inDim, len(x.Data))
	}
	l.lastInput = x.Clone()
	l.silu = make([]float64, l.inDim)
	l.basis = make([]float64, l.inDim*l.grid)
	for i, v := range x.Data {
		l.silu[i] = silu(v)
		for k := 0; k < l.grid; k++ {
			u := (v - l.centers[k]) / l.bandwidth
			l.basis[i*l.grid+k] = math.Exp(-u * u)
		}
	}

	y := tensor.New(l.outDim)
	for j := 0; j < l.outDim; j++ {
		sum := l.B.Value.Data[j]
		for i := 0; i < l.inDim; i++ {
			sum += l.BaseW.Value.Data[j*l.inDim+i] * l.silu[i]
			off := (j*l.inDim + i) * l.grid
			for k := 0; k < l.grid; k++ {
				sum += l.SplineW.Value.Data[off+k] * l.basis[i*l.grid+k]
			}
		}
		y.Data[j] = sum
	}
	return y, nil
}

func (l *KAN) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if l.lastInput == nil {
		return nil, fmt.Errorf("KAN %s: no cached input for backward pass", l.Tag())
	}
	if len(gradOut.Data) != l.outDim {
		return nil, fmt.Errorf("KAN %s: expected grad dim %d, got %d", l.Tag(), l.outDim, len(gradOut.Data))
	}

	gradIn := tensor.New(l.inDim)
	for j := 0; j < l.outDim; j++ {
		g := gradOut.Data[j]
		l.B.Grad.Data[j] += g
		for i := 0; i < l.inDim; i++ {
			xi := l.lastInput.Data[i]
			l.BaseW.Grad.Data[j*l.inDim+i] += g * l.silu[i]
			gradIn.Data[i] += g * l.BaseW.Value.Data[j*l.inDim+i] * siluDeriv(xi)
			off := (j*l.inDim + i) * l.grid
			for k := 0; k < l.grid; k++ {
				phi := l.basis[i*l.grid+k]
				l.SplineW.Grad.Data[off+k] += g * phi
				// dφ/dx = φ · (-2(x-c)/h²)
				dphi := phi * (-2 * (xi - l.centers[k]) / (l.bandwidth * l.bandwidth))
				gradIn.Data[i] += g * l.SplineW.Value.Data[off+k] * dphi
			}
		}
	}
	return gradIn, nil
}

func (l *KAN) Parameters() []*nn.Parameter {
	return []*nn.Parameter{l.BaseW, l.SplineW, l.B}
}

func (l *KAN) Tag() string {
	return fmt.Sprintf("KAN_%d_%d_g%d", l.inDim, l.outDim, l.grid)
}
