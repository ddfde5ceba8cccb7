package layers

import (
	"fmt"
	"math"
	"math/rand"

	"parbench/nn"
	"parbench/tensor"
)

// lstmGate bundles the three parameter tensors of one LSTM gate.
type lstmGate struct {
	Wx *nn.Parameter // (hidden) input weight, scalar input per step
	Wh *nn.Parameter // (hidden, hidden) recurrent weight
	B  *nn.Parameter // (hidden)
}

func newLSTMGate(name string, hidden int, biasInit float64, rng *rand.Rand) lstmGate {
	stdX := math.Sqrt(2.0 / float64(1+hidden))
	stdH := math.Sqrt(1.0 / float64(hidden))

	wx := tensor.New(hidden)
	for i := range wx.Data {
		wx.Data[i] = rng.NormFloat64() * stdX
	}
	wh := tensor.New(hidden, hidden)
	for i := range wh.Data {
		wh.Data[i] = rng.NormFloat64() * stdH
	}
	b := tensor.New(hidden)
	for i := range b.Data {
		b.Data[i] = biasInit
	}
	return lstmGate{
		Wx: nn.NewParameter("wx_"+name, wx),
		Wh: nn.NewParameter("wh_"+name, wh),
		B:  nn.NewParameter("b_"+name, b),
	}
}

// preact computes the gate pre-activation for step t given the scalar input
// and the previous hidden state row.
func (g *lstmGate) preact(j, h int, xt float64, hPrev []float64) float64 {
	sum := g.B.Value.Data[j] + g.Wx.Value.Data[j]*xt
	for k := 0; k < h; k++ {
		sum += g.Wh.Value.Data[j*h+k] * hPrev[k]
	}
	return sum
}

// LSTM is a single-layer LSTM over the 1-D input viewed as a sequence of
// scalar steps. It emits the final hidden state. The forget-gate bias is
// initialized to 1.0 so the cell remembers by default.
type LSTM struct {
	in, forget, cell, out lstmGate

	hidden, steps int

	lastInput  *tensor.Tensor
	hs, cs     *tensor.Tensor // (steps+1, hidden), row 0 is the zero state
	iv, fv, gv *tensor.Tensor // gate activations, (steps, hidden)
	ov, ctanh  *tensor.Tensor
}

// NewLSTM builds an LSTM with Xavier-normal weights.
func NewLSTM(hidden, steps int, rng *rand.Rand) *LSTM {
	return &LSTM{
		in:     newLSTMGate("i", hidden, 0, rng),
		forget: newLSTMGate("f", hidden, 1.0, rng),
		cell:   newLSTMGate("g", hidden, 0, rng),
		out:    newLSTMGate("o", hidden, 0, rng),
		hidden: hidden,
		steps:  steps,
	}
}

func (l *LSTM) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if len(x.Data) != l.steps {
		return nil, fmt.Errorf("LSTM %s: expected %d steps, got %d", l.Tag(), l.steps, len(x.Data))
	}
	h := l.hidden
	l.lastInput = x.Clone()
	l.hs = tensor.New(l.steps+1, h)
	l.cs = tensor.New(l.steps+1, h)
	l.iv = tensor.New(l.steps, h)
	l.fv = tensor.New(l.steps, h)
	l.gv = tensor.New(l.steps, h)
	l.ov = tensor.New(l.steps, h)
	l.ctanh = tensor.New(l.steps, h)

	for t := 1; t <= l.steps; t++ {
		xt := x.Data[t-1]
		hPrev := l.hs.Data[(t-1)*h : t*h]
		for j := 0; j < h; j++ {
			gi := nn.Sigmoid(l.in.preact(j, h, xt, hPrev))
			gf := nn.Sigmoid(l.forget.preact(j, h, xt, hPrev))
			gg := math.Tanh(l.cell.preact(j, h, xt, hPrev))
			go_ := nn.Sigmoid(l.out.preact(j, h, xt, hPrev))

			c := gf*l.cs.Data[(t-1)*h+j] + gi*gg
			ct := math.Tanh(c)

			l.iv.Data[(t-1)*h+j] = gi
			l.fv.Data[(t-1)*h+j] = gf
			l.gv.Data[(t-1)*h+j] = gg
			l.ov.Data[(t-1)*h+j] = go_
			l.cs.Data[t*h+j] = c
			l.ctanh.Data[(t-1)*h+j] = ct
			l.hs.Data[t*h+j] = go_ * ct
		}
	}

	outT := tensor.New(h)
	copy(outT.Data, l.hs.Data[l.steps*h:])
	return outT, nil
}

// Backward runs BPTT through every gate.
func (l *LSTM) Backward(gradOut *tensor.Tensor) (*tensor.Tensor, error) {
	if l.hs == nil {
		return nil, fmt.Errorf("LSTM %s: no cached states for backward pass", l.Tag())
	}
	h := l.hidden
	if len(gradOut.Data) != h {
		return nil, fmt.Errorf("LSTM %s: expected grad dim %d, got %d", l.Tag(), h, len(gradOut.Data))
	}

	gradIn := tensor.New(l.steps)
	dh := append([]float64(nil), gradOut.Data...)
	dc := make([]float64, h)

	for t := l.steps; t >= 1; t-- {
		xt := l.lastInput.Data[t-1]
		hPrev := l.hs.Data[(t-1)*h : t*h]
		dhPrev := make([]float64, h)
		dcPrev := make([]float64, h)
		for j := 0; j < h; j++ {
			gi := l.iv.Data[(t-1)*h+j]
			gf := l.fv.Data[(t-1)*h+j]
			gg := l.gv.Data[(t-1)*h+j]
			go_ := l.ov.Data[(t-1)*h+j]
			ct := l.ctanh.Data[(t-1)*h+j]

			do := dh[j] * ct
			dcell := dc[j] + dh[j]*go_*(1-ct*ct)

			di := dcell * gg
			dg := dcell * gi
			df := dcell * l.cs.Data[(t-1)*h+j]
			dcPrev[j] = dcell * gf

			// Back through the gate nonlinearities
			diPre := di * gi * (1 - gi)
			dfPre := df * gf * (1 - gf)
			dgPre := dg * (1 - gg*gg)
			doPre := do * go_ * (1 - go_)

			l.in.B.Grad.Data[j] += diPre
			l.forget.B.Grad.Data[j] += dfPre
			l.cell.B.Grad.Data[j] += dgPre
			l.out.B.Grad.Data[j] += doPre

			l.in.Wx.Grad.Data[j] += diPre * xt
			l.forget.Wx.Grad.Data[j] += dfPre * xt
			l.cell.Wx.Grad.Data[j] += dgPre * xt
			l.out.Wx.Grad.Data[j] += doPre * xt

			gradIn.Data[t-1] += l.in.Wx.Value.Data[j]*diPre +
				l.forget.Wx.Value.Data[j]*dfPre +
				l.cell.Wx.Value.Data[j]*dgPre +
				l.out.Wx.Value.Data[j]*doPre

			for k := 0; k < h; k++ {
				l.in.Wh.Grad.Data[j*h+k] += diPre * hPrev[k]
				l.forget.Wh.Grad.Data[j*h+k] += dfPre * hPrev[k]
				l.cell.Wh.Grad.Data[j*h+k] += dgPre * hPrev[k]
				l.out.Wh.Grad.Data[j*h+k] += doPre * hPrev[k]

				dhPrev[k] += l.in.Wh.Value.Data[j*h+k]*diPre +
					l.forget.Wh.Value.Data[j*h+k]*dfPre +
					l.cell.Wh.Value.Data[j*h+k]*dgPre +
					l.out.Wh.Value.Data[j*h+k]*doPre
			}
		}
		dh = dhPrev
		dc = dcPrev
	}
	return gradIn, nil
}

func (l *LSTM) Parameters() []*nn.Parameter {
	var params []*nn.Parameter
	for _, g := range []lstmGate{l.in, l.forget, l.cell, l.out} {
		params = append(params, g.Wx, g.Wh, g.B)
	}
	return params
}

func (l *LSTM) Tag() string {
	return fmt.Sprintf("LSTM_%d_%d", l.hidden, l.steps)
}
