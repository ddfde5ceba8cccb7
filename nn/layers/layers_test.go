package layers

import (
	"math"
	"math/rand"
	"testing"

	"parbench/tensor"
)

func TestLinearForwardKnownValues(t *testing.T) {
	lin := NewLinear(3, 2, rand.New(rand.NewSource(1)))
	copy(lin.W.Value.Data, []float64{
		1, 2, 3,
		0, -1, 1,
	})
	copy(lin.B.Value.Data, []float64{10, 20})

	y, err := lin.Forward(tensor.NewWithData([]float64{1, 2, 3}))
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1*1 + 2*2 + 3*3 + 10, 0*1 - 1*2 + 1*3 + 20}
	for i := range want {
		if y.Data[i] != want[i] {
			t.Errorf("y[%d] = %f, want %f", i, y.Data[i], want[i])
		}
	}
}

func TestLinearRejectsBadDims(t *testing.T) {
	lin := NewLinear(3, 2, rand.New(rand.NewSource(1)))
	if _, err := lin.Forward(tensor.New(4)); err == nil {
		t.Error("expected input dim error")
	}
	if _, err := lin.Backward(tensor.New(2)); err == nil {
		t.Error("expected backward-before-forward error")
	}
}

func TestActivationKnownValues(t *testing.T) {
	act, err := NewActivation("tanh")
	if err != nil {
		t.Fatal(err)
	}
	y, err := act.Forward(tensor.NewWithData([]float64{0, 1}))
	if err != nil {
		t.Fatal(err)
	}
	if y.Data[0] != 0 {
		t.Errorf("tanh(0) = %f", y.Data[0])
	}
	if math.Abs(y.Data[1]-math.Tanh(1)) > 1e-15 {
		t.Errorf("tanh(1) = %f", y.Data[1])
	}

	if _, err := NewActivation("softsign"); err == nil {
		t.Error("expected unknown activation error")
	}
}

func TestRNNZeroInputIsInputIndependent(t *testing.T) {
	// With an all-zero bit string only bias and recurrence act, so two
	// networks with identical weights must agree.
	a := NewRNN(4, 5, rand.New(rand.NewSource(9)))
	b := NewRNN(4, 5, rand.New(rand.NewSource(9)))
	x := tensor.New(5)
	ya, err := a.Forward(x)
	if err != nil {
		t.Fatal(err)
	}
	yb, err := b.Forward(x)
	if err != nil {
		t.Fatal(err)
	}
	for i := range ya.Data {
		if ya.Data[i] != yb.Data[i] {
			t.Fatalf("same-seed RNNs disagree at %d: %f vs %f", i, ya.Data[i], yb.Data[i])
		}
	}
}

func TestLSTMOutputShape(t *testing.T) {
	l := NewLSTM(6, 4, rand.New(rand.NewSource(5)))
	y, err := l.Forward(tensor.NewWithData([]float64{1, 0, 1, 0}))
	if err != nil {
		t.Fatal(err)
	}
	if len(y.Data) != 6 {
		t.Fatalf("output dim %d, want 6", len(y.Data))
	}
	// Hidden state is bounded by tanh & sigmoid gates.
	for i, v := range y.Data {
		if v < -1 || v > 1 {
			t.Errorf("hidden[%d] = %f out of [-1, 1]", i, v)
		}
	}
}

func TestLSTMForgetBiasInit(t *testing.T) {
	l := NewLSTM(3, 2, rand.New(rand.NewSource(5)))
	for i, v := range l.forget.B.Value.Data {
		if v != 1.0 {
			t.Errorf("forget bias[%d] = %f, want 1.0", i, v)
		}
	}
	for i, v := range l.in.B.Value.Data {
		if v != 0 {
			t.Errorf("input-gate bias[%d] = %f, want 0", i, v)
		}
	}
}

func TestKANGridValidation(t *testing.T) {
	if _, err := NewKAN(2, 1, 2, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for grid < 3")
	}
}

func TestKANParameterShapes(t *testing.T) {
	k, err := NewKAN(4, 3, 6, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if got := len(k.SplineW.Value.Data); got != 3*4*6 {
		t.Errorf("spline size %d, want 72", got)
	}
	y, err := k.Forward(tensor.New(4))
	if err != nil {
		t.Fatal(err)
	}
	if len(y.Data) != 3 {
		t.Errorf("output dim %d, want 3", len(y.Data))
	}
}
