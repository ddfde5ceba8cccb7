package nn

import (
	"math"
	"testing"

	"parbench/tensor"
)

func TestSigmoidBCEKnownValues(t *testing.T) {
	loss := &SigmoidBCE{}
	// logit 0 → p = 0.5, BCE = ln 2 regardless of the label
	got, err := loss.Forward(tensor.NewWithData([]float64{0}), tensor.NewWithData([]float64{1}))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-math.Ln2) > 1e-12 {
		t.Errorf("loss = %f, want ln2 = %f", got, math.Ln2)
	}

	grad, err := loss.Backward()
	if err != nil {
		t.Fatal(err)
	}
	// grad = p - y = 0.5 - 1
	if math.Abs(grad.Data[0]-(-0.5)) > 1e-12 {
		t.Errorf("grad = %f, want -0.5", grad.Data[0])
	}
}

func TestSigmoidBCEGradientNumeric(t *testing.T) {
	target := tensor.NewWithData([]float64{1, 0})
	logits := tensor.NewWithData([]float64{0.7, -1.3})

	loss := &SigmoidBCE{}
	if _, err := loss.Forward(logits, target); err != nil {
		t.Fatal(err)
	}
	grad, err := loss.Backward()
	if err != nil {
		t.Fatal(err)
	}

	eps := 1e-6
	for i := range logits.Data {
		probe := &SigmoidBCE{}
		logits.Data[i] += eps
		plus, _ := probe.Forward(logits, target)
		logits.Data[i] -= 2 * eps
		minus, _ := probe.Forward(logits, target)
		logits.Data[i] += eps

		numeric := (plus - minus) / (2 * eps)
		if math.Abs(numeric-grad.Data[i]) > 1e-6 {
			t.Errorf("grad[%d] = %g, numeric %g", i, grad.Data[i], numeric)
		}
	}
}

func TestSigmoidBCEBackwardWithoutForward(t *testing.T) {
	loss := &SigmoidBCE{}
	if _, err := loss.Backward(); err == nil {
		t.Error("expected error without a forward pass")
	}
}

func TestMSE(t *testing.T) {
	loss := &MSE{}
	got, err := loss.Forward(tensor.NewWithData([]float64{1, 3}), tensor.NewWithData([]float64{0, 1}))
	if err != nil {
		t.Fatal(err)
	}
	// ((1-0)² + (3-1)²)/2 = 2.5
	if math.Abs(got-2.5) > 1e-12 {
		t.Errorf("loss = %f, want 2.5", got)
	}
	grad, err := loss.Backward()
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 2} // 2(out-y)/n
	for i := range want {
		if math.Abs(grad.Data[i]-want[i]) > 1e-12 {
			t.Errorf("grad[%d] = %f, want %f", i, grad.Data[i], want[i])
		}
	}
}

func TestSizeMismatch(t *testing.T) {
	loss := &SigmoidBCE{}
	if _, err := loss.Forward(tensor.New(2), tensor.New(3)); err == nil {
		t.Error("expected size mismatch error")
	}
}
