package nn

import (
	"fmt"
	"testing"

	"parbench/tensor"
)

// doubler is a parameter-free test module that doubles its input and halves
// gradients on the way back.
type doubler struct{}

func (d doubler) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return tensor.Scale(2, x), nil
}

func (d doubler) Backward(g *tensor.Tensor) (*tensor.Tensor, error) {
	return tensor.Scale(2, g), nil
}

func (d doubler) Parameters() []*Parameter { return nil }
func (d doubler) Tag() string              { return "doubler" }

type failing struct{}

func (f failing) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return nil, fmt.Errorf("broken layer")
}

func (f failing) Backward(g *tensor.Tensor) (*tensor.Tensor, error) {
	return nil, fmt.Errorf("broken layer")
}

func (f failing) Parameters() []*Parameter { return nil }
func (f failing) Tag() string              { return "failing" }

func TestSequentialForwardOrder(t *testing.T) {
	s := &Sequential{Layers: []Module{doubler{}, doubler{}, doubler{}}}
	y, err := s.Forward(tensor.NewWithData([]float64{1, -2}))
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{8, -16}
	for i := range want {
		if y.Data[i] != want[i] {
			t.Errorf("y[%d] = %f, want %f", i, y.Data[i], want[i])
		}
	}
}

func TestSequentialPropagatesErrors(t *testing.T) {
	s := &Sequential{Layers: []Module{doubler{}, failing{}}}
	if _, err := s.Forward(tensor.New(1)); err == nil {
		t.Error("expected forward error")
	}
	if _, err := s.Backward(tensor.New(1)); err == nil {
		t.Error("expected backward error")
	}
}

func TestNewParameterGradShape(t *testing.T) {
	p := NewParameter("w", tensor.New(2, 3))
	if len(p.Grad.Data) != 6 {
		t.Fatalf("grad size %d, want 6", len(p.Grad.Data))
	}
	for _, v := range p.Grad.Data {
		if v != 0 {
			t.Fatal("grad not zero-initialized")
		}
	}
}
