package boolfn

import (
	"fmt"
	"math/rand"

	"parbench/tensor"
)

// Dataset holds labelled samples of a boolean function. Inputs are 0/1
// float64 vectors of length Bits, labels are 1-element tensors.
type Dataset struct {
	Bits   int
	Inputs []*tensor.Tensor
	Labels []*tensor.Tensor
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.Inputs) }

// Shuffle permutes the samples in place.
func (d *Dataset) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.Inputs), func(i, j int) {
		d.Inputs[i], d.Inputs[j] = d.Inputs[j], d.Inputs[i]
		d.Labels[i], d.Labels[j] = d.Labels[j], d.Labels[i]
	})
}

// FullSpace enumerates all 2^bits inputs of fn in truth-table index order.
func FullSpace(fn Func) *Dataset {
	bits := fn.Bits()
	n := 1 << bits
	ds := &Dataset{
		Bits:   bits,
		Inputs: make([]*tensor.Tensor, n),
		Labels: make([]*tensor.Tensor, n),
	}
	for i := 0; i < n; i++ {
		ds.Inputs[i], ds.Labels[i] = encode(fn, IndexBits(i, bits))
	}
	return ds
}

// Sample draws n uniform random inputs of fn (with replacement).
func Sample(fn Func, n int, rng *rand.Rand) (*Dataset, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sample count must be positive, got %d", n)
	}
	bits := fn.Bits()
	ds := &Dataset{
		Bits:   bits,
		Inputs: make([]*tensor.Tensor, n),
		Labels: make([]*tensor.Tensor, n),
	}
	for i := 0; i < n; i++ {
		b := make([]int, bits)
		for j := range b {
			b[j] = rng.Intn(2)
		}
		ds.Inputs[i], ds.Labels[i] = encode(fn, b)
	}
	return ds, nil
}

func encode(fn Func, bits []int) (*tensor.Tensor, *tensor.Tensor) {
	x := tensor.New(len(bits))
	for j, b := range bits {
		x.Data[j] = float64(b)
	}
	y := tensor.New(1)
	y.Data[0] = float64(fn.Eval(bits))
	return x, y
}
