// Package bench times individual layers in isolation, separating the
// forward and backward passes so their relative cost can be compared
// across architectures.
package bench

import (
	"fmt"
	"time"

	"parbench/nn"
	"parbench/optim"
	"parbench/tensor"
	"parbench/utils"
)

// Point holds the averaged timings for one layer.
type Point struct {
	Layer  string
	Fwd    time.Duration
	Bwd    time.Duration
	Params int
}

// TimeLayer runs `runs` forward/backward passes of m on input and
// returns the average time spent in each direction.
func TimeLayer(m nn.Module, input *tensor.Tensor, runs int) (Point, error) {
	if runs < 1 {
		return Point{}, fmt.Errorf("bench: runs must be at least 1, got %d", runs)
	}

	p := Point{Layer: m.Tag()}
	for _, param := range m.Parameters() {
		p.Params += param.Value.Size()
	}

	var fwd, bwd time.Duration
	for i := 0; i < runs; i++ {
		optim.ZeroGrad(m.Parameters())

		start := time.Now()
		out, err := m.Forward(input)
		fwd += time.Since(start)
		if err != nil {
			return Point{}, fmt.Errorf("bench: forward pass: %w", err)
		}

		grad := tensor.New(out.Shape...)
		for j := range grad.Data {
			grad.Data[j] = 1
		}

		start = time.Now()
		if _, err := m.Backward(grad); err != nil {
			return Point{}, fmt.Errorf("bench: backward pass: %w", err)
		}
		bwd += time.Since(start)
	}

	p.Fwd = fwd / time.Duration(runs)
	p.Bwd = bwd / time.Duration(runs)

	return p, nil
}

// Print writes the collected points as an aligned table.
func Print(points []Point) {
	if !utils.Verbose {
		return
	}
	fmt.Fprintf(utils.Output, "%-16s %10s %12s %12s\n", "layer", "params", "fwd (us)", "bwd (us)")
	for _, p := range points {
		fmt.Fprintf(utils.Output, "%-16s %10d %12.2f %12.2f\n",
			p.Layer, p.Params, utils.DurationUS(p.Fwd), utils.DurationUS(p.Bwd))
	}
}
