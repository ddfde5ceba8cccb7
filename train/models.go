package train

import (
	"fmt"
	"math/rand"

	"parbench/nn"
	"parbench/nn/layers"
)

// DefaultGrid is the KAN basis size used when the caller does not set one.
const DefaultGrid = 5

// BuildModel constructs one of the compared architectures. All models map a
// width-`bits` bit vector to a single logit; the loss applies the sigmoid.
//
//	mlp:  Linear(bits, hidden) → tanh → Linear(hidden, 1)
//	rnn:  RNN(hidden) over the bit sequence → Linear(hidden, 1)
//	lstm: LSTM(hidden) over the bit sequence → Linear(hidden, 1)
//	kan:  KAN(bits, hidden) → KAN(hidden, 1)
func BuildModel(model string, bits, hidden, grid int, rng *rand.Rand) (*nn.Sequential, error) {
	if bits < 1 {
		return nil, fmt.Errorf("bits must be positive, got %d", bits)
	}
	if hidden < 1 {
		return nil, fmt.Errorf("hidden size must be positive, got %d", hidden)
	}
	if grid == 0 {
		grid = DefaultGrid
	}

	switch model {
	case "mlp":
		act, err := layers.NewActivation("tanh")
		if err != nil {
			return nil, err
		}
		return &nn.Sequential{Layers: []nn.Module{
			layers.NewLinear(bits, hidden, rng),
			act,
			layers.NewLinear(hidden, 1, rng),
		}}, nil
	case "rnn":
		return &nn.Sequential{Layers: []nn.Module{
			layers.NewRNN(hidden, bits, rng),
			layers.NewLinear(hidden, 1, rng),
		}}, nil
	case "lstm":
		return &nn.Sequential{Layers: []nn.Module{
			layers.NewLSTM(hidden, bits, rng),
			layers.NewLinear(hidden, 1, rng),
		}}, nil
	case "kan":
		k1, err := layers.NewKAN(bits, hidden, grid, rng)
		if err != nil {
			return nil, err
		}
		k2, err := layers.NewKAN(hidden, 1, grid, rng)
		if err != nil {
			return nil, err
		}
		return &nn.Sequential{Layers: []nn.Module{k1, k2}}, nil
	default:
		return nil, fmt.Errorf("unknown model: %s", model)
	}
}

// ModelNames lists the supported architecture names in benchmark order.
func ModelNames() []string {
	return []string{"mlp", "rnn", "lstm", "kan"}
}
