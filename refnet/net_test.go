package refnet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"parbench/boolfn"
	"parbench/utils"
)

func TestNewNetworkShapes(t *testing.T) {
	net, err := NewNetwork(Config{
		Name:               "shapes",
		InputNum:           3,
		HiddenLayerNeurons: []int{5, 4},
		Activator:          ActivatorLookup["tanh"],
		LearningRate:       0.1,
		Epochs:             1,
	})
	require.NoError(t, err)
	require.Len(t, net.weights, 3)

	r, c := net.weights[0].Dims()
	require.Equal(t, 5, r)
	require.Equal(t, 4, c, "first weight includes the bias column")

	r, c = net.weights[1].Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 5, c)

	r, c = net.weights[2].Dims()
	require.Equal(t, 1, r)
	require.Equal(t, 4, c)
}

func TestNewNetworkValidation(t *testing.T) {
	_, err := NewNetwork(Config{InputNum: 0, HiddenLayerNeurons: []int{4}})
	require.Error(t, err)

	_, err = NewNetwork(Config{InputNum: 2})
	require.Error(t, err)
}

func TestPredictIsBinary(t *testing.T) {
	net, err := NewNetwork(Config{
		Name:               "binary",
		InputNum:           4,
		HiddenLayerNeurons: []int{6},
		LearningRate:       0.1,
		Epochs:             1,
	})
	require.NoError(t, err)

	fn, err := boolfn.New("parity", 4, 0)
	require.NoError(t, err)
	ds := boolfn.FullSpace(fn)
	for i := range ds.Inputs {
		p := net.Predict(ds.Inputs[i].Data)
		require.Contains(t, []int{0, 1}, p)
	}
}

func TestTrainLearnsProjection(t *testing.T) {
	old := utils.Verbose
	utils.Verbose = false
	defer func() { utils.Verbose = old }()

	fn, err := boolfn.New("first", 2, 0)
	require.NoError(t, err)
	ds := boolfn.FullSpace(fn)

	net, err := NewNetwork(Config{
		Name:               "projection",
		InputNum:           2,
		HiddenLayerNeurons: []int{8},
		Activator:          ActivatorLookup["tanh"],
		LearningRate:       0.5,
		Epochs:             2000,
	})
	require.NoError(t, err)

	require.NoError(t, net.Train(ds))
	require.GreaterOrEqual(t, net.Accuracy(ds), 0.75,
		"a separable function should be mostly learned")
}

func TestTrainRejectsWidthMismatch(t *testing.T) {
	fn, err := boolfn.New("parity", 3, 0)
	require.NoError(t, err)
	ds := boolfn.FullSpace(fn)

	net, err := NewNetwork(Config{
		Name:               "mismatch",
		InputNum:           2,
		HiddenLayerNeurons: []int{4},
		LearningRate:       0.1,
		Epochs:             1,
	})
	require.NoError(t, err)
	require.Error(t, net.Train(ds))
}

func TestActivators(t *testing.T) {
	sig := ActivatorLookup["sigmoid"]
	require.InDelta(t, 0.5, sig.Activate(0, 0, 0), 1e-12)
	require.Equal(t, "sigmoid", sig.String())

	tanh := ActivatorLookup["tanh"]
	require.InDelta(t, math.Tanh(0.5), tanh.Activate(0, 0, 0.5), 1e-12)

	relu := ActivatorLookup["relu"]
	require.Equal(t, 2.0, relu.Activate(0, 0, 2))
	require.InDelta(t, -0.0002, relu.Activate(0, 0, -2), 1e-12)
}
