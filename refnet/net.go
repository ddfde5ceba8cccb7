// Package refnet is a small gonum-backed multilayer perceptron used as a
// baseline to cross-check the hand-rolled tensor models. It trains with
// plain per-sample SGD and a sigmoid output unit.
package refnet

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"parbench/boolfn"
	"parbench/utils"
)

type Config struct {
	Name               string
	InputNum           int
	HiddenLayerNeurons []int
	Activator          Activator
	LearningRate       float64
	Epochs             int
}

type Network struct {
	trainingStart int64
	trainingEnd   int64
	weights       []mat.Matrix
	layers        []mat.Matrix
	weightedSums  []mat.Matrix
	errors        []mat.Matrix
	config        Config
}

// NewNetwork allocates a network for c. A constant bias node is appended
// to the input layer, so weights[0] has InputNum+1 columns.
func NewNetwork(c Config) (Network, error) {
	if c.InputNum < 1 {
		return Network{}, fmt.Errorf("refnet: input size must be at least 1, got %d", c.InputNum)
	}
	if len(c.HiddenLayerNeurons) == 0 {
		return Network{}, fmt.Errorf("refnet: at least one hidden layer is required")
	}
	if c.Activator == nil {
		c.Activator = ActivatorLookup["tanh"]
	}

	totalWeights := len(c.HiddenLayerNeurons) + 1
	net := Network{
		config:       c,
		weights:      make([]mat.Matrix, totalWeights),
		layers:       make([]mat.Matrix, len(c.HiddenLayerNeurons)+2),
		weightedSums: make([]mat.Matrix, totalWeights),
		errors:       make([]mat.Matrix, len(c.HiddenLayerNeurons)+2),
	}

	lastWeightIndex := len(net.weights) - 1
	for i := 0; i <= lastWeightIndex; i++ {
		var rows, cols int
		if i == 0 {
			rows = c.HiddenLayerNeurons[0]
			cols = c.InputNum + 1 // input plus bias node
		} else if i == lastWeightIndex {
			rows = 1 // single logit
			cols = c.HiddenLayerNeurons[len(c.HiddenLayerNeurons)-1]
		} else {
			rows = c.HiddenLayerNeurons[i]
			cols = c.HiddenLayerNeurons[i-1]
		}

		net.weights[i] = mat.NewDense(rows, cols, randomArray(rows*cols, float64(cols)))
	}

	return net, nil
}

func (net Network) lastIndex() int {
	return len(net.layers) - 1
}

func (net *Network) feedForward(inputData []float64) {
	sigmoid := ActivatorLookup["sigmoid"]

	net.layers[0] = addBiasNodeTo(mat.NewDense(len(inputData), 1, inputData), 1)

	for i := 0; i < len(net.layers)-1; i++ {
		net.weightedSums[i] = dot(net.weights[i], net.layers[i])

		if i == len(net.layers)-2 {
			net.layers[i+1] = apply(sigmoid.Activate, net.weightedSums[i])
		} else {
			net.layers[i+1] = apply(net.config.Activator.Activate, net.weightedSums[i])
		}
	}
}

func (net *Network) backpropagate(target float64) {
	sigmoid := ActivatorLookup["sigmoid"]
	finalOutputs := net.layers[net.lastIndex()]

	for i := net.lastIndex(); i > 0; i-- {
		var deactivated mat.Matrix
		if i == net.lastIndex() {
			targets := mat.NewDense(1, 1, []float64{target})
			net.errors[i] = subtract(targets, finalOutputs)
			deactivated = sigmoid.Deactivate(net.layers[i])
		} else {
			net.errors[i] = dot(net.weights[i].T(), net.errors[i+1])
			deactivated = net.config.Activator.Deactivate(net.layers[i])
		}
		net.weights[i-1] = add(net.weights[i-1],
			scale(net.config.LearningRate,
				dot(multiply(net.errors[i], deactivated),
					net.layers[i-1].T()))).(*mat.Dense)
	}
}

func (net *Network) trainOneSGD(inputData []float64, target float64) {
	net.feedForward(inputData)
	net.backpropagate(target)
}

// Train runs per-sample SGD over ds for the configured number of epochs.
func (net *Network) Train(ds *boolfn.Dataset) error {
	if len(ds.Inputs) == 0 {
		return fmt.Errorf("refnet: empty dataset")
	}
	if len(ds.Inputs[0].Data) != net.config.InputNum {
		return fmt.Errorf("refnet: dataset width %d does not match network input %d",
			len(ds.Inputs[0].Data), net.config.InputNum)
	}

	net.trainingStart = time.Now().Unix()
	for epoch := 1; epoch <= net.config.Epochs; epoch++ {
		for i := range ds.Inputs {
			net.trainOneSGD(ds.Inputs[i].Data, ds.Labels[i].Data[0])
		}
		if utils.Verbose && epoch%100 == 0 {
			fmt.Fprintf(utils.Output, "refnet %s: epoch %d of %d, accuracy %.4f\n",
				net.config.Name, epoch, net.config.Epochs, net.Accuracy(ds))
		}
	}
	net.trainingEnd = time.Now().Unix()

	return nil
}

// Predict returns the bit the network assigns to inputData.
func (net *Network) Predict(inputData []float64) int {
	net.feedForward(inputData)
	if net.layers[net.lastIndex()].At(0, 0) >= 0.5 {
		return 1
	}
	return 0
}

// Accuracy is the fraction of ds the network classifies correctly.
func (net *Network) Accuracy(ds *boolfn.Dataset) float64 {
	if len(ds.Inputs) == 0 {
		return 0
	}
	var correct float64
	for i := range ds.Inputs {
		if float64(net.Predict(ds.Inputs[i].Data)) == ds.Labels[i].Data[0] {
			correct++
		}
	}
	return correct / float64(len(ds.Inputs))
}
