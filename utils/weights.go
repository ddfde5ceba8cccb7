package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"parbench/nn"
	"parbench/tensor"
)

// WeightData represents serializable weight data for one parameter
type WeightData struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// LayerWeight maps parameter names to their data within one layer.
type LayerWeight map[string]*WeightData

// ModelWeights represents a self-describing model checkpoint: the topology
// metadata is enough to rebuild the model before applying the weights.
type ModelWeights struct {
	Version string                 `json:"version"`
	Model   string                 `json:"model"`
	Fn      string                 `json:"fn"`
	Bits    int                    `json:"bits"`
	Hidden  int                    `json:"hidden"`
	Grid    int                    `json:"grid,omitempty"`
	Layers  map[string]LayerWeight `json:"layers"`
}

// SaveWeights saves model weights to a JSON file
func SaveWeights(filepath string, weights *ModelWeights) error {
	data, err := json.MarshalIndent(weights, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}
	return os.WriteFile(filepath, data, 0644)
}

// LoadWeights loads model weights from a JSON file
func LoadWeights(filepath string) (*ModelWeights, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights file: %w", err)
	}
	var weights ModelWeights
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weights: %w", err)
	}
	return &weights, nil
}

// TensorToWeightData converts a tensor to serializable weight data
func TensorToWeightData(name string, t *tensor.Tensor) *WeightData {
	return &WeightData{
		Name:  name,
		Shape: append([]int(nil), t.Shape...),
		Data:  append([]float64{}, t.Data...), // copy
	}
}

// WeightDataToTensor converts weight data back to a tensor
func WeightDataToTensor(wd *WeightData) *tensor.Tensor {
	t := tensor.New(wd.Shape...)
	copy(t.Data, wd.Data)
	return t
}

// layerKey disambiguates layers that share a tag within one model.
func layerKey(i int, tag string) string {
	return fmt.Sprintf("%d:%s", i, tag)
}

// CollectWeights snapshots all parameters of a model into a checkpoint.
func CollectWeights(model *nn.Sequential) map[string]LayerWeight {
	layers := make(map[string]LayerWeight)
	for i, layer := range model.Layers {
		params := layer.Parameters()
		if len(params) == 0 {
			continue
		}
		lw := make(LayerWeight, len(params))
		for _, p := range params {
			lw[p.Name] = TensorToWeightData(p.Name, p.Value)
		}
		layers[layerKey(i, layer.Tag())] = lw
	}
	return layers
}

// ApplyWeights writes checkpoint data back into a model with the same
// topology. Every parameter must be present with a matching size.
func ApplyWeights(model *nn.Sequential, layers map[string]LayerWeight) error {
	for i, layer := range model.Layers {
		params := layer.Parameters()
		if len(params) == 0 {
			continue
		}
		key := layerKey(i, layer.Tag())
		lw, ok := layers[key]
		if !ok {
			return fmt.Errorf("missing layer %s in checkpoint", key)
		}
		for _, p := range params {
			wd, ok := lw[p.Name]
			if !ok {
				return fmt.Errorf("missing parameter %s for layer %s", p.Name, key)
			}
			if len(wd.Data) != len(p.Value.Data) {
				return fmt.Errorf("parameter %s of layer %s: size %d, want %d",
					p.Name, key, len(wd.Data), len(p.Value.Data))
			}
			copy(p.Value.Data, wd.Data)
		}
	}
	return nil
}
