package api

import (
	"github.com/google/uuid"
)

type LayerActivations struct {
	Type        string    `json:"type"`
	Shape       []int     `json:"shape"`
	Activations []float64 `json:"activations"`
}

type ActivationsResponse struct {
	Input  string             `json:"input"`
	Layers []LayerActivations `json:"layers"`
}

type LayerInfo struct {
	Type   string `json:"type"`
	Params int    `json:"params"`
}

type ModelInfo struct {
	Id             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	InputSize      int         `json:"input_size"`
	MaxInputLength int         `json:"max_input_length"`
	Layers         []LayerInfo `json:"layers"`

	// Set when the first layer is Linear, as [out][in].
	FirstLayerWeights [][]float64 `json:"first_layer_weights,omitempty"`
}
