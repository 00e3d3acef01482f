package api

import (
	"nn-visualizer/internal/core"
	"nn-visualizer/internal/core/layers"
	"nn-visualizer/pkg/api"
)

func convertActivation(a core.Activation) api.LayerActivations {
	return api.LayerActivations{
		Type:        a.Type,
		Shape:       a.Output.Shape,
		Activations: a.Output.Flatten(),
	}
}

func convertActivations(input string, trace []core.Activation) api.ActivationsResponse {
	records := make([]api.LayerActivations, 0, len(trace))
	for _, a := range trace {
		records = append(records, convertActivation(a))
	}
	return api.ActivationsResponse{Input: input, Layers: records}
}

func convertModel(m *core.Model, maxLen int) api.ModelInfo {
	info := api.ModelInfo{
		Id:             m.Id,
		Name:           m.Name,
		InputSize:      m.InputSize,
		MaxInputLength: maxLen,
		Layers:         make([]api.LayerInfo, 0, len(m.Layers)),
	}
	for _, l := range m.Layers {
		info.Layers = append(info.Layers, api.LayerInfo{Type: l.Type(), Params: l.NumParams()})
	}
	if len(m.Layers) > 0 {
		if linear, ok := m.Layers[0].(*layers.Linear); ok {
			info.FirstLayerWeights = linear.Weights()
		}
	}
	return info
}
