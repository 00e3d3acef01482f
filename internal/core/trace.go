package core

import (
	"context"
	"fmt"

	"nn-visualizer/internal/core/tensor"
)

// Activation is the output of one layer during a trace.
type Activation struct {
	Type   string
	Output *tensor.Tensor
}

// Trace runs x through every layer in order, feeding each layer's output to
// the next, and records every intermediate output. The context is checked
// between layers.
func (m *Model) Trace(ctx context.Context, x *tensor.Tensor) ([]Activation, error) {
	trace := make([]Activation, 0, len(m.Layers))
	for i, layer := range m.Layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := layer.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, layer.Type(), err)
		}

		trace = append(trace, Activation{Type: layer.Type(), Output: out})
		x = out
	}
	return trace, nil
}
