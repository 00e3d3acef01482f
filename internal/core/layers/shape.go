package layers

import (
	"fmt"

	"nn-visualizer/internal/core/tensor"
)

type Identity struct{}

func (Identity) Type() string   { return "Identity" }
func (Identity) NumParams() int { return 0 }

func (Identity) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return x, nil
}

// Dropout is the identity at inference time.
type Dropout struct{}

func buildDropout(spec Spec) (Layer, error) {
	if spec.P < 0 || spec.P > 1 {
		return nil, fmt.Errorf("%w: dropout probability %v outside [0, 1]", ErrInvalidParams, spec.P)
	}
	return Dropout{}, nil
}

func (Dropout) Type() string   { return "Dropout" }
func (Dropout) NumParams() int { return 0 }

func (Dropout) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return x, nil
}

// Flatten collapses every dimension from startDim onwards into one.
type Flatten struct {
	startDim int
}

func NewFlatten(startDim int) *Flatten {
	return &Flatten{startDim: startDim}
}

func buildFlatten(spec Spec) (Layer, error) {
	if spec.StartDim == nil {
		return NewFlatten(1), nil
	}
	return NewFlatten(*spec.StartDim), nil
}

func (*Flatten) Type() string   { return "Flatten" }
func (*Flatten) NumParams() int { return 0 }

func (f *Flatten) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x.Rank() == 0 {
		return x.Reshape(1)
	}
	start, err := normalizeDim(f.startDim, x.Rank())
	if err != nil {
		return nil, err
	}
	shape := append([]int{}, x.Shape[:start]...)
	n := 1
	for _, d := range x.Shape[start:] {
		n *= d
	}
	return x.Reshape(append(shape, n)...)
}
