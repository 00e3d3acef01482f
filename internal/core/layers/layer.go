package layers

import (
	"encoding/json"
	"errors"
	"fmt"

	"nn-visualizer/internal/core/tensor"
)

var (
	ErrUnknownLayer  = errors.New("unknown layer type")
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrInvalidParams = errors.New("invalid layer parameters")
)

// Layer is a single computation step of a sequential model. Implementations
// must not modify their input or their own state during Forward, so a layer
// can be shared between concurrent requests.
type Layer interface {
	// Type is the layer's class name, e.g. "Linear" or "ReLU".
	Type() string

	Forward(x *tensor.Tensor) (*tensor.Tensor, error)

	NumParams() int
}

const (
	Sequential = "Sequential"
	ModuleList = "ModuleList"
)

// IsGroup reports whether nodes of the given type only organise children and
// perform no computation of their own.
func IsGroup(layerType string) bool {
	return layerType == Sequential || layerType == ModuleList
}

// Spec is one node of a serialized module tree.
type Spec struct {
	Type     string `json:"type" yaml:"type"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Children []Spec `json:"children,omitempty" yaml:"children,omitempty"`

	Weight      *Param `json:"weight,omitempty" yaml:"weight,omitempty"`
	Bias        *Param `json:"bias,omitempty" yaml:"bias,omitempty"`
	RunningMean *Param `json:"running_mean,omitempty" yaml:"running_mean,omitempty"`
	RunningVar  *Param `json:"running_var,omitempty" yaml:"running_var,omitempty"`

	Eps           *float64 `json:"eps,omitempty" yaml:"eps,omitempty"`
	NegativeSlope *float64 `json:"negative_slope,omitempty" yaml:"negative_slope,omitempty"`
	Dim           *int     `json:"dim,omitempty" yaml:"dim,omitempty"`
	StartDim      *int     `json:"start_dim,omitempty" yaml:"start_dim,omitempty"`
	P             float64  `json:"p,omitempty" yaml:"p,omitempty"`
}

func (s Spec) eps() float64 {
	if s.Eps != nil {
		return *s.Eps
	}
	return 1e-5
}

// Param is a parameter tensor in a serialized model, either a vector or a
// matrix given as a list of rows.
type Param struct {
	Rows   int
	Cols   int
	Data   []float64
	Matrix bool
}

func (p *Param) setMatrix(rows [][]float64) error {
	p.Matrix = true
	p.Rows = len(rows)
	p.Data = nil
	for i, row := range rows {
		if i == 0 {
			p.Cols = len(row)
		} else if len(row) != p.Cols {
			return fmt.Errorf("%w: ragged matrix, row %d has %d columns, expected %d", ErrInvalidParams, i, len(row), p.Cols)
		}
		p.Data = append(p.Data, row...)
	}
	return nil
}

func (p *Param) setVector(v []float64) {
	p.Matrix = false
	p.Rows = 0
	p.Cols = len(v)
	p.Data = v
}

func (p *Param) UnmarshalJSON(b []byte) error {
	var rows [][]float64
	if err := json.Unmarshal(b, &rows); err == nil {
		return p.setMatrix(rows)
	}
	var v []float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: parameter must be a list of numbers or a list of rows", ErrInvalidParams)
	}
	p.setVector(v)
	return nil
}

func (p *Param) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var rows [][]float64
	if err := unmarshal(&rows); err == nil {
		return p.setMatrix(rows)
	}
	var v []float64
	if err := unmarshal(&v); err != nil {
		return fmt.Errorf("%w: parameter must be a list of numbers or a list of rows", ErrInvalidParams)
	}
	p.setVector(v)
	return nil
}

func (p *Param) vector(name string) ([]float64, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidParams, name)
	}
	if p.Matrix {
		return nil, fmt.Errorf("%w: %s must be a vector", ErrInvalidParams, name)
	}
	return p.Data, nil
}

type builder func(spec Spec) (Layer, error)

var builders = map[string]builder{
	"Linear":      buildLinear,
	"ReLU":        func(Spec) (Layer, error) { return ReLU{}, nil },
	"LeakyReLU":   buildLeakyReLU,
	"Sigmoid":     func(Spec) (Layer, error) { return Sigmoid{}, nil },
	"Tanh":        func(Spec) (Layer, error) { return Tanh{}, nil },
	"GELU":        func(Spec) (Layer, error) { return GELU{}, nil },
	"Softmax":     func(s Spec) (Layer, error) { return &Softmax{dim: dimOrLast(s.Dim)}, nil },
	"LogSoftmax":  func(s Spec) (Layer, error) { return &LogSoftmax{dim: dimOrLast(s.Dim)}, nil },
	"Dropout":     buildDropout,
	"Identity":    func(Spec) (Layer, error) { return Identity{}, nil },
	"Flatten":     buildFlatten,
	"LayerNorm":   buildLayerNorm,
	"BatchNorm1d": buildBatchNorm1d,
}

// Build translates a computing node of a module tree into its layer.
func Build(spec Spec) (Layer, error) {
	build, ok := builders[spec.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, spec.Type)
	}
	layer, err := build(spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Type, err)
	}
	return layer, nil
}

func dimOrLast(dim *int) int {
	if dim == nil {
		return -1
	}
	return *dim
}

// normalizeDim resolves a possibly negative dimension against rank.
func normalizeDim(dim, rank int) (int, error) {
	d := dim
	if d < 0 {
		d += rank
	}
	if d < 0 || d >= rank {
		return 0, fmt.Errorf("%w: dim %d out of range for rank %d", ErrShapeMismatch, dim, rank)
	}
	return d, nil
}
