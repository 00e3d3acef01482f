package layers

import (
	"fmt"
	"slices"

	"nn-visualizer/internal/core/tensor"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Linear applies y = x·Wᵀ + b over the last dimension of its input.
type Linear struct {
	weight *mat.Dense // out x in
	bias   []float64  // nil when the layer has no bias
}

// NewLinear builds a linear layer from a weight matrix given as out rows of
// in columns, and an optional bias of length out.
func NewLinear(weight [][]float64, bias []float64) (*Linear, error) {
	var p Param
	if err := p.setMatrix(weight); err != nil {
		return nil, err
	}
	return newLinear(&p, bias)
}

func buildLinear(spec Spec) (Layer, error) {
	var bias []float64
	if spec.Bias != nil {
		b, err := spec.Bias.vector("bias")
		if err != nil {
			return nil, err
		}
		bias = b
	}
	return newLinear(spec.Weight, bias)
}

func newLinear(weight *Param, bias []float64) (*Linear, error) {
	if weight == nil || !weight.Matrix {
		return nil, fmt.Errorf("%w: weight must be a matrix", ErrInvalidParams)
	}
	if weight.Rows == 0 || weight.Cols == 0 {
		return nil, fmt.Errorf("%w: weight must not be empty", ErrInvalidParams)
	}
	if bias != nil && len(bias) != weight.Rows {
		return nil, fmt.Errorf("%w: bias has %d elements, expected %d", ErrInvalidParams, len(bias), weight.Rows)
	}
	return &Linear{
		weight: mat.NewDense(weight.Rows, weight.Cols, slices.Clone(weight.Data)),
		bias:   slices.Clone(bias),
	}, nil
}

func (l *Linear) Type() string {
	return "Linear"
}

func (l *Linear) InFeatures() int {
	_, in := l.weight.Dims()
	return in
}

func (l *Linear) OutFeatures() int {
	out, _ := l.weight.Dims()
	return out
}

func (l *Linear) NumParams() int {
	out, in := l.weight.Dims()
	return out*in + len(l.bias)
}

// Weights returns a copy of the weight matrix as out rows of in columns.
func (l *Linear) Weights() [][]float64 {
	out, _ := l.weight.Dims()
	rows := make([][]float64, out)
	for i := range rows {
		rows[i] = mat.Row(nil, i, l.weight)
	}
	return rows
}

func (l *Linear) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x.Rank() == 0 || x.Size() == 0 || x.Features() != l.InFeatures() {
		return nil, fmt.Errorf("%w: expected last dimension %d, got input %v", ErrShapeMismatch, l.InFeatures(), x.Shape)
	}

	var product mat.Dense
	product.Mul(x.Matrix(), l.weight.T())

	shape := slices.Clone(x.Shape)
	shape[len(shape)-1] = l.OutFeatures()
	out := tensor.New(shape...)
	for i := 0; i < out.Rows(); i++ {
		row := out.Row(i)
		mat.Row(row, i, &product)
		if l.bias != nil {
			floats.Add(row, l.bias)
		}
	}
	return out, nil
}
