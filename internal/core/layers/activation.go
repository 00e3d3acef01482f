package layers

import (
	"fmt"
	"math"

	"nn-visualizer/internal/core/tensor"

	"gonum.org/v1/gonum/floats"
)

type ReLU struct{}

func (ReLU) Type() string   { return "ReLU" }
func (ReLU) NumParams() int { return 0 }

func (ReLU) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return x.Map(func(v float64) float64 { return math.Max(0, v) }), nil
}

type LeakyReLU struct {
	slope float64
}

func NewLeakyReLU(negativeSlope float64) *LeakyReLU {
	return &LeakyReLU{slope: negativeSlope}
}

func buildLeakyReLU(spec Spec) (Layer, error) {
	if spec.NegativeSlope == nil {
		return NewLeakyReLU(0.01), nil
	}
	return NewLeakyReLU(*spec.NegativeSlope), nil
}

func (*LeakyReLU) Type() string   { return "LeakyReLU" }
func (*LeakyReLU) NumParams() int { return 0 }

func (l *LeakyReLU) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return x.Map(func(v float64) float64 {
		if v >= 0 {
			return v
		}
		return l.slope * v
	}), nil
}

type Sigmoid struct{}

func (Sigmoid) Type() string   { return "Sigmoid" }
func (Sigmoid) NumParams() int { return 0 }

func (Sigmoid) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return x.Map(func(v float64) float64 { return 1 / (1 + math.Exp(-v)) }), nil
}

type Tanh struct{}

func (Tanh) Type() string   { return "Tanh" }
func (Tanh) NumParams() int { return 0 }

func (Tanh) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return x.Map(math.Tanh), nil
}

// GELU uses the exact erf formulation.
type GELU struct{}

func (GELU) Type() string   { return "GELU" }
func (GELU) NumParams() int { return 0 }

func (GELU) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return x.Map(func(v float64) float64 { return 0.5 * v * (1 + math.Erf(v/math.Sqrt2)) }), nil
}

// Softmax normalises over the last dimension. Other dims are rejected at
// forward time, once the input rank is known.
type Softmax struct {
	dim int
}

func NewSoftmax() *Softmax {
	return &Softmax{dim: -1}
}

func (*Softmax) Type() string   { return "Softmax" }
func (*Softmax) NumParams() int { return 0 }

func (s *Softmax) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return rowwise(x, s.dim, func(dst, src []float64) {
		copy(dst, src)
		floats.AddConst(-floats.Max(src), dst)
		for i, v := range dst {
			dst[i] = math.Exp(v)
		}
		floats.Scale(1/floats.Sum(dst), dst)
	})
}

type LogSoftmax struct {
	dim int
}

func NewLogSoftmax() *LogSoftmax {
	return &LogSoftmax{dim: -1}
}

func (*LogSoftmax) Type() string   { return "LogSoftmax" }
func (*LogSoftmax) NumParams() int { return 0 }

func (s *LogSoftmax) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return rowwise(x, s.dim, func(dst, src []float64) {
		copy(dst, src)
		floats.AddConst(-floats.LogSumExp(src), dst)
	})
}

// rowwise applies fn to every slice along the last dimension of x.
func rowwise(x *tensor.Tensor, dim int, fn func(dst, src []float64)) (*tensor.Tensor, error) {
	if x.Rank() == 0 {
		return nil, fmt.Errorf("%w: expected at least one dimension", ErrShapeMismatch)
	}
	d, err := normalizeDim(dim, x.Rank())
	if err != nil {
		return nil, err
	}
	if d != x.Rank()-1 {
		return nil, fmt.Errorf("%w: only the last dimension is supported, got dim %d", ErrShapeMismatch, dim)
	}

	out := tensor.New(x.Shape...)
	if x.Features() == 0 {
		return out, nil
	}
	for i := 0; i < x.Rows(); i++ {
		fn(out.Row(i), x.Row(i))
	}
	return out, nil
}
