package layers

import (
	"fmt"
	"math"
	"slices"

	"nn-visualizer/internal/core/tensor"

	"gonum.org/v1/gonum/floats"
)

// LayerNorm normalises over the last dimension, with an optional
// elementwise affine transform.
type LayerNorm struct {
	size   int
	weight []float64
	bias   []float64
	eps    float64
}

func NewLayerNorm(weight, bias []float64, eps float64) (*LayerNorm, error) {
	if len(weight) == 0 {
		return nil, fmt.Errorf("%w: weight must not be empty", ErrInvalidParams)
	}
	if bias != nil && len(bias) != len(weight) {
		return nil, fmt.Errorf("%w: bias has %d elements, expected %d", ErrInvalidParams, len(bias), len(weight))
	}
	return &LayerNorm{size: len(weight), weight: slices.Clone(weight), bias: slices.Clone(bias), eps: eps}, nil
}

func buildLayerNorm(spec Spec) (Layer, error) {
	weight, err := spec.Weight.vector("weight")
	if err != nil {
		return nil, err
	}
	var bias []float64
	if spec.Bias != nil {
		if bias, err = spec.Bias.vector("bias"); err != nil {
			return nil, err
		}
	}
	return NewLayerNorm(weight, bias, spec.eps())
}

func (*LayerNorm) Type() string { return "LayerNorm" }

func (l *LayerNorm) NumParams() int {
	return len(l.weight) + len(l.bias)
}

func (l *LayerNorm) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x.Rank() == 0 || x.Features() != l.size {
		return nil, fmt.Errorf("%w: expected last dimension %d, got input %v", ErrShapeMismatch, l.size, x.Shape)
	}

	out := tensor.New(x.Shape...)
	n := float64(l.size)
	for i := 0; i < x.Rows(); i++ {
		src, dst := x.Row(i), out.Row(i)
		mean := floats.Sum(src) / n
		variance := 0.0
		for _, v := range src {
			variance += (v - mean) * (v - mean)
		}
		variance /= n
		inv := 1 / math.Sqrt(variance+l.eps)
		for j, v := range src {
			dst[j] = (v - mean) * inv * l.weight[j]
		}
		if l.bias != nil {
			floats.Add(dst, l.bias)
		}
	}
	return out, nil
}

// BatchNorm1d normalises each channel with its running statistics. Inputs
// are [N, C] or [N, C, L].
type BatchNorm1d struct {
	weight []float64
	bias   []float64
	mean   []float64
	vari   []float64
	eps    float64
}

func NewBatchNorm1d(weight, bias, runningMean, runningVar []float64, eps float64) (*BatchNorm1d, error) {
	c := len(runningMean)
	if c == 0 {
		return nil, fmt.Errorf("%w: running_mean must not be empty", ErrInvalidParams)
	}
	if len(runningVar) != c {
		return nil, fmt.Errorf("%w: running_var has %d elements, expected %d", ErrInvalidParams, len(runningVar), c)
	}
	if weight != nil && len(weight) != c {
		return nil, fmt.Errorf("%w: weight has %d elements, expected %d", ErrInvalidParams, len(weight), c)
	}
	if bias != nil && len(bias) != c {
		return nil, fmt.Errorf("%w: bias has %d elements, expected %d", ErrInvalidParams, len(bias), c)
	}
	return &BatchNorm1d{
		weight: slices.Clone(weight),
		bias:   slices.Clone(bias),
		mean:   slices.Clone(runningMean),
		vari:   slices.Clone(runningVar),
		eps:    eps,
	}, nil
}

func buildBatchNorm1d(spec Spec) (Layer, error) {
	mean, err := spec.RunningMean.vector("running_mean")
	if err != nil {
		return nil, err
	}
	vari, err := spec.RunningVar.vector("running_var")
	if err != nil {
		return nil, err
	}
	var weight, bias []float64
	if spec.Weight != nil {
		if weight, err = spec.Weight.vector("weight"); err != nil {
			return nil, err
		}
	}
	if spec.Bias != nil {
		if bias, err = spec.Bias.vector("bias"); err != nil {
			return nil, err
		}
	}
	return NewBatchNorm1d(weight, bias, mean, vari, spec.eps())
}

func (*BatchNorm1d) Type() string { return "BatchNorm1d" }

func (b *BatchNorm1d) NumParams() int {
	return len(b.weight) + len(b.bias)
}

func (b *BatchNorm1d) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	c := len(b.mean)
	if (x.Rank() != 2 && x.Rank() != 3) || x.Shape[1] != c {
		return nil, fmt.Errorf("%w: expected [N, %d] or [N, %d, L], got input %v", ErrShapeMismatch, c, c, x.Shape)
	}
	inner := 1
	if x.Rank() == 3 {
		inner = x.Shape[2]
	}

	out := tensor.New(x.Shape...)
	for i, v := range x.Data {
		ch := (i / inner) % c
		y := (v - b.mean[ch]) / math.Sqrt(b.vari[ch]+b.eps)
		if b.weight != nil {
			y *= b.weight[ch]
		}
		if b.bias != nil {
			y += b.bias[ch]
		}
		out.Data[i] = y
	}
	return out, nil
}
