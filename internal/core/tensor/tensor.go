package tensor

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Tensor is an n-d array of float64 stored row-major in a flat slice. Tensors
// are treated as immutable once constructed: operations return new tensors
// and may share Data with their input.
type Tensor struct {
	Shape []int
	Data  []float64
}

func New(shape ...int) *Tensor {
	return &Tensor{
		Shape: slices.Clone(shape),
		Data:  make([]float64, numElements(shape)),
	}
}

// FromSlice wraps data with the given shape without copying it.
func FromSlice(data []float64, shape ...int) (*Tensor, error) {
	if n := numElements(shape); n != len(data) {
		return nil, fmt.Errorf("shape %v needs %d elements, got %d", shape, n, len(data))
	}
	return &Tensor{Shape: slices.Clone(shape), Data: data}, nil
}

func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func (t *Tensor) Rank() int {
	return len(t.Shape)
}

func (t *Tensor) Size() int {
	return len(t.Data)
}

// Features returns the size of the last dimension.
func (t *Tensor) Features() int {
	if len(t.Shape) == 0 {
		return 1
	}
	return t.Shape[len(t.Shape)-1]
}

// Rows returns the product of all dimensions except the last.
func (t *Tensor) Rows() int {
	if len(t.Shape) == 0 {
		return 1
	}
	return numElements(t.Shape[:len(t.Shape)-1])
}

// Row returns the i-th slice along the last dimension, sharing storage.
func (t *Tensor) Row(i int) []float64 {
	f := t.Features()
	return t.Data[i*f : (i+1)*f]
}

// Matrix views the tensor as a Rows x Features matrix sharing storage.
func (t *Tensor) Matrix() *mat.Dense {
	return mat.NewDense(t.Rows(), t.Features(), t.Data)
}

// Map applies fn to every element and returns the result as a new tensor.
func (t *Tensor) Map(fn func(float64) float64) *Tensor {
	out := New(t.Shape...)
	for i, v := range t.Data {
		out.Data[i] = fn(v)
	}
	return out
}

func (t *Tensor) Reshape(shape ...int) (*Tensor, error) {
	return FromSlice(t.Data, shape...)
}

// Flatten returns a copy of the elements as a one dimensional slice.
func (t *Tensor) Flatten() []float64 {
	return slices.Clone(t.Data)
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v", t.Shape)
}
