package layers

import (
	"testing"

	"nn-visualizer/internal/core/tensor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearForward(t *testing.T) {
	l, err := NewLinear([][]float64{{1, 2, 3}, {0, -1, 1}}, []float64{0.5, -1})
	require.NoError(t, err)

	assert.Equal(t, "Linear", l.Type())
	assert.Equal(t, 3, l.InFeatures())
	assert.Equal(t, 2, l.OutFeatures())
	assert.Equal(t, 8, l.NumParams())

	x, err := tensor.FromSlice([]float64{1, 1, 1, 2, 0, 1}, 2, 3)
	require.NoError(t, err)

	y, err := l.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, y.Shape)
	assert.InDeltaSlice(t, []float64{6.5, -1, 5.5, 0}, y.Data, 1e-12)
}

func TestLinearWithoutBias(t *testing.T) {
	l, err := NewLinear([][]float64{{2}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, l.NumParams())

	x, err := tensor.FromSlice([]float64{3}, 1, 1)
	require.NoError(t, err)

	y, err := l.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, []float64{6}, y.Data)
}

func TestLinearShapeMismatch(t *testing.T) {
	l, err := NewLinear([][]float64{{1, 2}}, nil)
	require.NoError(t, err)

	_, err = l.Forward(tensor.New(1, 3))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestLinearInvalidParams(t *testing.T) {
	_, err := NewLinear(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = NewLinear([][]float64{{1, 2}, {3}}, nil)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = NewLinear([][]float64{{1, 2}}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestLinearWeightsAreCopies(t *testing.T) {
	weight := [][]float64{{1, 2}, {3, 4}}
	l, err := NewLinear(weight, nil)
	require.NoError(t, err)

	weight[0][0] = 100
	got := l.Weights()
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, got)

	got[1][1] = 100
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, l.Weights())
}
