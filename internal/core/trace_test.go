package core

import (
	"context"
	"math"
	"testing"

	"nn-visualizer/internal/core/layers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace(t *testing.T) {
	model := loadTestModel(t, "char_mlp.yaml")

	trace, err := model.Trace(context.Background(), EncodeTensor("hi", 4))
	require.NoError(t, err)
	require.Len(t, trace, len(model.Layers))

	expectedTypes := []string{"Linear", "ReLU", "Dropout", "Linear", "Softmax"}
	for i, a := range trace {
		assert.Equal(t, expectedTypes[i], a.Type)
	}

	assert.Equal(t, []int{1, 3}, trace[0].Output.Shape)
	assert.InDeltaSlice(t, []float64{1.04, 1.55, -1.99}, trace[0].Output.Data, 1e-9)
	assert.InDeltaSlice(t, []float64{1.04, 1.55, 0}, trace[1].Output.Data, 1e-9)
	assert.InDeltaSlice(t, []float64{1.04, 1.55, 0}, trace[2].Output.Data, 1e-9)
	assert.InDeltaSlice(t, []float64{-0.51, 1.295}, trace[3].Output.Data, 1e-9)

	p0 := math.Exp(-0.51) / (math.Exp(-0.51) + math.Exp(1.295))
	assert.InDeltaSlice(t, []float64{p0, 1 - p0}, trace[4].Output.Data, 1e-9)
}

func TestTraceIsDeterministic(t *testing.T) {
	model := loadTestModel(t, "char_mlp.json")

	first, err := model.Trace(context.Background(), EncodeTensor("hello", 4))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := model.Trace(context.Background(), EncodeTensor("hello", 4))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTraceJSONAndYAMLAgree(t *testing.T) {
	fromYAML, err := loadTestModel(t, "char_mlp.yaml").Trace(context.Background(), EncodeTensor("ok", 4))
	require.NoError(t, err)
	fromJSON, err := loadTestModel(t, "char_mlp.json").Trace(context.Background(), EncodeTensor("ok", 4))
	require.NoError(t, err)
	assert.Equal(t, fromYAML, fromJSON)
}

func TestTraceShapeMismatch(t *testing.T) {
	linear, err := layers.NewLinear([][]float64{{1, 1, 1}}, nil)
	require.NoError(t, err)
	model := NewModel("mismatch", 3, layers.ReLU{}, linear)

	_, err = model.Trace(context.Background(), EncodeTensor("hi", 4))
	assert.ErrorIs(t, err, layers.ErrShapeMismatch)
	assert.ErrorContains(t, err, "layer 1 (Linear)")
}

func TestTraceCancelled(t *testing.T) {
	model := NewModel("relu", 0, layers.ReLU{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := model.Trace(ctx, EncodeTensor("hi", 4))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTraceEmptyModel(t *testing.T) {
	trace, err := NewModel("empty", 0).Trace(context.Background(), EncodeTensor("hi", 4))
	require.NoError(t, err)
	assert.Empty(t, trace)
}
