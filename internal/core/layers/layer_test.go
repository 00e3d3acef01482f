package layers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestParamUnmarshalJSON(t *testing.T) {
	var spec Spec
	err := json.Unmarshal([]byte(`{"type": "Linear", "weight": [[1, 2], [3, 4]], "bias": [0.5, 1]}`), &spec)
	require.NoError(t, err)

	assert.Equal(t, &Param{Rows: 2, Cols: 2, Data: []float64{1, 2, 3, 4}, Matrix: true}, spec.Weight)
	assert.Equal(t, &Param{Cols: 2, Data: []float64{0.5, 1}}, spec.Bias)

	err = json.Unmarshal([]byte(`{"type": "Linear", "weight": "abc"}`), &spec)
	assert.ErrorIs(t, err, ErrInvalidParams)

	err = json.Unmarshal([]byte(`{"type": "Linear", "weight": [[1, 2], [3]]}`), &spec)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestParamUnmarshalYAML(t *testing.T) {
	var spec Spec
	err := yaml.Unmarshal([]byte("type: LayerNorm\nweight: [1, 2]\nbias: [0, 0]\neps: 0.001\n"), &spec)
	require.NoError(t, err)

	assert.Equal(t, "LayerNorm", spec.Type)
	assert.Equal(t, &Param{Cols: 2, Data: []float64{1, 2}}, spec.Weight)
	require.NotNil(t, spec.Eps)
	assert.Equal(t, 0.001, *spec.Eps)

	err = yaml.Unmarshal([]byte("type: Linear\nweight:\n  - [1, 2]\n  - [3, 4]\n"), &spec)
	require.NoError(t, err)
	assert.Equal(t, &Param{Rows: 2, Cols: 2, Data: []float64{1, 2, 3, 4}, Matrix: true}, spec.Weight)
}

func TestBuild(t *testing.T) {
	weight := &Param{}
	require.NoError(t, weight.setMatrix([][]float64{{1, 2}}))

	tests := []struct {
		spec     Spec
		expected string
	}{
		{Spec{Type: "Linear", Weight: weight}, "Linear"},
		{Spec{Type: "ReLU"}, "ReLU"},
		{Spec{Type: "LeakyReLU"}, "LeakyReLU"},
		{Spec{Type: "Sigmoid"}, "Sigmoid"},
		{Spec{Type: "Tanh"}, "Tanh"},
		{Spec{Type: "GELU"}, "GELU"},
		{Spec{Type: "Softmax"}, "Softmax"},
		{Spec{Type: "LogSoftmax"}, "LogSoftmax"},
		{Spec{Type: "Dropout", P: 0.2}, "Dropout"},
		{Spec{Type: "Identity"}, "Identity"},
		{Spec{Type: "Flatten"}, "Flatten"},
		{Spec{Type: "LayerNorm", Weight: &Param{Cols: 2, Data: []float64{1, 1}}}, "LayerNorm"},
		{Spec{Type: "BatchNorm1d", RunningMean: &Param{Cols: 1, Data: []float64{0}}, RunningVar: &Param{Cols: 1, Data: []float64{1}}}, "BatchNorm1d"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			layer, err := Build(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, layer.Type())
		})
	}
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(Spec{Type: "Conv2d"})
	assert.ErrorIs(t, err, ErrUnknownLayer)

	_, err = Build(Spec{Type: "Linear"})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = Build(Spec{Type: "Linear", Weight: &Param{Cols: 2, Data: []float64{1, 2}}})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = Build(Spec{Type: "LayerNorm"})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = Build(Spec{Type: "Dropout", P: 1.5})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestIsGroup(t *testing.T) {
	assert.True(t, IsGroup("Sequential"))
	assert.True(t, IsGroup("ModuleList"))
	assert.False(t, IsGroup("Linear"))
}
