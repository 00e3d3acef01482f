package main

import (
	"bytes"
	"testing"
	"text/tabwriter"

	"nn-visualizer/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := summarize([]float64{-1, 0, 4})
	assert.Equal(t, summary{min: -1, max: 4, mean: 1}, s)

	assert.Equal(t, summary{}, summarize(nil))
}

func TestPrintActivations(t *testing.T) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	printActivations(w, api.ActivationsResponse{
		Input: "hi",
		Layers: []api.LayerActivations{
			{Type: "Linear", Shape: []int{1, 2}, Activations: []float64{1, 3}},
			{Type: "ReLU", Shape: []int{1, 2}, Activations: []float64{1, 3}},
		},
	})
	require.NoError(t, w.Flush())

	out := buf.String()
	assert.Contains(t, out, `input: "hi"`)
	assert.Contains(t, out, "Linear")
	assert.Contains(t, out, "ReLU")
	assert.Contains(t, out, "[1 2]")
}
