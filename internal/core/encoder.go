package core

import (
	"nn-visualizer/internal/core/tensor"
)

const DefaultMaxLen = 55

// EncodeInput maps each character of s to its code point, truncating to the
// first maxLen characters and zero padding the remainder. Invalid UTF-8 bytes
// decode to U+FFFD.
func EncodeInput(s string, maxLen int) []float64 {
	vec := make([]float64, max(maxLen, 0))
	i := 0
	for _, c := range s {
		if i >= len(vec) {
			break
		}
		vec[i] = float64(c)
		i++
	}
	return vec
}

// EncodeTensor encodes s as a batch of one: a [1, maxLen] tensor.
func EncodeTensor(s string, maxLen int) *tensor.Tensor {
	vec := EncodeInput(s, maxLen)
	return &tensor.Tensor{Shape: []int{1, len(vec)}, Data: vec}
}
