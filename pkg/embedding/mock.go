package embedding

import (
	"context"
	"math"
)

// Mock returns deterministic, content-derived vectors so dedupe/retrieval
// tests can assert on similarity without a network call. Identical text
// yields identical vectors; small edits yield high but not perfect
// similarity, approximating real embedding behavior closely enough for
// unit tests.
type Mock struct {
	Dims int
	Err  error
}

func NewMock(dims int) *Mock { return &Mock{Dims: dims} }

func (m *Mock) EmbedTexts(_ context.Context, texts []string, _ InputType) ([][]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = vectorize(t, m.Dims)
	}
	return out, nil
}

func (m *Mock) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return vectorize(text, m.Dims), nil
}

// vectorize hashes character trigrams into a fixed-width vector, then
// L2-normalizes it, giving texts that share substrings a high cosine
// similarity and unrelated texts a low one.
func vectorize(text string, dims int) []float32 {
	if dims <= 0 {
		dims = 16
	}
	v := make([]float64, dims)
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		end := i + 3
		if end > len(runes) {
			end = len(runes)
		}
		gram := string(runes[i:end])
		h := fnv32(gram)
		v[int(h)%dims] += 1
	}
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	out := make([]float32, dims)
	if norm == 0 {
		return out
	}
	for i, x := range v {
		out[i] = float32(x / norm)
	}
	return out
}

func fnv32(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
