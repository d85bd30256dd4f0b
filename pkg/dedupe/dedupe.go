// Package dedupe implements embedding-cosine deduplication of extracted
// requirements across chunks (L8). Ported from the original's
// _deduplicate_requirements / _cosine_similarity.
package dedupe

import (
	"context"
	"math"

	"github.com/nexusrfp/engine/pkg/embedding"
	xmath "github.com/nexusrfp/engine/pkg/math"
)

// SimilarityThreshold is the fixed dedup cutoff (spec §4.5, §9 open question:
// kept as a constant, not per-category, per DESIGN.md's Open Question decision).
const SimilarityThreshold = 0.95

// Record is the minimal shape dedupe needs from an extracted requirement:
// enough text to embed. Records are identified by their position in the
// slice passed to Dedupe.
type Record struct {
	Title       string
	Description string
}

// Dedupe embeds "title + ' ' + description" for every record and, in
// discovery order, keeps record i and drops any later record j whose cosine
// similarity to i exceeds the threshold. On embedding failure it degrades
// to pass-through (spec §4.5: "do not fail the pipeline") and returns every
// index unchanged.
//
// The returned slice is the set of kept indices into records, in their
// original relative order — this makes the operation's order-stability
// property easy to assert: permuting inputs without changing equivalence
// classes permutes the kept-index set identically.
func Dedupe(ctx context.Context, client embedding.Client, records []Record) []int {
	n := len(records)
	if n == 0 {
		return nil
	}
	texts := make([]string, n)
	for i, r := range records {
		texts[i] = r.Title + " " + r.Description
	}

	vectors, err := client.EmbedTexts(ctx, texts, embedding.InputDocument)
	if err != nil || len(vectors) != n {
		kept := make([]int, n)
		for i := range kept {
			kept[i] = i
		}
		return kept
	}

	dropped := make([]bool, n)
	var kept []int
	for i := 0; i < n; i++ {
		if dropped[i] {
			continue
		}
		kept = append(kept, i)
		for j := i + 1; j < n; j++ {
			if dropped[j] {
				continue
			}
			if cosineSimilarity(vectors[i], vectors[j]) > SimilarityThreshold {
				dropped[j] = true
			}
		}
	}
	return kept
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	fa := xmath.ConvertSlice[float32, float64](a)
	fb := xmath.ConvertSlice[float32, float64](b)
	var dot, normA, normB float64
	for i := range fa {
		dot += fa[i] * fb[i]
		normA += fa[i] * fa[i]
		normB += fb[i] * fb[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
