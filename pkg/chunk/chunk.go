// Package chunk splits long text at semantic boundaries with configurable
// overlap (L6). Ported from the original's chunking.py estimate_tokens /
// chunk_document algorithm.
package chunk

import "regexp"

// Chunk is a contiguous substring of a parsed document, sized to fit an LLM
// context budget with overlap.
type Chunk struct {
	Text       string
	StartChar  int
	EndChar    int
	ChunkIndex int
}

// Options controls chunk sizing. Zero values are replaced with the spec's
// defaults (4000 / 200 tokens).
type Options struct {
	MaxTokens     int
	OverlapTokens int
}

func (o Options) withDefaults() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = 4000
	}
	if o.OverlapTokens <= 0 || o.OverlapTokens >= o.MaxTokens {
		o.OverlapTokens = 200
	}
	return o
}

// EstimateTokens approximates token count as ceil(len(text)/4), matching
// the original's heuristic exactly (not a real tokenizer — see DESIGN.md
// for why tiktoken was not wired in here).
func EstimateTokens(text string) int {
	n := len([]rune(text))
	return (n + 3) / 4
}

var boundaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\n\s*\n`),                  // double newline
	regexp.MustCompile(`(?m)^#{1,6}\s`),             // markdown heading
	regexp.MustCompile(`(?m)^\s*\d+[.)]\s`),         // numbered list marker
	regexp.MustCompile(`(?m)^\s*-{3,}\s*$`),         // horizontal rule
	regexp.MustCompile(`(?i)\bSection\s+\d+\b`),     // literal "Section N"
	regexp.MustCompile(`(?m)^[A-Z][A-Z \t]{5,}$`),   // ALL-CAPS heading, >=6 chars
}

// Split runs the boundary-aware greedy chunking algorithm (spec §4.2):
// single chunk if the whole text fits; otherwise walk forward, targeting
// max_chars = max_tokens*4 per chunk, preferring to cut at the latest
// semantic boundary in (cursor+max_chars/2, cursor+max_chars].
func Split(text string, opts Options) []Chunk {
	opts = opts.withDefaults()
	if EstimateTokens(text) <= opts.MaxTokens {
		trimmed := text
		if trimmed == "" {
			return nil
		}
		return []Chunk{{Text: trimmed, StartChar: 0, EndChar: len(text), ChunkIndex: 0}}
	}

	boundaries := boundaryOffsets(text)
	maxChars := opts.MaxTokens * 4
	overlapChars := opts.OverlapTokens * 4

	var chunks []Chunk
	cursor := 0
	idx := 0
	for cursor < len(text) {
		target := cursor + maxChars
		if target >= len(text) {
			end := len(text)
			appendChunk(&chunks, text, cursor, end, &idx)
			break
		}

		lowerBound := cursor + maxChars/2
		end := target
		best := -1
		for _, b := range boundaries {
			if b > lowerBound && b <= target && b > best {
				best = b
			}
		}
		if best > cursor {
			end = best
		}

		appendChunk(&chunks, text, cursor, end, &idx)

		next := end - overlapChars
		if next <= cursor {
			next = end // guarantee forward progress
		}
		cursor = next
	}
	return chunks
}

// appendChunk emits [start,end) as a chunk unless it is empty. Whitespace-only
// segments are still emitted (not dropped) so the coverage invariant — the
// concatenation of chunks across [0,len(T)) has no gaps — holds even at
// document boundaries made entirely of blank lines.
func appendChunk(chunks *[]Chunk, text string, start, end int, idx *int) {
	if end > len(text) {
		end = len(text)
	}
	if start >= end {
		return
	}
	*chunks = append(*chunks, Chunk{Text: text[start:end], StartChar: start, EndChar: end, ChunkIndex: *idx})
	*idx++
}

func boundaryOffsets(text string) []int {
	set := map[int]struct{}{0: {}, len(text): {}}
	for _, re := range boundaryPatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			set[loc[0]] = struct{}{}
		}
	}
	offsets := make([]int, 0, len(set))
	for o := range set {
		offsets = append(offsets, o)
	}
	return offsets
}
