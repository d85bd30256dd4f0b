// Package retrieval is the KB retriever (L11): embed the requirement as a
// query, search the knowledge base by cosine similarity with a minimum-
// similarity cutoff. Grounded on the original's
// generator.py::_search_knowledge_base.
package retrieval

import (
	"context"

	"github.com/nexusrfp/engine/pkg/embedding"
	"github.com/nexusrfp/engine/pkg/storage/model"
)

// MinimumSimilarity is the fixed retrieval cutoff (spec §4.7, §9 open
// question: kept as a constant per DESIGN.md's Open Question decision).
const MinimumSimilarity = 0.30

// TopK is the default number of results requested (spec §4.7).
const TopK = 5

// KnowledgeBase is the narrow storage surface retrieval needs.
type KnowledgeBase interface {
	SearchKnowledgeBase(ctx context.Context, orgID string, queryEmbedding []float32, topK int, minSimilarity float64) ([]model.KnowledgeBaseEntry, error)
}

// Retriever embeds a requirement and searches the knowledge base, scoped to
// orgID when provided. On any backend failure it returns an empty result
// set rather than failing the caller (spec §4.7: "on backend failure,
// return empty").
type Retriever struct {
	Embedding embedding.Client
	KB        KnowledgeBase
}

func New(emb embedding.Client, kb KnowledgeBase) *Retriever {
	return &Retriever{Embedding: emb, KB: kb}
}

func (r *Retriever) Retrieve(ctx context.Context, orgID, title, description string) []model.KnowledgeBaseEntry {
	query := title + " " + description
	vec, err := r.Embedding.EmbedQuery(ctx, query)
	if err != nil {
		return nil
	}
	entries, err := r.KB.SearchKnowledgeBase(ctx, orgID, vec, TopK, MinimumSimilarity)
	if err != nil {
		return nil
	}
	return entries
}
