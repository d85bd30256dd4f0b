// Package embedding is the embedding client (L3): single/batch text
// embeddings and query embeddings. Grounded on the original
// EmbeddingClient (voyageai.Client wrapper, batch_size=64, tenacity retry).
// No Go SDK for this provider exists anywhere in the example pack, so the
// HTTP transport is hand-rolled over net/http; retry reuses
// cenkalti/backoff/v4 for consistency with pkg/llm.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nexusrfp/engine/internal/errkind"
	"github.com/nexusrfp/engine/pkg/slices"
)

const batchSize = 64

// InputType selects the provider's asymmetric embedding mode.
type InputType string

const (
	InputDocument InputType = "document"
	InputQuery    InputType = "query"
)

// Client is the embedding port injected into the deduper, extractor, and
// retriever.
type Client interface {
	EmbedTexts(ctx context.Context, texts []string, inputType InputType) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VoyageClient implements Client over the Voyage AI embeddings endpoint.
type VoyageClient struct {
	apiKey string
	model  string
	dims   int
	http   *http.Client
	base   string
}

func New(apiKey, model string, dims int) *VoyageClient {
	return &VoyageClient{
		apiKey: apiKey,
		model:  model,
		dims:   dims,
		http:   &http.Client{Timeout: 30 * time.Second},
		base:   "https://api.voyageai.com/v1/embeddings",
	}
}

type embedRequest struct {
	Input     []string `json:"input"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// EmbedTexts embeds texts in batches of at most batchSize, concatenating
// results in input order, per spec §6.
func (c *VoyageClient) EmbedTexts(ctx context.Context, texts []string, inputType InputType) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for _, batch := range slices.Chunk(texts, batchSize) {
		vecs, err := c.embedBatch(ctx, batch, inputType)
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (c *VoyageClient) embedBatch(ctx context.Context, texts []string, inputType InputType) ([][]float32, error) {
	var result [][]float32
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 15 * time.Second
	policy := backoff.WithContext(backoff.WithMaxRetries(b, 2), ctx)

	op := func() error {
		reqBody, _ := json.Marshal(embedRequest{Input: texts, Model: c.model, InputType: string(inputType)})
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base, bytes.NewReader(reqBody))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err // transient: network error, retry
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("embedding provider status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("embedding provider status %d", resp.StatusCode))
		}

		var parsed embedResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
			return backoff.Permanent(err)
		}
		vectors := make([][]float32, len(texts))
		for _, d := range parsed.Data {
			if d.Index >= 0 && d.Index < len(vectors) {
				vectors[d.Index] = d.Embedding
			}
		}
		result = vectors
		return nil
	}
	if err := backoff.Retry(op, policy); err != nil {
		return nil, errkind.Wrap(errkind.Transient, "embedding", "embed batch", err)
	}
	return result, nil
}

func (c *VoyageClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.embedBatch(ctx, []string{text}, InputQuery)
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, errkind.New(errkind.Transient, "embedding: empty response")
	}
	return vecs[0], nil
}
