// Package generate is the response generator (L12): RAG prompt assembly +
// tool-constrained LLM call per requirement, with bounded-parallel batch
// generation. Grounded on the original's generator.py
// (generate_response, generate_responses_batch) and the teacher's
// ai/rag/pipeline.go errgroup fan-out pattern.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/nexusrfp/engine/pkg/llm"
	"github.com/nexusrfp/engine/pkg/storage/model"
)

const systemPrompt = `You are a proposal response writer. Assess compliance against the requirement using exactly one of: fully_compliant, configurable, partially_compliant, custom_dev, not_applicable.
- fully_compliant: the solution meets the requirement out of the box with no changes.
- configurable: the solution meets the requirement via configuration, no custom development.
- partially_compliant: the solution meets part of the requirement; some gaps remain.
- custom_dev: meeting the requirement needs custom development.
- not_applicable: the requirement does not apply to this solution.
Calibrate confidence_score in [0,1]: 0.9+ only when a knowledge base excerpt directly confirms the claim; 0.5-0.8 when inferring from related excerpts; below 0.5 when no supporting excerpt exists.
Write response_text as 2-5 sentences. Use the generate_response tool.`

var responseTool = llm.Tool{
	Name:        "generate_response",
	Description: "Produce a compliance-assessed RFP response for one requirement.",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"compliance_status": map[string]any{"type": "string", "enum": []string{
				"fully_compliant", "partially_compliant", "configurable", "custom_dev", "not_applicable",
			}},
			"response_text":    map[string]any{"type": "string"},
			"confidence_score": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"key_features":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"notes":            map[string]any{"type": "string"},
		},
		"required": []string{"compliance_status", "response_text", "confidence_score"},
	},
}

type responseToolResult struct {
	ComplianceStatus string   `json:"compliance_status"`
	ResponseText     string   `json:"response_text"`
	ConfidenceScore  float64  `json:"confidence_score"`
	KeyFeatures      []string `json:"key_features"`
	Notes            string   `json:"notes"`
}

const excerptTruncateChars = 500

// Generate runs one RAG-assembled tool call for a requirement. Caller
// failures are handled by Batch, not here, so Generate can be used
// standalone in tests.
func Generate(ctx context.Context, client llm.Client, req model.Requirement, kb []model.KnowledgeBaseEntry) (model.Response, error) {
	user := buildUserPrompt(req, kb)
	raw, err := client.GenerateStructured(ctx, systemPrompt, user, responseTool, 1024)
	if err != nil {
		return model.Response{}, err
	}
	var result responseToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return model.Response{}, err
	}
	return model.Response{
		RequirementID:    req.ID,
		ProjectID:        req.ProjectID,
		ComplianceStatus: model.ComplianceStatus(result.ComplianceStatus),
		ResponseText:     result.ResponseText,
		ConfidenceScore:  result.ConfidenceScore,
		SourceRefs:       sourceRefsFrom(kb),
		IsAIGenerated:    true,
		Notes:            result.Notes,
	}, nil
}

func buildUserPrompt(req model.Requirement, kb []model.KnowledgeBaseEntry) string {
	var sb strings.Builder
	sb.WriteString("Requirement ")
	sb.WriteString(req.ReqNumber)
	sb.WriteString(": ")
	sb.WriteString(req.Title)
	sb.WriteString("\n")
	sb.WriteString(req.Description)
	sb.WriteString("\n\nKnowledge base excerpts:\n")
	for i, e := range kb {
		excerpt := e.Content
		if len(excerpt) > excerptTruncateChars {
			excerpt = excerpt[:excerptTruncateChars]
		}
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, e.Title, excerpt)
	}
	return sb.String()
}

func sourceRefsFrom(kb []model.KnowledgeBaseEntry) []model.SourceRef {
	return lo.Map(kb, func(e model.KnowledgeBaseEntry, _ int) model.SourceRef {
		return model.SourceRef{KBEntryID: e.ID, Title: e.Title}
	})
}

// KBLookup supplies retrieved KB entries for a requirement; implemented by
// pkg/retrieval.Retriever in production and a fake in tests.
type KBLookup interface {
	Retrieve(ctx context.Context, orgID, title, description string) []model.KnowledgeBaseEntry
}

// Batch generates responses for every requirement with bounded parallelism
// (spec §9: "batched LLM calls" is one of the two named fan-out points).
// Per-requirement failures do not abort the batch — they yield a stub
// response (spec §4.7).
func Batch(ctx context.Context, client llm.Client, kb KBLookup, orgID string, reqs []model.Requirement, concurrency int) []model.Response {
	if concurrency <= 0 {
		concurrency = 5
	}
	responses := make([]model.Response, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	var mu sync.Mutex

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			entries := kb.Retrieve(gctx, orgID, req.Title, req.Description)
			resp, err := Generate(gctx, client, req, entries)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				responses[i] = stubResponse(req, err)
				return nil
			}
			responses[i] = resp
			return nil
		})
	}
	_ = g.Wait() // per-requirement errors are swallowed into stub responses above
	return responses
}

func stubResponse(req model.Requirement, err error) model.Response {
	return model.Response{
		RequirementID:    req.ID,
		ProjectID:        req.ProjectID,
		ComplianceStatus: model.CustomDev,
		ResponseText:     "Response generation failed. Manual response required.",
		ConfidenceScore:  0,
		IsAIGenerated:    true,
		Notes:            err.Error(),
	}
}
