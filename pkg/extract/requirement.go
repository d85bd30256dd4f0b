package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/nexusrfp/engine/pkg/chunk"
	"github.com/nexusrfp/engine/pkg/llm"
	"github.com/nexusrfp/engine/pkg/storage/model"
	"github.com/nexusrfp/engine/pkg/stream"
)

const requirementSystemPrompt = `You are a procurement requirements analyst. Extract every discrete, testable requirement from the provided text chunk using the extract_requirements tool. Do not invent requirements that are not present in the text.`

// RequirementRecord is the decoded tool-result shape for one requirement,
// validated before it is trusted (§9: "treat the LLM as an untrusted server").
type RequirementRecord struct {
	Title             string `json:"title" validate:"required"`
	Description       string `json:"description" validate:"required"`
	Type              string `json:"type" validate:"required,oneof=functional non_functional commercial legal technical"`
	Category          string `json:"category"`
	IsMandatory       bool   `json:"is_mandatory"`
	ResponseRequired  bool   `json:"response_required"`
	Priority          string `json:"priority" validate:"required,oneof=high medium low"`
	ReferenceSection  string `json:"reference_section"`
}

type requirementToolResult struct {
	Requirements []RequirementRecord `json:"requirements"`
}

var validate = validator.New()

// Requirements runs the requirement extractor over every chunk of text,
// isolating chunk failures (spec §4.4: "a failed chunk logs and is
// skipped; the extractor returns whatever succeeded").
func Requirements(ctx context.Context, client llm.Client, text string, opts chunk.Options) []RequirementRecord {
	chunks := chunk.Split(text, opts)
	// Reading chunks off a stream.Reader rather than ranging the slice
	// directly mirrors the teacher's cold-source idiom and makes this loop
	// swappable for a live producer (e.g. a future streamed-chunk source)
	// without touching the consumption logic.
	reader := stream.OfSliceReader(chunks)
	var all []RequirementRecord
	for {
		c, err := reader.Read(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("requirement extraction aborted", "error", err)
			break
		}
		records, err := requirementsForChunk(ctx, client, c.Text)
		if err != nil {
			slog.Warn("requirement extraction chunk failed", "chunk_index", c.ChunkIndex, "error", err)
			continue
		}
		all = append(all, records...)
	}
	return all
}

func requirementsForChunk(ctx context.Context, client llm.Client, text string) ([]RequirementRecord, error) {
	raw, err := client.GenerateStructured(ctx, requirementSystemPrompt, text, requirementTool, 4096)
	if err != nil {
		return nil, err
	}
	var result requirementToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	valid := result.Requirements[:0]
	for _, r := range result.Requirements {
		if err := validate.Struct(r); err != nil {
			slog.Warn("dropping malformed requirement record", "error", err)
			continue
		}
		valid = append(valid, r)
	}
	return valid, nil
}

// Renumber assigns req_number per type in discovery order (FR-001, NFR-001,
// CR-001, LR-001, TR-001), matching spec §4.4.
func Renumber(records []RequirementRecord) []model.Requirement {
	counters := map[model.RequirementType]int{}
	out := make([]model.Requirement, 0, len(records))
	for _, r := range records {
		t := model.RequirementType(r.Type)
		counters[t]++
		out = append(out, model.Requirement{
			Title:            r.Title,
			Description:      r.Description,
			Type:             t,
			Category:         r.Category,
			IsMandatory:      r.IsMandatory,
			Priority:         model.Priority(r.Priority),
			ResponseRequired: r.ResponseRequired,
			ReferenceSection: r.ReferenceSection,
			ReqNumber:        formatReqNumber(t.Prefix(), counters[t]),
		})
	}
	return out
}

func formatReqNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}
