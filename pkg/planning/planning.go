// Package planning generates the ResponsePlan (L13b): workstreams,
// escalation matrix, and collaboration notes via a forced tool-use call.
// Ported from the original's plan_generator.py (PLAN_GENERATION_TOOL,
// SYSTEM_PROMPT) — this is the concrete body behind spec.md §3's
// ResponsePlan entity, which spec.md's §4 never details (SPEC_FULL.md §9).
package planning

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nexusrfp/engine/pkg/llm"
	"github.com/nexusrfp/engine/pkg/storage/model"
)

const systemPrompt = `You are a proposal program manager. Given a project's requirement summary and compliance score, produce a response plan: named workstreams with an owning role, priority, and dependencies; a three-level escalation matrix (L1/L2/L3) with contact role and trigger condition; and brief collaboration notes. Use the generate_response_plan tool.`

var planTool = llm.Tool{
	Name:        "generate_response_plan",
	Description: "Produce a structured response plan for a procurement proposal.",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"workstreams": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":         map[string]any{"type": "string"},
						"owner":        map[string]any{"type": "string"},
						"priority":     map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
						"dependencies": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"notes":        map[string]any{"type": "string"},
					},
					"required": []string{"name", "owner", "priority"},
				},
			},
			"escalation_matrix": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"level":   map[string]any{"type": "string", "enum": []string{"L1", "L2", "L3"}},
						"contact": map[string]any{"type": "string"},
						"trigger": map[string]any{"type": "string"},
					},
					"required": []string{"level", "contact", "trigger"},
				},
			},
			"notes": map[string]any{"type": "string"},
		},
		"required": []string{"workstreams", "escalation_matrix"},
	},
}

type planToolResult struct {
	Workstreams      []model.Workstream      `json:"workstreams"`
	EscalationMatrix []model.EscalationLevel `json:"escalation_matrix"`
	Notes            string                  `json:"notes"`
}

// Generate produces a ResponsePlan for the project. version is the caller-
// supplied next version number (spec §3: "Regeneration replaces payload
// and increments version").
func Generate(ctx context.Context, client llm.Client, projectID string, requirementCount int, overallScore float64, version int, ownerID string) (model.ResponsePlan, error) {
	user := fmt.Sprintf("Project has %d requirements with an overall compliance score of %.1f.", requirementCount, overallScore)
	raw, err := client.GenerateStructured(ctx, systemPrompt, user, planTool, 1536)
	if err != nil {
		return model.ResponsePlan{}, err
	}
	var result planToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return model.ResponsePlan{}, err
	}
	return model.ResponsePlan{
		ProjectID:        projectID,
		Workstreams:      result.Workstreams,
		EscalationMatrix: result.EscalationMatrix,
		Version:          version,
		Notes:            result.Notes,
		OwnerID:          ownerID,
	}, nil
}
