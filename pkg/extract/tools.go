// Package extract implements the requirement, schedule, and pricing
// extractors (L7), each a forced tool-use call over pkg/llm + pkg/chunk.
// Tool schemas are ported verbatim from the original's
// REQUIREMENT_EXTRACTION_TOOL / SCHEDULE_EXTRACTION_TOOL /
// PRICING_EXTRACTION_TOOL — the schema is the contract (spec §4.4).
package extract

import "github.com/nexusrfp/engine/pkg/llm"

var requirementTool = llm.Tool{
	Name:        "extract_requirements",
	Description: "Extract discrete procurement requirements from the given text chunk.",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"requirements": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":              map[string]any{"type": "string"},
						"description":        map[string]any{"type": "string"},
						"type":               map[string]any{"type": "string", "enum": []string{"functional", "non_functional", "commercial", "legal", "technical"}},
						"category":           map[string]any{"type": "string"},
						"is_mandatory":       map[string]any{"type": "boolean"},
						"response_required":  map[string]any{"type": "boolean"},
						"priority":           map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
						"reference_section":  map[string]any{"type": "string"},
					},
					"required": []string{"title", "description", "type", "is_mandatory", "response_required", "priority"},
				},
			},
		},
		"required": []string{"requirements"},
	},
}

var scheduleTool = llm.Tool{
	Name:        "extract_schedule",
	Description: "Extract procurement schedule events from the given text.",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"events": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"event_type": map[string]any{"type": "string", "enum": []string{
							"rfp_release", "clarification_window", "qa_deadline", "submission_deadline",
							"demo_date", "award_notification", "contract_start", "other",
						}},
						"event_name": map[string]any{"type": "string"},
						"date":       map[string]any{"type": []string{"string", "null"}, "description": "ISO-8601 date or null"},
						"notes":      map[string]any{"type": "string"},
					},
					"required": []string{"event_type", "event_name"},
				},
			},
		},
		"required": []string{"events"},
	},
}

var pricingTool = llm.Tool{
	Name:        "extract_pricing_structure",
	Description: "Describe the pricing template structure and enumerate line items found in the given text.",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"has_pricing_template": map[string]any{"type": "boolean"},
			"line_items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"category": map[string]any{"type": "string", "enum": []string{
							"license", "implementation", "support", "add_on", "training", "hosting", "other",
						}},
						"line_item":       map[string]any{"type": "string"},
						"description":     map[string]any{"type": "string"},
						"unit_of_measure": map[string]any{"type": "string"},
						"multi_year":      map[string]any{"type": "boolean"},
						"years_requested": map[string]any{"type": "integer"},
					},
					"required": []string{"category", "line_item"},
				},
			},
		},
		"required": []string{"has_pricing_template", "line_items"},
	},
}
