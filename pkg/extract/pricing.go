package extract

import (
	"context"
	"encoding/json"

	"github.com/nexusrfp/engine/internal/errkind"
	"github.com/nexusrfp/engine/pkg/llm"
)

const pricingSystemPrompt = `You are a procurement pricing analyst. Determine whether the provided text contains a pricing template and enumerate its line items using the extract_pricing_structure tool.`

const pricingMaxChars = 6000

// PricingLineItemRecord is the decoded tool-result shape for one line item.
type PricingLineItemRecord struct {
	Category       string `json:"category"`
	LineItem       string `json:"line_item"`
	Description    string `json:"description"`
	UnitOfMeasure  string `json:"unit_of_measure"`
	MultiYear      bool   `json:"multi_year"`
	YearsRequested int    `json:"years_requested"`
}

type pricingToolResult struct {
	HasPricingTemplate bool                    `json:"has_pricing_template"`
	LineItems          []PricingLineItemRecord `json:"line_items"`
}

// Pricing runs one call over the first 6000 characters of text (spec §4.4).
// Like Schedule, failures re-raise rather than being chunk-isolated.
func Pricing(ctx context.Context, client llm.Client, text string) (hasTemplate bool, items []PricingLineItemRecord, err error) {
	excerpt := text
	if len(excerpt) > pricingMaxChars {
		excerpt = excerpt[:pricingMaxChars]
	}
	raw, err := client.GenerateStructured(ctx, pricingSystemPrompt, excerpt, pricingTool, 2048)
	if err != nil {
		return false, nil, errkind.Wrap(errkind.StagePartial, "extract", "pricing extraction", err)
	}
	var result pricingToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return false, nil, errkind.Wrap(errkind.StagePartial, "extract", "decode pricing result", err)
	}
	return result.HasPricingTemplate, result.LineItems, nil
}
