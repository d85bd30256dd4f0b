// Package classify assigns a document category from a closed set (L9),
// LLM-primary with a deterministic keyword-heuristic fallback. Ported from
// the original's classifier.py (classify_document, _heuristic_classify).
package classify

import (
	"context"
	"strings"

	"github.com/nexusrfp/engine/pkg/kv"
	"github.com/nexusrfp/engine/pkg/llm"
	"github.com/nexusrfp/engine/pkg/storage/model"
)

// Categories is the closed document-category set, in the fixed order the
// LLM prompt presents them (so "first match wins" is deterministic).
var Categories = []model.DocCategory{
	model.CategoryRFPDocument,
	model.CategoryCommercialTerms,
	model.CategoryTechRequirements,
	model.CategoryPricingSheet,
	model.CategoryLegalAppendix,
	model.CategoryEvaluationCriteria,
}

var descriptions = map[model.DocCategory]string{
	model.CategoryRFPDocument:        "The core Request for Proposal or Request for Information document itself.",
	model.CategoryCommercialTerms:    "Commercial terms, contract conditions, or service-level agreements.",
	model.CategoryTechRequirements:   "Technical requirements, architecture, or integration specifications.",
	model.CategoryPricingSheet:       "A pricing template, cost breakdown, or rate card.",
	model.CategoryLegalAppendix:      "Legal appendices, compliance attestations, or certifications.",
	model.CategoryEvaluationCriteria: "Scoring rubric or evaluation criteria used by the buyer.",
}

// contentKeywordThreshold is the declared minimum keyword-count hit for the
// content-based heuristic fallback to prefer a non-default category.
const contentKeywordThreshold = 2

var filenameKeywords = map[model.DocCategory][]string{
	model.CategoryCommercialTerms:    {"terms", "sla", "contract"},
	model.CategoryTechRequirements:   {"technical", "tech_spec", "architecture"},
	model.CategoryPricingSheet:       {"pricing", "cost", "rate_card", "rates"},
	model.CategoryLegalAppendix:      {"legal", "compliance", "certification"},
	model.CategoryEvaluationCriteria: {"evaluation", "scoring", "rubric"},
}

var contentKeywords = map[model.DocCategory][]string{
	model.CategoryCommercialTerms:    {"service level agreement", "termination clause", "payment terms"},
	model.CategoryTechRequirements:   {"architecture diagram", "api specification", "integration requirement"},
	model.CategoryPricingSheet:       {"unit cost", "line item", "total price"},
	model.CategoryLegalAppendix:      {"indemnification", "certificate of insurance", "non-disclosure"},
	model.CategoryEvaluationCriteria: {"scoring criteria", "weighted score", "evaluation panel"},
}

const maxContentChars = 3000

func systemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are a procurement document classifier. Given a document's filename, a text excerpt, and whether it contains tables, respond with exactly one category name and nothing else:\n")
	for _, cat := range Categories {
		sb.WriteString("- ")
		sb.WriteString(string(cat))
		sb.WriteString(": ")
		sb.WriteString(descriptions[cat])
		sb.WriteString("\n")
	}
	return sb.String()
}

// Classify returns a category for the document. It queries the LLM first;
// on any LLM failure it falls back to a deterministic heuristic so the
// pipeline never stalls on classification (spec §4.3, §7 StagePartial).
func Classify(ctx context.Context, client llm.Client, filename, content string, hasTables bool) model.DocCategory {
	excerpt := content
	if len(excerpt) > maxContentChars {
		excerpt = excerpt[:maxContentChars]
	}

	if client != nil {
		user := buildUserPrompt(filename, excerpt, hasTables)
		resp, err := client.Generate(ctx, systemPrompt(), user, 64, 0)
		if err == nil {
			if cat, ok := matchCategory(resp); ok {
				return cat
			}
		}
	}
	return heuristicClassify(filename, content)
}

func buildUserPrompt(filename, excerpt string, hasTables bool) string {
	var sb strings.Builder
	sb.WriteString("Filename: ")
	sb.WriteString(filename)
	sb.WriteString("\nContains tables: ")
	if hasTables {
		sb.WriteString("yes")
	} else {
		sb.WriteString("no")
	}
	sb.WriteString("\n\nExcerpt:\n")
	sb.WriteString(excerpt)
	return sb.String()
}

// matchCategory picks the first category whose name case-insensitively
// appears in the response, in the declared Categories order (spec §4.3).
func matchCategory(response string) (model.DocCategory, bool) {
	lower := strings.ToLower(response)
	for _, cat := range Categories {
		if strings.Contains(lower, string(cat)) {
			return cat, true
		}
	}
	return "", false
}

// heuristicClassify runs filename-token matching first, then
// content-keyword counting, defaulting to rfp_document (spec §4.3:
// "filename tokens beat content tokens; category keyword counts >=
// threshold beat the default").
func heuristicClassify(filename, content string) model.DocCategory {
	lowerName := strings.ToLower(filename)
	for _, cat := range Categories {
		for _, kw := range filenameKeywords[cat] {
			if strings.Contains(lowerName, kw) {
				return cat
			}
		}
	}

	lowerContent := strings.ToLower(content)
	// Counts are kept in the declared Categories order (kv.OrderedKV,
	// not a bare map) so ties resolve to the earlier-declared category
	// deterministically, matching the declared-order prompt in systemPrompt.
	counts := kv.NewOrderedKV[model.DocCategory, int]()
	for _, cat := range Categories {
		count := 0
		for _, kw := range contentKeywords[cat] {
			count += strings.Count(lowerContent, kw)
		}
		counts.Put(cat, count)
	}

	best := model.CategoryRFPDocument
	bestCount := 0
	for cat, count := range counts.Iterator() {
		if count >= contentKeywordThreshold && count > bestCount {
			best = cat
			bestCount = count
		}
	}
	return best
}
