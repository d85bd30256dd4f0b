// Package scoring is the compliance scorer (L13a): weighted-mean
// aggregation of response compliance statuses. Ported from the original's
// calculate_compliance_scores (pure arithmetic, not LLM-backed).
package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/nexusrfp/engine/pkg/llm"
	"github.com/nexusrfp/engine/pkg/maps"
	"github.com/nexusrfp/engine/pkg/storage/model"
)

// weights: not_applicable is excluded from the mean entirely, not weighted
// zero, per spec §4.8.
var weights = map[model.ComplianceStatus]float64{
	model.FullyCompliant:     1.0,
	model.Configurable:       0.8,
	model.PartiallyCompliant: 0.5,
	model.CustomDev:          0.3,
}

// Result is the scored output: overall, per-type breakdowns, and verbatim
// status counts.
type Result struct {
	OverallScore     float64
	ByType           map[model.RequirementType]float64
	StatusBreakdown  map[model.ComplianceStatus]int
}

// Score aggregates responses joined to their requirement's type. Empty
// input yields all zeros (spec §4.8, §8 boundary).
func Score(responses []model.Response, reqTypes map[string]model.RequirementType) Result {
	result := Result{
		ByType:          map[model.RequirementType]float64{},
		StatusBreakdown: map[model.ComplianceStatus]int{},
	}
	if len(responses) == 0 {
		return result
	}

	var overallSum float64
	var overallCount int
	typeSum := maps.NewHashMap[model.RequirementType, float64]()
	typeCount := maps.NewHashMap[model.RequirementType, int]()

	for _, r := range responses {
		result.StatusBreakdown[r.ComplianceStatus]++

		weight, scored := weights[r.ComplianceStatus]
		if !scored {
			continue // not_applicable: excluded from the mean
		}
		overallSum += weight
		overallCount++

		reqType := reqTypes[r.RequirementID]
		sum, _ := typeSum.Get(reqType)
		typeSum.Put(reqType, sum+weight)
		count, _ := typeCount.Get(reqType)
		typeCount.Put(reqType, count+1)
	}

	if overallCount > 0 {
		result.OverallScore = (overallSum / float64(overallCount)) * 100
	}
	for t, count := range typeCount {
		if count > 0 {
			sum, _ := typeSum.Get(t)
			result.ByType[t] = (sum / float64(count)) * 100
		}
	}
	return result
}

// NarrativeSummary is the LLM-backed additive layer recovered from the
// original's COMPLIANCE_TOOL schema (risk_areas, recommendations) — see
// SPEC_FULL.md §9. It never substitutes for the deterministic Score above.
type NarrativeSummary struct {
	RiskAreas       []string `json:"risk_areas"`
	Recommendations []string `json:"recommendations"`
}

var narrativeTool = llm.Tool{
	Name:        "summarize_compliance_risk",
	Description: "Given an aggregate compliance score and status breakdown, identify risk areas and recommendations.",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"risk_areas":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"recommendations": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"risk_areas", "recommendations"},
	},
}

const narrativeSystemPrompt = `You are a proposal risk analyst. Given a compliance score summary, identify the weakest areas and recommend mitigations using the summarize_compliance_risk tool.`

// Summarize calls the LLM for the optional narrative layer. Failure here is
// not fatal to the pipeline; callers should treat it as StagePartial.
func Summarize(ctx context.Context, client llm.Client, result Result) (NarrativeSummary, error) {
	user := summaryPrompt(result)
	raw, err := client.GenerateStructured(ctx, narrativeSystemPrompt, user, narrativeTool, 512)
	if err != nil {
		return NarrativeSummary{}, err
	}
	var out NarrativeSummary
	if err := json.Unmarshal(raw, &out); err != nil {
		return NarrativeSummary{}, err
	}
	return out, nil
}

func summaryPrompt(result Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall compliance score: %.1f\n", result.OverallScore)
	sb.WriteString("Status breakdown:\n")
	statuses := make([]string, 0, len(result.StatusBreakdown))
	for status := range result.StatusBreakdown {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		fmt.Fprintf(&sb, "- %s: %d\n", s, result.StatusBreakdown[model.ComplianceStatus(s)])
	}
	return sb.String()
}
