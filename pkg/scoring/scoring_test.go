package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexusrfp/engine/pkg/storage/model"
)

func TestScore_EmptyInputIsZero(t *testing.T) {
	result := Score(nil, nil)
	assert.Equal(t, float64(0), result.OverallScore)
	assert.Empty(t, result.ByType)
}

func TestScore_WeightedMean(t *testing.T) {
	responses := []model.Response{
		{RequirementID: "r1", ComplianceStatus: model.FullyCompliant},
		{RequirementID: "r2", ComplianceStatus: model.PartiallyCompliant},
		{RequirementID: "r3", ComplianceStatus: model.NotApplicable},
	}
	reqTypes := map[string]model.RequirementType{
		"r1": model.ReqTechnical,
		"r2": model.ReqTechnical,
		"r3": model.ReqTechnical,
	}
	result := Score(responses, reqTypes)
	// (1.0 + 0.5) / 2 * 100 = 75; not_applicable excluded from the mean.
	assert.Equal(t, 75.0, result.OverallScore)
	assert.Equal(t, 75.0, result.ByType[model.ReqTechnical])
	assert.Equal(t, 1, result.StatusBreakdown[model.NotApplicable])
}

func TestScore_InRangeZeroToHundred(t *testing.T) {
	responses := []model.Response{
		{RequirementID: "r1", ComplianceStatus: model.CustomDev},
	}
	result := Score(responses, map[string]model.RequirementType{"r1": model.ReqCommercial})
	assert.GreaterOrEqual(t, result.OverallScore, 0.0)
	assert.LessOrEqual(t, result.OverallScore, 100.0)
}
