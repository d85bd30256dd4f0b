package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexusrfp/engine/pkg/llm"
	"github.com/nexusrfp/engine/pkg/storage/model"
)

func TestClassify_LLMPrimaryPath(t *testing.T) {
	mock := llm.NewMock()
	mock.GenerateResponses = []string{"pricing_sheet"}
	got := Classify(context.Background(), mock, "anything.pdf", "some content", false)
	assert.Equal(t, model.CategoryPricingSheet, got)
}

func TestClassify_FallsBackOnLLMFailure(t *testing.T) {
	mock := llm.NewMock()
	mock.GenerateErr = assertErr{}
	got := Classify(context.Background(), mock, "Commercial_Terms_v2.pdf", "irrelevant", false)
	assert.Equal(t, model.CategoryCommercialTerms, got)
}

func TestClassify_HeuristicDefaultsToRFPDocument(t *testing.T) {
	mock := llm.NewMock()
	mock.GenerateErr = assertErr{}
	got := Classify(context.Background(), mock, "upload.pdf", "nothing special here", false)
	assert.Equal(t, model.CategoryRFPDocument, got)
}

func TestClassify_ContentKeywordHeuristic(t *testing.T) {
	mock := llm.NewMock()
	mock.GenerateErr = assertErr{}
	content := "This includes a unit cost breakdown and total price per line item."
	got := Classify(context.Background(), mock, "upload.pdf", content, false)
	assert.Equal(t, model.CategoryPricingSheet, got)
}

type assertErr struct{}

func (assertErr) Error() string { return "llm unavailable" }
