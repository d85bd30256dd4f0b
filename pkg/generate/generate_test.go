package generate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusrfp/engine/pkg/llm"
	"github.com/nexusrfp/engine/pkg/storage/model"
)

type fakeKB struct{}

func (fakeKB) Retrieve(_ context.Context, _, _, _ string) []model.KnowledgeBaseEntry {
	return []model.KnowledgeBaseEntry{{ID: "kb1", Title: "Encryption whitepaper", Content: "We use AES-256 at rest."}}
}

func TestGenerate_HappyPath(t *testing.T) {
	mock := llm.NewMock()
	mock.StructuredResponses = []json.RawMessage{
		json.RawMessage(`{"compliance_status":"fully_compliant","response_text":"We fully support this.","confidence_score":0.95}`),
	}
	req := model.Requirement{ID: "r1", ReqNumber: "TR-001", Title: "Encrypt at rest"}
	resp, err := Generate(context.Background(), mock, req, nil)
	require.NoError(t, err)
	assert.Equal(t, model.FullyCompliant, resp.ComplianceStatus)
	assert.Equal(t, 0.95, resp.ConfidenceScore)
}

func TestBatch_PerRequirementFailureYieldsStub(t *testing.T) {
	mock := llm.NewMock()
	mock.StructuredErr = errors.New("provider down")
	reqs := []model.Requirement{{ID: "r1"}, {ID: "r2"}}
	responses := Batch(context.Background(), mock, fakeKB{}, "", reqs, 2)
	require.Len(t, responses, 2)
	for _, r := range responses {
		assert.Equal(t, model.CustomDev, r.ComplianceStatus)
		assert.Equal(t, float64(0), r.ConfidenceScore)
	}
}
