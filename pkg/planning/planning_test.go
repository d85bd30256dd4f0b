package planning

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusrfp/engine/pkg/llm"
)

func TestGenerate_HappyPath(t *testing.T) {
	mock := llm.NewMock()
	mock.StructuredResponses = []json.RawMessage{
		json.RawMessage(`{
			"workstreams": [
				{"name": "Technical Response", "owner": "Solutions Engineering", "priority": "high", "dependencies": []}
			],
			"escalation_matrix": [
				{"level": "L1", "contact": "Proposal Manager", "trigger": "Any open question older than 24h"}
			],
			"notes": "Weekly sync on Mondays."
		}`),
	}
	plan, err := Generate(context.Background(), mock, "proj-1", 12, 82.5, 1, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "proj-1", plan.ProjectID)
	assert.Equal(t, 1, plan.Version)
	require.Len(t, plan.Workstreams, 1)
	assert.Equal(t, "Technical Response", plan.Workstreams[0].Name)
	require.Len(t, plan.EscalationMatrix, 1)
	assert.Equal(t, "L1", plan.EscalationMatrix[0].Level)
	assert.Equal(t, "owner-1", plan.OwnerID)
}

func TestGenerate_PropagatesLLMError(t *testing.T) {
	mock := llm.NewMock()
	mock.StructuredErr = assert.AnError
	_, err := Generate(context.Background(), mock, "proj-1", 1, 0, 1, "owner-1")
	require.Error(t, err)
}
