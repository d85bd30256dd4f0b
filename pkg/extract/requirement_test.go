package extract

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusrfp/engine/pkg/chunk"
	"github.com/nexusrfp/engine/pkg/llm"
)

func TestRequirements_SingleChunkHappyPath(t *testing.T) {
	mock := llm.NewMock()
	mock.StructuredResponses = []json.RawMessage{
		json.RawMessage(`{"requirements":[
			{"title":"Encrypt data at rest","description":"AES-256","type":"technical","is_mandatory":true,"response_required":true,"priority":"high"},
			{"title":"Support SSO","description":"SAML 2.0","type":"functional","is_mandatory":false,"response_required":true,"priority":"medium"}
		]}`),
	}
	records := Requirements(context.Background(), mock, "short text", chunk.Options{})
	require.Len(t, records, 2)
	assert.Equal(t, "Encrypt data at rest", records[0].Title)
}

func TestRequirements_DropsInvalidRecords(t *testing.T) {
	mock := llm.NewMock()
	mock.StructuredResponses = []json.RawMessage{
		json.RawMessage(`{"requirements":[
			{"title":"","description":"missing title","type":"technical","priority":"high"},
			{"title":"Valid one","description":"ok","type":"functional","priority":"low"}
		]}`),
	}
	records := Requirements(context.Background(), mock, "short text", chunk.Options{})
	require.Len(t, records, 1)
	assert.Equal(t, "Valid one", records[0].Title)
}

func TestRenumber_AssignsPerTypeSequence(t *testing.T) {
	records := []RequirementRecord{
		{Title: "a", Type: "functional", Priority: "low"},
		{Title: "b", Type: "functional", Priority: "low"},
		{Title: "c", Type: "technical", Priority: "low"},
	}
	reqs := Renumber(records)
	require.Len(t, reqs, 3)
	assert.Equal(t, "FR-001", reqs[0].ReqNumber)
	assert.Equal(t, "FR-002", reqs[1].ReqNumber)
	assert.Equal(t, "TR-001", reqs[2].ReqNumber)
}
