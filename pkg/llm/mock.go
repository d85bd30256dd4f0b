package llm

import (
	"context"
	"encoding/json"
)

// Mock is a scripted in-memory Client for tests. Generate responses and
// GenerateStructured responses are consumed in call order; a missing script
// entry returns a nil error with a zero result so tests can focus on the
// paths they care about.
type Mock struct {
	GenerateResponses   []string
	GenerateErr         error
	StructuredResponses []json.RawMessage
	StructuredErr       error

	genCalls, structCalls int
}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) Generate(_ context.Context, _, _ string, _ int, _ float64) (string, error) {
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	if m.genCalls >= len(m.GenerateResponses) {
		return "", nil
	}
	r := m.GenerateResponses[m.genCalls]
	m.genCalls++
	return r, nil
}

func (m *Mock) GenerateStructured(_ context.Context, _, _ string, _ Tool, _ int) (json.RawMessage, error) {
	if m.StructuredErr != nil {
		return nil, m.StructuredErr
	}
	if m.structCalls >= len(m.StructuredResponses) {
		return json.RawMessage(`{}`), nil
	}
	r := m.StructuredResponses[m.structCalls]
	m.structCalls++
	return r, nil
}

func (m *Mock) UsageStats() Usage { return Usage{} }
