package dedupe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexusrfp/engine/pkg/embedding"
)

func TestDedupe_KeepsFirstDropsNearDuplicate(t *testing.T) {
	records := []Record{
		{Title: "System shall encrypt data at rest", Description: "AES-256"},
		{Title: "System shall encrypt data at rest", Description: "AES-256 encryption"},
		{Title: "System shall support SSO", Description: "SAML 2.0"},
	}
	kept := Dedupe(context.Background(), embedding.NewMock(32), records)
	assert.Contains(t, kept, 0)
	assert.Contains(t, kept, 2)
	assert.NotContains(t, kept, 1)
}

func TestDedupe_EmptyInput(t *testing.T) {
	assert.Nil(t, Dedupe(context.Background(), embedding.NewMock(32), nil))
}

func TestDedupe_DegradesToPassThroughOnEmbeddingFailure(t *testing.T) {
	records := []Record{{Title: "a"}, {Title: "a"}, {Title: "b"}}
	mock := embedding.NewMock(32)
	mock.Err = assertErr{}
	kept := Dedupe(context.Background(), mock, records)
	assert.Equal(t, []int{0, 1, 2}, kept)
}

type assertErr struct{}

func (assertErr) Error() string { return "embedding unavailable" }

func TestDedupe_OrderStable(t *testing.T) {
	records := []Record{
		{Title: "Alpha requirement text"},
		{Title: "Beta requirement text"},
		{Title: "Alpha requirement text"},
	}
	kept := Dedupe(context.Background(), embedding.NewMock(32), records)
	assert.Equal(t, []int{0, 1}, kept)
}
