package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUploadContext_EmptyYieldsZeroValue(t *testing.T) {
	hints := ParseUploadContext("")
	assert.Empty(t, hints.SheetNames)
	assert.Empty(t, hints.ClientName)
	assert.Empty(t, hints.FocusFiles)
}

func TestParseUploadContext_ExtractsSheetAndClientHints(t *testing.T) {
	hints := ParseUploadContext(`Please focus on sheet: "Technical Requirements" for client: Acme Corp`)
	assert.Equal(t, []string{"Technical Requirements"}, hints.SheetNames)
	assert.Equal(t, "Acme Corp", hints.ClientName)
}

func TestParseUploadContext_IgnoresMissingSeparator(t *testing.T) {
	hints := ParseUploadContext("focus on sheet Pricing without a colon")
	assert.Empty(t, hints.SheetNames)
}

func TestParseUploadContext_RecoversFocusFileHint(t *testing.T) {
	hints := ParseUploadContext("focus on Pricing.xlsx please")
	assert.Equal(t, []string{"Pricing.xlsx"}, hints.FocusFiles)
}

func TestSelectSheets_FallsBackWhenNoHintMatches(t *testing.T) {
	auto := []string{"Sheet1", "Sheet2"}
	got := SelectSheets(auto, []string{"nonexistent"})
	assert.Equal(t, auto, got)
}

func TestSelectSheets_IntersectsCaseInsensitiveSubstring(t *testing.T) {
	auto := []string{"Technical Requirements", "Pricing"}
	got := SelectSheets(auto, []string{"technical"})
	assert.Equal(t, []string{"Technical Requirements"}, got)
}
