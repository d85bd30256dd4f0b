package answeredxlsx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nexusrfp/engine/pkg/spreadsheet"
)

type fakeGenerator struct {
	responses []string
	calls     int
	err       error
}

func (f *fakeGenerator) Generate(_ context.Context, _, _ string, _ int, _ float64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.calls >= len(f.responses) {
		return "[]", nil
	}
	r := f.responses[f.calls]
	f.calls++
	return r, nil
}

func buildSheet(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	sheet := "Sheet1"
	f.SetCellValue(sheet, "A1", "ID")
	f.SetCellValue(sheet, "B1", "Question")
	f.SetCellValue(sheet, "D1", "Response")
	f.SetCellValue(sheet, "A2", "Q.1")
	f.SetCellValue(sheet, "B2", "Does the system support SSO?")
	return f
}

func TestAnswerSheets_HappyPathWritesBack(t *testing.T) {
	f := buildSheet(t)
	gen := &fakeGenerator{responses: []string{
		`[{"row":2,"sheet_name":"Sheet1","response_col_letter":"D","answer":"Yes, via SAML 2.0."}]`,
	}}
	questions := []spreadsheet.QuestionRecord{
		{Row: 2, ID: "Q.1", Question: "Does the system support SSO?", ResponseColLetter: "D"},
	}
	reports, err := AnswerSheets(context.Background(), gen, f, map[string][]spreadsheet.QuestionRecord{"Sheet1": questions})
	require.NoError(t, err)
	assert.Equal(t, 1, reports["Sheet1"].Written)
	v, _ := f.GetCellValue("Sheet1", "D2")
	assert.Equal(t, "Yes, via SAML 2.0.", v)
}

func TestAnswerSheets_StripsCodeFences(t *testing.T) {
	f := buildSheet(t)
	gen := &fakeGenerator{responses: []string{
		"```json\n[{\"row\":2,\"sheet_name\":\"Sheet1\",\"response_col_letter\":\"D\",\"answer\":\"Yes.\"}]\n```",
	}}
	questions := []spreadsheet.QuestionRecord{
		{Row: 2, ID: "Q.1", Question: "Does the system support SSO?", ResponseColLetter: "D"},
	}
	reports, err := AnswerSheets(context.Background(), gen, f, map[string][]spreadsheet.QuestionRecord{"Sheet1": questions})
	require.NoError(t, err)
	assert.Equal(t, 1, reports["Sheet1"].Written)
}

func TestAnswerSheets_MalformedBatchIsDroppedNotRetried(t *testing.T) {
	f := buildSheet(t)
	gen := &fakeGenerator{responses: []string{"not json at all"}}
	questions := []spreadsheet.QuestionRecord{
		{Row: 2, ID: "Q.1", Question: "Does the system support SSO?", ResponseColLetter: "D"},
	}
	reports, err := AnswerSheets(context.Background(), gen, f, map[string][]spreadsheet.QuestionRecord{"Sheet1": questions})
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 0, reports["Sheet1"].Written)
}

func TestAnswerSheets_SkipsCategoryHeaderRows(t *testing.T) {
	f := buildSheet(t)
	gen := &fakeGenerator{responses: []string{`[]`}}
	questions := []spreadsheet.QuestionRecord{
		{Row: 3, ID: "", Category: "Security", Question: "Security"},
		{Row: 4, ID: "Q.2", Question: "Does the system encrypt data at rest?", ResponseColLetter: "D"},
	}
	_, err := AnswerSheets(context.Background(), gen, f, map[string][]spreadsheet.QuestionRecord{"Sheet1": questions})
	require.NoError(t, err)
}
