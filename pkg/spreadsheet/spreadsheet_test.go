package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildTestSheet(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	sheet := "D. Functional Requirements"
	idx, err := f.NewSheet(sheet)
	require.NoError(t, err)
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	rows := [][]string{
		{"ID", "Question", "Score", "Response"},
		{"", "", "", ""},
		{"", "Security", "", ""},
		{"D.1", "The system shall encrypt data at rest.", "", ""},
		{"D.2", "Does the system support SSO?", "", ""},
	}
	for r, row := range rows {
		for c, val := range row {
			cellRef, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cellRef, val)
		}
	}
	_ = f.MergeCell(sheet, "B3", "E3")
	return f
}

func TestDetectStructure_HeaderRowAndColumns(t *testing.T) {
	f := buildTestSheet(t)
	s, err := DetectStructure(f, "D. Functional Requirements")
	require.NoError(t, err)
	assert.True(t, s.Detected)
	assert.Equal(t, 1, s.HeaderRow)
	assert.Equal(t, 2, s.FirstDataRow)
	assert.Equal(t, "B", s.QuestionCol)
	assert.Equal(t, "D", s.ResponseCol)
	assert.True(t, s.Answerable())
}

func TestExtractQuestions_CategoryHeaderAndBinaryClassification(t *testing.T) {
	f := buildTestSheet(t)
	s, err := DetectStructure(f, "D. Functional Requirements")
	require.NoError(t, err)

	records, err := ExtractQuestions(f, "D. Functional Requirements", s)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "D.1", records[0].ID)
	assert.Equal(t, "Security", records[0].Category)
	assert.Equal(t, QuestionBinary, records[0].QuestionType)
}

func TestWriteAnswers_MergedCellUnmergeAndAnchorWrite(t *testing.T) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	_ = f.SetCellValue(sheet, "C9", "keep me")
	_ = f.MergeCell(sheet, "D10", "E10")

	report, err := WriteAnswers(f, sheet, []AnswerRecord{
		{Row: 10, ResponseColLetter: "D", Answer: "We comply fully."},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Written)
	assert.Equal(t, 1, report.Unmerged)
	assert.Equal(t, 0, report.SkippedFormula)

	val, _ := f.GetCellValue(sheet, "D10")
	assert.Equal(t, "We comply fully.", val)

	preserved, _ := f.GetCellValue(sheet, "C9")
	assert.Equal(t, "keep me", preserved)
}

func TestWriteAnswers_SkipsFormulaScoreCell(t *testing.T) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	_ = f.SetCellFormula(sheet, "C10", "=SUM(A1:A2)")

	score := 0.8
	report, err := WriteAnswers(f, sheet, []AnswerRecord{
		{Row: 10, ResponseColLetter: "D", Answer: "ok", Score: &score, ScoreColLetter: "C"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.SkippedFormula)
}
