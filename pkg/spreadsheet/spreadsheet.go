// Package spreadsheet is the questionnaire engine (L10): structure
// detection, question extraction, and merge-aware answer write-back.
// Ported field-for-field from the original's
// .claude/skills/AnswerRFI_RFP_OPExcel/scripts/parse_excel_rfp.py
// (SheetStructureDetector, QuestionExtractor, AnswerWriter).
package spreadsheet

// Structure is the detected layout of one worksheet.
type Structure struct {
	HeaderRow        int // 1-indexed
	FirstDataRow     int
	QuestionCol      string
	ResponseCol      string
	IDCol            string
	ScoreCol         string
	AdditionalCol    string
	Detected         bool
}

// QuestionType is the classification of a question row.
type QuestionType string

const (
	QuestionCompanyInfo QuestionType = "company_info"
	QuestionReference   QuestionType = "reference"
	QuestionBinary      QuestionType = "binary"
	QuestionNarrative   QuestionType = "narrative"
)

// QuestionRecord is one extracted row from the questionnaire.
type QuestionRecord struct {
	Row              int
	ID               string
	Category         string
	Question         string
	AdditionalInfo   string
	QuestionType     QuestionType
	CurrentResponse  string
	ResponseColLetter string
	ScoreColLetter   string
	CurrentScore     string
	ScoreIsFormula   bool
}

// AnswerRecord is one answer to write back.
type AnswerRecord struct {
	Row               int
	ResponseColLetter string
	Answer            string
	Score             *float64
	ScoreColLetter    string
}

// WriteReport summarizes a write-back pass (spec §4.6).
type WriteReport struct {
	Written        int
	Unmerged       int
	SkippedFormula int
}
