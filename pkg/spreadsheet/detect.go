package spreadsheet

import (
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

const scanRows = 15
const scanCols = 15

var responseKeywords = []string{"response", "answer"}
var questionKeywords = []string{"question", "requirement", "description"}
var idKeywords = []string{"id", "ref", "#"}
var scoreKeywords = []string{"score", "rating", "compliance"}
var additionalKeywords = []string{"additional info", "comments", "notes"}

func containsAny(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// sheetNameFallback maps known sheet-title patterns to a fixed column
// mapping when no header row satisfies the dual-family rule (spec §4.6
// step 3: "names beginning with 'd ... functional' -> fixed A/B/C/D mapping").
var sheetNameFallback = regexp.MustCompile(`(?i)^d[.\s].*functional`)

// DetectStructure scans the given sheet for its header row and column
// mapping (spec §4.6 "Structure detection").
func DetectStructure(f *excelize.File, sheetName string) (Structure, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return Structure{}, err
	}

	maxRow := len(rows)
	if maxRow > scanRows {
		maxRow = scanRows
	}

	for r := 0; r < maxRow; r++ {
		row := rows[r]
		maxCol := len(row)
		if maxCol > scanCols {
			maxCol = scanCols
		}

		var hasResponse, hasQuestion bool
		var idCol, scoreCol, additionalCol, questionCol, responseCol string

		for c := 0; c < maxCol; c++ {
			cell := row[c]
			colLetter, _ := excelize.ColumnNumberToName(c + 1)
			switch {
			case containsAny(cell, responseKeywords):
				hasResponse = true
				responseCol = colLetter
			case containsAny(cell, questionKeywords):
				hasQuestion = true
				questionCol = colLetter
			case containsAny(cell, idKeywords):
				idCol = colLetter
			case containsAny(cell, scoreKeywords):
				scoreCol = colLetter
			case containsAny(cell, additionalKeywords):
				additionalCol = colLetter
			}
		}

		if hasResponse && hasQuestion {
			return Structure{
				HeaderRow:     r + 1,
				FirstDataRow: r + 2,
				QuestionCol:  questionCol,
				ResponseCol:  responseCol,
				IDCol:        idCol,
				ScoreCol:     scoreCol,
				AdditionalCol: additionalCol,
				Detected:     true,
			}, nil
		}
	}

	// Sheet-name-pattern fallback: fixed A/B/C/D mapping.
	if sheetNameFallback.MatchString(sheetName) {
		return Structure{
			HeaderRow:    1,
			FirstDataRow: 2,
			IDCol:        "A",
			QuestionCol:  "B",
			ScoreCol:     "C",
			ResponseCol:  "D",
			Detected:     true,
		}, nil
	}

	// Scan column B for id/question keyword hits; default to row 3.
	headerRow := 3
	for r := 0; r < maxRow; r++ {
		if len(rows[r]) < 2 {
			continue
		}
		cell := rows[r][1]
		if containsAny(cell, idKeywords) || containsAny(cell, questionKeywords) {
			headerRow = r + 1
			break
		}
	}
	return Structure{
		HeaderRow:    headerRow,
		FirstDataRow: headerRow + 1,
		IDCol:        "A",
		QuestionCol:  "B",
		ScoreCol:     "C",
		ResponseCol:  "D",
		Detected:     false,
	}, nil
}

// Answerable reports whether detection yielded both a question column and
// a response column (spec §4.6 step 4).
func (s Structure) Answerable() bool {
	return s.QuestionCol != "" && s.ResponseCol != ""
}

func colIndex(letter string) int {
	if letter == "" {
		return -1
	}
	idx, err := excelize.ColumnNameToNumber(letter)
	if err != nil {
		return -1
	}
	return idx - 1
}

func cellAt(row []string, letter string) string {
	idx := colIndex(letter)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
