package spreadsheet

import (
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

var companyInfoRe = regexp.MustCompile(`(?i)^(company name|contact|address|phone|email|website|duns|tax id)`)
var referenceRe = regexp.MustCompile(`(?i)(reference|please provide|list|enumerate)`)
var binaryRe = regexp.MustCompile(`(?i)^(the system shall|does the|do you|is there|are there|can the|will the)\b`)
var totalOrFormulaRe = regexp.MustCompile(`(?i)^(total|=)`)

const categoryShortTextThreshold = 80

// ExtractQuestions walks rows from structure.FirstDataRow, classifying each
// as a category header or a question row (spec §4.6 "Question extraction").
func ExtractQuestions(f *excelize.File, sheetName string, structure Structure) ([]QuestionRecord, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	merges, err := f.GetMergeCells(sheetName)
	if err != nil {
		return nil, err
	}

	var records []QuestionRecord
	var currentCategory string

	for r := structure.FirstDataRow - 1; r < len(rows); r++ {
		row := rows[r]
		rowNum := r + 1

		id := strings.TrimSpace(cellAt(row, structure.IDCol))
		question := strings.TrimSpace(cellAt(row, structure.QuestionCol))

		if id == "" && question == "" {
			continue
		}
		if totalOrFormulaRe.MatchString(id) || totalOrFormulaRe.MatchString(question) {
			continue
		}

		if id == "" && isCategoryHeader(f, sheetName, rowNum, question, structure.QuestionCol, merges) {
			currentCategory = question
			continue
		}

		currentResponse := strings.TrimSpace(cellAt(row, structure.ResponseCol))
		additionalInfo := strings.TrimSpace(cellAt(row, structure.AdditionalCol))
		currentScore := strings.TrimSpace(cellAt(row, structure.ScoreCol))

		scoreIsFormula := false
		if structure.ScoreCol != "" {
			scoreCellRef, _ := excelize.CoordinatesToCellName(colIndex(structure.ScoreCol)+1, rowNum)
			formula, _ := f.GetCellFormula(sheetName, scoreCellRef)
			scoreIsFormula = formula != ""
		}

		records = append(records, QuestionRecord{
			Row:               rowNum,
			ID:                id,
			Category:          currentCategory,
			Question:          question,
			AdditionalInfo:    additionalInfo,
			QuestionType:      classifyQuestion(question),
			CurrentResponse:   currentResponse,
			ResponseColLetter: structure.ResponseCol,
			ScoreColLetter:    structure.ScoreCol,
			CurrentScore:      currentScore,
			ScoreIsFormula:    scoreIsFormula,
		})
	}
	return records, nil
}

// isCategoryHeader: id empty AND (question short, bold, or a horizontal
// merged range spanning >=3 columns covers this row) (spec §4.6).
func isCategoryHeader(f *excelize.File, sheetName string, rowNum int, question, questionCol string, merges []excelize.MergeCell) bool {
	if len(question) < categoryShortTextThreshold {
		return true
	}
	if isBold(f, sheetName, rowNum, questionCol) {
		return true
	}
	return mergedRangeSpansRow(merges, rowNum, 3)
}

func isBold(f *excelize.File, sheetName string, rowNum int, questionCol string) bool {
	cellRef, _ := excelize.CoordinatesToCellName(colIndex(questionCol)+1, rowNum)
	styleID, err := f.GetCellStyle(sheetName, cellRef)
	if err != nil {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style.Font == nil {
		return false
	}
	return style.Font.Bold
}

func mergedRangeSpansRow(merges []excelize.MergeCell, rowNum int, minCols int) bool {
	for _, m := range merges {
		startCol, startRow, err1 := excelize.CellNameToCoordinates(m.GetStartAxis())
		endCol, endRow, err2 := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err1 != nil || err2 != nil {
			continue
		}
		if startRow == endRow && startRow == rowNum && (endCol-startCol+1) >= minCols {
			return true
		}
	}
	return false
}

// classifyQuestion runs the ordered regex family classification (spec
// §4.6: company-info -> reference -> binary -> narrative, with a
// short/question-mark fallback).
func classifyQuestion(question string) QuestionType {
	switch {
	case companyInfoRe.MatchString(question):
		return QuestionCompanyInfo
	case referenceRe.MatchString(question):
		return QuestionReference
	case binaryRe.MatchString(question):
		return QuestionBinary
	}
	trimmed := strings.TrimSpace(question)
	if len(trimmed) < 100 && !strings.HasSuffix(trimmed, "?") {
		return QuestionBinary
	}
	return QuestionNarrative
}
