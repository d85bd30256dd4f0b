package spreadsheet

import (
	"github.com/xuri/excelize/v2"
)

// WriteAnswers performs merge-aware answer write-back (spec §4.6 "Answer
// write-back"). For each answer: resolve the target cell's merge anchor
// (unmerging first if needed), write the answer with wrap-text + top
// vertical alignment, and write the score unless the score cell is a
// formula.
func WriteAnswers(f *excelize.File, sheetName string, answers []AnswerRecord) (WriteReport, error) {
	var report WriteReport

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return report, err
	}

	for _, a := range answers {
		anchorRow := a.Row
		anchorCol := a.ResponseColLetter
		targetRef, err := excelize.CoordinatesToCellName(colIndex(anchorCol)+1, anchorRow)
		if err != nil {
			continue
		}

		unmerged, anchorRef, err := resolveAnchor(f, sheetName, targetRef)
		if err != nil {
			continue
		}
		if unmerged {
			report.Unmerged++
		}

		if err := f.SetCellValue(sheetName, anchorRef, a.Answer); err != nil {
			continue
		}
		_ = f.SetCellStyle(sheetName, anchorRef, anchorRef, styleID)
		report.Written++

		if a.Score != nil && a.ScoreColLetter != "" {
			scoreRef, _ := excelize.CoordinatesToCellName(colIndex(a.ScoreColLetter)+1, anchorRow)
			formula, _ := f.GetCellFormula(sheetName, scoreRef)
			if formula != "" {
				report.SkippedFormula++
				continue
			}
			_ = f.SetCellValue(sheetName, scoreRef, *a.Score)
		}
	}
	return report, nil
}

// resolveAnchor returns the anchor cell for targetRef. If targetRef lies
// anywhere in a merged range, anchor included, the range is unmerged first (spec
// §4.6: "writable target = anchor of its merged range. Unmerge-before-write
// is the documented behaviour").
func resolveAnchor(f *excelize.File, sheetName, targetRef string) (unmerged bool, anchorRef string, err error) {
	merges, err := f.GetMergeCells(sheetName)
	if err != nil {
		return false, targetRef, err
	}

	targetCol, targetRow, err := excelize.CellNameToCoordinates(targetRef)
	if err != nil {
		return false, targetRef, err
	}

	for _, m := range merges {
		startCol, startRow, e1 := excelize.CellNameToCoordinates(m.GetStartAxis())
		endCol, endRow, e2 := excelize.CellNameToCoordinates(m.GetEndAxis())
		if e1 != nil || e2 != nil {
			continue
		}
		if targetCol < startCol || targetCol > endCol || targetRow < startRow || targetRow > endRow {
			continue
		}
		// targetRef lies within this merged range.
		if err := f.UnmergeCell(sheetName, m.GetStartAxis(), m.GetEndAxis()); err != nil {
			return false, targetRef, err
		}
		return true, m.GetStartAxis(), nil
	}
	return false, targetRef, nil
}
