// Package xlsx implements the local-spreadsheet parser (L4): each sheet
// yields a table; blank rows are dropped; formulas are read as cached
// values when present (spec §4.1).
package xlsx

import (
	"bytes"
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/nexusrfp/engine/internal/errkind"
	"github.com/nexusrfp/engine/pkg/parser"
)

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Supports(ext string) bool { return ext == "xlsx" }

func (p *Parser) Parse(_ context.Context, data []byte, name string) (*parser.ParsedDoc, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errkind.Wrap(errkind.InvalidInput, "xlsx", "open "+name, err)
	}
	defer f.Close()

	var tables []parser.Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		var table parser.Table
		for _, row := range rows {
			if isBlankRow(row) {
				continue
			}
			table = append(table, normalizeRow(row))
		}
		tables = append(tables, table)
	}

	return &parser.ParsedDoc{
		Tables:   tables,
		Metadata: map[string]string{"filename": name},
	}, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

// normalizeRow returns a copy of row (excelize already returns "" for empty
// cells, never nil). Rows are not padded: a row keeps the length excelize
// gave it, so rows of one table can differ in length.
func normalizeRow(row []string) []string {
	out := make([]string, len(row))
	copy(out, row)
	return out
}
