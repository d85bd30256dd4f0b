// Package gsheet implements the remote-spreadsheet parser (L4): an
// authenticated read-only fetch of all worksheets via the Google Sheets
// API. "Parse" here takes a spreadsheet id (passed as name) rather than
// raw bytes — the dispatch layer recognizes the gsheet file type by a
// sentinel extension and routes the id through unchanged.
package gsheet

import (
	"context"
	"strconv"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/nexusrfp/engine/internal/errkind"
	"github.com/nexusrfp/engine/pkg/parser"
)

type Parser struct {
	svc *sheets.Service
}

// New constructs a Parser authenticated with apiKey. Service-account or
// OAuth credentials can be wired the same way via additional
// option.ClientOption values; this keeps to the read-only scope the
// pipeline needs.
func New(ctx context.Context, apiKey string) (*Parser, error) {
	svc, err := sheets.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errkind.Wrap(errkind.Fatal, "gsheet", "construct sheets client", err)
	}
	return &Parser{svc: svc}, nil
}

func (p *Parser) Supports(ext string) bool { return ext == "gsheet" }

// Parse ignores data and treats name as the spreadsheet id, fetching every
// worksheet's values (spec §4.1: "authenticated read-only fetch of all
// worksheets").
func (p *Parser) Parse(_ context.Context, _ []byte, name string) (*parser.ParsedDoc, error) {
	spreadsheetID := name
	meta, err := p.svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Do()
	if err != nil {
		return nil, errkind.Wrap(errkind.Transient, "gsheet", "fetch metadata", err)
	}

	var tables []parser.Table
	for _, sheet := range meta.Sheets {
		title := sheet.Properties.Title
		resp, err := p.svc.Spreadsheets.Values.Get(spreadsheetID, title).Do()
		if err != nil {
			continue
		}
		var table parser.Table
		for _, row := range resp.Values {
			cells := make([]string, len(row))
			for i, v := range row {
				if s, ok := v.(string); ok {
					cells[i] = s
				} else if v != nil {
					cells[i] = toString(v)
				}
			}
			table = append(table, cells)
		}
		tables = append(tables, table)
	}

	return &parser.ParsedDoc{
		Tables:   tables,
		Metadata: map[string]string{"spreadsheet_id": spreadsheetID},
	}, nil
}

func toString(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
