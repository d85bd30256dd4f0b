// Package csv implements the CSV parser (L4): parsed as a single table;
// encoding falls back UTF-8 -> Latin-1 (spec §4.1). No third-party CSV
// parser in the example pack improves on the stdlib reader here.
package csv

import (
	"bytes"
	"context"
	csvlib "encoding/csv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/nexusrfp/engine/internal/errkind"
	"github.com/nexusrfp/engine/pkg/parser"
	pkgio "github.com/nexusrfp/engine/pkg/io"
)

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Supports(ext string) bool { return ext == "csv" }

func (p *Parser) Parse(_ context.Context, data []byte, name string) (*parser.ParsedDoc, error) {
	decoded := data
	if !utf8.Valid(data) {
		latin1Reader := transform.NewReader(bytes.NewReader(data), charmap.ISO8859_1.NewDecoder())
		// len(data) seeds the buffer capacity since decoded output is
		// roughly the same size as the input; avoids the stdlib's
		// default-512-byte growth churn on large CSV files.
		converted, err := pkgio.ReadAll(latin1Reader, len(data))
		if err != nil {
			return nil, errkind.Wrap(errkind.InvalidInput, "csv", "latin-1 decode "+name, err)
		}
		decoded = converted
	}

	reader := csvlib.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errkind.Wrap(errkind.InvalidInput, "csv", "parse "+name, err)
	}

	table := make(parser.Table, len(rows))
	for i, row := range rows {
		table[i] = row
	}

	return &parser.ParsedDoc{
		Tables:   []parser.Table{table},
		Metadata: map[string]string{"filename": name},
	}, nil
}

