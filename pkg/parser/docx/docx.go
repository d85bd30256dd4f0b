// Package docx implements the word-processor parser (L4): paragraphs with
// heading-level detection build sections; tables are extracted as
// row-major strings. Grounded on the original's base ParsedDocument
// contract, using github.com/gomutex/godocx for OOXML reading.
package docx

import (
	"bytes"
	"context"
	"strings"

	"github.com/gomutex/godocx"

	"github.com/nexusrfp/engine/internal/errkind"
	"github.com/nexusrfp/engine/pkg/parser"
	texttrim "github.com/nexusrfp/engine/pkg/text"
)

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Supports(ext string) bool { return ext == "docx" }

func (p *Parser) Parse(_ context.Context, data []byte, name string) (*parser.ParsedDoc, error) {
	doc, err := godocx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errkind.Wrap(errkind.InvalidInput, "docx", "open "+name, err)
	}

	var sb strings.Builder
	var sections []parser.Section
	var currentHeading string
	var currentLevel int
	var currentContent strings.Builder

	flushSection := func() {
		if currentHeading == "" && currentContent.Len() == 0 {
			return
		}
		sections = append(sections, parser.Section{
			Heading: currentHeading,
			Level:   currentLevel,
			Content: strings.TrimSpace(currentContent.String()),
		})
		currentContent.Reset()
	}

	for _, para := range doc.Paragraphs() {
		text := para.Text()
		if text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")

		if level, ok := headingLevel(para.StyleName()); ok {
			flushSection()
			currentHeading = text
			currentLevel = level
			continue
		}
		currentContent.WriteString(text)
		currentContent.WriteString("\n")
	}
	flushSection()

	var tables []parser.Table
	for _, t := range doc.Tables() {
		var table parser.Table
		for _, row := range t.Rows() {
			var cells []string
			for _, cell := range row.Cells() {
				cells = append(cells, cell.Text())
			}
			table = append(table, cells)
		}
		tables = append(tables, table)
	}

	return &parser.ParsedDoc{
		Text:     texttrim.TrimAdjacentBlankLines(sb.String()),
		Sections: sections,
		Tables:   tables,
		Metadata: map[string]string{"filename": name},
	}, nil
}

// headingLevel maps a paragraph style name like "Heading 2" to its level.
func headingLevel(styleName string) (int, bool) {
	lower := strings.ToLower(styleName)
	if !strings.HasPrefix(lower, "heading") {
		return 0, false
	}
	suffix := strings.TrimSpace(strings.TrimPrefix(lower, "heading"))
	switch suffix {
	case "1":
		return 1, true
	case "2":
		return 2, true
	case "3":
		return 3, true
	case "4", "5", "6":
		return 4, true
	default:
		return 1, true
	}
}
