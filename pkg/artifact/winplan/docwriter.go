package winplan

import (
	"bytes"

	"github.com/gomutex/godocx"
)

// ParaStyle describes the run formatting for one paragraph. It is
// intentionally flat (one style per paragraph) since every paragraph the
// original emits uses a single run.
type ParaStyle struct {
	Bold   bool
	Italic bool
	Color  string // hex, no '#'
	SizePt float64
	Center bool
	Bullet bool
}

// Table is a plain row-major table plus optional per-row shading, keyed by
// data-row index (0 = first row after the header).
type Table struct {
	Headers       []string
	Rows          [][]string
	RowShading    map[int]string
	ColWidthsCm   []float64
}

// Document is the write-side port this package builds against, so the
// fixed _add_* section sequence is testable without a real OOXML backend
// (the same capability-interface shape as pkg/parser's OCR port).
type Document interface {
	AddParagraph(text string, style ParaStyle)
	AddHeadingBar(text string)
	AddTable(t Table)
	AddPageBreak()
	SetFooter(text string)
	Bytes() ([]byte, error)
}

// godocxDocument implements Document over github.com/gomutex/godocx.
type godocxDocument struct {
	doc *godocx.Document
}

// NewGodocxDocument constructs an empty document with the Normal style set
// to Calibri 11pt, matching the original's _setup_styles.
func NewGodocxDocument() (*godocxDocument, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, err
	}
	normal := doc.Styles.Get("Normal")
	if normal != nil {
		normal.SetFontName("Calibri")
		normal.SetFontSize(11)
	}
	return &godocxDocument{doc: doc}, nil
}

func (d *godocxDocument) AddParagraph(text string, style ParaStyle) {
	var p *godocx.Paragraph
	if style.Bullet {
		p = d.doc.AddParagraph(text)
		p.Style("List Bullet")
	} else {
		p = d.doc.AddParagraph("")
		run := p.AddText(text)
		if style.Bold {
			run.Bold(true)
		}
		if style.Italic {
			run.Italic(true)
		}
		if style.Color != "" {
			run.Color(style.Color)
		}
		if style.SizePt > 0 {
			run.Size(style.SizePt)
		}
	}
	if style.Center {
		p.Justification("center")
	}
}

// AddHeadingBar renders a dark slate-blue single-cell table with white
// bold text, matching the original's add_heading_bar (doc.Document has no
// native heading-bar concept; a one-cell shaded table simulates it).
func (d *godocxDocument) AddHeadingBar(text string) {
	table := d.doc.AddTable()
	row := table.AddRow()
	cell := row.AddCell()
	cell.Shading(HeadingBarColor)
	p := cell.AddParagraph(text)
	run := p.AddText(text)
	run.Color(White)
	run.Size(14)
	run.Bold(true)
	d.doc.AddParagraph("")
}

func (d *godocxDocument) AddTable(t Table) {
	table := d.doc.AddTable()
	headerRow := table.AddRow()
	for _, h := range t.Headers {
		cell := headerRow.AddCell()
		cell.Shading(TableHeaderBG)
		run := cell.AddParagraph(h).AddText(h)
		run.Bold(true)
		run.Size(9)
	}
	for i, rowVals := range t.Rows {
		row := table.AddRow()
		shade := t.RowShading[i]
		for _, v := range rowVals {
			cell := row.AddCell()
			if shade != "" {
				cell.Shading(shade)
			}
			run := cell.AddParagraph(v).AddText(v)
			run.Size(9)
		}
	}
}

func (d *godocxDocument) AddPageBreak() {
	d.doc.AddParagraph("").AddPageBreak()
}

func (d *godocxDocument) SetFooter(text string) {
	footer := d.doc.Sections[0].Footer()
	p := footer.AddParagraph("")
	run := p.AddText(text)
	run.Size(8)
	run.Color("999999")
	p.Justification("center")
}

func (d *godocxDocument) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.doc.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
