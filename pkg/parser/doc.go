// Package parser defines the Parser capability interface and the common
// ParsedDoc contract every format-specific parser emits (L4/L5). Replaces
// the original's class hierarchy (BaseParser ABC) with an interface per
// §9's redesign note; each parser lives in its own subpackage and is
// independently testable.
package parser

import "context"

// Table is a row-major grid; empty cells are empty strings, never nil, to
// keep downstream equality clean (spec §4.1).
type Table [][]string

// Section is a heading-delimited span of a document's text.
type Section struct {
	Heading string
	Level   int
	Content string
}

// ParsedDoc is the common output contract every parser produces.
type ParsedDoc struct {
	Text      string
	PageCount int
	Metadata  map[string]string
	Tables    []Table
	Sections  []Section
	WasOCR    bool
}

// Parser is the capability interface every format-specific extractor
// implements.
type Parser interface {
	// Supports reports whether this parser handles the given lowercase
	// extension (without the leading dot, e.g. "pdf").
	Supports(ext string) bool
	// Parse extracts a ParsedDoc from raw bytes. name is the original
	// filename, used for diagnostics and slide/sheet naming only.
	Parse(ctx context.Context, data []byte, name string) (*ParsedDoc, error)
}

// OCR is the capability port the PDF parser uses for its OCR fallback
// (§9: capability interface instead of a hard dependency). No OCR binding
// exists in the example pack; the default implementation declines.
type OCR interface {
	// Image OCRs a single rendered page image and returns its text.
	Image(ctx context.Context, pageImage []byte) (string, error)
}
