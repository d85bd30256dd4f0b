// Package pdf implements the PDF parser (L4): per-page text extraction with
// an OCR fallback for sparse pages. Ported from the original's
// PDFParser (pdfplumber + pytesseract), re-expressed over
// github.com/ledongthuc/pdf with an injectable OCR port since no OCR
// binding exists anywhere in the example pack.
package pdf

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/nexusrfp/engine/internal/errkind"
	"github.com/nexusrfp/engine/pkg/parser"
	"github.com/nexusrfp/engine/pkg/text"
)

// sparsePageThreshold: a page yielding fewer significant characters than
// this is considered OCR-eligible (spec §4.1).
const sparsePageThreshold = 50

// Parser implements parser.Parser for PDF documents.
type Parser struct {
	OCR parser.OCR
}

// New constructs a PDF parser. If ocr is nil, a stub that always declines
// is used, so the sparse-page path degrades to native text instead of
// panicking on a nil interface.
func New(ocr parser.OCR) *Parser {
	if ocr == nil {
		ocr = stubOCR{}
	}
	return &Parser{OCR: ocr}
}

func (p *Parser) Supports(ext string) bool { return ext == "pdf" }

func (p *Parser) Parse(ctx context.Context, data []byte, name string) (*parser.ParsedDoc, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		// Whole-document OCR fallback when native extraction cannot even open
		// the file (spec §4.1: "If text extraction throws, the whole document
		// is OCR'd end-to-end and was_ocr=true").
		return p.ocrWholeDocument(ctx, data)
	}

	numPages := reader.NumPage()
	var sb strings.Builder
	wasOCR := false

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		nativeText, err := page.GetPlainText(nil)
		if err != nil {
			nativeText = ""
		}
		pageText := nativeText
		if significantLen(nativeText) < sparsePageThreshold {
			// The page is not rendered to an image: the OCR port is called
			// with a nil image and receives no page content.
			ocrText, err := p.OCR.Image(ctx, nil)
			if err == nil && significantLen(ocrText) > significantLen(nativeText) {
				pageText = ocrText
				wasOCR = true
			} else if err != nil {
				slog.Debug("pdf page OCR unavailable", "page", i, "error", err)
			}
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return &parser.ParsedDoc{
		Text:      text.TrimAdjacentBlankLines(sb.String()),
		PageCount: numPages,
		Metadata:  map[string]string{"filename": name},
		Tables:    nil, // native table extraction is not offered by ledongthuc/pdf; sections/tables stay empty on the OCR/native text path.
		WasOCR:    wasOCR,
	}, nil
}

// ocrWholeDocument passes the raw PDF bytes to the OCR port; no page images
// are rendered.
func (p *Parser) ocrWholeDocument(ctx context.Context, data []byte) (*parser.ParsedDoc, error) {
	text, err := p.OCR.Image(ctx, data)
	if err != nil {
		return nil, errkind.Wrap(errkind.InvalidInput, "pdf", "whole-document OCR fallback", err)
	}
	return &parser.ParsedDoc{
		Text:     text,
		WasOCR:   true,
		Metadata: map[string]string{},
	}, nil
}

func significantLen(s string) int {
	return len(strings.TrimSpace(s))
}

// stubOCR is the default OCR port: it declines every request with a
// StagePartial error so callers degrade to native-text-only instead of
// fabricating OCR output.
type stubOCR struct{}

var ErrOCRUnavailable = errkind.New(errkind.StagePartial, "pdf: OCR is not configured")

func (stubOCR) Image(_ context.Context, _ []byte) (string, error) {
	return "", ErrOCRUnavailable
}
