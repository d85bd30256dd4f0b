package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/nexusrfp/engine/internal/errkind"
)

// Dispatcher selects a Parser by extension. Grounded on the original's
// ParserFactory (ordered parser list, detect_file_type, get_parser).
type Dispatcher struct {
	parsers []Parser
}

// NewDispatcher builds a dispatcher over the given parsers, tried in order.
func NewDispatcher(parsers ...Parser) *Dispatcher {
	return &Dispatcher{parsers: parsers}
}

// SupportedExtensions lists every extension any registered parser accepts,
// used in the UnsupportedFormat error message.
func (d *Dispatcher) SupportedExtensions() []string {
	known := []string{"pdf", "docx", "xlsx", "csv", "pptx", "gsheet"}
	var out []string
	for _, ext := range known {
		for _, p := range d.parsers {
			if p.Supports(ext) {
				out = append(out, ext)
				break
			}
		}
	}
	return out
}

// Dispatch detects the format from filename's extension and invokes the
// matching parser. An unrecognized extension yields an InvalidInput error
// naming the supported extension list (spec §4.1).
func (d *Dispatcher) Dispatch(ctx context.Context, filename string, data []byte) (*ParsedDoc, error) {
	ext := ExtensionOf(filename)
	if ext == "" || !d.anySupports(ext) {
		if sniffed := sniffExtension(data); sniffed != "" {
			ext = sniffed
		}
	}
	for _, p := range d.parsers {
		if p.Supports(ext) {
			doc, err := p.Parse(ctx, data, filename)
			if err != nil {
				return nil, errkind.Wrap(errkind.InvalidInput, "parser", "parse "+filename, err)
			}
			return doc, nil
		}
	}
	return nil, errkind.New(errkind.InvalidInput,
		fmt.Sprintf("unsupported format %q for %s; supported: %v", ext, filename, d.SupportedExtensions()))
}

// ExtensionOf returns the lowercase extension without its leading dot.
func ExtensionOf(filename string) string {
	ext := filepath.Ext(filename)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func (d *Dispatcher) anySupports(ext string) bool {
	for _, p := range d.parsers {
		if p.Supports(ext) {
			return true
		}
	}
	return false
}

// sniffExtension falls back to content-based MIME detection when the
// filename's extension is missing or unrecognized, matching the
// original's detect_file_type multi-signal approach.
func sniffExtension(data []byte) string {
	mtype := mimetype.Detect(data)
	for mtype != nil {
		switch mtype.Extension() {
		case ".pdf":
			return "pdf"
		case ".docx":
			return "docx"
		case ".xlsx":
			return "xlsx"
		case ".csv":
			return "csv"
		case ".pptx":
			return "pptx"
		}
		mtype = mtype.Parent()
	}
	return ""
}
