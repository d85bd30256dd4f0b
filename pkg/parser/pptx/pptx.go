// Package pptx implements the slide-deck parser (L4): one logical "page"
// per slide, table shapes extracted. No slide-deck library exists anywhere
// in the example pack (see DESIGN.md), so this reads the OOXML package
// directly — archive/zip for the container, encoding/xml for
// ppt/slides/slideN.xml.
package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/nexusrfp/engine/internal/errkind"
	"github.com/nexusrfp/engine/pkg/parser"
)

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Supports(ext string) bool { return ext == "pptx" }

// slideXML mirrors the subset of p:sld/p:cSld/p:spTree we read: text runs
// inside shapes, and table rows inside graphicFrame/table.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	CSld    struct {
		SpTree struct {
			Sp []struct {
				TxBody struct {
					P []struct {
						R []struct {
							T string `xml:"t"`
						} `xml:"r"`
					} `xml:"p"`
				} `xml:"txBody"`
			} `xml:"sp"`
			GraphicFrame []struct {
				Graphic struct {
					GraphicData struct {
						Tbl struct {
							Tr []struct {
								Tc []struct {
									TxBody struct {
										P []struct {
											R []struct {
												T string `xml:"t"`
											} `xml:"r"`
										} `xml:"p"`
									} `xml:"txBody"`
								} `xml:"tc"`
							} `xml:"tr"`
						} `xml:"tbl"`
					} `xml:"graphicData"`
				} `xml:"graphic"`
			} `xml:"graphicFrame"`
		} `xml:"spTree"`
	} `xml:"cSld"`
}

func (p *Parser) Parse(_ context.Context, data []byte, name string) (*parser.ParsedDoc, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errkind.Wrap(errkind.InvalidInput, "pptx", "open "+name, err)
	}

	type slideFile struct {
		index int
		file  *zip.File
	}
	var slides []slideFile
	for _, f := range zr.File {
		idx, ok := slideIndex(f.Name)
		if ok {
			slides = append(slides, slideFile{index: idx, file: f})
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].index < slides[j].index })

	var sb strings.Builder
	var tables []parser.Table
	for _, sf := range slides {
		rc, err := sf.file.Open()
		if err != nil {
			continue
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		var slide slideXML
		if err := xml.Unmarshal(raw, &slide); err != nil {
			continue
		}

		for _, sp := range slide.CSld.SpTree.Sp {
			for _, para := range sp.TxBody.P {
				for _, run := range para.R {
					sb.WriteString(run.T)
					sb.WriteString(" ")
				}
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")

		for _, gf := range slide.CSld.SpTree.GraphicFrame {
			var table parser.Table
			for _, tr := range gf.Graphic.GraphicData.Tbl.Tr {
				var row []string
				for _, tc := range tr.Tc {
					var cellText strings.Builder
					for _, para := range tc.TxBody.P {
						for _, run := range para.R {
							cellText.WriteString(run.T)
						}
					}
					row = append(row, cellText.String())
				}
				table = append(table, row)
			}
			if len(table) > 0 {
				tables = append(tables, table)
			}
		}
	}

	return &parser.ParsedDoc{
		Text:      sb.String(),
		PageCount: len(slides),
		Tables:    tables,
		Metadata:  map[string]string{"filename": name},
	}, nil
}

// slideIndex extracts N from "ppt/slides/slideN.xml".
func slideIndex(name string) (int, bool) {
	const prefix = "ppt/slides/slide"
	const suffix = ".xml"
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return 0, false
	}
	numStr := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
	n, err := strconv.Atoi(numStr)
	if err != nil {
		return 0, false
	}
	return n, true
}
