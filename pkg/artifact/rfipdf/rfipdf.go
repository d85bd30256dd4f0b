package rfipdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidthMM  = 210.0 // A4
	marginMM     = 25.4  // 1 inch
	contentWidth = pageWidthMM - 2*marginMM
)

// Build renders the two-pass RFI response PDF and returns the final
// bytes. Pass 1 discovers each section's resolved page number against a
// discarded render; pass 2 re-renders with the table of contents
// populated and relies on fpdf's AliasNbPages/SetFooterFunc for the
// deferred "Page N of M" footer (spec §4.10, SPEC_FULL §9).
func Build(data Data) ([]byte, error) {
	sectionPages := map[string]int{}
	if err := render(data, sectionPages, io.Discard, false); err != nil {
		return nil, fmt.Errorf("rfipdf: pass 1: %w", err)
	}

	var buf bytes.Buffer
	if err := render(data, sectionPages, &buf, true); err != nil {
		return nil, fmt.Errorf("rfipdf: pass 2: %w", err)
	}
	return buf.Bytes(), nil
}

func render(data Data, sectionPages map[string]int, w io.Writer, useTOCPages bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)
	pdf.AliasNbPages("{nb}")
	pdf.SetFooterFunc(func() {
		if pdf.PageNo() == 1 {
			return // cover page carries no footer, matching the original
		}
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 9)
		r, g, b := hexRGB(FooterTextColor)
		pdf.SetTextColor(r, g, b)
		footer := fmt.Sprintf("© %s %s  %s for %s    Page %d of {nb}",
			orDefault(data.Copyright.CompanyName, data.Company.Name, "Company"),
			orDefault(data.Copyright.Year, "2026"),
			orDefault(data.SolutionName, "Solution"),
			orDefault(data.ClientName, "Client"),
			pdf.PageNo()-1, // exclude cover page from the numbering, matching the original
		)
		pdf.CellFormat(0, 10, footer, "", 0, "C", false, 0, "")
	})

	b := &builder{pdf: pdf, data: data, sectionPages: sectionPages, useTOCPages: useTOCPages}
	b.addCover()
	b.addContactAndRevisionHistory()
	b.addTOC()
	b.addExecutiveSummary()
	b.addCompanyProfile()
	b.addSolutionProfile()
	b.addTechnicalInformation()
	b.addAppendicesAndCopyright()

	return pdf.Output(w)
}

type builder struct {
	pdf          *fpdf.Fpdf
	data         Data
	sectionPages map[string]int
	useTOCPages  bool
}

func (b *builder) headingBar(text string) {
	b.sectionPages[text] = b.pdf.PageNo()
	r, g, bl := hexRGB(HeadingBarColor)
	b.pdf.SetFillColor(r, g, bl)
	x, y := b.pdf.GetX(), b.pdf.GetY()
	b.pdf.Rect(x, y, contentWidth, 10, "F")
	b.pdf.SetTextColor(255, 255, 255)
	b.pdf.SetFont("Helvetica", "B", 14)
	b.pdf.SetXY(x+2, y+1)
	b.pdf.CellFormat(contentWidth-4, 8, text, "", 0, "L", false, 0, "")
	b.pdf.SetTextColor(0, 0, 0)
	b.pdf.SetXY(marginMM, y+14)
}

func (b *builder) bodyText(text string, size float64) {
	b.pdf.SetFont("Times", "", size)
	b.pdf.MultiCell(contentWidth, 6, text, "", "J", false)
}

func (b *builder) addCover() {
	b.pdf.AddPage()
	r, g, bl := hexRGB(CoverBGDefault)
	b.pdf.SetFillColor(r, g, bl)
	b.pdf.Rect(0, 0, pageWidthMM, 297, "F")
	b.pdf.SetTextColor(255, 255, 255)

	b.pdf.SetFont("Helvetica", "", 28)
	b.pdf.SetXY(0, 140)
	b.pdf.CellFormat(pageWidthMM, 14, orDefault(b.data.ClientName, "Client Name"), "", 1, "C", false, 0, "")

	b.pdf.SetFont("Helvetica", "", 16)
	b.pdf.SetX(0)
	b.pdf.CellFormat(pageWidthMM, 10, orDefault(b.data.SolutionName, "Solution Name"), "", 1, "C", false, 0, "")

	b.pdf.SetFont("Helvetica", "", 12)
	b.pdf.SetX(0)
	b.pdf.CellFormat(pageWidthMM, 10, orDefault(b.data.RFIDescription, "RFI Response"), "", 1, "C", false, 0, "")

	b.pdf.SetTextColor(0, 0, 0)
}

func (b *builder) addContactAndRevisionHistory() {
	b.pdf.AddPage()

	if b.data.PreparedFor != "" {
		b.pdf.SetFont("Helvetica", "B", 12)
		b.pdf.CellFormat(0, 8, "Prepared for: "+b.data.PreparedFor, "", 1, "L", false, 0, "")
	}
	if b.data.DatePrepared != "" {
		b.pdf.SetFont("Helvetica", "", 12)
		b.pdf.CellFormat(0, 8, "Date Prepared: "+b.data.DatePrepared, "", 1, "L", false, 0, "")
	}
	b.pdf.Ln(4)

	b.headingBar("Contact Information")
	c := b.data.Company
	rows := [][2]string{}
	addRow := func(label, value string) {
		if value != "" {
			rows = append(rows, [2]string{label, value})
		}
	}
	addRow("Company", c.Name)
	if c.AddressLine1 != "" || c.AddressLine2 != "" {
		addRow("Address", joinNonEmpty(", ", c.AddressLine1, c.AddressLine2))
	}
	if c.ContactName != "" {
		name := c.ContactName
		if c.ContactTitle != "" {
			name = fmt.Sprintf("%s (%s)", name, c.ContactTitle)
		}
		addRow("Contact Person", name)
	}
	addRow("Phone", c.ContactPhone)
	addRow("Email", c.ContactEmail)
	addRow("Website", c.Website)

	b.pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		b.pdf.CellFormat(40, 7, row[0], "1", 0, "L", false, 0, "")
		b.pdf.CellFormat(contentWidth-40, 7, row[1], "1", 1, "L", false, 0, "")
	}
	b.pdf.Ln(8)

	b.headingBar("Revision History")
	if len(b.data.RevisionHistory) == 0 {
		return
	}
	headers := []string{"Rev.", "Date", "Author(s)", "Approver(s)", "Description"}
	widths := []float64{15, 25, 35, 40, contentWidth - 115}
	b.tableHeader(headers, widths)
	for _, rev := range b.data.RevisionHistory {
		b.tableRow([]string{rev.Version, rev.Date, rev.Author, rev.Approver, rev.Description}, widths)
	}
}

func (b *builder) addTOC() {
	b.pdf.AddPage()
	b.headingBar("Table of Contents")

	type entry struct{ display, key string }
	entries := []entry{
		{"Contact Information", "Contact Information"},
		{"Table of Contents", "Table of Contents"},
		{"Executive Summary", "Executive Summary"},
		{"1  Company Profile & Credentials", "Company Profile & Credentials"},
		{"2  Solution Profile", "Solution Profile"},
		{"3  Technical Information", "Technical Information"},
		{"Appendices", "Appendices"},
		{"Copyright", "Copyright"},
	}
	b.pdf.SetFont("Times", "", 12)
	for _, e := range entries {
		page := b.sectionPages[e.key]
		pageStr := "-"
		if b.useTOCPages && page > 0 {
			pageStr = fmt.Sprintf("%d", page-1) // exclude the cover page, matching the original
		}
		b.pdf.CellFormat(contentWidth-15, 7, e.display, "", 0, "L", false, 0, "")
		b.pdf.CellFormat(15, 7, pageStr, "", 1, "R", false, 0, "")
	}
}

func (b *builder) addExecutiveSummary() {
	b.pdf.AddPage()
	b.headingBar("Executive Summary")
	for _, p := range b.data.ExecutiveSummary.Paragraphs {
		b.bodyText(p, 12)
		b.pdf.Ln(2)
	}
	for _, bullet := range b.data.ExecutiveSummary.BulletPoints {
		b.bodyText("- "+bullet, 12)
	}
}

func (b *builder) addCompanyProfile() {
	b.pdf.AddPage()
	b.headingBar("Company Profile & Credentials")
	cp := b.data.CompanyProfile
	if cp.Description != "" {
		b.bodyText(cp.Description, 12)
		b.pdf.Ln(4)
	}
	b.bulletList("Awards & Recognition:", cp.Credentials)
	b.bulletList("Analyst Recognition:", cp.Certifications)
	b.bulletList("Key Experience:", cp.ExperienceHighlights)
	for _, link := range cp.Hyperlinks {
		r, g, bl := hexRGB(LinkColor)
		b.pdf.SetTextColor(r, g, bl)
		b.pdf.WriteLinkString(6, link.Text, link.URL)
		b.pdf.Ln(6)
		b.pdf.SetTextColor(0, 0, 0)
	}
}

func (b *builder) addSolutionProfile() {
	b.pdf.AddPage()
	b.headingBar("Solution Profile")
	sp := b.data.SolutionProfile
	if sp.Overview != "" {
		b.bodyText(sp.Overview, 12)
		b.pdf.Ln(4)
	}
	if len(sp.Features) > 0 {
		b.pdf.SetFont("Times", "B", 12)
		b.pdf.CellFormat(0, 7, "Key Features:", "", 1, "L", false, 0, "")
		for _, f := range sp.Features {
			b.bodyText(fmt.Sprintf("- %s: %s", f.Name, f.Description), 12)
		}
	}
}

func (b *builder) addTechnicalInformation() {
	b.pdf.AddPage()
	b.headingBar("Technical Information")
	ti := b.data.TechnicalInformation
	if ti.Content != "" {
		b.bodyText(ti.Content, 12)
		b.pdf.Ln(4)
	}
	b.bulletList("Attached Documents:", ti.AttachedDocuments)
}

func (b *builder) addAppendicesAndCopyright() {
	b.pdf.AddPage()
	b.headingBar("Appendices")
	if len(b.data.Appendices) == 0 {
		b.bodyText("No appendices.", 12)
	}
	for _, a := range b.data.Appendices {
		line := fmt.Sprintf("- %s: %s", a.Label, a.Filename)
		if a.Description != "" {
			line += " (" + a.Description + ")"
		}
		b.bodyText(line, 12)
	}
	b.pdf.Ln(10)

	b.headingBar("Copyright")
	c := b.data.Copyright
	if c.NoticeText != "" {
		b.bodyText(c.NoticeText, 10)
		return
	}
	companyName := orDefault(c.CompanyName, b.data.Company.Name, "")
	b.bodyText(fmt.Sprintf("© %s %s. All rights reserved.", orDefault(c.Year, "2026"), companyName), 10)
}

func (b *builder) tableHeader(headers []string, widths []float64) {
	r, g, bl := hexRGB(TableHeaderBG)
	b.pdf.SetFillColor(r, g, bl)
	b.pdf.SetFont("Times", "B", 10)
	for i, h := range headers {
		b.pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	b.pdf.Ln(-1)
}

func (b *builder) tableRow(cells []string, widths []float64) {
	b.pdf.SetFont("Times", "", 10)
	for i, v := range cells {
		b.pdf.CellFormat(widths[i], 7, v, "1", 0, "L", false, 0, "")
	}
	b.pdf.Ln(-1)
}

func (b *builder) bulletList(heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.pdf.SetFont("Times", "B", 12)
	b.pdf.CellFormat(0, 7, heading, "", 1, "L", false, 0, "")
	for _, item := range items {
		b.bodyText("• "+item, 12)
	}
	b.pdf.Ln(4)
}

func orDefault(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out == "" {
			out = p
		} else {
			out += sep + p
		}
	}
	return out
}

// hexRGB decodes a "RRGGBB" hex string into fpdf's (r,g,b int) triple.
func hexRGB(hex string) (int, int, int) {
	var r, g, b int
	fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return r, g, b
}
