// Package rfipdf builds the branded RFI response PDF (L14, step 7 of the
// orchestrator): cover page, contact/revision history, table of
// contents, executive summary, company/solution profiles, technical
// information, and appendices/copyright. Ported section-for-section
// from the original's .claude/skills/CreateRFIResponse/scripts/
// generate_pdf.py (RFIDocumentBuilder), using github.com/go-pdf/fpdf.
package rfipdf

// Colors matching the reference document, carried over from the original.
const (
	HeadingBarColor  = "314662"
	FooterTextColor  = "1f3863"
	LinkColor        = "0462c1"
	TableHeaderBG    = "D9D9D9"
	CoverBGDefault   = "1B3A5C"
)

type Company struct {
	Name            string
	AddressLine1    string
	AddressLine2    string
	ContactName     string
	ContactTitle    string
	ContactPhone    string
	ContactEmail    string
	Website         string
}

type Revision struct {
	Version     string
	Date        string
	Author      string
	Approver    string
	Description string
}

type Feature struct {
	Name        string
	Description string
}

type Hyperlink struct {
	Text string
	URL  string
}

type ExecutiveSummary struct {
	Paragraphs   []string
	BulletPoints []string
}

type CompanyProfile struct {
	Description         string
	Credentials         []string
	Certifications      []string
	ExperienceHighlights []string
	Hyperlinks          []Hyperlink
}

type SolutionProfile struct {
	Overview string
	Features []Feature
}

type TechnicalInformation struct {
	Content           string
	AttachedDocuments []string
}

type Appendix struct {
	Label       string
	Filename    string
	Description string
}

type Copyright struct {
	Year        string
	CompanyName string
	NoticeText  string
}

// Data is the pure data object the builder consumes (spec §4.10: "no DB
// handle").
type Data struct {
	ClientName      string
	SolutionName    string
	RFIDescription  string
	PreparedFor     string
	DatePrepared    string
	Company         Company
	RevisionHistory []Revision

	ExecutiveSummary     ExecutiveSummary
	CompanyProfile       CompanyProfile
	SolutionProfile      SolutionProfile
	TechnicalInformation TechnicalInformation

	Appendices []Appendix
	Copyright  Copyright
}
