package winplan

import (
	"fmt"
)

// Build renders the full Win-Plan document and returns the serialized
// bytes. The section sequence is fixed, mirroring the original's
// WinPlanGenerator.generate: cover, overview, schedule, deadlines, team,
// strategy, action items, notes, footer.
func Build(data Data) ([]byte, error) {
	doc, err := NewGodocxDocument()
	if err != nil {
		return nil, err
	}
	return build(doc, data)
}

// build drives the section sequence against the Document port, so the
// section logic is testable with a fake.
func build(doc Document, data Data) ([]byte, error) {
	addCover(doc, data)
	addRFPOverview(doc, data)
	addProcurementSchedule(doc, data)
	addKeyDeadlines(doc, data)
	addResponseTeam(doc)
	addWinStrategy(doc, data)
	addActionItems(doc)
	addNotes(doc)
	addFooter(doc, data)
	return doc.Bytes()
}

func addCover(doc Document, data Data) {
	for i := 0; i < 4; i++ {
		doc.AddParagraph("", ParaStyle{})
	}
	doc.AddParagraph("RFP WIN PLAN", ParaStyle{Bold: true, SizePt: 32, Color: HeadingBarColor, Center: true})
	doc.AddParagraph("", ParaStyle{})
	clientName := data.ClientName
	if clientName == "" {
		clientName = "Client"
	}
	doc.AddParagraph(clientName, ParaStyle{SizePt: 20, Color: HeadingBarColor, Center: true})
	rfpTitle := data.RFPTitle
	if rfpTitle == "" {
		rfpTitle = "RFP Response"
	}
	doc.AddParagraph(rfpTitle, ParaStyle{SizePt: 14, Color: "555555", Center: true})
	doc.AddParagraph("", ParaStyle{})
	generatedAt := data.GeneratedAt
	doc.AddParagraph(fmt.Sprintf("Date: %s", formatDate(generatedAt)), ParaStyle{SizePt: 12, Color: "777777", Center: true})
	doc.AddParagraph("Version 1.0 | CONFIDENTIAL", ParaStyle{SizePt: 10, Color: "999999", Center: true})
	doc.AddPageBreak()
}

func addRFPOverview(doc Document, data Data) {
	doc.AddHeadingBar("RFP Overview")

	dash := func(s string) string {
		if s == "" {
			return "—"
		}
		return s
	}
	pageCount := "—"
	if data.PageCount > 0 {
		pageCount = fmt.Sprintf("%d", data.PageCount)
	}
	rows := [][]string{
		{"Client", dash(data.ClientName)},
		{"RFP Title", dash(data.RFPTitle)},
		{"Source Document", dash(data.Document)},
		{"Pages", pageCount},
		{"Schedule Source", dash(data.SourceSection)},
	}
	doc.AddTable(Table{Rows: rows, ColWidthsCm: []float64{5, 12}})

	if data.AdditionalNotes != "" {
		doc.AddParagraph("", ParaStyle{})
		doc.AddParagraph("Note: "+data.AdditionalNotes, ParaStyle{Italic: true, SizePt: 10})
	}
	doc.AddParagraph("", ParaStyle{})
}

func addProcurementSchedule(doc Document, data Data) {
	doc.AddHeadingBar("Procurement Schedule")

	if len(data.Events) == 0 {
		doc.AddParagraph("No schedule events extracted.", ParaStyle{})
		return
	}

	headers := []string{"#", "Event", "Date", "Type", "Deadline?", "Notes"}
	rows := make([][]string, len(data.Events))
	shading := map[int]string{}
	for i, e := range data.Events {
		deadlineFlag := "No"
		if e.IsDeadline {
			deadlineFlag = "Yes"
			shading[i] = DeadlineHighlight
		}
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			orDash(e.EventName),
			e.Date,
			string(e.EventType),
			deadlineFlag,
			e.Notes,
		}
	}
	doc.AddTable(Table{Headers: headers, Rows: rows, RowShading: shading, ColWidthsCm: []float64{1, 5.5, 3, 2, 1.5, 4}})
	doc.AddParagraph("", ParaStyle{})
}

func addKeyDeadlines(doc Document, data Data) {
	doc.AddHeadingBar("Key Deadlines Summary")

	var deadlines []EventView
	for _, e := range data.Events {
		if e.IsDeadline {
			deadlines = append(deadlines, e)
		}
	}
	if len(deadlines) == 0 {
		doc.AddParagraph("No specific deadlines identified.", ParaStyle{})
		return
	}

	doc.AddParagraph(fmt.Sprintf("%d key deadlines identified. Ensure the response team is aware of these critical dates.", len(deadlines)), ParaStyle{Italic: true, SizePt: 10})
	doc.AddParagraph("", ParaStyle{})

	headers := []string{"Priority", "Deadline", "Date", "Action Required"}
	rows := make([][]string, len(deadlines))
	for i, e := range deadlines {
		notes := e.Notes
		if notes == "" {
			notes = "Review and prepare"
		}
		rows[i] = []string{priorityFor(e.EventType), orDash(e.EventName), e.Date, notes}
	}
	doc.AddTable(Table{Headers: headers, Rows: rows, ColWidthsCm: []float64{2.5, 5.5, 3, 6}})
	doc.AddParagraph("", ParaStyle{})
}

func addResponseTeam(doc Document) {
	doc.AddHeadingBar("Response Team")
	doc.AddParagraph("Assign team members to each role below. Update as the response progresses.", ParaStyle{Italic: true, SizePt: 10})
	doc.AddParagraph("", ParaStyle{})

	roles := [][3]string{
		{"Bid Manager / Proposal Lead", "", "Overall response coordination, timeline management"},
		{"Solution Architect", "", "Technical solution design, architecture documentation"},
		{"Pre-Sales / Demo Lead", "", "Solution demonstrations, PoC execution"},
		{"Subject Matter Expert (SME)", "", "Domain expertise, functional responses"},
		{"Commercial / Pricing Lead", "", "Pricing model, TCO calculation, commercial terms"},
		{"Legal", "", "Contract review, T&Cs, compliance checks"},
		{"Executive Sponsor", "", "Strategic oversight, escalation point, executive summary"},
	}
	headers := []string{"Role", "Name", "Responsibility"}
	rows := make([][]string, len(roles))
	for i, r := range roles {
		name := r[1]
		if name == "" {
			name = "[To be assigned]"
		}
		rows[i] = []string{r[0], name, r[2]}
	}
	doc.AddTable(Table{Headers: headers, Rows: rows, ColWidthsCm: []float64{5, 4, 8}})
	doc.AddParagraph("", ParaStyle{})
}

type strategySection struct {
	title    string
	items    []string
	fallback string
}

func addWinStrategy(doc Document, data Data) {
	doc.AddHeadingBar("Win Strategy")

	if data.SolutionOverview != "" {
		doc.AddParagraph("Solution: "+data.SolutionName, ParaStyle{Bold: true, SizePt: 11})
		doc.AddParagraph(data.SolutionOverview, ParaStyle{SizePt: 10})
		doc.AddParagraph("", ParaStyle{})
	}

	sections := []strategySection{
		{"Key Differentiators", data.Differentiators, "What makes our solution uniquely suited for this client? List 3-5 differentiators."},
		{"Competitive Advantages", data.CompetitiveAdvantages, "How do we compare against likely competitors? What are our strengths?"},
		{"Client Pain Points", nil, "What are the client's primary challenges? How does our solution address each one?"},
		{"Risk Areas", data.RiskAreas, "What could weaken our proposal? Pricing, experience gaps, technical gaps?"},
		{"Win Themes", data.WinThemes, "What 2-3 key messages should run throughout our response?"},
	}
	for _, s := range sections {
		doc.AddParagraph(s.title, ParaStyle{Bold: true, SizePt: 11, Color: HeadingBarColor})
		if len(s.items) > 0 {
			for _, item := range s.items {
				doc.AddParagraph(item, ParaStyle{SizePt: 10, Bullet: true})
			}
		} else {
			doc.AddParagraph(s.fallback, ParaStyle{Italic: true, SizePt: 10, Color: "999999"})
		}
		doc.AddParagraph("", ParaStyle{})
	}
	doc.AddParagraph("", ParaStyle{})
}

func addActionItems(doc Document) {
	doc.AddHeadingBar("Action Items")
	doc.AddParagraph("Track all actions required to complete the RFP response.", ParaStyle{Italic: true, SizePt: 10})
	doc.AddParagraph("", ParaStyle{})

	actions := [][5]string{
		{"1", "Confirm intention to respond", "", "", "Not Started"},
		{"2", "Prepare demo / presentation", "", "", "Not Started"},
		{"3", "Draft response document", "", "", "Not Started"},
		{"4", "Review and finalise pricing", "", "", "Not Started"},
		{"5", "Submit final response", "", "", "Not Started"},
	}
	headers := []string{"#", "Action", "Owner", "Due Date", "Status"}
	rows := make([][]string, len(actions))
	for i, a := range actions {
		rows[i] = []string{a[0], a[1], a[2], a[3], a[4]}
	}
	doc.AddTable(Table{Headers: headers, Rows: rows, ColWidthsCm: []float64{1, 6.5, 3.5, 3, 3}})
	doc.AddParagraph("", ParaStyle{})
}

func addNotes(doc Document) {
	doc.AddHeadingBar("Notes")
	doc.AddParagraph("[Add any additional notes, observations, or meeting minutes here]", ParaStyle{Italic: true, SizePt: 10, Color: "999999"})
	for i := 0; i < 5; i++ {
		doc.AddParagraph("", ParaStyle{})
	}
}

func addFooter(doc Document, data Data) {
	clientName := data.ClientName
	if clientName == "" {
		clientName = "Client"
	}
	doc.SetFooter(fmt.Sprintf("CONFIDENTIAL | RFP Win Plan — %s | %s", clientName, data.GeneratedAt.Format("2006-01-02")))
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
