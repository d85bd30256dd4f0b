package winplan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusrfp/engine/pkg/storage/model"
)

type fakeDoc struct {
	paragraphs  []string
	headingBars []string
	tables      []Table
	footer      string
	pageBreaks  int
}

func (f *fakeDoc) AddParagraph(text string, _ ParaStyle) { f.paragraphs = append(f.paragraphs, text) }
func (f *fakeDoc) AddHeadingBar(text string)              { f.headingBars = append(f.headingBars, text) }
func (f *fakeDoc) AddTable(t Table)                       { f.tables = append(f.tables, t) }
func (f *fakeDoc) AddPageBreak()                          { f.pageBreaks++ }
func (f *fakeDoc) SetFooter(text string)                  { f.footer = text }
func (f *fakeDoc) Bytes() ([]byte, error)                 { return []byte("docx-bytes"), nil }

func TestBuild_SectionOrder(t *testing.T) {
	f := &fakeDoc{}
	data := Data{ClientName: "Acme Corp", GeneratedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	out, err := build(f, data)
	require.NoError(t, err)
	assert.Equal(t, []byte("docx-bytes"), out)
	assert.Equal(t, []string{
		"RFP Overview", "Procurement Schedule", "Key Deadlines Summary",
		"Response Team", "Win Strategy", "Action Items", "Notes",
	}, f.headingBars)
	assert.Equal(t, 1, f.pageBreaks)
	assert.Contains(t, f.footer, "Acme Corp")
}

func TestBuild_NoEventsReportsNoneExtracted(t *testing.T) {
	f := &fakeDoc{}
	_, err := build(f, Data{ClientName: "Acme", GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.Contains(t, f.paragraphs, "No schedule events extracted.")
	assert.Contains(t, f.paragraphs, "No specific deadlines identified.")
}

func TestBuild_DeadlineEventsAreHighlightedAndSummarized(t *testing.T) {
	f := &fakeDoc{}
	data := Data{
		ClientName: "Acme",
		GeneratedAt: time.Now(),
		Events: []EventView{
			NewEventView(model.ScheduleEvent{EventName: "Submission", EventType: model.EventSubmissionDeadline}),
			NewEventView(model.ScheduleEvent{EventName: "Kickoff", EventType: model.EventRFPRelease}),
		},
	}
	_, err := build(f, data)
	require.NoError(t, err)

	var scheduleTable Table
	for _, tbl := range f.tables {
		if len(tbl.Headers) > 0 && tbl.Headers[0] == "#" {
			scheduleTable = tbl
			break
		}
	}
	require.Len(t, scheduleTable.Rows, 2)
	assert.Equal(t, DeadlineHighlight, scheduleTable.RowShading[0])
	_, secondShaded := scheduleTable.RowShading[1]
	assert.False(t, secondShaded)
	assert.Contains(t, f.paragraphs, "1 key deadlines identified. Ensure the response team is aware of these critical dates.")
}

func TestNewEventView_DefaultsDateToTBD(t *testing.T) {
	v := NewEventView(model.ScheduleEvent{EventName: "Demo", EventType: model.EventDemoDate})
	assert.Equal(t, "TBD", v.Date)
	assert.False(t, v.IsDeadline)
}
