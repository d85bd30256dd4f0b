// Package winplan builds the internal Win-Plan DOCX (L14, step 5 of the
// orchestrator): schedule, deadlines, response team, and win strategy.
// Ported section-for-section from the original's
// .claude/skills/GetSchedule/scripts/generate_win_plan.py
// (WinPlanGenerator), using github.com/gomutex/godocx for OOXML writing.
package winplan

import (
	"time"

	"github.com/nexusrfp/engine/pkg/storage/model"
)

// Corporate branding colors, carried over verbatim from the original.
const (
	HeadingBarColor   = "314662"
	TableHeaderBG     = "D9D9D9"
	DeadlineHighlight = "FFF3CD"
	White             = "FFFFFF"
	LightBlueBG       = "EBF0F5"
)

// EventView is a schedule event prepared for rendering: the date is
// pre-formatted and the deadline flag is pre-computed, since the Document
// interface below never sees model types directly.
type EventView struct {
	EventName string
	Date      string
	EventType model.ScheduleEventType
	IsDeadline bool
	Notes     string
}

// Data is the pure data object the builder consumes — no DB handle, per
// spec §4.10.
type Data struct {
	ClientName        string
	RFPTitle          string
	Document          string
	PageCount         int
	SourceSection     string
	AdditionalNotes   string
	Events            []EventView
	SolutionName      string
	SolutionOverview  string
	Differentiators   []string
	CompetitiveAdvantages []string
	RiskAreas         []string
	WinThemes         []string
	GeneratedAt       time.Time
}

// deadlineEventTypes mirrors the original's is_deadline flag: these event
// types are flagged as deadlines for the Key Deadlines section and
// highlighted in the schedule table.
var deadlineEventTypes = map[model.ScheduleEventType]bool{
	model.EventSubmissionDeadline:  true,
	model.EventQADeadline:          true,
	model.EventClarificationWindow: true,
}

// priorityFor adapts the original's event-type → priority map to this
// system's ScheduleEventType enum.
func priorityFor(t model.ScheduleEventType) string {
	switch t {
	case model.EventSubmissionDeadline:
		return "CRITICAL"
	case model.EventQADeadline, model.EventClarificationWindow:
		return "HIGH"
	case model.EventDemoDate, model.EventAwardNotification:
		return "MEDIUM"
	case model.EventContractStart, model.EventRFPRelease:
		return "LOW"
	default:
		return "MEDIUM"
	}
}

// NewEventView builds a render-ready view from a stored schedule event.
func NewEventView(e model.ScheduleEvent) EventView {
	date := "TBD"
	if e.EventDate != nil {
		date = e.EventDate.Format("2006-01-02")
	}
	return EventView{
		EventName:  e.EventName,
		Date:       date,
		EventType:  e.EventType,
		IsDeadline: deadlineEventTypes[e.EventType],
		Notes:      e.Notes,
	}
}

func formatDate(t time.Time) string {
	return t.Format("02 January 2006")
}
