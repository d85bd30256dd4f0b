package extract

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nexusrfp/engine/internal/errkind"
	"github.com/nexusrfp/engine/pkg/llm"
)

const scheduleSystemPrompt = `You are a procurement schedule analyst. Extract every dated milestone or deadline from the provided text using the extract_schedule tool. Use ISO-8601 dates where a date is stated; use null when only a relative or vague timeframe is given.`

const scheduleMaxChars = 8000

// ScheduleEventRecord is the decoded tool-result shape for one event.
type ScheduleEventRecord struct {
	EventType string  `json:"event_type"`
	EventName string  `json:"event_name"`
	Date      *string `json:"date"`
	Notes     string  `json:"notes"`
}

type scheduleToolResult struct {
	Events []ScheduleEventRecord `json:"events"`
}

// Schedule runs one call over the first 8000 characters of text (spec
// §4.4). Unlike the requirement extractor this is not chunk-isolated: a
// failure here re-raises, since schedule extraction gates the Win-Plan
// branch and the orchestrator needs to know it did not run.
func Schedule(ctx context.Context, client llm.Client, text string) ([]ScheduleEventRecord, error) {
	excerpt := text
	if len(excerpt) > scheduleMaxChars {
		excerpt = excerpt[:scheduleMaxChars]
	}
	raw, err := client.GenerateStructured(ctx, scheduleSystemPrompt, excerpt, scheduleTool, 2048)
	if err != nil {
		return nil, errkind.Wrap(errkind.StagePartial, "extract", "schedule extraction", err)
	}
	var result scheduleToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errkind.Wrap(errkind.StagePartial, "extract", "decode schedule result", err)
	}
	return result.Events, nil
}

// ParseEventDate parses an ISO-8601 date, returning nil for an empty or
// unparseable value rather than erroring — a malformed date does not
// invalidate the rest of the event record.
func ParseEventDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
