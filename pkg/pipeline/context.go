package pipeline

import (
	"regexp"
	"strings"

	"github.com/nexusrfp/engine/pkg/sets"
)

// sheetHintRe requires an explicit ":" or "-" separator after the
// sheet/tab/worksheet keyword, capped at 60 chars, per spec §4.9 step 2's
// conservative reading ("accept only high-confidence matches").
var sheetHintRe = regexp.MustCompile(`(?i)(?:sheet|tab|worksheet)\s*[:\-]\s*"?([^"'\n,]{1,60})"?`)

// clientHintRe requires the same explicit separator and a capitalized
// leading word, matching the original's client/company/vendor/for pattern
// narrowed to the spec's stricter bar.
var clientHintRe = regexp.MustCompile(`(?:client|company|vendor|for)\s*[:\-]\s*"?([A-Z][a-zA-Z\s&]{1,60})"?`)

// focusFileRe recovers the original's "focus on Pricing.xlsx" filename hint
// (SPEC_FULL.md §9 supplemented feature): a bare word.ext token naming one
// of the supported formats.
var focusFileRe = regexp.MustCompile(`(?i)\b([\w\-]+\.(?:xlsx|docx|pdf|csv|pptx))\b`)

// ContextHints is the structured result of parsing a project's free-text
// upload_context.
type ContextHints struct {
	SheetNames []string
	ClientName string
	FocusFiles []string
	Raw        string
}

// ParseUploadContext extracts conservative hints from free text. Ported
// from the original's UploadContextParser.parse, narrowed to explicit
// separators and length-capped captures per SPEC_FULL.md §11 decision 1.
func ParseUploadContext(context string) ContextHints {
	hints := ContextHints{Raw: context}
	if context == "" {
		return hints
	}

	hints.SheetNames = dedupeStrings(captureAllTrimmed(sheetHintRe, context))
	hints.FocusFiles = dedupeStrings(captureAllTrimmed(focusFileRe, context))

	if m := clientHintRe.FindStringSubmatch(context); m != nil {
		hints.ClientName = strings.TrimSpace(m[1])
	}

	return hints
}

func captureAllTrimmed(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		v := strings.TrimSpace(m[1])
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// dedupeStrings keeps first-seen order while dropping case-insensitive
// repeats, using an insertion-ordered set rather than a bare map.
func dedupeStrings(in []string) []string {
	seen := sets.NewLinkedSet[string]()
	out := in[:0]
	for _, v := range in {
		if seen.Add(strings.ToLower(v)) {
			out = append(out, v)
		}
	}
	return out
}

// SelectSheets intersects auto-detected answerable sheet names with the
// hinted names using case-insensitive substring match, falling back to the
// full auto-detected set when no hint matches (spec §4.9 step 6b).
func SelectSheets(autoDetected []string, hints []string) []string {
	if len(hints) == 0 {
		return autoDetected
	}
	var matched []string
	for _, sheet := range autoDetected {
		for _, hint := range hints {
			if strings.Contains(strings.ToLower(sheet), strings.ToLower(hint)) ||
				strings.Contains(strings.ToLower(hint), strings.ToLower(sheet)) {
				matched = append(matched, sheet)
				break
			}
		}
	}
	if len(matched) == 0 {
		return autoDetected
	}
	return matched
}
