// Package answeredxlsx is the spreadsheet-branch artifact builder (L14,
// step 6 of the orchestrator): batches extracted questions in groups of
// 20, calls the LLM in free-text JSON-array mode to draft answers, and
// writes them back into the workbook via pkg/spreadsheet. Grounded on
// the original's .claude/skills/AnswerRFI_RFP_OPExcel script's batch
// loop (free-text JSON mode, not tool-use, per spec §4.9 step 6).
package answeredxlsx

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"

	jsonstream "github.com/nexusrfp/engine/pkg/json"
	"github.com/nexusrfp/engine/pkg/slices"
	"github.com/nexusrfp/engine/pkg/spreadsheet"
)

const batchSize = 20

const systemPrompt = `You are an RFP/RFI response assistant. You will be given a numbered list of questions from a procurement questionnaire. For each question, draft a concise, accurate answer from the perspective of the responding vendor. Respond with a JSON array only, no prose, no markdown code fences, one object per question: {"row": <int>, "sheet_name": "<string>", "response_col_letter": "<string>", "answer": "<string>"}.`

// answerRecord is the wire shape the LLM is asked to emit per spec §4.9
// step 6(d).
type answerRecord struct {
	Row               int
	SheetName         string
	ResponseColLetter string
	Answer            string
}

// Generator is the free-text-mode LLM port this builder needs; narrower
// than llm.Client so tests can fake just the one method exercised here.
type Generator interface {
	Generate(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error)
}

// AnswerSheets drafts and writes back answers for every sheet's extracted
// questions. Returns one WriteReport per sheet name. A malformed batch
// (LLM output doesn't parse as the expected JSON array) is logged and
// dropped, not retried (spec §4.9 step 6(d)); the run continues with the
// next batch.
func AnswerSheets(ctx context.Context, gen Generator, f *excelize.File, sheetQuestions map[string][]spreadsheet.QuestionRecord) (map[string]spreadsheet.WriteReport, error) {
	answersBySheet := map[string][]spreadsheet.AnswerRecord{}

	for sheetName, questions := range sheetQuestions {
		answerable := filterAnswerable(questions)
		for _, batch := range slices.Chunk(answerable, batchSize) {
			records, err := draftBatch(ctx, gen, sheetName, batch)
			if err != nil {
				slog.Warn("answeredxlsx: dropping malformed batch", "sheet", sheetName, "error", err)
				continue
			}
			for _, r := range records {
				// sheetName (the batch we requested), not r.SheetName, is
				// authoritative — the model's echo is informational only.
				answersBySheet[sheetName] = append(answersBySheet[sheetName], spreadsheet.AnswerRecord{
					Row:               r.Row,
					ResponseColLetter: r.ResponseColLetter,
					Answer:            r.Answer,
				})
			}
		}
	}

	reports := map[string]spreadsheet.WriteReport{}
	for sheetName, answers := range answersBySheet {
		report, err := spreadsheet.WriteAnswers(f, sheetName, answers)
		if err != nil {
			return reports, err
		}
		reports[sheetName] = report
	}
	return reports, nil
}

func filterAnswerable(questions []spreadsheet.QuestionRecord) []spreadsheet.QuestionRecord {
	out := make([]spreadsheet.QuestionRecord, 0, len(questions))
	for _, q := range questions {
		if q.ID == "" && q.Category != "" {
			continue // category header row, not a question
		}
		if strings.TrimSpace(q.Question) == "" {
			continue
		}
		out = append(out, q)
	}
	return out
}

func draftBatch(ctx context.Context, gen Generator, sheetName string, batch []spreadsheet.QuestionRecord) ([]answerRecord, error) {
	user := buildBatchPrompt(sheetName, batch)
	raw, err := gen.Generate(ctx, systemPrompt, user, 4096, 0.3)
	if err != nil {
		return nil, err
	}
	cleaned := stripCodeFences(raw)
	return parseBatchArray(cleaned)
}

// parseBatchArray decodes the batch's JSON array using a tolerant streaming
// scanner rather than encoding/json.Unmarshal directly: models occasionally
// trail prose after a well-formed array despite the fence-free instruction
// (spec §4.9 step 6d, scenario 5 — "if residual is valid JSON array the
// answers are used"). The scanner dispatches the array the moment its
// closing bracket is seen and we keep that result even if trailing garbage
// later makes the overall stream parse fail. Each element arrives as a
// loosely-typed map[string]any (a model might quote "row" as a string
// instead of a number), so fields are coerced with cast rather than
// re-marshaling into a struct.
func parseBatchArray(cleaned string) ([]answerRecord, error) {
	var arr []any
	parser, err := jsonstream.NewStreamParser(&jsonstream.StreamParserConfig{
		Reader: strings.NewReader(cleaned),
		OnArray: func(a []any) error {
			arr = a
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("answeredxlsx: building batch parser: %w", err)
	}
	_ = parser.Parse()
	if arr == nil {
		return nil, fmt.Errorf("answeredxlsx: no JSON array found in batch response")
	}

	records := make([]answerRecord, 0, len(arr))
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, answerRecord{
			Row:               cast.ToInt(obj["row"]),
			SheetName:         cast.ToString(obj["sheet_name"]),
			ResponseColLetter: cast.ToString(obj["response_col_letter"]),
			Answer:            cast.ToString(obj["answer"]),
		})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("answeredxlsx: no usable records in batch response")
	}
	return records, nil
}

func buildBatchPrompt(sheetName string, batch []spreadsheet.QuestionRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Sheet: %s\n\n", sheetName)
	for _, q := range batch {
		fmt.Fprintf(&sb, "Row %d [%s] (col %s): %s\n", q.Row, q.ID, q.ResponseColLetter, q.Question)
		if q.AdditionalInfo != "" {
			fmt.Fprintf(&sb, "  Additional info: %s\n", q.AdditionalInfo)
		}
	}
	return sb.String()
}

// stripCodeFences removes a leading/trailing ```json or ``` fence, which
// the model sometimes emits despite being told not to (spec §4.9 step 6d).
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
