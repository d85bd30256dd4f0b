// Package pipeline is the generation orchestrator (L15): stage sequencing
// from document download through artifact publication. Grounded on the
// original's orchestrator/pipeline.py (GenerationPipeline) — the subprocess
// invocations of each skill script there become direct in-process calls
// into pkg/parser, pkg/classify, pkg/extract, pkg/dedupe, pkg/retrieval,
// pkg/generate, pkg/scoring, pkg/planning, pkg/spreadsheet, and
// pkg/artifact/* here — and the teacher's ai/rag/pipeline.go stage-method
// decomposition and core/lynx/lynx.go errors.Join/log-banner style.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/nexusrfp/engine/internal/config"
	"github.com/nexusrfp/engine/internal/errkind"
	"github.com/nexusrfp/engine/pkg/artifact/answeredxlsx"
	"github.com/nexusrfp/engine/pkg/artifact/rfipdf"
	"github.com/nexusrfp/engine/pkg/artifact/winplan"
	"github.com/nexusrfp/engine/pkg/blobstore"
	"github.com/nexusrfp/engine/pkg/chunk"
	"github.com/nexusrfp/engine/pkg/classify"
	"github.com/nexusrfp/engine/pkg/dedupe"
	"github.com/nexusrfp/engine/pkg/embedding"
	"github.com/nexusrfp/engine/pkg/extract"
	"github.com/nexusrfp/engine/pkg/generate"
	"github.com/nexusrfp/engine/pkg/llm"
	"github.com/nexusrfp/engine/pkg/mime"
	"github.com/nexusrfp/engine/pkg/parser"
	"github.com/nexusrfp/engine/pkg/planning"
	"github.com/nexusrfp/engine/pkg/retrieval"
	"github.com/nexusrfp/engine/pkg/safe"
	"github.com/nexusrfp/engine/pkg/scoring"
	"github.com/nexusrfp/engine/pkg/spreadsheet"
	"github.com/nexusrfp/engine/pkg/storage"
	"github.com/nexusrfp/engine/pkg/storage/model"
	syncx "github.com/nexusrfp/engine/pkg/sync"
)

// Outcome is the trigger's HTTP-equivalent result (spec §6: 409/400/202 are
// expressed here as plain Go return values, since the HTTP surface itself
// is out of scope).
type Outcome string

const (
	OutcomeAccepted    Outcome = "accepted"
	OutcomeConflict    Outcome = "conflict"
	OutcomeNoDocuments Outcome = "no_documents"
)

const generationConcurrency = 5
const downloadConcurrency = 4
const maxStatusMessageChars = 500

// Pipeline holds the process-wide, thread-safe clients every run shares
// (spec §5: "one blob-store handle, one LLM client, one embedding client").
type Pipeline struct {
	Store      storage.Store
	Blob       blobstore.Client
	LLM        llm.Client
	Embedding  embedding.Client
	Dispatcher *parser.Dispatcher
	Config     *config.Config
}

// New constructs a Pipeline from its process-wide dependencies.
func New(store storage.Store, blob blobstore.Client, llmClient llm.Client, embed embedding.Client, dispatcher *parser.Dispatcher, cfg *config.Config) *Pipeline {
	return &Pipeline{Store: store, Blob: blob, LLM: llmClient, Embedding: embed, Dispatcher: dispatcher, Config: cfg}
}

// Trigger implements the idempotent "generate-full" entry point (spec §6):
// it resolves to 400-equivalent before ever flipping processing_status, so
// an empty project never shows as briefly "processing". A successful
// trigger starts the run as a detached background goroutine (the
// "single cooperative background task per project" of spec §5) and returns
// immediately.
func (p *Pipeline) Trigger(ctx context.Context, projectID string) (Outcome, error) {
	docs, err := p.Store.ListNonGeneratedDocuments(ctx, projectID)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return OutcomeNoDocuments, nil
	}

	started, err := p.Store.TryStartProcessing(ctx, projectID)
	if err != nil {
		return "", err
	}
	if !started {
		return OutcomeConflict, nil
	}

	// A detached context: the triggering request's context may be cancelled
	// once the HTTP response is sent, but the background run must continue
	// (spec §5: "single cooperative background task per project"). safe.Go
	// recovers a panicking stage instead of taking the process down, still
	// flipping the project to failed so pollers see a terminal state.
	runCtx := detachedContext(ctx)
	safe.Go(func() {
		p.run(runCtx, projectID, docs)
	}, func(err error) {
		p.fail(context.Background(), projectID, "panic recovered", err)
	})

	return OutcomeAccepted, nil
}

// detachedValuesContext carries the parent's values but never cancels and
// never deadlines, so the background run outlives the triggering request.
type detachedValuesContext struct {
	context.Context
}

func (detachedValuesContext) Deadline() (time.Time, bool) { return time.Time{}, false }
func (detachedValuesContext) Done() <-chan struct{}        { return nil }
func (detachedValuesContext) Err() error                   { return nil }

func detachedContext(parent context.Context) context.Context {
	return detachedValuesContext{parent}
}

func (p *Pipeline) run(ctx context.Context, projectID string, docs []model.Document) {
	slog.Info("pipeline: starting generation run", "project_id", projectID, "document_count", len(docs))

	project, err := p.Store.GetProject(ctx, projectID)
	if err != nil {
		p.fail(ctx, projectID, "load project", err)
		return
	}
	hints := ParseUploadContext(project.UploadContext)

	ws, err := newWorkspace()
	if err != nil {
		p.fail(ctx, projectID, "create workspace", err)
		return
	}
	defer ws.cleanup()

	p.setStatus(ctx, projectID, model.ProcessingProcessing, "Downloading documents...")
	locals := p.downloadDocuments(ctx, projectID, docs)
	if len(locals) == 0 {
		p.setStatus(ctx, projectID, model.ProcessingFailed, "No documents could be downloaded")
		return
	}

	var pdfDocx, xlsxFiles []localFile
	for _, f := range locals {
		switch f.FileType {
		case model.FilePDF, model.FileDOCX:
			pdfDocx = append(pdfDocx, f)
		case model.FileXLSX:
			xlsxFiles = append(xlsxFiles, f)
		}
	}

	p.setStatus(ctx, projectID, model.ProcessingProcessing, "Parsing and extracting requirements...")
	scheduleEvents, hasSchedule := p.runRequirementsAndScheduleBranch(ctx, project, pdfDocx)

	if hasSchedule {
		p.setStatus(ctx, projectID, model.ProcessingProcessing, "Generating Win Plan document...")
		p.runWinPlanBranch(ctx, ws, project, scheduleEvents, hints)
	}

	for _, xlsxFile := range xlsxFiles {
		p.setStatus(ctx, projectID, model.ProcessingProcessing, fmt.Sprintf("Answering questions in %s...", xlsxFile.Filename))
		p.runSpreadsheetBranch(ctx, ws, xlsxFile, hints)
	}

	if len(pdfDocx) > 0 || hasSchedule {
		p.setStatus(ctx, projectID, model.ProcessingProcessing, "Generating RFI Response PDF...")
		p.runPDFBranch(ctx, ws, project, hints)
	}

	p.setStatus(ctx, projectID, model.ProcessingProcessing, "Uploading generated documents...")
	count, err := p.publish(ctx, ws, projectID)
	if err != nil {
		p.fail(ctx, projectID, "publish outputs", err)
		return
	}

	p.setStatus(ctx, projectID, model.ProcessingCompleted,
		fmt.Sprintf("Generation complete! %d document(s) generated.", count))
	slog.Info("pipeline: run completed", "project_id", projectID, "artifact_count", count)
}

// localFile is a downloaded document held in memory for the duration of one
// run, classified by file type.
type localFile struct {
	DocID    string
	Filename string
	FileType model.FileType
	Data     []byte
}

// downloadDocuments fetches every document's bytes, skipping ones that
// cannot be fetched rather than failing the whole run (spec §4.9 step 4).
// Fetches run with bounded fan-out (the blob store is a single shared,
// thread-safe handle per spec §5) via the teacher's own semaphore
// primitive rather than an unbounded goroutine-per-document burst.
func (p *Pipeline) downloadDocuments(ctx context.Context, projectID string, docs []model.Document) []localFile {
	limiter := syncx.NewLimiter(downloadConcurrency)
	out := make([]localFile, len(docs))
	ok := make([]bool, len(docs))

	var wg sync.WaitGroup
	for i, d := range docs {
		wg.Add(1)
		go func(i int, d model.Document) {
			defer wg.Done()
			limiter.Acquire()
			defer limiter.Release()

			data, err := p.Blob.Get(ctx, d.StorageKey)
			if err != nil {
				slog.Warn("pipeline: failed to download document", "project_id", projectID, "filename", d.Filename, "error", err)
				return
			}
			out[i] = localFile{DocID: d.ID, Filename: d.Filename, FileType: d.FileType, Data: data}
			ok[i] = true
		}(i, d)
	}
	wg.Wait()

	downloaded := out[:0]
	for i, success := range ok {
		if success {
			downloaded = append(downloaded, out[i])
		}
	}
	return downloaded
}

// runRequirementsAndScheduleBranch parses every pdf/docx document, extracts
// and persists requirements (with dedup, retrieval, response generation,
// scoring, and plan regeneration), and extracts a schedule from the first
// such document for the Win-Plan branch (spec §4.4-§4.8, SPEC_FULL §9).
func (p *Pipeline) runRequirementsAndScheduleBranch(ctx context.Context, project *model.Project, pdfDocx []localFile) ([]model.ScheduleEvent, bool) {
	if len(pdfDocx) == 0 {
		return nil, false
	}

	chunkOpts := chunk.Options{MaxTokens: p.Config.ChunkMaxTokens, OverlapTokens: p.Config.ChunkOverlapTokens}
	var dedupeRecords []dedupe.Record
	var rawRecords []extract.RequirementRecord
	var firstParsedText string

	for i, f := range pdfDocx {
		parsed, err := p.Dispatcher.Dispatch(ctx, f.Filename, f.Data)
		if err != nil {
			slog.Warn("pipeline: parse failed", "filename", f.Filename, "error", err)
			continue
		}
		if i == 0 {
			firstParsedText = parsed.Text
		}
		category := classify.Classify(ctx, p.LLM, f.Filename, parsed.Text, len(parsed.Tables) > 0)
		if err := p.Store.UpdateDocumentCategory(ctx, f.DocID, category); err != nil {
			slog.Warn("pipeline: failed to persist document category", "document_id", f.DocID, "error", err)
		}

		for _, r := range extract.Requirements(ctx, p.LLM, parsed.Text, chunkOpts) {
			rawRecords = append(rawRecords, r)
			dedupeRecords = append(dedupeRecords, dedupe.Record{Title: r.Title, Description: r.Description})
		}
	}

	if len(rawRecords) > 0 {
		kept := dedupe.Dedupe(ctx, p.Embedding, dedupeRecords)
		keptRecords := make([]extract.RequirementRecord, len(kept))
		for i, idx := range kept {
			keptRecords[i] = rawRecords[idx]
		}
		requirements := extract.Renumber(keptRecords)
		for i := range requirements {
			requirements[i].ID = uuid.NewString()
			requirements[i].ProjectID = project.ID
		}
		if err := p.Store.CreateRequirements(ctx, requirements); err != nil {
			slog.Warn("pipeline: failed to persist requirements", "project_id", project.ID, "error", err)
		}

		retriever := retrieval.New(p.Embedding, p.Store)
		responses := generate.Batch(ctx, p.LLM, retriever, "", requirements, generationConcurrency)
		reqTypes := make(map[string]model.RequirementType, len(requirements))
		for i := range requirements {
			reqTypes[requirements[i].ID] = requirements[i].Type
			responses[i].ID = uuid.NewString()
			responses[i].ProjectID = project.ID
		}
		if err := p.Store.CreateResponses(ctx, responses); err != nil {
			slog.Warn("pipeline: failed to persist responses", "project_id", project.ID, "error", err)
		}

		result := scoring.Score(responses, reqTypes)
		plan, err := planning.Generate(ctx, p.LLM, project.ID, len(requirements), result.OverallScore, 1, project.OwnerID)
		if err != nil {
			slog.Warn("pipeline: response plan generation failed", "project_id", project.ID, "error", err)
		} else {
			plan.ID = uuid.NewString()
			if err := p.Store.UpsertResponsePlan(ctx, &plan); err != nil {
				slog.Warn("pipeline: failed to persist response plan", "project_id", project.ID, "error", err)
			}
		}
	}

	if hasTemplate, lineItems, err := extract.Pricing(ctx, p.LLM, firstParsedText); err != nil {
		slog.Warn("pipeline: pricing extraction failed", "project_id", project.ID, "error", err)
	} else if hasTemplate && len(lineItems) > 0 {
		pricingItems := make([]model.PricingItem, len(lineItems))
		for i, it := range lineItems {
			item := model.PricingItem{
				ID:          uuid.NewString(),
				ProjectID:   project.ID,
				Category:    model.PricingCategory(it.Category),
				LineItem:    it.LineItem,
				Description: it.Description,
				Notes:       it.UnitOfMeasure,
			}
			if it.MultiYear {
				years := it.YearsRequested
				item.Year = &years
			}
			pricingItems[i] = item
		}
		if err := p.Store.CreatePricingItems(ctx, pricingItems); err != nil {
			slog.Warn("pipeline: failed to persist pricing items", "project_id", project.ID, "error", err)
		}
	}

	events, err := extract.Schedule(ctx, p.LLM, firstParsedText)
	if err != nil || len(events) == 0 {
		if err != nil {
			slog.Warn("pipeline: schedule extraction failed", "project_id", project.ID, "error", err)
		}
		return nil, false
	}

	scheduleEvents := make([]model.ScheduleEvent, len(events))
	for i, e := range events {
		scheduleEvents[i] = model.ScheduleEvent{
			ID:        uuid.NewString(),
			ProjectID: project.ID,
			EventType: model.ScheduleEventType(e.EventType),
			EventName: e.EventName,
			EventDate: extract.ParseEventDate(e.Date),
			Notes:     e.Notes,
		}
	}
	if err := p.Store.CreateScheduleEvents(ctx, scheduleEvents); err != nil {
		slog.Warn("pipeline: failed to persist schedule events", "project_id", project.ID, "error", err)
	}
	return scheduleEvents, true
}

func (p *Pipeline) runWinPlanBranch(ctx context.Context, ws *workspace, project *model.Project, events []model.ScheduleEvent, hints ContextHints) {
	views := make([]winplan.EventView, len(events))
	for i, e := range events {
		views[i] = winplan.NewEventView(e)
	}
	clientName := hints.ClientName
	if clientName == "" {
		clientName = "Client"
	}
	data := winplan.Data{
		ClientName:       clientName,
		Document:         "RFP Document",
		Events:           views,
		SolutionName:     p.Config.CompanyName,
		SolutionOverview: p.Config.SolutionOverview,
		GeneratedAt:      time.Now(),
	}
	out, err := winplan.Build(data)
	if err != nil {
		slog.Warn("pipeline: win plan generation failed", "project_id", project.ID, "error", err)
		return
	}
	if err := ws.writeOutput("Win_Plan.docx", out); err != nil {
		slog.Warn("pipeline: failed to write win plan output", "project_id", project.ID, "error", err)
	}
}

func (p *Pipeline) runSpreadsheetBranch(ctx context.Context, ws *workspace, xlsxFile localFile, hints ContextHints) {
	f, err := excelize.OpenReader(bytes.NewReader(xlsxFile.Data))
	if err != nil {
		slog.Warn("pipeline: failed to open workbook", "filename", xlsxFile.Filename, "error", err)
		return
	}

	var autoDetected []string
	structures := map[string]spreadsheet.Structure{}
	for _, sheetName := range f.GetSheetList() {
		structure, err := spreadsheet.DetectStructure(f, sheetName)
		if err != nil || !structure.Answerable() {
			continue
		}
		autoDetected = append(autoDetected, sheetName)
		structures[sheetName] = structure
	}
	if len(autoDetected) == 0 {
		slog.Info("pipeline: no answerable sheets found", "filename", xlsxFile.Filename)
		return
	}

	chosen := SelectSheets(autoDetected, hints.SheetNames)
	sheetQuestions := map[string][]spreadsheet.QuestionRecord{}
	for _, sheetName := range chosen {
		questions, err := spreadsheet.ExtractQuestions(f, sheetName, structures[sheetName])
		if err != nil {
			slog.Warn("pipeline: question extraction failed", "sheet", sheetName, "error", err)
			continue
		}
		if len(questions) > 0 {
			sheetQuestions[sheetName] = questions
		}
	}
	if len(sheetQuestions) == 0 {
		slog.Info("pipeline: no sheets with questions found", "filename", xlsxFile.Filename)
		return
	}

	if _, err := answeredxlsx.AnswerSheets(ctx, p.LLM, f, sheetQuestions); err != nil {
		slog.Warn("pipeline: answer generation failed", "filename", xlsxFile.Filename, "error", err)
		return
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Warn("pipeline: failed to serialize answered workbook", "filename", xlsxFile.Filename, "error", err)
		return
	}
	if err := ws.writeOutput("Answered_"+xlsxFile.Filename, buf.Bytes()); err != nil {
		slog.Warn("pipeline: failed to write answered workbook", "filename", xlsxFile.Filename, "error", err)
	}
}

func (p *Pipeline) runPDFBranch(ctx context.Context, ws *workspace, project *model.Project, hints ContextHints) {
	clientName := hints.ClientName
	if clientName == "" {
		clientName = "Client"
	}
	data := rfipdf.Data{
		ClientName:     clientName,
		SolutionName:   p.Config.CompanyName,
		RFIDescription: fmt.Sprintf("RFP/RFI Response for %s", clientName),
		Company:        rfipdf.Company{Name: p.Config.CompanyName},
		RevisionHistory: []rfipdf.Revision{
			{Version: "1.0", Date: time.Now().Format("2006-01-02"), Author: p.Config.CompanyName, Description: "Initial response"},
		},
		ExecutiveSummary: rfipdf.ExecutiveSummary{
			Paragraphs: []string{p.Config.SolutionOverview},
		},
		Copyright: rfipdf.Copyright{
			Year:        fmt.Sprintf("%d", time.Now().Year()),
			CompanyName: p.Config.CompanyName,
		},
	}
	out, err := rfipdf.Build(data)
	if err != nil {
		slog.Warn("pipeline: pdf generation failed", "project_id", project.ID, "error", err)
		return
	}
	if err := ws.writeOutput("RFI_Response.pdf", out); err != nil {
		slog.Warn("pipeline: failed to write pdf output", "project_id", project.ID, "error", err)
	}
}

// publish uploads every file in the workspace's output directory and
// creates a generated-output Document row for it, all inside the single
// transactional boundary (spec §4.9 step 8, §5 "sole transactional
// boundary"): a failure anywhere rolls back every row this step attempted.
func (p *Pipeline) publish(ctx context.Context, ws *workspace, projectID string) (int, error) {
	files, err := ws.outputFiles()
	if err != nil {
		return 0, errkind.Wrap(errkind.Fatal, "pipeline", "list output files", err)
	}
	if len(files) == 0 {
		return 0, nil
	}

	var uploaded []struct {
		key, contentType string
		file             outputFile
	}
	for _, f := range files {
		key := fmt.Sprintf("projects/%s/generated/%s/%s", projectID, uuid.NewString(), f.Name)
		contentType := mime.StringTypeByExtension(f.Name)
		if err := p.Blob.Put(ctx, key, f.Data, contentType); err != nil {
			return 0, errkind.Wrap(errkind.Fatal, "pipeline", "upload output "+f.Name, err)
		}
		uploaded = append(uploaded, struct {
			key, contentType string
			file             outputFile
		}{key, contentType, f})
	}

	err = p.Store.WithPublicationTx(ctx, func(tx storage.PublicationTx) error {
		for _, u := range uploaded {
			doc := &model.Document{
				ID:          uuid.NewString(),
				ProjectID:   projectID,
				Filename:    u.file.Name,
				StorageKey:  u.key,
				FileType:    fileTypeOf(u.file.Name),
				SizeBytes:   int64(len(u.file.Data)),
				DocCategory: model.CategoryGeneratedOutput,
				Status:      model.DocCompleted,
			}
			if err := tx.CreateDocument(ctx, doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(uploaded), nil
}

func extOf(filename string) string {
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			return filename[i:]
		}
	}
	return ""
}

func fileTypeOf(filename string) model.FileType {
	switch extOf(filename) {
	case ".docx":
		return model.FileDOCX
	case ".xlsx":
		return model.FileXLSX
	case ".pdf":
		return model.FilePDF
	default:
		return model.FileType("")
	}
}

func (p *Pipeline) setStatus(ctx context.Context, projectID string, status model.ProcessingStatus, message string) {
	if err := p.Store.SetProcessingStatus(ctx, projectID, status, message); err != nil {
		slog.Error("pipeline: failed to write status", "project_id", projectID, "status", status, "error", err)
	}
}

// fail truncates the message to the ≤500-char bound (spec §4.9, §7) and
// transitions to failed. Every uncaught stage error funnels through here.
func (p *Pipeline) fail(ctx context.Context, projectID, stage string, err error) {
	msg := fmt.Sprintf("Pipeline failed: %s: %s", stage, err.Error())
	if len(msg) > maxStatusMessageChars {
		msg = msg[:maxStatusMessageChars]
	}
	slog.Error("pipeline: run failed", "project_id", projectID, "stage", stage, "error", err)
	p.setStatus(ctx, projectID, model.ProcessingFailed, msg)
}
