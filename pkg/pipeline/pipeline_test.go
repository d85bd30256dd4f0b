package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nexusrfp/engine/internal/config"
	"github.com/nexusrfp/engine/pkg/blobstore"
	"github.com/nexusrfp/engine/pkg/embedding"
	"github.com/nexusrfp/engine/pkg/llm"
	"github.com/nexusrfp/engine/pkg/parser"
	"github.com/nexusrfp/engine/pkg/storage"
	"github.com/nexusrfp/engine/pkg/storage/model"
)

// fakeStore is an in-memory storage.Store for orchestrator tests. It
// records every call so tests can assert on stage wiring without a
// database.
type fakeStore struct {
	project   *model.Project
	documents []model.Document

	processingStarted  bool
	startProcessingErr error
	listDocsErr        error

	statuses []struct {
		status  model.ProcessingStatus
		message string
	}

	requirements []model.Requirement
	events       []model.ScheduleEvent
	pricing      []model.PricingItem
	responses    []model.Response
	plan         *model.ResponsePlan
	categories   map[string]model.DocCategory

	published       []model.Document
	publishTxErr    error
}

func (s *fakeStore) GetProject(_ context.Context, _ string) (*model.Project, error) {
	return s.project, nil
}

func (s *fakeStore) TryStartProcessing(_ context.Context, _ string) (bool, error) {
	if s.startProcessingErr != nil {
		return false, s.startProcessingErr
	}
	if s.processingStarted {
		return false, nil
	}
	s.processingStarted = true
	return true, nil
}

func (s *fakeStore) SetProcessingStatus(_ context.Context, _ string, status model.ProcessingStatus, message string) error {
	s.statuses = append(s.statuses, struct {
		status  model.ProcessingStatus
		message string
	}{status, message})
	return nil
}

func (s *fakeStore) ListNonGeneratedDocuments(_ context.Context, _ string) ([]model.Document, error) {
	if s.listDocsErr != nil {
		return nil, s.listDocsErr
	}
	return s.documents, nil
}

func (s *fakeStore) CreateDocument(_ context.Context, doc *model.Document) error {
	s.documents = append(s.documents, *doc)
	return nil
}

func (s *fakeStore) UpdateDocumentStatus(_ context.Context, _ string, _ model.DocumentStatus, _ *string) error {
	return nil
}

func (s *fakeStore) UpdateDocumentCategory(_ context.Context, id string, category model.DocCategory) error {
	if s.categories == nil {
		s.categories = map[string]model.DocCategory{}
	}
	s.categories[id] = category
	return nil
}

func (s *fakeStore) CreateRequirements(_ context.Context, reqs []model.Requirement) error {
	s.requirements = append(s.requirements, reqs...)
	return nil
}

func (s *fakeStore) CreateScheduleEvents(_ context.Context, events []model.ScheduleEvent) error {
	s.events = append(s.events, events...)
	return nil
}

func (s *fakeStore) CreatePricingItems(_ context.Context, items []model.PricingItem) error {
	s.pricing = append(s.pricing, items...)
	return nil
}

func (s *fakeStore) CreateResponses(_ context.Context, responses []model.Response) error {
	s.responses = append(s.responses, responses...)
	return nil
}

func (s *fakeStore) UpsertResponsePlan(_ context.Context, plan *model.ResponsePlan) error {
	s.plan = plan
	return nil
}

func (s *fakeStore) SearchKnowledgeBase(_ context.Context, _ string, _ []float32, _ int, _ float64) ([]model.KnowledgeBaseEntry, error) {
	return nil, nil
}

type fakePublicationTx struct{ store *fakeStore }

func (tx *fakePublicationTx) CreateDocument(_ context.Context, doc *model.Document) error {
	tx.store.published = append(tx.store.published, *doc)
	return nil
}

func (s *fakeStore) WithPublicationTx(ctx context.Context, fn func(tx storage.PublicationTx) error) error {
	if s.publishTxErr != nil {
		return s.publishTxErr
	}
	return fn(&fakePublicationTx{store: s})
}

func testConfig() *config.Config {
	return &config.Config{
		ChunkMaxTokens:     4000,
		ChunkOverlapTokens: 200,
		SolutionOverview:   "A configurable platform.",
		CompanyName:        "Nexus Solutions",
	}
}

func TestTrigger_NoDocumentsReturnsWithoutFlippingStatus(t *testing.T) {
	store := &fakeStore{project: &model.Project{ID: "p1"}}
	p := New(store, blobstore.NewMock(), llm.NewMock(), embedding.NewMock(4), parser.NewDispatcher(), testConfig())

	outcome, err := p.Trigger(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoDocuments, outcome)
	assert.False(t, store.processingStarted)
}

func TestTrigger_ConflictWhenAlreadyProcessing(t *testing.T) {
	store := &fakeStore{
		project:           &model.Project{ID: "p1"},
		documents:         []model.Document{{ID: "d1", FileType: model.FilePDF}},
		processingStarted: true,
	}
	p := New(store, blobstore.NewMock(), llm.NewMock(), embedding.NewMock(4), parser.NewDispatcher(), testConfig())

	outcome, err := p.Trigger(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeConflict, outcome)
}

func TestTrigger_AcceptedStartsBackgroundRun(t *testing.T) {
	store := &fakeStore{
		project:   &model.Project{ID: "p1"},
		documents: []model.Document{{ID: "d1", FileType: model.FilePDF, StorageKey: "k1", Filename: "a.pdf"}},
	}
	p := New(store, blobstore.NewMock(), llm.NewMock(), embedding.NewMock(4), parser.NewDispatcher(), testConfig())

	outcome, err := p.Trigger(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, outcome)
	assert.True(t, store.processingStarted)
}

func TestRun_SpreadsheetOnlyProjectPublishesAnsweredWorkbook(t *testing.T) {
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "ID")
	f.SetCellValue("Sheet1", "B1", "Question")
	f.SetCellValue("Sheet1", "D1", "Response")
	f.SetCellValue("Sheet1", "A2", "Q.1")
	f.SetCellValue("Sheet1", "B2", "Does the system support SSO?")
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	blob := blobstore.NewMock()
	require.NoError(t, blob.Put(context.Background(), "k1", buf.Bytes(), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))

	store := &fakeStore{
		project: &model.Project{ID: "p1", UploadContext: "client: Acme Corp"},
		documents: []model.Document{
			{ID: "d1", FileType: model.FileXLSX, StorageKey: "k1", Filename: "questionnaire.xlsx"},
		},
	}
	llmMock := llm.NewMock()
	llmMock.GenerateResponses = []string{
		`[{"row":2,"sheet_name":"Sheet1","response_col_letter":"D","answer":"Yes, via SAML 2.0."}]`,
	}

	p := New(store, blob, llmMock, embedding.NewMock(4), parser.NewDispatcher(), testConfig())
	p.run(context.Background(), "p1", store.documents)

	require.Len(t, store.published, 1)
	assert.Equal(t, "Answered_questionnaire.xlsx", store.published[0].Filename)
	assert.Equal(t, model.CategoryGeneratedOutput, store.published[0].DocCategory)

	last := store.statuses[len(store.statuses)-1]
	assert.Equal(t, model.ProcessingCompleted, last.status)
	assert.Contains(t, last.message, "1 document(s) generated")
}

func TestRun_NoDownloadableDocumentsFails(t *testing.T) {
	store := &fakeStore{
		project:   &model.Project{ID: "p1"},
		documents: []model.Document{{ID: "d1", FileType: model.FilePDF, StorageKey: "missing", Filename: "a.pdf"}},
	}
	p := New(store, blobstore.NewMock(), llm.NewMock(), embedding.NewMock(4), parser.NewDispatcher(), testConfig())

	p.run(context.Background(), "p1", store.documents)

	last := store.statuses[len(store.statuses)-1]
	assert.Equal(t, model.ProcessingFailed, last.status)
	assert.Empty(t, store.published)
}

func TestPublish_RollsBackOnTransactionFailure(t *testing.T) {
	ws, err := newWorkspace()
	require.NoError(t, err)
	defer ws.cleanup()
	require.NoError(t, ws.writeOutput("RFI_Response.pdf", []byte("%PDF-1.4 fake")))

	store := &fakeStore{publishTxErr: errors.New("db unavailable")}
	p := New(store, blobstore.NewMock(), llm.NewMock(), embedding.NewMock(4), parser.NewDispatcher(), testConfig())

	_, err = p.publish(context.Background(), ws, "p1")
	require.Error(t, err)
	assert.Empty(t, store.published)
}

func TestPublish_ContentTypeByExtension(t *testing.T) {
	ws, err := newWorkspace()
	require.NoError(t, err)
	defer ws.cleanup()
	require.NoError(t, ws.writeOutput("Win_Plan.docx", []byte("docx")))
	require.NoError(t, ws.writeOutput("Answered_q.xlsx", []byte("xlsx")))
	require.NoError(t, ws.writeOutput("RFI_Response.pdf", []byte("pdf")))

	store := &fakeStore{}
	blob := blobstore.NewMock()
	p := New(store, blob, llm.NewMock(), embedding.NewMock(4), parser.NewDispatcher(), testConfig())

	count, err := p.publish(context.Background(), ws, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, store.published, 3)

	for _, doc := range store.published {
		assert.Contains(t, doc.StorageKey, "projects/p1/generated/")
		switch doc.FileType {
		case model.FileDOCX, model.FileXLSX, model.FilePDF:
		default:
			t.Fatalf("unexpected file type for %s", doc.Filename)
		}
	}
}
