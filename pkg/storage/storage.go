// Package storage is the persistence layer (L16): entities, the vector
// column, and processing-status transitions. The pipeline orchestrator is a
// transient actor that reads Projects and writes their children.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"github.com/nexusrfp/engine/internal/errkind"
	"github.com/nexusrfp/engine/pkg/ptr"
	"github.com/nexusrfp/engine/pkg/storage/model"
)

// Store is the full repository surface the pipeline depends on.
type Store interface {
	GetProject(ctx context.Context, id string) (*model.Project, error)
	// TryStartProcessing atomically flips processing_status to "processing"
	// unless a run is already active, returning (false, nil) on conflict
	// instead of an error — the pipeline's Trigger reports that as
	// OutcomeConflict.
	TryStartProcessing(ctx context.Context, projectID string) (bool, error)
	SetProcessingStatus(ctx context.Context, projectID string, status model.ProcessingStatus, message string) error

	ListNonGeneratedDocuments(ctx context.Context, projectID string) ([]model.Document, error)
	CreateDocument(ctx context.Context, doc *model.Document) error
	UpdateDocumentStatus(ctx context.Context, id string, status model.DocumentStatus, errMsg *string) error
	UpdateDocumentCategory(ctx context.Context, id string, category model.DocCategory) error

	CreateRequirements(ctx context.Context, reqs []model.Requirement) error
	CreateScheduleEvents(ctx context.Context, events []model.ScheduleEvent) error
	CreatePricingItems(ctx context.Context, items []model.PricingItem) error
	CreateResponses(ctx context.Context, responses []model.Response) error
	UpsertResponsePlan(ctx context.Context, plan *model.ResponsePlan) error

	SearchKnowledgeBase(ctx context.Context, orgID string, queryEmbedding []float32, topK int, minSimilarity float64) ([]model.KnowledgeBaseEntry, error)

	// WithPublicationTx runs fn inside the single transactional boundary
	// used by the publication step (§4.9 step 8); any error rolls back.
	WithPublicationTx(ctx context.Context, fn func(tx PublicationTx) error) error
}

// PublicationTx is the narrow surface available inside the publication
// transaction: create generated-output Document rows.
type PublicationTx interface {
	CreateDocument(ctx context.Context, doc *model.Document) error
}

// PGStore implements Store over Postgres + pgvector, using pgx for the pool
// and sqlx for ergonomic scanning of simple rows.
type PGStore struct {
	pool *pgxpool.Pool
	db   *sqlx.DB
}

// New opens a pool and wraps it. dsn is the DATABASE_URL from config.
func New(ctx context.Context, dsn string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errkind.Wrap(errkind.Fatal, "storage", "connect", err)
	}
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errkind.Wrap(errkind.Fatal, "storage", "connect sqlx", err)
	}
	return &PGStore{pool: pool, db: sqlx.NewDb(sqlDB, "pgx")}, nil
}

func (s *PGStore) Close() {
	s.pool.Close()
	_ = s.db.Close()
}

func (s *PGStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, name, owner_id, status, upload_context,
		coalesce(processing_status, ''), processing_message, processing_started_at,
		created_at, updated_at FROM projects WHERE id = $1`, id)

	var p model.Project
	var status, uploadCtx, procMsg sql.NullString
	var procStatus string
	var startedAt sql.NullTime
	if err := row.Scan(&p.ID, &p.Name, &p.OwnerID, &status, &uploadCtx,
		&procStatus, &procMsg, &startedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, errkind.New(errkind.NotFound, "project not found")
		}
		return nil, errkind.Wrap(errkind.Fatal, "storage", "get project", err)
	}
	p.Status = model.ProjectStatus(status.String)
	p.UploadContext = uploadCtx.String
	p.ProcessingStatus = model.ProcessingStatus(procStatus)
	p.ProcessingMessage = procMsg.String
	if startedAt.Valid {
		p.ProcessingStartedAt = ptr.Pointer(startedAt.Time)
	}
	return &p, nil
}

// TryStartProcessing performs the conflict check and the transition to
// "processing" as a single UPDATE ... WHERE clause, so two concurrent
// triggers cannot both observe "not processing" and both proceed — the
// second caller's UPDATE simply matches zero rows.
func (s *PGStore) TryStartProcessing(ctx context.Context, projectID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE projects
		SET processing_status = 'processing', processing_message = '', processing_started_at = now(), updated_at = now()
		WHERE id = $1 AND coalesce(processing_status, '') IS DISTINCT FROM 'processing'`, projectID)
	if err != nil {
		return false, errkind.Wrap(errkind.Fatal, "storage", "start processing", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) SetProcessingStatus(ctx context.Context, projectID string, status model.ProcessingStatus, message string) error {
	if len(message) > 500 {
		message = message[:500]
	}
	// A fresh statement per call (no held connection across stages) keeps
	// readers seeing a monotone (status, message, started_at) tuple per §5.
	_, err := s.pool.Exec(ctx, `UPDATE projects SET processing_status = $2, processing_message = $3, updated_at = now()
		WHERE id = $1`, projectID, string(status), message)
	if err != nil {
		return errkind.Wrap(errkind.Fatal, "storage", "set processing status", err)
	}
	return nil
}

func (s *PGStore) ListNonGeneratedDocuments(ctx context.Context, projectID string) ([]model.Document, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, project_id, filename, storage_key, file_type, size_bytes,
		coalesce(doc_category, ''), status, uploaded_by FROM documents
		WHERE project_id = $1 AND coalesce(doc_category, '') != 'generated_output'`, projectID)
	if err != nil {
		return nil, errkind.Wrap(errkind.Fatal, "storage", "list documents", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var d model.Document
		var cat, status string
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.Filename, &d.StorageKey, &d.FileType,
			&d.SizeBytes, &cat, &status, &d.UploadedBy); err != nil {
			return nil, errkind.Wrap(errkind.Fatal, "storage", "scan document", err)
		}
		d.DocCategory = model.DocCategory(cat)
		d.Status = model.DocumentStatus(status)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *PGStore) CreateDocument(ctx context.Context, doc *model.Document) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO documents
		(id, project_id, filename, storage_key, file_type, size_bytes, doc_category, status, uploaded_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		doc.ID, doc.ProjectID, doc.Filename, doc.StorageKey, string(doc.FileType),
		doc.SizeBytes, string(doc.DocCategory), string(doc.Status), doc.UploadedBy)
	if err != nil {
		return errkind.Wrap(errkind.Fatal, "storage", "create document", err)
	}
	return nil
}

func (s *PGStore) UpdateDocumentStatus(ctx context.Context, id string, status model.DocumentStatus, errMsg *string) error {
	_, err := s.pool.Exec(ctx, `UPDATE documents SET status=$2, error_message=$3 WHERE id=$1`, id, string(status), errMsg)
	if err != nil {
		return errkind.Wrap(errkind.Fatal, "storage", "update document status", err)
	}
	return nil
}

func (s *PGStore) UpdateDocumentCategory(ctx context.Context, id string, category model.DocCategory) error {
	_, err := s.pool.Exec(ctx, `UPDATE documents SET doc_category=$2 WHERE id=$1`, id, string(category))
	if err != nil {
		return errkind.Wrap(errkind.Fatal, "storage", "update document category", err)
	}
	return nil
}

func (s *PGStore) CreateRequirements(ctx context.Context, reqs []model.Requirement) error {
	for _, r := range reqs {
		var emb *pgvector.Vector
		if len(r.Embedding) > 0 {
			v := pgvector.NewVector(r.Embedding)
			emb = &v
		}
		_, err := s.pool.Exec(ctx, `INSERT INTO requirements
			(id, project_id, document_id, req_number, title, description, type, category,
			 is_mandatory, priority, response_required, reference_section, embedding)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			r.ID, r.ProjectID, r.DocumentID, r.ReqNumber, r.Title, r.Description, string(r.Type),
			r.Category, r.IsMandatory, string(r.Priority), r.ResponseRequired, r.ReferenceSection, emb)
		if err != nil {
			return errkind.Wrap(errkind.Fatal, "storage", "create requirement", err)
		}
	}
	return nil
}

func (s *PGStore) CreateScheduleEvents(ctx context.Context, events []model.ScheduleEvent) error {
	for _, e := range events {
		_, err := s.pool.Exec(ctx, `INSERT INTO schedule_events
			(id, project_id, event_type, event_name, event_date, notes) VALUES ($1,$2,$3,$4,$5,$6)`,
			e.ID, e.ProjectID, string(e.EventType), e.EventName, e.EventDate, e.Notes)
		if err != nil {
			return errkind.Wrap(errkind.Fatal, "storage", "create schedule event", err)
		}
	}
	return nil
}

func (s *PGStore) CreatePricingItems(ctx context.Context, items []model.PricingItem) error {
	for _, it := range items {
		_, err := s.pool.Exec(ctx, `INSERT INTO pricing_items
			(id, project_id, category, line_item, description, unit_cost, quantity, total, currency, year, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			it.ID, it.ProjectID, string(it.Category), it.LineItem, it.Description,
			it.UnitCost, it.Quantity, it.Total, it.Currency, it.Year, it.Notes)
		if err != nil {
			return errkind.Wrap(errkind.Fatal, "storage", "create pricing item", err)
		}
	}
	return nil
}

func (s *PGStore) CreateResponses(ctx context.Context, responses []model.Response) error {
	for _, r := range responses {
		_, err := s.pool.Exec(ctx, `INSERT INTO responses
			(id, requirement_id, project_id, compliance_status, response_text, confidence_score,
			 is_ai_generated, is_reviewed, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			r.ID, r.RequirementID, r.ProjectID, string(r.ComplianceStatus), r.ResponseText,
			r.ConfidenceScore, r.IsAIGenerated, r.IsReviewed, r.Notes)
		if err != nil {
			return errkind.Wrap(errkind.Fatal, "storage", "create response", err)
		}
	}
	return nil
}

func (s *PGStore) UpsertResponsePlan(ctx context.Context, plan *model.ResponsePlan) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO response_plans
		(id, project_id, workstreams, escalation_matrix, version, notes, owner_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (project_id) DO UPDATE SET
			workstreams = excluded.workstreams, escalation_matrix = excluded.escalation_matrix,
			version = response_plans.version + 1, notes = excluded.notes`,
		plan.ID, plan.ProjectID, plan.Workstreams, plan.EscalationMatrix, plan.Version, plan.Notes, plan.OwnerID)
	if err != nil {
		return errkind.Wrap(errkind.Fatal, "storage", "upsert response plan", err)
	}
	return nil
}

// SearchKnowledgeBase runs the fixed cosine-distance nearest-neighbour query
// (<=> is pgvector's cosine-distance operator; similarity = 1 - distance),
// scoped to org_id when provided, applying the minimum-similarity cutoff in
// SQL so the caller never sees sub-threshold rows.
func (s *PGStore) SearchKnowledgeBase(ctx context.Context, orgID string, queryEmbedding []float32, topK int, minSimilarity float64) ([]model.KnowledgeBaseEntry, error) {
	v := pgvector.NewVector(queryEmbedding)
	query := `SELECT id, coalesce(org_id,''), title, content, coalesce(category,''), coalesce(source_project_id,''),
		1 - (embedding <=> $1) AS similarity
		FROM knowledge_base_entries
		WHERE ($2 = '' OR org_id = $2) AND 1 - (embedding <=> $1) > $3
		ORDER BY embedding <=> $1 ASC LIMIT $4`
	rows, err := s.pool.Query(ctx, query, v, orgID, minSimilarity, topK)
	if err != nil {
		return nil, errkind.Wrap(errkind.StagePartial, "storage", "search knowledge base", err)
	}
	defer rows.Close()

	var entries []model.KnowledgeBaseEntry
	for rows.Next() {
		var e model.KnowledgeBaseEntry
		var sim float64
		if err := rows.Scan(&e.ID, &e.OrgID, &e.Title, &e.Content, &e.Category, &e.SourceProjectID, &sim); err != nil {
			return nil, errkind.Wrap(errkind.StagePartial, "storage", "scan kb row", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// pgPublicationTx adapts a live pgx.Tx to the narrow PublicationTx surface.
type pgPublicationTx struct {
	tx pgx.Tx
}

func (p *pgPublicationTx) CreateDocument(ctx context.Context, doc *model.Document) error {
	_, err := p.tx.Exec(ctx, `INSERT INTO documents
		(id, project_id, filename, storage_key, file_type, size_bytes, doc_category, status, uploaded_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		doc.ID, doc.ProjectID, doc.Filename, doc.StorageKey, string(doc.FileType),
		doc.SizeBytes, string(doc.DocCategory), string(doc.Status), doc.UploadedBy)
	if err != nil {
		return fmt.Errorf("create document in publication tx: %w", err)
	}
	return nil
}

// WithPublicationTx is the pipeline's sole transactional boundary (§5, §7
// Fatal policy): a failure anywhere inside fn rolls back every generated
// Document row the publication step attempted to insert.
func (s *PGStore) WithPublicationTx(ctx context.Context, fn func(tx PublicationTx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errkind.Wrap(errkind.Fatal, "storage", "begin publication tx", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgPublicationTx{tx: tx}); err != nil {
		return errkind.Wrap(errkind.Fatal, "storage", "publication failed", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return errkind.Wrap(errkind.Fatal, "storage", "commit publication tx", err)
	}
	return nil
}
