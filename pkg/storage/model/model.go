// Package model defines the entities the generation pipeline reads and
// writes. Field-level invariants from the data model are enforced at the
// repository boundary in pkg/storage, not scattered through business logic.
package model

import "time"

type ProjectStatus string

const (
	ProjectDraft      ProjectStatus = "draft"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectReview     ProjectStatus = "review"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectArchived   ProjectStatus = "archived"
)

type ProcessingStatus string

const (
	ProcessingNone       ProcessingStatus = ""
	ProcessingProcessing ProcessingStatus = "processing"
	ProcessingCompleted  ProcessingStatus = "completed"
	ProcessingFailed     ProcessingStatus = "failed"
)

type Project struct {
	ID                 string
	Name               string
	OwnerID            string
	Status             ProjectStatus
	UploadContext      string
	ProcessingStatus   ProcessingStatus
	ProcessingMessage  string
	ProcessingStartedAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type FileType string

const (
	FilePDF    FileType = "pdf"
	FileDOCX   FileType = "docx"
	FileXLSX   FileType = "xlsx"
	FileCSV    FileType = "csv"
	FilePPTX   FileType = "pptx"
	FileGSheet FileType = "gsheet"
)

type DocCategory string

const (
	CategoryRFPDocument         DocCategory = "rfp_document"
	CategoryCommercialTerms     DocCategory = "commercial_terms"
	CategoryTechRequirements    DocCategory = "tech_requirements"
	CategoryPricingSheet        DocCategory = "pricing_sheet"
	CategoryLegalAppendix       DocCategory = "legal_appendix"
	CategoryEvaluationCriteria  DocCategory = "evaluation_criteria"
	CategoryGeneratedOutput     DocCategory = "generated_output"
	CategoryNone                DocCategory = ""
)

type DocumentStatus string

const (
	DocUploaded  DocumentStatus = "uploaded"
	DocParsing   DocumentStatus = "parsing"
	DocParsed    DocumentStatus = "parsed"
	DocExtracted DocumentStatus = "extracted"
	DocCompleted DocumentStatus = "completed"
	DocFailed    DocumentStatus = "failed"
)

type Document struct {
	ID          string
	ProjectID   string
	Filename    string
	StorageKey  string
	FileType    FileType
	SizeBytes   int64
	DocCategory DocCategory
	ParsedText  *string
	PageCount   *int
	Status      DocumentStatus
	ErrorMessage *string
	UploadedBy  string
}

type RequirementType string

const (
	ReqFunctional    RequirementType = "functional"
	ReqNonFunctional RequirementType = "non_functional"
	ReqCommercial    RequirementType = "commercial"
	ReqLegal         RequirementType = "legal"
	ReqTechnical     RequirementType = "technical"
)

// Prefix returns the req_number stable typed prefix for this requirement type.
func (t RequirementType) Prefix() string {
	switch t {
	case ReqFunctional:
		return "FR"
	case ReqNonFunctional:
		return "NFR"
	case ReqCommercial:
		return "CR"
	case ReqLegal:
		return "LR"
	case ReqTechnical:
		return "TR"
	default:
		return "XR"
	}
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Requirement struct {
	ID               string
	ProjectID        string
	DocumentID       *string
	ReqNumber        string
	Title            string
	Description      string
	Type             RequirementType
	Category         string
	IsMandatory      bool
	Priority         Priority
	ResponseRequired bool
	ReferenceSection string
	Embedding        []float32
}

type ComplianceStatus string

const (
	FullyCompliant     ComplianceStatus = "fully_compliant"
	PartiallyCompliant ComplianceStatus = "partially_compliant"
	Configurable       ComplianceStatus = "configurable"
	CustomDev          ComplianceStatus = "custom_dev"
	NotApplicable      ComplianceStatus = "not_applicable"
)

type SourceRef struct {
	KBEntryID string
	Title     string
}

type Response struct {
	ID               string
	RequirementID    string
	ProjectID        string
	ComplianceStatus ComplianceStatus
	ResponseText     string
	ConfidenceScore  float64
	SourceRefs       []SourceRef
	IsAIGenerated    bool
	IsReviewed       bool
	ReviewedBy       *string
	ReviewedAt       *time.Time
	Notes            string
}

// MarkReviewed records human review, clearing IsAIGenerated and stamping the
// reviewer per the data-model invariant.
func (r *Response) MarkReviewed(reviewer string, at time.Time) {
	r.IsReviewed = true
	r.IsAIGenerated = false
	r.ReviewedBy = &reviewer
	r.ReviewedAt = &at
}

type ScheduleEventType string

const (
	EventRFPRelease          ScheduleEventType = "rfp_release"
	EventClarificationWindow ScheduleEventType = "clarification_window"
	EventQADeadline          ScheduleEventType = "qa_deadline"
	EventSubmissionDeadline  ScheduleEventType = "submission_deadline"
	EventDemoDate            ScheduleEventType = "demo_date"
	EventAwardNotification   ScheduleEventType = "award_notification"
	EventContractStart       ScheduleEventType = "contract_start"
	EventOther               ScheduleEventType = "other"
)

type ScheduleEvent struct {
	ID        string
	ProjectID string
	EventType ScheduleEventType
	EventName string
	EventDate *time.Time
	Notes     string
}

type PricingCategory string

const (
	PricingLicense        PricingCategory = "license"
	PricingImplementation PricingCategory = "implementation"
	PricingSupport        PricingCategory = "support"
	PricingAddOn          PricingCategory = "add_on"
	PricingTraining       PricingCategory = "training"
	PricingHosting        PricingCategory = "hosting"
	PricingOther          PricingCategory = "other"
)

type PricingItem struct {
	ID          string
	ProjectID   string
	Category    PricingCategory
	LineItem    string
	Description string
	UnitCost    *float64
	Quantity    *float64
	Total       *float64
	Currency    string
	Year        *int
	Notes       string
}

type Workstream struct {
	Name         string
	Owner        string
	Priority     Priority
	Dependencies []string
	Notes        string
}

type EscalationLevel struct {
	Level   string
	Contact string
	Trigger string
}

type ResponsePlan struct {
	ID               string
	ProjectID        string
	Workstreams      []Workstream
	EscalationMatrix []EscalationLevel
	Version          int
	Notes            string
	OwnerID          string
}

type KnowledgeBaseEntry struct {
	ID              string
	OrgID           string
	Title           string
	Content         string
	Category        string
	Tags            []string
	Embedding       []float32
	SourceProjectID string
}
