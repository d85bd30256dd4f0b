// Package errkind defines the error taxonomy shared by every stage of the
// generation pipeline. Stages return plain errors; the orchestrator branches
// on Kind to decide whether to continue, skip, or abort — see pkg/pipeline.
package errkind

import "errors"

// Kind classifies an error by the policy it implies, not by its Go type.
type Kind int

const (
	// Unknown is the zero value: an error with no declared kind is treated
	// as Fatal by callers that must pick a policy.
	Unknown Kind = iota
	// InvalidInput: unsupported format, missing file, malformed payload.
	// Policy: report, do not retry.
	InvalidInput
	// NotFound: project, document, requirement missing. Policy: 404, do not retry.
	NotFound
	// Conflict: pipeline already running for this project. Policy: 409.
	Conflict
	// Transient: rate-limit, connection reset. Policy: exponential backoff then surface.
	Transient
	// StagePartial: one chunk, batch, or sub-step failed. Policy: log, continue with partial result.
	StagePartial
	// Fatal: publication transaction failed, DB unreachable. Policy: rollback, status=failed.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Transient:
		return "transient"
	case StagePartial:
		return "stage_partial"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind and a stage label.
type Error struct {
	Kind  Kind
	Stage string
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		if e.Stage != "" {
			return e.Stage + ": " + e.Msg + ": " + e.Cause.Error()
		}
		return e.Msg + ": " + e.Cause.Error()
	}
	if e.Stage != "" {
		return e.Stage + ": " + e.Msg
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a kinded error with no stage label.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap attaches a kind and stage label to an existing error.
func Wrap(kind Kind, stage string, msg string, cause error) error {
	return &Error{Kind: kind, Stage: stage, Msg: msg, Cause: cause}
}

// Of walks the error chain looking for the first *Error and returns its Kind,
// or Unknown if none is found.
func Of(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	return Of(err) == kind
}
