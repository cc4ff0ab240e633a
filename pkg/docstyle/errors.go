package docstyle

import (
	"errors"
	"fmt"

	"github.com/ukaji3/docstyle-go/pkg/docstyle/apply"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/normalize"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/parser"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/render"
	"github.com/ukaji3/docstyle-go/pkg/docstyle/segment"
)

// Errors reported by Restyle. Match them with errors.Is.
var (
	// ErrUnsupportedInput indicates an input format that cannot be processed.
	ErrUnsupportedInput = normalize.ErrUnsupportedInput
	// ErrConversionFailed indicates a supported input whose conversion failed.
	ErrConversionFailed = normalize.ErrConversionFailed
	// ErrMalformedDocument indicates a .docx package that cannot be read.
	ErrMalformedDocument = parser.ErrMalformedDocument
	// ErrNoContent indicates there was no non-empty content to format.
	ErrNoContent = segment.ErrNoContent
	// ErrEmptyProfile indicates a profile without paragraph roles.
	ErrEmptyProfile = apply.ErrEmptyProfile
	// ErrSerialization indicates the output document could not be written.
	ErrSerialization = render.ErrSerialization
)

// Stage names a step of the restyling pipeline.
type Stage string

const (
	StageNormalize Stage = "normalize"
	StageExtract   Stage = "extract"
	StageSegment   Stage = "segment"
	StageApply     Stage = "apply"
	StageRender    Stage = "render"
)

// StageError represents an error during one pipeline stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError.
func NewStageError(stage Stage, err error) *StageError {
	return &StageError{
		Stage: stage,
		Err:   err,
	}
}

// ErrorKind returns a stable identifier for the sentinel err wraps, or
// "internal" when it wraps none.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedInput):
		return "unsupported_input"
	case errors.Is(err, ErrConversionFailed):
		return "conversion_failed"
	case errors.Is(err, ErrMalformedDocument):
		return "malformed_document"
	case errors.Is(err, ErrNoContent):
		return "no_content"
	case errors.Is(err, ErrEmptyProfile):
		return "empty_profile"
	case errors.Is(err, ErrSerialization):
		return "serialization_error"
	}
	return "internal"
}

// Result is the status report handed back to a chat host.
type Result struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// Report converts the outcome of Restyle into a Result.
func Report(err error) Result {
	if err == nil {
		return Result{Success: true, Message: "Document formatted successfully"}
	}
	return Result{Success: false, Message: userMessage(err), ErrorKind: ErrorKind(err)}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedInput):
		return "Unsupported file: " + err.Error()
	case errors.Is(err, ErrNoContent):
		return "No chat content to format"
	case errors.Is(err, ErrEmptyProfile):
		return "The style document has no usable paragraph styles"
	}
	return "Error processing document: " + err.Error()
}
