package models

import "fmt"

// ErrorKind classifies generation diagnostics
type ErrorKind int

const (
	ErrorKindArgumentShape ErrorKind = iota
	ErrorKindParamClassification
	ErrorKindStructuralContract
	ErrorKindAttachmentTarget
	ErrorKindGeneration
	ErrorKindFileSystem
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindArgumentShape:
		return "argument-shape"
	case ErrorKindParamClassification:
		return "parameter-classification"
	case ErrorKindStructuralContract:
		return "structural-contract"
	case ErrorKindAttachmentTarget:
		return "attachment-target"
	case ErrorKindGeneration:
		return "generation"
	case ErrorKindFileSystem:
		return "filesystem"
	default:
		return "unknown"
	}
}

// GeneratorError is a diagnostic tied to a source position. Diagnostics are
// accumulated and reported at the generation boundary; a diagnostic on one
// endpoint never aborts generation for its siblings.
type GeneratorError struct {
	Kind        ErrorKind
	File        string
	Line        int
	Message     string
	Suggestions []string
	Cause       error
}

func (e *GeneratorError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

func (e *GeneratorError) Unwrap() error {
	return e.Cause
}

// NewArgumentShapeError reports a wrong arity or label at an annotation.
func NewArgumentShapeError(file string, line int, message string, cause error) *GeneratorError {
	return &GeneratorError{
		Kind:    ErrorKindArgumentShape,
		File:    file,
		Line:    line,
		Message: message,
		Cause:   cause,
	}
}

// NewParamClassificationError reports conflicting or malformed source markers
// on a handler parameter.
func NewParamClassificationError(file string, line int, message string) *GeneratorError {
	return &GeneratorError{
		Kind:    ErrorKindParamClassification,
		File:    file,
		Line:    line,
		Message: message,
	}
}

// NewStructuralContractError reports a handler shape violation, carrying an
// optional suggested rewrite.
func NewStructuralContractError(file string, line int, message string, suggestions ...string) *GeneratorError {
	return &GeneratorError{
		Kind:        ErrorKindStructuralContract,
		File:        file,
		Line:        line,
		Message:     message,
		Suggestions: suggestions,
	}
}

// NewAttachmentTargetError reports an annotation attached to a declaration
// that cannot carry it.
func NewAttachmentTargetError(file string, line int, message string) *GeneratorError {
	return &GeneratorError{
		Kind:    ErrorKindAttachmentTarget,
		File:    file,
		Line:    line,
		Message: message,
	}
}
