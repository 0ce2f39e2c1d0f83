package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
)

// DomainError represents a domain-specific error outside the quiz pipeline
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(ErrUnauthorized, message, nil)
}

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageIdentify   Stage = "identify"
	StageFetch      Stage = "fetch"
	StageTranscribe Stage = "transcribe"
	StageGenerate   Stage = "generate"
	StageValidate   Stage = "validate"
)

// ErrorKind classifies pipeline failures.
type ErrorKind string

const (
	KindInvalidReference ErrorKind = "INVALID_REFERENCE"
	KindDownload         ErrorKind = "DOWNLOAD_ERROR"
	KindTranscription    ErrorKind = "TRANSCRIPTION_ERROR"
	KindGeneration       ErrorKind = "GENERATION_ERROR"
	KindMalformedOutput  ErrorKind = "MALFORMED_OUTPUT"
	KindValidation       ErrorKind = "VALIDATION_ERROR"
)

// ReasonTimedOut is the reason attached to any stage that ran past its deadline.
const ReasonTimedOut = "timed out"

// PipelineError is returned by every pipeline stage. Match it with errors.Is against the
// Err* sentinels below, or errors.As to read Stage and Reason.
type PipelineError struct {
	Stage   Stage
	Kind    ErrorKind
	Reason  string
	Timeout bool
	Err     error

	// Permanent marks failures that repeating the same request cannot fix.
	Permanent bool
}

func (e *PipelineError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	if e.Stage != "" {
		msg = fmt.Sprintf("%s stage: %s", e.Stage, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is reports a match when target is a PipelineError of the same kind.
func (e *PipelineError) Is(target error) bool {
	t, ok := target.(*PipelineError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidReference = &PipelineError{Kind: KindInvalidReference}
	ErrDownload         = &PipelineError{Kind: KindDownload}
	ErrTranscription    = &PipelineError{Kind: KindTranscription}
	ErrGeneration       = &PipelineError{Kind: KindGeneration}
	ErrMalformedOutput  = &PipelineError{Kind: KindMalformedOutput}
	ErrValidation       = &PipelineError{Kind: KindValidation}
)

func newPipelineError(stage Stage, kind ErrorKind, reason string, err error) *PipelineError {
	return &PipelineError{Stage: stage, Kind: kind, Reason: reason, Err: err}
}

func NewInvalidReferenceError(reason string) *PipelineError {
	return newPipelineError(StageIdentify, KindInvalidReference, reason, nil)
}

func NewDownloadError(reason string, err error) *PipelineError {
	return newPipelineError(StageFetch, KindDownload, reason, err)
}

// NewPermanentDownloadError is a DownloadError for videos that can never be fetched,
// such as private or removed ones.
func NewPermanentDownloadError(reason string, err error) *PipelineError {
	pe := newPipelineError(StageFetch, KindDownload, reason, err)
	pe.Permanent = true
	return pe
}

func NewTranscriptionError(reason string, err error) *PipelineError {
	return newPipelineError(StageTranscribe, KindTranscription, reason, err)
}

func NewGenerationError(reason string, err error) *PipelineError {
	return newPipelineError(StageGenerate, KindGeneration, reason, err)
}

func NewMalformedOutputError(reason string, err error) *PipelineError {
	return newPipelineError(StageGenerate, KindMalformedOutput, reason, err)
}

func NewValidationError(reason string) *PipelineError {
	return newPipelineError(StageValidate, KindValidation, reason, nil)
}

// NewTimeoutError builds the error for a stage that exceeded its deadline.
func NewTimeoutError(stage Stage, kind ErrorKind, err error) *PipelineError {
	pe := newPipelineError(stage, kind, ReasonTimedOut, err)
	pe.Timeout = true
	return pe
}
