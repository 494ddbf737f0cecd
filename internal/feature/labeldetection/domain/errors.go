// Package domain defines the error taxonomy for the labeldetection feature.
package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a workflow failure. The set is closed.
type Kind int

const (
	KindUnclassified Kind = iota
	KindAuthentication
	KindUnreadableObject
	KindUnsupportedFormat
	KindService
	KindStorageAccess
	KindDecode
	KindInvalidRequest
)

var kindNames = map[Kind]string{
	KindUnclassified:      "UnclassifiedError",
	KindAuthentication:    "AuthenticationError",
	KindUnreadableObject:  "UnreadableObjectError",
	KindUnsupportedFormat: "UnsupportedFormatError",
	KindService:           "ServiceError",
	KindStorageAccess:     "StorageAccessError",
	KindDecode:            "DecodeError",
	KindInvalidRequest:    "InvalidRequestError",
}

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnclassified]
}

// Request validation errors.
var (
	// ErrEmptyImageKey is returned when the request has no image key.
	ErrEmptyImageKey = errors.New("image key is required")

	// ErrEmptyBucket is returned when the request has no bucket name.
	ErrEmptyBucket = errors.New("bucket name is required")

	// ErrRegionMismatch is returned when the request names a region the clients are not pinned to.
	ErrRegionMismatch = errors.New("region does not match the configured region")
)

// WorkflowError is the single error type returned by every workflow step.
type WorkflowError struct {
	Kind    Kind
	Service string // "vision", "storage", "decoder", ...
	Code    string // provider error code, if any
	Message string
	Err     error
}

func (e *WorkflowError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s): %s", e.Kind, e.Service, e.Code, msg)
	}
	if e.Service != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Service, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// NewError builds a WorkflowError wrapping err.
func NewError(kind Kind, service, code string, err error) *WorkflowError {
	we := &WorkflowError{Kind: kind, Service: service, Code: code, Err: err}
	if err != nil {
		we.Message = err.Error()
	}
	return we
}

// AsWorkflowError returns err as a *WorkflowError. Errors that are not
// already classified are wrapped with the fallback kind.
func AsWorkflowError(err error, fallback Kind, service string) *WorkflowError {
	if err == nil {
		return nil
	}
	var we *WorkflowError
	if errors.As(err, &we) {
		return we
	}
	return NewError(fallback, service, "", err)
}

// KindOf reports the kind of err, or KindUnclassified when err carries none.
func KindOf(err error) Kind {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we.Kind
	}
	return KindUnclassified
}

// CodeOf reports the provider code carried by err, if any.
func CodeOf(err error) string {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we.Code
	}
	return ""
}

// ErrHistoryDisabled is returned when run history is requested but no repository is configured.
var ErrHistoryDisabled = errors.New("detection run history is not configured")
