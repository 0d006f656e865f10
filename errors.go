package teamtl

import (
	"errors"
	"fmt"
)

// ErrorKind classifies lookup failures so transports can map them to status codes.
type ErrorKind string

const (
	KindUnknown               ErrorKind = "unknown"
	KindInvalidInput          ErrorKind = "invalid_input"
	KindNotFound              ErrorKind = "not_found"
	KindNoTranslatableContent ErrorKind = "no_translatable_content"
	KindProvider              ErrorKind = "translation_provider_error"
	KindStorage               ErrorKind = "storage_error"
)

// InvalidInputError indicates a missing or malformed request parameter.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

// NotFoundError indicates the team does not exist.
type NotFoundError struct {
	EntityID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("team %s not found", e.EntityID)
}

// NoContentError indicates the team has no history to translate.
type NoContentError struct {
	EntityID string
}

func (e *NoContentError) Error() string {
	return fmt.Sprintf("team %s has no history to translate", e.EntityID)
}

// ProviderError indicates a translation provider failure (API error, rate limit, etc.).
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// StorageError indicates the entity store or record store failed or returned
// malformed data.
type StorageError struct {
	Op      string // "get team", "get record", "put record", ...
	Message string
	Cause   error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage error (%s): %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("storage error (%s): %s", e.Op, e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of the first typed error in err's chain.
func KindOf(err error) ErrorKind {
	var (
		invalid  *InvalidInputError
		notFound *NotFoundError
		noText   *NoContentError
		provErr  *ProviderError
		storeErr *StorageError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &invalid):
		return KindInvalidInput
	case errors.As(err, &notFound):
		return KindNotFound
	case errors.As(err, &noText):
		return KindNoTranslatableContent
	case errors.As(err, &provErr):
		return KindProvider
	case errors.As(err, &storeErr):
		return KindStorage
	default:
		return KindUnknown
	}
}

// asProviderError wraps err as a ProviderError unless it already is one.
func asProviderError(err error) error {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return err
	}
	return &ProviderError{Message: "translation failed", Cause: err}
}
