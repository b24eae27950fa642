package document

import "errors"

// Error taxonomy surfaced to callers. Match with errors.Is.
var (
	// ErrInvalidPayload indicates a missing or empty required field on create/update.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrInvalidKeyword indicates an empty search term.
	ErrInvalidKeyword = errors.New("invalid keyword")

	// ErrInvalidID indicates an empty document identifier.
	ErrInvalidID = errors.New("invalid id")

	// ErrNotFound indicates no document exists under the given identifier.
	ErrNotFound = errors.New("document not found")

	// ErrInternal wraps unexpected failures from the storage layer.
	ErrInternal = errors.New("internal error")
)

// Code returns the taxonomy name for err, used in API error bodies.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidPayload):
		return "InvalidPayload"
	case errors.Is(err, ErrInvalidKeyword):
		return "InvalidKeyword"
	case errors.Is(err, ErrInvalidID):
		return "InvalidId"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	default:
		return "InternalError"
	}
}
