package apperrors

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable is returned when the metadata store cannot be
	// reached. It is retryable and maps to HTTP 503.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrValidation is returned for malformed or incomplete input.
	ErrValidation = errors.New("validation failed")

	// ErrUnsupportedEngine is returned when a connectivity probe is
	// requested for an engine type without a registered prober.
	ErrUnsupportedEngine = errors.New("unsupported engine type")

	// ErrTimeout is returned when a probe exceeds its deadline. Kept
	// distinct from other probe failures so callers can suggest checking
	// network and firewall rules.
	ErrTimeout = errors.New("timed out")
)
