package probe

import "errors"

// Sentinel kinds for probe failures.
var (
	ErrInvalidConfig    = errors.New("invalid probe config")
	ErrNotReady         = errors.New("service not ready")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrBodyMismatch     = errors.New("responses differ")
	ErrMalformedBody    = errors.New("malformed contacts body")
	ErrMissingFields    = errors.New("contact missing fields")
	ErrRowCount         = errors.New("unexpected row count")
)
