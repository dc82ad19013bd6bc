package domain

import "errors"

// ErrNotFound is returned when the requested trip, place or storage key does
// not exist. Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. blank trip name, duplicate place in a reorder).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnavailable is returned when every place source failed. Callers still
// receive an empty, non-nil result set alongside it.
var ErrUnavailable = errors.New("all place sources unavailable")

// ErrInvalidToken is returned when a share token cannot be decoded.
var ErrInvalidToken = errors.New("invalid share token")

// ErrImportFormat is returned when an import file is not a JSON array of trips.
var ErrImportFormat = errors.New("invalid file format")

// ErrStorage wraps failures of the persistent key-value backend.
var ErrStorage = errors.New("storage failure")
