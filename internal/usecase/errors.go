package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrIngestionFailed marks a rejected atomic multi-write; the partition
	// is untouched and the caller may retry.
	ErrIngestionFailed = errors.New("ingestion failed")
)
