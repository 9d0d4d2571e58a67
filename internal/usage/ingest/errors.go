package ingest

import "errors"

var (
	// ErrMalformedDataset is returned when the raw input is not a
	// recognizable dataset shape at all. Callers treat this as a failed
	// refresh cycle, not a partial success.
	ErrMalformedDataset = errors.New("usage ingest: malformed dataset")
	// ErrEmptyPayload is returned for an empty raw payload.
	ErrEmptyPayload = errors.New("usage ingest: empty payload")
)
