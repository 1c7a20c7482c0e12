package services

import "fmt"

// ValidationError reports bad caller input (missing file, wrong MIME type,
// empty text). It maps to a 400 at the HTTP boundary and is never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ExtractionError reports an unrecoverable extraction failure (corrupt PDF,
// engine init failure, store failure). The whole request is aborted; no
// partial page results are returned.
type ExtractionError struct {
	Stage string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed at %s: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
