package services

import "errors"

var (
	// ErrInputValidation covers missing job fields, an empty file set and
	// oversized files. Nothing is processed when it is returned.
	ErrInputValidation = errors.New("invalid input")
	// ErrUnsupportedDocumentType marks a file that is not a PDF. Such files are skipped.
	ErrUnsupportedDocumentType = errors.New("unsupported document type")
	// ErrExtractionInsufficient marks a PDF that yielded too little text. Such files are skipped.
	ErrExtractionInsufficient = errors.New("insufficient extracted text")
	// ErrMalformedModelResponse is returned when model output cannot be read as the expected JSON shape.
	ErrMalformedModelResponse = errors.New("malformed model response")
	// ErrExternalService wraps failures of the completion or embedding endpoint.
	ErrExternalService = errors.New("external service error")
	// ErrEmptyResult is returned when no candidate survives filtering.
	ErrEmptyResult = errors.New("no valid candidates")
)

// IsClientError reports whether err should be surfaced to the caller as a
// client-side problem rather than a server failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInputValidation) || errors.Is(err, ErrEmptyResult)
}
