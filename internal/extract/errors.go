package extract

import "fmt"

// UnsupportedTypeError reports a declared content type the pipeline does
// not handle. This is a caller error, not an extraction failure.
type UnsupportedTypeError struct {
	ContentType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %q", e.ContentType)
}

// BackendError reports a failure inside a text backend: malformed input,
// corrupt PDF, or an OCR engine error.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s extraction failed: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
