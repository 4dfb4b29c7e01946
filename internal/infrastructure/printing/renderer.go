package printing

import (
	"context"
	"time"
)

// PDFRenderer turns rendered HTML into a PDF. The document service
// uses it for GRN documents on A4 and sale receipts on thermal roll
// sizes.
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)

	// Close releases the renderer's resources, such as the headless
	// browser pool.
	Close() error
}

// RenderRequest describes one document to render.
type RenderRequest struct {
	HTML        string
	PaperSize   PaperSize
	Orientation Orientation
	// Margins are in millimeters.
	Margins Margins
	// Title lands in the PDF metadata.
	Title string
	// Timeout overrides the renderer's default per-document timeout.
	Timeout time.Duration
}

// RenderResult is a finished PDF plus render statistics.
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
)

// RenderError classifies a rendering failure with one of the codes
// above.
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

// NewRenderError wraps cause with a classification code.
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
