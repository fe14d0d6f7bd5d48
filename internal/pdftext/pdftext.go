package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/lifedash/docintel/internal/extract"
)

// Confidence is the fixed confidence for text-layer reads: there is no
// recognition uncertainty in this path.
const Confidence = 95

// Backend reads the embedded text layer of each page. It never rasterizes;
// a scanned PDF with no text layer yields empty text, which is a valid
// result, not an error.
type Backend struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{logger: logger}
}

func (b *Backend) Name() string { return "pdf-text" }

func (b *Backend) Extract(ctx context.Context, data []byte) (res extract.BackendResult, err error) {
	// the underlying reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return extract.BackendResult{}, fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return extract.BackendResult{}, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			b.logger.Warn("pdf.page.unreadable", "page", i, "error", err)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(text)
	}

	return extract.BackendResult{Text: sb.String(), Confidence: Confidence, Pages: pages}, nil
}
