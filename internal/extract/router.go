package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/lifedash/docintel/constants"
	"github.com/lifedash/docintel/internal/classify"
	"github.com/lifedash/docintel/internal/docparse"
)

// Service routes a file to exactly one backend by its declared content
// type, then mines metadata and a category from the extracted text. Calls
// are independent and stateless; any number may run concurrently.
type Service struct {
	pdf    Backend
	image  Backend
	parser *docparse.Parser
	logger *slog.Logger
}

func NewService(pdf, image Backend, parser *docparse.Parser, logger *slog.Logger) *Service {
	if parser == nil {
		parser = docparse.NewParser()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{pdf: pdf, image: image, parser: parser, logger: logger}
}

// Extract dispatches on the declared content type. No sniffing, no
// fallback: a type mismatch is the caller's error.
func (s *Service) Extract(ctx context.Context, data []byte, contentType string) (Result, error) {
	start := time.Now()

	var backend Backend
	switch constants.FormatForContentType(contentType) {
	case constants.PDF:
		backend = s.pdf
	case constants.IMAGE:
		backend = s.image
	default:
		s.logger.Warn("extract.unsupported", "content_type", contentType)
		return Result{}, &UnsupportedTypeError{ContentType: contentType}
	}

	br, err := backend.Extract(ctx, data)
	if err != nil {
		s.logger.Error("extract.backend.failed", "backend", backend.Name(), "error", err)
		return Result{}, &BackendError{Backend: backend.Name(), Err: err}
	}

	res := Result{
		Text:       br.Text,
		Confidence: br.Confidence,
		Metadata:   s.parser.Parse(br.Text),
		Category:   classify.Categorize(br.Text),
	}
	s.logger.Debug("extract.ok",
		"backend", backend.Name(),
		"chars", len(br.Text),
		"pages", br.Pages,
		"confidence", br.Confidence,
		"category", res.Category,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}
