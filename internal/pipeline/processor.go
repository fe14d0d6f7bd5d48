package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/lifedash/docintel/constants"
	"github.com/lifedash/docintel/internal/contract"
	"github.com/lifedash/docintel/internal/extract"
	"github.com/lifedash/docintel/internal/repository"
)

// Extractor is the pipeline's view of the extraction service.
type Extractor interface {
	Extract(ctx context.Context, data []byte, contentType string) (extract.Result, error)
}

// Processor runs the full pipeline for a stored document: read bytes,
// extract text, mine metadata, classify, persist the job outcome.
type Processor struct {
	logger             *slog.Logger
	extractor          Extractor
	docs               repository.DocumentRepository
	jobs               repository.ExtractJobRepository
	minImageConfidence float32
}

func NewProcessor(
	logger *slog.Logger,
	extractor Extractor,
	docs repository.DocumentRepository,
	jobs repository.ExtractJobRepository,
	minImageConfidence float32,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if minImageConfidence <= 0 {
		minImageConfidence = 60
	}
	return &Processor{
		logger:             logger,
		extractor:          extractor,
		docs:               docs,
		jobs:               jobs,
		minImageConfidence: minImageConfidence,
	}
}

// ProcessDocument starts an extract job, runs the pipeline and persists the
// outcome. Returns the job ID even on failure so callers can surface it.
func (p *Processor) ProcessDocument(ctx context.Context, documentID uuid.UUID) (uuid.UUID, error) {
	doc, err := p.docs.GetByID(ctx, documentID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("get document: %w", err)
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = constants.ContentTypeForExt(doc.FileExt)
	}
	format := constants.FormatForContentType(contentType)
	if format == "" {
		return uuid.Nil, fmt.Errorf("unsupported format: %q", doc.FileExt)
	}

	job, err := p.jobs.Start(ctx, doc.ID, format)
	if err != nil {
		return uuid.Nil, err
	}

	data, err := os.ReadFile(doc.SourcePath)
	if err != nil {
		_ = p.jobs.FinishFailure(ctx, job.ID, err.Error())
		return job.ID, fmt.Errorf("read document: %w", err)
	}

	res, err := p.extractor.Extract(ctx, data, contentType)
	if err != nil {
		_ = p.jobs.FinishFailure(ctx, job.ID, err.Error())
		p.logger.Error("pipeline.extract.failed", "document_id", doc.ID, "job_id", job.ID, "error", err)
		return job.ID, err
	}

	metaJSON, err := json.Marshal(res.Metadata)
	if err != nil {
		_ = p.jobs.FinishFailure(ctx, job.ID, err.Error())
		return job.ID, fmt.Errorf("marshal metadata: %w", err)
	}

	needsReview := false
	if format == constants.IMAGE && res.Confidence > 0 && res.Confidence < p.minImageConfidence {
		p.logger.Warn("image confidence low; needs review",
			"document_id", doc.ID, "job_id", job.ID, "confidence", res.Confidence)
		needsReview = true
	}
	if err := contract.ValidateMetadataJSON(metaJSON); err != nil {
		// a contract violation flags the row, it never fails the job
		p.logger.Warn("pipeline.contract.violation", "job_id", job.ID, "error", err)
		needsReview = true
	}

	out := repository.ExtractOutcome{
		Text:        res.Text,
		Confidence:  res.Confidence,
		Metadata:    metaJSON,
		Category:    res.Category,
		NeedsReview: needsReview,
	}
	if err := p.jobs.FinishSuccess(ctx, job.ID, out); err != nil {
		return job.ID, err
	}

	p.logger.Info("pipeline.extract.ok",
		"document_id", doc.ID,
		"job_id", job.ID,
		"category", res.Category,
		"confidence", res.Confidence,
		"needs_review", needsReview,
	)
	return job.ID, nil
}
