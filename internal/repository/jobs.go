package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifedash/docintel/constants"
	"github.com/lifedash/docintel/internal/common"
)

type ExtractJob struct {
	ID           uuid.UUID
	DocumentID   uuid.UUID
	Format       string
	Status       constants.JobStatus
	Text         *string
	Confidence   *float32
	Metadata     []byte // serialized metadata record, contract-checked
	Category     *string
	NeedsReview  bool
	ErrorMessage *string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// ExtractOutcome carries a successful extraction into the job row.
type ExtractOutcome struct {
	Text        string
	Confidence  float32
	Metadata    []byte
	Category    constants.DocumentCategory
	NeedsReview bool
}

type ExtractJobRepository interface {
	Start(ctx context.Context, documentID uuid.UUID, format string) (*ExtractJob, error)
	FinishSuccess(ctx context.Context, id uuid.UUID, out ExtractOutcome) error
	FinishFailure(ctx context.Context, id uuid.UUID, errorMessage string) error
	GetByID(ctx context.Context, id uuid.UUID) (*ExtractJob, error)
	LatestForDocument(ctx context.Context, documentID uuid.UUID) (*ExtractJob, error)
}

type extractJobRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewExtractJobRepository(pool *pgxpool.Pool, logger *slog.Logger) ExtractJobRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &extractJobRepo{pool: pool, logger: logger}
}

const jobColumns = `id, document_id, format, status, extracted_text, confidence, metadata, category, needs_review, error_message, started_at, finished_at`

func (r *extractJobRepo) Start(ctx context.Context, documentID uuid.UUID, format string) (*ExtractJob, error) {
	job := &ExtractJob{
		ID:         uuid.New(),
		DocumentID: documentID,
		Format:     format,
		Status:     constants.JobStatusRunning,
		StartedAt:  time.Now().UTC(),
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO extract_jobs (id, document_id, format, status, started_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		job.ID, job.DocumentID, job.Format, string(job.Status), job.StartedAt)
	if err != nil {
		r.logger.Error("failed to start extract job", "document_id", documentID, "error", err)
		return nil, common.WrapError(err, "start extract job")
	}
	return job, nil
}

func (r *extractJobRepo) FinishSuccess(ctx context.Context, id uuid.UUID, out ExtractOutcome) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE extract_jobs
		 SET status = $2, extracted_text = $3, confidence = $4, metadata = $5,
		     category = $6, needs_review = $7, finished_at = now()
		 WHERE id = $1`,
		id, string(constants.JobStatusExtracted), out.Text, out.Confidence,
		out.Metadata, string(out.Category), out.NeedsReview)
	if err != nil {
		r.logger.Error("failed to finish extract job", "job_id", id, "error", err)
		return common.WrapError(err, "finish extract job")
	}
	return nil
}

func (r *extractJobRepo) FinishFailure(ctx context.Context, id uuid.UUID, errorMessage string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE extract_jobs
		 SET status = $2, error_message = $3, finished_at = now()
		 WHERE id = $1`,
		id, string(constants.JobStatusFailed), errorMessage)
	if err != nil {
		r.logger.Error("failed to mark extract job failed", "job_id", id, "error", err)
		return common.WrapError(err, "fail extract job")
	}
	return nil
}

func (r *extractJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*ExtractJob, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM extract_jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (r *extractJobRepo) LatestForDocument(ctx context.Context, documentID uuid.UUID) (*ExtractJob, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM extract_jobs
		 WHERE document_id = $1 ORDER BY started_at DESC LIMIT 1`, documentID)
	return scanJob(row)
}

func scanJob(row rowScanner) (*ExtractJob, error) {
	var j ExtractJob
	var status string
	err := row.Scan(&j.ID, &j.DocumentID, &j.Format, &status, &j.Text, &j.Confidence,
		&j.Metadata, &j.Category, &j.NeedsReview, &j.ErrorMessage, &j.StartedAt, &j.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "scan extract job")
	}
	j.Status = constants.JobStatus(status)
	return &j, nil
}
