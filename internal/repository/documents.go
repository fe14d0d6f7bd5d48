package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifedash/docintel/internal/common"
)

type Document struct {
	ID          uuid.UUID
	SourcePath  string
	Filename    string
	FileExt     string
	ContentType string
	FileSize    int64
	ContentHash []byte
	UploadedAt  time.Time
}

type DocumentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	GetByHash(ctx context.Context, hash []byte) (*Document, error)
	// UpsertByHash returns the existing row (deduplicated=true) when a
	// document with the same content hash is already stored.
	UpsertByHash(ctx context.Context, doc *Document) (*Document, bool, error)
	List(ctx context.Context, limit int) ([]*Document, error)
}

type documentRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, logger *slog.Logger) DocumentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentRepo{pool: pool, logger: logger}
}

const documentColumns = `id, source_path, filename, file_ext, content_type, file_size, content_hash, uploaded_at`

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	return scanDocument(row)
}

func (r *documentRepo) GetByHash(ctx context.Context, hash []byte) (*Document, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE content_hash = $1`, hash)
	return scanDocument(row)
}

func (r *documentRepo) UpsertByHash(ctx context.Context, doc *Document) (*Document, bool, error) {
	if existing, err := r.GetByHash(ctx, doc.ContentHash); err == nil {
		return existing, true, nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}

	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO documents (id, source_path, filename, file_ext, content_type, file_size, content_hash, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		doc.ID, doc.SourcePath, doc.Filename, doc.FileExt, doc.ContentType, doc.FileSize, doc.ContentHash, doc.UploadedAt)
	if err != nil {
		r.logger.Error("failed to insert document", "source_path", doc.SourcePath, "error", err)
		return nil, false, common.WrapError(err, "insert document")
	}
	return doc, false, nil
}

func (r *documentRepo) List(ctx context.Context, limit int) ([]*Document, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents ORDER BY uploaded_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, common.WrapError(err, "list documents")
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.SourcePath, &d.Filename, &d.FileExt, &d.ContentType, &d.FileSize, &d.ContentHash, &d.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "scan document")
	}
	return &d, nil
}
