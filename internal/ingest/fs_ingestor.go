package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/docintel/constants"
	"github.com/lifedash/docintel/internal/repository"
)

// FSIngestor reads from the local filesystem and dedupes by content hash.
type FSIngestor struct {
	DocsRepo    repository.DocumentRepository
	AllowedExts map[string]struct{} // lowercased sans '.'; nil -> constants.AllowedExtensions
	Logger      *slog.Logger
}

func NewFSIngestor(docs repository.DocumentRepository, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{DocsRepo: docs, Logger: logger}
}

func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	var out IngestionResult

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, err
	}

	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !i.allowedExt(ext) {
		i.Logger.Warn("unsupported or missing extension", "path", abs, "ext", ext)
		return out, fmt.Errorf("unsupported or missing extension: %q", ext)
	}

	f, err := os.Open(abs)
	if err != nil {
		return out, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			i.Logger.Warn("close file failed", "path", abs, "error", cerr)
		}
	}()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return out, err
	}
	sum := h.Sum(nil)
	now := time.Now().UTC()

	doc := &repository.Document{
		SourcePath:  abs,
		Filename:    filepath.Base(abs),
		FileExt:     ext,
		ContentType: constants.ContentTypeForExt(ext),
		FileSize:    size,
		ContentHash: sum,
		UploadedAt:  now,
	}
	row, dedup, err := i.DocsRepo.UpsertByHash(ctx, doc)
	if err != nil {
		return out, err
	}

	out = IngestionResult{
		SourcePath:   row.SourcePath,
		DocumentID:   row.ID.String(),
		Deduplicated: dedup,
		HashHex:      hex.EncodeToString(sum),
		FileExt:      row.FileExt,
		UploadedAt:   row.UploadedAt,
	}
	return out, nil
}

// IngestDirectory walks root, skips hidden entries if requested, and calls
// IngestPath for each matching file.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []IngestionResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if skipHidden && strings.HasPrefix(name, ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		if !i.allowedExt(constants.NormalizeExt(filepath.Ext(name))) {
			return nil
		}
		stats.Matched++

		res, err := i.IngestPath(ctx, path)
		if err != nil {
			stats.Failed++
			res.SourcePath = path
			res.Err = err.Error()
		} else if res.Deduplicated {
			stats.Deduplicated++
		} else {
			stats.Succeeded++
		}
		results = append(results, res)
		return nil
	})
	if err != nil {
		return results, stats, err
	}
	return results, stats, nil
}

func (i *FSIngestor) allowedExt(ext string) bool {
	exts := i.AllowedExts
	if exts == nil {
		exts = constants.AllowedExtensions
	}
	_, ok := exts[ext]
	return ok
}

// DocumentUUID parses the ingest result's document ID.
func (r IngestionResult) DocumentUUID() (uuid.UUID, error) {
	return uuid.Parse(r.DocumentID)
}
