package server

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lifedash/docintel/constants"
	"github.com/lifedash/docintel/internal/async"
	"github.com/lifedash/docintel/internal/common"
	"github.com/lifedash/docintel/internal/repository"
)

type documentResponse struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	FileExt     string    `json:"file_ext"`
	ContentType string    `json:"content_type"`
	FileSize    int64     `json:"file_size"`
	ContentHash string    `json:"content_hash"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type jobResponse struct {
	ID           string              `json:"id"`
	Format       string              `json:"format"`
	Status       constants.JobStatus `json:"status"`
	Text         *string             `json:"text,omitempty"`
	Confidence   *float32            `json:"confidence,omitempty"`
	Metadata     json.RawMessage     `json:"metadata,omitempty"`
	Category     *string             `json:"category,omitempty"`
	NeedsReview  bool                `json:"needs_review"`
	ErrorMessage *string             `json:"error_message,omitempty"`
	StartedAt    time.Time           `json:"started_at"`
	FinishedAt   *time.Time          `json:"finished_at,omitempty"`
}

type uploadResponse struct {
	DocumentID   string `json:"document_id"`
	Deduplicated bool   `json:"deduplicated"`
	Queued       bool   `json:"queued"`
}

func toDocumentResponse(d *repository.Document) documentResponse {
	return documentResponse{
		ID:          d.ID.String(),
		Filename:    d.Filename,
		FileExt:     d.FileExt,
		ContentType: d.ContentType,
		FileSize:    d.FileSize,
		ContentHash: hex.EncodeToString(d.ContentHash),
		UploadedAt:  d.UploadedAt,
	}
}

func toJobResponse(j *repository.ExtractJob) jobResponse {
	return jobResponse{
		ID:           j.ID.String(),
		Format:       j.Format,
		Status:       j.Status,
		Text:         j.Text,
		Confidence:   j.Confidence,
		Metadata:     json.RawMessage(j.Metadata),
		Category:     j.Category,
		NeedsReview:  j.NeedsReview,
		ErrorMessage: j.ErrorMessage,
		StartedAt:    j.StartedAt,
		FinishedAt:   j.FinishedAt,
	}
}

// handleUpload accepts a multipart upload, spools it to disk, registers the
// document, and queues extraction.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload())
	if err := r.ParseMultipartForm(h.maxUpload()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		writeError(w, http.StatusUnsupportedMediaType, "unsupported file extension: "+ext)
		return
	}

	spoolPath := filepath.Join(h.SpoolDir, uuid.NewString()+"_"+filepath.Base(header.Filename))
	dst, err := os.Create(spoolPath)
	if err != nil {
		h.logger().Error("server.upload.spool_failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(spoolPath)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	if err := dst.Close(); err != nil {
		os.Remove(spoolPath)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	res, err := h.Ingestor.IngestPath(r.Context(), spoolPath)
	if err != nil {
		h.logger().Error("server.upload.ingest_failed",
			slog.String("path", spoolPath),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to register document")
		return
	}

	docID, err := res.DocumentUUID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to register document")
		return
	}

	queued := false
	if h.Queue != nil {
		if err := h.Queue.Enqueue(r.Context(), async.Job{DocumentID: docID, SubmittedAt: time.Now()}); err != nil {
			h.logger().Warn("server.upload.enqueue_failed",
				slog.String("document_id", docID.String()),
				slog.String("error", err.Error()))
		} else {
			queued = true
		}
	}

	writeJSON(w, http.StatusAccepted, uploadResponse{
		DocumentID:   res.DocumentID,
		Deduplicated: res.Deduplicated,
		Queued:       queued,
	})
}

const defaultListLimit = 100

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Docs.List(r.Context(), defaultListLimit)
	if err != nil {
		h.logger().Error("server.documents.list_failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	doc, err := h.Docs.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load document")
		return
	}

	resp := struct {
		Document documentResponse `json:"document"`
		Job      *jobResponse     `json:"job,omitempty"`
	}{Document: toDocumentResponse(doc)}

	job, err := h.Jobs.LatestForDocument(r.Context(), id)
	switch {
	case err == nil:
		jr := toJobResponse(job)
		resp.Job = &jr
	case errors.Is(err, common.ErrNotFound):
		// never extracted, document alone is the answer
	default:
		writeError(w, http.StatusInternalServerError, "failed to load extraction")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
