package server

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/gabriel-vasile/mimetype"

	"github.com/lifedash/docintel/internal/extract"
)

const defaultMaxUploadBytes = 32 << 20

func (h *Handler) maxUpload() int64 {
	if h.MaxUploadBytes > 0 {
		return h.MaxUploadBytes
	}
	return defaultMaxUploadBytes
}

// handleExtract runs the pipeline on the request body without persisting
// anything. The declared Content-Type selects the backend; when the client
// declares nothing useful the payload is sniffed.
func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxUpload())
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty request body")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}

	result, err := h.Extractor.Extract(r.Context(), data, contentType)
	if err != nil {
		var unsupported *extract.UnsupportedTypeError
		if errors.As(err, &unsupported) {
			writeError(w, http.StatusUnsupportedMediaType, unsupported.Error())
			return
		}
		var backendErr *extract.BackendError
		if errors.As(err, &backendErr) {
			h.logger().Error("server.extract.failed",
				slog.String("backend", backendErr.Backend),
				slog.String("error", backendErr.Error()))
			writeError(w, http.StatusUnprocessableEntity, backendErr.Error())
			return
		}
		h.logger().Error("server.extract.failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "extraction failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
