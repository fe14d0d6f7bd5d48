package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lifedash/docintel/constants"
	"github.com/lifedash/docintel/internal/common"
	"github.com/lifedash/docintel/internal/docparse"
	"github.com/lifedash/docintel/internal/export"
)

const exportListLimit = 1000

// handleExport streams an XLSX workbook of all documents and their latest
// extraction results.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Docs.List(r.Context(), exportListLimit)
	if err != nil {
		h.logger().Error("server.export.list_failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	rows := make([]export.Row, 0, len(docs))
	for _, d := range docs {
		row := export.Row{
			Filename:   d.Filename,
			Category:   string(constants.CategoryGeneral),
			SourcePath: d.SourcePath,
		}

		job, err := h.Jobs.LatestForDocument(r.Context(), d.ID)
		switch {
		case err == nil && job.Status == constants.JobStatusExtracted:
			if job.Category != nil {
				row.Category = *job.Category
			}
			if job.Confidence != nil {
				row.Confidence = *job.Confidence
			}
			if job.FinishedAt != nil {
				row.ProcessedAt = *job.FinishedAt
			}
			var fields docparse.Fields
			if len(job.Metadata) > 0 && json.Unmarshal(job.Metadata, &fields) == nil {
				row.ExpirationDate = fields.ExpirationDate
				row.RenewalDate = fields.RenewalDate
				row.PolicyNumber = fields.PolicyNumber
				row.AccountNumber = fields.AccountNumber
				row.Amount = fields.Amount
				row.Currency = fields.Currency
				row.Email = fields.Email
				row.Phone = fields.Phone
			}
		case err != nil && !errors.Is(err, common.ErrNotFound):
			writeError(w, http.StatusInternalServerError, "failed to load extractions")
			return
		}

		rows = append(rows, row)
	}

	data, err := export.DocumentsXLSX(rows)
	if err != nil {
		h.logger().Error("server.export.render_failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to render export")
		return
	}

	filename := "documents_" + time.Now().UTC().Format("20060102_150405") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
