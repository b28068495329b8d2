package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"paper-extractor/internal/domain"
	"paper-extractor/internal/export"
)

const maxExportBody = 16 << 20

// ExportHandler handles POST /api/export/{format}.
type ExportHandler struct {
	logger domain.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(logger domain.Logger) *ExportHandler {
	return &ExportHandler{logger: logger}
}

// Export renders the posted extractions as a downloadable file. The body is
// either the extractions array or an extract response containing it.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unsupported export format. Allowed: json, csv, xlsx.")
		return
	}

	results, err := export.Decode(http.MaxBytesReader(w, r.Body, maxExportBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Body must be an array of extraction results")
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, results); err != nil {
		h.logger.Error("Export failed", err, "format", format)
		writeError(w, http.StatusInternalServerError, "Failed to export extractions")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
