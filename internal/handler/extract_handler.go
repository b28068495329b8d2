// Package handler provides HTTP handlers for the API.
package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"paper-extractor/internal/domain"
	"paper-extractor/internal/schema"
)

const (
	pdfMIMEType  = "application/pdf"
	pdfMagic     = "%PDF-"
	formOverhead = 1 << 20 // room for the fields part and multipart framing
	memoryLimit  = 32 << 20
)

// Extractor runs the extraction pipeline on a local PDF.
type Extractor interface {
	Extract(ctx context.Context, path string, fields *schema.FieldSet) (*domain.ExtractResponse, error)
}

// ExtractHandler handles POST /api/extract.
type ExtractHandler struct {
	extractor   Extractor
	uploadPath  string
	maxFileSize int64
	logger      domain.Logger
}

// NewExtractHandler creates a new extract handler
func NewExtractHandler(extractor Extractor, config domain.Config, logger domain.Logger) *ExtractHandler {
	return &ExtractHandler{
		extractor:   extractor,
		uploadPath:  config.GetUploadPath(),
		maxFileSize: config.GetMaxFileSize(),
		logger:      logger,
	}
}

// Extract validates the upload and the field list, then runs the pipeline.
// Nothing past validation runs for a bad request.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	log := h.logger
	if id, ok := GetRequestIDFromContext(r.Context()); ok {
		log = log.With("request_id", id)
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+formOverhead)
	if err := r.ParseMultipartForm(memoryLimit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			writeError(w, http.StatusBadRequest, h.tooLargeMessage())
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No PDF file uploaded")
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		writeError(w, http.StatusBadRequest, h.tooLargeMessage())
		return
	}
	if mediaType, _, err := mime.ParseMediaType(header.Header.Get("Content-Type")); err != nil || mediaType != pdfMIMEType {
		writeError(w, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}

	body := bufio.NewReader(file)
	if head, err := body.Peek(len(pdfMagic)); err != nil || string(head) != pdfMagic {
		writeError(w, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}

	fieldsRaw := r.FormValue("fields")
	if strings.TrimSpace(fieldsRaw) == "" {
		writeError(w, http.StatusBadRequest, "No fields specified for extraction")
		return
	}
	fields, err := schema.Normalize(json.RawMessage(fieldsRaw))
	if err != nil {
		writeAppError(w, err, log)
		return
	}

	path, err := h.saveUpload(body, header.Filename)
	if err != nil {
		log.Error("Failed to store upload", err)
		writeError(w, http.StatusInternalServerError, "Failed to process document")
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn("Failed to remove temp file", "path", path, "error", err)
		}
	}()

	log.Info("Processing PDF", "file", header.Filename, "bytes", header.Size, "fields", fields.Len())
	resp, err := h.extractor.Extract(r.Context(), path, fields)
	if err != nil {
		writeAppError(w, err, log)
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		log.Error("Failed to encode response", err)
		writeError(w, http.StatusInternalServerError, "Failed to process document")
		return
	}
	log.Info("Sending response", "size_mb", fmt.Sprintf("%.2f", float64(len(payload))/1024/1024))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// saveUpload writes the upload to <uploadPath>/<timestamp>-<uuid>-<name>.
func (h *ExtractHandler) saveUpload(src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(h.uploadPath, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := strings.TrimSpace(filepath.Base(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "document.pdf"
	}
	path := filepath.Join(h.uploadPath, fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString(), name))

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

func (h *ExtractHandler) tooLargeMessage() string {
	return fmt.Sprintf("File too large. Maximum file size is %dMB.", h.maxFileSize>>20)
}
