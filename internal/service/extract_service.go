package service

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"time"

	"paper-extractor/internal/domain"
	"paper-extractor/internal/highlight"
	"paper-extractor/internal/schema"
	apperrors "paper-extractor/pkg/errors"
)

const cleanupTimeout = 30 * time.Second

// ExtractionService runs the full pipeline for one document: rasterize,
// upload, transcribe, extract and assemble.
type ExtractionService struct {
	rasterizer  domain.Rasterizer
	store       domain.DocumentStore
	transcriber *TranscriptionStage
	extractor   *ExtractionStage
	timeout     time.Duration
	logger      domain.Logger
}

// NewExtractionService creates the pipeline. A timeout of zero leaves the
// caller's deadline as the only bound.
func NewExtractionService(
	rasterizer domain.Rasterizer,
	store domain.DocumentStore,
	transcriber *TranscriptionStage,
	extractor *ExtractionStage,
	timeout time.Duration,
	logger domain.Logger,
) *ExtractionService {
	return &ExtractionService{
		rasterizer:  rasterizer,
		store:       store,
		transcriber: transcriber,
		extractor:   extractor,
		timeout:     timeout,
		logger:      logger,
	}
}

// Extract processes the PDF at path. The stages run strictly in order and
// the first failure aborts the request. The uploaded reference is released
// on every path.
func (s *ExtractionService) Extract(ctx context.Context, path string, fields *schema.FieldSet) (*domain.ExtractResponse, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	log := s.logger.With("file", filepath.Base(path), "fields", fields.Len())
	start := time.Now()

	images, err := s.rasterizer.Rasterize(ctx, path)
	if err != nil {
		return nil, asRasterizationError(err)
	}
	log.Info("Converted PDF to images", "pages", len(images))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to read uploaded file", err)
	}

	ref, err := s.store.Put(ctx, filepath.Base(path), data)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to upload document", err)
	}
	defer s.release(ctx, ref, log)

	stageStart := time.Now()
	transcription, err := s.transcriber.Transcribe(ctx, ref)
	if err != nil {
		return nil, err
	}
	log.Info("Transcription complete", "chars", len(transcription), "elapsed_ms", time.Since(stageStart).Milliseconds())

	stageStart = time.Now()
	raw, err := s.extractor.Extract(ctx, transcription, fields)
	if err != nil {
		return nil, err
	}
	extractions := Assemble(raw, fields)
	log.Info("Extraction complete", "elapsed_ms", time.Since(stageStart).Milliseconds())

	if n := countUngrounded(transcription, extractions); n > 0 {
		log.Warn("Snippets not found in transcription", "count", n)
	}

	encoded := make([]string, len(images))
	for i, img := range images {
		encoded[i] = base64.StdEncoding.EncodeToString(img.PNG)
	}

	log.Info("Document processed", "elapsed_ms", time.Since(start).Milliseconds())
	return &domain.ExtractResponse{
		Images:      encoded,
		Extractions: extractions,
		OCRText:     transcription,
	}, nil
}

// release runs after the request context may already be done, so it gets a
// detached context of its own. Failures are only logged.
func (s *ExtractionService) release(ctx context.Context, ref *domain.DocumentRef, log domain.Logger) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := s.store.Release(cctx, ref); err != nil {
		log.Error("Failed to release remote document", err, "ref", ref.Name)
		return
	}
	log.Debug("Remote document released", "ref", ref.Name)
}

// countUngrounded returns how many delivered snippets cannot be located in
// the transcription.
func countUngrounded(transcription string, results []domain.ExtractionResult) int {
	n := 0
	for _, r := range results {
		for _, v := range r.Values {
			if _, _, ok := highlight.FindSnippet(transcription, v.Snippet); !ok {
				n++
			}
		}
	}
	return n
}

// asRasterizationError keeps typed errors as they are and wraps anything else.
func asRasterizationError(err error) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.NewRasterizationError("Failed to convert PDF to images", err)
}
