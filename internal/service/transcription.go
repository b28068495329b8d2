package service

import (
	"context"
	"strings"

	"paper-extractor/internal/domain"
	apperrors "paper-extractor/pkg/errors"
)

const transcriptionPrompt = "You are an advanced Document Intelligence Engine. Perform a high-accuracy visual-spatial transcription. Reconstruct all tables, headers, and columns into precise Markdown. Output only the markdown."

// TranscriptionStage turns the uploaded document into layout-preserving markdown.
type TranscriptionStage struct {
	model     domain.GenerativeModel
	modelName string
	logger    domain.Logger
}

// NewTranscriptionStage creates the vision transcription stage for modelName.
func NewTranscriptionStage(model domain.GenerativeModel, modelName string, logger domain.Logger) *TranscriptionStage {
	return &TranscriptionStage{
		model:     model,
		modelName: modelName,
		logger:    logger,
	}
}

// Transcribe makes a single vision call. There are no retries.
func (s *TranscriptionStage) Transcribe(ctx context.Context, doc *domain.DocumentRef) (string, error) {
	text, err := s.model.Generate(ctx, domain.GenerateRequest{
		Model:    s.modelName,
		Document: doc,
		Prompt:   transcriptionPrompt,
	})
	if err != nil {
		return "", apperrors.NewTranscriptionError("Transcription failed", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", apperrors.NewTranscriptionError("Transcription failed", domain.ErrEmptyTranscription)
	}
	return text, nil
}
