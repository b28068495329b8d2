package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"paper-extractor/internal/domain"
	"paper-extractor/internal/schema"
	apperrors "paper-extractor/pkg/errors"
)

// RawValue is one value object as emitted by the model.
type RawValue struct {
	Value      json.RawMessage `json:"value"`
	Snippet    string          `json:"snippet"`
	Confidence float64         `json:"confidence"`
}

// RawField is the model output for one schema key.
type RawField struct {
	Values []RawValue `json:"values"`
}

// ExtractionStage pulls field values out of the transcription under a strict
// response schema.
type ExtractionStage struct {
	model     domain.GenerativeModel
	modelName string
	logger    domain.Logger
}

// NewExtractionStage creates the text-only extraction stage for modelName.
func NewExtractionStage(model domain.GenerativeModel, modelName string, logger domain.Logger) *ExtractionStage {
	return &ExtractionStage{
		model:     model,
		modelName: modelName,
		logger:    logger,
	}
}

// Extract returns the parsed model output keyed by schema key. A key the
// model left out, or sent with null values, comes back empty. Output that is
// not valid JSON or breaks the schema fails the whole stage.
func (s *ExtractionStage) Extract(ctx context.Context, transcription string, fields *schema.FieldSet) (map[string]RawField, error) {
	descriptor := schema.Build(fields)
	temperature := float32(0)

	out, err := s.model.Generate(ctx, domain.GenerateRequest{
		Model:       s.modelName,
		Prompt:      BuildExtractionPrompt(transcription, fields.Fields()),
		Schema:      descriptor,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, apperrors.NewExtractionError("Extraction failed", err)
	}

	raw, err := parseStructuredJSON(out)
	if err != nil {
		return nil, apperrors.NewExtractionError("Model returned malformed JSON", err)
	}
	raw, err = fillMissingFields(raw, fields.Keys())
	if err != nil {
		return nil, apperrors.NewExtractionError("Model output does not match the extraction schema", err)
	}
	if err := schema.Validate(descriptor, raw); err != nil {
		return nil, apperrors.NewExtractionError("Model output does not match the extraction schema", err)
	}

	var parsed map[string]RawField
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&parsed); err != nil {
		return nil, apperrors.NewExtractionError("Model returned malformed JSON", err)
	}
	return parsed, nil
}

// fillMissingFields gives every requested key an empty values array when the
// model omitted it or sent null. Anything else is left for schema validation.
func fillMissingFields(raw []byte, keys []string) ([]byte, error) {
	var doc map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("output is not an object: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}

	changed := false
	for _, key := range keys {
		entry, ok := doc[key]
		if !ok || entry == nil {
			doc[key] = map[string]interface{}{"values": []interface{}{}}
			changed = true
			continue
		}
		obj, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if values, ok := obj["values"]; !ok || values == nil {
			obj["values"] = []interface{}{}
			changed = true
		}
	}
	if !changed {
		return raw, nil
	}
	return json.Marshal(doc)
}

// parseStructuredJSON accepts the body as-is or wrapped in a markdown code fence.
func parseStructuredJSON(content string) ([]byte, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyResponse
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	for _, candidate := range candidates {
		if json.Valid([]byte(candidate)) {
			return []byte(candidate), nil
		}
	}
	return nil, fmt.Errorf("failed to parse structured JSON")
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
