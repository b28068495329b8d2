package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"paper-extractor/internal/domain"
)

// Decode reads extraction results from r. The input is either the
// extractions array itself or an extract response that contains it. Numbers
// are kept as json.Number.
func Decode(r io.Reader) ([]domain.ExtractionResult, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)

	if len(raw) > 0 && raw[0] == '{' {
		var wrapped struct {
			Extractions json.RawMessage `json:"extractions"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, err
		}
		raw = bytes.TrimSpace(wrapped.Extractions)
	}
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("expected an array of extraction results")
	}

	var results []domain.ExtractionResult
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&results); err != nil {
		return nil, err
	}
	return results, nil
}
