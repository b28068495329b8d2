package service

import (
	"bytes"
	"encoding/json"

	"paper-extractor/internal/domain"
	"paper-extractor/internal/schema"
)

// Assemble maps raw model output back onto the requested fields. The result
// has one entry per field in request order, named with the original name.
func Assemble(raw map[string]RawField, fields *schema.FieldSet) []domain.ExtractionResult {
	results := make([]domain.ExtractionResult, 0, fields.Len())

	for i := 0; i < fields.Len(); i++ {
		field, key := fields.Field(i)
		values := []domain.ValueInstance{}

		for _, rv := range raw[key].Values {
			for _, v := range decodeValue(rv.Value, field.DataType) {
				values = append(values, domain.ValueInstance{
					Value:      v,
					Snippet:    rv.Snippet,
					Confidence: clampConfidence(rv.Confidence),
				})
			}
		}

		results = append(results, domain.ExtractionResult{
			FieldName: field.Name,
			Found:     len(values) > 0,
			Values:    values,
		})
	}
	return results
}

// decodeValue returns the non-null scalars carried by one value object. A
// list field that arrives as an array yields one scalar per element.
func decodeValue(raw json.RawMessage, dataType domain.DataType) []interface{} {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '[' && dataType == domain.DataTypeList {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		var out []interface{}
		for _, item := range items {
			out = append(out, decodeValue(item, domain.DataTypeText)...)
		}
		return out
	}

	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil || v == nil {
		return nil
	}
	return []interface{}{v}
}

func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
