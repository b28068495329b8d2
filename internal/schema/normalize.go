// Package schema turns user-declared fields into normalized FieldSpecs and the
// strict output schema the extraction model is constrained to.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"paper-extractor/internal/domain"
	apperrors "paper-extractor/pkg/errors"
)

// FieldInput is one element of the "fields" array: either a bare name or a
// full FieldSpec object.
type FieldInput struct {
	Name           string `json:"name"`
	DataType       string `json:"dataType"`
	Metadata       string `json:"metadata"`
	FocusMainStudy bool   `json:"focusMainStudy"`
}

// UnmarshalJSON accepts a bare string as {name: s, dataType: text}.
func (f *FieldInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		*f = FieldInput{Name: name}
		return nil
	}
	if len(b) == 0 || b[0] != '{' {
		return fmt.Errorf("field must be a string or an object")
	}
	type alias FieldInput
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*f = FieldInput(a)
	return nil
}

// FieldSet is the normalized, ordered field list of one request together with
// the table between schema keys and original names.
type FieldSet struct {
	fields []domain.FieldSpec
	keys   []string
	names  map[string]string
}

// Normalize parses the raw "fields" JSON.
func Normalize(raw json.RawMessage) (*FieldSet, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, apperrors.NewValidationError("No fields specified for extraction")
	}
	if raw[0] != '[' {
		return nil, apperrors.NewValidationError("Fields must be a non-empty array")
	}

	var inputs []FieldInput
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return nil, apperrors.NewValidationError("Fields must be an array of names or field objects", err.Error())
	}
	return NormalizeFields(inputs)
}

// NormalizeFields fills defaults, validates every field and builds the key table.
func NormalizeFields(inputs []FieldInput) (*FieldSet, error) {
	if len(inputs) == 0 {
		return nil, apperrors.NewValidationError("Fields must be a non-empty array")
	}

	set := &FieldSet{
		fields: make([]domain.FieldSpec, 0, len(inputs)),
		keys:   make([]string, 0, len(inputs)),
		names:  make(map[string]string, len(inputs)),
	}
	seen := make(map[string]bool, len(inputs))

	for i, in := range inputs {
		name := in.Name
		if strings.TrimSpace(name) == "" {
			return nil, apperrors.NewValidationError("Field name is required", fmt.Sprintf("field %d", i+1))
		}
		if seen[name] {
			return nil, apperrors.NewValidationError("Field names must be unique", name)
		}
		seen[name] = true

		dataType, ok := domain.ParseDataType(in.DataType)
		if !ok {
			return nil, apperrors.NewValidationError("Unsupported data type", fmt.Sprintf("%s: %q", name, in.DataType))
		}

		key := set.uniqueKey(Sanitize(name))
		set.fields = append(set.fields, domain.FieldSpec{
			Name:           name,
			DataType:       dataType,
			Metadata:       in.Metadata,
			FocusMainStudy: in.FocusMainStudy,
		})
		set.keys = append(set.keys, key)
		set.names[key] = name
	}

	return set, nil
}

// uniqueKey suffixes colliding sanitized keys with _2, _3, ... in input order.
func (s *FieldSet) uniqueKey(base string) string {
	key := base
	for n := 2; ; n++ {
		if _, taken := s.names[key]; !taken {
			return key
		}
		key = fmt.Sprintf("%s_%d", base, n)
	}
}

// Sanitize replaces every character outside [A-Za-z0-9_] with an underscore.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Len returns the number of fields.
func (s *FieldSet) Len() int {
	return len(s.fields)
}

// Fields returns the normalized fields in request order.
func (s *FieldSet) Fields() []domain.FieldSpec {
	out := make([]domain.FieldSpec, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field returns the i-th field and its schema key.
func (s *FieldSet) Field(i int) (domain.FieldSpec, string) {
	return s.fields[i], s.keys[i]
}

// Keys returns the schema keys in request order.
func (s *FieldSet) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Name maps a schema key back to the original field name.
func (s *FieldSet) Name(key string) (string, bool) {
	name, ok := s.names[key]
	return name, ok
}
