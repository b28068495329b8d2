package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseDataType(t *testing.T) {
	tests := []struct {
		in   string
		want DataType
		ok   bool
	}{
		{"", DataTypeText, true},
		{"text", DataTypeText, true},
		{"Number", DataTypeNumber, true},
		{" date ", DataTypeDate, true},
		{"boolean", DataTypeBoolean, true},
		{"list", DataTypeList, true},
		{"currency", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDataType(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ParseDataType(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFieldSpec_Instructions(t *testing.T) {
	tests := []struct {
		name  string
		field FieldSpec
		want  string
	}{
		{
			name:  "metadata only",
			field: FieldSpec{Name: "Date", Metadata: "Format: MM/DD/YYYY"},
			want:  "Format: MM/DD/YYYY",
		},
		{
			name:  "focus without metadata",
			field: FieldSpec{Name: "Sample size", FocusMainStudy: true},
			want:  FocusMainStudyInstruction,
		},
		{
			name:  "focus prepended to metadata",
			field: FieldSpec{Name: "Sample size", Metadata: "Count participants", FocusMainStudy: true},
			want:  FocusMainStudyInstruction + " Count participants",
		},
		{
			// Older clients embed the instruction themselves.
			name:  "focus already present",
			field: FieldSpec{Name: "N", Metadata: FocusMainStudyInstruction + " extra", FocusMainStudy: true},
			want:  FocusMainStudyInstruction + " extra",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.field.Instructions(); got != tt.want {
				t.Fatalf("Instructions() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractionResult_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(ExtractionResult{FieldName: "Date"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(b); got != `{"fieldName":"Date","found":false,"values":[]}` {
		t.Fatalf("unexpected JSON: %s", got)
	}

	b, err = json.Marshal(ExtractionResult{
		FieldName: "Invoice Number",
		Values:    []ValueInstance{{Value: "12345", Snippet: "Invoice No: 12345", Confidence: 0.9}},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"found":true`) {
		t.Fatalf("expected found=true, got %s", b)
	}
}
