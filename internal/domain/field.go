package domain

import "strings"

// DataType governs how a field's value is represented in the output schema.
type DataType string

const (
	DataTypeText    DataType = "text"
	DataTypeNumber  DataType = "number"
	DataTypeDate    DataType = "date"
	DataTypeBoolean DataType = "boolean"
	DataTypeList    DataType = "list"
)

// ParseDataType maps user input onto a DataType. Empty input is text.
func ParseDataType(s string) (DataType, bool) {
	switch DataType(strings.ToLower(strings.TrimSpace(s))) {
	case "", DataTypeText:
		return DataTypeText, true
	case DataTypeNumber:
		return DataTypeNumber, true
	case DataTypeDate:
		return DataTypeDate, true
	case DataTypeBoolean:
		return DataTypeBoolean, true
	case DataTypeList:
		return DataTypeList, true
	}
	return "", false
}

// FocusMainStudyInstruction is injected ahead of a field's metadata when
// FocusMainStudy is set.
const FocusMainStudyInstruction = "IMPORTANT: Extract ONLY from the PRIMARY/MAIN study described in this document. " +
	"DO NOT extract from: cited studies, referenced papers, related work, comparison studies, " +
	"or prior research mentioned in the text. Focus exclusively on the current study's own data."

// FieldSpec is the user's intent for one field to extract.
type FieldSpec struct {
	Name           string   `json:"name"`
	DataType       DataType `json:"dataType"`
	Metadata       string   `json:"metadata"`
	FocusMainStudy bool     `json:"focusMainStudy"`
}

// Instructions returns the per-field instruction text placed in the extraction prompt.
func (f FieldSpec) Instructions() string {
	meta := strings.TrimSpace(f.Metadata)
	if !f.FocusMainStudy || strings.HasPrefix(meta, FocusMainStudyInstruction) {
		return meta
	}
	if meta == "" {
		return FocusMainStudyInstruction
	}
	return FocusMainStudyInstruction + " " + meta
}
