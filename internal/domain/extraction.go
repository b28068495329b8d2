package domain

import (
	"context"
	"encoding/json"
)

// ValueInstance is one occurrence of a field's value in the document.
// Value holds a string, a json.Number or a bool.
type ValueInstance struct {
	Value      interface{} `json:"value"`
	Snippet    string      `json:"snippet"`
	Confidence float64     `json:"confidence"`
}

// ExtractionResult is delivered to the client once per requested field.
type ExtractionResult struct {
	FieldName string          `json:"fieldName"`
	Found     bool            `json:"found"`
	Values    []ValueInstance `json:"values"`
}

// MarshalJSON keeps "values" an array even when no value was found.
func (r ExtractionResult) MarshalJSON() ([]byte, error) {
	type alias ExtractionResult
	out := alias(r)
	if out.Values == nil {
		out.Values = []ValueInstance{}
	}
	out.Found = len(out.Values) > 0
	return json.Marshal(out)
}

// PageImage is one rendered page, numbered from 1.
type PageImage struct {
	Number int
	PNG    []byte
}

// ExtractResponse is the success body of POST /api/extract.
type ExtractResponse struct {
	Images      []string           `json:"images"`
	Extractions []ExtractionResult `json:"extractions"`
	OCRText     string             `json:"ocrText"`
}

// DocumentRef points the generative model at an uploaded document. Exactly one
// of URI or Data is set.
type DocumentRef struct {
	Name     string
	URI      string
	MIMEType string
	Data     []byte
}

// GenerateRequest is a single call to the generative model.
type GenerateRequest struct {
	Model       string
	Document    *DocumentRef
	Prompt      string
	Schema      *SchemaDescriptor
	Temperature *float32
}

// GenerativeModel issues model calls.
type GenerativeModel interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// DocumentStore holds source documents for the duration of one request.
type DocumentStore interface {
	Put(ctx context.Context, name string, data []byte) (*DocumentRef, error)
	Release(ctx context.Context, ref *DocumentRef) error
}

// Rasterizer renders a PDF on disk into page images.
type Rasterizer interface {
	Rasterize(ctx context.Context, path string) ([]PageImage, error)
}
