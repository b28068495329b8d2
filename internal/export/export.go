// Package export renders extraction results as downloadable files.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"paper-extractor/internal/domain"
)

// Format is a supported export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a path or flag value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// FileName returns the download name for the format.
func (f Format) FileName() string {
	return "extractions." + string(f)
}

// Write renders results in the given format.
func Write(w io.Writer, f Format, results []domain.ExtractionResult) error {
	switch f {
	case FormatJSON:
		return JSON(w, results)
	case FormatCSV:
		return CSV(w, results)
	case FormatXLSX:
		return XLSX(w, results)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// JSON writes the results as indented JSON.
func JSON(w io.Writer, results []domain.ExtractionResult) error {
	if results == nil {
		results = []domain.ExtractionResult{}
	}
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal extractions: %w", err)
	}
	_, err = w.Write(b)
	return err
}

// row is one exported line: a single value instance of a field, or an empty
// placeholder for a field without values.
type row struct {
	field      string
	value      string
	snippet    string
	confidence string
}

func rows(results []domain.ExtractionResult) []row {
	var out []row
	for _, r := range results {
		if len(r.Values) == 0 {
			out = append(out, row{field: r.FieldName})
			continue
		}
		for _, v := range r.Values {
			out = append(out, row{
				field:      r.FieldName,
				value:      formatValue(v.Value),
				snippet:    v.Snippet,
				confidence: formatConfidence(v.Confidence),
			})
		}
	}
	return out
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// formatConfidence renders c as a rounded integer percentage.
func formatConfidence(c float64) string {
	return fmt.Sprintf("%d%%", int(c*100+0.5))
}
