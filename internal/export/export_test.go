package export

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"paper-extractor/internal/domain"
)

func sampleResults() []domain.ExtractionResult {
	return []domain.ExtractionResult{
		{
			FieldName: "Invoice Number",
			Found:     true,
			Values: []domain.ValueInstance{
				{Value: "12345", Snippet: "Invoice No: 12345", Confidence: 0.984},
			},
		},
		{FieldName: "Date", Values: []domain.ValueInstance{}},
		{
			FieldName: "Quote",
			Found:     true,
			Values: []domain.ValueInstance{
				{Value: `He said "paid"`, Snippet: `said "paid" today`, Confidence: 0.5},
				{Value: json.Number("42"), Snippet: "answer is 42", Confidence: 0.125},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"json", "CSV", " xlsx "} {
		if _, err := ParseFormat(in); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", in, err)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := CSV(&buf, sampleResults()); err != nil {
		t.Fatalf("CSV() error = %v", err)
	}

	want := strings.Join([]string{
		"Field Name,Value,Snippet,Confidence",
		`Invoice Number,"12345","Invoice No: 12345",98%`,
		`Date,"","",`,
		`Quote,"He said ""paid""","said ""paid"" today",50%`,
		`Quote,"42","answer is 42",13%`,
	}, "\n")
	if buf.String() != want {
		t.Fatalf("CSV() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestCSV_RowCount(t *testing.T) {
	results := sampleResults()
	var buf bytes.Buffer
	if err := CSV(&buf, results); err != nil {
		t.Fatal(err)
	}

	want := 0
	for _, r := range results {
		want += max(1, len(r.Values))
	}
	lines := strings.Split(buf.String(), "\n")
	if got := len(lines) - 1; got != want {
		t.Fatalf("expected %d data rows, got %d", want, got)
	}
}

func TestCSV_FieldNameQuoting(t *testing.T) {
	var buf bytes.Buffer
	results := []domain.ExtractionResult{{FieldName: "Total, net"}}
	if err := CSV(&buf, results); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "\n"+`"Total, net","","",`) {
		t.Fatalf("field name with comma must be quoted, got %q", buf.String())
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleResults()); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	original, err := json.Marshal(sampleResults())
	if err != nil {
		t.Fatal(err)
	}

	var got, want interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}
	if err := json.Unmarshal(original, &want); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n%v\n%v", got, want)
	}
}

func TestJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := XLSX(&buf, sampleResults()); err != nil {
		t.Fatalf("XLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d", len(rows))
	}
	if rows[0][0] != "Field Name" || rows[1][1] != "12345" || rows[3][1] != `He said "paid"` {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestWrite_Dispatch(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatCSV, FormatXLSX} {
		var buf bytes.Buffer
		if err := Write(&buf, f, sampleResults()); err != nil {
			t.Fatalf("Write(%s) error = %v", f, err)
		}
		if buf.Len() == 0 {
			t.Fatalf("Write(%s) produced no output", f)
		}
	}
	if err := Write(&bytes.Buffer{}, Format("pdf"), nil); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestDecode(t *testing.T) {
	array := `[{"fieldName": "Total", "found": true, "values": [{"value": 12.50, "snippet": "Total 12.50", "confidence": 0.9}]}]`

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"array", array, false},
		{"wrapped response", `{"images": [], "ocrText": "x", "extractions": ` + array + `}`, false},
		{"object without extractions", `{"fieldName": "Total"}`, true},
		{"scalar", `42`, true},
		{"invalid", `[{`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Decode(strings.NewReader(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(results) != 1 {
				t.Fatalf("expected 1 result, got %d", len(results))
			}
			if n, ok := results[0].Values[0].Value.(json.Number); !ok || n.String() != "12.50" {
				t.Fatalf("expected number kept as written, got %#v", results[0].Values[0].Value)
			}
		})
	}
}
