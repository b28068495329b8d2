package highlight

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"testing"
	"unicode/utf8"

	"paper-extractor/internal/domain"
)

func TestLocate(t *testing.T) {
	text := "Invoice No: INV-001\nTotal due: 12.50 EUR"
	result := domain.ExtractionResult{
		FieldName: "Total",
		Found:     true,
		Values: []domain.ValueInstance{
			{Value: "12.50", Snippet: "total due: 12.50", Confidence: 0.9},
			{Value: "13.00", Snippet: "Total due: 13.00", Confidence: 0.2},
		},
	}

	locs := Locate(text, result, 4)
	if len(locs) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(locs))
	}

	first := locs[0]
	if !first.Found || first.Start != 20 || first.End != 36 {
		t.Fatalf("unexpected first location %+v", first)
	}
	want := []Segment{
		{Text: "001\n"},
		{Text: "Total due: 12.50", Highlighted: true},
		{Text: " EUR"},
	}
	if len(first.Excerpt) != len(want) {
		t.Fatalf("excerpt = %+v, want %+v", first.Excerpt, want)
	}
	for i := range want {
		if first.Excerpt[i] != want[i] {
			t.Fatalf("excerpt[%d] = %+v, want %+v", i, first.Excerpt[i], want[i])
		}
	}

	if locs[1].Found || locs[1].Excerpt != nil {
		t.Fatalf("expected ungrounded snippet to be reported as not found, got %+v", locs[1])
	}
}

func TestExcerpt_RuneBoundaries(t *testing.T) {
	text := "ÜÜÜ total ÜÜÜ"
	start, end, ok := FindSnippet(text, "total")
	if !ok {
		t.Fatal("expected match")
	}

	segs := Excerpt(text, "total", start, end, 2)
	for _, s := range segs {
		if !utf8.ValidString(s.Text) {
			t.Fatalf("excerpt split a rune: %q", s.Text)
		}
	}
}

func pngPage(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestPageSizes(t *testing.T) {
	sizes, err := PageSizes([]string{pngPage(t, 400, 200), pngPage(t, 200, 600)})
	if err != nil {
		t.Fatalf("PageSizes() error = %v", err)
	}
	if len(sizes) != 2 || sizes[0] != (PageSize{400, 200}) || sizes[1] != (PageSize{200, 600}) {
		t.Fatalf("unexpected sizes %+v", sizes)
	}

	if _, err := PageSizes([]string{"not base64!"}); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := PageSizes([]string{base64.StdEncoding.EncodeToString([]byte("text"))}); err == nil {
		t.Fatal("expected error for non-PNG data")
	}
}

func TestRegion(t *testing.T) {
	pages := []PageSize{{Width: 400, Height: 200}, {Width: 200, Height: 600}}

	rect, err := Region(pages, 2, domain.BoundingBox{X: 500, Y: 500, Width: 250, Height: 500})
	if err != nil {
		t.Fatalf("Region() error = %v", err)
	}
	want := domain.PixelRect{X: 100, Y: 500, Width: 50, Height: 300}
	if rect != want {
		t.Fatalf("Region() = %+v, want %+v", rect, want)
	}

	first, err := Region(pages, 1, domain.BoundingBox{X: 0, Y: 0, Width: 1000, Height: 1000})
	if err != nil {
		t.Fatalf("Region() error = %v", err)
	}
	if first != (domain.PixelRect{Width: 400, Height: 200}) {
		t.Fatalf("full first page = %+v", first)
	}
}

func TestRegion_Errors(t *testing.T) {
	pages := []PageSize{{Width: 400, Height: 200}}

	tests := []struct {
		name string
		page int
		box  domain.BoundingBox
	}{
		{"page zero", 0, domain.BoundingBox{Width: 10, Height: 10}},
		{"page past end", 2, domain.BoundingBox{Width: 10, Height: 10}},
		{"negative box", 1, domain.BoundingBox{X: -1, Width: 10, Height: 10}},
		{"box off page", 1, domain.BoundingBox{X: 900, Width: 200, Height: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Region(pages, tt.page, tt.box)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
