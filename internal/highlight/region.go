package highlight

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"paper-extractor/internal/domain"
)

// PageSize is the rendered size of one page in pixels.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageSizes reads the pixel size of each base64 PNG page image.
func PageSizes(images []string) ([]PageSize, error) {
	sizes := make([]PageSize, 0, len(images))
	for i, img := range images {
		data, err := base64.StdEncoding.DecodeString(img)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		sizes = append(sizes, PageSize{Width: float64(cfg.Width), Height: float64(cfg.Height)})
	}
	return sizes, nil
}

// Region maps a normalized box on page (1-indexed) to pixels in a view where
// the pages are stacked top to bottom.
func Region(pages []PageSize, page int, box domain.BoundingBox) (domain.PixelRect, error) {
	if page < 1 || page > len(pages) {
		return domain.PixelRect{}, &domain.ValidationError{
			Field:   "page",
			Message: fmt.Sprintf("page %d out of range 1-%d", page, len(pages)),
		}
	}
	if err := box.Validate(); err != nil {
		return domain.PixelRect{}, err
	}

	size := pages[page-1]
	rect := box.ToPixels(size.Width, size.Height)

	heights := make([]float64, len(pages))
	for i, p := range pages {
		heights[i] = p.Height
	}
	rect.Y += domain.PageOffset(heights, page)
	return rect, nil
}
