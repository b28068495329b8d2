package domain

import "fmt"

// BoundingBoxScale is the fixed extent of normalized coordinates on both axes.
const BoundingBoxScale = 1000

// BoundingBox is a page region on the 0-1000 normalized scale.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PixelRect is a region in rendered page pixels.
type PixelRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate checks that the box lies inside the normalized page.
func (b BoundingBox) Validate() error {
	if b.X < 0 || b.Y < 0 || b.Width < 0 || b.Height < 0 {
		return &ValidationError{Field: "bounding_box", Message: "coordinates cannot be negative"}
	}
	if b.X+b.Width > BoundingBoxScale || b.Y+b.Height > BoundingBoxScale {
		return &ValidationError{
			Field:   "bounding_box",
			Message: fmt.Sprintf("box exceeds the %d scale", BoundingBoxScale),
		}
	}
	return nil
}

// ToPixels scales the box to a page rendered at width x height pixels.
func (b BoundingBox) ToPixels(width, height float64) PixelRect {
	return PixelRect{
		X:      b.X / BoundingBoxScale * width,
		Y:      b.Y / BoundingBoxScale * height,
		Width:  b.Width / BoundingBoxScale * width,
		Height: b.Height / BoundingBoxScale * height,
	}
}

// PageOffset returns the vertical offset of page pageNum (1-indexed) when pages
// of the given heights are stacked top to bottom.
func PageOffset(heights []float64, pageNum int) float64 {
	var offset float64
	for i := 0; i < pageNum-1 && i < len(heights); i++ {
		offset += heights[i]
	}
	return offset
}
