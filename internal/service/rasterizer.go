package service

import (
	"context"
	"fmt"
	"os"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"paper-extractor/internal/domain"
	apperrors "paper-extractor/pkg/errors"
)

// basePDFDPI is the resolution of a page rendered at scale 1.
const basePDFDPI = 72.0

// PDFRasterizer renders every page of a PDF to PNG with go-fitz.
type PDFRasterizer struct {
	scale    float64
	maxPages int
	logger   domain.Logger
}

// NewPDFRasterizer creates a rasterizer using the configured scale and page limit.
func NewPDFRasterizer(config domain.Config, logger domain.Logger) *PDFRasterizer {
	return &PDFRasterizer{
		scale:    config.GetRasterScale(),
		maxPages: config.GetMaxPages(),
		logger:   logger,
	}
}

// Rasterize returns one image per page in page order. A document that
// renders to zero pages is an error.
func (r *PDFRasterizer) Rasterize(ctx context.Context, path string) ([]domain.PageImage, error) {
	if err := r.checkPageLimit(path); err != nil {
		return nil, err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, apperrors.NewRasterizationError("Failed to convert PDF to images", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if n == 0 {
		return nil, apperrors.NewRasterizationError("Failed to convert PDF to images", domain.ErrNoPages)
	}
	if r.maxPages > 0 && n > r.maxPages {
		return nil, tooManyPages(n, r.maxPages)
	}

	dpi := basePDFDPI * r.scale
	images := make([]domain.PageImage, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewRasterizationError("Failed to convert PDF to images", err)
		}
		png, err := doc.ImagePNG(i, dpi)
		if err != nil {
			return nil, apperrors.NewRasterizationError(fmt.Sprintf("Failed to render page %d", i+1), err)
		}
		images = append(images, domain.PageImage{Number: i + 1, PNG: png})
	}

	r.logger.Debug("PDF rasterized", "pages", n, "dpi", dpi)
	return images, nil
}

// checkPageLimit counts pages with pdfcpu before any rendering work. A file
// pdfcpu cannot parse is left to the renderer.
func (r *PDFRasterizer) checkPageLimit(path string) error {
	if r.maxPages <= 0 {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		r.logger.Warn("Page count preflight skipped", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	count, err := api.PageCount(f, nil)
	if err != nil {
		r.logger.Warn("Page count preflight skipped", "path", path, "error", err)
		return nil
	}
	if count > r.maxPages {
		return tooManyPages(count, r.maxPages)
	}
	return nil
}

func tooManyPages(count, limit int) error {
	return apperrors.NewValidationError("PDF has too many pages", fmt.Sprintf("%d pages, limit is %d", count, limit))
}
