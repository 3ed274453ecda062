// Package layoutpdf renders the layout analysis of an hOCR document as a
// debug PDF.
//
// Every page gets one optional content layer per element kind: blocks and
// tables, paragraphs with their indentation, orientation and font size,
// lines with their baselines, and the recognized words. Layers can be
// toggled in compatible PDF viewers. Paragraphs whose layout was
// extrapolated from their column are drawn in a separate color and their
// label is marked with a star.
//
// The overlay is drawn either over the page scans (PNG, JPEG, GIF or TIFF) or
// over the pages of an existing PDF, or on blank pages when neither is given.
//
// Main Functions:
//
// - Render: Draws the overlay, optionally over page images
// - RenderOverPDF: Draws the overlay over the pages of an existing PDF
package layoutpdf

import (
	"bytes"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"github.com/pkg/errors"

	"github.com/gardar/hocrlayout/pkg/hocr"
)

// Render draws the layout overlay of doc. images holds one scan per page and
// may be shorter than the page list or contain nil entries; those pages are
// rendered blank.
func Render(doc *hocr.HOCR, images [][]byte, cfg Config) ([]byte, error) {
	if err := validate(doc, cfg); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	for i := cfg.StartPage - 1; i < len(doc.Pages); i++ {
		page := doc.Pages[i]
		w, h, scale := pageSize(page, cfg)
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

		if i < len(images) && len(images[i]) > 0 {
			imageType, data, err := prepareImage(images[i])
			if err != nil {
				return nil, errors.Wrapf(err, "image %d has invalid format", i+1)
			}
			name := fmt.Sprintf("img%d", i)
			opts := fpdf.ImageOptions{ReadDpi: false, ImageType: imageType}
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
			pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
		}

		if err := drawPage(pdf, page, i+1, scale, cfg); err != nil {
			return nil, err
		}
	}
	return output(pdf)
}

// RenderOverPDF draws the layout overlay of doc over the pages of an existing
// PDF. Page StartPage of the hOCR document is drawn over the first PDF page.
func RenderOverPDF(doc *hocr.HOCR, pdfData []byte, cfg Config) (out []byte, err error) {
	if err := validate(doc, cfg); err != nil {
		return nil, err
	}
	if len(pdfData) == 0 {
		return nil, errors.New("input PDF data is empty")
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("failed to import PDF: %v", r)
		}
	}()

	pdf := fpdf.New("P", "pt", "A4", "")
	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(pdfData))

	for i := cfg.StartPage - 1; i < len(doc.Pages); i++ {
		page := doc.Pages[i]
		w, h, scale := pageSize(page, cfg)
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

		tpl := importer.ImportPageFromStream(pdf, &rs, i-cfg.StartPage+2, "/MediaBox")
		importer.UseImportedTemplate(pdf, tpl, 0, 0, w, h)

		if err := drawPage(pdf, page, i+1, scale, cfg); err != nil {
			return nil, err
		}
	}
	return output(pdf)
}

func validate(doc *hocr.HOCR, cfg Config) error {
	if doc == nil {
		return errors.New("HOCR document is nil")
	}
	if len(doc.Pages) == 0 {
		return errors.New("HOCR data contains no pages")
	}
	if cfg.StartPage < 1 {
		return errors.Errorf("start page must be at least 1, got %d", cfg.StartPage)
	}
	if cfg.StartPage > len(doc.Pages) {
		return errors.Errorf("start page %d is beyond the last page %d", cfg.StartPage, len(doc.Pages))
	}
	return nil
}

// pageSize returns the PDF page size in points and the factor converting
// hOCR pixels to points.
func pageSize(page hocr.Page, cfg Config) (w, h, scale float64) {
	dpi := page.ScanRes
	if dpi <= 0 {
		dpi = cfg.DPI
	}
	if dpi <= 0 {
		dpi = hocr.DefaultDPI
	}
	scale = 72 / float64(dpi)
	return page.BBox.X2 * scale, page.BBox.Y2 * scale, scale
}

func drawPage(pdf *fpdf.Fpdf, page hocr.Page, num int, scale float64, cfg Config) error {
	r := &pageRenderer{pdf: pdf, cfg: cfg, page: page, num: num, scale: scale}
	r.draw()
	if r.encErr > 0 {
		cfg.logger().WithField("page", num).Warnf("character encoding issues in %d of %d words", r.encErr, r.words)
	}
	if err := pdf.Error(); err != nil {
		return errors.Wrapf(err, "failed to draw page %d", num)
	}
	return nil
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to generate PDF")
	}
	return buf.Bytes(), nil
}
