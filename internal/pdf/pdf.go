// Package pdf provides page-addressable access to PDF documents: embedded
// text extraction and page rasterization for the OCR fallback path.
package pdf

import (
	"bytes"
	"fmt"
	"image/png"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// rasterDPI renders pages at twice the PDF's native 72 DPI. 2x keeps OCR
// accuracy acceptable without excessive memory or render time.
const rasterDPI = 144

// Validate runs a relaxed structural validation over the PDF buffer. It
// rejects corrupt files before any page-level work starts.
func Validate(data []byte) error {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(data), cfg); err != nil {
		return fmt.Errorf("invalid PDF: %w", err)
	}
	return nil
}

// Document wraps an open MuPDF document. Not safe for concurrent use; one
// extraction request owns one Document.
type Document struct {
	doc *fitz.Document
}

// Open parses a PDF buffer into a page-addressable document.
func Open(data []byte) (*Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &Document{doc: doc}, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.doc.NumPage()
}

// PageText returns the embedded text layer of a page. Pages are 1-based.
func (d *Document) PageText(pageNumber int) (string, error) {
	text, err := d.doc.Text(pageNumber - 1)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", pageNumber, err)
	}
	return text, nil
}

// Rasterize renders a page to a PNG buffer at 2x scale. Pages are 1-based.
func (d *Document) Rasterize(pageNumber int) ([]byte, error) {
	img, err := d.doc.ImageDPI(pageNumber-1, rasterDPI)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", pageNumber, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode page %d as PNG: %w", pageNumber, err)
	}
	return buf.Bytes(), nil
}

// Close releases the MuPDF document.
func (d *Document) Close() error {
	return d.doc.Close()
}
