// Package pdfrender rasterizes diagram crops out of uploaded PDF documents.
package pdfrender

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"
)

var (
	// ErrNoDiagram marks a question whose bounding box is the all-zero
	// sentinel. It is a visible state of its own, distinct from a render
	// failure and from "still loading".
	ErrNoDiagram = errors.New("question has no diagram region")

	ErrPageOutOfRange = errors.New("page number out of range")
	ErrNotPDF         = errors.New("file is not a PDF document")
)

// IsPDF checks the magic number so invalid uploads are rejected before any
// processing begins.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

type pageKey struct {
	page  int
	scale float64
}

// Document wraps a loaded PDF and memoizes full-page rasters per
// (page, scale). The inline and lightbox views render at different base
// scales and therefore never share a raster.
type Document struct {
	mu     sync.Mutex
	fz     *fitz.Document
	pages  map[pageKey]image.Image
	count  int
	closed bool
}

// OpenDocument loads a PDF from raw bytes.
func OpenDocument(data []byte) (*Document, error) {
	if !IsPDF(data) {
		return nil, ErrNotPDF
	}

	fz, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF document: %w", err)
	}

	return &Document{
		fz:    fz,
		pages: make(map[pageKey]image.Image),
		count: fz.NumPage(),
	}, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.count
}

// PageImage renders the full page at the given scale (1.0 = 72 DPI) and
// memoizes the raster. pageNumber is 1-based, matching extraction output.
func (d *Document) PageImage(pageNumber int, scale float64) (image.Image, error) {
	if pageNumber < 1 || pageNumber > d.count {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, pageNumber, d.count)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, errors.New("document is closed")
	}

	key := pageKey{page: pageNumber, scale: scale}
	if img, ok := d.pages[key]; ok {
		return img, nil
	}

	// go-fitz pages are 0-based.
	img, err := d.fz.ImageDPI(pageNumber-1, 72*scale)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", pageNumber, err)
	}

	d.pages[key] = img
	return img, nil
}

// Close releases the underlying document and drops memoized rasters.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.pages = nil
	if d.fz == nil {
		return nil
	}
	return d.fz.Close()
}
