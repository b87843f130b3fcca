package pdfrender

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"

	"github.com/prepdeck/mocktest-service/internal/geometry"
	"github.com/prepdeck/mocktest-service/internal/models"
	"github.com/prepdeck/mocktest-service/internal/utils"
)

// EncodedCrop is a rendered diagram crop, PNG-encoded for transport.
type EncodedCrop struct {
	PNG    []byte
	Width  int
	Height int
}

// Renderer produces diagram crops from loaded documents. Stateless apart
// from its logger; rendering is idempotent and may be re-invoked on every
// navigation or zoom-view change.
type Renderer struct {
	logger utils.Logger
}

func NewRenderer(logger utils.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// RenderCrop rasterizes only the page content inside the mapped bounding
// box at the given base scale. The output raster is the crop itself: the
// draw pass translates the page so the crop's top-left lands at (0,0),
// keeping memory proportional to diagram size rather than page size.
//
// Returns ErrNoDiagram for the all-zero bounding box.
func (r *Renderer) RenderCrop(doc *Document, pageNumber int, bbox models.BoundingBox, scale float64) (*image.RGBA, error) {
	if bbox.IsZero() {
		return nil, ErrNoDiagram
	}

	page, err := doc.PageImage(pageNumber, scale)
	if err != nil {
		return nil, err
	}

	bounds := page.Bounds()
	rect, ok := geometry.MapBoundingBox(bbox,
		float64(bounds.Dx()), float64(bounds.Dy()), geometry.DefaultPadding)
	if !ok {
		return nil, ErrNoDiagram
	}

	w := int(math.Ceil(rect.Width))
	h := int(math.Ceil(rect.Height))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	crop := image.NewRGBA(image.Rect(0, 0, w, h))
	origin := image.Pt(bounds.Min.X+int(math.Round(rect.X)), bounds.Min.Y+int(math.Round(rect.Y)))
	draw.Draw(crop, crop.Bounds(), page, origin, draw.Src)

	return crop, nil
}

// RenderCropPNG renders a crop and PNG-encodes it.
func (r *Renderer) RenderCropPNG(doc *Document, pageNumber int, bbox models.BoundingBox, scale float64) (*EncodedCrop, error) {
	crop, err := r.RenderCrop(doc, pageNumber, bbox, scale)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, crop); err != nil {
		return nil, fmt.Errorf("failed to encode crop: %w", err)
	}

	size := crop.Bounds().Size()
	return &EncodedCrop{PNG: buf.Bytes(), Width: size.X, Height: size.Y}, nil
}
