// Package geometry maps normalized diagram bounding boxes onto rendered
// page pixels.
package geometry

import (
	"github.com/prepdeck/mocktest-service/internal/models"
)

// NormalizedScale is the unit scale of extraction bounding boxes: every
// coordinate is a value in [0, 1000] interpreted as a fraction of the page
// dimension on that axis.
const NormalizedScale = 1000.0

// DefaultPadding is the symmetric expansion applied to a box before
// scaling, in normalized units. Extraction boxes tend to hug the diagram
// ink; without padding the crop clips axis labels and arrowheads.
const DefaultPadding = 20.0

// Rect is a pixel-space rectangle on a rendered page image.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MapBoundingBox converts a normalized [ymin, xmin, ymax, xmax] box into a
// pixel rectangle on a page rendered at pageWidth x pageHeight pixels.
//
// The box is expanded by padding normalized units on every side, scaled to
// pixels, then clamped so the rectangle stays inside the page. The second
// return value is false for the all-zero box, which means "no diagram" and
// is distinct from a very small diagram; callers must branch on it rather
// than checking for a zero-area rectangle.
//
// Out-of-range inputs are clamped, never rejected.
func MapBoundingBox(bbox models.BoundingBox, pageWidth, pageHeight, padding float64) (Rect, bool) {
	if bbox.IsZero() {
		return Rect{}, false
	}

	yMin := float64(bbox[0]) - padding
	xMin := float64(bbox[1]) - padding
	yMax := float64(bbox[2]) + padding
	xMax := float64(bbox[3]) + padding

	x := clamp(xMin/NormalizedScale*pageWidth, 0, pageWidth)
	y := clamp(yMin/NormalizedScale*pageHeight, 0, pageHeight)

	width := (xMax - xMin) / NormalizedScale * pageWidth
	height := (yMax - yMin) / NormalizedScale * pageHeight

	width = clamp(width, 0, pageWidth-x)
	height = clamp(height, 0, pageHeight-y)

	return Rect{X: x, Y: y, Width: width, Height: height}, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
