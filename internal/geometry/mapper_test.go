package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/mocktest-service/internal/models"
)

func TestMapBoundingBox_ZeroBoxMeansNoDiagram(t *testing.T) {
	dims := [][2]float64{
		{100, 100},
		{2000, 2828},
		{1, 1},
		{0, 0},
	}

	for _, d := range dims {
		_, ok := MapBoundingBox(models.BoundingBox{}, d[0], d[1], DefaultPadding)
		assert.False(t, ok, "all-zero box must report no diagram for page %vx%v", d[0], d[1])
	}
}

func TestMapBoundingBox_ReferenceArithmetic(t *testing.T) {
	// bbox [100,100,300,400] on a 2000x2828 page with padding 20.
	rect, ok := MapBoundingBox(models.BoundingBox{100, 100, 300, 400}, 2000, 2828, 20)
	require.True(t, ok)

	assert.InDelta(t, 160.0, rect.X, 1e-9)
	assert.InDelta(t, 226.24, rect.Y, 1e-9)
	assert.InDelta(t, 680.0, rect.Width, 1e-9)
	assert.InDelta(t, 678.72, rect.Height, 1e-9)
}

func TestMapBoundingBox_ClampsToPageBounds(t *testing.T) {
	boxes := []models.BoundingBox{
		{0, 0, 1000, 1000},
		{980, 980, 1000, 1000},
		{0, 0, 10, 10},
		{500, 900, 600, 1000},
		{-50, -50, 2000, 2000}, // out of range inputs are clamped, not rejected
	}

	for _, bbox := range boxes {
		for _, padding := range []float64{0, 20, 100} {
			rect, ok := MapBoundingBox(bbox, 1600, 2263, padding)
			require.True(t, ok)

			assert.GreaterOrEqual(t, rect.X, 0.0)
			assert.GreaterOrEqual(t, rect.Y, 0.0)
			assert.LessOrEqual(t, rect.X+rect.Width, 1600.0, "bbox %v padding %v", bbox, padding)
			assert.LessOrEqual(t, rect.Y+rect.Height, 2263.0, "bbox %v padding %v", bbox, padding)
		}
	}
}

func TestMapBoundingBox_PaddingExpandsCrop(t *testing.T) {
	bbox := models.BoundingBox{400, 400, 600, 600}

	tight, ok := MapBoundingBox(bbox, 1000, 1000, 0)
	require.True(t, ok)
	padded, ok := MapBoundingBox(bbox, 1000, 1000, 20)
	require.True(t, ok)

	assert.Less(t, padded.X, tight.X)
	assert.Less(t, padded.Y, tight.Y)
	assert.Greater(t, padded.Width, tight.Width)
	assert.Greater(t, padded.Height, tight.Height)
}

func TestMapBoundingBox_TinyBoxIsStillADiagram(t *testing.T) {
	// A degenerate-but-nonzero box is a very small diagram, not the
	// "no diagram" sentinel.
	rect, ok := MapBoundingBox(models.BoundingBox{1, 1, 1, 1}, 1000, 1000, 0)
	assert.True(t, ok)
	assert.Equal(t, 0.0, rect.Width)
	assert.Equal(t, 0.0, rect.Height)
}
