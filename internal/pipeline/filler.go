package pipeline

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// fillerWhite is used when there is no backdrop left to sample on a side.
var fillerWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// SynthesizeFiller builds a width x height strip for extending the canvas.
// A non-empty src is area-resampled to size so the backdrop texture and
// lighting carry over; a nil or empty src yields plain white. A non-positive
// height yields no strip at all.
func SynthesizeFiller(src image.Image, height, width int) *image.NRGBA {
	if height <= 0 || width <= 0 {
		return nil
	}
	if src == nil || src.Bounds().Empty() {
		return imaging.New(width, height, fillerWhite)
	}
	// Box is imaging's area-averaging filter.
	return imaging.Resize(src, width, height, imaging.Box)
}
