package pipeline

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const (
	stripeHalfWidth = 40
	stripeHeight    = 20
	// cushion keeps anti-aliased edge pixels on the foreground side.
	thresholdCushion = 5.0
	minAutoThreshold = 180
	maxAutoThreshold = 250
)

// EstimateThreshold returns the brightness at or above which a channel counts
// as backdrop. An override in [0,255] is returned as is; anything else selects
// the automatic estimate, which samples short stripes centred on the top and
// bottom edges and backs off a few levels from the darker of the two.
func EstimateThreshold(img image.Image, override int) (int, error) {
	if override >= 0 && override <= 255 {
		return override, nil
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cx := w / 2
	half := min(stripeHalfWidth, cx-1, w-cx-1)
	sh := min(stripeHeight, h/10)
	if half < 0 || sh <= 0 {
		return 0, fmt.Errorf("%w: %dx%d image too small to sample backdrop (stripe %dx%d)",
			ErrInvalidGeometry, w, h, 2*half+1, sh)
	}

	x0 := b.Min.X + cx - half
	x1 := b.Min.X + cx + half + 1
	top := meanLuma(imaging.Crop(img, image.Rect(x0, b.Min.Y, x1, b.Min.Y+sh)))
	bot := meanLuma(imaging.Crop(img, image.Rect(x0, b.Max.Y-sh, x1, b.Max.Y)))

	thr := int(min(top, bot) - thresholdCushion)
	return max(minAutoThreshold, min(thr, maxAutoThreshold)), nil
}

// meanLuma averages the rounded BT.601 luma of every pixel in img.
func meanLuma(img image.Image) float64 {
	gray := imaging.Grayscale(img)
	n := len(gray.Pix) / 4
	if n == 0 {
		return 0
	}
	var sum int
	for i := 0; i < len(gray.Pix); i += 4 {
		sum += int(gray.Pix[i])
	}
	return float64(sum) / float64(n)
}
