package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"github.com/disintegration/imaging"
)

// Fit scales canvas by a single factor so it fits inside w x h, then centres
// it on a w x h background of colour bg. The result is always exactly w x h.
func Fit(canvas image.Image, w, h int, bg color.Color) (*image.NRGBA, FitMode, error) {
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return nil, FitNone, fmt.Errorf("%w: fit target %dx%d outside 1-%d", ErrInvalidGeometry, w, h, MaxDimension)
	}
	cw, ch := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	if cw <= 0 || ch <= 0 {
		return nil, FitNone, fmt.Errorf("%w: empty canvas %dx%d", ErrInvalidGeometry, cw, ch)
	}

	newW, newH := fitDimensions(cw, ch, w, h)
	if newW < 1 || newH < 1 {
		return nil, FitNone, fmt.Errorf("%w: %dx%d scales to %dx%d inside %dx%d",
			ErrInvalidGeometry, cw, ch, newW, newH, w, h)
	}

	return place(canvas, newW, newH, w, h, bg)
}

// place resizes canvas to newW x newH and centres it on a w x h background.
// Content that would overflow the target is stretched to w x h instead.
func place(canvas image.Image, newW, newH, w, h int, bg color.Color) (*image.NRGBA, FitMode, error) {
	x := max(0, (w-newW)/2)
	y := max(0, (h-newH)/2)
	if x+newW > w || y+newH > h {
		log.Printf("fit: %dx%d does not fit %dx%d, stretching", newW, newH, w, h)
		return imaging.Resize(canvas, w, h, imaging.Lanczos), FitStretch, nil
	}

	resized := imaging.Resize(canvas, newW, newH, imaging.Lanczos)
	out := imaging.Paste(imaging.New(w, h, bg), resized, image.Pt(x, y))
	log.Printf("fit: %dx%d -> %dx%d at (%d,%d) in %dx%d", canvas.Bounds().Dx(), canvas.Bounds().Dy(), newW, newH, x, y, w, h)
	return out, FitLetterbox, nil
}

// fitDimensions scales (srcW, srcH) by min(w/srcW, h/srcH), rounding each side.
func fitDimensions(srcW, srcH, w, h int) (int, int) {
	scale := math.Min(float64(w)/float64(srcW), float64(h)/float64(srcH))
	newW := int(math.Round(float64(srcW) * scale))
	newH := int(math.Round(float64(srcH) * scale))
	return newW, newH
}
