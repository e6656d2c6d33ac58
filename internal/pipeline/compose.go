package pipeline

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
)

// Compose produces a canvas exactly desiredH rows tall and as wide as img.
//
// The foreground span is first grown by padding*span.Height() rows on each
// side, clamped to the image. If that region is at least desiredH tall it is
// centre-cropped; otherwise the missing rows are split between a top and a
// bottom strip synthesized from the backdrop above and below the region.
func Compose(img image.Image, span RowSpan, padding float64, desiredH int) (*image.NRGBA, Layout, error) {
	src := asNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	if desiredH <= 0 || desiredH > MaxDimension {
		return nil, Layout{}, fmt.Errorf("%w: desired height %d outside 1-%d", ErrInvalidGeometry, desiredH, MaxDimension)
	}
	if padding < 0 || math.IsNaN(padding) || math.IsInf(padding, 0) {
		return nil, Layout{}, fmt.Errorf("%w: padding %v", ErrInvalidGeometry, padding)
	}
	if span.Top < 0 || span.Bottom >= h || span.Top > span.Bottom {
		return nil, Layout{}, fmt.Errorf("%w: span [%d,%d] outside %d rows", ErrInvalidGeometry, span.Top, span.Bottom, h)
	}

	pad := int(math.Round(padding * float64(span.Height())))
	region := image.Rect(0, max(0, span.Top-pad), w, min(h-1, span.Bottom+pad)+1)
	layout := Layout{Region: region, Pad: pad}

	if desiredH <= region.Dy() {
		// odd leftovers come off the bottom
		yOff := (region.Dy() - desiredH) / 2
		layout.Mode = ModeCrop
		y0 := region.Min.Y + yOff
		return imaging.Crop(src, image.Rect(0, y0, w, y0+desiredH)), layout, nil
	}

	extra := desiredH - region.Dy()
	layout.Mode = ModeExtend
	layout.TopFill = extra / 2
	layout.BottomFill = extra - layout.TopFill

	var above, below image.Image
	if region.Min.Y > 0 {
		above = src.SubImage(image.Rect(0, 0, w, region.Min.Y))
	}
	if region.Max.Y < h {
		below = src.SubImage(image.Rect(0, region.Max.Y, w, h))
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, w, desiredH))
	y := 0
	if strip := SynthesizeFiller(above, layout.TopFill, w); strip != nil {
		y = stack(canvas, strip, y)
	}
	y = stack(canvas, src.SubImage(region), y)
	if strip := SynthesizeFiller(below, layout.BottomFill, w); strip != nil {
		y = stack(canvas, strip, y)
	}
	if y != desiredH {
		return nil, Layout{}, fmt.Errorf("%w: stacked %d rows, want %d", ErrInvalidGeometry, y, desiredH)
	}
	return canvas, layout, nil
}

// stack copies part below the rows already filled and returns the next free row.
func stack(canvas *image.NRGBA, part image.Image, y int) int {
	pb := part.Bounds()
	draw.Draw(canvas, image.Rect(0, y, pb.Dx(), y+pb.Dy()), part, pb.Min, draw.Src)
	return y + pb.Dy()
}
