package pipeline

import (
	"fmt"
	"image"
	"slices"

	"github.com/disintegration/imaging"
)

// LocateForeground returns the first and last rows holding at least one pixel
// with a channel below thr.
func LocateForeground(img image.Image, thr int) (RowSpan, error) {
	src := asNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	rows := reduceRows(foregroundMask(src, thr), w, h)
	top := slices.Index(rows, true)
	if top < 0 {
		return RowSpan{}, fmt.Errorf("%w: no pixel below threshold %d", ErrForegroundNotFound, thr)
	}
	bottom := top
	for y := h - 1; y > top; y-- {
		if rows[y] {
			bottom = y
			break
		}
	}
	return RowSpan{Top: top, Bottom: bottom}, nil
}

// foregroundMask marks every pixel that is not within [thr,255] on all of
// R, G and B. The mask is laid out row-major, w*h entries.
func foregroundMask(src *image.NRGBA, thr int) []bool {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	t := uint8(max(0, min(thr, 255)))
	mask := make([]bool, 0, w*h)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			mask = append(mask, row[i] < t || row[i+1] < t || row[i+2] < t)
		}
	}
	return mask
}

// reduceRows collapses a row-major mask to one flag per row: any pixel set.
func reduceRows(mask []bool, w, h int) []bool {
	rows := make([]bool, h)
	for y := 0; y < h; y++ {
		rows[y] = slices.Contains(mask[y*w:(y+1)*w], true)
	}
	return rows
}

// asNRGBA returns img as an NRGBA buffer anchored at the origin, copying only
// when it is not one already.
func asNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}
