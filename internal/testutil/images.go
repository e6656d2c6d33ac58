package testutil

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

var (
	// Backdrop is the light studio wall used by StudioShot.
	Backdrop = color.NRGBA{R: 250, G: 250, B: 250, A: 255}
	// Subject is the dark band standing in for the photographed object.
	Subject = color.NRGBA{R: 50, G: 50, B: 50, A: 255}
)

// Solid returns a w x h image filled with c.
func Solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	FillRect(img, img.Rect, c)
	return img
}

// FillRect paints r (clipped to img) with c.
func FillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
}

// StudioShot returns a w x h backdrop with a full-width subject band covering
// rows top through bottom inclusive.
func StudioShot(w, h, top, bottom int) *image.NRGBA {
	img := Solid(w, h, Backdrop)
	FillRect(img, image.Rect(0, top, w, bottom+1), Subject)
	return img
}

// GradientShot is like StudioShot but the backdrop brightens from 200 at the
// top to 255 at the bottom, so resampled filler can be told apart from a
// flat fill.
func GradientShot(w, h, top, bottom int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		v := uint8(200 + (55*y)/max(1, h-1))
		FillRect(img, image.Rect(0, y, w, y+1), color.NRGBA{R: v, G: v, B: v, A: 255})
	}
	FillRect(img, image.Rect(0, top, w, bottom+1), Subject)
	return img
}

// WritePNG saves img under dir and returns the path.
func WritePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return path
}

// WriteJPEG saves img under dir as a JPEG and returns the path.
func WriteJPEG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return path
}
