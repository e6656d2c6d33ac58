package pipeline

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// orientations maps EXIF orientation values 2-8 to the transform that brings
// the stored pixels upright. 1 and unknown values need nothing.
var orientations = map[int]func(image.Image) *image.NRGBA{
	2: imaging.FlipH,
	3: imaging.Rotate180,
	4: imaging.FlipV,
	5: imaging.Transpose,
	6: imaging.Rotate270,
	7: imaging.Transverse,
	8: imaging.Rotate90,
}

// ApplyEXIFOrientation rewinds r, reads its EXIF orientation tag and returns
// img turned upright. Missing or unreadable EXIF leaves img untouched; only a
// failed seek is reported.
func ApplyEXIFOrientation(img image.Image, r io.ReadSeeker) (image.Image, error) {
	if r == nil {
		return img, nil
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return img, err
	}
	return orientationTransform(img, readOrientation(r)), nil
}

func readOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

func orientationTransform(img image.Image, orientation int) image.Image {
	if fn, ok := orientations[orientation]; ok {
		return fn(img)
	}
	return img
}
