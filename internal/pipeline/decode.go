package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	webp "github.com/chai2010/webp"
	"github.com/gen2brain/avif"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DetectFormat returns the MIME type of an encoded image held in data.
// Formats net/http does not sniff (AVIF, TIFF) are recognised by magic.
func DetectFormat(data []byte) string {
	switch {
	case len(data) >= 12 && string(data[4:8]) == "ftyp" &&
		(string(data[8:12]) == "avif" || string(data[8:12]) == "avis"):
		return "image/avif"
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return "image/tiff"
	}
	return http.DetectContentType(data)
}

// ValidateAndDecode reads up to maxBytes from r, checks content type, decodes to image.Image
// and validates dimensions (MaxDimension).
func ValidateAndDecode(r io.Reader, maxBytes int64) (image.Image, string, error) {
	// read up to maxBytes+1 to detect overflow
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > maxBytes {
		return nil, "", ErrTooLarge
	}

	ct := DetectFormat(data)
	rd := bytes.NewReader(data)

	var img image.Image
	var decodeErr error

	switch {
	case strings.HasPrefix(ct, "image/jpeg"):
		img, decodeErr = jpeg.Decode(rd)
	case strings.HasPrefix(ct, "image/png"):
		img, decodeErr = png.Decode(rd)
	case strings.HasPrefix(ct, "image/gif"):
		img, decodeErr = gif.Decode(rd)
	case strings.HasPrefix(ct, "image/webp"):
		img, decodeErr = webp.Decode(rd)
	case strings.HasPrefix(ct, "image/avif"):
		img, decodeErr = avif.Decode(rd)
	case strings.HasPrefix(ct, "image/bmp"):
		img, decodeErr = bmp.Decode(rd)
	case strings.HasPrefix(ct, "image/tiff"):
		img, decodeErr = tiff.Decode(rd)
	default:
		return nil, ct, ErrNotAnImage
	}
	if decodeErr != nil {
		return nil, ct, decodeErr
	}

	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return nil, ct, ErrInvalidDimensions
	}

	return img, ct, nil
}

// Load opens path and decodes it, applying EXIF orientation when orient is set.
// Every failure is reported as ErrDecodeFailure.
func Load(path string, maxBytes int64, orient bool) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	defer f.Close()

	img, ct, err := ValidateAndDecode(f, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailure, path, err)
	}

	if orient && strings.HasPrefix(ct, "image/jpeg") {
		img = orientUpright(img, f, path)
	}
	return img, nil
}

// orientUpright applies the EXIF orientation of r to img. A reader that
// cannot be rewound keeps the stored orientation and is logged.
func orientUpright(img image.Image, r io.ReadSeeker, name string) image.Image {
	out, err := ApplyEXIFOrientation(img, r)
	if err != nil {
		log.Printf("orient: %s: %v, keeping stored orientation", name, err)
		return img
	}
	return out
}
