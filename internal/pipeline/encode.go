package pipeline

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"path/filepath"
	"strings"

	webp "github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
)

// DefaultQuality is used for lossy JPEG and WebP output.
const DefaultQuality = 95

// DefaultAVIFQuality is the standard quality used for AVIF encoding.
const DefaultAVIFQuality = 60

// DefaultAVIFSpeed is the standard speed used for AVIF encoding.
const DefaultAVIFSpeed = 6

// Format identifies an output encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
	FormatAVIF Format = "avif"
)

var imagingFormats = map[Format]imaging.Format{
	FormatJPEG: imaging.JPEG,
	FormatPNG:  imaging.PNG,
	FormatGIF:  imaging.GIF,
	FormatBMP:  imaging.BMP,
	FormatTIFF: imaging.TIFF,
}

// FormatFromPath picks the output format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "png", "gif", "bmp", "webp", "avif":
		return Format(ext), nil
	default:
		return "", fmt.Errorf("unsupported output extension %q", filepath.Ext(path))
	}
}

// Encode writes img to w in the given format. quality applies to JPEG, WebP
// and AVIF and is clamped to 1-100; AVIF treats a non-positive quality as
// DefaultAVIFQuality.
func Encode(img image.Image, w io.Writer, format Format, quality int) error {
	if img == nil {
		return errors.New("nil image")
	}
	if w == nil {
		return errors.New("nil writer")
	}
	if format == FormatAVIF && quality <= 0 {
		quality = DefaultAVIFQuality
	}
	quality = max(1, min(quality, 100))

	c := &countingWriter{w: w}
	var err error
	switch format {
	case FormatWebP:
		err = webp.Encode(c, img, &webp.Options{Quality: float32(quality)})
	case FormatAVIF:
		err = avif.Encode(c, img, avif.Options{Quality: quality, QualityAlpha: quality, Speed: DefaultAVIFSpeed})
	default:
		f, ok := imagingFormats[format]
		if !ok {
			return fmt.Errorf("unsupported format %q", format)
		}
		err = imaging.Encode(c, img, f, imaging.JPEGQuality(quality))
	}
	if err != nil {
		return err
	}
	log.Printf("%s encoded size=%d quality=%d", format, c.n, quality)
	return nil
}

// countingWriter wraps an io.Writer and counts bytes written.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	m, err := c.w.Write(p)
	c.n += int64(m)
	return m, err
}
