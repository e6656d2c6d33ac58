package pipeline

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	webp "github.com/chai2010/webp"
	"github.com/gen2brain/avif"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"extendcanvas/internal/testutil"
)

func encodeJPEG(w io.Writer) error {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 80})
}

func encodePNG(w io.Writer) error {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	return png.Encode(w, img)
}

func TestValidateAndDecodeJPEG(t *testing.T) {
	var b bytes.Buffer
	if err := encodeJPEG(&b); err != nil {
		t.Fatal(err)
	}
	img, ct, err := ValidateAndDecode(&b, 1<<20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img == nil {
		t.Fatalf("expected image, got nil")
	}
	if ct != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %s", ct)
	}
}

func TestValidateAndDecodePNG(t *testing.T) {
	var b bytes.Buffer
	if err := encodePNG(&b); err != nil {
		t.Fatal(err)
	}
	img, _, err := ValidateAndDecode(&b, 1<<20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img == nil {
		t.Fatalf("expected image, got nil")
	}
}

func TestValidateAndDecodeOtherFormats(t *testing.T) {
	src := testutil.StudioShot(16, 16, 4, 11)
	tests := []struct {
		name   string
		ct     string
		encode func(io.Writer) error
	}{
		{name: "webp", ct: "image/webp", encode: func(w io.Writer) error {
			return webp.Encode(w, src, &webp.Options{Lossless: true})
		}},
		{name: "avif", ct: "image/avif", encode: func(w io.Writer) error {
			return avif.Encode(w, src, avif.Options{Quality: 60, Speed: 6})
		}},
		{name: "bmp", ct: "image/bmp", encode: func(w io.Writer) error {
			return bmp.Encode(w, src)
		}},
		{name: "tiff", ct: "image/tiff", encode: func(w io.Writer) error {
			return tiff.Encode(w, src, nil)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b bytes.Buffer
			if err := tt.encode(&b); err != nil {
				t.Fatalf("encode %s: %v", tt.name, err)
			}
			decoded, ct, err := ValidateAndDecode(bytes.NewReader(b.Bytes()), 1<<20)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ct != tt.ct {
				t.Fatalf("expected %s, got %s", tt.ct, ct)
			}
			if decoded.Bounds().Dx() != 16 || decoded.Bounds().Dy() != 16 {
				t.Fatalf("expected 16x16, got %v", decoded.Bounds())
			}
		})
	}
}

func TestRejectText(t *testing.T) {
	b := bytes.NewBufferString("this is not an image")
	_, _, err := ValidateAndDecode(b, 1024)
	if err != ErrNotAnImage {
		t.Fatalf("expected ErrNotAnImage, got %v", err)
	}
}

func TestRejectTooLarge(t *testing.T) {
	// create a reader larger than limit
	data := make([]byte, 1024*10)
	for i := range data {
		data[i] = 'a'
	}
	_, _, err := ValidateAndDecode(bytes.NewReader(data), 1024)
	if err != ErrTooLarge {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestRejectInvalidDimensions(t *testing.T) {
	// create a very wide image
	img := image.NewRGBA(image.Rect(0, 0, MaxDimension+1, 1))
	var b bytes.Buffer
	if err := jpeg.Encode(&b, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatal(err)
	}
	_, _, err := ValidateAndDecode(&b, 1<<20)
	if err != ErrInvalidDimensions {
		t.Fatalf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "notes.png")
	if err := os.WriteFile(textPath, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(filepath.Join(dir, "missing.png"), 1<<20, true)
	if !errors.Is(err, ErrDecodeFailure) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrDecodeFailure wrapping not-exist, got %v", err)
	}

	_, err = Load(textPath, 1<<20, true)
	if !errors.Is(err, ErrDecodeFailure) || !errors.Is(err, ErrNotAnImage) {
		t.Fatalf("expected ErrDecodeFailure wrapping ErrNotAnImage, got %v", err)
	}
}

func TestLoad_PNG(t *testing.T) {
	path := testutil.WritePNG(t, t.TempDir(), "shot.png", testutil.StudioShot(40, 80, 30, 50))
	img, err := Load(path, 1<<20, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 80 {
		t.Fatalf("expected 40x80, got %v", img.Bounds())
	}
}
