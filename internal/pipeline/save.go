package pipeline

import (
	"fmt"
	"image"
	"io"

	"extendcanvas/internal/storage"
)

// Save encodes img in the format implied by path's extension and writes it
// atomically. Nothing is left at path when encoding or writing fails.
func Save(img image.Image, path string, quality int) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeFailure, err)
	}
	err = storage.AtomicWrite(path, func(w io.Writer) error {
		return Encode(img, w, format, quality)
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncodeFailure, path, err)
	}
	return nil
}
