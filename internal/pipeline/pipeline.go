package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/disintegration/imaging"
)

// Options controls a single run.
type Options struct {
	// DesiredHeight is the canvas height before any fit. Required.
	DesiredHeight int
	// Padding around the detected subject as a fraction of its height.
	Padding float64
	// Threshold in [0,255] overrides detection; AutoThreshold (or any other
	// out-of-range value) estimates it.
	Threshold int
	// Width and Height request a final letterboxed fit. Both must be positive.
	Width  int
	Height int
	// Background fills the letterbox bars. Nil means white.
	Background color.Color

	// File handling, used by ProcessFile only.
	Quality    int
	MaxBytes   int64
	EXIFOrient bool
}

// DefaultOptions returns options with every optional knob at its default.
func DefaultOptions(desiredHeight int) Options {
	return Options{
		DesiredHeight: desiredHeight,
		Padding:       DefaultPadding,
		Threshold:     AutoThreshold,
		Background:    color.White,
		Quality:       DefaultQuality,
		MaxBytes:      DefaultMaxBytes,
		EXIFOrient:    true,
	}
}

// FitEnabled reports whether a final fit into Width x Height was requested.
func (o Options) FitEnabled() bool {
	return o.Width > 0 && o.Height > 0
}

// Process runs detection, composition and the optional fit on an in-memory
// image. img itself is not modified.
func Process(img image.Image, opts Options) (*image.NRGBA, *Report, error) {
	if img == nil {
		return nil, nil, fmt.Errorf("%w: nil image", ErrInvalidGeometry)
	}
	src := imaging.Clone(img)

	thr, err := EstimateThreshold(src, opts.Threshold)
	if err != nil {
		return nil, nil, fmt.Errorf("estimate threshold: %w", err)
	}
	span, err := LocateForeground(src, thr)
	if err != nil {
		return nil, nil, fmt.Errorf("locate foreground: %w", err)
	}
	canvas, layout, err := Compose(src, span, opts.Padding, opts.DesiredHeight)
	if err != nil {
		return nil, nil, fmt.Errorf("compose: %w", err)
	}

	report := &Report{
		Threshold: thr,
		Span:      span,
		Layout:    layout,
		Canvas:    canvas.Rect.Size(),
		Fit:       FitNone,
	}
	log.Printf("thr=%d span=[%d,%d] region=[%d,%d) mode=%s fill=%d/%d",
		thr, span.Top, span.Bottom, layout.Region.Min.Y, layout.Region.Max.Y,
		layout.Mode, layout.TopFill, layout.BottomFill)

	out := canvas
	if opts.FitEnabled() {
		bg := opts.Background
		if bg == nil {
			bg = color.White
		}
		out, report.Fit, err = Fit(canvas, opts.Width, opts.Height, bg)
		if err != nil {
			return nil, nil, fmt.Errorf("fit: %w", err)
		}
	}
	report.Output = out.Rect.Size()
	return out, report, nil
}

// ProcessFile loads inPath, processes it and writes the result to outPath.
// outPath is only created when every stage succeeds.
func ProcessFile(ctx context.Context, inPath, outPath string, opts Options) (*Report, error) {
	if _, err := FormatFromPath(outPath); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeFailure, err)
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	img, err := Load(inPath, maxBytes, opts.EXIFOrient)
	if err != nil {
		return nil, err
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	out, report, err := Process(img, opts)
	if err != nil {
		return nil, err
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	quality := opts.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}
	if err := Save(out, outPath, quality); err != nil {
		return nil, err
	}
	return report, nil
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
