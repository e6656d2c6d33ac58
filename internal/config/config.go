package config

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"extendcanvas/internal/pipeline"
)

// Usage is the positional form accepted after any flags.
const Usage = "extendcanvas [flags] <in> <out> <desired_h> [pad] [white_thresh|-1] [requested_w] [requested_h]"

type Config struct {
	Input         string
	Output        string
	DesiredHeight int
	Padding       float64
	Threshold     int
	Width         int
	Height        int
	Background    color.NRGBA
	Quality       int
	MaxBytes      int64
	EXIF          bool
	Verbose       bool
}

// Default returns a Config with every optional setting at its default.
func Default() *Config {
	return &Config{
		Padding:    pipeline.DefaultPadding,
		Threshold:  pipeline.AutoThreshold,
		Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Quality:    pipeline.DefaultQuality,
		MaxBytes:   pipeline.DefaultMaxBytes,
		EXIF:       true,
	}
}

// Parse reads flags and positional arguments from args (without the program
// name). Positional optional values take precedence over their flags.
// Help output and flag errors are written to output.
func Parse(args []string, output io.Writer) (*Config, error) {
	cfg := Default()
	bg := "white"

	fs := flag.NewFlagSet("extendcanvas", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s\n", Usage)
		fs.PrintDefaults()
	}
	fs.Float64Var(&cfg.Padding, "pad", cfg.Padding, "padding around the subject as a fraction of its height")
	fs.IntVar(&cfg.Threshold, "threshold", cfg.Threshold, "backdrop threshold 0-255, -1 for auto")
	fs.IntVar(&cfg.Width, "width", 0, "final output width (needs -height)")
	fs.IntVar(&cfg.Height, "height", 0, "final output height (needs -width)")
	fs.StringVar(&bg, "bg", bg, "letterbox colour: white, black or RRGGBB")
	fs.IntVar(&cfg.Quality, "quality", cfg.Quality, "JPEG/WebP/AVIF quality 1-100")
	fs.Int64Var(&cfg.MaxBytes, "max-bytes", cfg.MaxBytes, "largest input file accepted, in bytes")
	fs.BoolVar(&cfg.EXIF, "exif", cfg.EXIF, "apply EXIF orientation to JPEG input")
	fs.BoolVar(&cfg.Verbose, "v", false, "log pipeline details to stderr")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	pos := fs.Args()
	if len(pos) < 3 || len(pos) > 7 {
		fs.Usage()
		return nil, fmt.Errorf("expected 3 to 7 positional arguments, got %d", len(pos))
	}
	cfg.Input = pos[0]
	cfg.Output = pos[1]

	var err error
	if cfg.DesiredHeight, err = strconv.Atoi(pos[2]); err != nil {
		return nil, fmt.Errorf("desired_h: %w", err)
	}
	if len(pos) > 3 {
		if cfg.Padding, err = strconv.ParseFloat(pos[3], 64); err != nil {
			return nil, fmt.Errorf("pad: %w", err)
		}
	}
	if len(pos) > 4 {
		if cfg.Threshold, err = strconv.Atoi(pos[4]); err != nil {
			return nil, fmt.Errorf("white_thresh: %w", err)
		}
	}
	if len(pos) > 5 {
		if cfg.Width, err = strconv.Atoi(pos[5]); err != nil {
			return nil, fmt.Errorf("requested_w: %w", err)
		}
	}
	if len(pos) > 6 {
		if cfg.Height, err = strconv.Atoi(pos[6]); err != nil {
			return nil, fmt.Errorf("requested_h: %w", err)
		}
	}

	if cfg.Background, err = ParseColor(bg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot honour.
func (c *Config) Validate() error {
	switch {
	case c.Input == "" || c.Output == "":
		return errors.New("input and output paths are required")
	case c.DesiredHeight <= 0 || c.DesiredHeight > pipeline.MaxDimension:
		return fmt.Errorf("desired height must be 1-%d, got %d", pipeline.MaxDimension, c.DesiredHeight)
	case c.Width > pipeline.MaxDimension || c.Height > pipeline.MaxDimension:
		return fmt.Errorf("requested size %dx%d exceeds %d", c.Width, c.Height, pipeline.MaxDimension)
	case c.Padding < 0:
		return fmt.Errorf("padding must not be negative, got %v", c.Padding)
	case c.Quality < 1 || c.Quality > 100:
		return fmt.Errorf("quality must be 1-100, got %d", c.Quality)
	case c.MaxBytes <= 0:
		return fmt.Errorf("max-bytes must be positive, got %d", c.MaxBytes)
	}
	return nil
}

// Fit reports whether both final dimensions were requested.
func (c *Config) Fit() bool {
	return c.Width > 0 && c.Height > 0
}

// ParseColor accepts "white", "black" or a six digit hex colour with an
// optional leading '#'.
func ParseColor(s string) (color.NRGBA, error) {
	switch v := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "#")); v {
	case "white":
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}, nil
	case "black":
		return color.NRGBA{A: 255}, nil
	default:
		b, err := hex.DecodeString(v)
		if err != nil || len(b) != 3 {
			return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
		}
		return color.NRGBA{R: b[0], G: b[1], B: b[2], A: 255}, nil
	}
}
