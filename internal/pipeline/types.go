package pipeline

import (
	"errors"
	"image"
)

var (
	ErrNotAnImage        = errors.New("input file is not an image")
	ErrTooLarge          = errors.New("image exceeds size limit")
	ErrInvalidDimensions = errors.New("image dimensions out of range")

	// Pipeline failure kinds. Every error returned by ProcessFile wraps one of these.
	ErrDecodeFailure      = errors.New("decode failure")
	ErrForegroundNotFound = errors.New("foreground not found (try lowering threshold)")
	ErrInvalidGeometry    = errors.New("invalid geometry")
	ErrEncodeFailure      = errors.New("encode failure")
)

// Default maximum dimension (width or height) allowed by validator.
const MaxDimension = 16384

// DefaultMaxBytes caps how much of an input file is read before decoding.
const DefaultMaxBytes = 256 << 20

// AutoThreshold asks EstimateThreshold to derive the cutoff from the image.
const AutoThreshold = -1

// DefaultPadding is the breathing room added around the subject, as a
// fraction of its height.
const DefaultPadding = 0.05

// RowSpan is an inclusive range of rows holding the foreground.
type RowSpan struct {
	Top    int
	Bottom int
}

// Height returns the number of rows covered by the span.
func (s RowSpan) Height() int {
	return s.Bottom - s.Top + 1
}

// Mode says which way Compose reached the desired height.
type Mode string

const (
	ModeCrop   Mode = "crop"
	ModeExtend Mode = "extend"
)

// Layout describes how a canvas was assembled from the source.
type Layout struct {
	Mode Mode
	// Region is the padded subject region (carReg) in source coordinates.
	Region     image.Rectangle
	Pad        int
	TopFill    int
	BottomFill int
}

// FitMode records what the final fit step did.
type FitMode string

const (
	FitNone      FitMode = "none"
	FitLetterbox FitMode = "letterbox"
	FitStretch   FitMode = "stretch"
)

// Report summarises a single run.
type Report struct {
	Threshold int
	Span      RowSpan
	Layout    Layout
	Canvas    image.Point
	Output    image.Point
	Fit       FitMode
}
