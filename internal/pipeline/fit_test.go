package pipeline

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"extendcanvas/internal/testutil"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

func TestFit_Scenario(t *testing.T) {
	canvas, _, err := Compose(scenarioImage(), RowSpan{Top: 800, Bottom: 1200}, 0.05, 900)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	out, mode, err := Fit(canvas, 500, 1000, color.White)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != FitLetterbox {
		t.Fatalf("expected letterbox, got %s", mode)
	}
	if out.Bounds() != image.Rect(0, 0, 500, 1000) {
		t.Fatalf("expected 500x1000, got %v", out.Bounds())
	}
	// content is 500x450 at y=275, bars of 275 above and below
	for _, y := range []int{0, 274, 725, 999} {
		if c := out.NRGBAAt(250, y); c != white {
			t.Fatalf("row %d: expected white bar, got %v", y, c)
		}
	}
	// canvas row 450 sits in the subject and maps to 275+225
	if c := out.NRGBAAt(250, 500); c.R > 60 {
		t.Fatalf("expected subject in the middle, got %v", c)
	}
	if c := out.NRGBAAt(250, 280); absDiff(c.R, testutil.Backdrop.R) > 2 {
		t.Fatalf("expected filler just below the bar, got %v", c)
	}
}

func TestFit_Dimensions(t *testing.T) {
	tests := []struct {
		name         string
		cw, ch       int
		w, h         int
		wantW, wantH int
		wantX, wantY int
	}{
		{name: "scenario", cw: 1000, ch: 900, w: 500, h: 1000, wantW: 500, wantH: 450, wantX: 0, wantY: 275},
		{name: "wide into square", cw: 300, ch: 100, w: 90, h: 90, wantW: 90, wantH: 30, wantX: 0, wantY: 30},
		{name: "tall upscaled", cw: 100, ch: 300, w: 400, h: 400, wantW: 133, wantH: 400, wantX: 133, wantY: 0},
		{name: "same size", cw: 640, ch: 480, w: 640, h: 480, wantW: 640, wantH: 480},
		{name: "rounded", cw: 7, ch: 3, w: 10, h: 10, wantW: 10, wantH: 4, wantX: 0, wantY: 3},
		{name: "portrait 4:5", cw: 1080, ch: 1350, w: 2160, h: 2700, wantW: 2160, wantH: 2700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nw, nh := fitDimensions(tt.cw, tt.ch, tt.w, tt.h)
			if nw != tt.wantW || nh != tt.wantH {
				t.Fatalf("expected content %dx%d, got %dx%d", tt.wantW, tt.wantH, nw, nh)
			}
			if nw > tt.w || nh > tt.h || (nw != tt.w && nh != tt.h) {
				t.Fatalf("content %dx%d must fit %dx%d with one side tight", nw, nh, tt.w, tt.h)
			}

			canvas := testutil.Solid(tt.cw, tt.ch, testutil.Subject)
			out, mode, err := Fit(canvas, tt.w, tt.h, color.Black)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mode != FitLetterbox {
				t.Fatalf("expected letterbox, got %s", mode)
			}
			if out.Bounds() != image.Rect(0, 0, tt.w, tt.h) {
				t.Fatalf("expected %dx%d, got %v", tt.w, tt.h, out.Bounds())
			}
			// first content pixel sits at the centring offset
			if c := out.NRGBAAt(tt.wantX+nw/2, tt.wantY+nh/2); absDiff(c.R, testutil.Subject.R) > 2 {
				t.Fatalf("expected content at centre, got %v", c)
			}
			if tt.wantY > 0 {
				if c := out.NRGBAAt(tt.w/2, tt.wantY-1); c != (color.NRGBA{A: 255}) {
					t.Fatalf("expected black bar above content, got %v", c)
				}
			}
			if tt.wantX > 0 {
				if c := out.NRGBAAt(tt.wantX-1, tt.h/2); c != (color.NRGBA{A: 255}) {
					t.Fatalf("expected black bar left of content, got %v", c)
				}
			}
		})
	}
}

func TestPlace_OverflowStretches(t *testing.T) {
	canvas := testutil.StudioShot(100, 200, 50, 150)
	tests := []struct {
		name       string
		newW, newH int
	}{
		{name: "too wide", newW: 60, newH: 40},
		{name: "too tall", newW: 40, newH: 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, mode, err := place(canvas, tt.newW, tt.newH, 50, 50, white)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mode != FitStretch {
				t.Fatalf("expected FitStretch, got %v", mode)
			}
			if out.Rect.Dx() != 50 || out.Rect.Dy() != 50 {
				t.Fatalf("expected 50x50, got %v", out.Rect)
			}
		})
	}
}

func TestPlace_Letterbox(t *testing.T) {
	out, mode, err := place(testutil.Solid(10, 10, testutil.Subject), 20, 20, 40, 20, white)
	if err != nil || mode != FitLetterbox {
		t.Fatalf("expected letterbox, got %v, %v", mode, err)
	}
	if out.NRGBAAt(0, 10) != white || out.NRGBAAt(39, 10) != white {
		t.Fatalf("expected side bars in the background colour")
	}
	if out.NRGBAAt(20, 10) != testutil.Subject {
		t.Fatalf("expected content centred, got %v", out.NRGBAAt(20, 10))
	}
}

func TestFit_InvalidGeometry(t *testing.T) {
	tests := []struct {
		name   string
		canvas image.Image
		w, h   int
	}{
		{name: "zero width", canvas: testutil.Solid(10, 10, white), w: 0, h: 10},
		{name: "negative height", canvas: testutil.Solid(10, 10, white), w: 10, h: -1},
		{name: "width above max", canvas: testutil.Solid(10, 10, white), w: MaxDimension + 1, h: 10},
		{name: "huge target", canvas: testutil.Solid(10, 10, white), w: 1 << 40, h: 1 << 40},
		{name: "empty canvas", canvas: image.NewNRGBA(image.Rect(0, 0, 0, 0)), w: 10, h: 10},
		{name: "collapses to zero rows", canvas: testutil.Solid(10000, 1, white), w: 10, h: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Fit(tt.canvas, tt.w, tt.h, color.White)
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Fatalf("expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}
