package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"extendcanvas/internal/config"
	"extendcanvas/internal/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "extendcanvas: %v\n", err)
		return 2
	}

	log.SetOutput(io.Discard)
	if cfg.Verbose {
		log.SetOutput(stderr)
	}

	opts := pipeline.Options{
		DesiredHeight: cfg.DesiredHeight,
		Padding:       cfg.Padding,
		Threshold:     cfg.Threshold,
		Background:    cfg.Background,
		Quality:       cfg.Quality,
		MaxBytes:      cfg.MaxBytes,
		EXIFOrient:    cfg.EXIF,
	}
	if cfg.Fit() {
		opts.Width, opts.Height = cfg.Width, cfg.Height
	}

	report, err := pipeline.ProcessFile(context.Background(), cfg.Input, cfg.Output, opts)
	if err != nil {
		fmt.Fprintf(stderr, "extendcanvas: %v\n", err)
		return 1
	}

	if report.Fit == pipeline.FitStretch {
		fmt.Fprintf(stdout, "Resized to requested dimensions (fallback): %dx%d\n", report.Output.X, report.Output.Y)
	}
	fmt.Fprintf(stdout, "Saved (thr=%d) to %s\n", report.Threshold, cfg.Output)
	return 0
}
