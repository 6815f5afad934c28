// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command mandel renders an escape-time image of the Mandelbrot set.
//
// Usage:
//
//	mandel [flags] [RE_START RE_END IM_START IM_END [OUTPUT]]
//
// Bounds given as arguments are kept as decimal text, so deep zooms keep
// every digit at extended precision. Run with -h for the flag list.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/mandel"
	"github.com/gogpu/mandel/escape"
	"github.com/gogpu/mandel/grid"
	"github.com/gogpu/mandel/internal/image"
	"github.com/gogpu/mandel/palette"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("mandel: %v", err)
	}
}

// cliFlags holds the parsed command line.
type cliFlags struct {
	region      string
	size        string
	maxIter     int
	precision   string
	palette     string
	cycle       int
	hueScale    float64
	exponent    float64
	strategy    string
	workers     int
	adapter     string
	workgroup   int
	gpuTimeout  string
	output      string
	format      string
	orientation string
	caption     bool
	verbose     bool
	listRegions bool
	args        []string
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	fs := flag.NewFlagSet("mandel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: mandel [flags] [RE_START RE_END IM_START IM_END [OUTPUT]]\n\n")
		fs.PrintDefaults()
	}

	f := &cliFlags{}
	fs.StringVar(&f.region, "region", "deep-zoom", "named region (see -list-regions)")
	fs.StringVar(&f.size, "size", fmt.Sprintf("%dx%d", mandel.DefaultWidth, mandel.DefaultHeight), "image size as WIDTHxHEIGHT")
	fs.IntVar(&f.maxIter, "max-iter", mandel.DefaultMaxIter, "iteration budget")
	fs.StringVar(&f.precision, "precision", escape.PrecisionExtended.String(), "native|extended")
	fs.StringVar(&f.palette, "palette", palette.Cyclic.String(), "cyclic|histogram|exponential|grayscale")
	fs.IntVar(&f.cycle, "cycle", palette.DefaultCycleLength, "palette cycle length")
	fs.Float64Var(&f.hueScale, "hue-scale", palette.DefaultHueScale, "histogram hue scale")
	fs.Float64Var(&f.exponent, "exponent", palette.DefaultExponent, "exponential palette power")
	fs.StringVar(&f.strategy, "strategy", mandel.StrategyAuto.String(), "auto|local|offload")
	fs.IntVar(&f.workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	fs.StringVar(&f.adapter, "adapter", "", "GPU adapter name substring (case-sensitive)")
	fs.IntVar(&f.workgroup, "workgroup", 0, "GPU work-group size (0 = 64)")
	fs.StringVar(&f.gpuTimeout, "gpu-timeout", "", "GPU batch timeout, e.g. 30s (empty = 1h)")
	fs.StringVar(&f.output, "out", mandel.DefaultOutput, "output file (.png, .jpg, .tif, .bmp)")
	fs.StringVar(&f.format, "format", "auto", "png|jpeg|tiff|bmp|auto")
	fs.StringVar(&f.orientation, "orientation", mandel.BottomUp.String(), "bottom-up|top-down")
	fs.BoolVar(&f.caption, "caption", false, "draw bounds and budget in the corner")
	fs.BoolVar(&f.verbose, "v", false, "debug logging")
	fs.BoolVar(&f.listRegions, "list-regions", false, "print region names and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	f.args = fs.Args()
	if n := len(f.args); n != 0 && n != 4 && n != 5 {
		fs.Usage()
		return nil, fmt.Errorf("want 0, 4 or 5 arguments, got %d", n)
	}
	return f, nil
}

// parseSize parses WIDTHxHEIGHT.
func parseSize(s string) (width, height int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q is not WIDTHxHEIGHT", s)
	}
	if width, err = strconv.Atoi(ws); err != nil {
		return 0, 0, fmt.Errorf("size %q: width: %w", s, err)
	}
	if height, err = strconv.Atoi(hs); err != nil {
		return 0, 0, fmt.Errorf("size %q: height: %w", s, err)
	}
	return width, height, nil
}

// options turns the command line into render options.
func (f *cliFlags) options() ([]mandel.Option, error) {
	width, height, err := parseSize(f.size)
	if err != nil {
		return nil, err
	}
	precision, err := escape.ParsePrecision(f.precision)
	if err != nil {
		return nil, err
	}
	kind, err := palette.ParseKind(f.palette)
	if err != nil {
		return nil, err
	}
	strategy, err := mandel.ParseStrategy(f.strategy)
	if err != nil {
		return nil, err
	}
	format, err := image.ParseFormat(f.format)
	if err != nil {
		return nil, err
	}
	orientation, err := image.ParseOrientation(f.orientation)
	if err != nil {
		return nil, err
	}

	spec := palette.DefaultSpec()
	spec.CycleLength = f.cycle
	spec.HueScale = f.hueScale
	spec.Exponent = f.exponent

	opts := []mandel.Option{
		mandel.WithRegion(f.region),
		mandel.WithSize(width, height),
		mandel.WithMaxIter(f.maxIter),
		mandel.WithPrecision(precision),
		mandel.WithPalette(kind, spec),
		mandel.WithStrategy(strategy),
		mandel.WithWorkers(f.workers),
		mandel.WithAdapter(f.adapter),
		mandel.WithWorkgroupSize(f.workgroup),
		mandel.WithOutput(f.output),
		mandel.WithFormat(format),
		mandel.WithOrientation(orientation),
		mandel.WithCaption(f.caption),
	}
	if f.gpuTimeout != "" {
		d, err := time.ParseDuration(f.gpuTimeout)
		if err != nil {
			return nil, err
		}
		opts = append(opts, mandel.WithGPUTimeout(d))
	}
	if len(f.args) >= 4 {
		opts = append(opts, mandel.WithBoundsText(grid.BoundsText{
			ReStart: f.args[0], ReEnd: f.args[1],
			ImStart: f.args[2], ImEnd: f.args[3],
		}))
	}
	if len(f.args) == 5 {
		opts = append(opts, mandel.WithOutput(f.args[4]))
	}
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if f.listRegions {
		for _, name := range mandel.RegionNames() {
			b := mandel.Regions[name]
			fmt.Fprintf(stdout, "%-22s re [%s, %s] im [%s, %s]\n", name, b.ReStart, b.ReEnd, b.ImStart, b.ImEnd)
		}
		return nil
	}

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	mandel.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	opts, err := f.options()
	if err != nil {
		return err
	}
	cfg, err := mandel.NewConfig(opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := mandel.Render(ctx, cfg)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	path, format := cfg.Output()
	p.Fprintf(stdout, "%d x %d points, %d in the set, %d iterations\n",
		res.Width, res.Height, res.InSet(), cfg.MaxIter())
	p.Fprintf(stdout, "mapping %v, escape %v, coloring %v, image %v, total %v\n",
		res.Timings.Mapping, res.Timings.Escape, res.Timings.Coloring, res.Timings.Image, res.Timings.Total())
	if path != "" {
		p.Fprintf(stdout, "wrote %s (%v)\n", path, format)
	}
	return nil
}
