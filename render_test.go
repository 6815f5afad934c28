// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mandel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/tiff"

	"github.com/gogpu/mandel/escape"
	"github.com/gogpu/mandel/palette"
)

// goldenField is the 3x3 field of the full set at a budget of 10.
var goldenField = []int32{0, 2, -1, 0, -1, -1, 0, -1, -1}

func goldenConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()
	base := []Option{
		WithRegion("full"),
		WithSize(3, 3),
		WithMaxIter(10),
		WithStrategy(StrategyLocal),
		WithWorkers(2),
		WithOutput(""),
	}
	cfg, err := NewConfig(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	return cfg
}

func TestRenderGolden(t *testing.T) {
	for _, p := range []escape.Precision{escape.PrecisionNative, escape.PrecisionExtended} {
		t.Run(p.String(), func(t *testing.T) {
			res, err := Render(context.Background(), goldenConfig(t, WithPrecision(p)))
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !slices.Equal(res.Field, goldenField) {
				t.Errorf("Field = %v, want %v", res.Field, goldenField)
			}
			if res.InSet() != 5 {
				t.Errorf("InSet() = %d, want 5", res.InSet())
			}
			if len(res.Colors) != 9 || res.Colors[2] != palette.Black {
				t.Errorf("Colors = %v, want 9 colors with black at 2", res.Colors)
			}
			if res.Colors[0] != (palette.Color{R: 7, G: 6, B: 38}) {
				t.Errorf("Colors[0] = %v, want first anchor", res.Colors[0])
			}
		})
	}
}

func TestRenderNativeMatchesExtended(t *testing.T) {
	render := func(p escape.Precision) []int32 {
		cfg, err := NewConfig(
			WithRegion("seahorse-valley"),
			WithSize(24, 16),
			WithMaxIter(200),
			WithPrecision(p),
			WithStrategy(StrategyLocal),
			WithOutput(""),
		)
		if err != nil {
			t.Fatalf("NewConfig: %v", err)
		}
		res, err := Render(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Render(%v): %v", p, err)
		}
		return res.Field
	}
	native := render(escape.PrecisionNative)
	extended := render(escape.PrecisionExtended)

	// Both paths truncate differently, so allow a few boundary pixels.
	diff := 0
	for k := range native {
		if native[k] != extended[k] {
			diff++
		}
	}
	if diff > len(native)/20 {
		t.Errorf("%d of %d pixels differ between precisions", diff, len(native))
	}
}

func TestRenderWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mandelbrot_set.tiff")
	cfg, err := NewConfig(
		WithRegion("full"),
		WithSize(40, 30),
		WithMaxIter(30),
		WithStrategy(StrategyLocal),
		WithPalette(palette.Histogram, palette.DefaultSpec()),
		WithOutput(path),
		WithCaption(true),
	)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	res, err := Render(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Timings.Total() < res.Timings.Escape {
		t.Error("Total() smaller than one of its stages")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()
	img, err := tiff.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("image size = %v, want 40x30", b)
	}
}

func TestResultImageOrientation(t *testing.T) {
	res, err := Render(context.Background(), goldenConfig(t))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := res.Image(BottomUp)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	// Field point 2 (row 0, column 2) never escapes and lands bottom-right.
	if r, g, b, _ := img.At(2, 2).RGBA(); r|g|b != 0 {
		t.Errorf("bottom-right pixel is not black")
	}
	top, err := res.Image(TopDown)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if r, g, b, _ := top.At(2, 0).RGBA(); r|g|b != 0 {
		t.Errorf("top-right pixel of top-down image is not black")
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Render(ctx, goldenConfig(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if err != nil && !strings.Contains(err.Error(), "escape") {
		t.Errorf("error %q does not name the escape stage", err)
	}
}

func TestRenderNilConfig(t *testing.T) {
	if _, err := Render(context.Background(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

// noHALProvider is a DeviceProvider that cannot hand out HAL objects, so
// the GPU path fails before touching any driver.
type noHALProvider struct{}

func (noHALProvider) Device() gpucontext.Device             { return nil }
func (noHALProvider) Queue() gpucontext.Queue               { return nil }
func (noHALProvider) Adapter() gpucontext.Adapter           { return nil }
func (noHALProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

func TestRenderAutoFallsBackToLocal(t *testing.T) {
	cfg := goldenConfig(t,
		WithPrecision(escape.PrecisionExtended),
		WithStrategy(StrategyAuto),
		WithDeviceProvider(noHALProvider{}),
	)
	res, err := Render(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !slices.Equal(res.Field, goldenField) {
		t.Errorf("Field = %v, want %v", res.Field, goldenField)
	}
}

func TestRenderOffloadReportsBackendError(t *testing.T) {
	cfg := goldenConfig(t,
		WithPrecision(escape.PrecisionExtended),
		WithStrategy(StrategyOffload),
		WithDeviceProvider(noHALProvider{}),
	)
	_, err := Render(context.Background(), cfg)
	if !IsBackendError(err) {
		t.Errorf("error = %v, want a backend error", err)
	}
}

func BenchmarkRenderLocal(b *testing.B) {
	cfg, err := NewConfig(
		WithRegion("full"),
		WithSize(300, 200),
		WithMaxIter(200),
		WithPrecision(escape.PrecisionNative),
		WithStrategy(StrategyLocal),
		WithOutput(""),
	)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		if _, err := Render(context.Background(), cfg); err != nil {
			b.Fatal(err)
		}
	}
}
