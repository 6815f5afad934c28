// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package image

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/mandel/palette"
)

// ErrUnsupportedFormat is returned when the output format is not supported.
var ErrUnsupportedFormat = errors.New("image: unsupported format")

// DefaultJPEGQuality is used when Options.JPEGQuality is 0.
const DefaultJPEGQuality = 95

// Options controls how a color field is written.
type Options struct {
	// Format is the file format. FormatAuto selects it from the path in
	// Save and is an error in Write.
	Format Format

	// Orientation is the row order. The zero value is BottomUp.
	Orientation Orientation

	// Caption lines are drawn in the top-left corner when non-empty.
	Caption []string

	// JPEGQuality is the JPEG quality (1-100).
	JPEGQuality int
}

// Write encodes colors as a width x height image to w.
func Write(w io.Writer, colors []palette.Color, width, height int, opts Options) error {
	img, err := Raster(colors, width, height, opts.Orientation)
	if err != nil {
		return err
	}
	if err := DrawCaption(img, opts.Caption); err != nil {
		return err
	}
	return Encode(w, img, opts)
}

// Save writes colors to the file at path. The file is created or truncated.
func Save(path string, colors []palette.Color, width, height int, opts Options) error {
	if opts.Format == FormatAuto {
		f, err := FormatFromPath(path)
		if err != nil {
			return err
		}
		opts.Format = f
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := Write(f, colors, width, height, opts); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// Encode writes img to w in opts.Format.
func Encode(w io.Writer, img image.Image, opts Options) error {
	var err error
	switch opts.Format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		quality := opts.JPEGQuality
		if quality == 0 {
			quality = DefaultJPEGQuality
		}
		quality = min(max(quality, 1), 100)
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Uncompressed})
	case FormatBMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, opts.Format)
	}
	if err != nil {
		return fmt.Errorf("image: encode %v: %w", opts.Format, err)
	}
	return nil
}
