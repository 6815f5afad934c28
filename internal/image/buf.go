// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package image

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/gift"

	"github.com/gogpu/mandel/palette"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrDataTooSmall is returned when the color field does not cover
	// width*height pixels.
	ErrDataTooSmall = errors.New("image: color field too small")
)

// fieldImage copies colors into an opaque RGBA image in field order: field
// row i becomes image row i.
func fieldImage(colors []palette.Color, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(colors) < width*height {
		return nil, fmt.Errorf("%w: %d colors for %dx%d", ErrDataTooSmall, len(colors), width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		row := img.Pix[y*img.Stride:]
		for x, c := range colors[y*width : (y+1)*width] {
			off := x * 4
			row[off] = c.R
			row[off+1] = c.G
			row[off+2] = c.B
			row[off+3] = 255
		}
	}
	return img, nil
}

// Raster returns the image of colors as it is written to a file: rows in
// the requested orientation, opaque, red-green-blue.
func Raster(colors []palette.Color, width, height int, o Orientation) (*image.RGBA, error) {
	img, err := fieldImage(colors, width, height)
	if err != nil {
		return nil, err
	}
	switch o {
	case TopDown:
		return img, nil
	case BottomUp:
		g := gift.New(gift.FlipVertical())
		g.SetParallelization(true)
		dst := image.NewRGBA(g.Bounds(img.Bounds()))
		g.Draw(dst, img)
		return dst, nil
	default:
		return nil, fmt.Errorf("image: unknown orientation %v", o)
	}
}
