// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package image writes rendered color fields as image files.
//
// A color field is one palette.Color per point, in the row-major order of
// the point grid: row 0 holds the smallest imaginary part. By default the
// field is written bottom-up, so row 0 lands on the last image row and the
// imaginary axis points up in the picture. Channels are always written in
// red, green, blue order.
package image

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output file format.
type Format uint8

const (
	// FormatAuto selects the format from the file extension.
	FormatAuto Format = iota

	// FormatPNG is lossless PNG.
	FormatPNG

	// FormatJPEG is baseline JPEG.
	FormatJPEG

	// FormatTIFF is uncompressed TIFF.
	FormatTIFF

	// FormatBMP is 24-bit BMP.
	FormatBMP

	// formatCount is the number of formats (for internal use).
	formatCount
)

// formatInfo describes one format.
type formatInfo struct {
	name       string
	extensions []string
}

var formatInfoTable = [formatCount]formatInfo{
	FormatAuto: {name: "auto"},
	FormatPNG:  {name: "png", extensions: []string{".png"}},
	FormatJPEG: {name: "jpeg", extensions: []string{".jpg", ".jpeg"}},
	FormatTIFF: {name: "tiff", extensions: []string{".tif", ".tiff"}},
	FormatBMP:  {name: "bmp", extensions: []string{".bmp"}},
}

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// String returns the lower-case format name.
func (f Format) String() string {
	if !f.IsValid() {
		return fmt.Sprintf("Format(%d)", f)
	}
	return formatInfoTable[f].name
}

// ParseFormat returns the Format with the given name, ignoring case.
// "jpg" and "tif" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "jpg":
		return FormatJPEG, nil
	case "tif":
		return FormatTIFF, nil
	}
	for f := range formatCount {
		if strings.EqualFold(name, formatInfoTable[f].name) {
			return f, nil
		}
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// FormatFromPath returns the format for the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for f := FormatPNG; f < formatCount; f++ {
		for _, e := range formatInfoTable[f].extensions {
			if ext == e {
				return f, nil
			}
		}
	}
	return FormatAuto, fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
}

// Orientation is the order in which field rows are written.
type Orientation uint8

const (
	// BottomUp writes field row 0 as the last image row.
	BottomUp Orientation = iota

	// TopDown writes field row 0 as the first image row.
	TopDown
)

// String returns "bottom-up" or "top-down".
func (o Orientation) String() string {
	switch o {
	case BottomUp:
		return "bottom-up"
	case TopDown:
		return "top-down"
	default:
		return fmt.Sprintf("Orientation(%d)", o)
	}
}

// ParseOrientation accepts the names returned by Orientation.String.
func ParseOrientation(name string) (Orientation, error) {
	switch strings.ToLower(name) {
	case "bottom-up", "bottomup":
		return BottomUp, nil
	case "top-down", "topdown":
		return TopDown, nil
	}
	return BottomUp, fmt.Errorf("image: unknown orientation %q", name)
}
