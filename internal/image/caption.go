// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package image

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// captionSize is the caption font size in pixels.
const captionSize = 13

// captionMargin is the gap between the caption box, its text and the image
// edge, in pixels.
const captionMargin = 4

var (
	captionFontOnce sync.Once
	captionFont     *opentype.Font
	captionFontErr  error
)

func loadCaptionFont() (*opentype.Font, error) {
	captionFontOnce.Do(func() {
		captionFont, captionFontErr = opentype.Parse(goregular.TTF)
	})
	return captionFont, captionFontErr
}

// DrawCaption draws lines of text in the top-left corner of dst over a dark
// box. Lines that do not fit are clipped by the image bounds.
func DrawCaption(dst draw.Image, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	f, err := loadCaptionFont()
	if err != nil {
		return fmt.Errorf("image: parse caption font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    captionSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("image: caption face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	width := 0
	for _, line := range lines {
		width = max(width, font.MeasureString(face, line).Ceil())
	}

	b := dst.Bounds()
	box := image.Rect(0, 0, width+2*captionMargin, len(lines)*lineHeight+2*captionMargin).
		Add(b.Min).Intersect(b)
	draw.Draw(dst, box, image.NewUniform(color.RGBA{A: 160}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	for i, line := range lines {
		x := b.Min.X + captionMargin
		y := b.Min.Y + captionMargin + i*lineHeight + metrics.Ascent.Ceil()
		d.Dot = fixed.P(x, y)
		d.DrawString(line)
	}
	return nil
}
