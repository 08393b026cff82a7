// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package artag

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// CellRect returns the pixel rectangle of the cell at (row, col) at
// the given cell size.  The margin is included, so cell (0, 0) starts
// at (size, size).
func CellRect(row, col, size int) image.Rectangle {
	x, y := (col+Margin)*size, (row+Margin)*size
	return image.Rect(x, y, x+size, y+size)
}

// Render returns an RGBA image displaying m in palette p at size
// pixels per cell.  The image is Cells*size pixels on a side.
func Render(m *Marker, p Palette, size int) (*image.RGBA, error) {
	if m == nil || !validSize(size) || !p.IsValid() {
		return nil, ErrArgs
	}
	d := Cells * size
	img := image.NewRGBA(image.Rect(0, 0, d, d))
	fill(img, img.Bounds(), White)
	for row := 0; row < Side; row++ {
		for col := 0; col < Side; col++ {
			c := White
			if m.Opaque(row, col) {
				c = p.Color(row, col)
			}
			fill(img, CellRect(row, col, size), c)
		}
	}
	return img, nil
}

// Paletted returns a paletted image displaying m like Render.  The
// palette is p.Colors().
func Paletted(m *Marker, p Palette, size int) (*image.Paletted, error) {
	if m == nil || !validSize(size) || !p.IsValid() {
		return nil, ErrArgs
	}
	d := Cells * size
	img := image.NewPaletted(image.Rect(0, 0, d, d), p.Colors())
	// Index 0 is white, the zero value is a blank image.
	for row := 0; row < Side; row++ {
		for col := 0; col < Side; col++ {
			if m.Opaque(row, col) {
				fillIndex(img, CellRect(row, col, size), p.index(row, col))
			}
		}
	}
	return img, nil
}

// validSize reports whether an image of size pixels per cell has an
// addressable RGBA pixel buffer.
func validSize(size int) bool {
	if size <= 0 || size > math.MaxInt/Cells {
		return false
	}
	d := Cells * size
	return d <= math.MaxInt/4/d
}

func fill(dst draw.Image, r image.Rectangle, c color.RGBA) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func fillIndex(img *image.Paletted, r image.Rectangle, i uint8) {
	r = r.Intersect(img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):img.PixOffset(r.Max.X, y)]
		for x := range row {
			row[x] = i
		}
	}
}
