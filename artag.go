// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package artag encodes AR tags.

An AR tag is a square fiducial marker of 6 by 6 cells: a solid border
ring around a 4 by 4 interior carrying a 13 bit code (see package
coding for the layout).  Rendered markers have a blank margin one cell
wide, for a total of 8 cells on a side.
*/
package artag // import "github.com/unixdj/artag"

import (
	"errors"
	"image"
	"image/color"

	"github.com/unixdj/artag/coding"
)

// Marker geometry.
const (
	Side            = coding.Side     // cells on a side
	Margin          = 1               // blank cells around the marker
	Cells           = Side + Margin*2 // cells on a side of the image
	MaxCode         = coding.MaxCode  // largest code
	DefaultCellSize = 50              // default image pixels per cell
)

var (
	// ErrRange is returned for codes outside [0, MaxCode].
	ErrRange = coding.ErrRange
	// ErrChecksum is returned for codes failing the structural
	// check, unless forced.
	ErrChecksum = coding.ErrChecksum
	// ErrArgs is returned for invalid rendering arguments.
	ErrArgs = errors.New("artag: invalid arguments")
)

// A Marker is an encoded AR tag.
type Marker struct {
	Code  int         // encoded code
	Bits  coding.Bits // bit string
	Grid  coding.Grid // cells, true is opaque
	Valid bool        // whether Bits passes the structural check
}

// Encode returns the marker for code.  Codes out of range yield
// ErrRange.  Codes failing the structural check yield ErrChecksum
// unless force is set, in which case a marker with Valid unset is
// returned.
func Encode(code int, force bool) (*Marker, error) {
	b, err := coding.Splice(code)
	if err != nil {
		return nil, err
	}
	valid := true
	if err := b.Check(); err != nil {
		if !force {
			return nil, err
		}
		valid = false
	}
	return &Marker{
		Code:  code,
		Bits:  b,
		Grid:  coding.Place(b),
		Valid: valid,
	}, nil
}

// Decode returns the code displayed by g.  It fails if the border is
// not solid, the fixed bits are damaged or the structural check fails.
func Decode(g *coding.Grid) (int, error) {
	b, err := g.Bits()
	if err != nil {
		return 0, err
	}
	if err := b.Check(); err != nil {
		return 0, err
	}
	return b.Code()
}

// Opaque reports whether the cell at (row, col) is opaque.
func (m *Marker) Opaque(row, col int) bool {
	return m.Grid.Opaque(row, col)
}

// Image returns a black and white Image displaying the marker at
// scale pixels per cell.
func (m *Marker) Image(scale int) image.Image {
	return &markerImage{m, max(scale, 1)}
}

// markerImage implements image.Image
type markerImage struct {
	*Marker
	scale int
}

var (
	whiteColor color.Color = color.Gray{0xFF}
	blackColor color.Color = color.Gray{0x00}
)

func (m *markerImage) Bounds() image.Rectangle {
	d := Cells * m.scale
	return image.Rect(0, 0, d, d)
}

func (m *markerImage) At(x, y int) color.Color {
	if x >= 0 && y >= 0 && m.Opaque(y/m.scale-Margin, x/m.scale-Margin) {
		return blackColor
	}
	return whiteColor
}

func (m *markerImage) ColorModel() color.Model {
	return color.GrayModel
}
