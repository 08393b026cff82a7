// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package artag

import (
	"image/color"
	"strconv"
)

// A Palette selects colours for opaque cells.  Blank cells are always
// white.
type Palette int

const (
	None Palette = iota // black
	RGB                 // dark red, green and blue, rotating diagonally
	palettes            // number of palettes
)

// maxDarkLuma is the channel value of the darkest palette colour.
const maxDarkLuma = 120

var (
	White = color.RGBA{0xff, 0xff, 0xff, 0xff}
	Black = color.RGBA{0x00, 0x00, 0x00, 0xff}

	rgbColors = [3]color.RGBA{
		{maxDarkLuma * 9 / 10, 0, 0, 0xff},
		{0, maxDarkLuma * 7 / 10, 0, 0xff},
		{0, 0, maxDarkLuma, 0xff},
	}
)

// PaletteError is returned for unknown palettes.
type PaletteError string

func (e PaletteError) Error() string {
	return "artag: palette " + strconv.Quote(string(e)) + " not implemented"
}

// ParsePalette returns the palette numbered s.
func ParsePalette(s string) (Palette, error) {
	n, err := strconv.Atoi(s)
	if err != nil || !Palette(n).IsValid() {
		return 0, PaletteError(s)
	}
	return Palette(n), nil
}

// IsValid reports whether p is a known palette.
func (p Palette) IsValid() bool { return 0 <= p && p < palettes }

func (p Palette) String() string { return strconv.Itoa(int(p)) }

// Color returns the colour of the opaque cell at (row, col).
func (p Palette) Color(row, col int) color.RGBA {
	if p == RGB {
		return rgbColors[(row+col)%len(rgbColors)]
	}
	return Black
}

// Colors returns the colours used by p, starting with White.
func (p Palette) Colors() color.Palette {
	if p == RGB {
		return color.Palette{White, rgbColors[0], rgbColors[1], rgbColors[2]}
	}
	return color.Palette{White, Black}
}

// index returns the index in p.Colors of the opaque cell at (row, col).
func (p Palette) index(row, col int) uint8 {
	if p == RGB {
		return uint8(1 + (row+col)%len(rgbColors))
	}
	return 1
}
