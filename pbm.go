// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package artag

import (
	"bufio"
	"image"
	"io"
	"strconv"
)

// EncodePBM writes a Portable Bit Map image displaying m at scale
// pixels per cell to w, for use with netpbm.  EncodePBM disregards
// palettes, as the format is black and white.
func EncodePBM(w io.Writer, m *Marker, scale int) error {
	if m == nil || !validSize(scale) {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	length := scale * Cells
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	row := make([]byte, (length+7)/8)
	for y := 0; y < Cells; y++ {
		for i := range row {
			row[i] = 0
		}
		for x := 0; x < Cells; x++ {
			if m.Opaque(y-Margin, x-Margin) {
				setBits(row, x*scale, scale)
			}
		}
		for i := 0; i < scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}

// setBits sets n bits in row starting at bit off, most significant
// bit first.
func setBits(row []byte, off, n int) {
	for ; n > 0 && off&7 != 0; n-- {
		row[off>>3] |= 0x80 >> (off & 7)
		off++
	}
	for ; n >= 8; n -= 8 {
		row[off>>3] = 0xff
		off += 8
	}
	for ; n > 0; n-- {
		row[off>>3] |= 0x80 >> (off & 7)
		off++
	}
}

// EncodePPM writes a Portable Pixel Map image of img to w.  Pixels are
// written as 8 bit RGB, alpha is discarded.
func EncodePPM(w io.Writer, img image.Image) error {
	if img == nil {
		return ErrArgs
	}
	r := img.Bounds()
	b := bufio.NewWriter(w)
	if _, err := b.WriteString("P6\n" + strconv.Itoa(r.Dx()) + " " +
		strconv.Itoa(r.Dy()) + "\n255\n"); err != nil {
		return err
	}
	var rgb [3]byte
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			rgb[0], rgb[1], rgb[2] = byte(cr>>8), byte(cg>>8), byte(cb>>8)
			if _, err := b.Write(rgb[:]); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}
