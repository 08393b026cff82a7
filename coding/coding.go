// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package coding implements low-level AR tag coding details.

A marker is a grid of Side by Side cells.  The outer ring of cells is
the border and is always opaque.  The Inner by Inner interior carries a
16 bit string built from a 13 bit code:

	index  0      1 .. 11        12     13 .. 14        15
	bit    1      code[0:11]     1      code[11:13]     0

where code[i:j] are characters of the code written in binary, most
significant bit first, zero padded to 13 digits.  String index i is
placed in interior cell (i/4+1, i%4+1), row-major.

A bit string passes the structural check if the bits at indices 3 and
8 are zero and the number of ones is even.
*/
package coding // import "github.com/unixdj/artag/coding"

import (
	"errors"
	"math/bits"
)

// Grid geometry.
const (
	Side     = 6                           // cells on a side, border included
	Inner    = Side - 2                    // interior cells on a side
	Border   = Side*4 - 4                  // border cells
	Len      = Inner * Inner               // length of the bit string
	FreeBits = (Side-2)*(Side-2) - 3       // bits in a code
	MaxCode  = 1<<FreeBits - 1             // largest code
	Reserved = 1<<(Len-1-3) | 1<<(Len-1-8) // bits that must be zero
	fixedOne = 1<<(Len-1) | 1<<(Len-1-12)  // bits that must be one
	fixedAll = fixedOne | 1                // fixed bits
)

var (
	ErrRange    = errors.New("coding: code out of range")
	ErrChecksum = errors.New("coding: reserved bit set or odd parity")
	ErrFixed    = errors.New("coding: fixed bits damaged")
	ErrBorder   = errors.New("coding: border not solid")
)

// Bits is a spliced bit string.  String index i is bit Len-1-i, so
// that the string reads left to right from the most significant bit.
type Bits uint16

// Splice returns the bit string for code.
func Splice(code int) (Bits, error) {
	if code < 0 || code > MaxCode {
		return 0, ErrRange
	}
	c := Bits(code)
	return fixedOne | c>>2<<4 | c&3<<1, nil
}

// At reports whether the bit at string index i is 1.
func (b Bits) At(i int) bool {
	return 0 <= i && i < Len && b>>(Len-1-i)&1 != 0
}

// Ones returns the number of one bits.
func (b Bits) Ones() int { return bits.OnesCount16(uint16(b)) }

// Check returns ErrChecksum if b fails the structural check.
func (b Bits) Check() error {
	if b&Reserved != 0 || b.Ones()&1 != 0 {
		return ErrChecksum
	}
	return nil
}

// Code reverses Splice.  It does not run Check.
func (b Bits) Code() (int, error) {
	if b&fixedAll != fixedOne {
		return 0, ErrFixed
	}
	return int(b>>4&0x7ff<<2 | b>>1&3), nil
}

func (b Bits) String() string {
	var s [Len]byte
	for i := range s {
		s[i] = '0'
		if b.At(i) {
			s[i] = '1'
		}
	}
	return string(s[:])
}

// Cell returns the grid position of string index i.
func Cell(i int) (row, col int) {
	return i/Inner + 1, i%Inner + 1
}

// A Grid holds marker cells, true is opaque.  Grid[row][col].
type Grid [Side][Side]bool

// Place returns a grid with a solid border displaying b.
func Place(b Bits) Grid {
	var g Grid
	for i := 0; i < Side; i++ {
		g[0][i], g[Side-1][i], g[i][0], g[i][Side-1] = true, true, true, true
	}
	for i := 0; i < Len; i++ {
		row, col := Cell(i)
		g[row][col] = b.At(i)
	}
	return g
}

// IsBorder reports whether (row, col) belongs to the border ring.
func IsBorder(row, col int) bool {
	return row == 0 || col == 0 || row == Side-1 || col == Side-1
}

// Opaque reports whether the cell at (row, col) is opaque.  Cells
// outside the grid are blank.
func (g *Grid) Opaque(row, col int) bool {
	return 0 <= row && row < Side && 0 <= col && col < Side && g[row][col]
}

// Bits reads the bit string back from the interior.
func (g *Grid) Bits() (Bits, error) {
	for row := 0; row < Side; row++ {
		for col := 0; col < Side; col++ {
			if IsBorder(row, col) && !g[row][col] {
				return 0, ErrBorder
			}
		}
	}
	var b Bits
	for i := 0; i < Len; i++ {
		b <<= 1
		if row, col := Cell(i); g[row][col] {
			b |= 1
		}
	}
	return b, nil
}
