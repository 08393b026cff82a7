// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package artag

import (
	"io"
	"strings"
)

// String returns the marker drawn with UTF-8 block elements, two cells
// per line, margin included.  Opaque cells are drawn as ink.
func (m *Marker) String() string {
	var b strings.Builder
	b.Grow((Cells*len("█") + 1) * Cells / 2)
	for y := -Margin; y < Side+Margin; y += 2 {
		for x := -Margin; x < Side+Margin; x++ {
			top, bot := m.Opaque(y, x), m.Opaque(y+1, x)
			b.WriteString([4]string{" ", "▄", "▀", "█"}[btoi(top)<<1|btoi(bot)])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// EncodeASCII writes the marker to w as ASCII art, "##" for each
// opaque cell and two spaces for each blank one, margin included.
func EncodeASCII(w io.Writer, m *Marker) error {
	if m == nil {
		return ErrArgs
	}
	b := make([]byte, (Cells*2+1)*Cells)
	i := 0
	for y := -Margin; y < Side+Margin; y++ {
		for x := -Margin; x < Side+Margin; x++ {
			var p byte = ' '
			if m.Opaque(y, x) {
				p = '#'
			}
			b[i], b[i+1] = p, p
			i += 2
		}
		b[i] = '\n'
		i++
	}
	_, err := w.Write(b)
	return err
}
