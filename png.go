// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package artag

/*
Bespoke PNG Encoder

Marker images are paletted with at most four colours, so the encoder
writes indexed colour at the smallest bit depth fitting the palette:
one bit for black and white, two bits for colour palettes.  Rows are
unfiltered.  Unfiltered rows of a marker consist of a few long runs,
which DEFLATE at best compression reduces to a handful of bytes per
row of cells.

IDAT chunks are split after 32 KB of compressed data.
*/

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"io"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/text/encoding/charmap"
)

var ErrLargeImage = errors.New("artag: image too large")

// EncodePNG writes img to w in PNG format.  If comment is not empty, it
// is stored in a "Comment" tEXt chunk and must be representable in
// ISO 8859-1.
func EncodePNG(w io.Writer, img *image.Paletted, comment string) error {
	if w == nil || img == nil || len(img.Palette) == 0 ||
		len(img.Palette) > 256 {
		return ErrArgs
	}
	b := img.Bounds()
	if b.Dx() > 1<<31-1 || b.Dy() > 1<<31-1 {
		return ErrLargeImage
	}
	pw := pngWriter{w: w}
	pw.buf.WriteString(pngHeader)

	// Header block
	depth := bitDepth(len(img.Palette))
	binary.BigEndian.PutUint32(pw.tmp[0:4], uint32(b.Dx()))
	binary.BigEndian.PutUint32(pw.tmp[4:8], uint32(b.Dy()))
	pw.tmp[8] = depth
	pw.tmp[9] = 3  // palette
	pw.tmp[10] = 0 // deflate
	pw.tmp[11] = 0 // adaptive filtering
	pw.tmp[12] = 0 // no interlace
	pw.writeChunk("IHDR", pw.tmp[:13])

	// Palette and transparency
	plte := make([]byte, 0, 3*len(img.Palette))
	trns := make([]byte, 0, len(img.Palette))
	opaque := true
	for _, c := range img.Palette {
		rgba := color.NRGBAModel.Convert(c).(color.NRGBA)
		plte = append(plte, rgba.R, rgba.G, rgba.B)
		trns = append(trns, rgba.A)
		opaque = opaque && rgba.A == 0xff
	}
	pw.writeChunk("PLTE", plte)
	if !opaque {
		pw.writeChunk("tRNS", trns)
	}

	// Comment
	if comment != "" {
		text, err := charmap.ISO8859_1.NewEncoder().String(comment)
		if err != nil {
			return err
		}
		pw.writeChunk("tEXt", []byte("Comment\x00"+text))
	}

	// Data
	if err := pw.writeImage(img, depth); err != nil {
		return err
	}

	// End
	pw.writeChunk("IEND", nil)
	return pw.flush()
}

// bitDepth returns the smallest PNG bit depth for n palette entries.
func bitDepth(n int) byte {
	switch {
	case n <= 2:
		return 1
	case n <= 4:
		return 2
	case n <= 16:
		return 4
	}
	return 8
}

// A pngWriter is a writer for PNG chunks.
type pngWriter struct {
	buf   bytes.Buffer
	w     io.Writer
	err   error
	tmp   [16]byte
	start int
}

const pngHeader = "\x89PNG\r\n\x1a\n"

const (
	chunkSize = 0x8000 // chunks split after 32 KB
	bufSize   = 0x1000 // buffers flushed in multiples of 4 KB
)

func (w *pngWriter) writeChunk(name string, data []byte) {
	w.startChunk(name)
	w.buf.Write(data)
	w.endChunk()
}

// startChunk writes the chunk name twice, the first copy reserving
// space for the length.
func (w *pngWriter) startChunk(name string) {
	w.start = w.buf.Len()
	w.buf.WriteString(name)
	w.buf.WriteString(name)
}

func (w *pngWriter) endChunk() {
	b := w.buf.Bytes()[w.start:]
	binary.BigEndian.PutUint32(b, uint32(len(b)-8))
	binary.BigEndian.PutUint32(w.tmp[0:4], crc32.ChecksumIEEE(b[4:]))
	w.buf.Write(w.tmp[0:4])
	if w.buf.Len() >= bufSize {
		w.flush()
	}
}

func (w *pngWriter) flush() error {
	if w.err == nil {
		_, w.err = w.buf.WriteTo(w.w)
	}
	return w.err
}

// Write implements io.Writer for the zlib stream, splitting it into
// IDAT chunks.
func (w *pngWriter) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) != 0 && w.err == nil {
		if w.buf.Len()-w.start == 8+chunkSize {
			w.endChunk()
			w.startChunk("IDAT")
		}
		k := min(len(p), 8+chunkSize-(w.buf.Len()-w.start))
		w.buf.Write(p[:k])
		p = p[k:]
	}
	if w.err != nil {
		return 0, w.err
	}
	return n, nil
}

// writeImage writes img as one or more IDAT chunks.
func (w *pngWriter) writeImage(img *image.Paletted, depth byte) error {
	const ftNone = 0
	z, err := zlib.NewWriterLevel(w, zlib.BestCompression)
	if err != nil {
		return err
	}
	b := img.Bounds()
	ppb := 8 / int(depth) // pixels per byte
	row := make([]byte, 1+(b.Dx()+ppb-1)/ppb)
	w.startChunk("IDAT")
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row[0] = ftNone
		packRow(row[1:], img.Pix[img.PixOffset(b.Min.X, y):][:b.Dx()], depth)
		if _, err := z.Write(row); err != nil {
			return err
		}
	}
	if err := z.Close(); err != nil {
		return err
	}
	w.endChunk()
	return w.err
}

// packRow packs palette indices src into dst at depth bits per pixel,
// leftmost pixel in the high bits.
func packRow(dst, src []byte, depth byte) {
	if depth == 8 {
		copy(dst, src)
		return
	}
	ppb := 8 / int(depth)
	mask := byte(1)<<depth - 1
	for i := range dst {
		var v byte
		for j := 0; j < ppb; j++ {
			v <<= depth
			if k := i*ppb + j; k < len(src) {
				v |= src[k] & mask
			}
		}
		dst[i] = v
	}
}
