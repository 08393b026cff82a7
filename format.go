// Copyright 2025 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package artag

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// EncodeStdPNG writes img to w using the standard PNG encoder at best
// compression.
func EncodeStdPNG(w io.Writer, img image.Image) error {
	e := png.Encoder{CompressionLevel: png.BestCompression}
	return e.Encode(w, img)
}

// EncodeBMP writes img to w in BMP format.
func EncodeBMP(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

// EncodeTIFF writes img to w in deflate compressed TIFF format.
func EncodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

// EncodeGIF writes img to w in GIF format.  Paletted images are
// written as is, others are reduced to at most n colours by median
// cut.
func EncodeGIF(w io.Writer, img image.Image, n int) error {
	pm, _ := img.(*image.Paletted)
	if pm == nil {
		n = min(max(n, 2), 256)
		q := quantize.MedianCutQuantizer{}
		b := img.Bounds()
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, n), img))
		draw.Draw(pm, b, img, b.Min, draw.Src)
	}
	return gif.Encode(w, pm, &gif.Options{NumColors: len(pm.Palette)})
}
