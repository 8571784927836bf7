// seehuhn.de/go/pdfstamp - image stamp annotations for PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package image

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	"seehuhn.de/go/pdfstamp/document"
	"seehuhn.de/go/pdfstamp/pdf"
)

// Raster is an image which is embedded losslessly, using Flate
// compression.  If any pixel is not fully opaque, the alpha channel is
// stored as a soft mask.
//
// A Raster holds a private copy of the pixel data; later changes to the
// source image have no effect.
type Raster struct {
	img *image.NRGBA

	refs map[pdf.OwnerID]pdf.Ref
}

// NewRaster copies the pixels of src into a new Raster.
func NewRaster(src image.Image) *Raster {
	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
	return &Raster{
		img:  img,
		refs: make(map[pdf.OwnerID]pdf.Ref),
	}
}

// Size implements the [Image] interface.
func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// Embed implements the [Image] interface.
func (r *Raster) Embed(doc *document.Document) (pdf.Ref, error) {
	if ref, ok := r.refs[doc.ID()]; ok {
		return ref, nil
	}

	width, height := r.Size()
	if width <= 0 || height <= 0 {
		return pdf.Ref{}, fmt.Errorf("%dx%d raster: %w", width, height, pdf.ErrInvalidImage)
	}

	rgb := make([]byte, 0, 3*width*height)
	alpha := make([]byte, 0, width*height)
	opaque := true
	for y := range height {
		row := r.img.Pix[y*r.img.Stride : y*r.img.Stride+4*width]
		for x := range width {
			px := row[4*x : 4*x+4]
			rgb = append(rgb, px[0], px[1], px[2])
			alpha = append(alpha, px[3])
			if px[3] != 0xFF {
				opaque = false
			}
		}
	}

	dict := xObjectDict(width, height, "DeviceRGB", 8)
	if !opaque {
		maskRef, err := embedFlate(doc, xObjectDict(width, height, "DeviceGray", 8), alpha)
		if err != nil {
			return pdf.Ref{}, err
		}
		dict["SMask"] = maskRef
	}
	ref, err := embedFlate(doc, dict, rgb)
	if err != nil {
		return pdf.Ref{}, err
	}

	r.refs[doc.ID()] = ref
	return ref, nil
}

func embedFlate(doc *document.Document, dict pdf.Dict, data []byte) (pdf.Ref, error) {
	enc, err := pdf.FlateEncode(data)
	if err != nil {
		return pdf.Ref{}, err
	}
	dict["Filter"] = pdf.Name("FlateDecode")

	ref, err := doc.Alloc()
	if err != nil {
		return pdf.Ref{}, err
	}
	err = doc.Put(ref, &pdf.Stream{Dict: dict, R: bytes.NewReader(enc)})
	if err != nil {
		return pdf.Ref{}, err
	}
	return ref, nil
}
