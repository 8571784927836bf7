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
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"seehuhn.de/go/pdfstamp/document"
	"seehuhn.de/go/pdfstamp/pdf"
)

// JPEG is an image which is stored as JPEG data.  The data is copied into
// the PDF file unchanged, using the /DCTDecode filter.
type JPEG struct {
	data          []byte
	width, height int
	colorSpace    pdf.Name

	refs map[pdf.OwnerID]pdf.Ref
}

// NewJPEG prepares JPEG-encoded data for embedding.  Only the image
// header is decoded.
func NewJPEG(data []byte) (*JPEG, error) {
	conf, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pdf.ErrInvalidImage, err)
	}

	var cs pdf.Name
	switch conf.ColorModel {
	case color.GrayModel:
		cs = "DeviceGray"
	case color.YCbCrModel, color.RGBAModel:
		cs = "DeviceRGB"
	case color.CMYKModel:
		cs = "DeviceCMYK"
	default:
		return nil, fmt.Errorf("%w: unsupported JPEG color model", pdf.ErrInvalidImage)
	}

	return &JPEG{
		data:       bytes.Clone(data),
		width:      conf.Width,
		height:     conf.Height,
		colorSpace: cs,
		refs:       make(map[pdf.OwnerID]pdf.Ref),
	}, nil
}

// EncodeJPEG converts src to a JPEG image, using lossy compression.
func EncodeJPEG(src image.Image, opts *jpeg.Options) (*JPEG, error) {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.Join(pdf.ErrInvalidImage, errors.New("empty image"))
	}
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)

	buf := &bytes.Buffer{}
	err := jpeg.Encode(buf, img, opts)
	if err != nil {
		return nil, err
	}
	return NewJPEG(buf.Bytes())
}

// Size implements the [Image] interface.
func (im *JPEG) Size() (int, int) {
	return im.width, im.height
}

// ColorSpace returns the name of the PDF color space of the image.
func (im *JPEG) ColorSpace() pdf.Name {
	return im.colorSpace
}

// Embed implements the [Image] interface.
func (im *JPEG) Embed(doc *document.Document) (pdf.Ref, error) {
	if ref, ok := im.refs[doc.ID()]; ok {
		return ref, nil
	}
	if im.width <= 0 || im.height <= 0 {
		return pdf.Ref{}, fmt.Errorf("%dx%d JPEG: %w", im.width, im.height, pdf.ErrInvalidImage)
	}

	dict := xObjectDict(im.width, im.height, im.colorSpace, 8)
	dict["Filter"] = pdf.Name("DCTDecode")
	if im.colorSpace == "DeviceCMYK" {
		// Adobe applications write inverted CMYK data
		dict["Decode"] = pdf.Array{
			pdf.Integer(1), pdf.Integer(0),
			pdf.Integer(1), pdf.Integer(0),
			pdf.Integer(1), pdf.Integer(0),
			pdf.Integer(1), pdf.Integer(0),
		}
	}

	ref, err := doc.Alloc()
	if err != nil {
		return pdf.Ref{}, err
	}
	err = doc.Put(ref, &pdf.Stream{Dict: dict, R: bytes.NewReader(im.data)})
	if err != nil {
		return pdf.Ref{}, err
	}

	im.refs[doc.ID()] = ref
	return ref, nil
}
