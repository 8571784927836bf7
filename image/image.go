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

// Package image provides image XObjects which can be painted into forms.
//
// Three kinds of images are supported: [Raster] images built from Go
// [image.Image] values, [JPEG] images which are embedded without
// re-encoding, and [Embedded] images which are already present in a
// document.
package image

import (
	"seehuhn.de/go/pdfstamp/document"
	"seehuhn.de/go/pdfstamp/pdf"
)

// Image is an image which can be embedded as an image XObject.
type Image interface {
	// Size returns the width and height of the image in pixels.
	Size() (width, height int)

	// Embed adds the image to doc and returns the reference of the
	// image XObject.  Embedding the same image twice into the same
	// document returns the same reference.
	Embed(doc *document.Document) (pdf.Ref, error)
}

// Owned is implemented by images which belong to a specific document and
// can only be used there.
type Owned interface {
	Owner() pdf.OwnerID
}

// xObjectDict returns the common entries of an image XObject dictionary.
func xObjectDict(width, height int, colorSpace pdf.Name, bpc int) pdf.Dict {
	return pdf.Dict{
		"Type":             pdf.Name("XObject"),
		"Subtype":          pdf.Name("Image"),
		"Width":            pdf.Integer(width),
		"Height":           pdf.Integer(height),
		"ColorSpace":       colorSpace,
		"BitsPerComponent": pdf.Integer(bpc),
	}
}
