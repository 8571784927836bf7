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

// Package form implements PDF Form XObjects.
//
// The main entry point is [FromImage], which wraps an image into a form
// whose coordinate system has its origin at the lower left corner of the
// image and one unit per pixel.  Such forms are used as appearance streams
// for image stamp annotations.
//
// See section 8.10 of ISO 32000-2:2020 for details.
package form

import (
	"fmt"
	"io"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pdfstamp/document"
	"seehuhn.de/go/pdfstamp/image"
	"seehuhn.de/go/pdfstamp/pdf"
)

// Form represents a Form XObject stored in a document.
//
// The extent of a form is fixed when the form is created.
type Form struct {
	// Ref is the reference of the form stream.
	Ref pdf.Ref

	// BBox is the bounding box of the form, in form coordinates.
	BBox rect.Rect

	// Matrix maps form coordinates to the coordinates of the enclosing
	// content.
	Matrix matrix.Matrix

	// Resources is the resource dictionary of the form.
	Resources pdf.Dict

	// Content is the decoded content stream.
	Content []byte
}

// Extent returns the width and height of the bounding box.
func (f *Form) Extent() vec.Vec2 {
	return vec.Vec2{X: f.BBox.Dx(), Y: f.BBox.Dy()}
}

// FromImage creates a form which paints img at its native size.  The
// bounding box of the form is [0 0 w h], where w and h are the image
// dimensions in pixels.
//
// The function fails with [pdf.ErrInvalidImage] if img is nil or has
// non-positive dimensions, and with [pdf.ErrOwnerMismatch] if img is
// stored in a different document.  Nothing is added to doc in these cases.
func FromImage(doc *document.Document, img image.Image) (*Form, error) {
	if img == nil {
		return nil, fmt.Errorf("form: missing image: %w", pdf.ErrInvalidImage)
	}
	width, height := img.Size()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("form: %dx%d image: %w", width, height, pdf.ErrInvalidImage)
	}
	if owned, ok := img.(image.Owned); ok && owned.Owner() != doc.ID() {
		return nil, fmt.Errorf("form: image from document %d: %w",
			owned.Owner(), pdf.ErrOwnerMismatch)
	}

	w, h := float64(width), float64(height)
	b := NewBuilder(doc, rect.Rect{URx: w, URy: h})
	b.DrawImage(img, 0, 0, w, h)
	return b.Finish()
}

// Decode reads a Form XObject from a document.
func Decode(r pdf.Getter, obj pdf.Object) (*Form, error) {
	stm, err := pdf.GetStream(r, obj)
	if err != nil {
		return nil, err
	}
	if stm == nil {
		return nil, &pdf.MalformedFileError{Err: fmt.Errorf("missing form XObject")}
	}
	if subtype, err := pdf.GetName(r, stm.Dict["Subtype"]); err != nil {
		return nil, err
	} else if subtype != "Form" {
		return nil, &pdf.MalformedFileError{
			Err: fmt.Errorf("expected XObject subtype Form but got %q", subtype),
		}
	}

	f := &Form{Matrix: matrix.Identity}
	if ref, ok := obj.(pdf.Ref); ok {
		f.Ref = ref
	}

	f.BBox, err = pdf.GetRectangle(r, stm.Dict["BBox"])
	if err != nil {
		return nil, fmt.Errorf("form BBox: %w", err)
	}

	if m, err := pdf.GetArray(r, stm.Dict["Matrix"]); err != nil {
		return nil, err
	} else if m != nil {
		if len(m) != 6 {
			return nil, &pdf.MalformedFileError{
				Err: fmt.Errorf("form Matrix: expected 6 numbers, got %d", len(m)),
			}
		}
		for i, x := range m {
			xi, err := pdf.GetNumber(r, x)
			if err != nil {
				return nil, fmt.Errorf("form Matrix: %w", err)
			}
			f.Matrix[i] = float64(xi)
		}
	}

	f.Resources, err = pdf.GetDict(r, stm.Dict["Resources"])
	if err != nil {
		return nil, fmt.Errorf("form Resources: %w", err)
	}

	body, err := stm.Decode(r)
	if err != nil {
		return nil, err
	}
	f.Content, err = io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	return f, nil
}
