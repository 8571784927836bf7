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

package form

import (
	"bytes"
	"errors"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfstamp/document"
	"seehuhn.de/go/pdfstamp/graphics"
	"seehuhn.de/go/pdfstamp/image"
	"seehuhn.de/go/pdfstamp/pdf"
)

var errFinished = errors.New("form: Finish already called")

// Builder records the content of a new Form XObject.
//
// Errors are sticky.  They are reported by [Builder.Finish].
type Builder struct {
	*graphics.Writer

	// Matrix, if not the identity, is written to the form dictionary.
	Matrix matrix.Matrix

	doc  *document.Document
	bbox rect.Rect
	buf  *bytes.Buffer
	done bool
}

// NewBuilder starts a new form with the given bounding box.
func NewBuilder(doc *document.Document, bbox rect.Rect) *Builder {
	buf := &bytes.Buffer{}
	return &Builder{
		Writer: graphics.NewWriter(buf),
		Matrix: matrix.Identity,
		doc:    doc,
		bbox:   bbox,
		buf:    buf,
	}
}

// DrawImage embeds img in the document and paints it into the
// rectangle with lower left corner (x, y) and the given size.
func (b *Builder) DrawImage(img image.Image, x, y, width, height float64) {
	if b.Err != nil {
		return
	}
	if b.done {
		b.Err = errFinished
		return
	}
	ref, err := img.Embed(b.doc)
	if err != nil {
		b.Err = err
		return
	}
	b.Writer.DrawImage(ref, x, y, width, height)
}

// Finish writes the form to the document.
func (b *Builder) Finish() (*Form, error) {
	if b.done {
		return nil, errFinished
	}
	b.done = true

	err := b.Writer.Close()
	if err != nil {
		return nil, err
	}

	content := bytes.Clone(b.buf.Bytes())
	data, err := pdf.FlateEncode(content)
	if err != nil {
		return nil, err
	}

	dict := pdf.Dict{
		"Type":      pdf.Name("XObject"),
		"Subtype":   pdf.Name("Form"),
		"FormType":  pdf.Integer(1),
		"BBox":      pdf.RectangleArray(b.bbox),
		"Resources": b.Resources,
		"Filter":    pdf.Name("FlateDecode"),
	}
	if b.Matrix != matrix.Identity {
		m := make(pdf.Array, len(b.Matrix))
		for i, x := range b.Matrix {
			m[i] = pdf.Number(x)
		}
		dict["Matrix"] = m
	}

	ref, err := b.doc.Alloc()
	if err != nil {
		return nil, err
	}
	err = b.doc.Put(ref, &pdf.Stream{Dict: dict, R: bytes.NewReader(data)})
	if err != nil {
		return nil, err
	}

	return &Form{
		Ref:       ref,
		BBox:      b.bbox,
		Matrix:    b.Matrix,
		Resources: b.Resources,
		Content:   content,
	}, nil
}
