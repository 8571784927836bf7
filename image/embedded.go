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
	"fmt"

	"seehuhn.de/go/pdfstamp/document"
	"seehuhn.de/go/pdfstamp/pdf"
)

// Embedded is an image XObject which is already stored in a document.
// It can only be used within that document.
type Embedded struct {
	Ref           pdf.Ref
	Width, Height int
}

// Decode reads the dimensions of an image XObject.
func Decode(r pdf.Getter, ref pdf.Ref) (*Embedded, error) {
	stm, err := pdf.GetStream(r, ref)
	if err != nil {
		return nil, err
	}
	if stm == nil {
		return nil, fmt.Errorf("%s: missing image: %w", ref, pdf.ErrInvalidImage)
	}
	if subtype, _ := pdf.GetName(r, stm.Dict["Subtype"]); subtype != "Image" {
		return nil, fmt.Errorf("%s: not an image XObject: %w", ref, pdf.ErrInvalidImage)
	}
	width, err := pdf.GetInt(r, stm.Dict["Width"])
	if err != nil {
		return nil, err
	}
	height, err := pdf.GetInt(r, stm.Dict["Height"])
	if err != nil {
		return nil, err
	}
	return &Embedded{Ref: ref, Width: int(width), Height: int(height)}, nil
}

// Size implements the [Image] interface.
func (im *Embedded) Size() (int, int) {
	return im.Width, im.Height
}

// Owner implements the [Owned] interface.
func (im *Embedded) Owner() pdf.OwnerID {
	return im.Ref.Owner()
}

// Embed implements the [Image] interface.
// This fails with [pdf.ErrOwnerMismatch] if doc is not the document which
// holds the image.
func (im *Embedded) Embed(doc *document.Document) (pdf.Ref, error) {
	if im.Ref.Owner() != doc.ID() {
		return pdf.Ref{}, fmt.Errorf("image %s: %w", im.Ref, pdf.ErrOwnerMismatch)
	}
	return im.Ref, nil
}
