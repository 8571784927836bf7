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

package annotation

import (
	"maps"

	"seehuhn.de/go/pdfstamp/annotation/appearance"
	"seehuhn.de/go/pdfstamp/document"
	"seehuhn.de/go/pdfstamp/graphics/form"
	"seehuhn.de/go/pdfstamp/image"
	"seehuhn.de/go/pdfstamp/schema"
)

// NewImageStamp creates a new stamp annotation in doc which shows img.
// The rectangle of the annotation is the zero rectangle; use
// [Annotation.SetRect] to place the stamp.
func NewImageStamp(doc *document.Document, img image.Image) (*Annotation, error) {
	a, err := New(doc)
	if err != nil {
		return nil, err
	}
	err = AttachImageStamp(a, img)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// AttachImageStamp turns a into a stamp annotation which shows img.
//
// The normal appearance is a form which paints img at one unit per pixel,
// with the origin at the lower left corner of the image.  The annotation
// rectangle is not changed.
//
// If an error is returned, the annotation dictionary is left unchanged.
func AttachImageStamp(a *Annotation, img image.Image) error {
	f, err := form.FromImage(a.doc, img)
	if err != nil {
		return err
	}

	ap, err := (&appearance.Dict{Normal: f.Ref}).AsDict()
	if err != nil {
		return err
	}

	update := schema.NewElements(StampTable, maps.Clone(a.elem.Dict))
	err = update.SetName("Subtype", "Stamp")
	if err != nil {
		return err
	}
	err = update.SetName("IT", "StampImage")
	if err != nil {
		return err
	}
	err = update.Set("AP", ap)
	if err != nil {
		return err
	}
	// /Name is only used by stamps with /IT /Stamp
	delete(update.Dict, "Name")

	// The dictionary is shared with the document, so it is updated in
	// place.
	dict := a.elem.Dict
	delete(dict, "Name")
	maps.Copy(dict, update.Dict)
	a.elem = schema.NewElements(StampTable, dict)
	return nil
}
