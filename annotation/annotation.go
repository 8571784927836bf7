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
	"errors"
	"fmt"
	"time"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pdfstamp/annotation/appearance"
	"seehuhn.de/go/pdfstamp/document"
	"seehuhn.de/go/pdfstamp/pdf"
	"seehuhn.de/go/pdfstamp/schema"
)

// Annotation is an annotation dictionary stored in a document.
//
// The dictionary is held in its own indirect object.  Changes made through
// the methods of Annotation are visible in the document immediately.
type Annotation struct {
	doc  *document.Document
	ref  pdf.Ref
	elem *schema.Elements
}

var _ document.Annotation = (*Annotation)(nil)

var errNoDict = errors.New("no annotation dictionary")

// New allocates a new annotation dictionary in doc.  The dictionary has
// /Type /Annot and the zero rectangle as /Rect.  The /Subtype is not
// set, so the annotation cannot be placed on a page until a subtype has
// been chosen.
func New(doc *document.Document) (*Annotation, error) {
	ref, err := doc.Alloc()
	if err != nil {
		return nil, err
	}

	elem := schema.NewElements(AnnotTable, nil)
	err = elem.SetName("Type", "Annot")
	if err != nil {
		return nil, err
	}
	err = elem.SetRect("Rect", rect.Rect{})
	if err != nil {
		return nil, err
	}

	err = doc.Put(ref, elem.Dict)
	if err != nil {
		return nil, err
	}
	return &Annotation{doc: doc, ref: ref, elem: elem}, nil
}

// Decode wraps an existing annotation dictionary of doc.  The key table
// is chosen according to the /Subtype entry.  The object must already
// hold a dictionary.
func Decode(doc *document.Document, ref pdf.Ref) (*Annotation, error) {
	dict, err := doc.Dict(ref)
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, fmt.Errorf("%s: %w", ref, errNoDict)
	}
	if tp, ok := dict["Type"].(pdf.Name); ok && tp != "Annot" {
		return nil, &pdf.MalformedFileError{
			Err: fmt.Errorf("%s: expected /Type /Annot but got %s", ref, tp),
		}
	}
	subtype, _ := dict["Subtype"].(pdf.Name)
	elem := schema.NewElements(tableFor(string(subtype)), dict)
	return &Annotation{doc: doc, ref: ref, elem: elem}, nil
}

// Reference returns the indirect object which holds the annotation
// dictionary.
// This implements the [document.Annotation] interface.
func (a *Annotation) Reference() pdf.Ref {
	return a.ref
}

// Check verifies that all required entries are present.
// This implements the [document.Annotation] interface.
func (a *Annotation) Check() error {
	return a.elem.Check()
}

// Elements gives access to all entries of the annotation dictionary.
func (a *Annotation) Elements() *schema.Elements {
	return a.elem
}

// Subtype returns the annotation subtype, or the empty name if no subtype
// has been set.
func (a *Annotation) Subtype() pdf.Name {
	subtype, _ := a.elem.GetName("Subtype")
	return subtype
}

// Rect returns the annotation rectangle in default user space.
func (a *Annotation) Rect() rect.Rect {
	r, _ := a.elem.GetRect("Rect")
	return r
}

// SetRect sets the position and size of the annotation on the page.  The
// appearance is mapped into this rectangle.
func (a *Annotation) SetRect(r rect.Rect) error {
	return a.elem.SetRect("Rect", r)
}

// Location returns the lower left corner of the annotation rectangle.
func (a *Annotation) Location() vec.Vec2 {
	r := a.Rect()
	return vec.Vec2{X: r.LLx, Y: r.LLy}
}

// Size returns the width and height of the annotation rectangle.
func (a *Annotation) Size() vec.Vec2 {
	r := a.Rect()
	return vec.Vec2{X: r.Dx(), Y: r.Dy()}
}

// Appearance returns the appearance dictionary of the annotation, or nil
// if the annotation has no /AP entry.
func (a *Annotation) Appearance() (*appearance.Dict, error) {
	ap, _ := a.elem.Get("AP")
	if ref, isRef := ap.(pdf.Ref); isRef {
		dict, err := a.doc.Dict(ref)
		if err != nil {
			return nil, err
		}
		ap = dict
	}
	return appearance.Decode(a.doc, ap)
}

// Contents returns the text of the annotation.
func (a *Annotation) Contents() string {
	s, _ := a.elem.Dict["Contents"].(pdf.String)
	return s.AsTextString()
}

// SetContents sets the text which is shown for the annotation, or an
// alternate description for annotations which do not display text.
// The empty string removes the entry.
func (a *Annotation) SetContents(text string) error {
	if text == "" {
		return a.elem.Set("Contents", nil)
	}
	return a.elem.Set("Contents", pdf.TextString(text))
}

// SetModified records the time when the annotation was last modified.
func (a *Annotation) SetModified(t time.Time) error {
	return a.elem.SetDate("M", t)
}

// Flags returns the annotation flags.
func (a *Annotation) Flags() Flags {
	f, _ := a.elem.Dict["F"].(pdf.Integer)
	return Flags(f)
}

// SetFlags sets the annotation flags.
func (a *Annotation) SetFlags(f Flags) error {
	if f == 0 {
		return a.elem.Set("F", nil)
	}
	return a.elem.Set("F", pdf.Integer(f))
}
