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

package document

import (
	"errors"
	"fmt"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfstamp/pdf"
)

// Page is a page of a document.
type Page struct {
	// Ref is the reference of the page dictionary.
	Ref pdf.Ref

	// MediaBox is the visible area of the page.
	MediaBox rect.Rect

	// Annotations holds the annotations placed on the page.
	Annotations *Annotations

	// extra holds entries of a loaded page dictionary, for example
	// /Contents and /Resources.
	extra pdf.Dict
}

// AddPage appends a new, empty page to the document.
func (d *Document) AddPage(mediaBox rect.Rect) (*Page, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if !(mediaBox.Dx() > 0 && mediaBox.Dy() > 0) {
		return nil, fmt.Errorf("invalid media box %v", mediaBox)
	}

	p := &Page{
		Ref:      d.alloc(),
		MediaBox: mediaBox,
	}
	p.Annotations = &Annotations{doc: d, page: p}
	d.pageList = append(d.pageList, p)
	return p, nil
}

// Document returns the document which contains the page.
func (p *Page) Document() *Document {
	return p.Annotations.doc
}

// Pages returns the pages of the document, in order.
func (d *Document) Pages() []*Page {
	return d.pageList
}

// Annotation is an annotation which can be placed on a page.
type Annotation interface {
	// Reference returns the indirect object holding the annotation
	// dictionary.
	Reference() pdf.Ref

	// Check verifies that all required entries are present.
	Check() error
}

// ErrAlreadyPlaced is returned when an annotation is added to a page, but
// is already placed on a page.
var ErrAlreadyPlaced = errors.New("annotation is already placed on a page")

// Annotations is the list of annotations of a page.
type Annotations struct {
	doc  *Document
	page *Page
	refs []pdf.Ref
}

// Add appends an annotation to the page and sets its /P entry.
//
// The annotation must belong to the same document as the page, it must
// pass its own consistency check, and it must not yet be placed on any
// page.
func (a *Annotations) Add(annot Annotation) error {
	d := a.doc
	if d.closed {
		return ErrClosed
	}
	if annot == nil {
		return errors.New("missing annotation")
	}
	ref := annot.Reference()
	err := d.checkRef(ref)
	if err != nil {
		return err
	}
	err = annot.Check()
	if err != nil {
		return err
	}
	if _, seen := d.placed[ref]; seen {
		return fmt.Errorf("%s: %w", ref, ErrAlreadyPlaced)
	}
	dict, ok := d.objects[ref.Slot()].(pdf.Dict)
	if !ok {
		return fmt.Errorf("%s: annotation is not a dictionary", ref)
	}
	err = forEachRef(dict, d.checkRef)
	if err != nil {
		return err
	}

	dict["P"] = a.page.Ref
	a.refs = append(a.refs, ref)
	d.placed[ref] = a.page
	return nil
}

// Len returns the number of annotations on the page.
func (a *Annotations) Len() int {
	return len(a.refs)
}

// At returns the reference of the i-th annotation.
func (a *Annotations) At(i int) pdf.Ref {
	return a.refs[i]
}

// All returns the references of all annotations on the page.
func (a *Annotations) All() []pdf.Ref {
	res := make([]pdf.Ref, len(a.refs))
	copy(res, a.refs)
	return res
}

// pageDict returns the page dictionary as written to the file.
func (p *Page) pageDict(parent pdf.Ref) pdf.Dict {
	dict := pdf.Dict{}
	for key, val := range p.extra {
		dict[key] = val
	}
	dict["Type"] = pdf.Name("Page")
	dict["Parent"] = parent
	dict["MediaBox"] = pdf.RectangleArray(p.MediaBox)
	if _, hasResources := dict["Resources"]; !hasResources {
		dict["Resources"] = pdf.Dict{}
	}
	if len(p.Annotations.refs) > 0 {
		annots := make(pdf.Array, len(p.Annotations.refs))
		for i, ref := range p.Annotations.refs {
			annots[i] = ref
		}
		dict["Annots"] = annots
	} else {
		delete(dict, "Annots")
	}
	return dict
}
