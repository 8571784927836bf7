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
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"seehuhn.de/go/pdfstamp/pdf"
)

// Producer is the value of the /Producer entry in the document
// information dictionary.
const Producer = "seehuhn.de/go/pdfstamp"

// Save writes the document to w as a complete PDF file.
//
// Object numbers are assigned in breadth-first order, starting with the
// catalog.  Objects which are not reachable from the catalog or the
// document information dictionary are not written.  After Save returns
// successfully, references to the written objects can be resolved using
// [Document.Get].
func (d *Document) Save(w io.Writer) error {
	if d.closed {
		return ErrClosed
	}

	err := d.updateCatalog()
	if err != nil {
		return err
	}

	order, numbers, err := d.number()
	if err != nil {
		return err
	}
	numberOf := func(ref pdf.Ref) (pdf.Reference, error) {
		if ref.Owner() != d.id {
			return 0, fmt.Errorf("%s: %w", ref, pdf.ErrOwnerMismatch)
		}
		n, ok := numbers[ref.Slot()]
		if !ok {
			return 0, fmt.Errorf("%s: %w", ref, pdf.ErrUnresolvedReference)
		}
		return n, nil
	}

	out, err := pdf.NewWriter(w, d.version)
	if err != nil {
		return err
	}
	for _, ref := range order {
		obj, err := toFile(d.objects[ref.Slot()], numberOf)
		if err != nil {
			return err
		}
		err = out.Put(numbers[ref.Slot()], obj)
		if err != nil {
			return err
		}
	}

	trailer := pdf.Dict{
		"Root": numbers[d.catalog.Slot()],
	}
	if !d.info.IsZero() {
		trailer["Info"] = numbers[d.info.Slot()]
	}
	err = out.Close(trailer)
	if err != nil {
		return err
	}

	d.numbers = numbers
	d.numbered = true

	d.log.WithFields(logrus.Fields{
		"written": len(order),
		"skipped": len(d.objects) - len(order),
		"pages":   len(d.pageList),
	}).Debug("document saved")

	return nil
}

// updateCatalog writes the page tree, the catalog entries and the
// document information dictionary into the object table.
func (d *Document) updateCatalog() error {
	kids := make(pdf.Array, len(d.pageList))
	for i, p := range d.pageList {
		d.objects[p.Ref.Slot()] = p.pageDict(d.pages)
		kids[i] = p.Ref
	}
	pages, _ := d.objects[d.pages.Slot()].(pdf.Dict)
	if pages == nil {
		pages = pdf.Dict{}
		d.objects[d.pages.Slot()] = pages
	}
	pages["Type"] = pdf.Name("Pages")
	pages["Kids"] = kids
	pages["Count"] = pdf.Integer(len(kids))
	delete(pages, "Parent")

	catalog, ok := d.objects[d.catalog.Slot()].(pdf.Dict)
	if !ok {
		return fmt.Errorf("%s: catalog is not a dictionary", d.catalog)
	}
	catalog["Type"] = pdf.Name("Catalog")
	catalog["Pages"] = d.pages
	if d.lang != language.Und {
		catalog["Lang"] = pdf.TextString(d.lang.String())
	} else {
		delete(catalog, "Lang")
	}

	err := d.writeMetadata(catalog)
	if err != nil {
		return err
	}

	if !d.info.IsZero() {
		info, _ := d.objects[d.info.Slot()].(pdf.Dict)
		if info == nil {
			info = pdf.Dict{}
			d.objects[d.info.Slot()] = info
		}
		info["Producer"] = pdf.TextString(Producer)
	}
	return nil
}

// number assigns object numbers to all objects reachable from the
// catalog and the information dictionary.
func (d *Document) number() ([]pdf.Ref, map[uint32]pdf.Reference, error) {
	numbers := make(map[uint32]pdf.Reference)
	var order []pdf.Ref

	visit := func(ref pdf.Ref) error {
		err := d.checkRef(ref)
		if err != nil {
			return err
		}
		if _, seen := numbers[ref.Slot()]; seen {
			return nil
		}
		numbers[ref.Slot()] = pdf.NewReference(uint32(len(order)+1), 0)
		order = append(order, ref)
		return nil
	}

	roots := []pdf.Ref{d.catalog}
	if !d.info.IsZero() {
		roots = append(roots, d.info)
	}
	for _, ref := range roots {
		err := visit(ref)
		if err != nil {
			return nil, nil, err
		}
	}
	for i := 0; i < len(order); i++ {
		err := forEachRef(d.objects[order[i].Slot()], visit)
		if err != nil {
			return nil, nil, err
		}
	}

	return order, numbers, nil
}
