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
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"seehuhn.de/go/pdfstamp/pdf"
)

// maxTreeDepth limits the depth of the page tree.
const maxTreeDepth = 64

// Load reads a complete PDF file into memory.
//
// All objects listed in the cross-reference table are loaded.  The page
// tree is flattened into a plain list of pages, with inherited page
// attributes copied into each page.  Direct annotation dictionaries are
// moved into objects of their own, which are numbered after the objects of
// the file.
func Load(r io.Reader, opt *Options) (*Document, error) {
	if opt == nil {
		opt = &Options{}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	file, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	d := newDocument(opt)
	if opt.Version == 0 {
		d.version = file.Version
	}

	refs := file.Objects()
	slots := make(map[pdf.Reference]pdf.Ref, len(refs))
	d.numbers = make(map[uint32]pdf.Reference, len(refs))
	for _, num := range refs {
		ref := d.alloc()
		slots[num] = ref
		d.numbers[ref.Slot()] = num
	}
	d.numbered = true

	toRef := func(num pdf.Reference) pdf.Object {
		ref, ok := slots[num]
		if !ok {
			// references to missing objects are treated as null
			d.log.WithField("object", num.String()).Warn("dangling reference")
			return nil
		}
		return ref
	}

	for _, num := range refs {
		obj, err := file.Get(num)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", num, err)
		}
		if stm, isStream := obj.(*pdf.Stream); isStream {
			body, err := io.ReadAll(stm.R)
			if err != nil {
				return nil, fmt.Errorf("object %s: %w", num, err)
			}
			obj = &memStream{dict: stm.Dict, data: body}
		}
		d.objects[slots[num].Slot()] = fromFile(obj, toRef)
	}

	trailer := file.Trailer()
	root, ok := fromFile(trailer["Root"], toRef).(pdf.Ref)
	if !ok {
		return nil, &pdf.MalformedFileError{Err: errors.New("missing document catalog")}
	}
	d.catalog = root
	if info, ok := fromFile(trailer["Info"], toRef).(pdf.Ref); ok {
		d.info = info
	} else {
		d.info = d.alloc()
		d.objects[d.info.Slot()] = pdf.Dict{}
	}

	catalog, err := pdf.GetDict(d, d.catalog)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, &pdf.MalformedFileError{Err: errors.New("missing document catalog")}
	}
	if opt.Language == language.Und {
		d.lang = d.readLanguage(catalog["Lang"])
	}

	pagesRef, ok := catalog["Pages"].(pdf.Ref)
	if !ok {
		return nil, &pdf.MalformedFileError{Err: errors.New("missing page tree")}
	}
	d.pages = pagesRef
	err = d.readPageTree(pagesRef, nil, make(map[pdf.Ref]bool), 0)
	if err != nil {
		return nil, err
	}

	// objects created while loading are numbered after those of the file
	var last uint32
	for _, num := range d.numbers {
		last = max(last, num.Number())
	}
	for slot, obj := range d.objects {
		if _, ok := d.numbers[uint32(slot)]; ok || obj == nil {
			continue
		}
		last++
		d.numbers[uint32(slot)] = pdf.NewReference(last, 0)
	}

	d.log.WithFields(logrus.Fields{
		"objects": len(refs),
		"pages":   len(d.pageList),
		"version": d.version.String(),
	}).Debug("document loaded")

	return d, nil
}

func (d *Document) readLanguage(obj pdf.Object) language.Tag {
	s, err := pdf.GetString(d, obj)
	if err != nil || s == nil {
		return language.Und
	}
	lang, err := language.Parse(s.AsTextString())
	if err != nil {
		d.log.WithField("lang", s.AsTextString()).Warn("ignoring invalid /Lang")
		return language.Und
	}
	return lang
}

// inheritable lists the page attributes which can be inherited from
// ancestor nodes in the page tree.
var inheritable = []pdf.Name{"Resources", "MediaBox", "CropBox", "Rotate"}

func (d *Document) readPageTree(node pdf.Ref, inherited pdf.Dict, seen map[pdf.Ref]bool, depth int) error {
	if seen[node] {
		return &pdf.MalformedFileError{Err: fmt.Errorf("page tree loop at %s", node)}
	}
	if depth > maxTreeDepth {
		return &pdf.MalformedFileError{Err: errors.New("page tree too deep")}
	}
	seen[node] = true

	dict, err := pdf.GetDict(d, node)
	if err != nil {
		return err
	}
	if dict == nil {
		d.log.WithField("node", node.String()).Warn("skipping missing page tree node")
		return nil
	}

	attr := pdf.Dict{}
	for key, val := range inherited {
		attr[key] = val
	}
	for _, key := range inheritable {
		if val, ok := dict[key]; ok {
			attr[key] = val
		}
	}

	tp, _ := dict["Type"].(pdf.Name)
	_, hasKids := dict["Kids"]
	if tp == "Pages" || tp != "Page" && hasKids {
		kids, err := pdf.GetArray(d, dict["Kids"])
		if err != nil {
			return err
		}
		for _, kid := range kids {
			kidRef, ok := kid.(pdf.Ref)
			if !ok {
				d.log.WithField("node", node.String()).Warn("skipping direct page tree node")
				continue
			}
			err = d.readPageTree(kidRef, attr, seen, depth+1)
			if err != nil {
				return err
			}
		}
		return nil
	}

	return d.readPage(node, dict, attr)
}

func (d *Document) readPage(ref pdf.Ref, dict pdf.Dict, attr pdf.Dict) error {
	mediaBox, err := pdf.GetRectangle(d, attr["MediaBox"])
	if err != nil {
		return fmt.Errorf("page %d: %w", len(d.pageList)+1, err)
	}
	if mediaBox.IsZero() {
		d.log.WithField("page", len(d.pageList)+1).Warn("missing media box, using A4")
		mediaBox = A4
	}

	extra := pdf.Dict{}
	for key, val := range dict {
		switch key {
		case "Type", "Parent", "MediaBox", "Annots":
			continue
		}
		extra[key] = val
	}
	for _, key := range inheritable {
		if _, ok := extra[key]; !ok && attr[key] != nil && key != "MediaBox" {
			extra[key] = attr[key]
		}
	}

	p := &Page{
		Ref:      ref,
		MediaBox: mediaBox,
		extra:    extra,
	}
	p.Annotations = &Annotations{doc: d, page: p}

	annots, err := pdf.GetArray(d, dict["Annots"])
	if err != nil {
		return err
	}
	for _, obj := range annots {
		switch a := obj.(type) {
		case pdf.Ref:
			if _, placed := d.placed[a]; placed {
				d.log.WithField("annotation", a.String()).Warn("annotation on more than one page")
				continue
			}
			p.Annotations.refs = append(p.Annotations.refs, a)
			d.placed[a] = p
		case pdf.Dict:
			// direct annotation dictionaries are moved into their own object
			ref := d.alloc()
			d.objects[ref.Slot()] = a
			p.Annotations.refs = append(p.Annotations.refs, ref)
			d.placed[ref] = p
		case nil:
			// pass
		default:
			d.log.WithField("page", len(d.pageList)+1).Warnf("ignoring annotation of type %T", obj)
		}
	}

	d.pageList = append(d.pageList, p)
	return nil
}
