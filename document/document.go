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

// Package document implements an in-memory PDF document.
//
// A [Document] holds the indirect objects of a PDF file in an object
// table.  Objects are addressed by [pdf.Ref] values, which combine the ID
// of the owning document with a slot in the table.  Object numbers are
// only assigned when the document is written using [Document.Save]; only
// objects reachable from the document catalog are written.
//
// A Document is not safe for concurrent use.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfstamp/pdf"
)

// ErrClosed is returned when a closed document is used.
var ErrClosed = errors.New("document closed")

// Options can be used to configure a new document.
type Options struct {
	// Logger receives diagnostic messages.  If this is nil, messages
	// are discarded.
	Logger logrus.FieldLogger

	// Language is the natural language of the document, stored in
	// the /Lang entry of the catalog.  The zero value omits the entry.
	Language language.Tag

	// Version is the PDF version used when saving.  The default is
	// PDF 1.7.
	Version pdf.Version
}

var lastOwnerID atomic.Uint64

// Document is a PDF document held in memory.
type Document struct {
	id      pdf.OwnerID
	log     logrus.FieldLogger
	lang    language.Tag
	version pdf.Version

	objects []pdf.Object

	// numbers maps slots to the object numbers from the latest save or
	// load.  Slots which were not reachable are absent.
	numbers  map[uint32]pdf.Reference
	numbered bool

	catalog pdf.Ref
	pages   pdf.Ref
	info    pdf.Ref

	pageList []*Page
	placed   map[pdf.Ref]*Page

	meta     *xmp.Packet
	metaRef  pdf.Ref
	metaRead bool

	closed bool
}

// New creates a new, empty document.
func New(opt *Options) *Document {
	if opt == nil {
		opt = &Options{}
	}
	d := newDocument(opt)

	d.catalog = d.alloc()
	d.pages = d.alloc()
	d.info = d.alloc()
	d.objects[d.catalog.Slot()] = pdf.Dict{
		"Type":  pdf.Name("Catalog"),
		"Pages": d.pages,
	}
	d.objects[d.pages.Slot()] = pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  pdf.Array{},
		"Count": pdf.Integer(0),
	}
	d.objects[d.info.Slot()] = pdf.Dict{}
	d.metaRead = true

	return d
}

func newDocument(opt *Options) *Document {
	logger := opt.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	version := opt.Version
	if version == 0 {
		version = pdf.V1_7
	}

	id := pdf.OwnerID(lastOwnerID.Add(1))
	return &Document{
		id:      id,
		log:     logger.WithField("document", uint64(id)),
		lang:    opt.Language,
		version: version,
		placed:  make(map[pdf.Ref]*Page),
	}
}

// ID returns the owner ID of the document.  All references to objects of
// this document carry this ID.
func (d *Document) ID() pdf.OwnerID {
	return d.id
}

// Language returns the natural language of the document.
func (d *Document) Language() language.Tag {
	return d.lang
}

// SetLanguage sets the natural language of the document.
func (d *Document) SetLanguage(lang language.Tag) {
	d.lang = lang
}

// Alloc allocates a new indirect object.  The object is null until a value
// is stored using [Document.Put].
func (d *Document) Alloc() (pdf.Ref, error) {
	if d.closed {
		return pdf.Ref{}, ErrClosed
	}
	return d.alloc(), nil
}

func (d *Document) alloc() pdf.Ref {
	slot := uint32(len(d.objects))
	d.objects = append(d.objects, nil)
	return pdf.NewRef(d.id, slot)
}

// Put stores obj as the value of the indirect object ref.
//
// The function fails with [pdf.ErrOwnerMismatch] if ref, or any reference
// contained in obj, belongs to a different document.  The data of streams
// is read immediately.
func (d *Document) Put(ref pdf.Ref, obj pdf.Object) error {
	if d.closed {
		return ErrClosed
	}
	err := d.checkRef(ref)
	if err != nil {
		return err
	}
	err = forEachRef(obj, d.checkRef)
	if err != nil {
		return err
	}

	if stm, isStream := obj.(*pdf.Stream); isStream {
		var data []byte
		if stm.R != nil {
			data, err = io.ReadAll(stm.R)
			if err != nil {
				return err
			}
		}
		obj = &memStream{dict: stm.Dict, data: data}
	}
	d.objects[ref.Slot()] = obj
	return nil
}

func (d *Document) checkRef(ref pdf.Ref) error {
	if ref.Owner() != d.id {
		return fmt.Errorf("%s in document %d: %w", ref, d.id, pdf.ErrOwnerMismatch)
	}
	if ref.Slot() >= uint32(len(d.objects)) {
		return fmt.Errorf("%s: invalid slot: %w", ref, pdf.ErrUnresolvedReference)
	}
	return nil
}

// Get returns the value of an indirect object.
// This implements the [pdf.Getter] interface.
//
// References can only be resolved after object numbers have been assigned
// by [Document.Save] or [Load], and only for objects which were reachable
// at that time.  Otherwise [pdf.ErrUnresolvedReference] is returned.
func (d *Document) Get(ref pdf.Ref) (pdf.Object, error) {
	if d.closed {
		return nil, ErrClosed
	}
	err := d.checkRef(ref)
	if err != nil {
		return nil, err
	}
	if _, isNumbered := d.numbers[ref.Slot()]; !d.numbered || !isNumbered {
		return nil, fmt.Errorf("%s: %w", ref, pdf.ErrUnresolvedReference)
	}
	return d.lookup(ref), nil
}

// Resolve follows references until a direct object is found.
func (d *Document) Resolve(obj pdf.Object) (pdf.Object, error) {
	return pdf.Resolve(d, obj)
}

// Number returns the object number which was assigned to ref by the most
// recent call to [Document.Save] or [Load].
func (d *Document) Number(ref pdf.Ref) (pdf.Reference, bool) {
	if ref.Owner() != d.id {
		return 0, false
	}
	n, ok := d.numbers[ref.Slot()]
	return n, ok
}

// lookup returns the stored value without checking the numbering state.
// The caller must have validated ref.
func (d *Document) lookup(ref pdf.Ref) pdf.Object {
	obj := d.objects[ref.Slot()]
	if stm, isStream := obj.(*memStream); isStream {
		return stm.stream()
	}
	return obj
}

// Dict returns the dictionary stored in the given object, bypassing the
// numbering check.  This is used by packages which build the object graph.
// The returned map is shared with the document.
func (d *Document) Dict(ref pdf.Ref) (pdf.Dict, error) {
	if d.closed {
		return nil, ErrClosed
	}
	err := d.checkRef(ref)
	if err != nil {
		return nil, err
	}
	switch obj := d.objects[ref.Slot()].(type) {
	case pdf.Dict:
		return obj, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("%s: expected Dict but got %T", ref, obj)
	}
}

// Catalog returns the reference of the document catalog.
func (d *Document) Catalog() pdf.Ref {
	return d.catalog
}

// Close releases the object table.  After Close, all methods which
// access objects fail with [ErrClosed].
func (d *Document) Close() error {
	if d.closed {
		return ErrClosed
	}
	d.closed = true
	d.objects = nil
	d.numbers = nil
	d.pageList = nil
	d.placed = nil
	return nil
}

// memStream is a stream whose data is held in memory.
type memStream struct {
	dict pdf.Dict
	data []byte
}

func (s *memStream) stream() *pdf.Stream {
	return &pdf.Stream{Dict: s.dict, R: bytes.NewReader(s.data)}
}

// PDF implements the [pdf.Object] interface.
func (s *memStream) PDF(w io.Writer) error {
	return s.stream().PDF(w)
}

// Default paper sizes.
var (
	A4     = rect.Rect{URx: 595.276, URy: 841.890}
	A5     = rect.Rect{URx: 420.945, URy: 595.276}
	Letter = rect.Rect{URx: 612, URy: 792}
)
