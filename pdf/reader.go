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

package pdf

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
)

// Reader gives access to the objects of a PDF file.
//
// Only files with classic cross-reference tables are supported.
// Cross-reference streams, object streams and encryption are not.
type Reader struct {
	// Version is the PDF version from the file header.
	Version Version

	r       io.ReaderAt
	size    int64
	xref    map[uint32]*xRefEntry
	trailer Dict

	cache      map[Reference]Object
	inProgress map[Reference]bool
}

// NewReader creates a new Reader object for the PDF file stored in data.
func NewReader(data io.ReaderAt, size int64) (*Reader, error) {
	r := &Reader{
		r:          data,
		size:       size,
		cache:      make(map[Reference]Object),
		inProgress: make(map[Reference]bool),
	}

	s := r.scannerAt(0)
	ver, err := s.readHeaderVersion()
	if err != nil {
		return nil, err
	}
	r.Version = ver

	xref, trailer, err := r.readXRef()
	if err != nil {
		return nil, err
	}
	if _, isEncrypted := trailer["Encrypt"]; isEncrypted {
		return nil, fmt.Errorf("encrypted file: %w", errors.ErrUnsupported)
	}
	r.xref = xref
	r.trailer = trailer

	return r, nil
}

// Trailer returns the trailer dictionary of the file.
// The dictionary holds the /Root, /Info and /ID entries, if present.
func (r *Reader) Trailer() Dict {
	return r.trailer
}

// Objects returns the references of all objects which are marked as
// in use in the cross-reference table, ordered by object number.
func (r *Reader) Objects() []Reference {
	var res []Reference
	for number, entry := range r.xref {
		if number == 0 || entry.Pos < 0 {
			continue
		}
		res = append(res, NewReference(number, entry.Generation))
	}
	slices.SortFunc(res, func(a, b Reference) int {
		return cmp.Compare(a.Number(), b.Number())
	})
	return res
}

// Get reads an indirect object from the file.
// Free or missing objects are returned as null, as required by the
// PDF specification.
func (r *Reader) Get(ref Reference) (Object, error) {
	if obj, ok := r.cache[ref]; ok {
		return obj, nil
	}

	entry := r.xref[ref.Number()]
	if entry == nil || entry.Pos < 0 || entry.Generation != ref.Generation() {
		return nil, nil
	}
	if entry.Pos >= r.size {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("object %s beyond end of file", ref),
		}
	}

	if r.inProgress[ref] {
		return nil, &MalformedFileError{
			Pos: entry.Pos,
			Err: fmt.Errorf("object %s refers to itself", ref),
		}
	}
	r.inProgress[ref] = true
	defer delete(r.inProgress, ref)

	s := r.scannerAt(entry.Pos)
	obj, fileRef, err := s.ReadIndirectObject()
	if err != nil {
		return nil, err
	}
	if fileRef != ref {
		return nil, &MalformedFileError{
			Pos: entry.Pos,
			Err: fmt.Errorf("expected object %s but found %s", ref, fileRef),
		}
	}

	if _, isStream := obj.(*Stream); !isStream {
		r.cache[ref] = obj
	}
	return obj, nil
}

func (r *Reader) scannerAt(pos int64) *scanner {
	return newScanner(r.r, pos, r.size, r.getInt)
}

// getInt resolves the /Length entry of a stream.
func (r *Reader) getInt(obj Object) (Integer, error) {
	if ref, isReference := obj.(Reference); isReference {
		var err error
		obj, err = r.Get(ref)
		if err != nil {
			return 0, err
		}
	}
	x, ok := obj.(Integer)
	if !ok {
		return 0, &MalformedFileError{
			Err: fmt.Errorf("invalid stream length %s", Format(obj)),
		}
	}
	return x, nil
}
