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
	"slices"

	"seehuhn.de/go/pdfstamp/pdf"
)

var errNumberedReference = errors.New("numbered references cannot be stored in a document")

// forEachRef calls fn for every Ref contained in obj, in a deterministic
// order.  Numbered references are rejected.
func forEachRef(obj pdf.Object, fn func(pdf.Ref) error) error {
	switch obj := obj.(type) {
	case pdf.Ref:
		return fn(obj)
	case pdf.Reference:
		return fmt.Errorf("%s: %w", obj, errNumberedReference)
	case pdf.Array:
		for _, elem := range obj {
			err := forEachRef(elem, fn)
			if err != nil {
				return err
			}
		}
	case pdf.Dict:
		for _, key := range sortedKeys(obj) {
			err := forEachRef(obj[key], fn)
			if err != nil {
				return err
			}
		}
	case *pdf.Stream:
		return forEachRef(obj.Dict, fn)
	case *memStream:
		return forEachRef(obj.dict, fn)
	}
	return nil
}

// toFile returns a copy of obj with every Ref replaced by the corresponding
// numbered reference.
func toFile(obj pdf.Object, number func(pdf.Ref) (pdf.Reference, error)) (pdf.Object, error) {
	switch obj := obj.(type) {
	case pdf.Ref:
		return number(obj)
	case pdf.Array:
		res := make(pdf.Array, len(obj))
		for i, elem := range obj {
			conv, err := toFile(elem, number)
			if err != nil {
				return nil, err
			}
			res[i] = conv
		}
		return res, nil
	case pdf.Dict:
		res := make(pdf.Dict, len(obj))
		for key, val := range obj {
			if val == nil {
				continue
			}
			conv, err := toFile(val, number)
			if err != nil {
				return nil, err
			}
			res[key] = conv
		}
		return res, nil
	case *memStream:
		dict, err := toFile(obj.dict, number)
		if err != nil {
			return nil, err
		}
		return &memStream{dict: dict.(pdf.Dict), data: obj.data}, nil
	default:
		return obj, nil
	}
}

// fromFile returns a copy of obj with every numbered reference replaced by
// the result of ref.  Streams must have been converted to memStream
// values before.
func fromFile(obj pdf.Object, ref func(pdf.Reference) pdf.Object) pdf.Object {
	switch obj := obj.(type) {
	case pdf.Reference:
		return ref(obj)
	case pdf.Array:
		res := make(pdf.Array, len(obj))
		for i, elem := range obj {
			res[i] = fromFile(elem, ref)
		}
		return res
	case pdf.Dict:
		res := make(pdf.Dict, len(obj))
		for key, val := range obj {
			conv := fromFile(val, ref)
			if conv != nil {
				res[key] = conv
			}
		}
		return res
	case *memStream:
		return &memStream{dict: fromFile(obj.dict, ref).(pdf.Dict), data: obj.data}
	default:
		return obj
	}
}

func sortedKeys(dict pdf.Dict) []pdf.Name {
	keys := make([]pdf.Name, 0, len(dict))
	for key := range dict {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
