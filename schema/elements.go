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

package schema

import (
	"math"
	"time"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfstamp/pdf"
)

// Elements gives schema-checked access to the entries of a dictionary.
//
// Keys which are not declared in the governing table can still be stored
// and retrieved, but their values are not checked.
type Elements struct {
	meta *Meta

	// Dict holds the dictionary entries.
	Dict pdf.Dict
}

// NewElements returns a view of dict governed by the table t.  If dict is
// nil, a new dictionary is allocated.
func NewElements(t *Table, dict pdf.Dict) *Elements {
	if dict == nil {
		dict = pdf.Dict{}
	}
	return &Elements{meta: t.Meta(), Dict: dict}
}

// Meta returns the key table governing e.
func (e *Elements) Meta() *Meta {
	return e.meta
}

// Get returns the value stored under key.  The second return value is
// false if the key is absent.
func (e *Elements) Get(key pdf.Name) (pdf.Object, bool) {
	val, ok := e.Dict[key]
	if val == nil {
		return nil, false
	}
	return val, ok
}

// Set stores val under key.  If val is nil, the key is removed.
//
// If the key is declared, val is converted to one of the declared types.
// A [*ViolationError] is returned if this is not possible, and the
// dictionary is left unchanged.
func (e *Elements) Set(key pdf.Name, val pdf.Object) error {
	if val == nil {
		delete(e.Dict, key)
		return nil
	}

	if k, declared := e.meta.Lookup(key); declared {
		conv, ok := coerce(k.Type, val)
		if !ok {
			return &ViolationError{
				Table: e.meta.name,
				Key:   key,
				Want:  k.Type,
				Got:   val,
			}
		}
		val = conv
	}
	e.Dict[key] = val
	return nil
}

// GetName returns the name stored under key.  References are not
// followed.
func (e *Elements) GetName(key pdf.Name) (pdf.Name, bool) {
	name, ok := e.Dict[key].(pdf.Name)
	return name, ok
}

// SetName stores a name under key.
func (e *Elements) SetName(key pdf.Name, name pdf.Name) error {
	return e.Set(key, name)
}

// GetRect returns the rectangle stored under key.  The second return value
// is false if the key is absent or does not hold four numbers.
func (e *Elements) GetRect(key pdf.Name) (rect.Rect, bool) {
	a, ok := e.Dict[key].(pdf.Array)
	if !ok || !pdf.IsRectangle(a) {
		return rect.Rect{}, false
	}
	r, err := pdf.AsRectangle(nil, a)
	if err != nil {
		return rect.Rect{}, false
	}
	return r, true
}

// SetRect stores a rectangle under key.
func (e *Elements) SetRect(key pdf.Name, r rect.Rect) error {
	return e.Set(key, pdf.RectangleArray(r))
}

// SetDate stores a date string under key.
func (e *Elements) SetDate(key pdf.Name, t time.Time) error {
	return e.Set(key, pdf.Date(t))
}

// Check verifies that all required keys are present.  The first missing
// key is reported as a [*MissingKeyError].
func (e *Elements) Check() error {
	for _, key := range e.meta.order {
		if !key.Required {
			continue
		}
		if _, present := e.Get(key.Name); !present {
			return &MissingKeyError{Table: e.meta.name, Key: key.Name}
		}
	}
	return nil
}

// coerce converts val to one of the types in t.
func coerce(t Type, val pdf.Object) (pdf.Object, bool) {
	switch v := val.(type) {
	case pdf.Name:
		return v, t&Name != 0
	case pdf.Bool:
		return v, t&Bool != 0
	case pdf.String:
		if t&String != 0 {
			return v, true
		}
		if t&Date != 0 {
			_, err := v.AsDate()
			return v, err == nil
		}
	case pdf.Integer:
		if t&Integer != 0 {
			return v, true
		}
		if t&Real != 0 {
			return pdf.Real(v), true
		}
	case pdf.Real:
		if !isFinite(float64(v)) {
			return nil, false
		}
		if t&Real != 0 {
			return v, true
		}
		if t&Integer != 0 && isIntegral(float64(v)) {
			return pdf.Integer(v), true
		}
	case pdf.Number:
		if !isFinite(float64(v)) {
			return nil, false
		}
		switch {
		case t&Number == Number:
			return v, true
		case t&Real != 0:
			return pdf.Real(v), true
		case t&Integer != 0 && isIntegral(float64(v)):
			return pdf.Integer(v), true
		}
	case pdf.Array:
		if t&Rectangle != 0 && pdf.IsRectangle(v) {
			r, err := pdf.AsRectangle(nil, v)
			if err == nil {
				return pdf.RectangleArray(r), true
			}
		}
		if t&Array != 0 {
			return v, true
		}
	case pdf.Dict:
		return v, t&Dict != 0
	case *pdf.Stream:
		return v, t&Stream != 0
	case pdf.Ref, pdf.Reference:
		return v, t&Reference != 0
	}
	return nil, false
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func isIntegral(x float64) bool {
	return x == math.Trunc(x) && math.Abs(x) < 1<<53
}
