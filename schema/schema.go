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

// Package schema describes the keys which may appear in a PDF dictionary.
//
// A [Table] lists the keys of one dictionary type, together with the
// accepted value types and whether the key is required.  Tables inherit
// keys from their parents.  The merged view is computed once per table,
// on first use, and is then shared by all callers.
package schema

import (
	"strings"
	"sync"
	"sync/atomic"

	"seehuhn.de/go/pdfstamp/pdf"
)

// Type is a set of PDF value categories.
type Type uint16

// The value categories used in key tables.
const (
	Name Type = 1 << iota
	String
	Integer
	Real
	Bool
	Array
	Dict
	Stream
	Reference
	Rectangle
	Date

	Number = Integer | Real
	Any    = Name | String | Number | Bool | Array | Dict | Stream | Reference
)

var typeNames = []struct {
	t    Type
	name string
}{
	{Name, "Name"},
	{String, "String"},
	{Integer, "Integer"},
	{Real, "Real"},
	{Bool, "Bool"},
	{Array, "Array"},
	{Dict, "Dict"},
	{Stream, "Stream"},
	{Reference, "Reference"},
	{Rectangle, "Rectangle"},
	{Date, "Date"},
}

func (t Type) String() string {
	if t == 0 {
		return "none"
	}
	var parts []string
	for _, tn := range typeNames {
		if t&tn.t != 0 {
			parts = append(parts, tn.name)
		}
	}
	return strings.Join(parts, "|")
}

// Key describes one dictionary key.
type Key struct {
	Name     pdf.Name
	Type     Type
	Required bool
}

// Table is the key table of a dictionary type.
//
// Tables are normally declared as package level variables and must not be
// modified after their first use.  The parent relation must not contain
// cycles.
type Table struct {
	// Name identifies the table in error messages.
	Name string

	// Parents are the tables whose keys are inherited.
	Parents []*Table

	// Keys are the keys declared by this table.  A key declared here takes
	// precedence over a key with the same name in a parent table.
	Keys []Key

	once sync.Once
	meta *Meta
}

// metaBuilds counts how often Meta has merged a table.
var metaBuilds atomic.Int64

// Meta returns the merged key information for t, including all inherited
// keys.  The result is computed on the first call; later calls, including
// concurrent ones, return the same value.
func (t *Table) Meta() *Meta {
	t.once.Do(func() {
		metaBuilds.Add(1)
		t.meta = t.build()
	})
	return t.meta
}

func (t *Table) build() *Meta {
	m := &Meta{
		name: t.Name,
		keys: make(map[pdf.Name]int),
	}
	for _, parent := range t.Parents {
		for _, key := range parent.Meta().order {
			m.add(key)
		}
	}
	for _, key := range t.Keys {
		m.add(key)
	}
	return m
}

// Meta is the merged key table of a dictionary type.
// A Meta is immutable.
type Meta struct {
	name  string
	order []Key
	keys  map[pdf.Name]int
}

func (m *Meta) add(key Key) {
	if idx, seen := m.keys[key.Name]; seen {
		m.order[idx] = key
		return
	}
	m.keys[key.Name] = len(m.order)
	m.order = append(m.order, key)
}

// Name returns the name of the table m was built from.
func (m *Meta) Name() string {
	return m.name
}

// Lookup returns the description of the given key.
func (m *Meta) Lookup(name pdf.Name) (Key, bool) {
	idx, ok := m.keys[name]
	if !ok {
		return Key{}, false
	}
	return m.order[idx], true
}

// Has reports whether the key is declared.
func (m *Meta) Has(name pdf.Name) bool {
	_, ok := m.keys[name]
	return ok
}

// Keys returns the names of all declared keys.  Inherited keys come
// first, in the order of the parent tables.
func (m *Meta) Keys() []pdf.Name {
	res := make([]pdf.Name, len(m.order))
	for i, key := range m.order {
		res[i] = key.Name
	}
	return res
}

// Required returns the names of all required keys.
func (m *Meta) Required() []pdf.Name {
	var res []pdf.Name
	for _, key := range m.order {
		if key.Required {
			res = append(res, key.Name)
		}
	}
	return res
}
