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

// Package appearance implements annotation appearance dictionaries.
//
// See section 12.5.5 of ISO 32000-2:2020.
package appearance

import (
	"seehuhn.de/go/pdfstamp/pdf"
	"seehuhn.de/go/pdfstamp/schema"
)

// Table lists the keys of an appearance dictionary.
var Table = &schema.Table{
	Name: "Appearance",
	Keys: []schema.Key{
		{Name: "N", Type: schema.Dict | schema.Stream | schema.Reference, Required: true},
		{Name: "R", Type: schema.Dict | schema.Stream | schema.Reference},
		{Name: "D", Type: schema.Dict | schema.Stream | schema.Reference},
	},
}

// Dict represents an annotation appearance dictionary.
//
// References are kept as they are, so that a Dict can be used before the
// document is saved.
type Dict struct {
	// Normal is the annotation's normal appearance.
	Normal pdf.Object

	// RollOver is the annotation's rollover appearance.
	// If this is nil, the normal appearance is used.
	RollOver pdf.Object

	// Down is the annotation's down appearance.
	// If this is nil, the normal appearance is used.
	Down pdf.Object
}

// Decode reads an appearance dictionary.  If obj is null, the function
// returns nil without error.
func Decode(r pdf.Getter, obj pdf.Object) (*Dict, error) {
	dict, err := pdf.GetDict(r, obj)
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, nil
	}

	err = schema.NewElements(Table, dict).Check()
	if err != nil {
		return nil, err
	}

	return &Dict{
		Normal:   dict["N"],
		RollOver: dict["R"],
		Down:     dict["D"],
	}, nil
}

// AsDict returns the PDF representation of the appearance dictionary.
// The result passes the checks of [Table].
func (d *Dict) AsDict() (pdf.Dict, error) {
	e := schema.NewElements(Table, nil)
	err := e.Set("N", d.Normal)
	if err != nil {
		return nil, err
	}
	err = e.Set("R", d.RollOver)
	if err != nil {
		return nil, err
	}
	err = e.Set("D", d.Down)
	if err != nil {
		return nil, err
	}
	err = e.Check()
	if err != nil {
		return nil, err
	}
	return e.Dict, nil
}
