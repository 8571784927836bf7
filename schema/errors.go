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
	"errors"
	"fmt"

	"seehuhn.de/go/pdfstamp/pdf"
)

var (
	// ErrSchemaViolation indicates that a value does not have one of the
	// types declared for a key.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrMissingRequiredKey indicates that a required key is absent.
	ErrMissingRequiredKey = errors.New("missing required key")
)

// ViolationError is returned when a value of unsuitable type is stored
// under a declared key.
type ViolationError struct {
	Table string
	Key   pdf.Name
	Want  Type
	Got   pdf.Object
}

func (err *ViolationError) Error() string {
	return fmt.Sprintf("%s: /%s: cannot store %s (need %s)",
		err.Table, err.Key, describe(err.Got), err.Want)
}

func (err *ViolationError) Unwrap() error {
	return ErrSchemaViolation
}

// MissingKeyError is returned when a required key is absent.
type MissingKeyError struct {
	Table string
	Key   pdf.Name
}

func (err *MissingKeyError) Error() string {
	return fmt.Sprintf("%s: missing required key /%s", err.Table, err.Key)
}

func (err *MissingKeyError) Unwrap() error {
	return ErrMissingRequiredKey
}

func describe(obj pdf.Object) string {
	switch obj := obj.(type) {
	case pdf.Name:
		return "name " + pdf.Format(obj)
	case pdf.Integer, pdf.Real, pdf.Number:
		return "number " + pdf.Format(obj)
	case pdf.Bool:
		return "boolean"
	case pdf.String:
		return "string"
	case pdf.Array:
		return "array"
	case pdf.Dict:
		return "dictionary"
	case *pdf.Stream:
		return "stream"
	case pdf.Ref, pdf.Reference:
		return "reference"
	default:
		return fmt.Sprintf("%T", obj)
	}
}
