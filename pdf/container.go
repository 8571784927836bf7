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
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/geom/rect"
)

// Getter gives access to the indirect objects of a document.
type Getter interface {
	Get(ref Ref) (Object, error)
}

// Resolve resolves references to indirect objects.
//
// If obj is a [Ref], the function looks up the corresponding object and
// returns the result.  If obj is not a [Ref], it is returned unchanged.
// Chains of references are followed until a non-reference object is found.
func Resolve(r Getter, obj Object) (Object, error) {
	origObj := obj

	count := 0
	for {
		ref, isReference := obj.(Ref)
		if !isReference {
			break
		}
		if r == nil {
			return nil, fmt.Errorf("%s: %w", ref, ErrUnresolvedReference)
		}
		count++
		if count > 16 {
			return nil, &MalformedFileError{
				Err: fmt.Errorf("%s: too many levels of indirection", origObj),
			}
		}

		var err error
		obj, err = r.Get(ref)
		if err != nil {
			return nil, err
		}
	}

	return obj, nil
}

func resolveAndCast[T Object](r Getter, obj Object) (x T, err error) {
	obj, err = Resolve(r, obj)
	if err != nil {
		return x, err
	}

	if obj == nil {
		return x, nil
	}

	var isCorrectType bool
	x, isCorrectType = obj.(T)
	if isCorrectType {
		return x, nil
	}

	return x, &MalformedFileError{
		Err: fmt.Errorf("expected %T but got %T", x, obj),
	}
}

// Helper functions for getting objects of a specific type.  Each of these
// functions calls Resolve on the object before attempting to convert it to the
// desired type.  If the object is `null`, a zero object is returned without
// error.  If the object is of the wrong type, an error is returned.
//
// The signature of these functions is
//
//	func GetT(r Getter, obj Object) (x T, err error)
//
// where T is the type of the object to be returned.
var (
	GetArray  = resolveAndCast[Array]
	GetBool   = resolveAndCast[Bool]
	GetDict   = resolveAndCast[Dict]
	GetInt    = resolveAndCast[Integer]
	GetName   = resolveAndCast[Name]
	GetReal   = resolveAndCast[Real]
	GetStream = resolveAndCast[*Stream]
	GetString = resolveAndCast[String]
)

// GetNumber resolves references to indirect objects and makes sure the
// resulting object is an Integer, a Real or a Number.
func GetNumber(r Getter, obj Object) (Number, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return 0, err
	}
	switch x := obj.(type) {
	case Integer:
		return Number(x), nil
	case Real:
		return Number(x), nil
	case Number:
		return x, nil
	default:
		return 0, &MalformedFileError{
			Err: fmt.Errorf("expected number but got %T", obj),
		}
	}
}

// GetRectangle resolves references to indirect objects and makes sure the
// resulting object is a PDF rectangle.  The corners are normalized, so that
// LLx <= URx and LLy <= URy.
// If the object is null, the zero rectangle is returned.
func GetRectangle(r Getter, obj Object) (rect.Rect, error) {
	a, err := GetArray(r, obj)
	if err != nil {
		return rect.Rect{}, err
	}
	if a == nil {
		return rect.Rect{}, nil
	}
	return AsRectangle(r, a)
}

// AsRectangle converts an array of 4 numbers to a rectangle.
func AsRectangle(r Getter, a Array) (rect.Rect, error) {
	if len(a) != 4 {
		return rect.Rect{}, errNoRectangle
	}
	var values [4]float64
	for i, obj := range a {
		xi, err := GetNumber(r, obj)
		if err != nil {
			return rect.Rect{}, errors.Join(errNoRectangle, err)
		}
		if math.IsNaN(float64(xi)) || math.IsInf(float64(xi), 0) {
			return rect.Rect{}, errors.Join(errNoRectangle, errNotFinite)
		}
		values[i] = float64(xi)
	}
	return rect.Rect{
		LLx: math.Min(values[0], values[2]),
		LLy: math.Min(values[1], values[3]),
		URx: math.Max(values[0], values[2]),
		URy: math.Max(values[1], values[3]),
	}, nil
}

// RectangleArray returns the PDF representation of a rectangle.
// Coordinates are not rounded.
func RectangleArray(r rect.Rect) Array {
	return Array{Number(r.LLx), Number(r.LLy), Number(r.URx), Number(r.URy)}
}

// IsRectangle reports whether a is an array of four numbers.
// References are not followed.
func IsRectangle(a Array) bool {
	if len(a) != 4 {
		return false
	}
	for _, obj := range a {
		switch obj.(type) {
		case Integer, Real, Number:
		default:
			return false
		}
	}
	return true
}
