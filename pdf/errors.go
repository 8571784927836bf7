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
	"strconv"
)

var (
	// ErrInvalidImage indicates that an image cannot be used, either
	// because it has non-positive dimensions or because the image handle
	// is unusable.
	ErrInvalidImage = errors.New("invalid image")

	// ErrOwnerMismatch indicates an attempt to reference an indirect object
	// from a document other than the one which owns the object.
	ErrOwnerMismatch = errors.New("object belongs to a different document")

	// ErrUnresolvedReference indicates that a reference was dereferenced
	// before its target received an object number.
	ErrUnresolvedReference = errors.New("unresolved reference")
)

var (
	errNoDate      = errors.New("not a valid date string")
	errNoRectangle = errors.New("not a valid PDF rectangle")
	errNotFinite   = errors.New("number is not finite")
	errVersion     = errors.New("unsupported PDF version")
)

// MalformedFileError indicates that a PDF file could not be parsed.
type MalformedFileError struct {
	Err error
	Pos int64
}

func (err *MalformedFileError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	tail := ""
	if err.Pos > 0 {
		tail = " (at byte " + strconv.FormatInt(err.Pos, 10) + ")"
	}
	return "not a valid PDF file" + middle + tail
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}
