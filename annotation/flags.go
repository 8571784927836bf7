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

package annotation

import "strings"

// Flags is the value of the /F entry of an annotation dictionary.
// See table 167 of ISO 32000-2:2020.
type Flags uint16

const (
	// FlagInvisible hides annotations of non-standard types for which no
	// handler is available.
	FlagInvisible Flags = 1 << 0

	// FlagHidden (PDF 1.2) prevents rendering and user interaction.
	FlagHidden Flags = 1 << 1

	// FlagPrint (PDF 1.2) prints the annotation with the page.
	FlagPrint Flags = 1 << 2

	// FlagNoZoom (PDF 1.3) keeps the appearance at a fixed size when the
	// page is magnified.
	FlagNoZoom Flags = 1 << 3

	// FlagNoRotate (PDF 1.3) keeps the appearance upright when the page is
	// rotated.
	FlagNoRotate Flags = 1 << 4

	// FlagNoView (PDF 1.3) hides the annotation on screen.
	FlagNoView Flags = 1 << 5

	// FlagReadOnly (PDF 1.3) disables user interaction.
	FlagReadOnly Flags = 1 << 6

	// FlagLocked (PDF 1.4) prevents deletion and changes of the properties.
	FlagLocked Flags = 1 << 7

	// FlagToggleNoView (PDF 1.5) inverts FlagNoView for selection and
	// mouse hovering.
	FlagToggleNoView Flags = 1 << 8

	// FlagLockedContents (PDF 1.7) prevents changes of the contents.
	FlagLockedContents Flags = 1 << 9
)

var flagNames = []string{
	"Invisible", "Hidden", "Print", "NoZoom", "NoRotate",
	"NoView", "ReadOnly", "Locked", "ToggleNoView", "LockedContents",
}

func (f Flags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
			f &^= 1 << i
		}
	}
	if f != 0 {
		parts = append(parts, "?")
	}
	return strings.Join(parts, "|")
}
