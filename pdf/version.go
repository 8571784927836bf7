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

import "strconv"

// Version represents a version of the PDF standard.
type Version int

// PDF versions supported by this library.
const (
	_ Version = iota
	V1_0
	V1_1
	V1_2
	V1_3
	V1_4
	V1_5
	V1_6
	V1_7
	V2_0
)

var versionNames = [...]string{
	V1_0: "1.0",
	V1_1: "1.1",
	V1_2: "1.2",
	V1_3: "1.3",
	V1_4: "1.4",
	V1_5: "1.5",
	V1_6: "1.6",
	V1_7: "1.7",
	V2_0: "2.0",
}

// ParseVersion parses a PDF version string like "1.7".
func ParseVersion(verString string) (Version, error) {
	for ver, name := range versionNames {
		if ver > 0 && name == verString {
			return Version(ver), nil
		}
	}
	return 0, errVersion
}

// ToString returns the version string used in the PDF file header.
func (ver Version) ToString() (string, error) {
	if ver >= V1_0 && ver <= V2_0 {
		return versionNames[ver], nil
	}
	return "", errVersion
}

func (ver Version) String() string {
	s, err := ver.ToString()
	if err != nil {
		return "pdf.Version(" + strconv.Itoa(int(ver)) + ")"
	}
	return s
}
