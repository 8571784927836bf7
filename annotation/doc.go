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

// Package annotation implements PDF annotation dictionaries.
//
// An [Annotation] wraps a dictionary stored in a document.  All writes go
// through the key tables in this package, so that values which do not fit
// a declared key are rejected.  Annotations are placed on a page with
// [document.Annotations.Add].
//
// Image stamps, rubber stamp annotations whose appearance is taken from
// an image, are created with [NewImageStamp] or [AttachImageStamp].
//
// See section 12.5 of ISO 32000-2:2020.
package annotation
