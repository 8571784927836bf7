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

// Package pdfstamp adds image stamp annotations to PDF documents.
//
// An image stamp is a rubber stamp annotation whose normal appearance is a
// form XObject painting an image.  The form has one unit per image pixel
// and its origin at the lower left corner of the image.  The annotation
// rectangle determines where on the page the appearance is shown.
//
// The building blocks are in the subpackages:
//
//   - [seehuhn.de/go/pdfstamp/document] holds the objects of a PDF file
//     and reads and writes files,
//   - [seehuhn.de/go/pdfstamp/image] turns image files into image XObjects,
//   - [seehuhn.de/go/pdfstamp/graphics/form] wraps images into forms,
//   - [seehuhn.de/go/pdfstamp/annotation] creates the annotation
//     dictionaries.
//
// [Stamp] combines these into a single call:
//
//	doc := document.New(nil)
//	page, err := doc.AddPage(document.A4)
//	...
//	img, err := image.Open("seal.png")
//	...
//	_, err = pdfstamp.Stamp(page, img, pdfstamp.Placement{X: 72, Y: 72})
//	...
//	err = doc.Save(out)
package pdfstamp
