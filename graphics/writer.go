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

package graphics

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pdfstamp/pdf"
)

// Writer writes a PDF content stream.
type Writer struct {
	Content   io.Writer
	Resources pdf.Dict
	Err       error

	// CTM is the current transformation matrix.
	CTM   matrix.Matrix
	stack []matrix.Matrix

	xObjects map[pdf.Ref]pdf.Name
}

// NewWriter allocates a new Writer object.
func NewWriter(out io.Writer) *Writer {
	return &Writer{
		Content:   out,
		Resources: pdf.Dict{},
		CTM:       matrix.Identity,
		xObjects:  make(map[pdf.Ref]pdf.Name),
	}
}

// Close checks that the content stream is complete.
// It returns the first error encountered while writing, if any.
func (w *Writer) Close() error {
	if w.Err != nil {
		return w.Err
	}
	if len(w.stack) > 0 {
		w.Err = fmt.Errorf("%d unmatched PushGraphicsState", len(w.stack))
	}
	return w.Err
}

// PushGraphicsState saves the current graphics state.
//
// This implements the PDF graphics operator "q".
func (w *Writer) PushGraphicsState() {
	if w.Err != nil {
		return
	}
	w.stack = append(w.stack, w.CTM)
	_, w.Err = fmt.Fprintln(w.Content, "q")
}

// PopGraphicsState restores the previous graphics state.
//
// This implements the PDF graphics operator "Q".
func (w *Writer) PopGraphicsState() {
	if w.Err != nil {
		return
	}
	if len(w.stack) == 0 {
		w.Err = errors.New("PopGraphicsState: no matching PushGraphicsState")
		return
	}
	n := len(w.stack) - 1
	w.CTM = w.stack[n]
	w.stack = w.stack[:n]
	_, w.Err = fmt.Fprintln(w.Content, "Q")
}

// Transform applies a transformation matrix to the coordinate system.
// The new transformation is applied to the user coordinates first,
// followed by the existing transformation.
//
// This implements the PDF graphics operator "cm".
func (w *Writer) Transform(m matrix.Matrix) {
	if w.Err != nil {
		return
	}
	w.CTM = m.Mul(w.CTM)
	_, w.Err = fmt.Fprintln(w.Content,
		format(m[0]), format(m[1]), format(m[2]),
		format(m[3]), format(m[4]), format(m[5]), "cm")
}

// DrawXObject paints the XObject stored at ref.
//
// This implements the PDF graphics operator "Do".
func (w *Writer) DrawXObject(ref pdf.Ref) {
	if w.Err != nil {
		return
	}
	name := w.XObjectName(ref)
	err := name.PDF(w.Content)
	if err != nil {
		w.Err = err
		return
	}
	_, w.Err = fmt.Fprintln(w.Content, " Do")
}

// DrawImage paints the image XObject stored at ref into the rectangle
// with lower left corner (x, y), the given width and height.
// The graphics state is restored afterwards.
func (w *Writer) DrawImage(ref pdf.Ref, x, y, width, height float64) {
	if w.Err != nil {
		return
	}
	if width <= 0 || height <= 0 {
		w.Err = fmt.Errorf("DrawImage: invalid size %gx%g", width, height)
		return
	}
	w.PushGraphicsState()
	w.Transform(matrix.Matrix{width, 0, 0, height, x, y})
	w.DrawXObject(ref)
	w.PopGraphicsState()
}

// XObjectName returns the name under which the XObject stored at ref is
// listed in the resource dictionary.  If needed, a new entry is added.
func (w *Writer) XObjectName(ref pdf.Ref) pdf.Name {
	if name, ok := w.xObjects[ref]; ok {
		return name
	}

	dict, _ := w.Resources["XObject"].(pdf.Dict)
	if dict == nil {
		dict = pdf.Dict{}
		w.Resources["XObject"] = dict
	}

	var name pdf.Name
	for k := len(dict) + 1; ; k++ {
		name = "Im" + pdf.Name(strconv.Itoa(k))
		if _, isUsed := dict[name]; !isUsed {
			break
		}
	}
	dict[name] = ref
	w.xObjects[ref] = name
	return name
}

func format(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
