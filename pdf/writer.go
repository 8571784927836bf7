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
	"io"
)

// Writer writes a PDF file with a classic cross-reference table.
// Objects must not contain [Ref] values; the caller replaces them with
// numbered references before writing.
type Writer struct {
	w    *posWriter
	ver  Version
	xref map[uint32]*xRefEntry
	size uint32
}

// NewWriter writes the file header and prepares a PDF file for writing.
func NewWriter(w io.Writer, ver Version) (*Writer, error) {
	verString, err := ver.ToString()
	if err != nil {
		return nil, err
	}

	pdf := &Writer{
		w:    &posWriter{w: w},
		ver:  ver,
		xref: make(map[uint32]*xRefEntry),
		size: 1,
	}

	_, err = fmt.Fprintf(pdf.w, "%%PDF-%s\n%%\x80\x80\x80\x80\n", verString)
	if err != nil {
		return nil, err
	}

	return pdf, nil
}

// Put writes obj as the indirect object with the given reference.
// Each object number can only be written once.
func (pdf *Writer) Put(ref Reference, obj Object) error {
	if pdf.w == nil {
		return errWriterClosed
	}
	number := ref.Number()
	if number == 0 {
		return errors.New("object number 0 is reserved")
	}
	if _, seen := pdf.xref[number]; seen {
		return fmt.Errorf("object %s already written", ref)
	}

	pos := pdf.w.pos
	_, err := fmt.Fprintf(pdf.w, "%d %d obj\n", number, ref.Generation())
	if err != nil {
		return err
	}
	if obj == nil {
		_, err = io.WriteString(pdf.w, "null")
	} else {
		err = obj.PDF(pdf.w)
	}
	if err != nil {
		return fmt.Errorf("object %s: %w", ref, err)
	}
	_, err = io.WriteString(pdf.w, "\nendobj\n")
	if err != nil {
		return err
	}

	pdf.xref[number] = &xRefEntry{Pos: pos, Generation: ref.Generation()}
	if number >= pdf.size {
		pdf.size = number + 1
	}
	return nil
}

// Close writes the cross-reference table and the trailer.  The /Size entry
// of the trailer is filled in automatically.  The underlying io.Writer is
// not closed.
func (pdf *Writer) Close(trailer Dict) error {
	if pdf.w == nil {
		return errWriterClosed
	}
	if _, hasRoot := trailer["Root"]; !hasRoot {
		return errors.New("missing /Root in trailer")
	}

	t := make(Dict, len(trailer)+1)
	for key, val := range trailer {
		t[key] = val
	}
	t["Size"] = Integer(pdf.size)

	xRefPos := pdf.w.pos
	err := pdf.writeXRefTable(t)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(pdf.w, "\nstartxref\n%d\n%%%%EOF\n", xRefPos)
	if err != nil {
		return err
	}

	// make sure we don't accidentally write beyond the end of file
	pdf.w = nil

	return nil
}

var errWriterClosed = errors.New("PDF writer already closed")

type posWriter struct {
	w   io.Writer
	pos int64
}

func (w *posWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	return n, err
}
