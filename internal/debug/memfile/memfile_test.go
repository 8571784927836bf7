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

package memfile

import (
	"io"
	"testing"
)

func TestWriteSeekRead(t *testing.T) {
	f := New()
	_, err := io.WriteString(f, "hello world")
	if err != nil {
		t.Fatal(err)
	}
	_, err = f.Seek(6, io.SeekStart)
	if err != nil {
		t.Fatal(err)
	}
	_, err = io.WriteString(f, "there!")
	if err != nil {
		t.Fatal(err)
	}
	if got := string(f.Data); got != "hello there!" {
		t.Errorf("got %q", got)
	}

	_, err = f.Seek(0, io.SeekStart)
	if err != nil {
		t.Fatal(err)
	}
	all, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(all) != "hello there!" {
		t.Errorf("ReadAll: got %q", all)
	}
}

func TestReadAt(t *testing.T) {
	f := &MemFile{Data: []byte("0123456789")}

	buf := make([]byte, 4)
	n, err := f.ReadAt(buf, 3)
	if err != nil || n != 4 || string(buf) != "3456" {
		t.Errorf("ReadAt(3) = %d, %v, %q", n, err, buf)
	}

	n, err = f.ReadAt(buf, 8)
	if err != io.EOF || n != 2 || string(buf[:n]) != "89" {
		t.Errorf("ReadAt(8) = %d, %v, %q", n, err, buf[:n])
	}

	if f.Offset != 0 {
		t.Errorf("ReadAt changed the offset to %d", f.Offset)
	}
}

func TestSeekErrors(t *testing.T) {
	f := New()
	if _, err := f.Seek(-1, io.SeekStart); err == nil {
		t.Error("negative offset accepted")
	}
	if _, err := f.Seek(0, 17); err == nil {
		t.Error("invalid whence accepted")
	}
}
