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
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTestFile(t *testing.T) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, V1_7)
	if err != nil {
		t.Fatal(err)
	}

	catalog := Dict{
		"Type":  Name("Catalog"),
		"Pages": NewReference(2, 0),
	}
	pages := Dict{
		"Type":  Name("Pages"),
		"Kids":  Array{},
		"Count": Integer(0),
	}
	data := &Stream{
		Dict: Dict{"Filter": Name("FlateDecode")},
		R:    bytes.NewReader(mustFlate(t, []byte("q 1 0 0 1 0 0 cm Q"))),
	}

	for _, obj := range []struct {
		ref Reference
		val Object
	}{
		{NewReference(1, 0), catalog},
		{NewReference(2, 0), pages},
		{NewReference(3, 0), data},
		{NewReference(5, 0), Array{Real(200.125), String("x")}},
	} {
		err = w.Put(obj.ref, obj.val)
		if err != nil {
			t.Fatal(err)
		}
	}
	err = w.Close(Dict{"Root": NewReference(1, 0)})
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func mustFlate(t *testing.T, data []byte) []byte {
	t.Helper()
	out, err := FlateEncode(data)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestWriteRead(t *testing.T) {
	data := writeTestFile(t)

	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if r.Version != V1_7 {
		t.Errorf("wrong version %s", r.Version)
	}

	trailer := r.Trailer()
	if trailer["Root"] != NewReference(1, 0) {
		t.Errorf("wrong /Root %v", trailer["Root"])
	}
	if trailer["Size"] != Integer(6) {
		t.Errorf("wrong /Size %v", trailer["Size"])
	}

	wantRefs := []Reference{
		NewReference(1, 0),
		NewReference(2, 0),
		NewReference(3, 0),
		NewReference(5, 0),
	}
	if d := cmp.Diff(wantRefs, r.Objects()); d != "" {
		t.Errorf("objects (-want +got):\n%s", d)
	}

	catalog, err := r.Get(NewReference(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	wantCatalog := Dict{"Type": Name("Catalog"), "Pages": NewReference(2, 0)}
	if d := cmp.Diff(wantCatalog, catalog); d != "" {
		t.Errorf("catalog (-want +got):\n%s", d)
	}

	arr, err := r.Get(NewReference(5, 0))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(Array{Real(200.125), String("x")}, arr); d != "" {
		t.Errorf("array (-want +got):\n%s", d)
	}

	// object 4 was never written and reads as null
	missing, err := r.Get(NewReference(4, 0))
	if err != nil || missing != nil {
		t.Errorf("missing object: got %v, %v", missing, err)
	}

	obj, err := r.Get(NewReference(3, 0))
	if err != nil {
		t.Fatal(err)
	}
	stm, ok := obj.(*Stream)
	if !ok {
		t.Fatalf("expected a stream, got %T", obj)
	}
	body, err := stm.Decode(nil)
	if err != nil {
		t.Fatal(err)
	}
	content, err := io.ReadAll(body)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "q 1 0 0 1 0 0 cm Q" {
		t.Errorf("wrong stream content %q", content)
	}
}

func TestXRefFreeList(t *testing.T) {
	data := writeTestFile(t)

	idx := bytes.Index(data, []byte("xref\n"))
	if idx < 0 {
		t.Fatal("no xref table")
	}
	lines := bytes.Split(data[idx:], []byte("\r\n"))
	if got := string(lines[0]); got != "xref\n0 6\n0000000004 65535 f" {
		t.Errorf("wrong first entry %q", got)
	}
	if got := string(lines[4]); got != "0000000000 00000 f" {
		t.Errorf("wrong entry for object 4: %q", got)
	}
}

func TestWriterErrors(t *testing.T) {
	w, err := NewWriter(io.Discard, V1_7)
	if err != nil {
		t.Fatal(err)
	}
	err = w.Put(NewReference(0, 0), Integer(1))
	if err == nil {
		t.Error("object number 0 accepted")
	}
	err = w.Put(NewReference(1, 0), Integer(1))
	if err != nil {
		t.Fatal(err)
	}
	err = w.Put(NewReference(1, 0), Integer(2))
	if err == nil {
		t.Error("duplicate object accepted")
	}
	err = w.Put(NewReference(2, 0), Dict{"X": NewRef(1, 1)})
	if !errors.Is(err, ErrUnresolvedReference) {
		t.Errorf("Ref written to file: %v", err)
	}
	err = w.Close(Dict{})
	if err == nil {
		t.Error("trailer without /Root accepted")
	}

	_, err = NewWriter(io.Discard, Version(99))
	if err == nil {
		t.Error("invalid version accepted")
	}
}

func TestReaderErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no header", "hello world"},
		{"no startxref", "%PDF-1.7\n1 0 obj\nnull\nendobj\n"},
		{"bad offset", "%PDF-1.7\nstartxref\n9999\n%%EOF\n"},
		{"xref stream", "%PDF-1.7\n1 0 obj\n<<>>\nendobj\nstartxref\n9\n%%EOF\n"},
	}
	for _, test := range cases {
		data := []byte(test.in)
		_, err := NewReader(bytes.NewReader(data), int64(len(data)))
		if err == nil {
			t.Errorf("%s: no error", test.name)
		}
	}

	data := []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\nstartxref\n9\n%%EOF\n")
	_, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("xref stream: got %v", err)
	}
}
