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
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in  Object
		out string
	}{
		{nil, "null"},
		{Bool(true), "true"},
		{Integer(-7), "-7"},
		{Real(0.5), "0.5"},
		{Real(2), "2."},
		{Real(-1.25), "-1.25"},
		{Real(1e-7), "0.0000001"},
		{Number(200), "200"},
		{Number(0.1), "0.1"},
		{Name("Annot"), "/Annot"},
		{Name("A B#"), "/A#20B#23"},
		{Name("a/b"), "/a#2fb"},
		{String("hello"), "(hello)"},
		{String("a(b)c"), "(a(b)c)"},
		{String("a)b"), `(a\)b)`},
		{String("\x00\x01\x02"), "<000102>"},
		{String("x\ry"), `(x\ry)`},
		{Array{Integer(1), nil, Name("N")}, "[1 null /N]"},
		{Dict{"B": Integer(2), "A": Integer(1), "C": nil}, "<<\n/A 1\n/B 2\n>>"},
		{NewReference(12, 0), "12 0 R"},
		{NewReference(3, 2), "3 2 R"},
	}
	for _, test := range cases {
		out := Format(test.in)
		if out != test.out {
			t.Errorf("%#v: got %q, want %q", test.in, out, test.out)
		}
	}
}

func TestRefCannotBeWritten(t *testing.T) {
	ref := NewRef(1, 2)
	err := ref.PDF(io.Discard)
	if !errors.Is(err, ErrUnresolvedReference) {
		t.Errorf("expected ErrUnresolvedReference, got %v", err)
	}

	err = Array{ref}.PDF(io.Discard)
	if !errors.Is(err, ErrUnresolvedReference) {
		t.Errorf("nested Ref: expected ErrUnresolvedReference, got %v", err)
	}
}

func TestNonFiniteCannotBeWritten(t *testing.T) {
	values := []Object{
		Real(math.NaN()),
		Real(math.Inf(1)),
		Number(math.Inf(-1)),
		Array{Integer(0), Number(math.NaN())},
	}
	for _, obj := range values {
		err := obj.PDF(io.Discard)
		if !errors.Is(err, errNotFinite) {
			t.Errorf("%#v: expected errNotFinite, got %v", obj, err)
		}
	}

	for _, x := range []Object{Number(math.NaN()), Real(math.Inf(1))} {
		_, err := AsRectangle(nil, Array{x, Integer(0), Integer(10), Integer(10)})
		if !errors.Is(err, errNoRectangle) {
			t.Errorf("rectangle with %v: expected errNoRectangle, got %v", x, err)
		}
	}
}

func TestRef(t *testing.T) {
	var zero Ref
	if !zero.IsZero() {
		t.Error("zero Ref is not zero")
	}
	ref := NewRef(7, 3)
	if ref.IsZero() || ref.Owner() != 7 || ref.Slot() != 3 {
		t.Errorf("unexpected Ref %s", ref)
	}
}

func TestReference(t *testing.T) {
	ref := NewReference(1<<32-1, 65535)
	if ref.Number() != 1<<32-1 || ref.Generation() != 65535 {
		t.Errorf("wrong fields in %s", ref)
	}
	if s := NewReference(5, 0).String(); s != "obj_5" {
		t.Errorf("wrong string %q", s)
	}
}

func TestTextString(t *testing.T) {
	for _, in := range []string{"", "hello", "Grüße", "日本語", "a😀b"} {
		enc := TextString(in)
		out := enc.AsTextString()
		if out != in {
			t.Errorf("%q -> %q -> %q", in, enc, out)
		}
	}
	if enc := TextString("plain"); string(enc) != "plain" {
		t.Errorf("ASCII text was re-encoded: %q", enc)
	}
}

func TestDateString(t *testing.T) {
	cases := []time.Time{
		time.Date(1998, 12, 23, 19, 52, 0, 0, time.UTC),
		time.Date(2026, 10, 14, 8, 30, 15, 0, time.FixedZone("x", -7*3600)),
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.FixedZone("y", 5*3600+30*60)),
	}
	for _, in := range cases {
		enc := Date(in)
		out, err := enc.AsDate()
		if err != nil {
			t.Errorf("%s: %v", enc, err)
			continue
		}
		if !out.Equal(in) {
			t.Errorf("%s: got %s, want %s", enc, out, in)
		}
	}

	_, err := String("yesterday").AsDate()
	if err == nil {
		t.Error("invalid date accepted")
	}
}

func TestStream(t *testing.T) {
	stm := &Stream{
		Dict: Dict{"Type": Name("Test"), "Length": Integer(999)},
		R:    strings.NewReader("hello"),
	}
	buf := &bytes.Buffer{}
	err := stm.PDF(buf)
	if err != nil {
		t.Fatal(err)
	}
	want := "<<\n/Length 5\n/Type /Test\n>>\nstream\nhello\nendstream"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
	if stm.Dict["Length"] != Integer(999) {
		t.Error("writing the stream modified its dictionary")
	}

	obj, err := ParseObject(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	stm2 := obj.(*Stream)
	data, err := io.ReadAll(stm2.R)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff("hello", string(data)); d != "" {
		t.Error(d)
	}
}
