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
	"compress/zlib"
	"errors"
	"io"
	"testing"
)

func TestFlateRoundTrip(t *testing.T) {
	in := bytes.Repeat([]byte("q 200 0 0 100 0 0 cm /Im1 Do Q\n"), 50)
	enc, err := FlateEncode(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(enc) >= len(in) {
		t.Errorf("no compression: %d >= %d", len(enc), len(in))
	}

	stm := &Stream{
		Dict: Dict{"Filter": Name("FlateDecode")},
		R:    bytes.NewReader(enc),
	}
	r, err := stm.Decode(nil)
	if err != nil {
		t.Fatal(err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(in, out) {
		t.Error("round trip failed")
	}
}

func TestPNGUpPredictor(t *testing.T) {
	// two rows of three bytes each, both using the "Up" filter
	raw := []byte{2, 1, 2, 3, 2, 1, 1, 1}
	buf := &bytes.Buffer{}
	zw := zlib.NewWriter(buf)
	zw.Write(raw)
	zw.Close()

	stm := &Stream{
		Dict: Dict{
			"Filter": Array{Name("FlateDecode")},
			"DecodeParms": Array{Dict{
				"Predictor": Integer(12),
				"Columns":   Integer(3),
			}},
		},
		R: buf,
	}
	r, err := stm.Decode(nil)
	if err != nil {
		t.Fatal(err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 2, 3, 2, 3, 4}
	if !bytes.Equal(out, want) {
		t.Errorf("got %v, want %v", out, want)
	}
}

func TestUnsupportedFilter(t *testing.T) {
	stm := &Stream{
		Dict: Dict{"Filter": Name("DCTDecode")},
		R:    bytes.NewReader(nil),
	}
	_, err := stm.Decode(nil)
	if !errors.Is(err, ErrUnsupportedFilter) {
		t.Errorf("expected ErrUnsupportedFilter, got %v", err)
	}
}
