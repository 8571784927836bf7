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

package appearance

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfstamp/pdf"
	"seehuhn.de/go/pdfstamp/schema"
)

func TestAsDict(t *testing.T) {
	ref := pdf.NewRef(3, 1)
	d := &Dict{Normal: ref}
	dict, err := d.AsDict()
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(pdf.Dict{"N": ref}, dict, cmp.AllowUnexported(pdf.Ref{})); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	d2, err := Decode(nil, dict)
	if err != nil {
		t.Fatal(err)
	}
	if d2.Normal != ref || d2.RollOver != nil || d2.Down != nil {
		t.Errorf("wrong round trip %v", d2)
	}
}

func TestMissingNormal(t *testing.T) {
	_, err := (&Dict{Down: pdf.NewRef(1, 1)}).AsDict()
	if !errors.Is(err, schema.ErrMissingRequiredKey) {
		t.Errorf("AsDict: got %v", err)
	}

	_, err = Decode(nil, pdf.Dict{"R": pdf.NewRef(1, 1)})
	if !errors.Is(err, schema.ErrMissingRequiredKey) {
		t.Errorf("Decode: got %v", err)
	}
}

func TestWrongType(t *testing.T) {
	_, err := (&Dict{Normal: pdf.Integer(1)}).AsDict()
	var violation *schema.ViolationError
	if !errors.As(err, &violation) || violation.Key != "N" {
		t.Errorf("got %v", err)
	}
}

func TestDecodeNull(t *testing.T) {
	d, err := Decode(nil, nil)
	if d != nil || err != nil {
		t.Errorf("got %v, %v", d, err)
	}
}
