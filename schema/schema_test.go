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

package schema

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfstamp/pdf"
)

var (
	testBase = &Table{
		Name: "Base",
		Keys: []Key{
			{Name: "C", Type: Name},
			{Name: "Shared", Type: Integer},
		},
	}
	testChild = &Table{
		Name:    "Child",
		Parents: []*Table{testBase},
		Keys: []Key{
			{Name: "A", Type: Reference, Required: true},
			{Name: "B", Type: Rectangle},
			{Name: "Shared", Type: Name},
		},
	}
)

func TestSchemaClosure(t *testing.T) {
	m := testChild.Meta()

	want := []pdf.Name{"C", "Shared", "A", "B"}
	if d := cmp.Diff(want, m.Keys()); d != "" {
		t.Errorf("keys (-want +got):\n%s", d)
	}
	for _, key := range []pdf.Name{"A", "B", "C"} {
		if !m.Has(key) {
			t.Errorf("key /%s missing", key)
		}
	}
	if m.Has("D") {
		t.Error("undeclared key /D reported")
	}

	// keys declared by the child override inherited ones
	shared, _ := m.Lookup("Shared")
	if shared.Type != Name {
		t.Errorf("wrong type %s for /Shared", shared.Type)
	}
	if d := cmp.Diff([]pdf.Name{"A"}, m.Required()); d != "" {
		t.Errorf("required (-want +got):\n%s", d)
	}
}

func TestSchemaRejectsWrongCategory(t *testing.T) {
	wrong := map[pdf.Name]pdf.Object{
		"A": pdf.Name("X"),
		"B": pdf.Array{pdf.Integer(1), pdf.Integer(2)},
		"C": pdf.NewRef(1, 1),
	}
	for key, val := range wrong {
		e := NewElements(testChild, nil)
		err := e.Set(key, val)
		if !errors.Is(err, ErrSchemaViolation) {
			t.Errorf("/%s = %s: expected schema violation, got %v", key, pdf.Format(val), err)
		}
		var violation *ViolationError
		if !errors.As(err, &violation) || violation.Key != key {
			t.Errorf("/%s: wrong error %#v", key, err)
		}
		if _, present := e.Get(key); present {
			t.Errorf("/%s: rejected value was stored", key)
		}
	}
}

func TestSchemaAcceptsRightCategory(t *testing.T) {
	e := NewElements(testChild, nil)
	ok := map[pdf.Name]pdf.Object{
		"A": pdf.NewRef(1, 1),
		"B": pdf.Array{pdf.Integer(1), pdf.Integer(2), pdf.Integer(3), pdf.Integer(4)},
		"C": pdf.Name("X"),
	}
	for key, val := range ok {
		err := e.Set(key, val)
		if err != nil {
			t.Errorf("/%s: %v", key, err)
		}
	}
	if err := e.Check(); err != nil {
		t.Error(err)
	}
}

func TestCoercion(t *testing.T) {
	cases := []struct {
		tp   Type
		in   pdf.Object
		out  pdf.Object
		fail bool
	}{
		{Integer, pdf.Real(3), pdf.Integer(3), false},
		{Integer, pdf.Number(4), pdf.Integer(4), false},
		{Integer, pdf.Real(3.5), nil, true},
		{Real, pdf.Integer(2), pdf.Real(2), false},
		{Real, pdf.Number(0.25), pdf.Real(0.25), false},
		{Number, pdf.Number(0.25), pdf.Number(0.25), false},
		{Rectangle, pdf.Array{pdf.Integer(400), pdf.Integer(300), pdf.Integer(200), pdf.Integer(200)},
			pdf.Array{pdf.Number(200), pdf.Number(200), pdf.Number(400), pdf.Number(300)}, false},
		{Rectangle, pdf.Array{pdf.Name("x"), pdf.Integer(0), pdf.Integer(0), pdf.Integer(0)}, nil, true},
		{Array, pdf.Array{pdf.Name("x")}, pdf.Array{pdf.Name("x")}, false},
		{Date, pdf.String("D:20261014120000Z"), pdf.String("D:20261014120000Z"), false},
		{Date, pdf.String("not a date"), nil, true},
		{String | Date, pdf.String("anything"), pdf.String("anything"), false},
		{Dict | Reference, pdf.Reference(7), pdf.Reference(7), false},
		{Dict, pdf.NewRef(1, 1), nil, true},
		{Name, pdf.String("Stamp"), nil, true},
		{Bool, pdf.Bool(true), pdf.Bool(true), false},
		{Real, pdf.Real(math.NaN()), nil, true},
		{Real, pdf.Number(math.Inf(1)), nil, true},
		{Number, pdf.Number(math.NaN()), nil, true},
		{Integer, pdf.Real(math.Inf(-1)), nil, true},
		{Rectangle, pdf.Array{pdf.Number(math.NaN()), pdf.Integer(0), pdf.Integer(10), pdf.Integer(10)}, nil, true},
		{Rectangle, pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Real(math.Inf(1)), pdf.Integer(10)}, nil, true},
	}
	for i, test := range cases {
		out, ok := coerce(test.tp, test.in)
		if ok == test.fail {
			t.Errorf("%d: %s into %s: ok=%t", i, pdf.Format(test.in), test.tp, ok)
			continue
		}
		if test.fail {
			continue
		}
		if d := cmp.Diff(test.out, out, cmp.AllowUnexported(pdf.Ref{})); d != "" {
			t.Errorf("%d: (-want +got):\n%s", i, d)
		}
	}
}

func TestElements(t *testing.T) {
	e := NewElements(testChild, nil)

	err := e.Check()
	var missing *MissingKeyError
	if !errors.As(err, &missing) || missing.Key != "A" {
		t.Errorf("expected missing /A, got %v", err)
	}
	if !errors.Is(err, ErrMissingRequiredKey) {
		t.Errorf("error does not match ErrMissingRequiredKey: %v", err)
	}

	r := rect.Rect{LLx: 200, LLy: 200, URx: 400, URy: 300}
	if err := e.SetRect("B", r); err != nil {
		t.Fatal(err)
	}
	got, ok := e.GetRect("B")
	if !ok || got != r {
		t.Errorf("GetRect: got %v, %t", got, ok)
	}

	// undeclared keys are stored without checks
	if err := e.Set("Private", pdf.String("x")); err != nil {
		t.Error(err)
	}
	if val, ok := e.Get("Private"); !ok || pdf.Format(val) != "(x)" {
		t.Errorf("undeclared key: got %v, %t", val, ok)
	}

	if err := e.Set("Private", nil); err != nil {
		t.Error(err)
	}
	if _, ok := e.Get("Private"); ok {
		t.Error("nil did not delete the key")
	}

	if err := e.SetName("C", "Stamp"); err != nil {
		t.Error(err)
	}
	if name, ok := e.GetName("C"); !ok || name != "Stamp" {
		t.Errorf("GetName: got %q, %t", name, ok)
	}
}

func TestSetDate(t *testing.T) {
	table := &Table{Name: "Dated", Keys: []Key{{Name: "M", Type: Date}}}
	e := NewElements(table, nil)
	when := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	if err := e.SetDate("M", when); err != nil {
		t.Fatal(err)
	}
	s, ok := e.Dict["M"].(pdf.String)
	if !ok {
		t.Fatalf("wrong type %T", e.Dict["M"])
	}
	back, err := s.AsDate()
	if err != nil || !back.Equal(when) {
		t.Errorf("got %v, %v", back, err)
	}
}

func TestMetaConcurrentFirstUse(t *testing.T) {
	base := &Table{Name: "RaceBase", Keys: []Key{{Name: "X", Type: Name}}}
	table := &Table{
		Name:    "Race",
		Parents: []*Table{base},
		Keys:    []Key{{Name: "Y", Type: Integer, Required: true}},
	}

	before := metaBuilds.Load()

	const n = 64
	results := make([]*Meta, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = table.Meta()
		}()
	}
	close(start)
	wg.Wait()

	for i, m := range results {
		if m != results[0] {
			t.Fatalf("caller %d observed a different Meta", i)
		}
		if len(m.Keys()) != 2 {
			t.Fatalf("caller %d observed a partial Meta: %v", i, m.Keys())
		}
	}
	if builds := metaBuilds.Load() - before; builds != 2 {
		t.Errorf("tables were merged %d times, expected 2", builds)
	}
}

func TestTypeString(t *testing.T) {
	cases := map[Type]string{
		0:                 "none",
		Name:              "Name",
		Dict | Reference:  "Dict|Reference",
		Number:            "Integer|Real",
		Rectangle | Array: "Array|Rectangle",
	}
	for tp, want := range cases {
		if got := tp.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}
