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

package form

import (
	"errors"
	goimage "image"
	"image/color"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pdfstamp/document"
	"seehuhn.de/go/pdfstamp/image"
	"seehuhn.de/go/pdfstamp/pdf"
)

// publish makes ref reachable and saves doc, so that ref can be resolved.
func publish(t *testing.T, doc *document.Document, ref pdf.Ref) {
	t.Helper()
	catalog, err := doc.Dict(doc.Catalog())
	if err != nil {
		t.Fatal(err)
	}
	catalog["TestForm"] = ref
	err = doc.Save(io.Discard)
	if err != nil {
		t.Fatal(err)
	}
}

func testImage(w, h int) *goimage.NRGBA {
	img := goimage.NewNRGBA(goimage.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: 200, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	return img
}

// sizeOnly is an image which fails the test if it is ever embedded.
type sizeOnly struct {
	t    *testing.T
	w, h int
}

func (im sizeOnly) Size() (int, int) { return im.w, im.h }

func (im sizeOnly) Embed(*document.Document) (pdf.Ref, error) {
	im.t.Error("unexpected call to Embed")
	return pdf.Ref{}, errors.New("not implemented")
}

func TestFromImage(t *testing.T) {
	doc := document.New(nil)
	src := testImage(200, 100)
	f, err := FromImage(doc, image.NewRaster(src))
	if err != nil {
		t.Fatal(err)
	}

	if got := f.Extent(); got != (vec.Vec2{X: 200, Y: 100}) {
		t.Errorf("wrong extent %v", got)
	}
	if f.BBox != (rect.Rect{URx: 200, URy: 100}) {
		t.Errorf("wrong bbox %v", f.BBox)
	}

	// The extent is fixed once the form exists.
	src.Rect = goimage.Rect(0, 0, 10, 10)
	if got := f.Extent(); got != (vec.Vec2{X: 200, Y: 100}) {
		t.Errorf("extent changed to %v", got)
	}

	publish(t, doc, f.Ref)
	decoded, err := Decode(doc, f.Ref)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(f, decoded, cmp.AllowUnexported(pdf.Ref{})); d != "" {
		t.Errorf("round trip (-want +got):\n%s", d)
	}

	want := "q\n200 0 0 100 0 0 cm\n/Im1 Do\nQ\n"
	if string(decoded.Content) != want {
		t.Errorf("content = %q, want %q", decoded.Content, want)
	}

	imgRef, ok := decoded.Resources["XObject"].(pdf.Dict)["Im1"].(pdf.Ref)
	if !ok {
		t.Fatalf("no image in resources %v", decoded.Resources)
	}
	embedded, err := image.Decode(doc, imgRef)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := embedded.Size(); w != 200 || h != 100 {
		t.Errorf("image size %dx%d", w, h)
	}
}

func TestFromImageInvalid(t *testing.T) {
	doc := document.New(nil)

	_, err := FromImage(doc, nil)
	if !errors.Is(err, pdf.ErrInvalidImage) {
		t.Errorf("nil image: got %v", err)
	}

	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		_, err := FromImage(doc, sizeOnly{t, size[0], size[1]})
		if !errors.Is(err, pdf.ErrInvalidImage) {
			t.Errorf("%dx%d image: got %v", size[0], size[1], err)
		}
	}
}

func TestFromImageOwnerMismatch(t *testing.T) {
	other := document.New(nil)
	ref, err := image.NewRaster(testImage(4, 4)).Embed(other)
	if err != nil {
		t.Fatal(err)
	}
	foreign := &image.Embedded{Ref: ref, Width: 4, Height: 4}

	doc := document.New(nil)
	_, err = FromImage(doc, foreign)
	if !errors.Is(err, pdf.ErrOwnerMismatch) {
		t.Errorf("got %v", err)
	}

	// inside its own document the image can be used
	f, err := FromImage(other, foreign)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Resources["XObject"].(pdf.Dict)["Im1"]; got != ref {
		t.Errorf("image embedded again as %v", got)
	}
}

func TestBuilderMatrix(t *testing.T) {
	doc := document.New(nil)
	b := NewBuilder(doc, rect.Rect{LLx: -1, LLy: -1, URx: 1, URy: 1})
	b.Matrix = matrix.Scale(10, 10)
	b.DrawImage(image.NewRaster(testImage(2, 2)), -1, -1, 2, 2)
	f, err := b.Finish()
	if err != nil {
		t.Fatal(err)
	}

	_, err = b.Finish()
	if err == nil {
		t.Error("second Finish succeeded")
	}

	publish(t, doc, f.Ref)
	decoded, err := Decode(doc, f.Ref)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Matrix != matrix.Scale(10, 10) {
		t.Errorf("wrong matrix %v", decoded.Matrix)
	}
	if got := decoded.Extent(); got != (vec.Vec2{X: 2, Y: 2}) {
		t.Errorf("wrong extent %v", got)
	}
}

func TestBuilderEmbedError(t *testing.T) {
	doc := document.New(nil)
	b := NewBuilder(doc, rect.Rect{URx: 1, URy: 1})
	b.DrawImage(image.NewRaster(goimage.NewNRGBA(goimage.Rect(0, 0, 0, 0))), 0, 0, 1, 1)
	_, err := b.Finish()
	if !errors.Is(err, pdf.ErrInvalidImage) {
		t.Errorf("got %v", err)
	}
}

func TestDecodeNotAForm(t *testing.T) {
	doc := document.New(nil)
	ref, err := image.NewRaster(testImage(1, 1)).Embed(doc)
	if err != nil {
		t.Fatal(err)
	}
	publish(t, doc, ref)

	_, err = Decode(doc, ref)
	var malformed *pdf.MalformedFileError
	if !errors.As(err, &malformed) {
		t.Errorf("got %v", err)
	}
}
