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

package pdfstamp

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfstamp/annotation"
	"seehuhn.de/go/pdfstamp/document"
	"seehuhn.de/go/pdfstamp/image"
)

// Placement describes where a stamp is shown on a page.
//
// X and Y give the lower left corner in default user space.  If Width and
// Height are both zero, the image is shown with one unit per pixel.  If
// only one of them is zero, it is chosen to keep the aspect ratio of the
// image.
type Placement struct {
	X, Y          float64
	Width, Height float64
}

// Rect returns the annotation rectangle for an image of the given pixel
// dimensions.
func (p Placement) Rect(imgWidth, imgHeight int) (rect.Rect, error) {
	if imgWidth <= 0 || imgHeight <= 0 {
		return rect.Rect{}, fmt.Errorf("invalid image size %dx%d", imgWidth, imgHeight)
	}
	if p.Width < 0 || p.Height < 0 ||
		!isFinite(p.X, p.Y, p.Width, p.Height) {
		return rect.Rect{}, fmt.Errorf("invalid placement %v", p)
	}

	w, h := p.Width, p.Height
	aspect := float64(imgWidth) / float64(imgHeight)
	switch {
	case w == 0 && h == 0:
		w, h = float64(imgWidth), float64(imgHeight)
	case h == 0:
		h = w / aspect
	case w == 0:
		w = h * aspect
	}

	r := rect.Rect{LLx: p.X, LLy: p.Y, URx: p.X + w, URy: p.Y + h}
	if !isFinite(r.URx, r.URy) {
		return rect.Rect{}, fmt.Errorf("placement %v out of range", p)
	}
	return r, nil
}

func isFinite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Stamp adds an image stamp annotation showing img to page.
//
// If an error is returned, the page is unchanged.
func Stamp(page *document.Page, img image.Image, where Placement) (*annotation.Annotation, error) {
	if img == nil {
		return nil, fmt.Errorf("pdfstamp: missing image")
	}
	w, h := img.Size()
	r, err := where.Rect(w, h)
	if err != nil {
		return nil, fmt.Errorf("pdfstamp: %w", err)
	}

	a, err := annotation.NewImageStamp(page.Document(), img)
	if err != nil {
		return nil, err
	}
	err = a.SetRect(r)
	if err != nil {
		return nil, err
	}
	err = a.SetFlags(annotation.FlagPrint)
	if err != nil {
		return nil, err
	}
	err = page.Annotations.Add(a)
	if err != nil {
		return nil, err
	}
	return a, nil
}
