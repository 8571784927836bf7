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

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfstamp/annotation"
	"seehuhn.de/go/pdfstamp/document"
	"seehuhn.de/go/pdfstamp/graphics/form"
	"seehuhn.de/go/pdfstamp/pdf"
)

type inspectCmd struct {
	File string `arg:"" type:"existingfile" help:"PDF file to inspect."`
}

func (c *inspectCmd) Run(e *env) error {
	fd, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer fd.Close()

	pretty := term.IsTerminal(int(os.Stdout.Fd()))
	return inspect(os.Stdout, fd, pretty, e.log)
}

type pageInfo struct {
	Page        int              `json:"page"`
	MediaBox    [4]float64       `json:"mediaBox"`
	Annotations []annotationInfo `json:"annotations"`
}

type annotationInfo struct {
	Subtype    string          `json:"subtype"`
	Intent     string          `json:"intent,omitempty"`
	Rect       [4]float64      `json:"rect"`
	Contents   string          `json:"contents,omitempty"`
	Flags      string          `json:"flags,omitempty"`
	Appearance *appearanceInfo `json:"appearance,omitempty"`
}

type appearanceInfo struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Images int     `json:"images"`
}

// inspect writes a JSON summary of the annotations in the PDF file read
// from r.
func inspect(w io.Writer, r io.Reader, pretty bool, log logrus.FieldLogger) error {
	doc, err := document.Load(r, &document.Options{Logger: log})
	if err != nil {
		return err
	}
	defer doc.Close()

	var res []pageInfo
	for i, page := range doc.Pages() {
		info := pageInfo{
			Page:        i + 1,
			MediaBox:    asArray(page.MediaBox),
			Annotations: []annotationInfo{},
		}
		for _, ref := range page.Annotations.All() {
			a, err := annotation.Decode(doc, ref)
			if err != nil {
				log.WithField("page", i+1).Warnf("%s: %v", ref, err)
				continue
			}
			info.Annotations = append(info.Annotations, describe(doc, a, log))
		}
		res = append(res, info)
	}

	var data []byte
	if pretty {
		data, err = json.MarshalIndent(res, "", "  ")
	} else {
		data, err = json.Marshal(res)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func describe(doc *document.Document, a *annotation.Annotation, log logrus.FieldLogger) annotationInfo {
	info := annotationInfo{
		Subtype:  string(a.Subtype()),
		Rect:     asArray(a.Rect()),
		Contents: a.Contents(),
	}
	if it, ok := a.Elements().GetName("IT"); ok {
		info.Intent = string(it)
	}
	if f := a.Flags(); f != 0 {
		info.Flags = f.String()
	}

	ap, err := a.Appearance()
	if err != nil || ap == nil || ap.Normal == nil {
		if err != nil {
			log.Warnf("%s: appearance: %v", a.Reference(), err)
		}
		return info
	}
	f, err := form.Decode(doc, ap.Normal)
	if err != nil {
		log.Debugf("%s: normal appearance: %v", a.Reference(), err)
		return info
	}
	ext := f.Extent()
	xObjects, _ := pdf.GetDict(doc, f.Resources["XObject"])
	info.Appearance = &appearanceInfo{
		Width:  ext.X,
		Height: ext.Y,
		Images: len(xObjects),
	}
	return info
}

func asArray(r rect.Rect) [4]float64 {
	return [4]float64{r.LLx, r.LLy, r.URx, r.URy}
}
