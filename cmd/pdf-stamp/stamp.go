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
	"context"
)

type stampCmd struct {
	Image string `arg:"" type:"existingfile" help:"Image file (JPEG, PNG, GIF, BMP, TIFF or WebP)."`

	Input  string `short:"i" type:"existingfile" help:"PDF file to stamp.  If omitted, a new document is created."`
	Output string `short:"o" required:"" type:"path" help:"Output PDF file."`
	Force  bool   `short:"f" help:"Overwrite the output file if it exists."`

	Page   int     `short:"p" default:"1" help:"Page number, starting at 1."`
	X      float64 `help:"Horizontal position of the lower left corner."`
	Y      float64 `help:"Vertical position of the lower left corner."`
	Width  float64 `help:"Width of the stamp (default: image width in pixels)."`
	Height float64 `help:"Height of the stamp (default: image height in pixels)."`

	Paper    string `default:"A4" enum:"A4,A5,Letter" help:"Paper size of new documents."`
	Lang     string `help:"Language of new documents, e.g. en-GB."`
	Title    string `help:"Document title for the XMP metadata."`
	Contents string `help:"Alternate description of the stamp."`
}

func (c *stampCmd) Run(e *env) error {
	if !c.Force {
		err := checkOutput(c.Output)
		if err != nil {
			return err
		}
	}

	j := &job{
		Input:  c.Input,
		Output: c.Output,
		Paper:  c.Paper,
		Lang:   c.Lang,
		Title:  c.Title,
		Stamps: []stampEntry{{
			Image:    c.Image,
			Page:     c.Page,
			X:        c.X,
			Y:        c.Y,
			Width:    c.Width,
			Height:   c.Height,
			Contents: c.Contents,
		}},
	}
	err := j.validate()
	if err != nil {
		return err
	}
	return j.run(context.Background(), e.log)
}
