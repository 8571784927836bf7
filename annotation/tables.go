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

package annotation

import "seehuhn.de/go/pdfstamp/schema"

// AnnotTable lists the entries common to all annotation dictionaries.
// See table 166 of ISO 32000-2:2020.
var AnnotTable = &schema.Table{
	Name: "Annot",
	Keys: []schema.Key{
		{Name: "Type", Type: schema.Name},
		{Name: "Subtype", Type: schema.Name, Required: true},
		{Name: "Rect", Type: schema.Rectangle, Required: true},
		{Name: "Contents", Type: schema.String},
		{Name: "P", Type: schema.Dict | schema.Reference},
		{Name: "NM", Type: schema.String},
		{Name: "M", Type: schema.Date},
		{Name: "F", Type: schema.Integer},
		{Name: "AP", Type: schema.Dict | schema.Reference},
		{Name: "AS", Type: schema.Name},
		{Name: "Border", Type: schema.Array},
		{Name: "C", Type: schema.Array},
		{Name: "StructParent", Type: schema.Integer},
		{Name: "OC", Type: schema.Dict | schema.Reference},
	},
}

// MarkupTable lists the entries of markup annotations.
// See table 170 of ISO 32000-2:2020.
var MarkupTable = &schema.Table{
	Name:    "Markup",
	Parents: []*schema.Table{AnnotTable},
	Keys: []schema.Key{
		{Name: "T", Type: schema.String},
		{Name: "Popup", Type: schema.Dict | schema.Reference},
		{Name: "CA", Type: schema.Number},
		{Name: "RC", Type: schema.String | schema.Stream | schema.Reference},
		{Name: "CreationDate", Type: schema.Date},
		{Name: "IRT", Type: schema.Dict | schema.Reference},
		{Name: "Subj", Type: schema.String},
		{Name: "RT", Type: schema.Name},
		{Name: "IT", Type: schema.Name},
		{Name: "ExData", Type: schema.Dict | schema.Reference},
	},
}

// StampTable lists the entries of rubber stamp annotations.
// See table 184 of ISO 32000-2:2020.
var StampTable = &schema.Table{
	Name:    "Stamp",
	Parents: []*schema.Table{MarkupTable},
	Keys: []schema.Key{
		{Name: "Name", Type: schema.Name},
	},
}

// markupSubtypes lists the annotation subtypes which are markup
// annotations, apart from Stamp.
var markupSubtypes = map[string]bool{
	"Text":           true,
	"FreeText":       true,
	"Line":           true,
	"Square":         true,
	"Circle":         true,
	"Polygon":        true,
	"PolyLine":       true,
	"Highlight":      true,
	"Underline":      true,
	"Squiggly":       true,
	"StrikeOut":      true,
	"Caret":          true,
	"Ink":            true,
	"FileAttachment": true,
	"Sound":          true,
	"Redact":         true,
	"Projection":     true,
}

// tableFor returns the key table for the given annotation subtype.
func tableFor(subtype string) *schema.Table {
	switch {
	case subtype == "Stamp":
		return StampTable
	case markupSubtypes[subtype]:
		return MarkupTable
	default:
		return AnnotTable
	}
}
