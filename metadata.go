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
	"time"

	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfstamp/document"
)

// Info describes a document in its XMP metadata.
type Info struct {
	// Title, if not empty, replaces the document title.
	Title string

	// Author, if not empty, is added to the list of creators.
	Author string

	// Modified is the time of the modification.  If this is zero, the
	// current time is used.
	Modified time.Time
}

// pdfNamespace is the XMP namespace for PDF properties.
// See https://developer.adobe.com/xmp/docs/XMPNamespaces/pdf/
type pdfNamespace struct {
	_        xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_        xmp.Prefix    `xmp:"pdf"`
	Producer xmp.AgentName
}

// basicNamespace holds the XMP basic properties set by [UpdateMetadata].
type basicNamespace struct {
	_            xmp.Namespace `xmp:"http://ns.adobe.com/xap/1.0/"`
	_            xmp.Prefix    `xmp:"xmp"`
	ModifyDate   xmp.Date
	MetadataDate xmp.Date
}

// UpdateMetadata records info in the XMP metadata of doc.  Existing
// metadata is kept, apart from the properties which are replaced.
func UpdateMetadata(doc *document.Document, info *Info) error {
	packet, err := doc.Metadata()
	if err != nil {
		return err
	}
	if packet == nil {
		packet = xmp.NewPacket()
	}

	dc := &xmp.DublinCore{}
	packet.Get(dc)
	if info.Title != "" {
		dc.Title.Set(doc.Language(), info.Title)
	}
	if info.Author != "" {
		dc.Creator.Append(xmp.NewProperName(info.Author))
	}

	now := info.Modified
	if now.IsZero() {
		now = time.Now()
	}
	basic := &basicNamespace{
		ModifyDate:   xmp.NewDate(now),
		MetadataDate: xmp.NewDate(now),
	}
	producer := &pdfNamespace{
		Producer: xmp.NewAgentName(document.Producer),
	}

	err = packet.Set(dc, basic, producer)
	if err != nil {
		return err
	}
	doc.SetMetadata(packet)
	return nil
}
