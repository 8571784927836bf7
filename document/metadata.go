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

package document

import (
	"bytes"
	"fmt"

	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfstamp/pdf"
)

// SetMetadata sets the XMP metadata of the document.  The packet is
// serialized when the document is saved.  If packet is nil, the metadata
// stream is removed.
func (d *Document) SetMetadata(packet *xmp.Packet) {
	d.meta = packet
	d.metaRead = true
}

// Metadata returns the XMP metadata of the document, or nil if there
// is none.  For loaded documents, the metadata stream is parsed on first
// use.
func (d *Document) Metadata() (*xmp.Packet, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if d.metaRead {
		return d.meta, nil
	}

	catalog, _ := d.objects[d.catalog.Slot()].(pdf.Dict)
	ref, ok := catalog["Metadata"].(pdf.Ref)
	if !ok {
		d.metaRead = true
		return nil, nil
	}
	stm, err := pdf.GetStream(d, ref)
	if err != nil {
		return nil, err
	}
	if stm == nil {
		d.metaRead = true
		return nil, nil
	}
	body, err := stm.Decode(d)
	if err != nil {
		return nil, err
	}
	packet, err := xmp.Read(body)
	if err != nil {
		return nil, fmt.Errorf("XMP metadata: %w", err)
	}

	d.meta = packet
	d.metaRef = ref
	d.metaRead = true
	return packet, nil
}

// writeMetadata stores the XMP packet in the metadata stream and updates
// the catalog entry.
func (d *Document) writeMetadata(catalog pdf.Dict) error {
	if !d.metaRead {
		// unchanged since the document was loaded
		return nil
	}
	if d.meta == nil {
		delete(catalog, "Metadata")
		return nil
	}
	if d.version < pdf.V1_4 {
		return fmt.Errorf("XMP metadata requires PDF 1.4, document uses %s", d.version)
	}

	buf := &bytes.Buffer{}
	err := d.meta.Write(buf, &xmp.PacketOptions{Pretty: true})
	if err != nil {
		return err
	}

	if d.metaRef.IsZero() {
		d.metaRef = d.alloc()
	}
	d.objects[d.metaRef.Slot()] = &memStream{
		dict: pdf.Dict{
			"Type":    pdf.Name("Metadata"),
			"Subtype": pdf.Name("XML"),
		},
		data: buf.Bytes(),
	}
	catalog["Metadata"] = d.metaRef
	return nil
}
