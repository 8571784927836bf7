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

package image

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	// register the decoders used by [Read]
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"seehuhn.de/go/pdfstamp/pdf"
)

// Read reads an image file.  JPEG files are passed through unchanged,
// all other supported formats (PNG, GIF, BMP, TIFF and WebP) are
// converted to a [Raster].  The second return value is the name of the
// file format.
func Read(r io.Reader) (Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}

	if bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}) {
		im, err := NewJPEG(data)
		if err != nil {
			return nil, "", err
		}
		return im, "jpeg", nil
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", pdf.ErrInvalidImage, err)
	}
	return NewRaster(src), format, nil
}

// Open reads the named image file.
func Open(name string) (Image, error) {
	fd, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	im, _, err := Read(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return im, nil
}
