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

package pdf

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// FlateEncode compresses data using the zlib/deflate format, as used by the
// /FlateDecode filter.
func FlateEncode(data []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw, err := zlib.NewWriterLevel(buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	_, err = zw.Write(data)
	if err != nil {
		return nil, err
	}
	err = zw.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode returns a reader for the decoded stream data.
// Only the /FlateDecode filter, optionally with PNG predictors, is
// supported.
func (x *Stream) Decode(r Getter) (io.Reader, error) {
	filter, err := Resolve(r, x.Dict["Filter"])
	if err != nil {
		return nil, err
	}
	params, err := Resolve(r, x.Dict["DecodeParms"])
	if err != nil {
		return nil, err
	}

	var filters, parms Array
	switch f := filter.(type) {
	case nil:
		// pass
	case Name:
		filters = Array{f}
		parms = Array{params}
	case Array:
		filters = f
		if p, ok := params.(Array); ok {
			parms = p
		}
	default:
		return nil, &MalformedFileError{
			Err: fmt.Errorf("invalid /Filter %s", Format(filter)),
		}
	}

	var out io.Reader = x.R
	if out == nil {
		out = bytes.NewReader(nil)
	}
	for i, name := range filters {
		var p Object
		if i < len(parms) {
			p = parms[i]
		}
		p, err = Resolve(r, p)
		if err != nil {
			return nil, err
		}
		out, err = applyFilter(out, name, p)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ErrUnsupportedFilter is returned by [Stream.Decode] for filters other
// than /FlateDecode.
var ErrUnsupportedFilter = errors.New("unsupported filter")

func applyFilter(r io.Reader, name Object, param Object) (io.Reader, error) {
	n, ok := name.(Name)
	if !ok {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("invalid filter description %s", Format(name)),
		}
	}
	switch n {
	case "FlateDecode", "Fl":
		predictor := 1
		columns := 1
		colors := 1
		bpc := 8
		if pDict, ok := param.(Dict); ok {
			if val, ok := pDict["Predictor"].(Integer); ok {
				predictor = int(val)
			}
			if val, ok := pDict["Columns"].(Integer); ok {
				columns = int(val)
			}
			if val, ok := pDict["Colors"].(Integer); ok {
				colors = int(val)
			}
			if val, ok := pDict["BitsPerComponent"].(Integer); ok {
				bpc = int(val)
			}
		}

		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, err
		}
		switch {
		case predictor == 1:
			return zr, nil
		case predictor >= 10 && predictor <= 15:
			bpp := (colors*bpc + 7) / 8
			rowBytes := (columns*colors*bpc + 7) / 8
			if bpp < 1 || rowBytes < 1 {
				return nil, &MalformedFileError{
					Err: errors.New("invalid predictor parameters"),
				}
			}
			return &pngReader{
				r:    zr,
				bpp:  bpp,
				prev: make([]byte, rowBytes),
				cur:  make([]byte, 1+rowBytes),
			}, nil
		default:
			return nil, fmt.Errorf("predictor %d: %w", predictor, ErrUnsupportedFilter)
		}
	default:
		return nil, fmt.Errorf("%s: %w", n, ErrUnsupportedFilter)
	}
}

// pngReader undoes the PNG row predictors.
type pngReader struct {
	r    io.Reader
	bpp  int
	prev []byte
	cur  []byte
	pend []byte
}

func (r *pngReader) Read(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if len(r.pend) > 0 {
			m := copy(b, r.pend)
			n += m
			b = b[m:]
			r.pend = r.pend[m:]
			continue
		}

		_, err := io.ReadFull(r.r, r.cur)
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil {
			return n, err
		}

		row := r.cur[1:]
		switch r.cur[0] {
		case 0: // None
		case 1: // Sub
			for i := r.bpp; i < len(row); i++ {
				row[i] += row[i-r.bpp]
			}
		case 2: // Up
			for i := range row {
				row[i] += r.prev[i]
			}
		case 3: // Average
			for i := range row {
				var left byte
				if i >= r.bpp {
					left = row[i-r.bpp]
				}
				row[i] += byte((int(left) + int(r.prev[i])) / 2)
			}
		case 4: // Paeth
			for i := range row {
				var a, c byte
				if i >= r.bpp {
					a = row[i-r.bpp]
					c = r.prev[i-r.bpp]
				}
				row[i] += paeth(a, r.prev[i], c)
			}
		default:
			return n, &MalformedFileError{
				Err: fmt.Errorf("invalid PNG predictor type %d", r.cur[0]),
			}
		}
		copy(r.prev, row)
		r.pend = r.prev
	}
	return n, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
