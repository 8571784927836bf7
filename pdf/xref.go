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
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
)

type xRefEntry struct {
	Pos        int64 // -1 for free entries
	Generation uint16
}

func (r *Reader) findXRef() (int64, error) {
	pos, err := r.lastOccurrence("startxref")
	if err != nil {
		return 0, err
	}

	s := r.scannerAt(pos + 9)
	err = s.SkipWhiteSpace()
	if err != nil {
		return 0, err
	}
	xRefPos, err := s.ReadInteger()
	if err != nil {
		return 0, err
	}

	if xRefPos <= 0 || int64(xRefPos) >= r.size {
		return 0, &MalformedFileError{
			Pos: s.filePos(),
			Err: errors.New("invalid xref position"),
		}
	}

	return int64(xRefPos), nil
}

func (r *Reader) lastOccurrence(pat string) (int64, error) {
	const chunkSize = 1024

	buf := make([]byte, chunkSize)
	k := int64(len(pat))
	pos := r.size
	for pos >= k {
		start := max(pos-chunkSize, 0)
		n, err := r.r.ReadAt(buf[:pos-start], start)
		if err != nil && err != io.EOF {
			return 0, err
		}

		idx := bytes.LastIndex(buf[:n], []byte(pat))
		if idx >= 0 {
			return start + int64(idx), nil
		}

		if start == 0 {
			break
		}
		pos = start + k - 1
	}
	return 0, &MalformedFileError{
		Err: errors.New("startxref not found"),
	}
}

func (r *Reader) readXRef() (map[uint32]*xRefEntry, Dict, error) {
	start, err := r.findXRef()
	if err != nil {
		return nil, nil, err
	}

	xref := make(map[uint32]*xRefEntry)
	var trailer Dict
	seen := make(map[int64]bool)
	for {
		// avoid xref loops
		if seen[start] {
			break
		}
		seen[start] = true

		s := r.scannerAt(start)
		buf, err := s.Peek(4)
		if err != nil {
			return nil, nil, err
		}
		if !bytes.Equal(buf, []byte("xref")) {
			return nil, nil, fmt.Errorf("cross-reference stream at byte %d: %w",
				start, errors.ErrUnsupported)
		}
		dict, err := readXRefTable(xref, s)
		if err != nil {
			return nil, nil, err
		}
		if _, hasStm := dict["XRefStm"]; hasStm {
			return nil, nil, fmt.Errorf("hybrid cross-reference section: %w",
				errors.ErrUnsupported)
		}

		if trailer == nil {
			trailer = Dict{}
			for _, key := range []Name{"Root", "Encrypt", "Info", "ID", "Size"} {
				if val, ok := dict[key]; ok {
					trailer[key] = val
				}
			}
		}

		prev := dict["Prev"]
		if prev == nil {
			break
		}
		prevStart, ok := prev.(Integer)
		if !ok || prevStart <= 0 || int64(prevStart) >= r.size {
			return nil, nil, &MalformedFileError{
				Pos: start,
				Err: fmt.Errorf("invalid /Prev value %s", Format(prev)),
			}
		}
		start = int64(prevStart)
	}

	return xref, trailer, nil
}

func readXRefTable(xref map[uint32]*xRefEntry, s *scanner) (Dict, error) {
	err := s.SkipString("xref")
	if err != nil {
		return nil, err
	}
	err = s.SkipWhiteSpace()
	if err != nil {
		return nil, err
	}

	for {
		buf, err := s.Peek(1)
		if err != nil {
			return nil, err
		}
		if len(buf) == 0 || buf[0] < '0' || buf[0] > '9' {
			break
		}

		start, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}
		length, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		if start < 0 || length < 0 || start+length > 1<<32-1 {
			return nil, &MalformedFileError{
				Pos: s.filePos(),
				Err: errors.New("invalid xref subsection"),
			}
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}

		err = decodeXRefSection(xref, s, uint32(start), uint32(start+length))
		if err != nil {
			return nil, err
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}
	}

	err = s.SkipString("trailer")
	if err != nil {
		return nil, err
	}
	err = s.SkipWhiteSpace()
	if err != nil {
		return nil, err
	}
	return s.ReadDict()
}

func decodeXRefSection(xref map[uint32]*xRefEntry, s *scanner, start, end uint32) error {
	for i := start; i < end; i++ {
		buf, err := s.Peek(20)
		if err != nil {
			return err
		}
		if len(buf) < 20 {
			return &MalformedFileError{
				Pos: s.filePos(),
				Err: io.ErrUnexpectedEOF,
			}
		}
		if xref[i] != nil {
			// entries from newer sections take precedence
			s.pos += 20
			continue
		}

		a, err := strconv.ParseInt(string(buf[:10]), 10, 64)
		if err != nil {
			return &MalformedFileError{Pos: s.filePos(), Err: err}
		}
		b, err := strconv.ParseUint(string(buf[11:16]), 10, 16)
		if err != nil {
			// fix a common error in some PDF files
			if bytes.HasPrefix(buf, []byte("0000000000 65536 ")) {
				b = 65535
				buf[17] = 'f'
			} else {
				return &MalformedFileError{Pos: s.filePos(), Err: err}
			}
		}
		switch buf[17] {
		case 'f':
			xref[i] = &xRefEntry{Pos: -1, Generation: uint16(b)}
		case 'n':
			xref[i] = &xRefEntry{Pos: a, Generation: uint16(b)}
		default:
			return &MalformedFileError{
				Pos: s.filePos(),
				Err: errors.New("malformed xref table"),
			}
		}

		s.pos += 20
	}
	return nil
}

// writeXRefTable writes a classic cross-reference table with a single
// subsection.  Free entries form a linked list starting at object 0.
func (pdf *Writer) writeXRefTable(trailer Dict) error {
	size := pdf.size

	var free []uint32
	for i := uint32(1); i < size; i++ {
		if _, ok := pdf.xref[i]; !ok {
			free = append(free, i)
		}
	}
	slices.Sort(free)
	nextFree := make(map[uint32]uint32, len(free)+1)
	prev := uint32(0)
	for _, i := range free {
		nextFree[prev] = i
		prev = i
	}
	nextFree[prev] = 0

	_, err := fmt.Fprintf(pdf.w, "xref\n0 %d\n", size)
	if err != nil {
		return err
	}
	for i := uint32(0); i < size; i++ {
		entry, inUse := pdf.xref[i]
		if i == 0 || !inUse {
			gen := uint16(0)
			if i == 0 {
				gen = 65535
			}
			_, err = fmt.Fprintf(pdf.w, "%010d %05d f\r\n", nextFree[i], gen)
		} else {
			_, err = fmt.Fprintf(pdf.w, "%010d %05d n\r\n", entry.Pos, entry.Generation)
		}
		if err != nil {
			return err
		}
	}

	_, err = io.WriteString(pdf.w, "trailer\n")
	if err != nil {
		return err
	}
	return trailer.PDF(pdf.w)
}
