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
	"math"
	"strconv"
)

const scannerBufSize = 1024

// scanner reads PDF objects from a file.  Stream data is not copied; the
// returned streams read directly from the underlying io.ReaderAt.
type scanner struct {
	r   io.Reader
	src io.ReaderAt

	buf       []byte
	pos, used int

	base  int64 // file offset where s.r starts
	total int64 // bytes discarded from the buffer so far

	getInt func(Object) (Integer, error)
}

func newScanner(src io.ReaderAt, start, size int64, getInt func(Object) (Integer, error)) *scanner {
	if getInt == nil {
		getInt = func(obj Object) (Integer, error) {
			x, ok := obj.(Integer)
			if !ok {
				return 0, &MalformedFileError{
					Err: fmt.Errorf("expected Integer but got %T", obj),
				}
			}
			return x, nil
		}
	}
	return &scanner{
		r:      io.NewSectionReader(src, start, size-start),
		src:    src,
		buf:    make([]byte, scannerBufSize),
		base:   start,
		getInt: getInt,
	}
}

// ParseObject parses the PDF representation of a single direct object.
// Numbered references of the form "12 0 R" are returned as [Reference]
// values.
func ParseObject(data []byte) (Object, error) {
	s := newScanner(bytes.NewReader(data), 0, int64(len(data)), nil)
	err := s.SkipWhiteSpace()
	if err != nil {
		return nil, err
	}
	return s.ReadValue()
}

func (s *scanner) filePos() int64 {
	return s.base + s.total + int64(s.pos)
}

// ReadIndirectObject reads an object of the form "n g obj ... endobj".
func (s *scanner) ReadIndirectObject() (Object, Reference, error) {
	// Some files point the xref entries at the end of the previous line.
	// Try to fix this up by skipping any leading white space.
	err := s.SkipWhiteSpace()
	if err != nil {
		return nil, 0, err
	}

	number, err := s.ReadInteger()
	if err != nil {
		return nil, 0, err
	}
	err = s.SkipWhiteSpace()
	if err != nil {
		return nil, 0, err
	}
	generation, err := s.ReadInteger()
	if err != nil {
		return nil, 0, err
	}
	if number < 0 || number > math.MaxUint32 || generation < 0 || generation > math.MaxUint16 {
		return nil, 0, &MalformedFileError{
			Pos: s.filePos(),
			Err: errors.New("invalid object number"),
		}
	}
	ref := NewReference(uint32(number), uint16(generation))

	err = s.SkipWhiteSpace()
	if err != nil {
		return nil, 0, err
	}
	err = s.SkipString("obj")
	if err != nil {
		return nil, 0, err
	}
	err = s.SkipWhiteSpace()
	if err != nil {
		return nil, 0, err
	}

	obj, err := s.ReadValue()
	if err != nil {
		return nil, 0, err
	}
	err = s.SkipWhiteSpace()
	if err != nil {
		return nil, 0, err
	}

	err = s.SkipString("endobj")
	if err != nil {
		return nil, 0, err
	}

	return obj, ref, nil
}

// ReadValue reads an object.  If the object is an integer which starts a
// reference "n g R", the reference is returned instead.
func (s *scanner) ReadValue() (Object, error) {
	obj, err := s.ReadObject()
	if err != nil {
		return nil, err
	}
	if a, isInt := obj.(Integer); isInt {
		return s.maybeReference(a)
	}
	return obj, nil
}

// ReadObject reads a single object.  References are not detected; this is
// the caller's responsibility.
func (s *scanner) ReadObject() (Object, error) {
	buf, err := s.Peek(5) // len("false") == 5
	if err != nil {
		return nil, err
	}

	switch {
	case len(buf) == 0:
		return nil, &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
	case bytes.HasPrefix(buf, []byte("null")):
		s.pos += 4
		return nil, nil
	case bytes.HasPrefix(buf, []byte("true")):
		s.pos += 4
		return Bool(true), nil
	case bytes.HasPrefix(buf, []byte("false")):
		s.pos += 5
		return Bool(false), nil
	case buf[0] == '/':
		return s.ReadName()
	case buf[0] >= '0' && buf[0] <= '9', buf[0] == '+', buf[0] == '-', buf[0] == '.':
		return s.ReadNumber()
	case bytes.HasPrefix(buf, []byte("<<")):
		dict, err := s.ReadDict()
		if err != nil {
			return nil, err
		}

		// check whether this is the start of a stream
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}
		buf, _ = s.Peek(6) // len("stream") == 6
		if !bytes.HasPrefix(buf, []byte("stream")) {
			return dict, nil
		}
		return s.ReadStreamData(dict)
	case buf[0] == '(':
		s.pos++
		return s.ReadQuotedString()
	case buf[0] == '<':
		s.pos++
		return s.ReadHexString()
	case buf[0] == '[':
		s.pos++
		return s.ReadArray()
	}
	return nil, &MalformedFileError{
		Pos: s.filePos(),
		Err: fmt.Errorf("unexpected input %q", buf),
	}
}

// maybeReference checks whether the integer a, which has just been read, is
// the start of a reference "a g R".  If so, the rest of the reference is
// consumed and the reference is returned.  Otherwise a is returned.
func (s *scanner) maybeReference(a Integer) (Object, error) {
	buf, err := s.Peek(32)
	if err != nil {
		return nil, err
	}

	i := 0
	for i < len(buf) && isSpace[buf[i]] {
		i++
	}
	j := i
	for j < len(buf) && buf[j] >= '0' && buf[j] <= '9' {
		j++
	}
	if i == 0 || j == i {
		return a, nil
	}
	k := j
	for k < len(buf) && isSpace[buf[k]] {
		k++
	}
	if k == j || k >= len(buf) || buf[k] != 'R' {
		return a, nil
	}
	if k+1 < len(buf) && !isSpace[buf[k+1]] && !isDelimiter[buf[k+1]] {
		return a, nil
	}

	gen, err := strconv.ParseUint(string(buf[i:j]), 10, 16)
	if err != nil || a < 0 || a > math.MaxUint32 {
		return a, nil
	}
	s.pos += k + 1
	return NewReference(uint32(a), uint16(gen)), nil
}

// ReadInteger reads an integer.
func (s *scanner) ReadInteger() (Integer, error) {
	first := true
	var res []byte
	err := s.ScanBytes(func(c byte) bool {
		if first && (c == '+' || c == '-') {
			res = append(res, c)
		} else if c >= '0' && c <= '9' {
			res = append(res, c)
		} else {
			return false
		}
		first = false
		return true
	})
	if err != nil {
		return 0, err
	}

	x, err := strconv.ParseInt(string(res), 10, 64)
	if err != nil {
		return 0, &MalformedFileError{
			Pos: s.filePos(),
			Err: err,
		}
	}
	return Integer(x), nil
}

// ReadNumber reads an integer or real number.
func (s *scanner) ReadNumber() (Object, error) {
	hasDot := false
	first := true
	var res []byte
	err := s.ScanBytes(func(c byte) bool {
		if !hasDot && c == '.' {
			hasDot = true
			res = append(res, c)
		} else if first && (c == '+' || c == '-') {
			res = append(res, c)
		} else if c >= '0' && c <= '9' {
			res = append(res, c)
		} else {
			return false
		}
		first = false
		return true
	})
	if err != nil {
		return nil, err
	}

	if hasDot {
		x, err := strconv.ParseFloat(string(res), 64)
		if err != nil {
			return nil, &MalformedFileError{Pos: s.filePos(), Err: err}
		}
		return Real(x), nil
	}

	x, err := strconv.ParseInt(string(res), 10, 64)
	if err != nil {
		return nil, &MalformedFileError{Pos: s.filePos(), Err: err}
	}
	return Integer(x), nil
}

// ReadQuotedString reads a ()-delimited string, starting after the opening
// bracket.
func (s *scanner) ReadQuotedString() (String, error) {
	var res []byte
	parentCount := 0
	escape := false
	ignoreLF := false
	isOctal := 0
	octalVal := byte(0)
	done := false
	err := s.ScanBytes(func(c byte) bool {
		if ignoreLF {
			ignoreLF = false
			if c == '\n' {
				return true
			}
		}
		if isOctal > 0 {
			if c >= '0' && c <= '7' {
				octalVal = octalVal*8 + (c - '0')
				isOctal--
				if isOctal == 0 {
					res = append(res, octalVal)
				}
				return true
			}
			res = append(res, octalVal)
			isOctal = 0
		}
		if escape {
			escape = false
			switch c {
			case '\n':
				return true
			case '\r':
				ignoreLF = true
				return true
			case 'n':
				c = '\n'
			case 'r':
				c = '\r'
			case 't':
				c = '\t'
			case 'b':
				c = '\b'
			case 'f':
				c = '\f'
			}
			if c >= '0' && c <= '7' {
				isOctal = 2
				octalVal = c - '0'
				return true
			}
		} else if c == '\\' {
			escape = true
			return true
		} else if c == '(' {
			parentCount++
		} else if c == ')' {
			if parentCount > 0 {
				parentCount--
			} else {
				done = true
				return false
			}
		} else if c == '\r' {
			c = '\n'
			ignoreLF = true
		}
		res = append(res, c)
		return true
	})
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
	}

	s.pos++ // we have already seen the closing ")".
	return String(res), nil
}

// ReadHexString reads a <>-delimited string, starting after the opening
// angled bracket.
func (s *scanner) ReadHexString() (String, error) {
	var res []byte
	var hexVal byte
	first := true
	err := s.ScanBytes(func(c byte) bool {
		var d byte
		if c >= '0' && c <= '9' {
			d = c - '0'
		} else if c >= 'A' && c <= 'F' {
			d = c - 'A' + 10
		} else if c >= 'a' && c <= 'f' {
			d = c - 'a' + 10
		} else if c == '>' {
			return false
		} else {
			return true
		}
		if first {
			hexVal = d
		} else {
			res = append(res, 16*hexVal+d)
		}
		first = !first
		return true
	})
	if err != nil {
		return nil, err
	}
	if !first {
		res = append(res, 16*hexVal)
	}

	// If we reach the end of the file, the trailing ">" will be missing.
	s.SkipString(">")

	return String(res), nil
}

// ReadName reads a PDF name object.
func (s *scanner) ReadName() (Name, error) {
	err := s.SkipString("/")
	if err != nil {
		return "", err
	}

	hex := 0
	var hexByte byte
	var res []byte
	err = s.ScanBytes(func(c byte) bool {
		if hex > 0 {
			var val byte
			if c >= '0' && c <= '9' {
				val = c - '0'
			} else if c >= 'A' && c <= 'F' {
				val = c - 'A' + 10
			} else if c >= 'a' && c <= 'f' {
				val = c - 'a' + 10
			}
			hexByte = 16*hexByte + val
			hex--
			if hex == 0 {
				res = append(res, hexByte)
			}
		} else if c == '#' {
			hexByte = 0
			hex = 2
		} else if isSpace[c] || isDelimiter[c] {
			return false
		} else {
			res = append(res, c)
		}
		return true
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	return Name(res), nil
}

// ReadArray reads an array, starting after the opening "[".
func (s *scanner) ReadArray() (Array, error) {
	array := Array{}
	for {
		err := s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}

		buf, err := s.Peek(1)
		if err != nil {
			return nil, err
		}
		if len(buf) == 0 {
			return nil, &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
		}
		if buf[0] == ']' {
			break
		}

		obj, err := s.ReadValue()
		if err != nil {
			return nil, err
		}
		array = append(array, obj)
	}
	s.pos++ // we have already seen the closing "]"

	return array, nil
}

// ReadDict reads a PDF dictionary.
func (s *scanner) ReadDict() (Dict, error) {
	err := s.SkipString("<<")
	if err != nil {
		return nil, err
	}

	dict := Dict{}
	for {
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}
		buf, err := s.Peek(2)
		if err != nil {
			return nil, err
		}
		if bytes.Equal(buf, []byte(">>")) {
			break
		}
		if len(buf) == 0 || buf[0] != '/' {
			return nil, &MalformedFileError{
				Pos: s.filePos(),
				Err: errors.New("expected a name as dictionary key"),
			}
		}

		key, err := s.ReadName()
		if err != nil {
			return nil, err
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}
		val, err := s.ReadValue()
		if err != nil {
			return nil, err
		}

		if val != nil {
			dict[key] = val
		}
	}
	s.pos += 2 // we have already seen the closing ">>"

	return dict, nil
}

// ReadStreamData reads the data of a PDF Stream, starting after the Dict.
func (s *scanner) ReadStreamData(dict Dict) (*Stream, error) {
	length, err := s.getInt(dict["Length"])
	if err != nil {
		return nil, err
	} else if length < 0 {
		return nil, &MalformedFileError{
			Pos: s.filePos(),
			Err: errors.New("stream with negative length"),
		}
	}

	err = s.SkipString("stream")
	if err != nil {
		return nil, err
	}

	buf, err := s.Peek(2)
	if err != nil {
		return nil, err
	}
	if len(buf) >= 1 && buf[0] == '\n' {
		s.pos++
	} else if len(buf) >= 2 && buf[0] == '\r' && buf[1] == '\n' {
		s.pos += 2
	} else {
		return nil, &MalformedFileError{
			Pos: s.filePos(),
			Err: errors.New("missing end of line after \"stream\""),
		}
	}

	start := s.filePos()
	l := int64(length)
	streamData := io.NewSectionReader(s.src, start, l)
	err = s.Discard(l)
	if err != nil {
		return nil, err
	}

	err = s.SkipWhiteSpace()
	if err != nil {
		return nil, err
	}
	err = s.SkipString("endstream")
	if err != nil {
		return nil, err
	}

	dict["Length"] = length
	return &Stream{
		Dict: dict,
		R:    streamData,
	}, nil
}

func (s *scanner) readHeaderVersion() (Version, error) {
	buf, err := s.Peek(16)
	if err != nil {
		return 0, err
	}

	if len(buf) < 8 || !bytes.HasPrefix(buf, []byte("%PDF-")) {
		return 0, &MalformedFileError{
			Err: errors.New("PDF header not found"),
		}
	}
	ver, err := ParseVersion(string(buf[5:8]))
	if err != nil {
		return 0, &MalformedFileError{Pos: 5, Err: err}
	}

	s.pos += 8
	return ver, nil
}

// refill discards the read part of the buffer and reads as much new data as
// possible.  Once the end of file is reached, s.used will be smaller than the
// buffer size, but no error will be returned.
func (s *scanner) refill() error {
	s.total += int64(s.pos)
	copy(s.buf, s.buf[s.pos:s.used])
	s.used -= s.pos
	s.pos = 0

	n, err := io.ReadFull(s.r, s.buf[s.used:])
	s.used += n

	if err == io.ErrUnexpectedEOF || err == io.EOF {
		err = nil
	}
	return err
}

// Peek returns a view of the next n bytes of input.  The function panics, if n
// is larger than scannerBufSize.  On EOF, short buffers without an error code
// will be returned.
func (s *scanner) Peek(n int) ([]byte, error) {
	if n > scannerBufSize {
		panic("peek window too large")
	}

	var err error
	if s.pos+n > s.used {
		err = s.refill()
	}

	if s.pos+n > s.used {
		return s.buf[s.pos:s.used], err
	}

	return s.buf[s.pos : s.pos+n], nil
}

// Discard skips the next n bytes of input.
func (s *scanner) Discard(n int64) error {
	if n < 0 {
		panic("negative offset for Discard()")
	}
	unread := int64(s.used - s.pos)
	if n <= unread {
		s.pos += int(n)
		return nil
	}

	n -= unread
	s.total += int64(s.used)
	s.pos = 0
	s.used = 0

	m, err := io.CopyN(io.Discard, s.r, n)
	s.total += m
	if err == io.EOF {
		err = &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
	}
	return err
}

// ScanBytes calls accept for consecutive input bytes, until accept returns
// false.  The rejected byte is not consumed.
func (s *scanner) ScanBytes(accept func(c byte) bool) error {
	for {
		for s.pos < s.used {
			if !accept(s.buf[s.pos]) {
				return nil
			}
			s.pos++
		}
		err := s.refill()
		if err != nil {
			return err
		}
		if s.used == 0 {
			return nil
		}
	}
}

// SkipWhiteSpace skips white space and comments.
func (s *scanner) SkipWhiteSpace() error {
	isComment := false
	return s.ScanBytes(func(c byte) bool {
		if isComment {
			if c == '\r' || c == '\n' {
				isComment = false
			}
		} else if c == '%' {
			isComment = true
		} else {
			return isSpace[c]
		}
		return true
	})
}

// SkipString consumes pat, or returns an error if the input does not
// start with pat.
func (s *scanner) SkipString(pat string) error {
	n := len(pat)
	buf, err := s.Peek(n)
	if err != nil {
		return err
	}
	if string(buf) != pat {
		return &MalformedFileError{
			Pos: s.filePos(),
			Err: fmt.Errorf("expected %q but found %q", pat, string(buf)),
		}
	}
	s.pos += n
	return nil
}

var (
	isSpace = [256]bool{
		0:  true,
		9:  true,
		10: true,
		12: true,
		13: true,
		32: true,
	}
	isDelimiter = [256]bool{
		'(': true,
		')': true,
		'<': true,
		'>': true,
		'[': true,
		']': true,
		'{': true,
		'}': true,
		'/': true,
		'%': true,
	}
)
