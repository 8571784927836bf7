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

package buildinfo

import (
	"runtime/debug"
	"testing"
)

func TestFormat(t *testing.T) {
	main := debug.Module{Path: "seehuhn.de/go/pdfstamp"}
	cases := []struct {
		version  string
		settings []debug.BuildSetting
		want     string
	}{
		{"v0.2.0", nil, "tool (seehuhn.de/go/pdfstamp v0.2.0)"},
		{"(devel)", nil, "tool"},
		{"(devel)", []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
		}, "tool (seehuhn.de/go/pdfstamp 01234567)"},
		{"", []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc"},
			{Key: "vcs.modified", Value: "true"},
		}, "tool (seehuhn.de/go/pdfstamp abc+dirty)"},
	}
	for _, c := range cases {
		m := main
		m.Version = c.version
		info := &debug.BuildInfo{Main: m, Settings: c.settings}
		if got := format("tool", info); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}
