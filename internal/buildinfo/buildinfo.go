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

// Package buildinfo reports the version of the running program.
package buildinfo

import (
	"runtime/debug"
)

// Version returns a version string for a command line tool, for example
// "pdf-stamp (seehuhn.de/go/pdfstamp v0.2.0)".  If no module version
// is available, the VCS revision is used instead.
func Version(tool string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return tool
	}
	return format(tool, info)
}

func format(tool string, info *debug.BuildInfo) string {
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return tool + " (" + info.Main.Path + " " + v + ")"
	}

	var rev string
	var modified bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if rev == "" {
		return tool
	}
	rev = rev[:min(len(rev), 8)]
	if modified {
		rev += "+dirty"
	}
	return tool + " (" + info.Main.Path + " " + rev + ")"
}
