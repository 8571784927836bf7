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

// Pdf-stamp adds image stamp annotations to PDF files.
//
// Usage:
//
//	pdf-stamp stamp -i in.pdf -o out.pdf --x 72 --y 72 --width 144 seal.png
//	pdf-stamp batch jobs.yaml
//	pdf-stamp inspect out.pdf
//
// The stamp is shown with one PDF unit per image pixel, unless a width or
// height is given.
package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"seehuhn.de/go/pdfstamp/internal/buildinfo"
)

var cli struct {
	Verbose bool             `short:"v" help:"Show debug messages."`
	Version kong.VersionFlag `help:"Show the program version and exit."`

	Stamp   stampCmd   `cmd:"" help:"Add an image stamp to a PDF file."`
	Batch   batchCmd   `cmd:"" help:"Run the jobs described in a YAML file."`
	Inspect inspectCmd `cmd:"" help:"List the annotations of a PDF file as JSON."`
}

// env is passed to the Run methods of the commands.
type env struct {
	log *logrus.Logger
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("pdf-stamp"),
		kong.Description("Add image stamp annotations to PDF files."),
		kong.Vars{"version": buildinfo.Version("pdf-stamp")})

	e := &env{log: newLogger(cli.Verbose)}
	err := ctx.Run(e)
	if err != nil {
		e.log.Error(err)
	}
	ctx.FatalIfErrorf(err)
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
