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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfstamp"
	"seehuhn.de/go/pdfstamp/document"
	"seehuhn.de/go/pdfstamp/image"
)

// job describes the stamps to add to one document.
type job struct {
	// Input is the PDF file to stamp.  If empty, a new document is
	// created.
	Input  string `yaml:"input,omitempty"`
	Output string `yaml:"output"`

	// Paper and Lang are used for new documents.
	Paper string `yaml:"paper,omitempty"`
	Lang  string `yaml:"lang,omitempty"`

	Title  string `yaml:"title,omitempty"`
	Author string `yaml:"author,omitempty"`

	Stamps []stampEntry `yaml:"stamps"`
}

// stampEntry describes one stamp.
type stampEntry struct {
	Image    string  `yaml:"image"`
	Page     int     `yaml:"page,omitempty"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"width,omitempty"`
	Height   float64 `yaml:"height,omitempty"`
	Contents string  `yaml:"contents,omitempty"`
}

// checkOutput fails if the file fname already exists.
func checkOutput(fname string) error {
	if _, err := os.Stat(fname); err == nil {
		return fmt.Errorf("output file %q already exists", fname)
	}
	return nil
}

// jobFile is the format of batch files.
type jobFile struct {
	Jobs []*job `yaml:"jobs"`
}

var paperSizes = map[string]rect.Rect{
	"a4":     document.A4,
	"a5":     document.A5,
	"letter": document.Letter,
}

// readJobs reads a batch file.  Relative file names are interpreted
// relative to the directory containing the batch file.
func readJobs(fname string) ([]*job, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}

	var jf jobFile
	err = yaml.Unmarshal(data, &jf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}

	dir := filepath.Dir(fname)
	for i, j := range jf.Jobs {
		err := j.validate()
		if err != nil {
			return nil, fmt.Errorf("%s: job %d: %w", fname, i+1, err)
		}
		j.Input = resolve(dir, j.Input)
		j.Output = resolve(dir, j.Output)
		for k := range j.Stamps {
			j.Stamps[k].Image = resolve(dir, j.Stamps[k].Image)
		}
	}
	return jf.Jobs, nil
}

func resolve(dir, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

func (j *job) validate() error {
	if j.Output == "" {
		return errors.New("missing output file")
	}
	if j.Paper != "" {
		if _, ok := paperSizes[strings.ToLower(j.Paper)]; !ok {
			return fmt.Errorf("unknown paper size %q", j.Paper)
		}
	}
	if j.Lang != "" {
		if _, err := language.Parse(j.Lang); err != nil {
			return fmt.Errorf("invalid language %q: %w", j.Lang, err)
		}
	}
	if len(j.Stamps) == 0 {
		return errors.New("no stamps given")
	}
	for i, s := range j.Stamps {
		if s.Image == "" {
			return fmt.Errorf("stamp %d: missing image", i+1)
		}
		if s.Page < 0 {
			return fmt.Errorf("stamp %d: invalid page %d", i+1, s.Page)
		}
	}
	return nil
}

// loadImages decodes the images of all stamps, in parallel.  Each file is
// read only once.
func (j *job) loadImages(ctx context.Context) (map[string]image.Image, error) {
	var names []string
	seen := make(map[string]bool)
	for _, s := range j.Stamps {
		if !seen[s.Image] {
			seen[s.Image] = true
			names = append(names, s.Image)
		}
	}

	res := make([]image.Image, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := image.Open(name)
			if err != nil {
				return err
			}
			res[i] = img
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		return nil, err
	}

	images := make(map[string]image.Image, len(names))
	for i, name := range names {
		images[name] = res[i]
	}
	return images, nil
}

// run executes the job.
func (j *job) run(ctx context.Context, log logrus.FieldLogger) error {
	log = log.WithField("output", j.Output)

	images, err := j.loadImages(ctx)
	if err != nil {
		return err
	}

	doc, err := j.openDocument(log)
	if err != nil {
		return err
	}
	defer doc.Close()

	pages := doc.Pages()
	for i, s := range j.Stamps {
		pageNo := max(s.Page, 1)
		if pageNo > len(pages) {
			return fmt.Errorf("stamp %d: page %d does not exist (document has %d pages)",
				i+1, pageNo, len(pages))
		}
		where := pdfstamp.Placement{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
		a, err := pdfstamp.Stamp(pages[pageNo-1], images[s.Image], where)
		if err != nil {
			return fmt.Errorf("stamp %d: %w", i+1, err)
		}
		if s.Contents != "" {
			err = a.SetContents(s.Contents)
			if err != nil {
				return err
			}
		}
		log.WithFields(logrus.Fields{
			"image": s.Image,
			"page":  pageNo,
			"rect":  a.Rect(),
		}).Debug("stamp added")
	}

	if j.Title != "" || j.Author != "" {
		err = pdfstamp.UpdateMetadata(doc, &pdfstamp.Info{Title: j.Title, Author: j.Author})
		if err != nil {
			return err
		}
	}

	err = writeFile(j.Output, doc)
	if err != nil {
		return err
	}
	log.Infof("%d stamps written", len(j.Stamps))
	return nil
}

func (j *job) openDocument(log logrus.FieldLogger) (*document.Document, error) {
	opt := &document.Options{Logger: log}
	if j.Lang != "" {
		opt.Language = language.Make(j.Lang)
	}

	if j.Input != "" {
		fd, err := os.Open(j.Input)
		if err != nil {
			return nil, err
		}
		defer fd.Close()
		doc, err := document.Load(fd, opt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", j.Input, err)
		}
		return doc, nil
	}

	paper := document.A4
	if j.Paper != "" {
		paper = paperSizes[strings.ToLower(j.Paper)]
	}
	numPages := 1
	for _, s := range j.Stamps {
		numPages = max(numPages, s.Page)
	}
	doc := document.New(opt)
	for range numPages {
		_, err := doc.AddPage(paper)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// writeFile saves doc under the given name.  The file is written to a
// temporary name first, so that an existing file is only replaced once the
// new file is complete.
func writeFile(fname string, doc *document.Document) error {
	tmp, err := os.CreateTemp(filepath.Dir(fname), ".pdf-stamp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	err = doc.Save(tmp)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fname)
}
