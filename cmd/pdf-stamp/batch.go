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
	"fmt"
	"os"
	"os/signal"
)

type batchCmd struct {
	Jobs  string `arg:"" type:"existingfile" help:"YAML file listing the jobs."`
	Force bool   `short:"f" help:"Overwrite output files which already exist."`
}

func (c *batchCmd) Run(e *env) error {
	jobs, err := readJobs(c.Jobs)
	if err != nil {
		return err
	}

	// outputs are checked before the first job runs
	if !c.Force {
		seen := make(map[string]bool, len(jobs))
		for _, j := range jobs {
			if seen[j.Output] {
				return fmt.Errorf("output file %q is written by more than one job", j.Output)
			}
			seen[j.Output] = true
			err := checkOutput(j.Output)
			if err != nil {
				return err
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for _, j := range jobs {
		err := j.run(ctx, e.log)
		if err != nil {
			return err
		}
	}
	return nil
}
