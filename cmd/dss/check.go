// seehuhn.de/go/dss - a library for reading and writing design space sketches
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
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
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"seehuhn.de/go/dss/validator"
)

func init() {
	checkCmd.Run = checkFiles
	checkCmd.Flags().BoolVar(&checkCmd.strict, "strict", false,
		"Treat content problems as errors")
	rootCmd.AddCommand(&checkCmd.Command)
}

var checkCmd = struct {
	cobra.Command
	strict bool
}{
	Command: cobra.Command{
		Use:   "check file.dss ...",
		Short: "Validate sketches and report problems",
		Args:  cobra.MinimumNArgs(1),
	},
}

func checkFiles(cmd *cobra.Command, files []string) {
	failed := false
	for _, fname := range files {
		if !checkFile(fname) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func checkFile(fname string) bool {
	doc, err := loadFile(fname, checkCmd.strict)
	if err != nil {
		rootCmd.log.Error("parse failed", "file", fname, "error", err)
		return false
	}

	v := &validator.Validator{Strict: checkCmd.strict}
	problems, err := v.Validate(doc)
	for _, p := range problems {
		fmt.Printf("%s: %s\n", fname, p)
	}

	var structErr *validator.StructureError
	switch {
	case errors.As(err, &structErr):
		for _, msg := range structErr.Problems {
			fmt.Printf("%s: structural: %s\n", fname, msg)
		}
		return false
	case err != nil:
		rootCmd.log.Error("validation failed", "file", fname, "error", err)
		return false
	}

	rootCmd.log.Info("document is valid", "file", fname,
		"axes", len(doc.Axes), "sources", len(doc.Sources))
	return true
}
