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
	"os"

	"github.com/spf13/cobra"

	"seehuhn.de/go/dss/writer"
)

func init() {
	fmtCmd.Run = fmtFiles
	fmtCmd.Flags().BoolVarP(&fmtCmd.optimize, "optimize", "O", false,
		"Use the shortened output forms (label ranges, wildcard rules, instances auto)")
	fmtCmd.Flags().BoolVarP(&fmtCmd.inPlace, "write", "w", false,
		"Rewrite the files in place instead of printing to stdout")
	fmtCmd.Flags().BoolVar(&fmtCmd.linear, "avar2-linear", false,
		"Write parametric mappings one per line instead of the matrix form")
	fmtCmd.Flags().BoolVar(&fmtCmd.numeric, "numeric", false,
		"Write all coordinates as numbers, never as labels")
	rootCmd.AddCommand(&fmtCmd.Command)
}

var fmtCmd = struct {
	cobra.Command
	optimize bool
	inPlace  bool
	linear   bool
	numeric  bool
}{
	Command: cobra.Command{
		Use:   "fmt file.dss ...",
		Short: "Parse sketches and write them back in canonical form",
		Args:  cobra.MinimumNArgs(1),
	},
}

func fmtFiles(cmd *cobra.Command, files []string) {
	w := writer.New()
	w.Optimize = fmtCmd.optimize
	w.Avar2Linear = fmtCmd.linear
	if fmtCmd.numeric {
		w.LabelCoordinates = false
		w.LabelRanges = false
	}

	for _, fname := range files {
		doc, err := loadFile(fname, false)
		if err != nil {
			rootCmd.log.Error("parse failed", "file", fname, "error", err)
			os.Exit(1)
		}
		if fmtCmd.inPlace {
			err = w.WriteFile(fname, doc)
		} else {
			err = w.Write(os.Stdout, doc)
		}
		if err != nil {
			rootCmd.log.Error("write failed", "file", fname, "error", err)
			os.Exit(1)
		}
	}
}
