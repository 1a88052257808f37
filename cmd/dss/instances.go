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
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"seehuhn.de/go/dss"
	"seehuhn.de/go/dss/instances"
)

func init() {
	instancesCmd.Run = listInstances
	instancesCmd.Flags().BoolVar(&instancesCmd.canonical, "canonical-order", false,
		"Process axes in the conventional order instead of the declaration order")
	rootCmd.AddCommand(&instancesCmd.Command)
}

var instancesCmd = struct {
	cobra.Command
	canonical bool
}{
	Command: cobra.Command{
		Use:   "instances file.dss ...",
		Short: "List the instances a sketch generates",
		Args:  cobra.MinimumNArgs(1),
	},
}

func listInstances(cmd *cobra.Command, files []string) {
	for _, fname := range files {
		doc, err := loadFile(fname, false)
		if err != nil {
			rootCmd.log.Error("parse failed", "file", fname, "error", err)
			os.Exit(1)
		}

		var opts []instances.Option
		if instancesCmd.canonical {
			opts = append(opts, instances.CanonicalOrder())
		}
		list, warnings, err := instances.Generate(doc, opts...)
		if err != nil {
			rootCmd.log.Error("instance generation failed", "file", fname, "error", err)
			os.Exit(1)
		}
		for _, w := range warnings {
			rootCmd.log.Warn(w.Message, "file", fname)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "STYLE\tLOCATION\tFILE")
		for _, inst := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\n",
				inst.StyleName, formatLocation(doc, inst.Location), inst.Filename)
		}
		tw.Flush()
	}
}

// formatLocation writes a location in axis declaration order.
func formatLocation(doc *dss.Document, loc map[string]float64) string {
	parts := make([]string, 0, len(doc.Axes))
	for _, axis := range doc.Axes {
		if v, ok := loc[axis.Name]; ok {
			parts = append(parts, axis.Tag+"="+strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	return strings.Join(parts, ", ")
}
