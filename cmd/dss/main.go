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

// A command line tool for design space sketch files.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"seehuhn.de/go/dss"
	"seehuhn.de/go/dss/parser"
)

var rootCmd = struct {
	cobra.Command
	logLevel string
	log      *slog.Logger
}{
	Command: cobra.Command{
		Use:   "dss",
		Short: "Read, check and rewrite design space sketches",
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootCmd.logLevel, "log-level", "info",
		"Set the log level (debug, info, warn, error)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		rootCmd.log = newLogger(rootCmd.logLevel, os.Stderr)
	}
}

func newLogger(levelStr string, out *os.File) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

// loadFile parses one sketch file, reporting parse warnings through the
// logger.
func loadFile(fname string, strict bool) (*dss.Document, error) {
	var opts []parser.Option
	if strict {
		opts = append(opts, parser.Strict())
	}
	doc, warnings, err := parser.New(opts...).ParseFile(fname)
	for _, w := range warnings {
		rootCmd.log.Warn(w.Message, "file", fname, "line", w.Line)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
