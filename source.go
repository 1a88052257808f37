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

package dss

import (
	"path"
	"strings"
)

// Source is one authored font located at a fixed design-space coordinate.
type Source struct {
	Name     string
	Filename string
	Location map[string]float64 // axis name -> design-space coordinate

	// IsBase marks the source the other sources interpolate around.
	// The four copy flags are set together with IsBase.
	IsBase       bool
	CopyInfo     bool
	CopyLib      bool
	CopyGroups   bool
	CopyFeatures bool

	Layer string // optional source layer name
}

// Instance is one named, fixed point of the design space.
type Instance struct {
	Name       string
	FamilyName string
	StyleName  string
	Filename   string
	Location   map[string]float64 // axis name -> design-space coordinate
}

// SourceFilename derives a source's file name and display name from the
// name written in the DSS file.  Names containing "/" are kept as relative
// paths; ".ufoz" packages keep their extension; everything else gets
// ".ufo" appended unless already present.
func SourceFilename(written string) (filename, name string) {
	switch {
	case strings.HasSuffix(written, ".ufoz"):
		return written, strings.TrimSuffix(path.Base(written), ".ufoz")
	case strings.HasSuffix(written, ".ufo"):
		return written, strings.TrimSuffix(path.Base(written), ".ufo")
	case strings.Contains(written, "/"):
		return written + ".ufo", path.Base(written)
	default:
		return written + ".ufo", written
	}
}
