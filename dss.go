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

// Package dss implements the document model for DSS ("design space sketch")
// files, a compact, line-oriented description of a variable font's design
// space.  The model mirrors the information a DesignSpace document needs:
// axes with user-to-design mappings, interpolation sources, named instances,
// and glyph substitution rules.
//
// Parsing, validation and serialisation live in the subpackages parser,
// validator, instances and writer.
package dss

import "strings"

// Document is the root of a parsed DSS file.  It is built incrementally by
// the parser and is not modified after validation and instance generation
// have run.
type Document struct {
	Family string
	Suffix string
	Path   string // directory holding the source packages, relative or absolute

	Axes       []*Axis // declaration order is meaningful
	HiddenAxes []*Axis // parametric axes, excluded from instance generation
	Sources    []*Source
	Instances  []*Instance
	Rules      []*Rule

	InstancesAuto bool
	InstancesOff  bool
	InstancesSkip []string // post-elision style names to omit from generation

	Avar2Mappings []*Avar2Mapping
	Avar2Vars     map[string]float64
}

// AllAxes returns the visible axes followed by the hidden axes.
func (d *Document) AllAxes() []*Axis {
	res := make([]*Axis, 0, len(d.Axes)+len(d.HiddenAxes))
	res = append(res, d.Axes...)
	res = append(res, d.HiddenAxes...)
	return res
}

// FindAxis locates an axis (visible or hidden) by name, tag or registered
// alias.  The comparison is case-insensitive.
func (d *Document) FindAxis(nameOrTag string) *Axis {
	key := strings.ToLower(nameOrTag)
	for _, ax := range d.AllAxes() {
		if strings.ToLower(ax.Name) == key || strings.ToLower(ax.Tag) == key {
			return ax
		}
		if ax.DisplayName != "" && strings.ToLower(ax.DisplayName) == key {
			return ax
		}
	}
	if name, ok := RegisteredAxisName(key); ok {
		for _, ax := range d.AllAxes() {
			if strings.ToLower(ax.Name) == name {
				return ax
			}
		}
	}
	if tag, ok := RegisteredAxisTag(key); ok {
		for _, ax := range d.AllAxes() {
			if strings.ToLower(ax.Tag) == tag {
				return ax
			}
		}
	}
	return nil
}

// GlyphNamer gives access to the glyph names contained in a font source
// package.  Implementations typically read a UFO package from disk; the dss
// packages only consume the resulting name set, to expand and verify
// wildcard substitution rules.
type GlyphNamer interface {
	GlyphNames(path string) (map[string]bool, error)
}

var registeredByTag = map[string]string{
	"ital": "italic",
	"opsz": "optical",
	"slnt": "slant",
	"wdth": "width",
	"wght": "weight",
}

var registeredByName = map[string]string{
	"italic":  "ital",
	"optical": "opsz",
	"slant":   "slnt",
	"width":   "wdth",
	"weight":  "wght",
}

// RegisteredAxisName returns the conventional axis name for one of the five
// OpenType-registered tags (wght, wdth, ital, slnt, opsz).
func RegisteredAxisName(tag string) (string, bool) {
	name, ok := registeredByTag[strings.ToLower(tag)]
	return name, ok
}

// RegisteredAxisTag returns the registered tag for a conventional axis name.
func RegisteredAxisTag(name string) (string, bool) {
	tag, ok := registeredByName[strings.ToLower(name)]
	return tag, ok
}

// InferTag derives an axis tag from an axis name, for the legacy axis
// syntax which omits the tag.  Registered names map to their registered
// tags; other names use their first four characters, upper-cased.
func InferTag(name string) string {
	if tag, ok := RegisteredAxisTag(name); ok {
		return tag
	}
	tag := name
	if len(tag) > 4 {
		tag = tag[:4]
	}
	return strings.ToUpper(tag)
}
