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

// Package mappings provides the canonical name/value lookup tables for the
// weight and width axes, and the default label tables for discrete axes.
//
// A Standards value is constructed once, from bundled defaults optionally
// layered with user override files, and is immutable afterwards.  It is
// passed explicitly into the parser, writer and validator; there is no
// hidden global state.
package mappings

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/unified-mappings.yaml
var unifiedData []byte

//go:embed data/discrete-axis-labels.yaml
var discreteData []byte

type entry struct {
	OS2 float64 `yaml:"os2"`
	// UserSpace is a pointer so that an explicit "user_space: 0" in an
	// override file can be told apart from an absent field.
	UserSpace *float64 `yaml:"user_space"`
	AliasOf   string   `yaml:"alias_of"`
}

// userValue returns the user-space value of an entry, falling back to the
// OS/2 value when no user_space field is present.
func (e entry) userValue() float64 {
	if e.UserSpace != nil {
		return *e.UserSpace
	}
	return e.OS2
}

type fileData struct {
	Weight   map[string]entry `yaml:"weight"`
	Width    map[string]entry `yaml:"width"`
	Metadata struct {
		Defaults map[string]entry `yaml:"defaults"`
	} `yaml:"metadata"`
}

// Standards holds the immutable name/value tables for the weight and width
// axes, plus the default labels for discrete axes.
type Standards struct {
	axes     map[string]map[string]entry // "weight"/"width" -> label -> entry
	defaults map[string]entry
	discrete map[string]map[int][]string // tag -> 0/1 -> labels
}

var (
	builtinOnce sync.Once
	builtin     *Standards
)

// Builtin returns the Standards value constructed from the bundled data
// files.  The same value is returned on every call.
func Builtin() *Standards {
	builtinOnce.Do(func() {
		std, err := parse(unifiedData, discreteData)
		if err != nil {
			// The bundled data is part of the build; failing to parse
			// it is a programming error, not a runtime condition.
			panic("dss/mappings: invalid bundled data: " + err.Error())
		}
		builtin = std
	})
	return builtin
}

// Load constructs a Standards value from the bundled defaults, with the
// given YAML override files layered on top.  Later files win over earlier
// ones; entries not present in an override keep their bundled values.
func Load(overrides ...string) (*Standards, error) {
	std, err := parse(unifiedData, discreteData)
	if err != nil {
		return nil, err
	}
	for _, fname := range overrides {
		body, err := os.ReadFile(fname)
		if err != nil {
			return nil, err
		}
		var fd fileData
		if err := yaml.Unmarshal(body, &fd); err != nil {
			return nil, fmt.Errorf("%s: %w", fname, err)
		}
		std.merge(&fd)
	}
	return std, nil
}

func parse(unified, discrete []byte) (*Standards, error) {
	var fd fileData
	if err := yaml.Unmarshal(unified, &fd); err != nil {
		return nil, err
	}
	std := &Standards{
		axes:     map[string]map[string]entry{"weight": {}, "width": {}},
		defaults: map[string]entry{},
		discrete: map[string]map[int][]string{},
	}
	std.merge(&fd)

	if err := yaml.Unmarshal(discrete, &std.discrete); err != nil {
		return nil, err
	}
	return std, nil
}

func (s *Standards) merge(fd *fileData) {
	for label, e := range fd.Weight {
		s.axes["weight"][label] = e
	}
	for label, e := range fd.Width {
		s.axes["width"][label] = e
	}
	for axis, e := range fd.Metadata.Defaults {
		s.defaults[axis] = e
	}
}

// resolve follows alias_of references and returns the canonical entry.
func (s *Standards) resolve(axis, label string) (entry, bool) {
	table, ok := s.axes[axis]
	if !ok {
		return entry{}, false
	}
	e, ok := table[label]
	if !ok {
		return entry{}, false
	}
	if e.AliasOf != "" {
		if target, ok := table[e.AliasOf]; ok {
			return target, true
		}
		return entry{}, false
	}
	return e, true
}

// axisKind normalises an axis name to one of the two table keys, or ""
// when the axis has no standard table.
func axisKind(axisName string) string {
	switch strings.ToLower(axisName) {
	case "weight", "wght":
		return "weight"
	case "width", "wdth":
		return "width"
	}
	return ""
}

// HasMapping reports whether label is a standard style name (or alias) on
// the given axis.  Only the weight and width axes have standard tables.
func (s *Standards) HasMapping(label, axisName string) bool {
	_, ok := s.resolve(axisKind(axisName), label)
	return ok
}

// NameToUserValue returns the user-space value of a standard style name on
// the given axis.
func (s *Standards) NameToUserValue(label, axisName string) (float64, bool) {
	e, ok := s.resolve(axisKind(axisName), label)
	if !ok {
		return 0, false
	}
	return e.userValue(), true
}

// UserValueToName returns the canonical style name for a user-space value
// on the given axis.  Aliases are skipped so that the canonical spelling
// wins.
func (s *Standards) UserValueToName(value float64, axisName string) (string, bool) {
	kind := axisKind(axisName)
	table, ok := s.axes[kind]
	if !ok {
		return "", false
	}
	for label, e := range table {
		if e.AliasOf != "" {
			continue
		}
		if e.userValue() == value {
			return label, true
		}
	}
	return "", false
}

// FallbackName builds a numeric style name like "Weight400" for values
// without a standard name.
func (s *Standards) FallbackName(value float64, axisName string) string {
	kind := axisKind(axisName)
	if kind == "" {
		kind = strings.ToLower(axisName)
	}
	title := strings.ToUpper(kind[:1]) + kind[1:]
	if value == math.Trunc(value) {
		return title + strconv.Itoa(int(value))
	}
	return title + strconv.FormatFloat(value, 'f', -1, 64)
}

// DiscreteLabels returns the default labels for a discrete axis tag, keyed
// by discrete value, or nil when the tag has no table.
func (s *Standards) DiscreteLabels(tag string) map[int][]string {
	return s.discrete[strings.ToLower(tag)]
}

// DiscreteLabelValue looks up a label in the discrete table for tag and
// returns its 0/1 value.
func (s *Standards) DiscreteLabelValue(tag, label string) (float64, bool) {
	table := s.DiscreteLabels(tag)
	for value, labels := range table {
		for _, l := range labels {
			if l == label {
				return float64(value), true
			}
		}
	}
	return 0, false
}

// DiscreteLabelFor returns the canonical label for a discrete value on the
// given axis tag.
func (s *Standards) DiscreteLabelFor(tag string, value int) (string, bool) {
	table := s.DiscreteLabels(tag)
	if labels, ok := table[value]; ok && len(labels) > 0 {
		return labels[0], true
	}
	return "", false
}
