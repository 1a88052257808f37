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

// Substitution replaces one glyph with another when a rule's conditions
// hold.
type Substitution struct {
	From string
	To   string
}

// Condition restricts a rule to a design-space region on one axis.  The
// bounds are design-space coordinates.
type Condition struct {
	Axis    string
	Minimum float64
	Maximum float64
}

// Rule is a glyph substitution rule.  A rule either carries concrete
// Substitutions, or a wildcard Pattern/ToPattern pair which is expanded
// against a real glyph set at conversion time.
type Rule struct {
	Name          string
	Substitutions []Substitution
	Conditions    []Condition

	Pattern   string // e.g. "dollar* cent*"
	ToPattern string // e.g. ".rvrn"
}

// IsWildcard reports whether the rule still needs to be expanded against a
// glyph set.
func (r *Rule) IsWildcard() bool {
	return r.Pattern != ""
}

// Avar2Mapping is one parametric (avar2) mapping: when the input location
// is reached, the hidden output axes take the given values.
type Avar2Mapping struct {
	Name   string
	Input  map[string]float64 // axis name or tag -> user-space value
	Output map[string]float64 // axis name or tag -> design-space value
}
