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

// Package validator checks parsed documents before conversion.
//
// Validation is two-tiered.  Structural problems (no axes, no sources, an
// ambiguous base source, duplicate labels across axes) make the document
// unusable; they are collected and returned together as one
// *StructureError.  Content problems (out-of-range mappings, unmatched
// source coordinates, missing extremes) are returned as a list in lenient
// mode and escalate to a *ContentError in strict mode.  Advisory
// warnings, such as typo suggestions, never fail a run.
package validator

import (
	"fmt"
	"math"
	"strings"

	"github.com/agext/levenshtein"

	"seehuhn.de/go/dss"
	"seehuhn.de/go/dss/instances"
	"seehuhn.de/go/dss/mappings"
)

// coordTolerance is the slack allowed when comparing design coordinates.
const coordTolerance = 0.01

// Severity distinguishes content errors from advisory warnings.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// A Problem is one non-structural finding.
type Problem struct {
	Severity Severity
	Message  string
}

func (p Problem) String() string {
	return p.Severity.String() + ": " + p.Message
}

// A StructureError aggregates every structural problem of a document.
type StructureError struct {
	Problems []string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("structural errors prevent conversion:\n  %s",
		strings.Join(e.Problems, "\n  "))
}

// A ContentError is returned in strict mode when content problems of
// severity error are present.
type ContentError struct {
	Problems []Problem
}

func (e *ContentError) Error() string {
	var msgs []string
	for _, p := range e.Problems {
		if p.Severity == SeverityError {
			msgs = append(msgs, p.Message)
		}
	}
	return fmt.Sprintf("content errors:\n  %s", strings.Join(msgs, "\n  "))
}

// A Validator checks documents.  The zero value is a lenient validator
// using the builtin standard tables.
type Validator struct {
	// Strict escalates content errors to a failed validation.
	Strict bool

	// Standards supplies the style-name tables used for typo detection.
	// Nil means mappings.Builtin().
	Standards *mappings.Standards
}

// Validate checks a document with the default lenient settings.
func Validate(doc *dss.Document) ([]Problem, error) {
	return (&Validator{}).Validate(doc)
}

// Validate checks the document.  Structural problems come back as a
// *StructureError; content problems are returned as the problem list,
// or as a *ContentError in strict mode.
//
// As a side effect, a source whose coordinates match the computed
// default location is marked as the base source when no source carries
// the flag.
func (v *Validator) Validate(doc *dss.Document) ([]Problem, error) {
	std := v.Standards
	if std == nil {
		std = mappings.Builtin()
	}

	var structural []string
	var problems []Problem

	warn := func(format string, args ...any) {
		problems = append(problems, Problem{SeverityWarning, fmt.Sprintf(format, args...)})
	}
	contentErr := func(format string, args ...any) {
		problems = append(problems, Problem{SeverityError, fmt.Sprintf(format, args...)})
	}
	structuralErr := func(format string, args ...any) {
		structural = append(structural, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(doc.Family) == "" {
		structuralErr("missing or empty family name")
	}

	if len(doc.Axes) == 0 {
		structuralErr("no axes defined")
	}
	for i, axis := range doc.Axes {
		if axis.Name == "" || axis.Tag == "" {
			structuralErr("axis %d is missing its name or tag", i+1)
		}
		if axis.Minimum == axis.Maximum {
			structuralErr("axis %q has an empty range (minimum = maximum = %g)",
				axis.Name, axis.Minimum)
		}
	}

	v.checkDuplicateLabels(doc, structuralErr)
	v.checkSkipLabels(doc, structuralErr)

	if len(doc.Sources) == 0 {
		structuralErr("no sources defined")
	} else {
		v.checkBaseSource(doc, structuralErr, warn)
	}

	v.checkMappings(doc, std, warn, contentErr)
	v.checkSourceCoordinates(doc, warn, contentErr)
	v.checkExtremesCoverage(doc, contentErr)
	v.checkTagTypos(doc, warn)

	if len(structural) > 0 {
		return problems, &StructureError{Problems: structural}
	}
	if v.Strict {
		for _, p := range problems {
			if p.Severity == SeverityError {
				return problems, &ContentError{Problems: problems}
			}
		}
	}
	return problems, nil
}

// checkDuplicateLabels rejects mapping labels reused across axes; such
// labels would make instance names ambiguous.
func (v *Validator) checkDuplicateLabels(doc *dss.Document, structuralErr func(string, ...any)) {
	seen := make(map[string]string) // label -> axis name
	for _, axis := range doc.Axes {
		for _, m := range axis.Mappings {
			if m.Label == "" {
				continue
			}
			if other, ok := seen[m.Label]; ok && other != axis.Name {
				structuralErr("label %q is defined on both axis %q and axis %q",
					m.Label, other, axis.Name)
				continue
			}
			seen[m.Label] = axis.Name
		}
	}
}

// checkSkipLabels verifies up front that every word of every skip rule is
// a label some axis can produce.
func (v *Validator) checkSkipLabels(doc *dss.Document, structuralErr func(string, ...any)) {
	if len(doc.InstancesSkip) == 0 {
		return
	}
	valid := make(map[string]bool)
	for _, axis := range doc.Axes {
		for label := range instances.AxisLabels(doc, axis) {
			valid[label] = true
		}
	}
	for _, skip := range doc.InstancesSkip {
		for _, label := range strings.Fields(skip) {
			if !valid[label] {
				structuralErr("skip rule %q contains label %q which is not defined in any axis",
					skip, label)
				break
			}
		}
	}
}

// checkBaseSource enforces the base-source invariant: exactly one base
// source, unless several are distinguished by distinct discrete-axis
// values while sharing identical continuous coordinates.  When no source
// carries the flag, the source at the default location is promoted.
func (v *Validator) checkBaseSource(doc *dss.Document, structuralErr, warn func(string, ...any)) {
	var bases []*dss.Source
	for _, src := range doc.Sources {
		if src.IsBase {
			bases = append(bases, src)
		}
	}

	switch len(bases) {
	case 0:
		expected := defaultCoordinates(doc)
		for _, src := range doc.Sources {
			if coordinatesMatch(src.Location, expected, doc.Axes) {
				src.IsBase = true
				src.CopyInfo = true
				src.CopyLib = true
				src.CopyGroups = true
				src.CopyFeatures = true
				warn("auto-detected base source %q (matches the default coordinates)", src.Name)
				return
			}
		}
		structuralErr("no base source: no @base flag and no source at the default coordinates")
	case 1:
		expected := defaultCoordinates(doc)
		if !coordinatesMatch(bases[0].Location, expected, doc.Axes) {
			structuralErr("base source %q is not at the default coordinates", bases[0].Name)
		}
	default:
		if !validMultipleBases(bases, doc) {
			structuralErr("%d base sources found, allowed only when distinguished by discrete axis values",
				len(bases))
		}
	}
}

// defaultCoordinates computes the design-space location of the document
// default: per axis, the design value mapped from the default user value,
// or the elidable mapping for discrete axes.
func defaultCoordinates(doc *dss.Document) map[string]float64 {
	coords := make(map[string]float64)
	for _, axis := range doc.Axes {
		coords[axis.Name] = axis.DefaultDesignValue()
	}
	return coords
}

func coordinatesMatch(got, want map[string]float64, axes []*dss.Axis) bool {
	for _, axis := range axes {
		g, okG := got[axis.Name]
		w, okW := want[axis.Name]
		if !okG || !okW || math.Abs(g-w) > coordTolerance {
			return false
		}
	}
	return len(axes) > 0
}

// validMultipleBases accepts several base sources when each sits at a
// different value of some discrete axis and all share the same
// continuous coordinates.
func validMultipleBases(bases []*dss.Source, doc *dss.Document) bool {
	var discrete, continuous []*dss.Axis
	for _, axis := range doc.Axes {
		if axis.IsDiscrete() {
			discrete = append(discrete, axis)
		} else {
			continuous = append(continuous, axis)
		}
	}
	if len(discrete) == 0 {
		return false
	}

	for _, axis := range continuous {
		first, ok := bases[0].Location[axis.Name]
		if !ok {
			return false
		}
		for _, src := range bases[1:] {
			val, ok := src.Location[axis.Name]
			if !ok || math.Abs(val-first) > coordTolerance {
				return false
			}
		}
	}

	seen := make(map[string]bool)
	for _, src := range bases {
		for _, axis := range discrete {
			val, ok := src.Location[axis.Name]
			if !ok {
				continue
			}
			if _, ok := axis.LabelFor(val); !ok {
				return false
			}
			key := fmt.Sprintf("%s=%g", axis.Name, val)
			if seen[key] {
				return false
			}
			seen[key] = true
		}
	}
	return true
}

// checkMappings validates each axis's mapping list: user values within
// the axis range, at least one elidable label, and label typo and
// cross-axis checks against the standard tables.
func (v *Validator) checkMappings(doc *dss.Document, std *mappings.Standards, warn, contentErr func(string, ...any)) {
	hasWidth := false
	hasWeight := false
	for _, axis := range doc.Axes {
		switch strings.ToLower(axis.Tag) {
		case "wght":
			hasWeight = true
		case "wdth":
			hasWidth = true
		}
	}

	for _, axis := range doc.Axes {
		if len(axis.Mappings) == 0 {
			continue
		}

		elidable := 0
		for _, m := range axis.Mappings {
			if m.Elidable {
				elidable++
			}
			if m.UserValue < axis.Minimum || m.UserValue > axis.Maximum {
				contentErr("mapping %q on axis %q has user value %g outside the range %g:%g",
					m.Label, axis.Name, m.UserValue, axis.Minimum, axis.Maximum)
			}
			v.checkLabel(m.Label, axis, std, hasWeight, hasWidth, warn)
		}
		if elidable == 0 {
			warn("axis %q has no @elidable mapping; consider marking the default style", axis.Name)
		}
	}
}

// checkLabel looks for probable typos in a mapping label.  A standard
// label of the other standard axis is accepted only while that axis is
// not declared itself; otherwise it is flagged as misplaced.
func (v *Validator) checkLabel(label string, axis *dss.Axis, std *mappings.Standards, hasWeight, hasWidth bool, warn func(string, ...any)) {
	if label == "" {
		return
	}
	var own, other string
	switch strings.ToLower(axis.Tag) {
	case "wght":
		own, other = "weight", "width"
	case "wdth":
		own, other = "width", "weight"
	default:
		return
	}
	if std.HasMapping(label, own) {
		return
	}

	if std.HasMapping(label, other) {
		otherDeclared := (other == "weight" && hasWeight) || (other == "width" && hasWidth)
		if otherDeclared {
			warn("label %q on axis %q is a standard %s label", label, axis.Name, other)
		}
		return
	}

	// close misspelling of a standard label?
	for _, candidate := range standardLabels(std, own) {
		if d := levenshtein.Distance(label, candidate, nil); d > 0 && d <= 2 {
			warn("unknown label %q on axis %q, did you mean %q?", label, axis.Name, candidate)
			return
		}
	}
}

// standardLabels lists the standard style names of one axis kind, for
// typo detection.
func standardLabels(std *mappings.Standards, axisKind string) []string {
	var labels []string
	for _, probe := range []float64{50, 62.5, 75, 87.5, 100, 112.5, 125, 150, 200,
		300, 400, 500, 600, 700, 800, 900} {
		if name, ok := std.UserValueToName(probe, axisKind); ok {
			labels = append(labels, name)
		}
	}
	return labels
}

// checkSourceCoordinates flags cardinality mismatches and coordinates
// that fall between the axis's mapping points, with the nearest mapping
// as a suggestion.
func (v *Validator) checkSourceCoordinates(doc *dss.Document, warn, contentErr func(string, ...any)) {
	expected := len(doc.AllAxes())
	for _, src := range doc.Sources {
		if len(src.Location) != expected {
			warn("source %q has %d coordinates, expected %d", src.Name, len(src.Location), expected)
		}

		for _, axis := range doc.Axes {
			if len(axis.Mappings) == 0 {
				continue
			}
			coord, ok := src.Location[axis.Name]
			if !ok {
				continue
			}
			found := false
			nearest := axis.Mappings[0]
			for _, m := range axis.Mappings {
				if math.Abs(m.DesignValue-coord) <= coordTolerance {
					found = true
					break
				}
				if math.Abs(m.DesignValue-coord) < math.Abs(nearest.DesignValue-coord) {
					nearest = m
				}
			}
			if !found {
				contentErr("source %q coordinate %g on axis %q has no matching mapping; nearest is %q at %g",
					src.Name, coord, axis.Name, nearest.Label, nearest.DesignValue)
			}
		}
	}
}

// checkExtremesCoverage verifies that the extreme mapping coordinates of
// every axis are covered by a source; interpolation needs sources at the
// edges of the space.
func (v *Validator) checkExtremesCoverage(doc *dss.Document, contentErr func(string, ...any)) {
	if len(doc.Sources) == 0 {
		return
	}
	for _, axis := range doc.Axes {
		if len(axis.Mappings) == 0 {
			continue
		}
		lo, hi := axis.DesignExtrema()
		for _, want := range []float64{lo, hi} {
			covered := false
			for _, src := range doc.Sources {
				if coord, ok := src.Location[axis.Name]; ok && math.Abs(coord-want) <= coordTolerance {
					covered = true
					break
				}
			}
			if !covered {
				label, _ := axis.LabelFor(want)
				contentErr("no source at coordinate %g (%s) on axis %q; interpolation needs sources at the extremes",
					want, label, axis.Name)
			}
		}
	}
}

// checkTagTypos flags tags that look like misspelled registered tags.
func (v *Validator) checkTagTypos(doc *dss.Document, warn func(string, ...any)) {
	for _, axis := range doc.AllAxes() {
		tag := strings.ToLower(axis.Tag)
		if _, ok := dss.RegisteredAxisName(tag); ok {
			continue
		}
		for _, registered := range []string{"wght", "wdth", "ital", "slnt", "opsz"} {
			if d := levenshtein.Distance(tag, registered, nil); d > 0 && d <= 1 {
				warn("axis tag %q looks like the registered tag %q", axis.Tag, registered)
				break
			}
		}
	}
}
