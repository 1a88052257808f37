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

// Package instances expands the axes of a document into the full
// combinatorial set of named font instances.
//
// Every visible axis contributes one label per mapping (or synthesized
// fallback points when it has no labels); the cartesian product of the
// per-axis labels enumerates all combinations.  Style names are built by
// joining labels, collapsing elidable ones, and honoring the document's
// skip list.
package instances

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/dss"
)

// DefaultFolder is the directory instance files are placed under.
const DefaultFolder = "instances"

// canonicalAxisOrder is the fallback processing order for axes when the
// document declares none.
var canonicalAxisOrder = []string{"optical", "contrast", "width", "weight", "italic", "slant"}

// A Warning describes a non-fatal problem found during generation.
type Warning struct {
	Message string
}

func (w Warning) String() string { return w.Message }

// A SkipError reports skip rules naming labels which no axis defines.
type SkipError struct {
	Problems []string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("invalid skip rules: %s", strings.Join(e.Problems, "; "))
}

// labelPoint is one selectable point on an axis.
type labelPoint struct {
	label string
	user  float64
}

// AxisLabels returns the selectable points of an axis in generation
// order: the labelled mapping points, or fallback points synthesized from
// the range extremes plus any parametric input points referencing the
// axis, named tag+value (e.g. "wght400").
func AxisLabels(doc *dss.Document, axis *dss.Axis) map[string]float64 {
	res := make(map[string]float64)
	for _, pt := range axisPoints(doc, axis) {
		res[pt.label] = pt.user
	}
	return res
}

func axisPoints(doc *dss.Document, axis *dss.Axis) []labelPoint {
	var pts []labelPoint
	haveLabels := false
	for _, m := range axis.Mappings {
		if m.Label != "" {
			haveLabels = true
			pts = append(pts, labelPoint{m.Label, m.UserValue})
		}
	}
	if haveLabels {
		return pts
	}

	values := []float64{axis.Minimum, axis.Default, axis.Maximum}
	for _, m := range doc.Avar2Mappings {
		for key, v := range m.Input {
			if strings.EqualFold(key, axis.Tag) || strings.EqualFold(key, axis.Name) {
				values = append(values, v)
			}
		}
	}
	slices.Sort(values)
	values = slices.Compact(values)

	pts = pts[:0]
	for _, v := range values {
		pts = append(pts, labelPoint{fallbackLabel(axis.Tag, v), v})
	}
	return pts
}

// fallbackLabel names an unlabelled axis point, e.g. "wght400".
func fallbackLabel(tag string, value float64) string {
	return strings.ToLower(tag) + strconv.FormatFloat(value, 'f', -1, 64)
}

// Option configures instance generation.
type Option func(*config)

type config struct {
	canonical bool
}

// CanonicalOrder makes the generator process axes in the conventional
// order optical, contrast, width, weight, italic, slant instead of the
// document's declaration order.  Axes outside this list keep their
// relative order at the end.
func CanonicalOrder() Option {
	return func(c *config) { c.canonical = true }
}

func sortCanonical(axes []*dss.Axis) []*dss.Axis {
	var ordered []*dss.Axis
	for _, name := range canonicalAxisOrder {
		for _, axis := range axes {
			regName, _ := dss.RegisteredAxisName(axis.Tag)
			if strings.EqualFold(axis.Name, name) || regName == name {
				ordered = append(ordered, axis)
			}
		}
	}
	for _, axis := range axes {
		if !slices.Contains(ordered, axis) {
			ordered = append(ordered, axis)
		}
	}
	return ordered
}

// elidableNames lists the style-name fragments to remove from compound
// names: first the full compound of all elidable labels, then each
// individual elidable label.  The weight axis's label goes last, so it is
// the last to be stripped and the first to survive.
func elidableNames(axes []*dss.Axis) []string {
	elidable := make(map[*dss.Axis]string)
	for _, axis := range axes {
		for _, m := range axis.Mappings {
			if m.Elidable && m.Label != "" {
				elidable[axis] = m.Label
			}
		}
	}

	var parts []string
	for _, axis := range axes {
		if label, ok := elidable[axis]; ok {
			parts = append(parts, label)
		}
	}
	names := []string{strings.Join(parts, " ")}

	var weightLabel string
	for _, axis := range axes {
		label, ok := elidable[axis]
		if !ok || slices.Contains(names, label) {
			continue
		}
		if strings.EqualFold(axis.Tag, "wght") || strings.EqualFold(axis.Name, "weight") {
			weightLabel = label
		} else {
			names = append(names, label)
		}
	}
	if weightLabel != "" && !slices.Contains(names, weightLabel) {
		names = append(names, weightLabel)
	}
	return names
}

// Generate expands the document's visible axes into named instances.  It
// fails with a *SkipError when the skip list references unknown labels;
// skip rules that never match any generated name are reported as
// warnings.
func Generate(doc *dss.Document, opts ...Option) ([]*dss.Instance, []Warning, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	axes := doc.Axes
	if len(axes) == 0 {
		return nil, nil, nil
	}
	if cfg.canonical {
		axes = sortCanonical(axes)
	}

	points := make([][]labelPoint, len(axes))
	for i, axis := range axes {
		points[i] = axisPoints(doc, axis)
	}

	if err := validateSkipList(doc.InstancesSkip, points); err != nil {
		return nil, nil, err
	}

	elidable := elidableNames(axes)

	var result []*dss.Instance
	var warnings []Warning
	usedSkips := make(map[string]bool)

	idx := make([]int, len(axes))
	for {
		styleName := buildStyleName(idx, points, elidable)

		if slices.Contains(doc.InstancesSkip, styleName) {
			usedSkips[styleName] = true
		} else {
			location := make(map[string]float64, len(axes))
			for i, axis := range axes {
				location[axis.Name] = axis.DesignValue(points[i][idx[i]].user)
			}
			result = append(result, newInstance(doc.Family, styleName, location))
		}

		// advance the index vector, rightmost axis fastest
		i := len(idx) - 1
		for i >= 0 {
			idx[i]++
			if idx[i] < len(points[i]) {
				break
			}
			idx[i] = 0
			i--
		}
		if i < 0 {
			break
		}
	}

	for _, skip := range doc.InstancesSkip {
		if !usedSkips[skip] {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("skip rule %q never matched an instance name", skip),
			})
		}
	}
	return result, warnings, nil
}

// buildStyleName joins the labels of one combination and applies the
// elision rules: elidable fragments are removed from compound names only,
// never producing an empty name, and "Regular Italic" collapses to
// "Italic".
func buildStyleName(idx []int, points [][]labelPoint, elidable []string) string {
	labels := make([]string, len(idx))
	for i := range idx {
		labels[i] = points[i][idx[i]].label
	}
	name := strings.Join(labels, " ")

	if len(strings.Fields(name)) > 1 {
		for _, fragment := range elidable {
			if fragment == "" || !strings.Contains(name, fragment) {
				continue
			}
			cleaned := strings.Join(strings.Fields(strings.ReplaceAll(name, fragment, " ")), " ")
			if cleaned != "" {
				name = cleaned
			}
		}
	}
	name = strings.Join(strings.Fields(name), " ")
	if strings.Contains(name, "Regular Italic") {
		name = strings.ReplaceAll(name, "Regular Italic", "Italic")
	}
	return name
}

// validateSkipList checks that every word of every skip rule is a label
// some axis can produce.
func validateSkipList(skipList []string, points [][]labelPoint) error {
	if len(skipList) == 0 {
		return nil
	}
	valid := make(map[string]bool)
	for _, pts := range points {
		for _, pt := range pts {
			valid[pt.label] = true
		}
	}

	var problems []string
	for _, skip := range skipList {
		for _, label := range strings.Fields(skip) {
			if !valid[label] {
				problems = append(problems, fmt.Sprintf(
					"skip rule %q contains label %q which is not defined in any axis", skip, label))
				break
			}
		}
	}
	if len(problems) > 0 {
		return &SkipError{Problems: problems}
	}
	return nil
}

// newInstance fills in the derived instance names: the PostScript name is
// family-style with spaces and hyphens stripped, and the file lives in
// the instances folder.
func newInstance(family, styleName string, location map[string]float64) *dss.Instance {
	ps := strings.NewReplacer(" ", "", "-", "").Replace(family) +
		"-" + strings.NewReplacer(" ", "", "-", "").Replace(styleName)
	return &dss.Instance{
		Name:       styleName,
		FamilyName: family,
		StyleName:  styleName,
		Filename:   DefaultFolder + "/" + ps + ".ufo",
		Location:   location,
	}
}
