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

// Package writer turns a document back into its textual form.
//
// The output is deterministic: map-valued fields are written in axis
// declaration order, with leftovers sorted.  With Optimize disabled the
// output parses back to an equal document; Optimize additionally
// shortens registered axis names, uses label-based ranges, compacts
// substitution lists into wildcard patterns, and replaces explicit
// instance lists with "instances auto".
package writer

import (
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/dss"
	"seehuhn.de/go/dss/mappings"
	"seehuhn.de/go/dss/pattern"
)

// A Writer formats documents.  The zero value writes a faithful,
// unoptimized rendition with numeric coordinates.
type Writer struct {
	// Optimize enables the shortened output forms.  Optimized output is
	// not guaranteed to parse back to an equal document.
	Optimize bool

	// LabelCoordinates writes coordinates as mapping labels where a
	// label with the exact design value exists.
	LabelCoordinates bool

	// LabelRanges writes axis ranges as standard style names
	// ("Thin:Regular:Black") when all three bounds have exact standard
	// values.  Only effective together with Optimize.
	LabelRanges bool

	// Avar2Linear writes parametric mappings one per line instead of the
	// tabular matrix form.
	Avar2Linear bool

	// Glyphs, when set, is used to verify that compacted wildcard
	// patterns expand back to exactly the original substitution list.
	Glyphs map[string]bool

	// Standards supplies the style-name tables.  Nil means
	// mappings.Builtin().
	Standards *mappings.Standards
}

// New returns a writer with label coordinates and label ranges enabled.
func New() *Writer {
	return &Writer{LabelCoordinates: true, LabelRanges: true}
}

// Format renders the document with the default settings.
func Format(doc *dss.Document) string {
	return New().Format(doc)
}

func (w *Writer) std() *mappings.Standards {
	if w.Standards != nil {
		return w.Standards
	}
	return mappings.Builtin()
}

// Format renders the document as DSS text.
func (w *Writer) Format(doc *dss.Document) string {
	var lines []string

	lines = append(lines, "family "+quoteIfSpaces(doc.Family))
	if doc.Suffix != "" {
		lines = append(lines, "suffix "+doc.Suffix)
	}
	if doc.Path != "" {
		lines = append(lines, "path "+doc.Path)
	}
	lines = append(lines, "")

	if len(doc.Axes) > 0 {
		lines = append(lines, "axes")
		for _, axis := range doc.Axes {
			lines = append(lines, w.formatAxis(axis)...)
		}
		lines = append(lines, "")
	}

	if len(doc.HiddenAxes) > 0 {
		lines = append(lines, "axes hidden")
		for _, axis := range doc.HiddenAxes {
			lines = append(lines, "    "+axis.Tag+" "+formatRange(axis))
		}
		lines = append(lines, "")
	}

	if len(doc.Sources) > 0 {
		lines = append(lines, w.formatSources(doc)...)
		lines = append(lines, "")
	}

	if len(doc.Avar2Vars) > 0 {
		lines = append(lines, w.formatAvar2Vars(doc)...)
		lines = append(lines, "")
	}

	if len(doc.Avar2Mappings) > 0 {
		if w.Avar2Linear {
			lines = append(lines, "avar2")
			for _, m := range doc.Avar2Mappings {
				lines = append(lines, w.formatAvar2Mapping(doc, m))
			}
		} else {
			lines = append(lines, w.formatAvar2Matrix(doc)...)
		}
		lines = append(lines, "")
	}

	if len(doc.Rules) > 0 {
		lines = append(lines, "rules")
		for _, rule := range doc.Rules {
			lines = append(lines, w.formatRule(doc, rule)...)
		}
		lines = append(lines, "")
	}

	lines = append(lines, w.formatInstances(doc)...)

	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

// Write renders the document to out.
func (w *Writer) Write(out io.Writer, doc *dss.Document) error {
	_, err := io.WriteString(out, w.Format(doc))
	return err
}

// WriteFile renders the document to a file.
func (w *Writer) WriteFile(fname string, doc *dss.Document) error {
	return os.WriteFile(fname, []byte(w.Format(doc)), 0o666)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func quoteIfSpaces(s string) string {
	if strings.Contains(s, " ") {
		return "\"" + s + "\""
	}
	return s
}

func formatRange(axis *dss.Axis) string {
	return formatNumber(axis.Minimum) + ":" + formatNumber(axis.Default) + ":" + formatNumber(axis.Maximum)
}

// axisKind classifies an axis for the standard style-name tables.
func axisKind(axis *dss.Axis) string {
	switch strings.ToLower(axis.Tag) {
	case "wght":
		return "weight"
	case "wdth":
		return "width"
	}
	return ""
}

// isDiscreteItalic reports whether the axis can use the "discrete"
// keyword and bare-label mappings.
func isDiscreteItalic(axis *dss.Axis) bool {
	name := strings.ToLower(axis.Name)
	return axis.Minimum == 0 && axis.Default == 0 && axis.Maximum == 1 &&
		(name == "italic" || name == "ital" || strings.ToLower(axis.Tag) == "ital")
}

func (w *Writer) formatAxis(axis *dss.Axis) []string {
	discrete := w.Optimize && isDiscreteItalic(axis)

	name := axis.Name
	if w.Optimize {
		if _, ok := dss.RegisteredAxisName(axis.Tag); ok {
			name = ""
		} else if axis.DisplayName != "" && strings.EqualFold(axis.Name, axis.DisplayName) {
			name = ""
		}
	}

	rangeStr := formatRange(axis)
	if discrete {
		rangeStr = "discrete"
	} else if label := w.labelRange(axis); label != "" {
		rangeStr = label
	}

	var parts []string
	if name != "" {
		parts = append(parts, name)
	}
	parts = append(parts, axis.Tag, rangeStr)
	header := "    " + strings.Join(parts, " ")
	if axis.DisplayName != "" && axis.DisplayName != axis.Tag {
		header += " \"" + axis.DisplayName + "\""
	}

	lines := []string{header}
	for _, m := range axis.Mappings {
		lines = append(lines, w.formatMapping(axis, m, discrete))
	}
	return lines
}

// labelRange writes the axis range as standard style names when enabled
// and all three bounds have exact standard values, so that parsing the
// labels reproduces the numbers.
func (w *Writer) labelRange(axis *dss.Axis) string {
	if !w.Optimize || !w.LabelRanges {
		return ""
	}
	kind := axisKind(axis)
	if kind == "" {
		return ""
	}
	std := w.std()
	bounds := []float64{axis.Minimum, axis.Default, axis.Maximum}
	labels := make([]string, len(bounds))
	for i, v := range bounds {
		label := w.labelForUserValue(axis, v)
		if label == "" {
			return ""
		}
		if user, ok := std.NameToUserValue(label, kind); !ok || user != v {
			return ""
		}
		labels[i] = label
	}
	return strings.Join(labels, ":")
}

// labelForUserValue finds a label for a user-space value, checking the
// axis's own mappings before the standard tables.
func (w *Writer) labelForUserValue(axis *dss.Axis, user float64) string {
	for _, m := range axis.Mappings {
		if m.UserValue == user && m.Label != "" {
			return m.Label
		}
	}
	if kind := axisKind(axis); kind != "" {
		if name, ok := w.std().UserValueToName(user, kind); ok {
			return name
		}
	}
	return ""
}

func (w *Writer) formatMapping(axis *dss.Axis, m dss.AxisMapping, discrete bool) string {
	var line string
	switch {
	case discrete && m.UserValue == m.DesignValue && w.discreteLabelResolves(axis, m):
		line = "        " + m.Label
	case w.Optimize && w.compactMappingOK(axis, m):
		line = "        " + m.Label + " > " + formatNumber(m.DesignValue)
	case m.Label == "":
		line = "        " + formatNumber(m.UserValue) + " > " + formatNumber(m.DesignValue)
	default:
		line = "        " + formatNumber(m.UserValue) + " " + m.Label +
			" > " + formatNumber(m.DesignValue)
	}
	if m.Elidable {
		line += " @elidable"
	}
	return line
}

// discreteLabelResolves reports whether a bare label line would parse
// back to the mapping's exact value.
func (w *Writer) discreteLabelResolves(axis *dss.Axis, m dss.AxisMapping) bool {
	std := w.std()
	if v, ok := std.DiscreteLabelValue(axis.Tag, m.Label); ok {
		return v == m.UserValue
	}
	if v, ok := std.NameToUserValue(m.Label, axis.Name); ok {
		return v == m.UserValue
	}
	return false
}

// compactMappingOK reports whether the user value can be omitted because
// the label is a standard style name with that exact value.
func (w *Writer) compactMappingOK(axis *dss.Axis, m dss.AxisMapping) bool {
	kind := axisKind(axis)
	if kind == "" || m.Label == "" {
		return false
	}
	user, ok := w.std().NameToUserValue(m.Label, kind)
	return ok && user == m.UserValue
}

// labelForDesignValue finds a mapping label with the exact design value,
// for label-valued coordinates.
func labelForDesignValue(axis *dss.Axis, design float64) string {
	for _, m := range axis.Mappings {
		if m.DesignValue == design && m.Label != "" {
			return m.Label
		}
	}
	return ""
}

func (w *Writer) coordinate(axis *dss.Axis, v float64) string {
	if w.LabelCoordinates {
		if label := labelForDesignValue(axis, v); label != "" {
			return label
		}
	}
	return formatNumber(v)
}

// formatSources writes the sources section.  Documents with hidden axes
// use the named coordinate form, everything else the positional form
// with an explicit axis order header.
func (w *Writer) formatSources(doc *dss.Document) []string {
	if len(doc.HiddenAxes) > 0 {
		lines := []string{"sources"}
		for _, src := range doc.Sources {
			lines = append(lines, w.formatNamedSource(doc, src))
		}
		return lines
	}

	tags := make([]string, len(doc.Axes))
	for i, axis := range doc.Axes {
		tags[i] = axis.Tag
	}
	lines := []string{"sources [" + strings.Join(tags, ", ") + "]"}
	for _, src := range doc.Sources {
		lines = append(lines, w.formatPositionalSource(doc, src))
	}
	return lines
}

// sourceDisplayName inverts the filename derivation used when parsing:
// ".ufoz" packages and path-based sources are written via their
// filename, plain sources via their name.
func sourceDisplayName(src *dss.Source) string {
	switch {
	case strings.HasSuffix(src.Filename, ".ufoz"):
		return src.Filename
	case strings.Contains(src.Filename, "/"):
		return strings.TrimSuffix(src.Filename, ".ufo")
	default:
		return src.Name
	}
}

func sourceFlags(src *dss.Source) string {
	var flags string
	if src.IsBase {
		flags += " @base"
	}
	if src.Layer != "" {
		flags += " @layer=" + quoteIfSpaces(src.Layer)
	}
	return flags
}

func (w *Writer) formatPositionalSource(doc *dss.Document, src *dss.Source) string {
	coords := make([]string, len(doc.Axes))
	for i, axis := range doc.Axes {
		coords[i] = w.coordinate(axis, src.Location[axis.Name])
	}
	return "    " + quoteIfSpaces(sourceDisplayName(src)) +
		" [" + strings.Join(coords, ", ") + "]" + sourceFlags(src)
}

// formatNamedSource writes only the coordinates differing from the axis
// defaults, keyed by tag.
func (w *Writer) formatNamedSource(doc *dss.Document, src *dss.Source) string {
	var coords []string
	for _, axis := range doc.AllAxes() {
		v, ok := src.Location[axis.Name]
		if !ok || v == axis.DefaultDesignValue() {
			continue
		}
		coords = append(coords, axis.Tag+"="+w.coordinate(axis, v))
	}
	line := "    " + quoteIfSpaces(sourceDisplayName(src))
	if len(coords) > 0 {
		line += " " + strings.Join(coords, ", ")
	}
	return line + sourceFlags(src)
}

// sortedVarNames returns the variable names in a fixed order.
func sortedVarNames(vars map[string]float64) []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// varFor finds a variable holding the given value.  The first name in
// sorted order wins, keeping the output stable.
func varFor(doc *dss.Document, v float64) string {
	for _, name := range sortedVarNames(doc.Avar2Vars) {
		if doc.Avar2Vars[name] == v {
			return name
		}
	}
	return ""
}

func (w *Writer) formatAvar2Vars(doc *dss.Document) []string {
	counts := make(map[string]int)
	for _, m := range doc.Avar2Mappings {
		for key, v := range m.Output {
			if axis := doc.FindAxis(key); axis != nil && v == axis.Default {
				continue
			}
			if name := varFor(doc, v); name != "" {
				counts[name]++
			}
		}
	}

	lines := []string{"avar2 vars"}
	for _, name := range sortedVarNames(doc.Avar2Vars) {
		line := "    $" + name + " = " + formatNumber(doc.Avar2Vars[name])
		if n := counts[name]; n > 0 {
			line += "  # used " + strconv.Itoa(n) + " times"
		}
		lines = append(lines, line)
	}
	return lines
}

// orderedKeys sorts map keys into axis declaration order, with keys not
// naming any axis sorted at the end.
func orderedKeys(doc *dss.Document, m map[string]float64) []string {
	all := doc.AllAxes()
	index := func(key string) int {
		for i, axis := range all {
			if strings.EqualFold(axis.Name, key) || strings.EqualFold(axis.Tag, key) {
				return i
			}
		}
		return len(all)
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	slices.SortStableFunc(keys, func(a, b string) int {
		return index(a) - index(b)
	})
	return keys
}

// avar2Input renders the [axis=value] block of a parametric mapping.
func (w *Writer) avar2Input(doc *dss.Document, input map[string]float64) string {
	var parts []string
	for _, key := range orderedKeys(doc, input) {
		v := input[key]
		value := formatNumber(v)
		if w.LabelCoordinates {
			if axis := doc.FindAxis(key); axis != nil {
				if label := labelForDesignValue(axis, v); label != "" {
					value = label
				}
			}
		}
		parts = append(parts, key+"="+value)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// avar2OutputCell renders one output value: "$" for the axis default,
// "$name" for a variable, otherwise the number.
func avar2OutputCell(doc *dss.Document, key string, v float64) string {
	if axis := doc.FindAxis(key); axis != nil && v == axis.Default {
		return "$"
	}
	if name := varFor(doc, v); name != "" {
		return "$" + name
	}
	return formatNumber(v)
}

func (w *Writer) formatAvar2Mapping(doc *dss.Document, m *dss.Avar2Mapping) string {
	var parts []string
	for _, key := range orderedKeys(doc, m.Output) {
		parts = append(parts, key+"="+avar2OutputCell(doc, key, m.Output[key]))
	}
	line := "    "
	if m.Name != "" {
		line += "\"" + m.Name + "\" "
	}
	return line + w.avar2Input(doc, m.Input) + " > " + strings.Join(parts, ", ")
}

// formatAvar2Matrix writes the parametric mappings as an aligned table
// with one column per output axis.  Cells of axes a mapping does not set
// are written as "-".
func (w *Writer) formatAvar2Matrix(doc *dss.Document) []string {
	union := make(map[string]float64)
	for _, m := range doc.Avar2Mappings {
		for key := range m.Output {
			union[key] = 0
		}
	}
	outputs := orderedKeys(doc, union)

	rows := make([][]string, 0, len(doc.Avar2Mappings)+1)
	header := append([]string{"outputs"}, outputs...)
	rows = append(rows, header)
	for _, m := range doc.Avar2Mappings {
		row := []string{w.avar2Input(doc, m.Input)}
		for _, key := range outputs {
			if v, ok := m.Output[key]; ok {
				row = append(row, avar2OutputCell(doc, key, v))
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	lines := []string{"avar2 matrix"}
	for _, row := range rows {
		var sb strings.Builder
		sb.WriteString("    ")
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(cell)
			if i < len(row)-1 {
				sb.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
			}
		}
		lines = append(lines, sb.String())
	}
	return lines
}

// formatCondition writes one condition, preferring the one-sided
// comparator forms when a bound sits at the axis's design-space
// extremum, and "==" for point conditions.
func (w *Writer) formatCondition(doc *dss.Document, c dss.Condition) string {
	axis := doc.FindAxis(c.Axis)
	value := func(v float64) string {
		if axis != nil {
			return w.coordinate(axis, v)
		}
		return formatNumber(v)
	}

	if c.Minimum == c.Maximum {
		return c.Axis + " == " + value(c.Minimum)
	}
	if axis != nil {
		lo, hi := axis.DesignExtrema()
		if c.Minimum == lo {
			return c.Axis + " <= " + value(c.Maximum)
		}
		if c.Maximum == hi {
			return c.Axis + " >= " + value(c.Minimum)
		}
	}
	return value(c.Minimum) + " <= " + c.Axis + " <= " + value(c.Maximum)
}

func (w *Writer) formatConditions(doc *dss.Document, conds []dss.Condition) string {
	if len(conds) == 0 {
		return ""
	}
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = w.formatCondition(doc, c)
	}
	return "(" + strings.Join(parts, " && ") + ")"
}

// ruleName formats the trailing rule name.  Optimized output additionally
// omits auto-generated ("rule1", "rule2", ...) names; plain output keeps
// every name so that documents survive a rewrite unchanged.
func (w *Writer) ruleName(name string) string {
	if name == "" {
		return ""
	}
	if w.Optimize && isAutoRuleName(name) {
		return ""
	}
	return " \"" + name + "\""
}

func isAutoRuleName(name string) bool {
	rest, ok := strings.CutPrefix(name, "rule")
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func joinRuleLine(from, to, cond, name string) string {
	line := "    " + from + " > " + to
	if cond != "" {
		line += " " + cond
	}
	return line + name
}

func (w *Writer) formatRule(doc *dss.Document, rule *dss.Rule) []string {
	cond := w.formatConditions(doc, rule.Conditions)
	name := w.ruleName(rule.Name)

	if rule.IsWildcard() {
		return []string{joinRuleLine(rule.Pattern, rule.ToPattern, cond, name)}
	}

	if w.Optimize && len(rule.Substitutions) > 1 {
		if from, to, ok := pattern.Compact(rule.Substitutions, w.Glyphs); ok {
			return []string{joinRuleLine(from, to, cond, name)}
		}
	}

	lines := make([]string, 0, len(rule.Substitutions))
	for i, sub := range rule.Substitutions {
		n := ""
		if i == 0 {
			n = name
		}
		lines = append(lines, joinRuleLine(sub.From, sub.To, cond, n))
	}
	return lines
}

func (w *Writer) formatInstances(doc *dss.Document) []string {
	var lines []string
	switch {
	case doc.InstancesOff:
		lines = append(lines, "instances off")
	case doc.InstancesAuto:
		lines = append(lines, "instances auto")
	case len(doc.Instances) > 0 && w.Optimize:
		lines = append(lines, "instances auto")
	case len(doc.Instances) > 0:
		lines = append(lines, "instances")
		for _, inst := range doc.Instances {
			coords := make([]string, len(doc.Axes))
			for i, axis := range doc.Axes {
				v, ok := inst.Location[axis.Name]
				if !ok {
					v = axis.DefaultDesignValue()
				}
				coords[i] = formatNumber(v)
			}
			lines = append(lines, "    "+quoteIfSpaces(inst.StyleName)+
				" ["+strings.Join(coords, ", ")+"]")
		}
	case len(doc.InstancesSkip) > 0:
		lines = append(lines, "instances")
	}
	for _, skip := range doc.InstancesSkip {
		lines = append(lines, "    skip "+skip)
	}
	return lines
}
