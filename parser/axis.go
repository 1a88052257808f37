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

package parser

import (
	"fmt"
	"strings"

	"seehuhn.de/go/dss"
)

// parseAxisLine handles one line of the axes section.  Axis headers come
// in five surface forms:
//
//	weight wght 100:400:900          full form
//	wght 100:400:900                 registered tag, name omitted
//	weight 100:400:900               legacy form, tag inferred
//	Optical Size opsz 8:14:144 "Optical Size"   multi-word name + display name
//	ital discrete                    binary/discrete keyword range
//
// Lines containing ">" are never headers; under an open axis they add a
// mapping, as do bare labels for discrete axes.
func (p *Parser) parseAxisLine(line string) error {
	if !strings.Contains(line, ">") {
		if axis, ok, err := p.parseAxisHeader(line); err != nil {
			return err
		} else if ok {
			p.currentAxis = axis
			p.doc.Axes = append(p.doc.Axes, axis)
			return nil
		}
	}
	if p.currentAxis == nil {
		return fmt.Errorf("mapping line before any axis definition")
	}
	return p.parseAxisMapping(line, p.currentAxis)
}

// parseHiddenAxisLine handles one line of the "axes hidden" section.
// Hidden axes carry no mappings; the form is "TAG min:default:max", with
// the tag doubling as the name.
func (p *Parser) parseHiddenAxisLine(line string) error {
	tokens := strings.Fields(line)
	if len(tokens) != 2 || !isRangeToken(tokens[1]) {
		return fmt.Errorf("invalid hidden axis %q", line)
	}
	tag := tokens[0]
	min, def, max, err := p.parseRange(tokens[1], tag)
	if err != nil {
		return err
	}
	p.doc.HiddenAxes = append(p.doc.HiddenAxes, &dss.Axis{
		Name:    tag,
		Tag:     tag,
		Minimum: min,
		Default: def,
		Maximum: max,
	})
	return nil
}

// parseAxisHeader tries to read an axis definition.  The disambiguation
// rule is to search for a trailing 4-character tag token immediately
// followed by a range token; everything before the tag is the axis name,
// possibly empty (shortened form) or multi-word.
func (p *Parser) parseAxisHeader(line string) (*dss.Axis, bool, error) {
	var displayName string
	if strings.HasSuffix(line, "\"") {
		if i := strings.LastIndex(line[:len(line)-1], "\""); i >= 0 {
			displayName = line[i+1 : len(line)-1]
			line = strings.TrimSpace(line[:i])
		}
	}

	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return nil, false, nil
	}

	var name, tag, rangeTok string
	for i := len(tokens) - 2; i >= 0; i-- {
		if len(tokens[i]) == 4 && isRangeToken(tokens[i+1]) && i+2 == len(tokens) {
			name = strings.Join(tokens[:i], " ")
			tag = tokens[i]
			rangeTok = tokens[i+1]
			break
		}
	}
	if tag == "" {
		// legacy form: name with inferred tag
		if len(tokens) != 2 || !isRangeToken(tokens[1]) {
			return nil, false, nil
		}
		name = tokens[0]
		tag = dss.InferTag(name)
		rangeTok = tokens[1]
	} else if name == "" {
		// shortened form: registered tag only
		if regName, ok := dss.RegisteredAxisName(tag); ok {
			name = regName
		} else {
			name = strings.ToUpper(tag)
		}
	}

	min, def, max, err := p.parseRange(rangeTok, name)
	if err != nil {
		return nil, false, err
	}
	return &dss.Axis{
		Name:        name,
		Tag:         tag,
		Minimum:     min,
		Default:     def,
		Maximum:     max,
		DisplayName: displayName,
	}, true, nil
}

// isRangeToken reports whether a token can terminate an axis header: a
// colon-separated range, the binary/discrete keywords, or a bare number.
func isRangeToken(s string) bool {
	return s == "binary" || s == "discrete" || strings.Contains(s, ":") || isNumber(s)
}

// parseRange reads min:default:max.  A pair means default=min, a bare
// value sets all three.  The bounds may be standard style names (weight
// and width axes only), e.g. "Thin:Regular:Black".
func (p *Parser) parseRange(s, axisName string) (min, def, max float64, err error) {
	if s == "binary" || s == "discrete" {
		return 0, 0, 1, nil
	}
	parts := strings.Split(s, ":")
	vals := make([]float64, len(parts))
	for i, part := range parts {
		v, numErr := parseNumber(part)
		if numErr != nil {
			var ok bool
			v, ok = p.std.NameToUserValue(part, axisName)
			if !ok {
				return 0, 0, 0, fmt.Errorf("invalid range bound %q", part)
			}
		}
		vals[i] = v
	}
	switch len(vals) {
	case 1:
		return vals[0], vals[0], vals[0], nil
	case 2:
		return vals[0], vals[0], vals[1], nil
	case 3:
		return vals[0], vals[1], vals[2], nil
	default:
		return 0, 0, 0, fmt.Errorf("invalid range %q", s)
	}
}

// parseAxisMapping reads one mapping line under an open axis:
//
//	300 Light > 295          full form
//	Light > 295              standard label, user value inferred
//	400 > 386                pure numeric mapping
//	Italic                   bare label, discrete axes only
//
// "@elidable" may trail any of the forms.
func (p *Parser) parseAxisMapping(line string, axis *dss.Axis) error {
	elidable := strings.Contains(line, "@elidable")
	if elidable {
		line = strings.TrimSpace(strings.ReplaceAll(line, "@elidable", ""))
	}

	if !strings.Contains(line, ">") {
		return p.parseDiscreteLabel(line, axis, elidable)
	}

	left, right, _ := strings.Cut(line, ">")
	left = strings.TrimSpace(left)
	design, err := parseNumber(strings.TrimSpace(right))
	if err != nil {
		return fmt.Errorf("invalid design value in mapping %q", line)
	}

	var user float64
	var label string
	fields := strings.Fields(left)
	if len(fields) == 0 {
		return fmt.Errorf("empty mapping %q", line)
	}
	if isNumber(fields[0]) {
		user, _ = parseNumber(fields[0])
		label = strings.Join(fields[1:], " ")
		if label == "" {
			// pure numeric mapping; pick up a standard name when the
			// value has one
			label, _ = p.std.UserValueToName(user, axis.Name)
		}
	} else {
		label = left
		var ok bool
		user, ok = p.std.NameToUserValue(label, axis.Name)
		if !ok {
			// unknown label: fall back to the design value in lenient
			// mode, fail in strict mode
			if err := p.errOrWarn("unknown label %q on axis %q, using design value %s as user value",
				label, axis.Name, strings.TrimSpace(right)); err != nil {
				return err
			}
			user = design
		}
	}

	axis.Mappings = append(axis.Mappings, dss.AxisMapping{
		UserValue:   user,
		DesignValue: design,
		Label:       label,
		Elidable:    elidable,
	})
	return nil
}

// parseDiscreteLabel reads a bare label line, allowed only under discrete
// axes.  The value comes from the discrete-label table, then the standard
// tables, then the label's position in declaration order.
func (p *Parser) parseDiscreteLabel(line string, axis *dss.Axis, elidable bool) error {
	if !(axis.Minimum == 0 && axis.Default == 0 && axis.Maximum == 1) {
		return fmt.Errorf("bare label %q is only allowed for discrete axes", line)
	}
	label := unquote(line)

	value, ok := p.std.DiscreteLabelValue(axis.Tag, label)
	if !ok {
		value, ok = p.std.NameToUserValue(label, axis.Name)
	}
	if !ok {
		// custom discrete axis: position determines the value
		value = float64(len(axis.Mappings))
	}

	axis.Mappings = append(axis.Mappings, dss.AxisMapping{
		UserValue:   value,
		DesignValue: value,
		Label:       label,
		Elidable:    elidable,
	})
	return nil
}
