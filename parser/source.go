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

// parseSourceLine handles one line of the sources section.  Three
// coordinate syntaxes coexist:
//
//	Light [0, 0]                 positional, per declared or explicit order
//	Light wght=0, ital=0         named, unspecified axes at their default
//	Light                        defaults only
//
// "@base" marks the default source and "@layer=name" selects a source
// layer.  Coordinate values may be labels from the axis mappings.
func (p *Parser) parseSourceLine(line string) error {
	line, isBase := cutFlag(line, "@base")
	line, layer := cutValueFlag(line, "@layer")

	src := &dss.Source{
		IsBase:       isBase,
		CopyInfo:     isBase,
		CopyLib:      isBase,
		CopyGroups:   isBase,
		CopyFeatures: isBase,
		Layer:        layer,
		Location:     make(map[string]float64),
	}

	var err error
	switch {
	case strings.Contains(line, "["):
		err = p.parsePositionalSource(line, src)
	case strings.Contains(line, "="):
		err = p.parseNamedSource(line, src)
	default:
		src.Filename, src.Name = dss.SourceFilename(unquote(line))
		p.fillDefaultLocation(src)
	}
	if err != nil {
		return err
	}

	p.doc.Sources = append(p.doc.Sources, src)
	return nil
}

func (p *Parser) parsePositionalSource(line string, src *dss.Source) error {
	open := strings.Index(line, "[")
	end := strings.Index(line, "]")
	if end < open {
		return fmt.Errorf("unbalanced brackets in source %q", line)
	}
	src.Filename, src.Name = dss.SourceFilename(unquote(strings.TrimSpace(line[:open])))

	order := p.sourceOrder
	if order == nil {
		for _, axis := range p.doc.Axes {
			order = append(order, axis.Name)
		}
	}

	values := strings.Split(line[open+1:end], ",")
	for i, raw := range values {
		raw = strings.TrimSpace(raw)
		if i >= len(order) {
			return fmt.Errorf("source %q has more coordinates than axes", src.Name)
		}
		axis := p.doc.FindAxis(order[i])
		if axis == nil {
			return fmt.Errorf("source %q references unknown axis %q", src.Name, order[i])
		}
		v, err := p.resolveCoordinate(raw, axis)
		if err != nil {
			return err
		}
		src.Location[axis.Name] = v
	}
	p.fillDefaultLocation(src)
	return nil
}

func (p *Parser) parseNamedSource(line string, src *dss.Source) error {
	name, rest := cutQuoted(line)
	src.Filename, src.Name = dss.SourceFilename(name)

	for _, pair := range strings.Split(rest, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid coordinate %q in source %q", pair, src.Name)
		}
		key = strings.TrimSpace(key)
		axis := p.doc.FindAxis(key)
		if axis == nil {
			return fmt.Errorf("source %q references unknown axis %q", src.Name, key)
		}
		v, err := p.resolveCoordinate(strings.TrimSpace(value), axis)
		if err != nil {
			return err
		}
		src.Location[axis.Name] = v
	}
	p.fillDefaultLocation(src)
	return nil
}

// fillDefaultLocation completes a source location with the default design
// coordinate of every axis not mentioned, hidden axes included.
func (p *Parser) fillDefaultLocation(src *dss.Source) {
	for _, axis := range p.doc.AllAxes() {
		if _, ok := src.Location[axis.Name]; !ok {
			src.Location[axis.Name] = axis.DefaultDesignValue()
		}
	}
}

// resolveCoordinate turns a written coordinate into a design-space value.
// Labels resolve through the axis's own mappings first, then through the
// standard tables.
func (p *Parser) resolveCoordinate(raw string, axis *dss.Axis) (float64, error) {
	raw = unquote(raw)
	if v, err := parseNumber(raw); err == nil {
		return v, nil
	}
	for _, m := range axis.Mappings {
		if m.Label == raw {
			return m.DesignValue, nil
		}
	}
	if user, ok := p.std.NameToUserValue(raw, axis.Name); ok {
		return axis.DesignValue(user), nil
	}
	if v, ok := p.std.DiscreteLabelValue(axis.Tag, raw); ok {
		return v, nil
	}
	return 0, fmt.Errorf("unknown coordinate %q on axis %q", raw, axis.Name)
}

// parseInstanceLine handles one line of the instances section: the
// auto/off switches, skip rules, or an explicit instance in the
// positional source form.
func (p *Parser) parseInstanceLine(line string) error {
	switch {
	case line == "auto":
		p.doc.InstancesAuto = true
		return nil
	case line == "off":
		p.doc.InstancesOff = true
		return nil
	case strings.HasPrefix(line, "skip "):
		p.doc.InstancesSkip = append(p.doc.InstancesSkip,
			strings.TrimSpace(line[len("skip"):]))
		return nil
	}

	inst := &dss.Instance{
		FamilyName: p.doc.Family,
		Location:   make(map[string]float64),
	}
	rest := line
	if open := strings.Index(line, "["); open >= 0 {
		end := strings.Index(line, "]")
		if end < open {
			return fmt.Errorf("unbalanced brackets in instance %q", line)
		}
		inst.StyleName = unquote(strings.TrimSpace(line[:open]))
		for i, raw := range strings.Split(line[open+1:end], ",") {
			if i >= len(p.doc.Axes) {
				return fmt.Errorf("instance %q has more coordinates than axes", inst.StyleName)
			}
			axis := p.doc.Axes[i]
			v, err := p.resolveCoordinate(strings.TrimSpace(raw), axis)
			if err != nil {
				return err
			}
			inst.Location[axis.Name] = v
		}
	} else {
		inst.StyleName = unquote(rest)
		for _, axis := range p.doc.Axes {
			inst.Location[axis.Name] = axis.DefaultDesignValue()
		}
	}
	inst.Name = inst.StyleName
	p.doc.Instances = append(p.doc.Instances, inst)
	return nil
}

// cutFlag removes a "@flag" marker from the line and reports whether it
// was present.
func cutFlag(line, flag string) (string, bool) {
	if !strings.Contains(line, flag) {
		return line, false
	}
	line = strings.Join(strings.Fields(strings.ReplaceAll(line, flag, " ")), " ")
	return line, true
}

// cutValueFlag removes a "@flag=value" marker and returns its value,
// which may be quoted.
func cutValueFlag(line, flag string) (string, string) {
	i := strings.Index(line, flag+"=")
	if i < 0 {
		return line, ""
	}
	rest := line[i+len(flag)+1:]
	var value string
	if strings.HasPrefix(rest, "\"") {
		if end := strings.Index(rest[1:], "\""); end >= 0 {
			value = rest[1 : end+1]
			rest = rest[end+2:]
		}
	} else {
		if end := strings.IndexAny(rest, " \t"); end >= 0 {
			value, rest = rest[:end], rest[end:]
		} else {
			value, rest = rest, ""
		}
	}
	return strings.TrimSpace(line[:i] + rest), value
}
