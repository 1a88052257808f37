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

// parseAvar2VarLine reads one variable declaration, "$name = value".
func (p *Parser) parseAvar2VarLine(line string) error {
	if !strings.HasPrefix(line, "$") {
		return fmt.Errorf("invalid avar2 variable %q, expected \"$name = value\"", line)
	}
	name, value, ok := strings.Cut(line[1:], "=")
	if !ok {
		return fmt.Errorf("invalid avar2 variable %q, expected \"$name = value\"", line)
	}
	v, err := parseNumber(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid avar2 variable value %q", strings.TrimSpace(value))
	}
	p.doc.Avar2Vars[strings.TrimSpace(name)] = v
	return nil
}

// parseAvar2Line reads one parametric mapping in linear form:
//
//	["name"] [axis=value, ...] > axis=value, ...
//
// Input values may be labels from the axis mappings; output values may be
// "$" (the axis default) or "$var" references.
func (p *Parser) parseAvar2Line(line string) error {
	var name string
	if strings.HasPrefix(line, "\"") {
		if end := strings.Index(line[1:], "\""); end >= 0 {
			name = line[1 : end+1]
			line = strings.TrimSpace(line[end+2:])
		}
	}

	open := strings.Index(line, "[")
	end := strings.Index(line, "]")
	if open < 0 || end < open {
		return fmt.Errorf("avar2 mapping has no [input] block")
	}
	input, err := p.parseAvar2Input(line[open+1 : end])
	if err != nil {
		return err
	}

	rest := strings.TrimSpace(line[end+1:])
	if !strings.HasPrefix(rest, ">") {
		return fmt.Errorf("avar2 mapping has no \">\" separator")
	}
	output, err := p.parseAvar2Output(strings.TrimSpace(rest[1:]))
	if err != nil {
		return err
	}

	p.doc.Avar2Mappings = append(p.doc.Avar2Mappings, &dss.Avar2Mapping{
		Name:   name,
		Input:  input,
		Output: output,
	})
	return nil
}

func (p *Parser) parseAvar2Input(s string) (map[string]float64, error) {
	input := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid avar2 input %q", pair)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		v, err := parseNumber(value)
		if err != nil {
			axis := p.doc.FindAxis(key)
			if axis == nil {
				return nil, fmt.Errorf("avar2 input references unknown axis %q", key)
			}
			v, err = p.resolveCoordinate(value, axis)
			if err != nil {
				return nil, err
			}
		}
		input[key] = v
	}
	return input, nil
}

func (p *Parser) parseAvar2Output(s string) (map[string]float64, error) {
	output := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid avar2 output %q", pair)
		}
		key = strings.TrimSpace(key)
		v, err := p.avar2OutputValue(key, strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}
		output[key] = v
	}
	return output, nil
}

// avar2OutputValue resolves an output cell: "$" is the axis default,
// "$var" a declared variable, anything else a number.
func (p *Parser) avar2OutputValue(axisKey, s string) (float64, error) {
	switch {
	case s == "$":
		axis := p.doc.FindAxis(axisKey)
		if axis == nil {
			return 0, fmt.Errorf("avar2 output references unknown axis %q", axisKey)
		}
		return axis.Default, nil
	case strings.HasPrefix(s, "$"):
		v, ok := p.doc.Avar2Vars[s[1:]]
		if !ok {
			return 0, fmt.Errorf("avar2 output references undeclared variable %q", s)
		}
		return v, nil
	default:
		return parseNumber(s)
	}
}

// parseAvar2MatrixLine reads the tabular avar2 form.  The first content
// line names the output axes:
//
//	outputs  XOUC  YTUC
//	[opsz=144]  84  750
//	[wght=Bold]  $  -
//
// "-" leaves the cell unset, "$" uses the axis default, "$var" a
// variable.
func (p *Parser) parseAvar2MatrixLine(line string) error {
	if p.matrixOut == nil {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "outputs" {
			return fmt.Errorf("avar2 matrix must start with an \"outputs\" header row")
		}
		p.matrixOut = fields[1:]
		return nil
	}

	open := strings.Index(line, "[")
	end := strings.Index(line, "]")
	if open != 0 || end < 0 {
		return fmt.Errorf("avar2 matrix row must start with an [input] block")
	}
	input, err := p.parseAvar2Input(line[open+1 : end])
	if err != nil {
		return err
	}

	cells := strings.Fields(strings.TrimSpace(line[end+1:]))
	if len(cells) != len(p.matrixOut) {
		return fmt.Errorf("avar2 matrix row has %d cells, expected %d", len(cells), len(p.matrixOut))
	}
	output := make(map[string]float64)
	for i, cell := range cells {
		if cell == "-" {
			continue
		}
		v, err := p.avar2OutputValue(p.matrixOut[i], cell)
		if err != nil {
			return err
		}
		output[p.matrixOut[i]] = v
	}

	p.doc.Avar2Mappings = append(p.doc.Avar2Mappings, &dss.Avar2Mapping{
		Input:  input,
		Output: output,
	})
	return nil
}
