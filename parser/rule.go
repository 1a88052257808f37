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

// parseRuleLine handles one line of the rules section:
//
//	fromPattern > toPattern (condition)? ("name")?
//
// A fromPattern containing "*" or more than one token makes the rule a
// wildcard rule, expanded against a glyph set at conversion time.  A
// toPattern starting with "." appends a suffix.  Consecutive concrete
// substitutions sharing the same conditions merge into one rule.
func (p *Parser) parseRuleLine(line string) error {
	comment := p.ruleComment
	p.ruleComment = ""

	pos := topLevelArrows(line)
	switch {
	case len(pos) == 0:
		return fmt.Errorf("rule line has no \">\"")
	case len(pos) > 1:
		return fmt.Errorf("rule line has %d top-level \">\" separators, expected one", len(pos))
	}
	from := strings.TrimSpace(line[:pos[0]])
	rest := strings.TrimSpace(line[pos[0]+1:])

	var name string
	if strings.HasSuffix(rest, "\"") {
		if i := strings.LastIndex(rest[:len(rest)-1], "\""); i >= 0 {
			name = rest[i+1 : len(rest)-1]
			rest = strings.TrimSpace(rest[:i])
		}
	}

	var conditions []dss.Condition
	if i := strings.Index(rest, "("); i >= 0 {
		end := strings.LastIndex(rest, ")")
		if end < i {
			return fmt.Errorf("unbalanced parentheses in rule %q", line)
		}
		var err error
		conditions, err = p.parseConditions(rest[i+1 : end])
		if err != nil {
			return err
		}
		rest = strings.TrimSpace(rest[:i] + rest[end+1:])
	}
	to := rest
	if to == "" {
		return fmt.Errorf("rule line has no substitution target")
	}

	if name == "" {
		name = comment
	}

	if strings.Contains(from, "*") || len(strings.Fields(from)) > 1 {
		p.doc.Rules = append(p.doc.Rules, &dss.Rule{
			Name:       name,
			Pattern:    from,
			ToPattern:  to,
			Conditions: conditions,
		})
		return nil
	}

	target := to
	if strings.HasPrefix(to, ".") {
		target = from + to
	}
	sub := dss.Substitution{From: from, To: target}

	// concrete substitutions with identical conditions accumulate into
	// the previous rule, unless this line names a new one
	if name == "" && len(p.doc.Rules) > 0 {
		last := p.doc.Rules[len(p.doc.Rules)-1]
		if !last.IsWildcard() && len(last.Conditions) > 0 &&
			conditionsEqual(last.Conditions, conditions) {
			last.Substitutions = append(last.Substitutions, sub)
			return nil
		}
	}

	p.doc.Rules = append(p.doc.Rules, &dss.Rule{
		Name:          name,
		Substitutions: []dss.Substitution{sub},
		Conditions:    conditions,
	})
	return nil
}

// topLevelArrows returns the positions of ">" separators outside quotes
// and parentheses.  ">=" and "<=" comparators never appear outside the
// condition parentheses, so a bare ">" is unambiguous.
func topLevelArrows(line string) []int {
	var pos []int
	depth := 0
	inQuote := false
	for i, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			depth--
		case r == '>' && depth == 0:
			pos = append(pos, i)
		}
	}
	return pos
}

// parseConditions reads a "&&"-joined condition list.  Each part is
// either a range "min <= axis <= max" or a comparator "axis >= value",
// "axis <= value", "axis == value".  Bounds may be labels resolved to the
// axis's design-space mapping value; an unbounded side defaults to the
// design-space extremum of the axis.
func (p *Parser) parseConditions(s string) ([]dss.Condition, error) {
	var conditions []dss.Condition
	for _, part := range strings.Split(s, "&&") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cond, err := p.parseCondition(part)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
	}
	return conditions, nil
}

func (p *Parser) parseCondition(s string) (dss.Condition, error) {
	// range form first: "min <= axis <= max"
	if parts := splitCondition(s, "<="); len(parts) == 3 {
		axis := p.doc.FindAxis(parts[1])
		if axis == nil {
			return dss.Condition{}, fmt.Errorf("condition references unknown axis %q", parts[1])
		}
		min, err := p.conditionValue(parts[0], axis)
		if err != nil {
			return dss.Condition{}, err
		}
		max, err := p.conditionValue(parts[2], axis)
		if err != nil {
			return dss.Condition{}, err
		}
		return dss.Condition{Axis: axis.Name, Minimum: min, Maximum: max}, nil
	}

	for _, op := range []string{">=", "<=", "=="} {
		parts := splitCondition(s, op)
		if len(parts) != 2 {
			continue
		}
		axis := p.doc.FindAxis(parts[0])
		if axis == nil {
			return dss.Condition{}, fmt.Errorf("condition references unknown axis %q", parts[0])
		}
		v, err := p.conditionValue(parts[1], axis)
		if err != nil {
			return dss.Condition{}, err
		}
		lo, hi := axis.DesignExtrema()
		switch op {
		case ">=":
			return dss.Condition{Axis: axis.Name, Minimum: v, Maximum: hi}, nil
		case "<=":
			return dss.Condition{Axis: axis.Name, Minimum: lo, Maximum: v}, nil
		default:
			return dss.Condition{Axis: axis.Name, Minimum: v, Maximum: v}, nil
		}
	}
	return dss.Condition{}, fmt.Errorf("invalid condition %q", s)
}

// splitCondition splits on an operator, trimming the pieces.
func splitCondition(s, op string) []string {
	parts := strings.Split(s, op)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// conditionValue resolves a condition bound: a number, or a label mapped
// to its design-space value on the given axis.
func (p *Parser) conditionValue(s string, axis *dss.Axis) (float64, error) {
	if v, err := parseNumber(s); err == nil {
		return v, nil
	}
	for _, m := range axis.Mappings {
		if m.Label == s {
			return m.DesignValue, nil
		}
	}
	if user, ok := p.std.NameToUserValue(s, axis.Name); ok {
		return axis.DesignValue(user), nil
	}
	return 0, fmt.Errorf("unknown condition bound %q on axis %q", s, axis.Name)
}

func conditionsEqual(a, b []dss.Condition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
