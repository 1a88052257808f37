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

// Package parser reads design space sketches from their textual form.
//
// A sketch is a line-oriented document made of sections (family, axes,
// sources, rules, instances, avar2).  The parser is a strict sequential
// line scan with explicit cursor state (current section, current axis);
// each input line either opens a section, contributes to the open section,
// or produces a warning.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/agext/levenshtein"
	"golang.org/x/text/unicode/norm"

	"seehuhn.de/go/dss"
	"seehuhn.de/go/dss/mappings"
)

// A Warning describes a non-fatal problem found while parsing.
type Warning struct {
	Line    int // 1-based
	Text    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s: %q", w.Line, w.Message, w.Text)
}

// A ParseError wraps an error with the 1-based line number and the
// original text of the offending line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type section int

const (
	secNone section = iota
	secAxes
	secAxesHidden
	secSources
	secInstances
	secRules
	secAvar2
	secAvar2Vars
	secAvar2Matrix
)

// sectionKeywords are the recognized section openers, longest prefix
// first: "axes hidden" must be tried before "axes", and "avar2 matrix"
// before "avar2".
var sectionKeywords = []string{
	"avar2 matrix",
	"avar2 vars",
	"avar2",
	"axes hidden",
	"axes",
	"sources",
	"masters",
	"instances",
	"rules",
	"family",
	"suffix",
	"path",
}

// Option configures a Parser.
type Option func(*Parser)

// WithStandards sets the standard name/value tables used to resolve
// labels.  The default is mappings.Builtin().
func WithStandards(std *mappings.Standards) Option {
	return func(p *Parser) { p.std = std }
}

// Strict makes content problems fatal instead of collecting them as
// warnings.
func Strict() Option {
	return func(p *Parser) { p.strict = true }
}

// Parser reads design space sketches.  A single Parser can be reused for
// several documents, but not concurrently.
type Parser struct {
	std    *mappings.Standards
	strict bool

	doc      *dss.Document
	warnings []Warning

	section     section
	currentAxis *dss.Axis
	hidden      bool
	sourceOrder []string // explicit axis order from the sources header
	ruleComment string   // candidate name for the next rule
	matrixOut   []string // output axis keys from the avar2 matrix header

	lineNo int
	line   string // original text of the current line
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{std: mappings.Builtin()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads a sketch with the default options.
func Parse(content string) (*dss.Document, []Warning, error) {
	return New().Parse(content)
}

// ParseFile reads a sketch from a file.
func (p *Parser) ParseFile(fname string) (*dss.Document, []Warning, error) {
	body, err := os.ReadFile(fname)
	if err != nil {
		return nil, nil, err
	}
	return p.Parse(string(body))
}

// Parse reads a sketch from its textual form.  Parse errors abort with
// the line number and text of the offending line; recoverable problems
// are returned as warnings.
func (p *Parser) Parse(content string) (*dss.Document, []Warning, error) {
	p.doc = &dss.Document{}
	p.warnings = nil
	p.section = secNone
	p.currentAxis = nil
	p.hidden = false
	p.sourceOrder = nil
	p.ruleComment = ""
	p.matrixOut = nil
	p.lineNo = 0

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(nil, 1024*1024)
	for scanner.Scan() {
		p.lineNo++
		p.line = scanner.Text()
		if err := p.parseLine(p.line); err != nil {
			var pErr *ParseError
			if !errors.As(err, &pErr) {
				err = &ParseError{Line: p.lineNo, Text: p.line, Err: err}
			}
			return nil, p.warnings, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, p.warnings, err
	}
	return p.doc, p.warnings, nil
}

func (p *Parser) warn(format string, args ...any) {
	p.warnings = append(p.warnings, Warning{
		Line:    p.lineNo,
		Text:    p.line,
		Message: fmt.Sprintf(format, args...),
	})
}

// errOrWarn escalates a content problem in strict mode and records it as
// a warning otherwise.
func (p *Parser) errOrWarn(format string, args ...any) error {
	if p.strict {
		return fmt.Errorf(format, args...)
	}
	p.warn(format, args...)
	return nil
}

func (p *Parser) parseLine(raw string) error {
	line := normalize(raw)
	indented := len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
	line, comment := splitComment(line)
	line = strings.TrimSpace(line)

	if line == "" {
		// A comment-only line inside the rules section is kept as a
		// candidate name for the rule that follows it.
		if comment != "" && p.section == secRules {
			p.ruleComment = strings.TrimSpace(comment)
		}
		return nil
	}

	if !indented {
		if handled, err := p.parseHeader(line); handled || err != nil {
			return err
		}
		if p.section == secNone {
			p.suggestKeyword(line)
			return nil
		}
		// Content lines are sometimes written without the indentation.
		// The open section gets first claim on the line; only a line it
		// cannot parse is reported as a keyword typo.
		err := p.parseContent(line)
		if err != nil && p.suggestKeyword(line) {
			return nil
		}
		return err
	}

	return p.parseContent(line)
}

func (p *Parser) parseContent(line string) error {
	switch p.section {
	case secAxes:
		return p.parseAxisLine(line)
	case secAxesHidden:
		return p.parseHiddenAxisLine(line)
	case secSources:
		return p.parseSourceLine(line)
	case secInstances:
		return p.parseInstanceLine(line)
	case secRules:
		return p.parseRuleLine(line)
	case secAvar2:
		return p.parseAvar2Line(line)
	case secAvar2Vars:
		return p.parseAvar2VarLine(line)
	case secAvar2Matrix:
		return p.parseAvar2MatrixLine(line)
	default:
		p.warn("unrecognized line outside any section")
		return nil
	}
}

// parseHeader recognizes section openers and the top-level one-line
// declarations.  It reports whether the line was consumed.
func (p *Parser) parseHeader(line string) (bool, error) {
	var keyword, rest string
	for _, kw := range sectionKeywords {
		if line == kw {
			keyword, rest = kw, ""
			break
		}
		if strings.HasPrefix(line, kw+" ") || strings.HasPrefix(line, kw+"\t") {
			keyword, rest = kw, strings.TrimSpace(line[len(kw):])
			break
		}
		// headers like "sources [wght, ital]" or "instances" glued to
		// a bracket
		if strings.HasPrefix(line, kw+"[") {
			keyword, rest = kw, line[len(kw):]
			break
		}
	}
	if keyword == "" {
		return false, nil
	}

	switch keyword {
	case "family":
		p.doc.Family = unquote(rest)
		p.section = secNone
	case "suffix":
		p.doc.Suffix = rest
		p.section = secNone
	case "path":
		p.doc.Path = rest
		p.section = secNone
	case "axes":
		p.section = secAxes
		p.hidden = false
		p.currentAxis = nil
	case "axes hidden":
		p.section = secAxesHidden
		p.hidden = true
		p.currentAxis = nil
	case "sources", "masters":
		p.section = secSources
		if rest != "" {
			order, err := p.parseAxisOrder(rest)
			if err != nil {
				return true, err
			}
			p.sourceOrder = order
		}
	case "instances":
		p.section = secInstances
		switch rest {
		case "auto":
			p.doc.InstancesAuto = true
		case "off":
			p.doc.InstancesOff = true
		case "":
		default:
			return true, fmt.Errorf("invalid instances mode %q", rest)
		}
	case "rules":
		p.section = secRules
		p.ruleComment = ""
	case "avar2":
		p.section = secAvar2
	case "avar2 vars":
		p.section = secAvar2Vars
		if p.doc.Avar2Vars == nil {
			p.doc.Avar2Vars = make(map[string]float64)
		}
	case "avar2 matrix":
		p.section = secAvar2Matrix
		p.matrixOut = nil
	}
	return true, nil
}

// parseAxisOrder reads the explicit axis order from a sources header like
// "sources [wght, ital]" and resolves each tag to a declared axis name.
func (p *Parser) parseAxisOrder(rest string) ([]string, error) {
	open := strings.Index(rest, "[")
	end := strings.Index(rest, "]")
	if open < 0 || end < open {
		return nil, fmt.Errorf("invalid axis order %q", rest)
	}
	var order []string
	for _, tag := range strings.Split(rest[open+1:end], ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if axis := p.doc.FindAxis(tag); axis != nil {
			order = append(order, axis.Name)
		} else {
			order = append(order, tag)
			p.warn("axis %q in source order is not declared", tag)
		}
	}
	return order, nil
}

// suggestKeyword checks the first token of an unindented line against the
// keyword set using edit distance.  It reports whether the line was
// consumed as a probable typo.
func (p *Parser) suggestKeyword(line string) bool {
	first := strings.ToLower(strings.Fields(line)[0])
	best := ""
	bestDist := 3
	for _, kw := range sectionKeywords {
		kw = strings.Fields(kw)[0]
		if d := levenshtein.Distance(first, kw, nil); d < bestDist {
			best, bestDist = kw, d
		}
	}
	if best != "" && bestDist <= 2 && bestDist > 0 {
		p.warn("unknown keyword %q, did you mean %q?", first, best)
		return true
	}
	if p.section == secNone {
		p.warn("unrecognized line")
		return true
	}
	return false
}

// normalize maps the line to NFC and collapses runs of spaces and tabs to
// single spaces, keeping the leading indentation.
func normalize(line string) string {
	line = norm.NFC.String(line)
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}
	indent := line[:len(line)-len(trimmed)]
	return indent + strings.Join(strings.Fields(trimmed), " ")
}

// splitComment strips a trailing "#..." comment, ignoring "#" characters
// inside double quotes.  When the whole line is a comment, the comment
// text is returned separately.
func splitComment(line string) (code, comment string) {
	inQuote := false
	for i, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == '#' && !inQuote:
			return line[:i], strings.TrimPrefix(line[i:], "#")
		}
	}
	return line, ""
}

// unquote strips one level of surrounding double quotes.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// cutQuoted extracts a leading name which may be enclosed in double
// quotes (allowing embedded spaces).  It returns the name and the
// remainder of the line.
func cutQuoted(s string) (name, rest string) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "\"") {
		if end := strings.Index(s[1:], "\""); end >= 0 {
			return s[1 : end+1], strings.TrimSpace(s[end+2:])
		}
	}
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i:])
	}
	return s, ""
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
