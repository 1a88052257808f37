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

// Package pattern implements wildcard matching over glyph names, used to
// expand rule patterns against a glyph set and to re-compact concrete
// substitution lists when writing rules back out.
package pattern

import (
	"strings"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/dss"
)

// Match reports whether a glyph name matches a wildcard pattern.  Three
// forms are supported: "dollar*" (prefix), "*Heavy" (suffix) and "a.*alt"
// (prefix and suffix).  A pattern without "*" matches only itself.
func Match(pat, name string) bool {
	i := strings.Index(pat, "*")
	if i < 0 {
		return name == pat
	}
	prefix, suffix := pat[:i], pat[i+1:]
	return len(name) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(name, prefix) &&
		strings.HasSuffix(name, suffix)
}

// MatchAny returns the glyphs from the set which match at least one of the
// given patterns, in sorted order.
func MatchAny(patterns []string, glyphs map[string]bool) []string {
	var matched []string
	for name := range glyphs {
		for _, pat := range patterns {
			if Match(pat, name) {
				matched = append(matched, name)
				break
			}
		}
	}
	slices.Sort(matched)
	return matched
}

// Expand resolves a wildcard rule body against a glyph set.  When
// toPattern starts with "." it is appended as a suffix, and glyphs which
// already carry the suffix are skipped; otherwise toPattern is used as the
// literal target for every match.
func Expand(patterns []string, toPattern string, glyphs map[string]bool) []dss.Substitution {
	var subs []dss.Substitution
	for _, name := range MatchAny(patterns, glyphs) {
		var target string
		if strings.HasPrefix(toPattern, ".") {
			if strings.HasSuffix(name, toPattern) {
				continue
			}
			target = name + toPattern
		} else {
			target = toPattern
		}
		subs = append(subs, dss.Substitution{From: name, To: target})
	}
	return subs
}

// ExpandRule resolves a wildcard rule against a glyph set.  Rules which
// already carry concrete substitutions are returned unchanged.
func ExpandRule(r *dss.Rule, glyphs map[string]bool) []dss.Substitution {
	if !r.IsWildcard() {
		return r.Substitutions
	}
	return Expand(strings.Fields(r.Pattern), r.ToPattern, glyphs)
}

// Compact tries to fold a list of concrete substitutions back into
// wildcard form.  It succeeds when all substitutions append the same
// "."-suffix; the from-glyphs are then grouped under shared prefixes of at
// least three characters, with ungrouped glyphs listed explicitly.
//
// When a glyph set is given, wildcard candidates are re-expanded against
// it, and Compact falls back to the explicit glyph list unless the
// expansion reproduces exactly the original from-glyphs.
func Compact(subs []dss.Substitution, glyphs map[string]bool) (fromPattern, toPattern string, ok bool) {
	if len(subs) < 2 {
		return "", "", false
	}

	var suffix string
	for _, sub := range subs {
		if !strings.HasPrefix(sub.To, sub.From+".") {
			return "", "", false
		}
		s := sub.To[len(sub.From):]
		if suffix == "" {
			suffix = s
		} else if suffix != s {
			return "", "", false
		}
	}

	from := make([]string, len(subs))
	for i, sub := range subs {
		from[i] = sub.From
	}

	patterns := groupByPrefix(from)

	hasWildcard := false
	for _, pat := range patterns {
		if strings.Contains(pat, "*") {
			hasWildcard = true
			break
		}
	}
	if hasWildcard && glyphs != nil {
		want := slices.Clone(from)
		slices.Sort(want)
		if !slices.Equal(MatchAny(patterns, glyphs), want) {
			// the wildcards would catch extra glyphs
			patterns = from
		}
	}

	return strings.Join(patterns, " "), suffix, true
}

// groupByPrefix replaces runs of glyphs sharing a prefix of at least three
// characters with a single "prefix*" pattern.  Glyphs covered by no group
// are kept verbatim, in their original order.
func groupByPrefix(from []string) []string {
	type group struct {
		prefix  string
		members []string
	}
	var groups []group
	for _, name := range from {
		for l := 3; l <= len(name); l++ {
			prefix := name[:l]
			var members []string
			for _, other := range from {
				if strings.HasPrefix(other, prefix) {
					members = append(members, other)
				}
			}
			if len(members) < 2 {
				break
			}
			i := slices.IndexFunc(groups, func(g group) bool {
				return g.prefix == prefix
			})
			if i < 0 {
				groups = append(groups, group{prefix, members})
			}
		}
	}

	// prefer larger groups, then longer (tighter) prefixes
	slices.SortStableFunc(groups, func(a, b group) int {
		if d := len(b.members) - len(a.members); d != 0 {
			return d
		}
		return len(b.prefix) - len(a.prefix)
	})

	used := make(map[string]bool)
	var patterns []string
	for _, g := range groups {
		free := true
		for _, name := range g.members {
			if used[name] {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		patterns = append(patterns, g.prefix+"*")
		for _, name := range g.members {
			used[name] = true
		}
	}
	for _, name := range from {
		if !used[name] {
			patterns = append(patterns, name)
		}
	}
	return patterns
}
