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

package pattern

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/dss"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		pattern, name string
		want          bool
	}{
		{"dollar*", "dollar", true},
		{"dollar*", "dollarald", true},
		{"dollar*", "cent", false},
		{"*Heavy", "AHeavy", true},
		{"*Heavy", "Heavy", true},
		{"*Heavy", "HeavyA", false},
		{"a.*alt", "a.ss01alt", true},
		{"a.*alt", "a.alt", true},
		{"a.*alt", "b.ss01alt", false},
		{"dollar", "dollar", true},
		{"dollar", "dollarald", false},
		{"ab*ab", "ab", false}, // prefix and suffix must not overlap
	}
	for _, c := range cases {
		if got := Match(c.pattern, c.name); got != c.want {
			t.Errorf("Match(%q, %q) = %v; want %v", c.pattern, c.name, got, c.want)
		}
	}
}

func TestExpand(t *testing.T) {
	glyphs := map[string]bool{
		"dollar":    true,
		"dollarald": true,
		"cent":      true,
		"yen":       true,
	}

	got := Expand([]string{"dollar*", "cent*"}, ".rvrn", glyphs)
	want := []dss.Substitution{
		{From: "cent", To: "cent.rvrn"},
		{From: "dollar", To: "dollar.rvrn"},
		{From: "dollarald", To: "dollarald.rvrn"},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("Expand mismatch (-want +got):\n%s", d)
	}
}

func TestExpandSkipsSuffixed(t *testing.T) {
	glyphs := map[string]bool{
		"dollar":      true,
		"dollar.rvrn": true,
	}
	got := Expand([]string{"dollar*"}, ".rvrn", glyphs)
	want := []dss.Substitution{
		{From: "dollar", To: "dollar.rvrn"},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("Expand mismatch (-want +got):\n%s", d)
	}
}

func TestExpandLiteralTarget(t *testing.T) {
	glyphs := map[string]bool{"one.tf": true, "two.tf": true}
	got := Expand([]string{"*.tf"}, "space", glyphs)
	want := []dss.Substitution{
		{From: "one.tf", To: "space"},
		{From: "two.tf", To: "space"},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("Expand mismatch (-want +got):\n%s", d)
	}
}

func TestCompactRoundTrip(t *testing.T) {
	glyphs := map[string]bool{
		"dollar":    true,
		"dollarald": true,
		"cent":      true,
	}
	subs := []dss.Substitution{
		{From: "dollar", To: "dollar.rvrn"},
		{From: "dollarald", To: "dollarald.rvrn"},
		{From: "cent", To: "cent.rvrn"},
	}

	fromPat, toPat, ok := Compact(subs, glyphs)
	if !ok {
		t.Fatal("Compact failed")
	}
	if toPat != ".rvrn" {
		t.Errorf("toPattern = %q; want .rvrn", toPat)
	}

	// The compact form must expand back to the original substitutions.
	got := Expand(strings.Fields(fromPat), toPat, glyphs)
	want := []dss.Substitution{
		{From: "cent", To: "cent.rvrn"},
		{From: "dollar", To: "dollar.rvrn"},
		{From: "dollarald", To: "dollarald.rvrn"},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("re-expansion mismatch (-want +got):\n%s", d)
	}
}

func TestCompactOvermatch(t *testing.T) {
	// "dollar*" would also catch dollarx, so Compact must fall back to
	// the explicit glyph list.
	glyphs := map[string]bool{
		"dollar":    true,
		"dollarald": true,
		"dollarx":   true,
	}
	subs := []dss.Substitution{
		{From: "dollar", To: "dollar.rvrn"},
		{From: "dollarald", To: "dollarald.rvrn"},
	}

	fromPat, toPat, ok := Compact(subs, glyphs)
	if !ok {
		t.Fatal("Compact failed")
	}
	if strings.Contains(fromPat, "*") {
		t.Errorf("fromPattern = %q; want explicit list", fromPat)
	}
	got := Expand(strings.Fields(fromPat), toPat, glyphs)
	want := []dss.Substitution{
		{From: "dollar", To: "dollar.rvrn"},
		{From: "dollarald", To: "dollarald.rvrn"},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("re-expansion mismatch (-want +got):\n%s", d)
	}
}

func TestCompactRejects(t *testing.T) {
	// single substitution
	if _, _, ok := Compact([]dss.Substitution{{From: "a", To: "a.alt"}}, nil); ok {
		t.Error("Compact accepted a single substitution")
	}
	// mixed suffixes
	subs := []dss.Substitution{
		{From: "a", To: "a.alt"},
		{From: "b", To: "b.rvrn"},
	}
	if _, _, ok := Compact(subs, nil); ok {
		t.Error("Compact accepted mixed suffixes")
	}
	// not a suffix transformation at all
	subs = []dss.Substitution{
		{From: "a", To: "b"},
		{From: "c", To: "d"},
	}
	if _, _, ok := Compact(subs, nil); ok {
		t.Error("Compact accepted non-suffix substitutions")
	}
}
