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

package instances

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/dss"
)

func weightAxis() *dss.Axis {
	return &dss.Axis{
		Name: "weight", Tag: "wght", Minimum: 100, Default: 400, Maximum: 900,
		Mappings: []dss.AxisMapping{
			{UserValue: 100, DesignValue: 100, Label: "Thin"},
			{UserValue: 400, DesignValue: 400, Label: "Regular", Elidable: true},
			{UserValue: 900, DesignValue: 900, Label: "Black"},
		},
	}
}

func italicAxis() *dss.Axis {
	return &dss.Axis{
		Name: "italic", Tag: "ital", Minimum: 0, Default: 0, Maximum: 1,
		Mappings: []dss.AxisMapping{
			{UserValue: 0, DesignValue: 0, Label: "Upright", Elidable: true},
			{UserValue: 1, DesignValue: 1, Label: "Italic"},
		},
	}
}

func styleNames(instances []*dss.Instance) []string {
	var names []string
	for _, inst := range instances {
		names = append(names, inst.StyleName)
	}
	return names
}

func TestGenerateSingleAxis(t *testing.T) {
	doc := &dss.Document{
		Family: "Test",
		Axes:   []*dss.Axis{weightAxis()},
	}
	got, warnings, err := Generate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings: %v", warnings)
	}

	// the weight label is never elided when it is the only axis
	want := []string{"Thin", "Regular", "Black"}
	if d := cmp.Diff(want, styleNames(got)); d != "" {
		t.Errorf("style names (-want +got):\n%s", d)
	}
}

func TestGenerateElision(t *testing.T) {
	wght := &dss.Axis{
		Name: "weight", Tag: "wght", Minimum: 400, Default: 400, Maximum: 700,
		Mappings: []dss.AxisMapping{
			{UserValue: 400, DesignValue: 400, Label: "Regular", Elidable: true},
			{UserValue: 700, DesignValue: 700, Label: "Bold"},
		},
	}
	doc := &dss.Document{
		Family: "Test",
		Axes:   []*dss.Axis{wght, italicAxis()},
	}
	got, _, err := Generate(doc)
	if err != nil {
		t.Fatal(err)
	}

	// both elidable labels stripped, "Regular Italic" rewritten to
	// "Italic", never an empty name
	want := []string{"Regular", "Italic", "Bold", "Bold Italic"}
	if d := cmp.Diff(want, styleNames(got)); d != "" {
		t.Errorf("style names (-want +got):\n%s", d)
	}
}

func TestGenerateLocations(t *testing.T) {
	wght := &dss.Axis{
		Name: "weight", Tag: "wght", Minimum: 100, Default: 400, Maximum: 900,
		Mappings: []dss.AxisMapping{
			{UserValue: 100, DesignValue: 80, Label: "Thin"},
			{UserValue: 400, DesignValue: 386, Label: "Regular", Elidable: true},
			{UserValue: 900, DesignValue: 900, Label: "Black"},
		},
	}
	doc := &dss.Document{Family: "Test", Axes: []*dss.Axis{wght}}
	got, _, err := Generate(doc)
	if err != nil {
		t.Fatal(err)
	}

	// user values map forward into design space
	want := []map[string]float64{
		{"weight": 80},
		{"weight": 386},
		{"weight": 900},
	}
	for i, inst := range got {
		if d := cmp.Diff(want[i], inst.Location); d != "" {
			t.Errorf("instance %d location (-want +got):\n%s", i, d)
		}
	}
}

func TestGenerateNames(t *testing.T) {
	doc := &dss.Document{
		Family: "My Font-Family",
		Axes:   []*dss.Axis{weightAxis()},
	}
	got, _, err := Generate(doc)
	if err != nil {
		t.Fatal(err)
	}
	inst := got[0]
	if inst.FamilyName != "My Font-Family" {
		t.Errorf("family = %q", inst.FamilyName)
	}
	if inst.Filename != "instances/MyFontFamily-Thin.ufo" {
		t.Errorf("filename = %q", inst.Filename)
	}
}

func TestGenerateSkip(t *testing.T) {
	doc := &dss.Document{
		Family:        "Test",
		Axes:          []*dss.Axis{weightAxis(), italicAxis()},
		InstancesSkip: []string{"Thin Italic"},
	}
	got, warnings, err := Generate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings: %v", warnings)
	}
	for _, name := range styleNames(got) {
		if name == "Thin Italic" {
			t.Error("skipped instance was generated")
		}
	}
	if len(got) != 5 {
		t.Errorf("got %d instances, want 5", len(got))
	}
}

func TestGenerateSkipUnknownLabel(t *testing.T) {
	doc := &dss.Document{
		Family:        "Test",
		Axes:          []*dss.Axis{weightAxis()},
		InstancesSkip: []string{"Frobnicated"},
	}
	_, _, err := Generate(doc)
	var skipErr *SkipError
	if !errors.As(err, &skipErr) {
		t.Fatalf("err = %v, want *SkipError", err)
	}
}

func TestGenerateSkipUnused(t *testing.T) {
	// "Regular Italic" is a valid combination of labels, but elision
	// renames it to "Italic", so the rule never fires.
	doc := &dss.Document{
		Family:        "Test",
		Axes:          []*dss.Axis{weightAxis(), italicAxis()},
		InstancesSkip: []string{"Regular Italic"},
	}
	_, warnings, err := Generate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one unused-rule warning", warnings)
	}
}

func TestGenerateFallbackPoints(t *testing.T) {
	opsz := &dss.Axis{Name: "optical", Tag: "opsz", Minimum: 8, Default: 14, Maximum: 144}
	doc := &dss.Document{
		Family: "Test",
		Axes:   []*dss.Axis{opsz},
		Avar2Mappings: []*dss.Avar2Mapping{
			{Input: map[string]float64{"opsz": 72}, Output: map[string]float64{"XOUC": 84}},
		},
	}
	got, _, err := Generate(doc)
	if err != nil {
		t.Fatal(err)
	}

	// min, default, max plus the parametric input point, tag+value names
	want := []string{"opsz8", "opsz14", "opsz72", "opsz144"}
	if d := cmp.Diff(want, styleNames(got)); d != "" {
		t.Errorf("style names (-want +got):\n%s", d)
	}
}

func TestCanonicalOrder(t *testing.T) {
	doc := &dss.Document{
		Family: "Test",
		// declared in non-canonical order
		Axes: []*dss.Axis{italicAxis(), weightAxis()},
	}

	declared, _, err := Generate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if declared[3].StyleName != "Italic Thin" {
		t.Errorf("declared order name = %q", declared[3].StyleName)
	}

	canonical, _, err := Generate(doc, CanonicalOrder())
	if err != nil {
		t.Fatal(err)
	}
	if canonical[1].StyleName != "Thin Italic" {
		t.Errorf("canonical order name = %q", canonical[1].StyleName)
	}
}
