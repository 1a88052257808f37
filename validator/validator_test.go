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

package validator

import (
	"errors"
	"strings"
	"testing"

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

func source(name string, base bool, coords map[string]float64) *dss.Source {
	return &dss.Source{Name: name, IsBase: base, Location: coords}
}

// validDoc is a document that passes validation cleanly.
func validDoc() *dss.Document {
	return &dss.Document{
		Family: "Test",
		Axes:   []*dss.Axis{weightAxis()},
		Sources: []*dss.Source{
			source("Test-Thin", false, map[string]float64{"weight": 100}),
			source("Test-Regular", true, map[string]float64{"weight": 400}),
			source("Test-Black", false, map[string]float64{"weight": 900}),
		},
	}
}

func hasProblem(problems []Problem, substr string) bool {
	for _, p := range problems {
		if strings.Contains(p.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateClean(t *testing.T) {
	problems, err := Validate(validDoc())
	if err != nil {
		t.Fatal(err)
	}
	if len(problems) != 0 {
		t.Errorf("problems: %v", problems)
	}
}

func TestValidateStructural(t *testing.T) {
	doc := &dss.Document{}
	_, err := Validate(doc)
	var structErr *StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("err = %v, want *StructureError", err)
	}
	joined := strings.Join(structErr.Problems, "\n")
	for _, want := range []string{"family", "no axes", "no sources"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing problem %q in:\n%s", want, joined)
		}
	}
}

func TestValidateEmptyRange(t *testing.T) {
	doc := validDoc()
	doc.Axes[0].Maximum = doc.Axes[0].Minimum
	_, err := Validate(doc)
	var structErr *StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("err = %v, want *StructureError", err)
	}
}

func TestBaseAutoDetect(t *testing.T) {
	doc := validDoc()
	doc.Sources[1].IsBase = false

	problems, err := Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !doc.Sources[1].IsBase {
		t.Error("base source was not auto-detected")
	}
	if !doc.Sources[1].CopyInfo || !doc.Sources[1].CopyFeatures {
		t.Error("auto-detected base is missing the copy flags")
	}
	if !hasProblem(problems, "auto-detected") {
		t.Errorf("no auto-detect warning in %v", problems)
	}
}

func TestBaseMissing(t *testing.T) {
	doc := validDoc()
	doc.Sources[1].IsBase = false
	doc.Sources[1].Location["weight"] = 500 // nothing at the default now

	_, err := Validate(doc)
	var structErr *StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("err = %v, want *StructureError", err)
	}
	if !strings.Contains(structErr.Error(), "no base source") {
		t.Errorf("unexpected error: %v", structErr)
	}
}

func TestBaseOffDefault(t *testing.T) {
	doc := validDoc()
	doc.Sources[0].IsBase = true // Thin claims to be the base
	doc.Sources[1].IsBase = false

	_, err := Validate(doc)
	var structErr *StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("err = %v, want *StructureError", err)
	}
	if !strings.Contains(structErr.Error(), "not at the default coordinates") {
		t.Errorf("unexpected error: %v", structErr)
	}
}

func TestMultipleBasesDiscrete(t *testing.T) {
	// two bases distinguished by the discrete italic axis are fine
	doc := &dss.Document{
		Family: "Test",
		Axes:   []*dss.Axis{weightAxis(), italicAxis()},
		Sources: []*dss.Source{
			source("Test-Thin", false, map[string]float64{"weight": 100, "italic": 0}),
			source("Test-Regular", true, map[string]float64{"weight": 400, "italic": 0}),
			source("Test-Italic", true, map[string]float64{"weight": 400, "italic": 1}),
			source("Test-Black", false, map[string]float64{"weight": 900, "italic": 0}),
			source("Test-ThinItalic", false, map[string]float64{"weight": 100, "italic": 1}),
			source("Test-BlackItalic", false, map[string]float64{"weight": 900, "italic": 1}),
		},
	}
	_, err := Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
}

func TestMultipleBasesContinuous(t *testing.T) {
	doc := validDoc()
	doc.Sources[0].IsBase = true // second base on a continuous-only document

	_, err := Validate(doc)
	var structErr *StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("err = %v, want *StructureError", err)
	}
	if !strings.Contains(structErr.Error(), "base sources") {
		t.Errorf("unexpected error: %v", structErr)
	}
}

func TestDuplicateLabelsAcrossAxes(t *testing.T) {
	wdth := &dss.Axis{
		Name: "width", Tag: "wdth", Minimum: 75, Default: 100, Maximum: 100,
		Mappings: []dss.AxisMapping{
			{UserValue: 75, DesignValue: 75, Label: "Condensed"},
			{UserValue: 100, DesignValue: 100, Label: "Regular", Elidable: true},
		},
	}
	doc := validDoc()
	doc.Axes = append(doc.Axes, wdth)

	_, err := Validate(doc)
	var structErr *StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("err = %v, want *StructureError", err)
	}
	joined := strings.Join(structErr.Problems, "\n")
	if !strings.Contains(joined, `"Regular"`) ||
		!strings.Contains(joined, `"weight"`) || !strings.Contains(joined, `"width"`) {
		t.Errorf("duplicate-label error should name the label and both axes:\n%s", joined)
	}
}

func TestSkipLabelUnknown(t *testing.T) {
	doc := validDoc()
	doc.InstancesSkip = []string{"Frobnicated Italic"}

	_, err := Validate(doc)
	var structErr *StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("err = %v, want *StructureError", err)
	}
}

func TestMappingOutOfRange(t *testing.T) {
	doc := validDoc()
	doc.Axes[0].Mappings = append(doc.Axes[0].Mappings,
		dss.AxisMapping{UserValue: 1000, DesignValue: 1000, Label: "ExtraBlack"})

	problems, err := Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !hasProblem(problems, "outside the range") {
		t.Errorf("no out-of-range problem in %v", problems)
	}

	// strict mode escalates
	v := &Validator{Strict: true}
	_, err = v.Validate(doc)
	var contentErr *ContentError
	if !errors.As(err, &contentErr) {
		t.Fatalf("strict err = %v, want *ContentError", err)
	}
}

func TestMissingElidable(t *testing.T) {
	doc := validDoc()
	for i := range doc.Axes[0].Mappings {
		doc.Axes[0].Mappings[i].Elidable = false
	}
	problems, err := Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !hasProblem(problems, "@elidable") {
		t.Errorf("no elidable warning in %v", problems)
	}
}

func TestUnmatchedSourceCoordinate(t *testing.T) {
	doc := validDoc()
	doc.Sources[0].Location["weight"] = 95

	problems, err := Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, p := range problems {
		if strings.Contains(p.Message, "no matching mapping") &&
			strings.Contains(p.Message, `"Thin"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("no unmatched-coordinate problem naming the nearest mapping in %v", problems)
	}
}

func TestMissingExtremes(t *testing.T) {
	doc := validDoc()
	doc.Sources = doc.Sources[1:2] // only the Regular source remains

	problems, err := Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, p := range problems {
		if strings.Contains(p.Message, "extremes") {
			count++
		}
	}
	if count != 2 {
		t.Errorf("got %d extremes problems, want 2: %v", count, problems)
	}
}

func TestLabelTypoSuggestion(t *testing.T) {
	doc := validDoc()
	doc.Axes[0].Mappings[2].Label = "Blck"

	problems, err := Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !hasProblem(problems, `did you mean "Black"`) {
		t.Errorf("no typo suggestion in %v", problems)
	}
}

func TestCrossAxisLabel(t *testing.T) {
	// a width label on the weight axis is fine while no width axis
	// exists, flagged once one does
	doc := validDoc()
	doc.Axes[0].Mappings[0].Label = "Condensed"
	doc.Axes[0].Mappings[0].UserValue = 100
	doc.Sources[0].Location["weight"] = 100

	problems, err := Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if hasProblem(problems, "standard width label") {
		t.Errorf("unexpected cross-axis problem without a width axis: %v", problems)
	}

	wdth := &dss.Axis{
		Name: "width", Tag: "wdth", Minimum: 50, Default: 100, Maximum: 200,
	}
	doc.Axes = append(doc.Axes, wdth)
	for _, src := range doc.Sources {
		src.Location["width"] = 100
	}
	problems, err = Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !hasProblem(problems, "standard width label") {
		t.Errorf("no cross-axis problem with a width axis declared: %v", problems)
	}
}

func TestTagTypo(t *testing.T) {
	doc := validDoc()
	doc.Axes[0].Tag = "wgt"

	problems, err := Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !hasProblem(problems, `registered tag "wght"`) {
		t.Errorf("no tag typo warning in %v", problems)
	}
}
