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

package dss

// Axis is one dimension of the design space.
//
// The values Minimum, Default and Maximum are in user space.  Mappings
// relate user-space values to design-space coordinates; where no mapping
// matches, the two spaces coincide.
type Axis struct {
	Name        string
	Tag         string // four-character OpenType axis tag
	Minimum     float64
	Default     float64
	Maximum     float64
	DisplayName string
	Mappings    []AxisMapping
}

// AxisMapping is one point of an axis's user-to-design mapping, together
// with its style name.  Label may be empty for purely numeric mapping
// points which do not participate in instance naming.
type AxisMapping struct {
	UserValue   float64
	DesignValue float64
	Label       string
	Elidable    bool
}

// IsDiscrete reports whether the axis is a discrete (binary) axis: the
// range is 0:0:1 and every mapping is the identity.
func (a *Axis) IsDiscrete() bool {
	if a.Minimum != 0 || a.Default != 0 || a.Maximum != 1 {
		return false
	}
	for _, m := range a.Mappings {
		if m.UserValue != m.DesignValue {
			return false
		}
	}
	return true
}

// DesignValue converts a user-space value to its design-space coordinate
// using the axis's forward mapping.  Values without a mapping point pass
// through unchanged.
func (a *Axis) DesignValue(user float64) float64 {
	for _, m := range a.Mappings {
		if m.UserValue == user {
			return m.DesignValue
		}
	}
	return user
}

// UserValue is the reverse of DesignValue.  The second return value
// reports whether a mapping point was found.
func (a *Axis) UserValue(design float64) (float64, bool) {
	for _, m := range a.Mappings {
		if m.DesignValue == design {
			return m.UserValue, true
		}
	}
	return design, false
}

// DefaultDesignValue returns the design-space coordinate of the axis
// default.  For discrete axes this is the coordinate of the elidable
// mapping, if any.
func (a *Axis) DefaultDesignValue() float64 {
	if a.IsDiscrete() {
		for _, m := range a.Mappings {
			if m.Elidable {
				return m.DesignValue
			}
		}
		if len(a.Mappings) > 0 {
			return a.Mappings[0].DesignValue
		}
		return a.Default
	}
	return a.DesignValue(a.Default)
}

// DesignExtrema returns the extreme design-space coordinates of the axis:
// the smallest and largest mapping design values, or the user-space range
// when the axis has no mappings.
func (a *Axis) DesignExtrema() (min, max float64) {
	if len(a.Mappings) == 0 {
		return a.Minimum, a.Maximum
	}
	min = a.Mappings[0].DesignValue
	max = a.Mappings[0].DesignValue
	for _, m := range a.Mappings[1:] {
		if m.DesignValue < min {
			min = m.DesignValue
		}
		if m.DesignValue > max {
			max = m.DesignValue
		}
	}
	return min, max
}

// LabelFor returns the label attached to the given design-space
// coordinate, if any.
func (a *Axis) LabelFor(design float64) (string, bool) {
	for _, m := range a.Mappings {
		if m.DesignValue == design && m.Label != "" {
			return m.Label, true
		}
	}
	return "", false
}
