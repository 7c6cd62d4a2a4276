/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"errors"
	"math"
)

// ErrDegenerateAngle is returned when either vector has zero magnitude.
var ErrDegenerateAngle = errors.New("undefined angle: zero-magnitude vector")

const twoPi = 2 * math.Pi

// ArcSpec is a circular arc around the origin in math space.
// Angles are radians, counter-clockwise, with EndAngle >= StartAngle.
type ArcSpec struct {
	Radius     float64
	StartAngle float64
	EndAngle   float64
	IsMinor    bool
}

// Sweep returns the angular extent of the arc.
func (a ArcSpec) Sweep() float64 { return a.EndAngle - a.StartAngle }

// MidAngle returns the angular midpoint.
func (a ArcSpec) MidAngle() float64 { return (a.StartAngle + a.EndAngle) / 2 }

// ArcOptions sizes the arcs and their label positions.
type ArcOptions struct {
	RadiusFactor     float64
	MajorRadiusScale float64
	MinorLabelScale  float64
	MajorLabelScale  float64
}

func DefaultArcOptions() ArcOptions {
	return ArcOptions{RadiusFactor: 0.4, MajorRadiusScale: 0.85, MinorLabelScale: 1.2, MajorLabelScale: 0.75}
}

// AnglePair holds the minor/major sectors between two vectors.
type AnglePair struct {
	Minor      ArcSpec
	Major      ArcSpec
	MinorAngle float64
	MajorAngle float64
	MinorLabel Vec2
	MajorLabel Vec2
}

// MinorDegrees is the unordered angle between the vectors in degrees.
func (p AnglePair) MinorDegrees() float64 { return p.MinorAngle * 180 / math.Pi }

// MajorDegrees is the complement of MinorDegrees.
func (p AnglePair) MajorDegrees() float64 { return p.MajorAngle * 180 / math.Pi }

// normalizeAngle maps a into [0, 2π).
func normalizeAngle(a float64) float64 {
	for a < 0 {
		a += twoPi
	}
	for a >= twoPi {
		a -= twoPi
	}
	return a
}

// ComputeAngleArcs returns the minor and major arcs between v1 and v2.
// The minor arc sweeps the shorter way between the two rays; the major arc
// is its complement drawn at a smaller radius.
func ComputeAngleArcs(v1, v2 Vec2, opts ArcOptions) (AnglePair, error) {
	m1, m2 := Magnitude(v1), Magnitude(v2)
	if m1 == 0 || m2 == 0 {
		return AnglePair{}, ErrDegenerateAngle
	}
	if opts.RadiusFactor <= 0 {
		opts = DefaultArcOptions()
	}
	t1, t2 := Direction(v1), Direction(v2)
	delta := normalizeAngle(t2 - t1)

	minor := delta
	start := t1
	if delta > math.Pi {
		minor = twoPi - delta
		start = t2
	}
	major := twoPi - minor

	r := math.Max(1, math.Min(m1, m2)*opts.RadiusFactor)
	p := AnglePair{
		Minor:      ArcSpec{Radius: r, StartAngle: start, EndAngle: start + minor, IsMinor: true},
		MinorAngle: minor,
		MajorAngle: major,
	}
	p.Major = ArcSpec{
		Radius:     r * opts.MajorRadiusScale,
		StartAngle: p.Minor.EndAngle,
		EndAngle:   p.Minor.StartAngle + twoPi,
	}
	p.MinorLabel = Polar(r*opts.MinorLabelScale, p.Minor.MidAngle())
	p.MajorLabel = Polar(p.Major.Radius*opts.MajorLabelScale, p.Major.MidAngle())
	return p, nil
}

// DirectionArc is the arc from the +x axis to v's direction, used to show the
// heading of a resultant. The radius is max(1, |v|*factor). A zero vector has no
// direction and yields ErrDegenerateAngle.
func DirectionArc(v Vec2, factor float64) (ArcSpec, error) {
	m := Magnitude(v)
	if m == 0 {
		return ArcSpec{}, ErrDegenerateAngle
	}
	if factor <= 0 {
		factor = 0.3
	}
	r := math.Max(1, m*factor)
	d := Direction(v)
	if d >= 0 {
		return ArcSpec{Radius: r, StartAngle: 0, EndAngle: d, IsMinor: true}, nil
	}
	return ArcSpec{Radius: r, StartAngle: d, EndAngle: 0, IsMinor: true}, nil
}
