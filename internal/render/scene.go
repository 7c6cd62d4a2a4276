/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package render

import (
	"fmt"
	"math"
	"strconv"

	"vectorviz/internal/domain"
	"vectorviz/internal/numfmt"
	"vectorviz/internal/vector"
)

// Theme colors the non-data parts of the plane.
type Theme struct {
	Name       string
	Background vector.Color
	Grid       vector.Color
	Axis       vector.Color
	Text       vector.Color
}

var (
	DarkTheme = Theme{
		Name:       "dark",
		Background: vector.Color{R: 26, G: 32, B: 44, A: 255},
		Grid:       vector.ColorGrid,
		Axis:       vector.ColorAxis,
		Text:       vector.ColorText,
	}
	LightTheme = Theme{
		Name:       "light",
		Background: vector.White,
		Grid:       vector.Color{R: 226, G: 232, B: 240, A: 255},
		Axis:       vector.Color{R: 74, G: 85, B: 104, A: 255},
		Text:       vector.Color{R: 26, G: 32, B: 44, A: 255},
	}
)

// ThemeByName returns LightTheme for "light" and DarkTheme otherwise.
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme
	}
	return DarkTheme
}

func vectorStroke(c vector.Color) vector.Stroke {
	return vector.Stroke{Color: c, Width: 3, Cap: vector.CapRound}
}

var (
	minorArcStroke = vector.Stroke{Color: vector.ColorResult, Width: 3}
	majorArcStroke = vector.Stroke{Color: vector.ColorSecond, Width: 2, Dash: []float64{6, 4}, Opacity: 0.5}
	guideStroke    = vector.Stroke{Color: vector.ColorOther, Width: 2, Dash: []float64{6, 4}}
)

// arrowItem is one vector arrow; the four primitive ids derive from id.
type arrowItem struct {
	id     string
	shape  vector.ArrowShape
	stroke vector.Stroke
	label  string
}

type segItem struct {
	id     string
	a, b   vector.Vec2
	stroke vector.Stroke
}

// arcItem is centered on the math origin.
type arcItem struct {
	id     string
	spec   vector.ArcSpec
	stroke vector.Stroke
}

// labelItem is anchored at a math point, or at a device point when fixed.
type labelItem struct {
	id    string
	owner string
	text  string
	at    vector.Vec2
	color vector.Color
	fixed bool
}

// overlay is the operation specific geometry.
type overlay struct {
	arrows []arrowItem
	segs   []segItem
	arcs   []arcItem
	labels []labelItem
}

// scene is everything derived from one result, kept in math space so that
// pan and zoom only re-project it.
type scene struct {
	seq     uint64
	res     domain.Result
	inputs  []arrowItem
	overlay overlay
}

// fitPoints is the set autofit keeps visible: the origin, the input tips and
// the resultant for sums.
func (s *scene) fitPoints() []vector.Vec2 {
	pts := []vector.Vec2{{}}
	pts = append(pts, s.res.Inputs...)
	if s.res.Operation == domain.OpSum && s.res.Resultant != nil {
		pts = append(pts, *s.res.Resultant)
	}
	return pts
}

func inputID(i int) string { return "vector" + strconv.Itoa(i+1) }

func vectorLabel(name string, v vector.Vec2) string {
	return name + " " + numfmt.Pair(v.X, v.Y)
}

func buildInputs(res domain.Result, opts Options) []arrowItem {
	out := make([]arrowItem, len(res.Inputs))
	for i, v := range res.Inputs {
		out[i] = arrowItem{
			id:     inputID(i),
			shape:  vector.ComputeArrow(v, opts.Arrow),
			stroke: vectorStroke(vector.InputColor(i)),
			label:  vectorLabel(domain.VectorName(i), v),
		}
	}
	return out
}

// buildOverlay returns the overlay for res and a note for every quantity
// that could not be drawn because a vector has zero length.
func buildOverlay(res domain.Result, opts Options) (overlay, []string) {
	switch res.Operation {
	case domain.OpSum:
		return sumOverlay(res, opts)
	case domain.OpDot:
		return dotOverlay(res, opts)
	case domain.OpMagnitude:
		return magnitudeOverlay(res), nil
	case domain.OpAngle:
		return angleOverlay(res, opts)
	}
	return overlay{}, nil
}

func sumOverlay(res domain.Result, opts Options) (overlay, []string) {
	var ov overlay
	var notes []string
	r := vector.Sum(res.Inputs...)
	if res.Resultant != nil {
		r = *res.Resultant
	}
	ov.arrows = append(ov.arrows, arrowItem{
		id:     "result",
		shape:  vector.ComputeArrow(r, opts.Arrow),
		stroke: vectorStroke(vector.ColorResult),
		label:  vectorLabel("Resultant", r),
	})

	if arc, err := vector.DirectionArc(r, opts.DirectionFactor); err == nil {
		ov.arcs = append(ov.arcs, arcItem{id: "direction_arc", spec: arc, stroke: vector.Stroke{Color: vector.ColorResult, Width: 2}})
		dir := vector.Direction(r)
		ov.labels = append(ov.labels, labelItem{
			id:    "direction_label",
			owner: "result",
			text:  "Direction: " + numfmt.Degrees(dir*180/math.Pi),
			at:    vector.Polar(arc.Radius*0.7, dir/2),
			color: vector.ColorResult,
		})
	} else {
		notes = append(notes, "direction undefined: zero resultant")
	}

	vs := res.Inputs
	switch {
	case len(vs) == 2:
		tip := vs[0].Add(vs[1])
		ov.segs = append(ov.segs,
			segItem{id: "parallelogram_a", a: vs[0], b: tip, stroke: guideStroke},
			segItem{id: "parallelogram_b", a: vs[1], b: tip, stroke: guideStroke},
		)
	case len(vs) > 2:
		// head-to-tail: vector i starts where the partial sum of 0..i-1 ends
		acc := vs[0]
		for i := 1; i < len(vs); i++ {
			next := acc.Add(vs[i])
			ov.segs = append(ov.segs, segItem{id: fmt.Sprintf("chain_%d", i), a: acc, b: next, stroke: guideStroke})
			acc = next
		}
	}
	return ov, notes
}

func arcPairItems(prefix string, pair vector.AnglePair) ([]arcItem, []labelItem) {
	arcs := []arcItem{
		{id: prefix + "minor", spec: pair.Minor, stroke: minorArcStroke},
		{id: prefix + "major", spec: pair.Major, stroke: majorArcStroke},
	}
	labels := []labelItem{
		{id: prefix + "minor_label", owner: prefix + "minor", text: numfmt.Degrees(pair.MinorDegrees()), at: pair.MinorLabel, color: vector.ColorResult},
		{id: prefix + "major_label", owner: prefix + "major", text: numfmt.Degrees(pair.MajorDegrees()), at: pair.MajorLabel, color: vector.ColorSecond},
	}
	return arcs, labels
}

func dotOverlay(res domain.Result, opts Options) (overlay, []string) {
	var ov overlay
	if len(res.Inputs) < 2 {
		return ov, nil
	}
	a, b := res.Inputs[0], res.Inputs[1]
	dot := a.Dot(b)
	if res.Dot != nil {
		dot = *res.Dot
	}
	ma, mb := vector.Magnitude(a), vector.Magnitude(b)
	pair, err := vector.ComputeAngleArcs(a, b, opts.Arc)
	var formula string
	var notes []string
	if err != nil {
		notes = append(notes, "angle A-B undefined: zero-length vector")
		formula = fmt.Sprintf("A·B = |A||B| cos(θ) = %s (angle undefined)", numfmt.Fixed2(dot))
	} else {
		arcs, labels := arcPairItems("dot_", pair)
		ov.arcs = append(ov.arcs, arcs...)
		ov.labels = append(ov.labels, labels...)
		formula = fmt.Sprintf("A·B = |A||B| cos(θ) = %s × %s × cos(%s) = %s",
			numfmt.Fixed2(ma), numfmt.Fixed2(mb), numfmt.Degrees(pair.MinorDegrees()), numfmt.Fixed2(dot))
	}
	ov.labels = append(ov.labels, labelItem{
		id:    "dot_formula",
		owner: "dot",
		text:  formula,
		at:    vector.V(formulaInset, formulaInset),
		color: vector.ColorResult,
		fixed: true,
	})
	return ov, notes
}

func magnitudeOverlay(res domain.Result) overlay {
	var ov overlay
	for i, v := range res.Inputs {
		m := vector.Magnitude(v)
		if i < len(res.Magnitudes) {
			m = res.Magnitudes[i]
		}
		ov.labels = append(ov.labels, labelItem{
			id:    fmt.Sprintf("magnitude%d_label", i+1),
			owner: inputID(i),
			text:  fmt.Sprintf("|%s| = %s", domain.VectorName(i), numfmt.Fixed2(m)),
			at:    v,
			color: vector.InputColor(i),
		})
	}
	return ov
}

func angleOverlay(res domain.Result, opts Options) (overlay, []string) {
	var ov overlay
	var notes []string
	vs := res.Inputs
	for i := 0; i < len(vs); i++ {
		for j := i + 1; j < len(vs); j++ {
			pair, err := vector.ComputeAngleArcs(vs[i], vs[j], opts.Arc)
			if err != nil {
				notes = append(notes, fmt.Sprintf("angle %s-%s undefined: zero-length vector", domain.VectorName(i), domain.VectorName(j)))
				continue
			}
			arcs, labels := arcPairItems(fmt.Sprintf("angle_%d_%d_", i+1, j+1), pair)
			ov.arcs = append(ov.arcs, arcs...)
			ov.labels = append(ov.labels, labels...)
		}
	}
	return ov, notes
}
