/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package autofit frames a set of math points on the canvas and animates the
// view towards that frame.
package autofit

import (
	"math"

	"vectorviz/internal/vector"
	"vectorviz/internal/view"
)

// Options for Compute. Margin is a fraction of the larger data extent added
// on every side.
type Options struct {
	Margin   float64
	MinScale float64
	MaxScale float64
}

func DefaultOptions() Options { return Options{Margin: 0.2} }

// Fit is the outcome of Compute.
type Fit struct {
	Target view.Transform
	// Bounds is the data bounding box, Expanded includes the margin.
	Bounds   view.Viewport
	Expanded view.Viewport
	// MarginPx is the guaranteed device distance from any point to the canvas edge.
	MarginPx float64
	Clamped  bool
}

// Points collects what must stay visible: the origin, every input tip and,
// when present, the resultant tip.
func Points(inputs []vector.Vec2, resultant *vector.Vec2) []vector.Vec2 {
	pts := make([]vector.Vec2, 0, len(inputs)+2)
	pts = append(pts, vector.Vec2{})
	pts = append(pts, inputs...)
	if resultant != nil {
		pts = append(pts, *resultant)
	}
	return pts
}

// Compute returns the transform under which the expanded bounding box of pts
// fills a w×h canvas with uniform scale, centered on the free axis.
func Compute(pts []vector.Vec2, w, h float64, opts Options) Fit {
	if opts.Margin < 0 {
		opts.Margin = 0
	}
	if len(pts) == 0 {
		pts = []vector.Vec2{{}}
	}
	b := vector.BoundsOf(pts)
	span := math.Max(b.W, b.H)
	if span == 0 {
		// a single point: frame one unit around it
		span = 1
	}
	m := span * opts.Margin
	ew, eh := b.W+2*m, b.H+2*m
	// with no margin a flat axis would force an infinite scale
	if ew <= 0 {
		ew = span
	}
	if eh <= 0 {
		eh = span
	}
	c := b.Center()
	expanded := view.Viewport{Left: c.X - ew/2, Right: c.X + ew/2, Bottom: c.Y - eh/2, Top: c.Y + eh/2}

	s := math.Min(w/ew, h/eh)
	fit := Fit{
		Bounds:   view.Viewport{Left: b.X, Right: b.X + b.W, Bottom: b.Y, Top: b.Y + b.H},
		Expanded: expanded,
	}
	if opts.MinScale > 0 && s < opts.MinScale {
		s, fit.Clamped = opts.MinScale, true
	}
	if opts.MaxScale > 0 && s > opts.MaxScale {
		s, fit.Clamped = opts.MaxScale, true
	}
	fit.Target = view.Transform{TranslateX: w/2 - c.X*s, TranslateY: h/2 + c.Y*s, Scale: s}
	fit.MarginPx = math.Min((w-b.W*s)/2, (h-b.H*s)/2)
	return fit
}
