/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package ui is the desktop front end. The fyne widgets live behind the
// "fyne" build tag; the geometry in this file is shared and tested headless.
package ui

import (
	"math"
	"time"

	"vectorviz/internal/render"
	"vectorviz/internal/vector"
)

// arcStepPx bounds the device length of one flattened arc segment.
const arcStepPx = 3

// scrollEndDelay ends a wheel gesture after this much quiet time.
const scrollEndDelay = 250 * time.Millisecond

// strokePieces returns the visible line segments of a line or arc primitive
// in device pixels, with the dash pattern already applied.
func strokePieces(p render.Primitive) [][2]vector.Vec2 {
	var segs [][2]vector.Vec2
	switch p.Kind {
	case render.KindLine:
		segs = [][2]vector.Vec2{{p.From, p.To}}
	case render.KindArc:
		path := vector.DeviceArc(p.Center, p.Radius, p.Start, p.End, arcStepPx)
		segs = path.Segments()
	default:
		return nil
	}
	if !p.Stroke.Dashed() {
		return segs
	}
	var out [][2]vector.Vec2
	for _, s := range segs {
		out = append(out, vector.DashSegments(s[0], s[1], p.Stroke.Dash)...)
	}
	return out
}

// wheelNotches converts a scroll delta to notches. Desktop drivers report
// roughly 10 units per wheel click; trackpads report small fractions.
func wheelNotches(dy float64) float64 {
	n := dy / 10
	if math.Abs(n) > 3 {
		n = math.Copysign(3, n)
	}
	return n
}
