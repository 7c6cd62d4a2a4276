/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// ArrowOptions controls arrowhead sizing in math units.
// MinHeadLength keeps heads legible on short vectors; HeadRatio makes them
// grow with magnitude on long ones. Vectors shorter than Epsilon get no head.
type ArrowOptions struct {
	MinHeadLength float64
	HeadRatio     float64
	Epsilon       float64
}

// DefaultArrowOptions mirrors the proportions of the plane renderer.
func DefaultArrowOptions() ArrowOptions {
	return ArrowOptions{MinHeadLength: 0.3, HeadRatio: 0.15, Epsilon: 1e-4}
}

// headSpread is the wing angle off the reversed direction (30°).
const headSpread = math.Pi / 6

// ArrowShape is the derived geometry of one drawn vector, anchored at the origin.
type ArrowShape struct {
	Tail      Vec2
	BodyEnd   Vec2
	HeadWing1 Vec2
	HeadWing2 Vec2
	HasHead   bool
}

// ComputeArrow derives the body and head wings for v drawn from the origin.
func ComputeArrow(v Vec2, opts ArrowOptions) ArrowShape {
	return ComputeArrowFrom(Vec2{}, v, opts)
}

// ComputeArrowFrom derives the arrow for v drawn starting at tail.
func ComputeArrowFrom(tail, v Vec2, opts ArrowOptions) ArrowShape {
	if opts.Epsilon <= 0 {
		opts = DefaultArrowOptions()
	}
	tip := tail.Add(v)
	s := ArrowShape{Tail: tail, BodyEnd: tip}
	m := Magnitude(v)
	if m < opts.Epsilon {
		return s
	}
	head := math.Max(opts.MinHeadLength, m*opts.HeadRatio)
	dir := Direction(v)
	s.HeadWing1 = tip.Add(Polar(head, dir+math.Pi-headSpread))
	s.HeadWing2 = tip.Add(Polar(head, dir+math.Pi+headSpread))
	s.HasHead = true
	return s
}

// HeadLength returns the length of the wings, or 0 when there is no head.
func (s ArrowShape) HeadLength() float64 {
	if !s.HasHead {
		return 0
	}
	return Magnitude(s.HeadWing1.Sub(s.BodyEnd))
}

// Midpoint is the middle of the body, where the vector label is anchored.
func (s ArrowShape) Midpoint() Vec2 { return s.Tail.Lerp(s.BodyEnd, 0.5) }
