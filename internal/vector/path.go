/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// Polyline paths used by surfaces that cannot draw arcs or dashes natively.

type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	Close
)

type PathCmd struct {
	Op PathOp
	P  Vec2
}

type Path struct{ Cmds []PathCmd }

func (p *Path) MoveTo(x, y float64) { p.Cmds = append(p.Cmds, PathCmd{Op: MoveTo, P: Vec2{x, y}}) }
func (p *Path) LineTo(x, y float64) { p.Cmds = append(p.Cmds, PathCmd{Op: LineTo, P: Vec2{x, y}}) }
func (p *Path) Close()              { p.Cmds = append(p.Cmds, PathCmd{Op: Close}) }

// Bounds returns the axis-aligned bounding box of all path points.
func (p *Path) Bounds() Rect {
	pts := make([]Vec2, 0, len(p.Cmds))
	for _, c := range p.Cmds {
		if c.Op != Close {
			pts = append(pts, c.P)
		}
	}
	return BoundsOf(pts)
}

// Segments returns the path as consecutive line segments.
func (p *Path) Segments() [][2]Vec2 {
	var out [][2]Vec2
	var cur, start Vec2
	for _, c := range p.Cmds {
		switch c.Op {
		case MoveTo:
			cur, start = c.P, c.P
		case LineTo:
			out = append(out, [2]Vec2{cur, c.P})
			cur = c.P
		case Close:
			if cur != start {
				out = append(out, [2]Vec2{cur, start})
			}
			cur = start
		}
	}
	return out
}

// DeviceArc flattens a circular arc into a polyline in device space.
// Angles follow the math convention (counter-clockwise, y up); the device y axis
// points down, so sin is negated. maxStep bounds the device length of one segment.
func DeviceArc(center Vec2, radius, start, end, maxStep float64) Path {
	var p Path
	if maxStep <= 0 {
		maxStep = 4
	}
	sweep := end - start
	n := int(math.Ceil(math.Abs(sweep) * radius / maxStep))
	if n < 2 {
		n = 2
	}
	if n > 720 {
		n = 720
	}
	for i := 0; i <= n; i++ {
		a := start + sweep*float64(i)/float64(n)
		x := center.X + radius*math.Cos(a)
		y := center.Y - radius*math.Sin(a)
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	return p
}

// DashSegments splits segment a→b into the "on" pieces of the dash pattern.
// An empty pattern returns the whole segment.
func DashSegments(a, b Vec2, pattern []float64) [][2]Vec2 {
	total := Magnitude(b.Sub(a))
	if len(pattern) == 0 || total == 0 {
		return [][2]Vec2{{a, b}}
	}
	var sum float64
	for _, d := range pattern {
		sum += math.Max(d, 0)
	}
	if sum == 0 {
		return [][2]Vec2{{a, b}}
	}
	var out [][2]Vec2
	pos, i := 0.0, 0
	for pos < total {
		l := math.Max(pattern[i%len(pattern)], 0)
		next := math.Min(pos+l, total)
		if i%2 == 0 && next > pos {
			out = append(out, [2]Vec2{a.Lerp(b, pos/total), a.Lerp(b, next/total)})
		}
		pos = next
		i++
	}
	return out
}
