/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package labels places text labels next to their anchors without overlapping
// labels placed earlier in the same pass.
package labels

import "vectorviz/internal/vector"

// Box is a placed label in device space. Anchor is the top-left corner.
type Box struct {
	Anchor  vector.Vec2
	Width   float64
	Height  float64
	Text    string
	OwnerID string
}

func (b Box) Rect() vector.Rect { return vector.R(b.Anchor.X, b.Anchor.Y, b.Width, b.Height) }

// Side names a candidate position relative to the anchor.
type Side uint8

const (
	Right Side = iota
	Below
	Left
	Above
)

func (s Side) String() string {
	switch s {
	case Right:
		return "right"
	case Below:
		return "below"
	case Left:
		return "left"
	case Above:
		return "above"
	}
	return "?"
}

// DefaultOrder is the candidate order tried for every label.
var DefaultOrder = []Side{Right, Below, Left, Above}

// Placer is a best-effort first-fit layout. It is not a constraint solver:
// when every candidate collides the first one is used anyway.
// Not safe for concurrent use; one Placer serves one render pass.
type Placer struct {
	Gap    float64
	Order  []Side
	placed []Box
}

func NewPlacer(gap float64) *Placer {
	return &Placer{Gap: gap, Order: DefaultOrder}
}

// Reset forgets all placed boxes. Call at the start of each render pass.
func (p *Placer) Reset() { p.placed = p.placed[:0] }

// Placed returns the boxes placed so far in placement order.
func (p *Placer) Placed() []Box { return append([]Box(nil), p.placed...) }

// Candidate returns the box for side s around the device-space anchor.
func (p *Placer) Candidate(s Side, anchor vector.Vec2, w, h float64) vector.Rect {
	g := p.Gap
	switch s {
	case Below:
		return vector.R(anchor.X-w/2, anchor.Y+g, w, h)
	case Left:
		return vector.R(anchor.X-g-w, anchor.Y-h/2, w, h)
	case Above:
		return vector.R(anchor.X-w/2, anchor.Y-g-h, w, h)
	default:
		return vector.R(anchor.X+g, anchor.Y-h/2, w, h)
	}
}

// Place picks the first candidate that does not overlap an earlier box,
// records it, and returns it along with the chosen side.
func (p *Placer) Place(anchor vector.Vec2, w, h float64, text, owner string) (Box, Side) {
	order := p.Order
	if len(order) == 0 {
		order = DefaultOrder
	}
	side := order[0]
	r := p.Candidate(side, anchor, w, h)
	for _, s := range order {
		c := p.Candidate(s, anchor, w, h)
		if !p.collides(c) {
			side, r = s, c
			break
		}
	}
	b := Box{Anchor: r.Min(), Width: w, Height: h, Text: text, OwnerID: owner}
	p.placed = append(p.placed, b)
	return b, side
}

// Reserve records a box that was positioned by the caller, such as a fixed
// corner annotation, so later labels avoid it.
func (p *Placer) Reserve(b Box) { p.placed = append(p.placed, b) }

func (p *Placer) collides(r vector.Rect) bool {
	for _, b := range p.placed {
		if r.Intersects(b.Rect()) {
			return true
		}
	}
	return false
}
