/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package view

import (
	"math"

	"vectorviz/internal/vector"
)

// Transform maps math space to device space.
// TranslateX/TranslateY is the device position of the math origin and Scale is
// device pixels per math unit. Device y grows downward, math y upward.
type Transform struct {
	TranslateX float64
	TranslateY float64
	Scale      float64
}

// ToDevice projects a math point to device pixels.
func (t Transform) ToDevice(p vector.Vec2) (float64, float64) {
	return t.TranslateX + p.X*t.Scale, t.TranslateY - p.Y*t.Scale
}

// DevicePoint is ToDevice returning a Vec2.
func (t Transform) DevicePoint(p vector.Vec2) vector.Vec2 {
	x, y := t.ToDevice(p)
	return vector.V(x, y)
}

// ToMath is the inverse of ToDevice.
func (t Transform) ToMath(sx, sy float64) vector.Vec2 {
	return vector.V((sx-t.TranslateX)/t.Scale, (t.TranslateY-sy)/t.Scale)
}

// Lerp interpolates every component linearly.
func (t Transform) Lerp(o Transform, f float64) Transform {
	return Transform{
		TranslateX: t.TranslateX + (o.TranslateX-t.TranslateX)*f,
		TranslateY: t.TranslateY + (o.TranslateY-t.TranslateY)*f,
		Scale:      t.Scale + (o.Scale-t.Scale)*f,
	}
}

// Viewport is the visible math-space rectangle. It is always derived from a
// Transform and the canvas size.
type Viewport struct {
	Left, Right, Bottom, Top float64
}

func (v Viewport) Width() float64  { return v.Right - v.Left }
func (v Viewport) Height() float64 { return v.Top - v.Bottom }

// ViewportOf derives the visible rectangle for a canvas of w×h pixels.
func ViewportOf(t Transform, w, h float64) Viewport {
	tl := t.ToMath(0, 0)
	br := t.ToMath(w, h)
	return Viewport{Left: tl.X, Right: br.X, Bottom: br.Y, Top: tl.Y}
}

// FitBounds returns the transform that shows the math rectangle vp centered on
// a w×h canvas with a uniform scale.
func FitBounds(vp Viewport, w, h float64) Transform {
	vw, vh := math.Max(vp.Width(), 1e-12), math.Max(vp.Height(), 1e-12)
	s := math.Min(w/vw, h/vh)
	cx, cy := (vp.Left+vp.Right)/2, (vp.Bottom+vp.Top)/2
	return Transform{TranslateX: w/2 - cx*s, TranslateY: h/2 + cy*s, Scale: s}
}
