/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package render draws calculation results on a retained-mode surface and
// keeps them in sync with the view as the user pans and zooms.
package render

import (
	"errors"
	"strings"

	"vectorviz/internal/vector"
)

// ErrUnknownPrimitive is returned by Surface.Remove for ids it does not hold.
var ErrUnknownPrimitive = errors.New("render: unknown primitive")

// InputHandler receives pointer input from a Surface. Positions are device
// pixels. Nil callbacks are ignored.
type InputHandler struct {
	// OnDrag reports a pan delta.
	OnDrag func(dx, dy float64)
	// OnWheel reports a scroll at a pivot; positive dy zooms in.
	OnWheel func(dy float64, at vector.Vec2)
	// OnPointerMove reports hover positions.
	OnPointerMove func(at vector.Vec2)
	// OnGestureEnd fires when a drag or scroll burst completes.
	OnGestureEnd func()
}

// Surface is a retained drawing target addressed by primitive id. Drawing an
// existing id replaces it. All coordinates are device pixels except arc
// angles, which follow the math convention (radians, counter-clockwise,
// y up); the surface flips them.
type Surface interface {
	Size() (w, h float64)
	DrawLine(id string, from, to vector.Vec2, s vector.Stroke)
	DrawArc(id string, center vector.Vec2, radius, start, end float64, s vector.Stroke)
	// DrawText places text with its top-left corner at at.
	DrawText(id string, at vector.Vec2, text string, st vector.TextStyle)
	Remove(id string) error
	Subscribe(h InputHandler)
}

// Layer orders primitives for painting; lower layers are painted first.
type Layer uint8

const (
	LayerGrid Layer = iota
	LayerAxes
	LayerScene
	LayerLabels
	LayerChrome
)

// LayerOf derives the paint layer from a primitive id.
func LayerOf(id string) Layer {
	switch {
	case strings.HasPrefix(id, "grid_"):
		return LayerGrid
	case strings.HasPrefix(id, "axis_"), strings.HasPrefix(id, "tick_"):
		return LayerAxes
	case id == readoutID:
		return LayerChrome
	case strings.HasSuffix(id, "_label"), strings.HasPrefix(id, "ticklabel_"), strings.HasSuffix(id, "_formula"):
		return LayerLabels
	}
	return LayerScene
}
