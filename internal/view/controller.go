/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package view

import (
	"log/slog"
	"math"
	"sync"
	"time"

	applog "vectorviz/internal/log"
	"vectorviz/internal/vector"
)

// Options configures a Controller.
type Options struct {
	MinScale    float64
	MaxScale    float64
	FrameBudget time.Duration
	Width       float64
	Height      float64
	// Initial is the math rectangle framed by Reset.
	Initial Viewport
}

func DefaultOptions() Options {
	return Options{
		MinScale:    0.01,
		MaxScale:    10000,
		FrameBudget: DefaultFrameBudget,
		Width:       800,
		Height:      600,
		Initial:     Viewport{Left: -10, Right: 10, Bottom: -10, Top: 10},
	}
}

// Controller owns the Transform. It is the only writer; everybody else reads
// a copy through Transform() or submits a target through Set.
// Every mutation requests one coalesced redraw. Safe for concurrent use.
type Controller struct {
	mu     sync.Mutex
	opts   Options
	t      Transform
	redraw *Coalescer
	log    *slog.Logger
}

// NewController creates a controller framing opts.Initial. onRedraw runs at
// most once per frame after any number of mutations.
func NewController(opts Options, sched Scheduler, onRedraw func()) *Controller {
	d := DefaultOptions()
	if opts.MinScale <= 0 {
		opts.MinScale = d.MinScale
	}
	if opts.MaxScale <= 0 || opts.MaxScale < opts.MinScale {
		opts.MaxScale = math.Max(d.MaxScale, opts.MinScale)
	}
	if opts.FrameBudget <= 0 {
		opts.FrameBudget = d.FrameBudget
	}
	if opts.Width <= 0 {
		opts.Width = d.Width
	}
	if opts.Height <= 0 {
		opts.Height = d.Height
	}
	if opts.Initial.Width() <= 0 || opts.Initial.Height() <= 0 {
		opts.Initial = d.Initial
	}
	c := &Controller{opts: opts, log: applog.WithComponent("view")}
	c.redraw = NewCoalescer(sched, opts.FrameBudget, onRedraw)
	c.t = c.clamped(FitBounds(opts.Initial, opts.Width, opts.Height))
	return c
}

// Transform returns a copy of the current transform.
func (c *Controller) Transform() Transform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Size returns the canvas size in device pixels.
func (c *Controller) Size() (float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.Width, c.opts.Height
}

// ScaleRange returns the configured clamp range.
func (c *Controller) ScaleRange() (float64, float64) {
	return c.opts.MinScale, c.opts.MaxScale
}

// Viewport derives the visible math rectangle.
func (c *Controller) Viewport() Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ViewportOf(c.t, c.opts.Width, c.opts.Height)
}

func (c *Controller) ToDevice(p vector.Vec2) (float64, float64) { return c.Transform().ToDevice(p) }
func (c *Controller) ToMath(sx, sy float64) vector.Vec2         { return c.Transform().ToMath(sx, sy) }

// ApplyDelta pans by (dx, dy) device pixels and then zooms by factor about the
// device-space pivot. The pivot's math coordinate is unchanged by the zoom,
// even when the scale hits a clamp limit.
func (c *Controller) ApplyDelta(dx, dy, factor float64, pivot vector.Vec2) {
	c.mu.Lock()
	t := c.t
	t.TranslateX += dx
	t.TranslateY += dy
	if factor > 0 && factor != 1 {
		ns := clampScale(t.Scale*factor, c.opts.MinScale, c.opts.MaxScale)
		eff := ns / t.Scale
		if eff != factor {
			c.log.Debug("zoom clamped", slog.Float64("requested", t.Scale*factor), slog.Float64("scale", ns))
		}
		t.TranslateX = pivot.X - (pivot.X-t.TranslateX)*eff
		t.TranslateY = pivot.Y - (pivot.Y-t.TranslateY)*eff
		t.Scale = ns
	}
	c.t = t
	c.mu.Unlock()
	c.redraw.Request()
}

// Pan moves the plane by a device delta.
func (c *Controller) Pan(dx, dy float64) { c.ApplyDelta(dx, dy, 1, vector.Vec2{}) }

// ZoomAt scales about a device-space pivot, typically the cursor.
func (c *Controller) ZoomAt(factor float64, pivot vector.Vec2) { c.ApplyDelta(0, 0, factor, pivot) }

// Set replaces the transform with a submitted target (autofit frames, undo).
func (c *Controller) Set(t Transform) {
	c.mu.Lock()
	c.t = c.clamped(t)
	c.mu.Unlock()
	c.redraw.Request()
}

// Reset frames the initial viewport.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.t = c.clamped(FitBounds(c.opts.Initial, c.opts.Width, c.opts.Height))
	c.mu.Unlock()
	c.redraw.Request()
}

// Resize updates the canvas size, keeping the math point at the canvas center fixed.
func (c *Controller) Resize(w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	c.mu.Lock()
	center := c.t.ToMath(c.opts.Width/2, c.opts.Height/2)
	c.opts.Width, c.opts.Height = w, h
	c.t.TranslateX = w/2 - center.X*c.t.Scale
	c.t.TranslateY = h/2 + center.Y*c.t.Scale
	c.mu.Unlock()
	c.redraw.Request()
}

// ClampScale applies the configured range to s.
func (c *Controller) ClampScale(s float64) float64 {
	return clampScale(s, c.opts.MinScale, c.opts.MaxScale)
}

// clamped keeps the canvas center fixed while clamping the scale.
func (c *Controller) clamped(t Transform) Transform {
	s := clampScale(t.Scale, c.opts.MinScale, c.opts.MaxScale)
	if s == t.Scale {
		return t
	}
	center := t.ToMath(c.opts.Width/2, c.opts.Height/2)
	return Transform{TranslateX: c.opts.Width/2 - center.X*s, TranslateY: c.opts.Height/2 + center.Y*s, Scale: s}
}

func clampScale(s, lo, hi float64) float64 {
	if math.IsNaN(s) || s <= 0 {
		return lo
	}
	return math.Min(hi, math.Max(lo, s))
}
