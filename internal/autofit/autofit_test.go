/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package autofit

import (
	"math"
	"testing"
	"time"

	"vectorviz/internal/vector"
	"vectorviz/internal/view"
)

func TestCompute_Containment(t *testing.T) {
	sets := [][]vector.Vec2{
		Points([]vector.Vec2{{X: 3, Y: 4}, {X: -1, Y: 2}}, &vector.Vec2{X: 2, Y: 6}),
		Points([]vector.Vec2{{X: 100, Y: 0.5}, {X: -3, Y: -2}}, nil),
		Points([]vector.Vec2{{X: 0, Y: 0}, {X: 0, Y: 0}}, nil),
		Points([]vector.Vec2{{X: 0, Y: 7}, {X: 0, Y: -3}}, nil),
	}
	for _, pts := range sets {
		for _, size := range [][2]float64{{800, 600}, {300, 900}} {
			w, h := size[0], size[1]
			fit := Compute(pts, w, h, DefaultOptions())
			if fit.MarginPx <= 0 {
				t.Fatalf("expected a positive margin, got %v", fit.MarginPx)
			}
			for _, p := range pts {
				x, y := fit.Target.ToDevice(p)
				m := fit.MarginPx - 1e-9
				if x < m || x > w-m || y < m || y > h-m {
					t.Fatalf("point %v at (%v,%v) not inside %vx%v minus margin %v", p, x, y, w, h, fit.MarginPx)
				}
				if x <= 0 || x >= w || y <= 0 || y >= h {
					t.Fatalf("point %v not strictly inside the canvas", p)
				}
			}
		}
	}
}

func TestCompute_FillsOneAxisUniformly(t *testing.T) {
	pts := Points([]vector.Vec2{{X: 10, Y: 0}}, nil) // bbox 10x0
	fit := Compute(pts, 800, 600, DefaultOptions())
	// expanded width = 10 + 2*2 = 14 -> 800/14
	if math.Abs(fit.Target.Scale-800.0/14) > 1e-9 {
		t.Fatalf("unexpected scale %v", fit.Target.Scale)
	}
	vp := view.ViewportOf(fit.Target, 800, 600)
	if math.Abs(vp.Left-(-2)) > 1e-9 || math.Abs(vp.Right-12) > 1e-9 {
		t.Fatalf("expanded box should fill the width: %+v", vp)
	}
}

func TestCompute_ClampedScale(t *testing.T) {
	pts := Points([]vector.Vec2{{X: 1e-3, Y: 1e-3}}, nil)
	fit := Compute(pts, 800, 600, Options{Margin: 0.2, MinScale: 0.2, MaxScale: 50})
	if !fit.Clamped || fit.Target.Scale != 50 {
		t.Fatalf("expected clamp to 50, got %+v", fit)
	}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newAnimated(t *testing.T) (*view.Controller, *Animator, *view.ManualScheduler, *fakeClock) {
	t.Helper()
	sched := &view.ManualScheduler{}
	ctrl := view.NewController(view.Options{Width: 800, Height: 600}, sched, nil)
	ctrl.Set(view.Transform{TranslateX: 0, TranslateY: 0, Scale: 10})
	clk := &fakeClock{t: time.Unix(1000, 0)}
	a := NewAnimator(ctrl, sched)
	a.Now = clk.Now
	return ctrl, a, sched, clk
}

func TestAnimator_ReachesTargetAfterDuration(t *testing.T) {
	ctrl, a, sched, clk := newAnimated(t)
	target := view.Transform{TranslateX: 400, TranslateY: 300, Scale: 20}
	a.Start(target)
	clk.Advance(400 * time.Millisecond)
	sched.Flush()
	mid := ctrl.Transform()
	if mid.Scale <= 10 || mid.Scale >= 20 {
		t.Fatalf("expected an intermediate scale, got %v", mid.Scale)
	}
	if math.Abs(mid.Scale-15) > 1e-9 {
		t.Fatalf("cubic ease is symmetric, expected 15 at half time, got %v", mid.Scale)
	}
	clk.Advance(400 * time.Millisecond)
	sched.Drain(10)
	if got := ctrl.Transform(); got != target {
		t.Fatalf("expected target %+v, got %+v", target, got)
	}
	if a.Running() {
		t.Fatalf("animation should be finished")
	}
}

func TestAnimator_SupersedesFromCurrentValue(t *testing.T) {
	ctrl, a, sched, clk := newAnimated(t)
	first := view.Transform{TranslateX: 400, TranslateY: 300, Scale: 20}
	a.Start(first)
	clk.Advance(400 * time.Millisecond)
	sched.Flush()
	at := ctrl.Transform()

	second := view.Transform{TranslateX: -100, TranslateY: 50, Scale: 5}
	a.Start(second)
	if a.Target() != second {
		t.Fatalf("target not replaced")
	}
	// an immediate frame must continue from where the first animation was
	sched.Flush()
	if got := ctrl.Transform(); math.Abs(got.Scale-at.Scale) > 1e-9 {
		t.Fatalf("second animation should start at %v, got %v", at.Scale, got.Scale)
	}
	clk.Advance(time.Second)
	sched.Drain(10)
	if got := ctrl.Transform(); got != second {
		t.Fatalf("expected second target, got %+v", got)
	}
}

func TestAnimator_CancelAndFinish(t *testing.T) {
	ctrl, a, sched, _ := newAnimated(t)
	target := view.Transform{TranslateX: 1, TranslateY: 2, Scale: 30}
	a.Start(target)
	a.Cancel()
	sched.Drain(10)
	if ctrl.Transform().Scale != 10 {
		t.Fatalf("cancelled animation must not move the view")
	}
	a.Start(target)
	a.Finish()
	if ctrl.Transform() != target {
		t.Fatalf("finish should jump to target")
	}
}

func TestEaseInOutCubic(t *testing.T) {
	if EaseInOutCubic(0) != 0 || EaseInOutCubic(1) != 1 || EaseInOutCubic(0.5) != 0.5 {
		t.Fatalf("unexpected ease endpoints")
	}
	if EaseInOutCubic(0.25) >= 0.25 {
		t.Fatalf("expected slow start")
	}
}
