/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package autofit

import (
	"log/slog"
	"sync"
	"time"

	applog "vectorviz/internal/log"
	"vectorviz/internal/view"
)

// DefaultDuration of an autofit transition.
const DefaultDuration = 800 * time.Millisecond

// EaseInOutCubic maps [0,1] onto [0,1] with a slow start and end.
func EaseInOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

// Animator moves a view.Controller towards a target transform over Duration.
// Starting a new animation while one runs restarts from the current
// interpolated transform; frames of the superseded animation are dropped.
type Animator struct {
	ctrl  *view.Controller
	sched view.Scheduler
	log   *slog.Logger

	Duration time.Duration
	Frame    time.Duration
	Ease     func(float64) float64
	// Now is the clock; tests replace it.
	Now func() time.Time

	mu      sync.Mutex
	from    view.Transform
	to      view.Transform
	start   time.Time
	running bool
	gen     uint64
}

func NewAnimator(ctrl *view.Controller, sched view.Scheduler) *Animator {
	return &Animator{
		ctrl:     ctrl,
		sched:    sched,
		log:      applog.WithComponent("autofit"),
		Duration: DefaultDuration,
		Frame:    view.DefaultFrameBudget,
		Ease:     EaseInOutCubic,
		Now:      time.Now,
	}
}

// Start animates towards target, superseding any running animation.
func (a *Animator) Start(target view.Transform) {
	a.mu.Lock()
	now := a.Now()
	from := a.ctrl.Transform()
	if a.running {
		from = a.valueAtLocked(now)
		a.log.Debug("autofit superseded")
	}
	a.from, a.to, a.start = from, target, now
	a.running = true
	a.gen++
	g := a.gen
	a.mu.Unlock()

	if a.Duration <= 0 {
		a.Finish()
		return
	}
	a.schedule(g)
}

// Running reports whether an animation is in progress.
func (a *Animator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Target returns the destination of the current or last animation.
func (a *Animator) Target() view.Transform {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.to
}

// Cancel stops the animation where it is, e.g. when the user grabs the plane.
func (a *Animator) Cancel() {
	a.mu.Lock()
	a.running = false
	a.gen++
	a.mu.Unlock()
}

// Finish jumps straight to the target.
func (a *Animator) Finish() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	a.gen++
	to := a.to
	a.mu.Unlock()
	a.ctrl.Set(to)
}

func (a *Animator) schedule(g uint64) {
	frame := a.Frame
	if frame <= 0 {
		frame = view.DefaultFrameBudget
	}
	a.sched.After(frame, func() { a.step(g) })
}

func (a *Animator) step(g uint64) {
	a.mu.Lock()
	if g != a.gen || !a.running {
		a.mu.Unlock()
		return
	}
	now := a.Now()
	cur := a.valueAtLocked(now)
	done := now.Sub(a.start) >= a.Duration
	if done {
		cur = a.to
		a.running = false
	}
	a.mu.Unlock()

	a.ctrl.Set(cur)
	if !done {
		a.schedule(g)
	}
}

func (a *Animator) valueAtLocked(now time.Time) view.Transform {
	if a.Duration <= 0 {
		return a.to
	}
	p := float64(now.Sub(a.start)) / float64(a.Duration)
	ease := a.Ease
	if ease == nil {
		ease = EaseInOutCubic
	}
	return a.from.Lerp(a.to, ease(p))
}
