/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package view

import (
	"sync"
	"time"
)

// DefaultFrameBudget is the redraw coalescing window (~60 fps).
const DefaultFrameBudget = 16 * time.Millisecond

// Scheduler runs fn once after d. Implementations decide on which goroutine.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler runs callbacks through time.AfterFunc. Wrap lets a UI hop the
// callback onto its own thread.
type TimerScheduler struct {
	Wrap func(fn func())
}

func (s TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		if s.Wrap != nil {
			s.Wrap(fn)
			return
		}
		fn()
	})
}

// ManualScheduler queues callbacks until Flush is called. Used by headless
// rendering and tests to step frames deterministically.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []func()
}

func (m *ManualScheduler) After(d time.Duration, fn func()) {
	m.mu.Lock()
	m.pending = append(m.pending, fn)
	m.mu.Unlock()
}

// Pending returns the number of queued callbacks.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Flush runs the callbacks queued so far; callbacks scheduled while flushing
// wait for the next Flush. Returns how many ran.
func (m *ManualScheduler) Flush() int {
	m.mu.Lock()
	batch := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Drain flushes until nothing is queued or rounds is exhausted.
func (m *ManualScheduler) Drain(rounds int) int {
	total := 0
	for i := 0; i < rounds; i++ {
		n := m.Flush()
		if n == 0 {
			break
		}
		total += n
	}
	return total
}

// Coalescer collapses many Request calls within one frame into a single run of fn.
type Coalescer struct {
	mu      sync.Mutex
	sched   Scheduler
	budget  time.Duration
	fn      func()
	pending bool
}

func NewCoalescer(s Scheduler, budget time.Duration, fn func()) *Coalescer {
	if budget <= 0 {
		budget = DefaultFrameBudget
	}
	return &Coalescer{sched: s, budget: budget, fn: fn}
}

// Request schedules fn for the next frame unless already scheduled.
func (c *Coalescer) Request() {
	c.mu.Lock()
	if c.pending || c.sched == nil || c.fn == nil {
		c.mu.Unlock()
		return
	}
	c.pending = true
	c.mu.Unlock()
	c.sched.After(c.budget, func() {
		c.mu.Lock()
		c.pending = false
		c.mu.Unlock()
		c.fn()
	})
}
