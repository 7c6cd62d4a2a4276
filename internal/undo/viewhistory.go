/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"sync"
	"time"

	"vectorviz/internal/view"
)

// Snapshot is a view the user left, captured at TS.
type Snapshot struct {
	View view.Transform
	TS   time.Time
}

// Config controls depth caps and coalescing behavior.
type Config struct {
	// MaxDepth limits the number of back entries kept (0 means 50).
	MaxDepth int
	// MinInterval coalesces snapshots captured within the interval so that one
	// wheel burst or drag becomes a single back step.
	MinInterval time.Duration
}

// ViewHistory is a bounded back/forward stack of view transforms.
// It is safe for concurrent use.
type ViewHistory struct {
	cfg  Config
	mu   sync.Mutex
	back []Snapshot
	fwd  []Snapshot
}

func NewViewHistory(cfg Config) *ViewHistory {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 50
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &ViewHistory{cfg: cfg}
}

// Push records the view being left. Within MinInterval of the previous push
// the earlier view is kept and only its timestamp advances. Clears forward.
func (h *ViewHistory) Push(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fwd = nil
	if n := len(h.back); n > 0 {
		last := h.back[n-1]
		if s.TS.Sub(last.TS) < h.cfg.MinInterval {
			h.back[n-1].TS = s.TS
			return
		}
		if last.View == s.View {
			h.back[n-1].TS = s.TS
			return
		}
	}
	h.back = append(h.back, s)
	if len(h.back) > h.cfg.MaxDepth {
		drop := len(h.back) - h.cfg.MaxDepth
		h.back = append([]Snapshot{}, h.back[drop:]...)
	}
}

// Back returns the previous view and remembers current for Forward.
func (h *ViewHistory) Back(current view.Transform, now time.Time) (view.Transform, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.back)
	if n == 0 {
		return view.Transform{}, false
	}
	s := h.back[n-1]
	h.back = h.back[:n-1]
	h.fwd = append(h.fwd, Snapshot{View: current, TS: now})
	return s.View, true
}

// Forward re-applies a view undone by Back.
func (h *ViewHistory) Forward(current view.Transform, now time.Time) (view.Transform, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.fwd)
	if n == 0 {
		return view.Transform{}, false
	}
	s := h.fwd[n-1]
	h.fwd = h.fwd[:n-1]
	// bypass coalescing: an explicit step must always be reversible
	h.back = append(h.back, Snapshot{View: current, TS: now})
	return s.View, true
}

// Clear drops both stacks.
func (h *ViewHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.back, h.fwd = nil, nil
}

// Stats returns the current stack depths for diagnostics and button state.
func (h *ViewHistory) Stats() (back int, forward int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.back), len(h.fwd)
}
