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
	"testing"
	"time"

	"vectorviz/internal/view"
)

func tr(s float64) view.Transform { return view.Transform{TranslateX: 1, TranslateY: 2, Scale: s} }

func TestBackForwardBasic(t *testing.T) {
	h := NewViewHistory(Config{MaxDepth: 10, MinInterval: 10 * time.Millisecond})
	t0 := time.Now()
	h.Push(Snapshot{View: tr(1), TS: t0})
	h.Push(Snapshot{View: tr(2), TS: t0.Add(20 * time.Millisecond)})
	if back, fwd := h.Stats(); back != 2 || fwd != 0 {
		t.Fatalf("expected 2 back entries, got back=%d fwd=%d", back, fwd)
	}
	v, ok := h.Back(tr(3), t0.Add(time.Second))
	if !ok || v != tr(2) {
		t.Fatalf("back expected scale 2, got ok=%v v=%+v", ok, v)
	}
	v, ok = h.Forward(tr(2), t0.Add(2*time.Second))
	if !ok || v != tr(3) {
		t.Fatalf("forward expected scale 3, got ok=%v v=%+v", ok, v)
	}
}

func TestCoalesceKeepsViewBeforeBurst(t *testing.T) {
	h := NewViewHistory(Config{MaxDepth: 10, MinInterval: 50 * time.Millisecond})
	t0 := time.Now()
	h.Push(Snapshot{View: tr(1), TS: t0})
	h.Push(Snapshot{View: tr(1.1), TS: t0.Add(10 * time.Millisecond)})
	h.Push(Snapshot{View: tr(1.2), TS: t0.Add(20 * time.Millisecond)})
	if back, _ := h.Stats(); back != 1 {
		t.Fatalf("expected burst coalesced to 1 entry, got %d", back)
	}
	v, ok := h.Back(tr(1.3), t0.Add(time.Second))
	if !ok || v != tr(1) {
		t.Fatalf("expected the view before the burst, got ok=%v v=%+v", ok, v)
	}
}

func TestDepthCapAndClear(t *testing.T) {
	h := NewViewHistory(Config{MaxDepth: 2, MinInterval: time.Millisecond})
	t0 := time.Now()
	for i := 0; i < 10; i++ {
		h.Push(Snapshot{View: tr(float64(i + 1)), TS: t0.Add(time.Duration(i) * time.Second)})
	}
	if back, _ := h.Stats(); back != 2 {
		t.Fatalf("expected MaxDepth cap to limit to 2, got %d", back)
	}
	v, _ := h.Back(tr(99), t0)
	if v != tr(10) {
		t.Fatalf("expected newest entry kept, got %+v", v)
	}
	h.Push(Snapshot{View: tr(50), TS: t0.Add(time.Hour)})
	if _, fwd := h.Stats(); fwd != 0 {
		t.Fatalf("a new push must clear forward history")
	}
	h.Clear()
	if back, fwd := h.Stats(); back != 0 || fwd != 0 {
		t.Fatalf("expected empty history after clear")
	}
	if _, ok := h.Back(tr(1), t0); ok {
		t.Fatalf("back on empty history must fail")
	}
}
