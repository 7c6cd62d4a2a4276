/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package labels

import (
	"testing"

	"vectorviz/internal/vector"
)

func TestPlace_FirstCandidateWhenFree(t *testing.T) {
	p := NewPlacer(6)
	b, side := p.Place(vector.V(100, 100), 40, 10, "A", "vector1")
	if side != Right {
		t.Fatalf("expected right, got %v", side)
	}
	if b.Anchor != vector.V(106, 95) {
		t.Fatalf("unexpected anchor: %+v", b.Anchor)
	}
}

func TestPlace_SkipsOverlappingCandidates(t *testing.T) {
	p := NewPlacer(6)
	p.Place(vector.V(100, 100), 40, 10, "A", "a")
	// same anchor again: right is taken, below is free
	b, side := p.Place(vector.V(100, 100), 40, 10, "B", "b")
	if side != Below {
		t.Fatalf("expected below, got %v", side)
	}
	if b.Rect().Intersects(p.Placed()[0].Rect()) {
		t.Fatalf("second label overlaps the first")
	}
	_, side = p.Place(vector.V(100, 100), 40, 10, "C", "c")
	if side != Left {
		t.Fatalf("expected left, got %v", side)
	}
	_, side = p.Place(vector.V(100, 100), 40, 10, "D", "d")
	if side != Above {
		t.Fatalf("expected above, got %v", side)
	}
}

func TestPlace_FallsBackToFirstWhenAllCollide(t *testing.T) {
	p := NewPlacer(6)
	p.Reserve(Box{Anchor: vector.V(0, 0), Width: 500, Height: 500, OwnerID: "blocker"})
	b, side := p.Place(vector.V(250, 250), 40, 10, "X", "x")
	if side != Right {
		t.Fatalf("expected fallback to right, got %v", side)
	}
	if b.Anchor != vector.V(256, 245) {
		t.Fatalf("unexpected fallback anchor: %+v", b.Anchor)
	}
	if len(p.Placed()) != 2 {
		t.Fatalf("fallback box must still be recorded")
	}
}

func TestPlace_TouchingIsNotOverlap(t *testing.T) {
	p := NewPlacer(0)
	p.Reserve(Box{Anchor: vector.V(0, 0), Width: 10, Height: 10})
	// right candidate starts exactly at x=10
	_, side := p.Place(vector.V(10, 5), 10, 10, "t", "t")
	if side != Right {
		t.Fatalf("touching boxes must not count as overlap, got %v", side)
	}
}

func TestReset(t *testing.T) {
	p := NewPlacer(6)
	p.Place(vector.V(0, 0), 10, 10, "a", "a")
	p.Reset()
	if len(p.Placed()) != 0 {
		t.Fatalf("expected empty placer after reset")
	}
}
