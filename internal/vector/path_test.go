/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func TestPath_BoundsAndSegments(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(0, 10)
	p.Close()

	b := p.Bounds()
	if b.X != 0 || b.Y != 0 || b.W != 10 || b.H != 10 {
		t.Fatalf("unexpected bounds: %+v", b)
	}
	if segs := p.Segments(); len(segs) != 3 {
		t.Fatalf("expected 3 segments incl. closing edge, got %d", len(segs))
	}
}

func TestDeviceArc_QuarterTurnGoesUpOnScreen(t *testing.T) {
	p := DeviceArc(V(100, 100), 50, 0, math.Pi/2, 4)
	segs := p.Segments()
	if len(segs) < 2 {
		t.Fatalf("expected several segments, got %d", len(segs))
	}
	first := segs[0][0]
	last := segs[len(segs)-1][1]
	if math.Abs(first.X-150) > 1e-9 || math.Abs(first.Y-100) > 1e-9 {
		t.Fatalf("arc should start at 3 o'clock, got %+v", first)
	}
	// counter-clockwise in math space ends above the center on screen
	if math.Abs(last.X-100) > 1e-9 || math.Abs(last.Y-50) > 1e-9 {
		t.Fatalf("arc should end at 12 o'clock, got %+v", last)
	}
}

func TestDashSegments(t *testing.T) {
	segs := DashSegments(V(0, 0), V(10, 0), []float64{2, 3})
	// on 0-2, off 2-5, on 5-7, off 7-10
	if len(segs) != 2 {
		t.Fatalf("expected 2 dashes, got %d: %+v", len(segs), segs)
	}
	if segs[1][0].X != 5 || segs[1][1].X != 7 {
		t.Fatalf("unexpected second dash: %+v", segs[1])
	}
	if solid := DashSegments(V(0, 0), V(1, 1), nil); len(solid) != 1 {
		t.Fatalf("solid stroke should be one segment")
	}
}
