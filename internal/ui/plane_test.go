/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"math"
	"testing"

	"vectorviz/internal/render"
	"vectorviz/internal/vector"
)

func TestStrokePieces_LineAndDash(t *testing.T) {
	solid := render.Primitive{Kind: render.KindLine, From: vector.V(0, 0), To: vector.V(20, 0)}
	if got := strokePieces(solid); len(got) != 1 || got[0][1] != vector.V(20, 0) {
		t.Fatalf("unexpected solid pieces: %v", got)
	}
	dashed := solid
	dashed.Stroke = vector.Stroke{Dash: []float64{6, 4}}
	got := strokePieces(dashed)
	if len(got) != 2 || got[0][1] != vector.V(6, 0) || got[1][0] != vector.V(10, 0) {
		t.Fatalf("unexpected dash pieces: %v", got)
	}
}

func TestStrokePieces_ArcFlipsY(t *testing.T) {
	arc := render.Primitive{Kind: render.KindArc, Center: vector.V(100, 100), Radius: 50, Start: 0, End: math.Pi / 2}
	got := strokePieces(arc)
	if len(got) < 2 {
		t.Fatalf("expected a flattened arc, got %d segments", len(got))
	}
	first, last := got[0][0], got[len(got)-1][1]
	if math.Abs(first.X-150) > 1e-9 || math.Abs(first.Y-100) > 1e-9 {
		t.Fatalf("arc must start at angle 0, got %v", first)
	}
	if math.Abs(last.X-100) > 1e-9 || math.Abs(last.Y-50) > 1e-9 {
		t.Fatalf("a counter-clockwise quarter must end above the center, got %v", last)
	}
	if strokePieces(render.Primitive{Kind: render.KindText}) != nil {
		t.Fatalf("text has no stroke pieces")
	}
}

func TestWheelNotches(t *testing.T) {
	if wheelNotches(10) != 1 || wheelNotches(-20) != -2 || wheelNotches(100) != 3 {
		t.Fatalf("unexpected notch conversion")
	}
}
