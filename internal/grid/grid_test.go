/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package grid

import (
	"testing"

	"vectorviz/internal/view"
)

func TestStepFor_Table(t *testing.T) {
	cases := []struct {
		scale float64
		want  float64
	}{
		{40, 1},     // 40 px per unit
		{30, 2},     // 1 unit = 30 px is too dense
		{10, 5},     // 5 units = 50 px
		{0.2, 200},  // zoomed far out
		{4000, 0.01}, // zoomed far in
	}
	for _, c := range cases {
		if got := StepFor(c.scale, 40); got != c.want {
			t.Fatalf("StepFor(%v)=%v want %v", c.scale, got, c.want)
		}
	}
	if got := StepFor(1e-9, 40); got != Steps[len(Steps)-1] {
		t.Fatalf("expected coarsest step at extreme zoom out, got %v", got)
	}
}

func TestGrid_HysteresisKeepsStep(t *testing.T) {
	g := New()
	if s := g.Step(40); s != 1 {
		t.Fatalf("expected 1, got %v", s)
	}
	// 36 px spacing would pick 2 from the table but stays within the band.
	if s := g.Step(36); s != 1 {
		t.Fatalf("expected hysteresis to keep 1, got %v", s)
	}
	if s := g.Step(20); s != 2 {
		t.Fatalf("expected switch to 2 once spacing drops below the band, got %v", s)
	}
	if s := g.Step(1000); s != 0.05 {
		t.Fatalf("expected 0.05 after a big zoom in, got %v", s)
	}
}

func TestGrid_ComputeLinesAndLabels(t *testing.T) {
	g := New()
	vp := view.Viewport{Left: -2.5, Right: 3.2, Bottom: -1, Top: 1}
	l := g.Compute(vp, 40)
	if l.Step != 1 || l.Decimals != 0 {
		t.Fatalf("unexpected step/decimals: %v %v", l.Step, l.Decimals)
	}
	wantX := []float64{-2, -1, 0, 1, 2, 3}
	if len(l.Xs) != len(wantX) {
		t.Fatalf("unexpected xs: %v", l.Xs)
	}
	for i := range wantX {
		if l.Xs[i] != wantX[i] {
			t.Fatalf("xs[%d]=%v want %v", i, l.Xs[i], wantX[i])
		}
	}
	if len(l.Ys) != 3 {
		t.Fatalf("unexpected ys: %v", l.Ys)
	}

	fine := New().Compute(view.Viewport{Left: 0, Right: 0.2, Bottom: 0, Top: 0.2}, 1000)
	if fine.Decimals != 2 || fine.Label(0.1) != "0.10" {
		t.Fatalf("expected more digits when zoomed in: %d %q", fine.Decimals, fine.Label(0.1))
	}
	if got := (Layout{Decimals: 0}).Label(20000); got != "2e+4" {
		t.Fatalf("large ticks should switch to scientific notation, got %q", got)
	}
}
