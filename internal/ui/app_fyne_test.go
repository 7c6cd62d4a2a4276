//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// These tests exercise the fyne plane widget. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"

	"vectorviz/internal/render"
	"vectorviz/internal/vector"
)

func TestPlaneCanvas_RebuildFollowsRecorder(t *testing.T) {
	test.NewApp()
	pc := NewPlaneCanvas(800, 600, vector.Black)
	r := pc.CreateRenderer().(*planeRenderer)
	s := pc.Surface()

	s.DrawLine("axis_x", vector.V(0, 300), vector.V(800, 300), vector.Stroke{Color: vector.White, Width: 1})
	s.DrawLine("guide", vector.V(0, 0), vector.V(20, 0), vector.Stroke{Color: vector.White, Width: 2, Dash: []float64{6, 4}})
	s.DrawText("vector1_label", vector.V(10, 20), "A (3.00, 4.00)", vector.TextStyle{Color: vector.ColorFirst, Size: 13})
	r.rebuild()
	// background, one axis line, two dash pieces, one text
	if got := len(r.Objects()); got != 5 {
		t.Fatalf("expected 5 objects, got %d", got)
	}
	txt, ok := r.Objects()[4].(*canvas.Text)
	if !ok || txt.Text != "A (3.00, 4.00)" || txt.Position() != fyne.NewPos(10, 20) {
		t.Fatalf("label not placed as recorded: %#v", r.Objects()[4])
	}

	if err := s.Remove("guide"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	r.rebuild()
	if got := len(r.Objects()); got != 3 {
		t.Fatalf("expected 3 objects after remove, got %d", got)
	}
	if err := s.Remove("guide"); err == nil {
		t.Fatalf("removing twice must fail")
	}
}

func TestPlaneCanvas_LayoutResizesAndForwardsInput(t *testing.T) {
	test.NewApp()
	pc := NewPlaneCanvas(800, 600, vector.Black)
	r := pc.CreateRenderer()
	s := pc.Surface()
	var gotW, gotH, dx, dy float64
	pc.OnResize = func(w, h float64) { gotW, gotH = w, h }
	s.Subscribe(render.InputHandler{OnDrag: func(x, y float64) { dx, dy = x, y }})

	r.Layout(fyne.NewSize(1000, 500))
	if gotW != 1000 || gotH != 500 {
		t.Fatalf("expected resize callback, got %vx%v", gotW, gotH)
	}
	if w, h := s.Size(); w != 1000 || h != 500 {
		t.Fatalf("surface size not updated: %vx%v", w, h)
	}
	pc.Dragged(&fyne.DragEvent{Dragged: fyne.Delta{DX: 5, DY: -3}})
	if dx != 5 || dy != -3 {
		t.Fatalf("drag not forwarded: %v %v", dx, dy)
	}
}
