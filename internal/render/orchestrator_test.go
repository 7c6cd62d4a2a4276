/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package render

import (
	"errors"
	"math"
	"sort"
	"testing"

	"vectorviz/internal/calc"
	"vectorviz/internal/domain"
	"vectorviz/internal/vector"
	"vectorviz/internal/view"
)

func newTestOrchestrator(t *testing.T, surf Surface) (*Orchestrator, *view.ManualScheduler) {
	t.Helper()
	sched := &view.ManualScheduler{}
	opts := DefaultOptions()
	opts.Animate = false
	return New(surf, sched, opts), sched
}

func mustEval(t *testing.T, op domain.Operation, vs ...vector.Vec2) domain.Result {
	t.Helper()
	res, err := calc.Evaluate(op, vs)
	if err != nil {
		t.Fatalf("evaluate %s: %v", op, err)
	}
	return res
}

func mustText(t *testing.T, rec *Recorder, id, want string) {
	t.Helper()
	p, ok := rec.Get(id)
	if !ok {
		t.Fatalf("missing primitive %s", id)
	}
	if p.Kind != KindText || p.Text != want {
		t.Fatalf("%s: got %s %q, want text %q", id, p.Kind, p.Text, want)
	}
}

func TestRender_SumScenario(t *testing.T) {
	rec := NewRecorder(800, 600)
	o, sched := newTestOrchestrator(t, rec)
	res := mustEval(t, domain.OpSum, vector.V(3, 4), vector.V(-1, 2))
	rep, err := o.Render(1, res)
	if err != nil || !rep.OK() {
		t.Fatalf("render: %v %+v", err, rep.Errors)
	}
	sched.Drain(10)

	for _, id := range []string{
		"vector1_body", "vector1_head1", "vector1_head2", "vector2_body",
		"result_body", "result_head1", "direction_arc", "parallelogram_a", "parallelogram_b",
	} {
		if _, ok := rec.Get(id); !ok {
			t.Fatalf("missing primitive %s; have %v", id, rec.IDs())
		}
	}
	mustText(t, rec, "vector1_label", "A (3.00, 4.00)")
	mustText(t, rec, "result_label", "Resultant (2.00, 6.00)")
	mustText(t, rec, "direction_label", "Direction: 71.57°")

	if got := o.Controller().Transform(); got != rep.Fit.Target {
		t.Fatalf("view should be at the autofit target: got %+v want %+v", got, rep.Fit.Target)
	}
	for _, p := range []vector.Vec2{{}, {X: 3, Y: 4}, {X: -1, Y: 2}, {X: 2, Y: 6}} {
		x, y := o.Controller().ToDevice(p)
		if x <= 0 || x >= 800 || y <= 0 || y >= 600 {
			t.Fatalf("point %v outside the canvas after autofit: (%v, %v)", p, x, y)
		}
	}
	body, _ := rec.Get("result_body")
	tx, ty := o.Controller().ToDevice(vector.V(2, 6))
	if math.Abs(body.To.X-tx) > 1e-9 || math.Abs(body.To.Y-ty) > 1e-9 {
		t.Fatalf("resultant tip not re-projected after autofit: %+v vs (%v,%v)", body.To, tx, ty)
	}
}

func TestRender_SumChainForThreeVectors(t *testing.T) {
	rec := NewRecorder(800, 600)
	o, _ := newTestOrchestrator(t, rec)
	if _, err := o.Render(1, mustEval(t, domain.OpSum, vector.V(1, 0), vector.V(0, 1), vector.V(1, 1))); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, id := range []string{"chain_1", "chain_2", "vector3_body"} {
		if _, ok := rec.Get(id); !ok {
			t.Fatalf("missing %s", id)
		}
	}
	if _, ok := rec.Get("parallelogram_a"); ok {
		t.Fatalf("parallelogram is only drawn for two vectors")
	}
	p, _ := rec.Get("chain_2")
	if p.Stroke.Color != vector.ColorOther || !p.Stroke.Dashed() {
		t.Fatalf("chain should be a dashed guide, got %+v", p.Stroke)
	}
}

func TestRender_AngleScenario(t *testing.T) {
	rec := NewRecorder(800, 600)
	o, sched := newTestOrchestrator(t, rec)
	if _, err := o.Render(1, mustEval(t, domain.OpAngle, vector.V(1, 0), vector.V(0, 1))); err != nil {
		t.Fatalf("render: %v", err)
	}
	sched.Drain(10)
	mustText(t, rec, "angle_1_2_minor_label", "90.00°")
	mustText(t, rec, "angle_1_2_major_label", "270.00°")
	minor, _ := rec.Get("angle_1_2_minor")
	if minor.Kind != KindArc || minor.Start != 0 || math.Abs(minor.End-math.Pi/2) > 1e-12 {
		t.Fatalf("unexpected minor arc %+v", minor)
	}
	scale := o.Controller().Transform().Scale
	if math.Abs(minor.Radius-scale) > 1e-9 {
		t.Fatalf("minor radius should be 1 unit (%v px), got %v", scale, minor.Radius)
	}
	major, _ := rec.Get("angle_1_2_major")
	if !major.Stroke.Dashed() || major.Stroke.EffectiveOpacity() != 0.5 || math.Abs(major.Radius-0.85*scale) > 1e-9 {
		t.Fatalf("unexpected major arc %+v", major)
	}
}

func TestRender_DotFormula(t *testing.T) {
	rec := NewRecorder(800, 600)
	o, _ := newTestOrchestrator(t, rec)
	if _, err := o.Render(1, mustEval(t, domain.OpDot, vector.V(3, 4), vector.V(-1, 2))); err != nil {
		t.Fatalf("render: %v", err)
	}
	mustText(t, rec, "dot_formula", "A·B = |A||B| cos(θ) = 5.00 × 2.24 × cos(63.43°) = 5.00")
	f, _ := rec.Get("dot_formula")
	if f.At != vector.V(formulaInset, formulaInset) {
		t.Fatalf("formula should sit in the top-left corner, got %+v", f.At)
	}
}

func TestRender_MagnitudeLabels(t *testing.T) {
	rec := NewRecorder(800, 600)
	o, _ := newTestOrchestrator(t, rec)
	if _, err := o.Render(1, mustEval(t, domain.OpMagnitude, vector.V(3, 4), vector.V(0, -2))); err != nil {
		t.Fatalf("render: %v", err)
	}
	mustText(t, rec, "magnitude1_label", "|A| = 5.00")
	mustText(t, rec, "magnitude2_label", "|B| = 2.00")
}

func TestRender_DegenerateAngleIsReported(t *testing.T) {
	rec := NewRecorder(800, 600)
	o, _ := newTestOrchestrator(t, rec)
	rep, err := o.Render(1, mustEval(t, domain.OpAngle, vector.V(0, 0), vector.V(1, 1)))
	if err != nil || !rep.OK() {
		t.Fatalf("degenerate input must not fail the pass: %v %+v", err, rep.Errors)
	}
	if len(rep.Degenerate) != 1 {
		t.Fatalf("expected one degenerate note, got %v", rep.Degenerate)
	}
	if _, ok := rec.Get("angle_1_2_minor"); ok {
		t.Fatalf("no arc may be drawn for a zero vector")
	}
	if _, ok := rec.Get("vector1_head1"); ok {
		t.Fatalf("a zero vector has no head")
	}
	if _, ok := rec.Get("vector1_body"); !ok {
		t.Fatalf("the zero vector body is still drawn")
	}
}

func sortedIDs(rec *Recorder) []string {
	ids := rec.IDs()
	sort.Strings(ids)
	return ids
}

func TestRender_IdempotentAndReplacesPreviousScene(t *testing.T) {
	rec := NewRecorder(800, 600)
	o, sched := newTestOrchestrator(t, rec)
	res := mustEval(t, domain.OpSum, vector.V(3, 4), vector.V(-1, 2))
	o.Render(1, res)
	sched.Drain(10)
	first := sortedIDs(rec)
	o.Render(2, res)
	sched.Drain(10)
	second := sortedIDs(rec)
	if len(first) != len(second) {
		t.Fatalf("re-rendering the same result changed the primitive count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("id sets differ at %d: %s vs %s", i, first[i], second[i])
		}
	}

	o.Render(3, mustEval(t, domain.OpMagnitude, vector.V(1, 1), vector.V(2, 2)))
	for _, id := range []string{"result_body", "direction_arc", "parallelogram_a"} {
		if _, ok := rec.Get(id); ok {
			t.Fatalf("%s from the previous result must be cleared", id)
		}
	}
}

func TestRender_StaleResultDiscarded(t *testing.T) {
	rec := NewRecorder(800, 600)
	o, _ := newTestOrchestrator(t, rec)
	if _, err := o.Render(5, mustEval(t, domain.OpSum, vector.V(1, 2), vector.V(3, 4))); err != nil {
		t.Fatalf("render: %v", err)
	}
	_, err := o.Render(3, mustEval(t, domain.OpAngle, vector.V(1, 0), vector.V(0, 1)))
	if !errors.Is(err, ErrStaleResult) {
		t.Fatalf("expected ErrStaleResult, got %v", err)
	}
	if _, ok := rec.Get("angle_1_2_minor"); ok {
		t.Fatalf("stale result must not be drawn")
	}
	if _, ok := rec.Get("result_body"); !ok {
		t.Fatalf("newer result must stay on screen")
	}
}

type arcPanicSurface struct{ *Recorder }

func (s arcPanicSurface) DrawArc(string, vector.Vec2, float64, float64, float64, vector.Stroke) {
	panic("arc backend exploded")
}

func TestRender_StageFailureDoesNotAbortPass(t *testing.T) {
	rec := NewRecorder(800, 600)
	o, _ := newTestOrchestrator(t, arcPanicSurface{rec})
	rep, err := o.Render(1, mustEval(t, domain.OpAngle, vector.V(1, 0), vector.V(0, 1)))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(rep.Errors) != 1 || rep.Errors[0].Stage != DrawingOperationOverlay {
		t.Fatalf("expected one overlay stage error, got %+v", rep.Errors)
	}
	if rep.Fit.Target.Scale <= 0 {
		t.Fatalf("autofit must still run after a failed stage")
	}
	if _, ok := rec.Get("vector2_body"); !ok {
		t.Fatalf("inputs drawn before the failure must remain")
	}
	if o.Stage() != Idle {
		t.Fatalf("orchestrator must return to idle, got %s", o.Stage())
	}
}

func TestRender_ToleratesPrimitivesRemovedBehindItsBack(t *testing.T) {
	rec := NewRecorder(800, 600)
	o, _ := newTestOrchestrator(t, rec)
	res := mustEval(t, domain.OpSum, vector.V(1, 2), vector.V(3, 4))
	o.Render(1, res)
	_ = rec.Remove("vector1_body")
	rep, err := o.Render(2, res)
	if err != nil || !rep.OK() {
		t.Fatalf("unknown primitives must only be logged: %v %+v", err, rep.Errors)
	}
	if _, ok := rec.Get("vector1_body"); !ok {
		t.Fatalf("vector1_body should be redrawn")
	}
}

func TestRedraw_PanReprojectsAndReadout(t *testing.T) {
	rec := NewRecorder(800, 600)
	o, sched := newTestOrchestrator(t, rec)
	o.Render(1, mustEval(t, domain.OpSum, vector.V(3, 4), vector.V(-1, 2)))
	sched.Drain(10)
	before, _ := rec.Get("vector1_body")

	rec.Drag(10, 5)
	rec.EndGesture()
	sched.Drain(10)
	after, _ := rec.Get("vector1_body")
	if math.Abs(after.From.X-before.From.X-10) > 1e-9 || math.Abs(after.From.Y-before.From.Y-5) > 1e-9 {
		t.Fatalf("pan should move the origin by (10,5): %+v -> %+v", before.From, after.From)
	}

	x, y := o.Controller().ToDevice(vector.V(1, 2))
	rec.Move(vector.V(x, y))
	if got := o.Readout(); got != "X: 1.00, Y: 2.00" {
		t.Fatalf("unexpected readout %q", got)
	}
	mustText(t, rec, readoutID, "X: 1.00, Y: 2.00")
	p, _ := rec.Get(readoutID)
	if p.At.X != readoutInset || p.Layer != LayerChrome {
		t.Fatalf("readout should be chrome at the left edge, got %+v", p)
	}
}

func TestPointerMove_RelaysLabelsAroundReadout(t *testing.T) {
	rec := NewRecorder(800, 600)
	o, sched := newTestOrchestrator(t, rec)
	o.Render(1, mustEval(t, domain.OpSum, vector.V(3, 4), vector.V(-1, 2)))
	sched.Drain(10)

	// bring the middle of A's body to the readout corner
	_, th := o.measure.Measure("X: 0.00, Y: 0.00")
	body, _ := rec.Get("vector1_body")
	mid := body.From.Lerp(body.To, 0.5)
	rec.Drag(readoutInset-mid.X, 600-readoutInset-th/2-mid.Y)
	rec.EndGesture()
	sched.Drain(10)
	before, _ := rec.Get("vector1_label")

	rec.Move(vector.V(400, 300))
	ro, ok := rec.Get(readoutID)
	if !ok {
		t.Fatalf("readout not drawn on pointer move")
	}
	rw, rh := o.measure.Measure(ro.Text)
	roBox := vector.R(ro.At.X, ro.At.Y, rw, rh)
	lw, lh := o.measure.Measure(before.Text)
	if !vector.R(before.At.X, before.At.Y, lw, lh).Intersects(roBox) {
		t.Fatalf("setup: label %+v should sit under readout %+v", before.At, roBox)
	}

	if sched.Drain(10) == 0 {
		t.Fatalf("pointer move should schedule a redraw")
	}
	after, _ := rec.Get("vector1_label")
	if after.At == before.At || vector.R(after.At.X, after.At.Y, lw, lh).Intersects(roBox) {
		t.Fatalf("label should move clear of the readout: %+v -> %+v (readout %+v)", before.At, after.At, roBox)
	}
}

func TestWheelZoomKeepsPivot(t *testing.T) {
	rec := NewRecorder(800, 600)
	o, _ := newTestOrchestrator(t, rec)
	pivot := vector.V(200, 150)
	before := o.Controller().ToMath(pivot.X, pivot.Y)
	s0 := o.Controller().Transform().Scale
	rec.Wheel(2, pivot)
	if got := o.Controller().Transform().Scale; math.Abs(got-s0*1.21) > 1e-9 {
		t.Fatalf("two notches should zoom by 1.21, got %v", got/s0)
	}
	after := o.Controller().ToMath(pivot.X, pivot.Y)
	if math.Abs(after.X-before.X) > 1e-9 || math.Abs(after.Y-before.Y) > 1e-9 {
		t.Fatalf("pivot moved: %v -> %v", before, after)
	}
}

func TestViewHistory_BackAfterAutofit(t *testing.T) {
	rec := NewRecorder(800, 600)
	o, sched := newTestOrchestrator(t, rec)
	initial := o.Controller().Transform()
	o.Render(1, mustEval(t, domain.OpSum, vector.V(30, 40), vector.V(-10, 20)))
	sched.Drain(10)
	fitted := o.Controller().Transform()
	if fitted == initial {
		t.Fatalf("autofit should have changed the view")
	}
	if !o.Back() || o.Controller().Transform() != initial {
		t.Fatalf("back should restore the pre-render view")
	}
	if !o.Forward() || o.Controller().Transform() != fitted {
		t.Fatalf("forward should return to the fitted view")
	}
}

func TestGridDrawnAndStaleLinesRemoved(t *testing.T) {
	rec := NewRecorder(800, 600)
	o, sched := newTestOrchestrator(t, rec)
	if _, ok := rec.Get("axis_x"); !ok {
		t.Fatalf("initial redraw should draw the axes")
	}
	countGrid := func() int {
		n := 0
		for _, p := range rec.Primitives() {
			if p.Layer == LayerGrid {
				n++
			}
		}
		return n
	}
	n0 := countGrid()
	if n0 == 0 {
		t.Fatalf("expected grid lines")
	}
	o.Controller().Set(view.Transform{TranslateX: 400, TranslateY: 300, Scale: 2})
	sched.Drain(10)
	if n := countGrid(); n == 0 || n > 2*500 {
		t.Fatalf("unexpected grid line count %d", n)
	}
	o.Controller().Set(view.Transform{TranslateX: 5000, TranslateY: 300, Scale: 30})
	sched.Drain(10)
	if _, ok := rec.Get("axis_y"); ok {
		t.Fatalf("y axis off screen must be removed")
	}
}
