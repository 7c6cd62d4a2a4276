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
	"fmt"
	"log/slog"
	"math"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"vectorviz/internal/autofit"
	"vectorviz/internal/domain"
	"vectorviz/internal/grid"
	"vectorviz/internal/labels"
	applog "vectorviz/internal/log"
	"vectorviz/internal/numfmt"
	"vectorviz/internal/textlayout"
	"vectorviz/internal/undo"
	"vectorviz/internal/vector"
	"vectorviz/internal/view"
)

// ErrStaleResult is returned by Render for a result older than the one shown.
var ErrStaleResult = errors.New("render: stale result")

const (
	readoutID    = "readout"
	formulaInset = 10
	readoutInset = 8
	tickHalf     = 4
)

// Stage is the position of the render pass state machine.
type Stage uint8

const (
	Idle Stage = iota
	ClearingPreviousPrimitives
	DrawingInputVectors
	DrawingOperationOverlay
	Autofitting
)

func (s Stage) String() string {
	switch s {
	case Idle:
		return "idle"
	case ClearingPreviousPrimitives:
		return "clearing"
	case DrawingInputVectors:
		return "inputs"
	case DrawingOperationOverlay:
		return "overlay"
	case Autofitting:
		return "autofit"
	}
	return "stage(" + strconv.Itoa(int(s)) + ")"
}

// StageError records a failed stage. The pass carries on after it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e StageError) Error() string { return e.Stage.String() + ": " + e.Err.Error() }
func (e StageError) Unwrap() error { return e.Err }

// Report summarizes one render pass.
type Report struct {
	Seq       uint64
	Operation domain.Operation
	// Degenerate lists quantities that were skipped because a vector has
	// zero length, e.g. "angle A-B undefined: zero-length vector".
	Degenerate []string
	Errors     []StageError
	Fit        autofit.Fit
	Primitives int
}

// OK reports whether every stage completed.
func (r Report) OK() bool { return len(r.Errors) == 0 }

// Options configures an Orchestrator. Zero fields take defaults.
type Options struct {
	View            view.Options
	Arrow           vector.ArrowOptions
	Arc             vector.ArcOptions
	DirectionFactor float64
	Autofit         autofit.Options
	// Animate eases autofit over AutofitDuration; otherwise the target is applied at once.
	Animate         bool
	AutofitDuration time.Duration
	LabelGap        float64
	Font            textlayout.FontSpec
	Fonts           textlayout.Provider
	Theme           Theme
	GridMinPx       float64
	GridMaxPx       float64
	History         undo.Config
	// WheelZoom is the zoom factor per wheel notch.
	WheelZoom float64
	Now       func() time.Time
}

// DefaultOptions returns the plane defaults.
func DefaultOptions() Options {
	return Options{
		View:            view.DefaultOptions(),
		Arrow:           vector.DefaultArrowOptions(),
		Arc:             vector.DefaultArcOptions(),
		DirectionFactor: 0.3,
		Autofit:         autofit.DefaultOptions(),
		Animate:         true,
		AutofitDuration: autofit.DefaultDuration,
		LabelGap:        6,
		Font:            textlayout.FontSpec{Family: "basic", SizePx: 13},
		Theme:           DarkTheme,
		GridMinPx:       grid.DefaultMinSpacingPx,
		GridMaxPx:       grid.DefaultMaxSpacingPx,
		WheelZoom:       1.1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Arrow.Epsilon <= 0 {
		o.Arrow = d.Arrow
	}
	if o.Arc.RadiusFactor <= 0 {
		o.Arc = d.Arc
	}
	if o.DirectionFactor <= 0 {
		o.DirectionFactor = d.DirectionFactor
	}
	if o.Autofit.Margin <= 0 {
		o.Autofit.Margin = d.Autofit.Margin
	}
	if o.AutofitDuration <= 0 {
		o.AutofitDuration = d.AutofitDuration
	}
	if o.LabelGap <= 0 {
		o.LabelGap = d.LabelGap
	}
	if o.Font.SizePx <= 0 {
		o.Font = d.Font
	}
	if o.Theme.Name == "" {
		o.Theme = d.Theme
	}
	if o.GridMinPx <= 0 {
		o.GridMinPx = d.GridMinPx
	}
	if o.GridMaxPx <= o.GridMinPx {
		o.GridMaxPx = math.Max(d.GridMaxPx, 4*o.GridMinPx)
	}
	if o.WheelZoom <= 1 {
		o.WheelZoom = d.WheelZoom
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Orchestrator owns every primitive it draws on the surface. Render replaces
// the scene with a new result; Redraw re-projects the current scene after the
// view changed. Both serialize on an internal mutex.
type Orchestrator struct {
	surf    Surface
	ctrl    *view.Controller
	anim    *autofit.Animator
	hist    *undo.ViewHistory
	grid    *grid.Grid
	placer  *labels.Placer
	measure textlayout.Measurer
	opts    Options
	log     *slog.Logger
	hover   *view.Coalescer

	mu       sync.Mutex
	stage    Stage
	lastSeq  uint64
	scene    *scene
	live     map[string]struct{}
	sceneIDs map[string]struct{}
	frame    map[string]struct{}
	pointer  *vector.Vec2

	gestureFrom *view.Transform
	onView      func(view.Transform)
}

// New wires an orchestrator to surf. The controller and animator are created
// here so the controller's coalesced redraw lands in Redraw.
func New(surf Surface, sched view.Scheduler, opts Options) *Orchestrator {
	opts = opts.withDefaults()
	o := &Orchestrator{
		surf:     surf,
		opts:     opts,
		grid:     &grid.Grid{MinSpacingPx: opts.GridMinPx, MaxSpacingPx: opts.GridMaxPx},
		placer:   labels.NewPlacer(opts.LabelGap),
		measure:  textlayout.Measurer{Provider: opts.Fonts, Spec: opts.Font},
		hist:     undo.NewViewHistory(opts.History),
		log:      applog.WithComponent("render"),
		live:     map[string]struct{}{},
		sceneIDs: map[string]struct{}{},
	}
	vo := opts.View
	if w, h := surf.Size(); w > 0 && h > 0 {
		vo.Width, vo.Height = w, h
	}
	o.ctrl = view.NewController(vo, sched, o.Redraw)
	o.hover = view.NewCoalescer(sched, view.DefaultFrameBudget, o.Redraw)
	o.anim = autofit.NewAnimator(o.ctrl, sched)
	o.anim.Duration = opts.AutofitDuration
	o.anim.Now = opts.Now
	surf.Subscribe(InputHandler{
		OnDrag:        o.onDrag,
		OnWheel:       o.onWheel,
		OnPointerMove: o.onPointerMove,
		OnGestureEnd:  o.onGestureEnd,
	})
	o.Redraw()
	return o
}

// Controller exposes the view for toolbar actions and tests.
func (o *Orchestrator) Controller() *view.Controller { return o.ctrl }

// Animator exposes the autofit animation.
func (o *Orchestrator) Animator() *autofit.Animator { return o.anim }

// Stage returns the current stage; Idle between passes.
func (o *Orchestrator) Stage() Stage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stage
}

// OnViewChange registers a callback run after each redraw with the new view.
func (o *Orchestrator) OnViewChange(fn func(view.Transform)) {
	o.mu.Lock()
	o.onView = fn
	o.mu.Unlock()
}

// Render draws res, replacing the previous result. A seq lower than the last
// rendered one is discarded with ErrStaleResult.
func (o *Orchestrator) Render(seq uint64, res domain.Result) (Report, error) {
	l := applog.WithOperation(o.log, "render").With(slog.Uint64("seq", seq), slog.String("operation", string(res.Operation)))
	o.mu.Lock()
	if seq < o.lastSeq {
		o.mu.Unlock()
		l.Debug("stale result discarded", slog.Uint64("last", o.lastSeq))
		return Report{Seq: seq, Operation: res.Operation}, ErrStaleResult
	}
	o.lastSeq = seq
	rep := Report{Seq: seq, Operation: res.Operation}
	t := o.ctrl.Transform()
	w, h := o.ctrl.Size()
	sc := &scene{seq: seq, res: res}
	start := time.Now()

	o.runStage(&rep, ClearingPreviousPrimitives, func() error {
		o.clearSceneLocked()
		o.scene = nil
		return nil
	})
	o.placer.Reset()
	o.runStage(&rep, DrawingInputVectors, func() error {
		sc.inputs = buildInputs(res, o.opts)
		for _, a := range sc.inputs {
			o.drawArrowLocked(a, t)
		}
		return nil
	})
	o.runStage(&rep, DrawingOperationOverlay, func() error {
		ov, notes := buildOverlay(res, o.opts)
		sc.overlay = ov
		rep.Degenerate = notes
		for _, n := range notes {
			l.Info("degenerate geometry", slog.String("detail", n))
		}
		o.drawOverlayLocked(ov, t)
		return nil
	})
	o.scene = sc
	var target *view.Transform
	o.runStage(&rep, Autofitting, func() error {
		if w <= 0 || h <= 0 {
			return fmt.Errorf("canvas has no size (%vx%v)", w, h)
		}
		opts := o.opts.Autofit
		opts.MinScale, opts.MaxScale = o.ctrl.ScaleRange()
		fit := autofit.Compute(sc.fitPoints(), w, h, opts)
		rep.Fit = fit
		o.hist.Push(undo.Snapshot{View: t, TS: o.opts.Now()})
		target = &fit.Target
		return nil
	})
	o.stage = Idle
	rep.Primitives = len(o.live)
	o.mu.Unlock()

	if target != nil {
		if o.opts.Animate {
			o.anim.Start(*target)
		} else {
			o.anim.Cancel()
			o.ctrl.Set(*target)
		}
	}
	l.Info("render pass",
		slog.Int("inputs", len(res.Inputs)),
		slog.Int("primitives", rep.Primitives),
		slog.Int("errors", len(rep.Errors)),
		slog.Duration("dur", time.Since(start)))
	return rep, nil
}

// runStage runs fn as stage st. Errors and panics are logged and recorded;
// they never abort the pass.
func (o *Orchestrator) runStage(rep *Report, st Stage, fn func() error) {
	o.stage = st
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("render stage panicked",
				slog.String("stage", st.String()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			rep.Errors = append(rep.Errors, StageError{Stage: st, Err: fmt.Errorf("panic: %v", r)})
		}
	}()
	if err := fn(); err != nil {
		o.log.Error("render stage failed", slog.String("stage", st.String()), slog.Any("err", err))
		rep.Errors = append(rep.Errors, StageError{Stage: st, Err: err})
	}
}

// Redraw re-lays the grid and re-projects the current scene for the current
// view. Geometry is not recomputed.
func (o *Orchestrator) Redraw() {
	o.mu.Lock()
	t := o.ctrl.Transform()
	w, h := o.ctrl.Size()
	func() {
		defer func() {
			if r := recover(); r != nil {
				o.log.Error("redraw panicked", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
			}
		}()
		o.frame = map[string]struct{}{}
		o.drawGridLocked(t, w, h)
		o.placer.Reset()
		o.drawReadoutLocked(t, h)
		if o.scene != nil {
			for _, a := range o.scene.inputs {
				o.drawArrowLocked(a, t)
			}
			o.drawOverlayLocked(o.scene.overlay, t)
		}
		for id := range o.live {
			if _, ok := o.frame[id]; !ok {
				o.removeLocked(id)
			}
		}
	}()
	o.frame = nil
	cb := o.onView
	o.mu.Unlock()
	if cb != nil {
		cb(t)
	}
}

// Clear removes the current scene, keeping grid and readout.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	o.clearSceneLocked()
	o.scene = nil
	o.mu.Unlock()
}

// Back, Forward and ResetView navigate the view history.
func (o *Orchestrator) Back() bool {
	t, ok := o.hist.Back(o.ctrl.Transform(), o.opts.Now())
	if ok {
		o.anim.Cancel()
		o.ctrl.Set(t)
	}
	return ok
}

func (o *Orchestrator) Forward() bool {
	t, ok := o.hist.Forward(o.ctrl.Transform(), o.opts.Now())
	if ok {
		o.anim.Cancel()
		o.ctrl.Set(t)
	}
	return ok
}

// ResetView frames the initial viewport, remembering the current view.
func (o *Orchestrator) ResetView() {
	o.anim.Cancel()
	o.hist.Push(undo.Snapshot{View: o.ctrl.Transform(), TS: o.opts.Now()})
	o.ctrl.Reset()
}

// HistoryDepth reports the back and forward stack sizes.
func (o *Orchestrator) HistoryDepth() (back, forward int) { return o.hist.Stats() }

// Zoom scales about the canvas center, as the toolbar buttons do.
func (o *Orchestrator) Zoom(factor float64) {
	o.anim.Cancel()
	w, h := o.ctrl.Size()
	o.hist.Push(undo.Snapshot{View: o.ctrl.Transform(), TS: o.opts.Now()})
	o.ctrl.ZoomAt(factor, vector.V(w/2, h/2))
}

func (o *Orchestrator) beginGesture() {
	o.anim.Cancel()
	o.mu.Lock()
	if o.gestureFrom == nil {
		t := o.ctrl.Transform()
		o.gestureFrom = &t
	}
	o.mu.Unlock()
}

func (o *Orchestrator) onDrag(dx, dy float64) {
	o.beginGesture()
	o.ctrl.Pan(dx, dy)
}

func (o *Orchestrator) onWheel(dy float64, at vector.Vec2) {
	if dy == 0 {
		return
	}
	o.beginGesture()
	o.ctrl.ZoomAt(math.Pow(o.opts.WheelZoom, dy), at)
}

// onPointerMove updates the readout at once; the full re-layout that keeps
// labels clear of it follows on the next frame.
func (o *Orchestrator) onPointerMove(at vector.Vec2) {
	o.mu.Lock()
	p := at
	o.pointer = &p
	_, h := o.ctrl.Size()
	o.drawReadoutLocked(o.ctrl.Transform(), h)
	o.mu.Unlock()
	o.hover.Request()
}

func (o *Orchestrator) onGestureEnd() {
	o.mu.Lock()
	from := o.gestureFrom
	o.gestureFrom = nil
	o.mu.Unlock()
	if from != nil {
		o.hist.Push(undo.Snapshot{View: *from, TS: o.opts.Now()})
	}
}

// --- primitive bookkeeping ---

func (o *Orchestrator) mark(id string, sceneOwned bool) {
	o.live[id] = struct{}{}
	if sceneOwned {
		o.sceneIDs[id] = struct{}{}
	}
	if o.frame != nil {
		o.frame[id] = struct{}{}
	}
}

func (o *Orchestrator) removeLocked(id string) {
	err := o.surf.Remove(id)
	delete(o.live, id)
	delete(o.sceneIDs, id)
	if err != nil {
		// the surface lost it already; nothing left to do
		o.log.Warn("remove primitive", slog.String("id", id), slog.Any("err", err))
	}
}

func (o *Orchestrator) clearSceneLocked() {
	for id := range o.sceneIDs {
		o.removeLocked(id)
	}
}

func (o *Orchestrator) line(id string, a, b vector.Vec2, s vector.Stroke, sceneOwned bool) {
	o.surf.DrawLine(id, a, b, s)
	o.mark(id, sceneOwned)
}

func (o *Orchestrator) text(id string, at vector.Vec2, text string, c vector.Color, sceneOwned bool) {
	o.surf.DrawText(id, at, text, vector.TextStyle{Color: c, Size: o.opts.Font.SizePx})
	o.mark(id, sceneOwned)
}

// --- projection ---

var arrowSuffixes = [...]string{"_body", "_head1", "_head2", "_label"}

func (o *Orchestrator) drawArrowLocked(a arrowItem, t view.Transform) {
	for _, suf := range arrowSuffixes {
		if _, ok := o.live[a.id+suf]; ok {
			o.removeLocked(a.id + suf)
		}
	}
	s := a.shape
	tip := t.DevicePoint(s.BodyEnd)
	o.line(a.id+"_body", t.DevicePoint(s.Tail), tip, a.stroke, true)
	if s.HasHead {
		o.line(a.id+"_head1", tip, t.DevicePoint(s.HeadWing1), a.stroke, true)
		o.line(a.id+"_head2", tip, t.DevicePoint(s.HeadWing2), a.stroke, true)
	}
	w, h := o.measure.Measure(a.label)
	box, _ := o.placer.Place(t.DevicePoint(s.Midpoint()), w, h, a.label, a.id)
	o.text(a.id+"_label", box.Anchor, a.label, a.stroke.Color, true)
}

func (o *Orchestrator) drawOverlayLocked(ov overlay, t view.Transform) {
	for _, s := range ov.segs {
		o.line(s.id, t.DevicePoint(s.a), t.DevicePoint(s.b), s.stroke, true)
	}
	for _, a := range ov.arrows {
		o.drawArrowLocked(a, t)
	}
	origin := t.DevicePoint(vector.Vec2{})
	for _, a := range ov.arcs {
		o.surf.DrawArc(a.id, origin, a.spec.Radius*t.Scale, a.spec.StartAngle, a.spec.EndAngle, a.stroke)
		o.mark(a.id, true)
	}
	for _, lb := range ov.labels {
		w, h := o.measure.Measure(lb.text)
		var box labels.Box
		if lb.fixed {
			// anchor so that the preferred (right) candidate starts at lb.at
			box, _ = o.placer.Place(vector.V(lb.at.X-o.opts.LabelGap, lb.at.Y+h/2), w, h, lb.text, lb.owner)
		} else {
			box, _ = o.placer.Place(t.DevicePoint(lb.at), w, h, lb.text, lb.owner)
		}
		o.text(lb.id, box.Anchor, lb.text, lb.color, true)
	}
}

func (o *Orchestrator) drawGridLocked(t view.Transform, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	th := o.opts.Theme
	lay := o.grid.Compute(view.ViewportOf(t, w, h), t.Scale)
	gs := vector.Stroke{Color: th.Grid, Width: 1}
	as := vector.Stroke{Color: th.Axis, Width: 1.5}
	origin := t.DevicePoint(vector.Vec2{})
	// tick labels stick to the nearest edge when the axis is off screen
	ax := math.Min(math.Max(origin.X, 0), w)
	ay := math.Min(math.Max(origin.Y, 0), h)
	_, lh := o.measure.Measure("0")

	for i, x := range lay.Xs {
		sx := t.DevicePoint(vector.V(x, 0)).X
		o.line("grid_v_"+strconv.Itoa(i), vector.V(sx, 0), vector.V(sx, h), gs, false)
		o.line("tick_x_"+strconv.Itoa(i), vector.V(sx, ay-tickHalf), vector.V(sx, ay+tickHalf), as, false)
		ly := ay + tickHalf
		if ly+lh > h {
			ly = ay - tickHalf - lh
		}
		o.text("ticklabel_x_"+strconv.Itoa(i), vector.V(sx+2, ly), lay.Label(x), th.Text, false)
	}
	for j, y := range lay.Ys {
		sy := t.DevicePoint(vector.V(0, y)).Y
		o.line("grid_h_"+strconv.Itoa(j), vector.V(0, sy), vector.V(w, sy), gs, false)
		o.line("tick_y_"+strconv.Itoa(j), vector.V(ax-tickHalf, sy), vector.V(ax+tickHalf, sy), as, false)
		label := lay.Label(y)
		lw, _ := o.measure.Measure(label)
		lx := ax + tickHalf + 2
		if lx+lw > w {
			lx = ax - tickHalf - 2 - lw
		}
		o.text("ticklabel_y_"+strconv.Itoa(j), vector.V(lx, sy-lh/2), label, th.Text, false)
	}
	if origin.Y >= 0 && origin.Y <= h {
		o.line("axis_x", vector.V(0, origin.Y), vector.V(w, origin.Y), as, false)
	}
	if origin.X >= 0 && origin.X <= w {
		o.line("axis_y", vector.V(origin.X, 0), vector.V(origin.X, h), as, false)
	}
}

// drawReadoutLocked shows the math position under the pointer at the
// bottom-left corner and reserves its box so labels avoid it.
func (o *Orchestrator) drawReadoutLocked(t view.Transform, h float64) {
	if o.pointer == nil {
		return
	}
	p := t.ToMath(o.pointer.X, o.pointer.Y)
	txt := numfmt.Coord(p.X, p.Y)
	tw, th := o.measure.Measure(txt)
	at := vector.V(readoutInset, h-readoutInset-th)
	o.text(readoutID, at, txt, o.opts.Theme.Text, false)
	if o.frame != nil {
		o.placer.Reserve(labels.Box{Anchor: at, Width: tw, Height: th, Text: txt, OwnerID: readoutID})
	}
}

// Readout returns the text of the coordinate readout, empty before the
// pointer first moved over the surface.
func (o *Orchestrator) Readout() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pointer == nil {
		return ""
	}
	p := o.ctrl.Transform().ToMath(o.pointer.X, o.pointer.Y)
	return numfmt.Coord(p.X, p.Y)
}
