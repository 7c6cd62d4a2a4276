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

package ui

import (
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"vectorviz/internal/render"
	"vectorviz/internal/vector"
)

// PlaneCanvas is the fyne drawing surface of the coordinate plane. Primitives
// are kept in a render.Recorder and turned into canvas lines and texts on
// refresh. It may be drawn on from any goroutine.
type PlaneCanvas struct {
	widget.BaseWidget

	rec *render.Recorder
	bg  vector.Color

	mu          sync.Mutex
	handler     render.InputHandler
	scrollTimer *time.Timer
	dirty       atomic.Bool

	// OnResize is called on the UI thread when the widget size changes.
	OnResize func(w, h float64)
}

var (
	_ render.Surface    = planeSurface{}
	_ fyne.Draggable    = (*PlaneCanvas)(nil)
	_ fyne.Scrollable   = (*PlaneCanvas)(nil)
	_ desktop.Hoverable = (*PlaneCanvas)(nil)
)

func NewPlaneCanvas(w, h float64, bg vector.Color) *PlaneCanvas {
	pc := &PlaneCanvas{rec: render.NewRecorder(w, h), bg: bg}
	pc.ExtendBaseWidget(pc)
	return pc
}

// Recorder exposes the retained primitives, e.g. for export.
func (p *PlaneCanvas) Recorder() *render.Recorder { return p.rec }

// SetBackground changes the plane color.
func (p *PlaneCanvas) SetBackground(c vector.Color) {
	p.bg = c
	p.requestRefresh()
}

// Surface returns the render.Surface view of the canvas. It is a separate
// value because the widget's own Size belongs to fyne.
func (p *PlaneCanvas) Surface() render.Surface { return planeSurface{p} }

type planeSurface struct{ pc *PlaneCanvas }

func (s planeSurface) Size() (float64, float64) { return s.pc.rec.Size() }

func (s planeSurface) DrawLine(id string, from, to vector.Vec2, st vector.Stroke) {
	s.pc.rec.DrawLine(id, from, to, st)
	s.pc.requestRefresh()
}

func (s planeSurface) DrawArc(id string, center vector.Vec2, radius, start, end float64, st vector.Stroke) {
	s.pc.rec.DrawArc(id, center, radius, start, end, st)
	s.pc.requestRefresh()
}

func (s planeSurface) DrawText(id string, at vector.Vec2, text string, ts vector.TextStyle) {
	s.pc.rec.DrawText(id, at, text, ts)
	s.pc.requestRefresh()
}

func (s planeSurface) Remove(id string) error {
	if err := s.pc.rec.Remove(id); err != nil {
		return err
	}
	s.pc.requestRefresh()
	return nil
}

func (s planeSurface) Subscribe(h render.InputHandler) {
	s.pc.mu.Lock()
	s.pc.handler = h
	s.pc.mu.Unlock()
}

func (p *PlaneCanvas) input() render.InputHandler {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handler
}

// requestRefresh coalesces a burst of draw calls into one widget refresh.
func (p *PlaneCanvas) requestRefresh() {
	if !p.dirty.CompareAndSwap(false, true) {
		return
	}
	fyne.Do(func() {
		p.dirty.Store(false)
		p.Refresh()
	})
}

func (p *PlaneCanvas) Dragged(e *fyne.DragEvent) {
	if h := p.input(); h.OnDrag != nil {
		h.OnDrag(float64(e.Dragged.DX), float64(e.Dragged.DY))
	}
}

func (p *PlaneCanvas) DragEnd() {
	if h := p.input(); h.OnGestureEnd != nil {
		h.OnGestureEnd()
	}
}

// Scrolled zooms about the pointer. Fyne has no scroll-end event, so the
// gesture ends after a short pause.
func (p *PlaneCanvas) Scrolled(e *fyne.ScrollEvent) {
	h := p.input()
	if h.OnWheel != nil {
		h.OnWheel(wheelNotches(float64(e.Scrolled.DY)), vector.V(float64(e.Position.X), float64(e.Position.Y)))
	}
	if h.OnGestureEnd == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scrollTimer != nil {
		p.scrollTimer.Stop()
	}
	p.scrollTimer = time.AfterFunc(scrollEndDelay, func() { fyne.Do(h.OnGestureEnd) })
}

func (p *PlaneCanvas) MouseIn(e *desktop.MouseEvent) { p.MouseMoved(e) }

func (p *PlaneCanvas) MouseMoved(e *desktop.MouseEvent) {
	if h := p.input(); h.OnPointerMove != nil {
		h.OnPointerMove(vector.V(float64(e.Position.X), float64(e.Position.Y)))
	}
}

func (p *PlaneCanvas) MouseOut() {}

func (p *PlaneCanvas) MinSize() fyne.Size { return fyne.NewSize(320, 240) }

func (p *PlaneCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &planeRenderer{pc: p, bg: canvas.NewRectangle(toNRGBA(p.bg, 1))}
	r.rebuild()
	return r
}

func toNRGBA(c vector.Color, opacity float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(float64(c.A) * opacity)}
}

// planeRenderer keeps pools of canvas objects and reuses them across refreshes.
type planeRenderer struct {
	pc      *PlaneCanvas
	bg      *canvas.Rectangle
	lines   []*canvas.Line
	texts   []*canvas.Text
	objects []fyne.CanvasObject
}

func (r *planeRenderer) Destroy()                     {}
func (r *planeRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *planeRenderer) MinSize() fyne.Size           { return r.pc.MinSize() }

func (r *planeRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	w, h := float64(size.Width), float64(size.Height)
	if w <= 0 || h <= 0 {
		return
	}
	if cw, ch := r.pc.rec.Size(); cw != w || ch != h {
		r.pc.rec.Resize(w, h)
		if r.pc.OnResize != nil {
			r.pc.OnResize(w, h)
		}
	}
}

func (r *planeRenderer) Refresh() {
	r.bg.FillColor = toNRGBA(r.pc.bg, 1)
	r.rebuild()
	canvas.Refresh(r.pc)
}

// rebuild maps the recorded primitives, in paint order, onto pooled objects.
func (r *planeRenderer) rebuild() {
	objs := []fyne.CanvasObject{r.bg}
	nl, nt := 0, 0
	for _, p := range r.pc.rec.Primitives() {
		if p.Kind == render.KindText {
			t := r.text(nt)
			nt++
			t.Text = p.Text
			t.Color = toNRGBA(p.TextStyle.Color, 1)
			if p.TextStyle.Size > 0 {
				t.TextSize = float32(p.TextStyle.Size)
			}
			t.Move(fyne.NewPos(float32(p.At.X), float32(p.At.Y)))
			t.Resize(t.MinSize())
			objs = append(objs, t)
			continue
		}
		c := toNRGBA(p.Stroke.Color, p.Stroke.EffectiveOpacity())
		for _, s := range strokePieces(p) {
			l := r.line(nl)
			nl++
			l.StrokeColor = c
			l.StrokeWidth = float32(p.Stroke.Width)
			l.Position1 = fyne.NewPos(float32(s[0].X), float32(s[0].Y))
			l.Position2 = fyne.NewPos(float32(s[1].X), float32(s[1].Y))
			objs = append(objs, l)
		}
	}
	r.objects = objs
}

func (r *planeRenderer) line(i int) *canvas.Line {
	for len(r.lines) <= i {
		r.lines = append(r.lines, canvas.NewLine(color.Transparent))
	}
	return r.lines[i]
}

func (r *planeRenderer) text(i int) *canvas.Text {
	for len(r.texts) <= i {
		r.texts = append(r.texts, canvas.NewText("", color.White))
	}
	return r.texts[i]
}
