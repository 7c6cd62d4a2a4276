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
	"fmt"
	"sort"
	"sync"

	"vectorviz/internal/vector"
)

// Kind tells which fields of a Primitive are meaningful.
type Kind uint8

const (
	KindLine Kind = iota
	KindArc
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindArc:
		return "arc"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Primitive is one drawn element as recorded by a Recorder.
type Primitive struct {
	ID    string
	Kind  Kind
	Layer Layer

	From, To vector.Vec2 // line

	Center     vector.Vec2 // arc
	Radius     float64
	Start, End float64

	At   vector.Vec2 // text, top-left
	Text string

	Stroke    vector.Stroke
	TextStyle vector.TextStyle

	seq uint64
}

// Recorder is an in-memory Surface. It backs headless rendering, the
// exporters and tests, and can replay input as if a user produced it.
// Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	w, h    float64
	prims   map[string]Primitive
	seq     uint64
	handler InputHandler
}

// NewRecorder creates an empty w×h surface.
func NewRecorder(w, h float64) *Recorder {
	return &Recorder{w: w, h: h, prims: map[string]Primitive{}}
}

func (r *Recorder) Size() (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w, r.h
}

// Resize changes the reported size; callers resize the controller too.
func (r *Recorder) Resize(w, h float64) {
	r.mu.Lock()
	r.w, r.h = w, h
	r.mu.Unlock()
}

func (r *Recorder) put(p Primitive) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.Layer = LayerOf(p.ID)
	if old, ok := r.prims[p.ID]; ok {
		p.seq = old.seq
	} else {
		r.seq++
		p.seq = r.seq
	}
	r.prims[p.ID] = p
}

func (r *Recorder) DrawLine(id string, from, to vector.Vec2, s vector.Stroke) {
	r.put(Primitive{ID: id, Kind: KindLine, From: from, To: to, Stroke: s})
}

func (r *Recorder) DrawArc(id string, center vector.Vec2, radius, start, end float64, s vector.Stroke) {
	r.put(Primitive{ID: id, Kind: KindArc, Center: center, Radius: radius, Start: start, End: end, Stroke: s})
}

func (r *Recorder) DrawText(id string, at vector.Vec2, text string, st vector.TextStyle) {
	r.put(Primitive{ID: id, Kind: KindText, At: at, Text: text, TextStyle: st})
}

func (r *Recorder) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.prims[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPrimitive, id)
	}
	delete(r.prims, id)
	return nil
}

func (r *Recorder) Subscribe(h InputHandler) {
	r.mu.Lock()
	r.handler = h
	r.mu.Unlock()
}

// Get returns the primitive with id.
func (r *Recorder) Get(id string) (Primitive, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prims[id]
	return p, ok
}

// Len is the number of live primitives.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.prims)
}

// IDs returns the live ids in paint order.
func (r *Recorder) IDs() []string {
	ps := r.Primitives()
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

// Primitives returns a snapshot in paint order: by layer, then by first draw.
func (r *Recorder) Primitives() []Primitive {
	r.mu.Lock()
	out := make([]Primitive, 0, len(r.prims))
	for _, p := range r.prims {
		out = append(out, p)
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Layer != out[j].Layer {
			return out[i].Layer < out[j].Layer
		}
		return out[i].seq < out[j].seq
	})
	return out
}

func (r *Recorder) input() InputHandler {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handler
}

// Drag replays a pan gesture.
func (r *Recorder) Drag(dx, dy float64) {
	if h := r.input(); h.OnDrag != nil {
		h.OnDrag(dx, dy)
	}
}

// Wheel replays a scroll at a device position.
func (r *Recorder) Wheel(dy float64, at vector.Vec2) {
	if h := r.input(); h.OnWheel != nil {
		h.OnWheel(dy, at)
	}
}

// Move replays a hover.
func (r *Recorder) Move(at vector.Vec2) {
	if h := r.input(); h.OnPointerMove != nil {
		h.OnPointerMove(at)
	}
}

// EndGesture replays the end of a gesture.
func (r *Recorder) EndGesture() {
	if h := r.input(); h.OnGestureEnd != nil {
		h.OnGestureEnd()
	}
}
