/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Text measurement for plane labels. All sizes are device pixels.
// Measurement goes through a Provider so tests stay deterministic with the
// built-in bitmap face while exports can use a real OpenType font.

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string // logical family name
	SizePx float64
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// LineHeight is the distance between consecutive baselines.
func (m Metrics) LineHeight() float64 { return m.Ascent + m.Descent + m.LineGap }

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// BasicProvider uses x/image/basicfont Face7x13 regardless of the request.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	return f, metricsOf(f)
}

func metricsOf(f font.Face) Metrics {
	m := f.Metrics()
	return Metrics{
		Ascent:  float64(m.Ascent.Round()),
		Descent: float64(m.Descent.Round()),
		LineGap: float64(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// Box is the measured extent of a (possibly multi-line) label.
type Box struct {
	Width   float64
	Height  float64
	Lines   []string
	Metrics Metrics
}

// Measure returns the box of text split on '\n'. A nil provider uses BasicProvider.
func Measure(p Provider, spec FontSpec, text string) Box {
	if p == nil {
		p = BasicProvider{}
	}
	face, met := p.Resolve(spec)
	d := &font.Drawer{Face: face}
	lines := strings.Split(text, "\n")
	box := Box{Lines: lines, Metrics: met}
	for i, ln := range lines {
		if w := advance(d, ln); w > box.Width {
			box.Width = w
		}
		box.Height += met.Ascent + met.Descent
		if i < len(lines)-1 {
			box.Height += met.LineGap
		}
	}
	return box
}

// Measurer adapts a Provider to the plain (w, h) signature used by layout code.
type Measurer struct {
	Provider Provider
	Spec     FontSpec
}

func (m Measurer) Measure(text string) (float64, float64) {
	b := Measure(m.Provider, m.Spec, text)
	return b.Width, b.Height
}

func advance(d *font.Drawer, s string) float64 {
	return fixedToFloat(d.MeasureString(s))
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
