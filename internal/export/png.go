/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	xvector "golang.org/x/image/vector"

	"vectorviz/internal/render"
	"vectorviz/internal/textlayout"
	"vectorviz/internal/vector"
)

// PNGOptions controls rasterization.
type PNGOptions struct {
	// Scale multiplies the canvas size; 2 gives a @2x image. Zero means 1.
	Scale float64
	// Fonts resolves label faces; nil uses the built-in bitmap face.
	Fonts textlayout.Provider
}

// arcStepPx bounds the length of one flattened arc segment.
const arcStepPx = 2

// Rasterize paints sc into a new RGBA image. Strokes are anti-aliased
// polygons; dashes follow the stroke pattern continuously along arcs.
func Rasterize(sc Scene, opt PNGOptions) *image.RGBA {
	k := opt.Scale
	if k <= 0 {
		k = 1
	}
	fonts := opt.Fonts
	if fonts == nil {
		fonts = textlayout.BasicProvider{}
	}
	pw := int(math.Ceil(sc.Width * k))
	ph := int(math.Ceil(sc.Height * k))
	img := image.NewRGBA(image.Rect(0, 0, max(pw, 1), max(ph, 1)))
	draw.Draw(img, img.Bounds(), image.NewUniform(toRGBA(sc.Background)), image.Point{}, draw.Src)

	for _, p := range sc.Primitives {
		switch p.Kind {
		case render.KindLine:
			strokePolyline(img, [][2]vector.Vec2{{p.From.Scale(k), p.To.Scale(k)}}, p.Stroke, k)
		case render.KindArc:
			path := vector.DeviceArc(p.Center.Scale(k), p.Radius*k, p.Start, p.End, arcStepPx)
			strokePolyline(img, path.Segments(), p.Stroke, k)
		case render.KindText:
			size := p.TextStyle.Size
			if size <= 0 {
				size = 13
			}
			face, met := fonts.Resolve(textlayout.FontSpec{Family: "label", SizePx: size * k})
			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(toRGBA(p.TextStyle.Color)),
				Face: face,
				Dot:  fixed.P(int(math.Round(p.At.X*k)), int(math.Round(p.At.Y*k+met.Ascent))),
			}
			d.DrawString(p.Text)
		}
	}
	return img
}

// WritePNG rasterizes sc and encodes it to w.
func WritePNG(w io.Writer, sc Scene, opt PNGOptions) error {
	if err := png.Encode(w, Rasterize(sc, opt)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func toRGBA(c vector.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func strokeColor(s vector.Stroke) color.NRGBA {
	a := float64(s.Color.A) * s.EffectiveOpacity()
	return color.NRGBA{R: s.Color.R, G: s.Color.G, B: s.Color.B, A: uint8(math.Round(a))}
}

// strokePolyline fills every "on" piece of the polyline as a quad of the
// stroke width. The dash phase carries over segment boundaries.
func strokePolyline(img *image.RGBA, segs [][2]vector.Vec2, s vector.Stroke, k float64) {
	width := s.Width
	if width <= 0 {
		width = 1
	}
	width *= k
	pieces := segs
	if s.Dashed() {
		pattern := make([]float64, len(s.Dash))
		for i, d := range s.Dash {
			pattern[i] = d * k
		}
		pieces = dashPolyline(segs, pattern)
	}
	if len(pieces) == 0 {
		return
	}
	b := img.Bounds()
	z := xvector.NewRasterizer(b.Dx(), b.Dy())
	for _, pc := range pieces {
		quad(z, pc[0], pc[1], width, s.Cap == vector.CapRound)
	}
	z.Draw(img, b, image.NewUniform(strokeColor(s)), image.Point{})
}

// quad adds the rectangle covering segment a-b at width w. Round caps are
// approximated by extending the ends by half the width.
func quad(z *xvector.Rasterizer, a, b vector.Vec2, w float64, capped bool) {
	d := b.Sub(a)
	l := vector.Magnitude(d)
	if l == 0 {
		return
	}
	u := d.Scale(1 / l)
	n := vector.V(-u.Y, u.X).Scale(w / 2)
	if capped {
		a = a.Sub(u.Scale(w / 2))
		b = b.Add(u.Scale(w / 2))
	}
	p0, p1, p2, p3 := a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)
	z.MoveTo(float32(p0.X), float32(p0.Y))
	z.LineTo(float32(p1.X), float32(p1.Y))
	z.LineTo(float32(p2.X), float32(p2.Y))
	z.LineTo(float32(p3.X), float32(p3.Y))
	z.ClosePath()
}

// dashPolyline walks segs with pattern and returns the "on" pieces.
func dashPolyline(segs [][2]vector.Vec2, pattern []float64) [][2]vector.Vec2 {
	var sum float64
	for _, d := range pattern {
		sum += math.Max(d, 0)
	}
	if sum == 0 {
		return segs
	}
	var out [][2]vector.Vec2
	idx := 0
	left := math.Max(pattern[0], 0)
	for _, sg := range segs {
		a, b := sg[0], sg[1]
		total := vector.Magnitude(b.Sub(a))
		pos := 0.0
		for pos < total {
			step := math.Min(left, total-pos)
			if idx%2 == 0 && step > 0 {
				out = append(out, [2]vector.Vec2{a.Lerp(b, pos/total), a.Lerp(b, (pos+step)/total)})
			}
			pos += step
			left -= step
			if left <= 0 {
				idx++
				left = math.Max(pattern[idx%len(pattern)], 0)
			}
		}
	}
	return out
}
