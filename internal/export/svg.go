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
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"vectorviz/internal/render"
	"vectorviz/internal/vector"
)

// WriteSVG writes sc as a standalone SVG document sized in pixels.
// Each primitive keeps its id.
func WriteSVG(w io.Writer, sc Scene) error {
	bw := bufio.NewWriter(w)
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(bw, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"0 0 %g %g\">\n", sc.Width, sc.Height, sc.Width, sc.Height)
	if sc.Title != "" {
		wf("  <title>%s</title>\n", escText(sc.Title))
	}
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", sc.Width, sc.Height, sc.Background.Hex())

	for _, p := range sc.Primitives {
		switch p.Kind {
		case render.KindLine:
			wf("  <line id=\"%s\" x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\"%s/>\n",
				escAttr(p.ID), p.From.X, p.From.Y, p.To.X, p.To.Y, strokeAttrs(p.Stroke))
		case render.KindArc:
			wf("  <path id=\"%s\" d=\"%s\" fill=\"none\"%s/>\n", escAttr(p.ID), arcPath(p.Center, p.Radius, p.Start, p.End), strokeAttrs(p.Stroke))
		case render.KindText:
			size := p.TextStyle.Size
			if size <= 0 {
				size = 13
			}
			wf("  <text id=\"%s\" x=\"%.2f\" y=\"%.2f\" font-family=\"Go, Helvetica, Arial, sans-serif\" font-size=\"%g\" dominant-baseline=\"hanging\" fill=\"%s\">%s</text>\n",
				escAttr(p.ID), p.At.X, p.At.Y, size, p.TextStyle.Color.Hex(), escText(p.Text))
		}
	}
	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func strokeAttrs(s vector.Stroke) string {
	var b strings.Builder
	width := s.Width
	if width <= 0 {
		width = 1
	}
	fmt.Fprintf(&b, " stroke=\"%s\" stroke-width=\"%g\"", s.Color.Hex(), width)
	if s.Cap == vector.CapRound {
		b.WriteString(" stroke-linecap=\"round\"")
	}
	if s.Dashed() {
		parts := make([]string, len(s.Dash))
		for i, d := range s.Dash {
			parts[i] = fmt.Sprintf("%g", d)
		}
		fmt.Fprintf(&b, " stroke-dasharray=\"%s\"", strings.Join(parts, ","))
	}
	if op := s.EffectiveOpacity(); op < 1 {
		fmt.Fprintf(&b, " stroke-opacity=\"%g\"", op)
	}
	return b.String()
}

// arcPath converts a math-convention arc (counter-clockwise, y up) around a
// device center into SVG path data. Full circles are split in two because an
// SVG arc whose endpoints coincide draws nothing.
func arcPath(c vector.Vec2, r, start, end float64) string {
	pt := func(a float64) (float64, float64) {
		return c.X + r*math.Cos(a), c.Y - r*math.Sin(a)
	}
	seg := func(from, to float64) string {
		large := 0
		if to-from > math.Pi {
			large = 1
		}
		x, y := pt(to)
		// sweep-flag 0: counter-clockwise on screen
		return fmt.Sprintf(" A %.2f %.2f 0 %d 0 %.2f %.2f", r, r, large, x, y)
	}
	x0, y0 := pt(start)
	d := fmt.Sprintf("M %.2f %.2f", x0, y0)
	if end-start >= 2*math.Pi-1e-9 {
		mid := (start + end) / 2
		return d + seg(start, mid) + seg(mid, end)
	}
	return d + seg(start, end)
}

func escAttr(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '"':
			out = append(out, "&quot;"...)
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '\n':
			out = append(out, ' ')
		case '\r':
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
