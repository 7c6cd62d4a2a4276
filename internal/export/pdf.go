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
	"io"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/gofont/goregular"

	"vectorviz/internal/render"
	"vectorviz/internal/vector"
)

// pdfFont is the embedded UTF-8 family; the core fonts cannot show θ.
const pdfFont = "goregular"

// WritePDF writes sc as a one-page vector PDF. One device pixel maps to one
// point, so the page has the canvas size.
func WritePDF(w io.Writer, sc Scene) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: sc.Width, Ht: sc.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if sc.Title != "" {
		pdf.SetTitle(sc.Title, true)
	}
	pdf.SetCreator("vectorviz", false)
	pdf.AddUTF8FontFromBytes(pdfFont, "", goregular.TTF)
	pdf.AddPage()

	setFillColor(pdf, sc.Background)
	pdf.Rect(0, 0, sc.Width, sc.Height, "F")

	for _, p := range sc.Primitives {
		switch p.Kind {
		case render.KindLine:
			applyStroke(pdf, p.Stroke)
			pdf.MoveTo(p.From.X, p.From.Y)
			pdf.LineTo(p.To.X, p.To.Y)
			pdf.DrawPath("D")
		case render.KindArc:
			applyStroke(pdf, p.Stroke)
			path := vector.DeviceArc(p.Center, p.Radius, p.Start, p.End, arcStepPx)
			for _, c := range path.Cmds {
				switch c.Op {
				case vector.MoveTo:
					pdf.MoveTo(c.P.X, c.P.Y)
				case vector.LineTo:
					pdf.LineTo(c.P.X, c.P.Y)
				}
			}
			pdf.DrawPath("D")
		case render.KindText:
			size := p.TextStyle.Size
			if size <= 0 {
				size = 13
			}
			pdf.SetAlpha(1, "Normal")
			pdf.SetFont(pdfFont, "", size)
			c := p.TextStyle.Color
			pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
			// Text takes the baseline; the ascent of Go Regular is about 0.93 em
			pdf.Text(p.At.X, p.At.Y+0.93*size, p.Text)
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func applyStroke(pdf *gofpdf.Fpdf, s vector.Stroke) {
	setDrawColor(pdf, s.Color)
	width := s.Width
	if width <= 0 {
		width = 1
	}
	pdf.SetLineWidth(width)
	if s.Cap == vector.CapRound {
		pdf.SetLineCapStyle("round")
	} else {
		pdf.SetLineCapStyle("butt")
	}
	if s.Dashed() {
		pdf.SetDashPattern(s.Dash, 0)
	} else {
		pdf.SetDashPattern([]float64{}, 0)
	}
	pdf.SetAlpha(s.EffectiveOpacity(), "Normal")
}

func setDrawColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c vector.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
