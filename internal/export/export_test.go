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
	"bytes"
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vectorviz/internal/render"
	"vectorviz/internal/vector"
)

var red = vector.Color{R: 230, G: 20, B: 20, A: 255}

func sampleScene() Scene {
	rec := render.NewRecorder(100, 80)
	rec.DrawLine("vector1_body", vector.V(10, 40), vector.V(90, 40), vector.Stroke{Color: red, Width: 4})
	rec.DrawArc("angle_1_2_major", vector.V(50, 40), 20, 0, 2*math.Pi, vector.Stroke{Color: red, Width: 2, Dash: []float64{6, 4}, Opacity: 0.5})
	rec.DrawText("vector1_label", vector.V(5, 5), "A <3 & B", vector.TextStyle{Color: vector.Black, Size: 13})
	return Snapshot(rec, vector.White, "A·B")
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, sampleScene()); err != nil {
		t.Fatalf("svg: %v", err)
	}
	s := buf.String()
	for _, want := range []string{
		`<line id="vector1_body"`,
		`<path id="angle_1_2_major"`,
		`stroke-dasharray="6,4"`,
		`stroke-opacity="0.5"`,
		`A &lt;3 &amp; B`,
		`<title>A·B</title>`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("svg missing %q:\n%s", want, s)
		}
	}
	// a full circle needs two arc commands
	if strings.Count(s, " A 20.00 20.00") != 2 {
		t.Fatalf("full circle should be split in two arcs:\n%s", s)
	}
}

func TestArcPathDirection(t *testing.T) {
	// quarter arc from +x to +y: ends above the center on screen
	d := arcPath(vector.V(0, 0), 10, 0, math.Pi/2)
	if d != "M 10.00 -0.00 A 10.00 10.00 0 0 0 0.00 -10.00" && d != "M 10.00 0.00 A 10.00 10.00 0 0 0 0.00 -10.00" {
		t.Fatalf("unexpected path %q", d)
	}
	if large := arcPath(vector.V(0, 0), 10, 0, 1.5*math.Pi); !strings.Contains(large, " 0 1 0 ") {
		t.Fatalf("expected large-arc flag for 270°: %q", large)
	}
}

func TestRasterize(t *testing.T) {
	img := Rasterize(sampleScene(), PNGOptions{})
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
		t.Fatalf("unexpected size %v", b)
	}
	if c := img.RGBAAt(50, 75); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Fatalf("background should be white, got %v", c)
	}
	if c := img.RGBAAt(80, 40); c.R < 200 || c.G > 60 {
		t.Fatalf("line pixel should be red, got %v", c)
	}

	big := Rasterize(sampleScene(), PNGOptions{Scale: 2})
	if b := big.Bounds(); b.Dx() != 200 || b.Dy() != 160 {
		t.Fatalf("@2x size wrong: %v", b)
	}
	if c := big.RGBAAt(160, 80); c.R < 200 || c.G > 60 {
		t.Fatalf("scaled line pixel should be red, got %v", c)
	}
}

func TestDashPolylineCarriesPhase(t *testing.T) {
	segs := [][2]vector.Vec2{{{X: 0, Y: 0}, {X: 4, Y: 0}}, {{X: 4, Y: 0}, {X: 8, Y: 0}}, {{X: 8, Y: 0}, {X: 20, Y: 0}}}
	on := dashPolyline(segs, []float64{6, 4})
	var total float64
	for _, p := range on {
		total += vector.Magnitude(p[1].Sub(p[0]))
	}
	// 0-6 on, 6-10 off, 10-16 on, 16-20 off
	if math.Abs(total-12) > 1e-9 {
		t.Fatalf("expected 12 units on, got %v (%v)", total, on)
	}
}

func TestWritePNGDecodes(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, sampleScene(), PNGOptions{}); err != nil {
		t.Fatalf("png: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 100 {
		t.Fatalf("unexpected width %d", img.Bounds().Dx())
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sampleScene()); err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestWriteFile_UnknownExtension(t *testing.T) {
	p := filepath.Join(t.TempDir(), "scene.bmp")
	if err := WriteFile(sampleScene(), p); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Fatalf("failed export must not leave a file behind")
	}
}

func TestBatch_Presets(t *testing.T) {
	dir := t.TempDir()
	web, err := Batch(sampleScene(), BatchOptions{Preset: PresetWeb, OutDir: filepath.Join(dir, "web")})
	if err != nil {
		t.Fatalf("web: %v", err)
	}
	prt, err := Batch(sampleScene(), BatchOptions{Preset: PresetPrint, OutDir: filepath.Join(dir, "print"), Name: "sum"})
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	want := []string{
		filepath.Join(dir, "web", "scene.svg"),
		filepath.Join(dir, "web", "scene.png"),
		filepath.Join(dir, "print", "sum.pdf"),
		filepath.Join(dir, "print", "sum@2x.png"),
	}
	got := append(web, prt...)
	if len(got) != len(want) {
		t.Fatalf("unexpected outputs %v", got)
	}
	for i, p := range want {
		if got[i] != p {
			t.Fatalf("output %d: got %s want %s", i, got[i], p)
		}
		st, err := os.Stat(p)
		if err != nil || st.Size() == 0 {
			t.Fatalf("missing or empty %s: %v", p, err)
		}
	}
}
