/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontLibrary stores parsed OpenType fonts by family name and caches faces per size.
type FontLibrary struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

type faceKey struct {
	family string
	size   float64
}

func NewFontLibrary() *FontLibrary {
	return &FontLibrary{fonts: make(map[string]*opentype.Font), faces: make(map[faceKey]font.Face)}
}

// LoadTTF loads a font file under the given family.
func (fl *FontLibrary) LoadTTF(family, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return fl.LoadTTFBytes(family, data)
}

// LoadTTFBytes parses an in-memory font under the given family.
func (fl *FontLibrary) LoadTTFBytes(family string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", family, err)
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.fonts == nil {
		fl.fonts = make(map[string]*opentype.Font)
	}
	fl.fonts[family] = f
	return nil
}

// GoRegular returns a library holding the Go Regular font under "go".
func GoRegular() (*FontLibrary, error) {
	fl := NewFontLibrary()
	if err := fl.LoadTTFBytes("go", goregular.TTF); err != nil {
		return nil, err
	}
	return fl, nil
}

func (fl *FontLibrary) face(spec FontSpec, dpi float64) (font.Face, bool) {
	if fl == nil {
		return nil, false
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	f, ok := fl.fonts[spec.Family]
	if !ok {
		// any font beats the bitmap fallback
		for _, cand := range fl.fonts {
			f, ok = cand, true
			break
		}
	}
	if !ok {
		return nil, false
	}
	key := faceKey{family: spec.Family, size: spec.SizePx}
	if fc, ok := fl.faces[key]; ok {
		return fc, true
	}
	fc, err := opentype.NewFace(f, &opentype.FaceOptions{Size: spec.SizePx, DPI: dpi, Hinting: font.HintingFull})
	if err != nil {
		return nil, false
	}
	if fl.faces == nil {
		fl.faces = make(map[faceKey]font.Face)
	}
	fl.faces[key] = fc
	return fc, true
}

// OTProvider resolves FontSpec using a FontLibrary and falls back to another Provider.
type OTProvider struct {
	Lib      *FontLibrary
	DPI      float64 // 72 if zero, so SizePx equals points
	Fallback Provider
}

func (p OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.SizePx <= 0 {
		spec.SizePx = 12
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}
	if fc, ok := p.Lib.face(spec, dpi); ok {
		return fc, metricsOf(fc)
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}
