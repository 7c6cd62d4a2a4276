/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"fmt"
	"strconv"
	"strings"
)

// Styles and paint definitions.

type Color struct{ R, G, B, A uint8 }

var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Transparent = Color{0, 0, 0, 0}
)

// Plane palette.
var (
	ColorFirst  = MustHex("#4fd1c5")
	ColorSecond = MustHex("#81e6d9")
	ColorOther  = MustHex("#f6e05e")
	ColorResult = MustHex("#f687b3")
	ColorGrid   = Color{74, 85, 104, 255}
	ColorAxis   = Color{160, 174, 192, 255}
	ColorText   = Color{226, 232, 240, 255}
)

// InputColor returns the color for the input vector at index i.
func InputColor(i int) Color {
	switch i {
	case 0:
		return ColorFirst
	case 1:
		return ColorSecond
	default:
		return ColorOther
	}
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(s) == 6 {
		return Color{uint8(n >> 16), uint8(n >> 8), uint8(n), 255}, nil
	}
	return Color{uint8(n >> 24), uint8(n >> 16), uint8(n >> 8), uint8(n)}, nil
}

// MustHex is ParseHex for package-level constants.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as "#rrggbb", ignoring alpha.
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

type LineCap uint8

const (
	CapButt LineCap = iota
	CapRound
	CapSquare
)

// Stroke describes how a line or arc is painted.
// Dash is an on/off pattern in device pixels; empty means solid.
// Opacity multiplies the color alpha; zero is treated as fully opaque.
type Stroke struct {
	Color   Color
	Width   float64
	Cap     LineCap
	Dash    []float64
	Opacity float64
}

func (s Stroke) Dashed() bool { return len(s.Dash) > 0 }

// EffectiveOpacity returns Opacity in (0,1], defaulting to 1.
func (s Stroke) EffectiveOpacity() float64 {
	if s.Opacity <= 0 || s.Opacity > 1 {
		return 1
	}
	return s.Opacity
}

// TextStyle describes a text label.
type TextStyle struct {
	Color Color
	Size  float64
}
