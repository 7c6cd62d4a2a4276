/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package numfmt holds the one number formatting rule used by every numeric
// display: labels, tick marks, results, history and the pointer readout.
package numfmt

import (
	"math"
	"strconv"
	"strings"
)

// Thresholds for switching to scientific notation.
const (
	SmallLimit = 0.01
	LargeLimit = 9999
)

// Format renders v with the given number of decimals. Non-zero values with
// magnitude below SmallLimit or above LargeLimit use scientific notation with
// the same number of mantissa decimals, e.g. "1.23e-3" or "1.50e+4".
func Format(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}
	a := math.Abs(v)
	if a != 0 && (a < SmallLimit || a > LargeLimit) {
		return trimExponent(strconv.FormatFloat(v, 'e', decimals, 64))
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s, "-0.") == "" {
		s = s[1:]
	}
	return s
}

// trimExponent turns Go's "1.23e-03" into "1.23e-3".
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 > len(s) {
		return s
	}
	mant, sign, digits := s[:i], s[i+1], strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + string(sign) + digits
}

// Fixed2 is Format with two decimals, the default for results and labels.
func Fixed2(v float64) string { return Format(v, 2) }

// Degrees formats an angle already expressed in degrees.
func Degrees(deg float64) string { return Format(deg, 2) + "°" }

// Pair formats a vector as "(x, y)".
func Pair(x, y float64) string { return "(" + Fixed2(x) + ", " + Fixed2(y) + ")" }

// Coord formats the pointer readout "X: x, Y: y".
func Coord(x, y float64) string { return "X: " + Fixed2(x) + ", Y: " + Fixed2(y) }

// DecimalsForStep returns how many decimals are needed to tell apart
// neighbouring multiples of step. Finer steps need more digits.
func DecimalsForStep(step float64) int {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return 2
	}
	d := int(-math.Floor(math.Log10(step) + 1e-9))
	if d < 0 {
		return 0
	}
	return d
}
