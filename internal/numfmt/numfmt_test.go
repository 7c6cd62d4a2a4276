/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package numfmt

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		v    float64
		d    int
		want string
	}{
		{6.324555, 2, "6.32"},
		{71.565051, 2, "71.57"},
		{0, 2, "0.00"},
		{-0.001, 2, "-1.00e-3"},
		{0.00123, 2, "1.23e-3"},
		{15000, 2, "1.50e+4"},
		{9999, 0, "9999"},
		{0.01, 2, "0.01"},
		{-0.0000, 2, "0.00"},
		{2.5, 0, "2"},
	}
	for _, c := range cases {
		if got := Format(c.v, c.d); got != c.want {
			t.Fatalf("Format(%v,%d)=%q want %q", c.v, c.d, got, c.want)
		}
	}
}

func TestWrappers(t *testing.T) {
	if got := Degrees(90); got != "90.00°" {
		t.Fatalf("Degrees: %q", got)
	}
	if got := Pair(2, 6); got != "(2.00, 6.00)" {
		t.Fatalf("Pair: %q", got)
	}
	if got := Coord(1.234, -5); got != "X: 1.23, Y: -5.00" {
		t.Fatalf("Coord: %q", got)
	}
}

func TestDecimalsForStep(t *testing.T) {
	cases := map[float64]int{1000: 0, 5: 0, 1: 0, 0.5: 1, 0.2: 1, 0.1: 1, 0.05: 2, 0.001: 3}
	for step, want := range cases {
		if got := DecimalsForStep(step); got != want {
			t.Fatalf("DecimalsForStep(%v)=%d want %d", step, got, want)
		}
	}
}
