/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package calc

import (
	"context"
	"errors"
	"math"
	"testing"

	"vectorviz/internal/domain"
	"vectorviz/internal/vector"
)

func TestAngleDegrees(t *testing.T) {
	cases := []struct {
		a, b vector.Vec2
		want float64
	}{
		{vector.V(1, 0), vector.V(0, 1), 90},
		{vector.V(1, 0), vector.V(-1, 0), 180},
		{vector.V(2, 2), vector.V(5, 5), 0},
		{vector.V(3, 4), vector.V(-1, 2), 63.43494882},
	}
	for _, c := range cases {
		got, ok := AngleDegrees(c.a, c.b)
		if !ok || math.Abs(got-c.want) > 1e-6 {
			t.Fatalf("angle(%v,%v): got %v ok=%v want %v", c.a, c.b, got, ok, c.want)
		}
	}
	if _, ok := AngleDegrees(vector.V(0, 0), vector.V(1, 1)); ok {
		t.Fatalf("zero vector must be undefined")
	}
}

func TestEvaluate_CollinearAnglesDisplayExactly(t *testing.T) {
	cases := []struct {
		a, b    vector.Vec2
		summary string
		line    string
	}{
		{vector.V(2, 2), vector.V(5, 5), "Angle: 0.00°", "Between A and B: 0.00°"},
		{vector.V(1, 2), vector.V(-3, -6), "Angle: 180.00°", "Between A and B: 180.00°"},
	}
	for _, c := range cases {
		res, err := Evaluate(domain.OpAngle, []vector.Vec2{c.a, c.b})
		if err != nil {
			t.Fatalf("evaluate %v %v: %v", c.a, c.b, err)
		}
		if got := res.Summary(); got != c.summary {
			t.Fatalf("summary for %v %v: got %q want %q", c.a, c.b, got, c.summary)
		}
		if got := res.Lines(); len(got) != 1 || got[0] != c.line {
			t.Fatalf("lines for %v %v: got %q want %q", c.a, c.b, got, c.line)
		}
	}
}

func TestEvaluate_Operations(t *testing.T) {
	in := []vector.Vec2{{X: 3, Y: 4}, {X: -1, Y: 2}}
	sum, err := Evaluate(domain.OpSum, in)
	if err != nil || sum.Resultant == nil || *sum.Resultant != vector.V(2, 6) {
		t.Fatalf("sum: %+v %v", sum, err)
	}
	dot, _ := Evaluate(domain.OpDot, in)
	if dot.Dot == nil || *dot.Dot != 5 || dot.Angle == nil {
		t.Fatalf("dot: %+v", dot)
	}
	mag, _ := Evaluate(domain.OpMagnitude, in)
	if len(mag.Magnitudes) != 2 || mag.Magnitudes[0] != 5 {
		t.Fatalf("magnitude: %+v", mag)
	}
	three := []vector.Vec2{{X: 1, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 1}}
	ang, _ := Evaluate(domain.OpAngle, three)
	if len(ang.Angles) != 3 || ang.Angle != nil || ang.Detail == "" {
		t.Fatalf("angle with null vector: %+v", ang)
	}
	if a := ang.Angles[1]; !a.Defined || a.I != 0 || a.J != 2 || math.Abs(a.Degrees-90) > 1e-9 {
		t.Fatalf("unexpected pair ordering: %+v", ang.Angles)
	}
}

func TestEvaluate_Rejects(t *testing.T) {
	var ve *domain.ValidationError
	if _, err := Evaluate(domain.OpSum, []vector.Vec2{{X: 1, Y: 1}}); !errors.As(err, &ve) {
		t.Fatalf("expected count validation error, got %v", err)
	}
	if _, err := Evaluate("cross", []vector.Vec2{{X: 1, Y: 1}, {X: 2, Y: 2}}); !errors.As(err, &ve) {
		t.Fatalf("expected operation validation error, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Local{}).Compute(ctx, domain.OpSum, []vector.Vec2{{X: 1, Y: 1}, {X: 2, Y: 2}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
