/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package calc holds the numeric operations behind the calculator. The same
// functions back the HTTP service and the in-process Local computer.
package calc

import (
	"context"
	"fmt"
	"math"

	"vectorviz/internal/domain"
	"vectorviz/internal/vector"
)

// Sum adds all vectors.
func Sum(vs ...vector.Vec2) vector.Vec2 { return vector.Sum(vs...) }

// Dot is the scalar product of a and b.
func Dot(a, b vector.Vec2) float64 { return a.Dot(b) }

// Magnitudes returns |v| for every input in order.
func Magnitudes(vs ...vector.Vec2) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = vector.Magnitude(v)
	}
	return out
}

// AngleDegrees returns the unsigned angle between a and b in [0, 180].
// ok is false when either vector has zero magnitude.
func AngleDegrees(a, b vector.Vec2) (deg float64, ok bool) {
	ma, mb := vector.Magnitude(a), vector.Magnitude(b)
	if ma == 0 || mb == 0 {
		return 0, false
	}
	// atan2 of |cross| and dot stays exact for parallel and antiparallel pairs
	cross := math.Abs(a.X*b.Y - a.Y*b.X)
	return math.Atan2(cross, a.Dot(b)) * 180 / math.Pi, true
}

// PairAngles returns the angle for every pair i<j.
func PairAngles(vs ...vector.Vec2) []domain.PairAngle {
	var out []domain.PairAngle
	for i := 0; i < len(vs); i++ {
		for j := i + 1; j < len(vs); j++ {
			d, ok := AngleDegrees(vs[i], vs[j])
			out = append(out, domain.PairAngle{I: i, J: j, Degrees: d, Defined: ok})
		}
	}
	return out
}

// Computer performs an operation on validated inputs. The HTTP client and
// Local both implement it.
type Computer interface {
	Compute(ctx context.Context, op domain.Operation, vs []vector.Vec2) (domain.Result, error)
}

// Local computes in-process.
type Local struct{}

func (Local) Compute(ctx context.Context, op domain.Operation, vs []vector.Vec2) (domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}
	return Evaluate(op, vs)
}

// Evaluate validates the inputs and fills the Result for op.
func Evaluate(op domain.Operation, vs []vector.Vec2) (domain.Result, error) {
	if err := domain.CheckCount(len(vs)); err != nil {
		return domain.Result{}, err
	}
	if err := domain.CheckFinite(vs); err != nil {
		return domain.Result{}, err
	}
	res := domain.Result{Operation: op, Inputs: append([]vector.Vec2(nil), vs...)}
	switch op {
	case domain.OpSum:
		s := Sum(vs...)
		res.Resultant = &s
	case domain.OpDot:
		d := Dot(vs[0], vs[1])
		res.Dot = &d
		if deg, ok := AngleDegrees(vs[0], vs[1]); ok {
			res.Angle = &deg
		} else {
			res.Detail = "undefined (null vector)"
		}
	case domain.OpMagnitude:
		res.Magnitudes = Magnitudes(vs...)
	case domain.OpAngle:
		res.Angles = PairAngles(vs...)
		if first := res.Angles[0]; first.Defined {
			deg := first.Degrees
			res.Angle = &deg
		} else {
			res.Detail = "undefined (null vector)"
		}
	default:
		return domain.Result{}, fmt.Errorf("calc: %w", &domain.ValidationError{Field: "operation", Index: -1, Msg: fmt.Sprintf("unknown operation %q", op)})
	}
	return res, nil
}
