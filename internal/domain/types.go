/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the data model shared by the calculator, the service,
// history and the renderer. Everything here serializes to JSON so results can
// travel over the wire and into the history store unchanged.

import (
	"fmt"
	"math"
	"strings"

	"vectorviz/internal/numfmt"
	"vectorviz/internal/vector"
)

// Limits on the number of input vectors.
const (
	MinVectors = 2
	MaxVectors = 10
)

// Operation is one of the four calculations offered by the form.
type Operation string

const (
	OpSum       Operation = "sum"
	OpDot       Operation = "dot"
	OpMagnitude Operation = "magnitude"
	OpAngle     Operation = "angle"
)

// Operations lists every operation in display order.
var Operations = []Operation{OpSum, OpDot, OpMagnitude, OpAngle}

// ParseOperation accepts the operation name case-insensitively.
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	for _, o := range Operations {
		if o == op {
			return op, nil
		}
	}
	return "", &ValidationError{Field: "operation", Index: -1, Msg: fmt.Sprintf("unknown operation %q", s)}
}

// Title is the label used on buttons and in history.
func (o Operation) Title() string {
	switch o {
	case OpSum:
		return "Sum"
	case OpDot:
		return "Dot product"
	case OpMagnitude:
		return "Magnitude"
	case OpAngle:
		return "Angle"
	}
	return string(o)
}

// VectorName returns the display name for input index i: A, B, C, ...
func VectorName(i int) string {
	if i >= 0 && i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("V%d", i+1)
}

// NamedVector is an input vector with its display name.
type NamedVector struct {
	Name string      `json:"name"`
	V    vector.Vec2 `json:"v"`
}

// Values strips the names.
func Values(nv []NamedVector) []vector.Vec2 {
	out := make([]vector.Vec2, len(nv))
	for i, n := range nv {
		out[i] = n.V
	}
	return out
}

// PairAngle is the unordered angle between inputs I and J (I < J).
// Defined is false when either vector has zero magnitude.
type PairAngle struct {
	I       int     `json:"i"`
	J       int     `json:"j"`
	Degrees float64 `json:"degrees"`
	Defined bool    `json:"defined"`
}

// Result is the outcome of one calculation.
type Result struct {
	Operation  Operation     `json:"operation"`
	Inputs     []vector.Vec2 `json:"inputs"`
	Resultant  *vector.Vec2  `json:"resultant,omitempty"`
	Dot        *float64      `json:"dot,omitempty"`
	Magnitudes []float64     `json:"magnitudes,omitempty"`
	// Angle is the angle between the first two inputs in degrees; nil when undefined.
	Angle  *float64    `json:"angle,omitempty"`
	Angles []PairAngle `json:"angles,omitempty"`
	Detail string      `json:"detail,omitempty"`
}

// ResultantMagnitude and ResultantDirection describe the sum; zero without one.
func (r Result) ResultantMagnitude() float64 {
	if r.Resultant == nil {
		return 0
	}
	return vector.Magnitude(*r.Resultant)
}

// ResultantDirection is the heading of the resultant in degrees.
func (r Result) ResultantDirection() float64 {
	if r.Resultant == nil {
		return 0
	}
	return vector.Direction(*r.Resultant) * 180 / math.Pi
}

// Lines renders the result card text.
func (r Result) Lines() []string {
	switch r.Operation {
	case OpSum:
		if r.Resultant == nil {
			return []string{"Resultant: n/a"}
		}
		return []string{
			"Resultant: " + numfmt.Pair(r.Resultant.X, r.Resultant.Y),
			"Magnitude: " + numfmt.Fixed2(r.ResultantMagnitude()),
			"Direction: " + numfmt.Degrees(r.ResultantDirection()),
		}
	case OpDot:
		if r.Dot == nil {
			return []string{"Dot product: n/a"}
		}
		return []string{"Dot product: " + numfmt.Fixed2(*r.Dot)}
	case OpMagnitude:
		out := make([]string, 0, len(r.Magnitudes))
		for i, m := range r.Magnitudes {
			out = append(out, fmt.Sprintf("|%s| = %s", VectorName(i), numfmt.Fixed2(m)))
		}
		return out
	case OpAngle:
		out := make([]string, 0, len(r.Angles))
		for _, a := range r.Angles {
			val := "undefined (null vector)"
			if a.Defined {
				val = numfmt.Degrees(a.Degrees)
			}
			out = append(out, fmt.Sprintf("Between %s and %s: %s", VectorName(a.I), VectorName(a.J), val))
		}
		return out
	}
	return nil
}

// Summary is the one-line text shown in the history list.
func (r Result) Summary() string {
	switch r.Operation {
	case OpSum:
		if r.Resultant != nil {
			return "Vector: " + numfmt.Pair(r.Resultant.X, r.Resultant.Y)
		}
	case OpDot:
		if r.Dot != nil {
			return "Dot: " + numfmt.Fixed2(*r.Dot)
		}
	case OpMagnitude:
		parts := make([]string, len(r.Magnitudes))
		for i, m := range r.Magnitudes {
			parts[i] = numfmt.Fixed2(m)
		}
		return "Magnitudes: " + strings.Join(parts, ", ")
	case OpAngle:
		if r.Angle != nil {
			return "Angle: " + numfmt.Degrees(*r.Angle)
		}
		return "Angle: undefined"
	}
	return string(r.Operation)
}

// ValidationError reports bad form input before any service call.
// Index is the zero-based vector row, or -1 when not row specific.
type ValidationError struct {
	Field string
	Index int
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("vector %s: %s: %s", VectorName(e.Index), e.Field, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// CheckCount validates the number of vectors.
func CheckCount(n int) error {
	if n < MinVectors {
		return &ValidationError{Field: "vectors", Index: -1, Msg: fmt.Sprintf("at least %d vectors are required", MinVectors)}
	}
	if n > MaxVectors {
		return &ValidationError{Field: "vectors", Index: -1, Msg: fmt.Sprintf("at most %d vectors are allowed", MaxVectors)}
	}
	return nil
}

// CheckFinite rejects NaN and infinite components.
func CheckFinite(vs []vector.Vec2) error {
	for i, v := range vs {
		if math.IsNaN(v.X) || math.IsInf(v.X, 0) {
			return &ValidationError{Field: "x", Index: i, Msg: "not a finite number"}
		}
		if math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
			return &ValidationError{Field: "y", Index: i, Msg: "not a finite number"}
		}
	}
	return nil
}
