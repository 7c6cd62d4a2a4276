/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package grid picks grid spacing and axis ticks for the current zoom.
package grid

import (
	"math"

	"vectorviz/internal/numfmt"
	"vectorviz/internal/view"
)

// Steps is the ascending table of grid steps in math units: 1, 2, 5 per decade.
var Steps = buildSteps(-4, 6)

func buildSteps(fromExp, toExp int) []float64 {
	var out []float64
	for e := fromExp; e <= toExp; e++ {
		for _, m := range []float64{1, 2, 5} {
			// dividing keeps 0.05 and friends identical to their literals
			if e < 0 {
				out = append(out, m/math.Pow(10, float64(-e)))
			} else {
				out = append(out, m*math.Pow(10, float64(e)))
			}
		}
	}
	return out
}

const (
	DefaultMinSpacingPx = 40
	DefaultMaxSpacingPx = 160
	// maxLines guards against pathological viewports.
	maxLines = 500
)

// StepFor returns the first table step whose device spacing is at least minPx.
// Scales beyond the table use its ends.
func StepFor(scale, minPx float64) float64 {
	if minPx <= 0 {
		minPx = DefaultMinSpacingPx
	}
	for _, s := range Steps {
		if s*scale >= minPx {
			return s
		}
	}
	return Steps[len(Steps)-1]
}

// Grid remembers the last chosen step so small zoom changes around a table
// boundary do not flip the density back and forth.
type Grid struct {
	MinSpacingPx float64
	MaxSpacingPx float64
	last         float64
}

func New() *Grid {
	return &Grid{MinSpacingPx: DefaultMinSpacingPx, MaxSpacingPx: DefaultMaxSpacingPx}
}

// Step returns the step for scale, keeping the previous one while its device
// spacing stays within [0.8*MinSpacingPx, MaxSpacingPx].
func (g *Grid) Step(scale float64) float64 {
	if g.MinSpacingPx <= 0 {
		g.MinSpacingPx = DefaultMinSpacingPx
	}
	if g.MaxSpacingPx <= g.MinSpacingPx {
		g.MaxSpacingPx = 4 * g.MinSpacingPx
	}
	if g.last > 0 {
		px := g.last * scale
		if px >= 0.8*g.MinSpacingPx && px <= g.MaxSpacingPx {
			return g.last
		}
	}
	g.last = StepFor(scale, g.MinSpacingPx)
	return g.last
}

// Layout is the set of grid lines for one frame.
type Layout struct {
	Step     float64
	Decimals int
	// Xs are the math x positions of vertical lines, Ys of horizontal lines.
	Xs []float64
	Ys []float64
}

// Compute lays out grid lines covering vp for the given scale.
func (g *Grid) Compute(vp view.Viewport, scale float64) Layout {
	step := g.Step(scale)
	return Layout{
		Step:     step,
		Decimals: numfmt.DecimalsForStep(step),
		Xs:       multiples(vp.Left, vp.Right, step),
		Ys:       multiples(vp.Bottom, vp.Top, step),
	}
}

// Label formats a tick value with the precision of the current step.
func (l Layout) Label(v float64) string { return numfmt.Format(v, l.Decimals) }

// multiples returns k*step for every integer k with lo <= k*step <= hi.
func multiples(lo, hi, step float64) []float64 {
	if step <= 0 || hi < lo {
		return nil
	}
	k0 := math.Ceil(lo / step)
	k1 := math.Floor(hi / step)
	if k1-k0+1 > maxLines {
		k1 = k0 + maxLines - 1
	}
	out := make([]float64, 0, int(k1-k0+1))
	for k := k0; k <= k1; k++ {
		v := k * step
		if v == 0 {
			v = 0 // normalize -0
		}
		out = append(out, v)
	}
	return out
}
