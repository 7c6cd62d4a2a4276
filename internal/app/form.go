/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package app

import (
	"math"
	"strconv"
	"strings"

	"vectorviz/internal/domain"
	"vectorviz/internal/vecparse"
	"vectorviz/internal/vector"
)

// ValidateForm converts the raw x/y entries of the vector form. Empty and
// non-numeric fields are reported as *domain.ValidationError naming the row.
func ValidateForm(rows [][2]string) ([]vector.Vec2, error) {
	if err := domain.CheckCount(len(rows)); err != nil {
		return nil, err
	}
	out := make([]vector.Vec2, len(rows))
	for i, r := range rows {
		x, err := parseComponent(i, "x", r[0])
		if err != nil {
			return nil, err
		}
		y, err := parseComponent(i, "y", r[1])
		if err != nil {
			return nil, err
		}
		out[i] = vector.V(x, y)
	}
	return out, nil
}

func parseComponent(i int, field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &domain.ValidationError{Field: field, Index: i, Msg: "required"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &domain.ValidationError{Field: field, Index: i, Msg: "not a number"}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &domain.ValidationError{Field: field, Index: i, Msg: "not a finite number"}
	}
	return v, nil
}

// FormRows renders vectors back into form text, as used when a history entry
// is recalled.
func FormRows(vs []vector.Vec2) [][2]string {
	out := make([][2]string, len(vs))
	for i, v := range vs {
		out[i] = [2]string{strconv.FormatFloat(v.X, 'g', -1, 64), strconv.FormatFloat(v.Y, 'g', -1, 64)}
	}
	return out
}

// ParseVectors reads the quick-entry syntax, e.g. "A=(3,4); B=(-1,2)", and
// checks the vector count.
func ParseVectors(text string) ([]vector.Vec2, error) {
	nv, err := vecparse.Parse(text)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckCount(len(nv)); err != nil {
		return nil, err
	}
	return domain.Values(nv), nil
}
