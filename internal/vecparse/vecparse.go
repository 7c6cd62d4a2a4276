/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package vecparse reads vector lists typed as text, e.g.
//
//	A=(3,4); B=(-1, 2.5)
//	(1,0) (0,1) (2e-3,-4)
//
// Names are optional and default to A, B, C in order.
package vecparse

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"vectorviz/internal/domain"
	"vectorviz/internal/vector"
)

var vecLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "Number", Pattern: `[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[=:;,()]`},
})

// List is the parsed document.
type List struct {
	Items []*Item `parser:"( @@ ( ';' | ',' )? )*"`
}

// Item is one vector literal with an optional name.
type Item struct {
	Pos  lexer.Position
	Name string  `parser:"( @Ident ( '=' | ':' ) )?"`
	X    float64 `parser:"'(' @Number ','"`
	Y    float64 `parser:"@Number ')'"`
}

var parser = participle.MustBuild[List](
	participle.Lexer(vecLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Parse returns the vectors in input order. It does not enforce the
// two-to-ten limit; callers validate counts with domain.CheckCount.
func Parse(input string) ([]domain.NamedVector, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	doc, err := parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse vectors: %w", err)
	}
	out := make([]domain.NamedVector, 0, len(doc.Items))
	seen := map[string]bool{}
	for i, it := range doc.Items {
		name := it.Name
		if name == "" {
			name = domain.VectorName(i)
		}
		key := strings.ToUpper(name)
		if seen[key] {
			return nil, fmt.Errorf("parse vectors: %s: duplicate name %q", it.Pos, name)
		}
		seen[key] = true
		out = append(out, domain.NamedVector{Name: name, V: vector.V(it.X, it.Y)})
	}
	return out, nil
}

// Format renders vectors back into the syntax Parse accepts.
func Format(vs []vector.Vec2) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%s=(%g,%g)", domain.VectorName(i), v.X, v.Y)
	}
	return strings.Join(parts, "; ")
}
