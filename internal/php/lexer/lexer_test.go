// Copyright 2026 Stefan Squareweave. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package lexer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/stefan-squareweave/phpstan/internal/php/lexer"
	"github.com/stefan-squareweave/phpstan/internal/php/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		ks = append(ks, t.Kind)
	}

	return ks
}

func TestTokens(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name string
		src  string
		want []token.Kind
	}{
		{
			name: "assignment",
			src:  `<?php $x = 1;`,
			want: []token.Kind{token.Variable, token.Assign, token.Number, token.Semicolon, token.EOF},
		},
		{
			name: "keywords are case insensitive",
			src:  `<?php IF (TRUE) ECHO $x;`,
			want: []token.Kind{
				token.If, token.LParen, token.Ident, token.RParen,
				token.Echo, token.Variable, token.Semicolon, token.EOF,
			},
		},
		{
			name: "compound operators longest first",
			src:  `<?php $a ??= $b ?? $c === $d;`,
			want: []token.Kind{
				token.Variable, token.CoalesceAssign, token.Variable, token.Coalesce,
				token.Variable, token.Identical, token.Variable, token.Semicolon, token.EOF,
			},
		},
		{
			name: "comments are skipped",
			src:  "<?php // line\n# hash\n/* block */ $x;",
			want: []token.Kind{token.Variable, token.Semicolon, token.EOF},
		},
		{
			name: "close tag resumes after html",
			src:  "<?php $a; ?> <b>html</b> <?php $c;",
			want: []token.Kind{token.Variable, token.Semicolon, token.Variable, token.Semicolon, token.EOF},
		},
		{
			name: "string literals",
			src:  `<?php 'it''s' . "a \"b\"";`,
			want: []token.Kind{token.String, token.String, token.Concat, token.String, token.Semicolon, token.EOF},
		},
		{
			name: "arrow and scope operators",
			src:  `<?php $a->b; C::$d; fn2(...$e);`,
			want: []token.Kind{
				token.Variable, token.Arrow, token.Ident, token.Semicolon,
				token.Ident, token.DoubleColon, token.Variable, token.Semicolon,
				token.Ident, token.LParen, token.Ellipsis, token.Variable, token.RParen,
				token.Semicolon, token.EOF,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := kinds(Tokens(tc.src))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Tokens(%q) mismatch (-want +got):\n%s", tc.src, diff)
			}
		})
	}
}

func TestTokenLiterals(t *testing.T) {
	t.Parallel()

	toks := Tokens(`<?php $total = counter("a\n", 0x1F);`)

	want := []string{"total", "=", "counter", "(", "a\n", ",", "0x1F", ")", ";", ""}

	var got []string
	for _, tok := range toks {
		got = append(got, tok.Literal)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Literals mismatch (-want +got):\n%s", diff)
	}
}

func TestNumberShapes(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name string
		src  string
		want []string
	}{
		{"exponent with sign", `<?php 1.5e+10;`, []string{"1.5e+10", ";", ""}},
		{"upper exponent", `<?php 2E8;`, []string{"2E8", ";", ""}},
		{"underscore separator", `<?php 1_000;`, []string{"1_000", ";", ""}},
		{"dangling exponent marker", `<?php 1e;`, []string{"1", "e", ";", ""}},
		{"bare hex prefix", `<?php 0x;`, []string{"0", "x", ";", ""}},
		{"second dot starts concatenation", `<?php 1.2.3;`, []string{"1.2", ".", "3", ";", ""}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			toks := Tokens(tc.src)

			got := make([]string, 0, len(toks))
			for _, tok := range toks {
				got = append(got, tok.Literal)
			}

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Literals mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenLines(t *testing.T) {
	t.Parallel()

	src := "<?php\n$a = 1;\n\n$b = // trailing\n    $a;"

	toks := Tokens(src)

	wantLines := map[string]int{"a": 2, "b": 4}

	seen := 0

	for _, tok := range toks {
		if tok.Kind != token.Variable {
			continue
		}

		if seen == 2 {
			if tok.Line != 5 {
				t.Errorf("Got line %d for third variable, want 5", tok.Line)
			}

			break
		}

		if want := wantLines[tok.Literal]; tok.Line != want {
			t.Errorf("Got line %d for $%s, want %d", tok.Line, tok.Literal, want)
		}

		seen++
	}
}

func TestVariableVariable(t *testing.T) {
	t.Parallel()

	// A bare sigil is not a variable token.
	toks := Tokens(`<?php $$name;`)

	if toks[0].Kind == token.Variable {
		t.Errorf("Got Variable for $$, want operator token")
	}
}
