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

// Package testsource provides utilities for parsing PHP fragments in tests.
//
// It handles the common boilerplate of wrapping code in an open tag, parsing
// it, and extracting "// want" expectations from source comments.
package testsource

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stefan-squareweave/phpstan/internal/php/ast"
	"github.com/stefan-squareweave/phpstan/internal/php/parser"
	"github.com/stefan-squareweave/phpstan/internal/report"
)

// Parse parses a PHP fragment. When src lacks an opening tag, one is
// prepended on the same line so line numbers in the fragment are preserved.
func Parse(tb testing.TB, src string) *ast.File {
	tb.Helper()

	const filename = "test.php"

	file, err := parser.ParseFile(filename, wrapSource(src))
	if err != nil {
		tb.Fatalf("Failed to parse source %q: %v", src, err)
	}

	return file
}

// ParseExpr parses a single PHP expression.
func ParseExpr(tb testing.TB, src string) ast.Expr {
	tb.Helper()

	expr, err := parser.ParseExpr(src)
	if err != nil {
		tb.Fatalf("Failed to parse expression %q: %v", src, err)
	}

	return expr
}

func wrapSource(src string) string {
	if strings.HasPrefix(strings.TrimSpace(src), "<?php") {
		return src
	}

	return "<?php " + src
}

// wantRE matches expectation comments of the form
//
//	// want "Undefined variable: $x"
//
// with optional repetitions separated by whitespace on the same line.
var wantRE = regexp.MustCompile(`//\s*want\s+(.*)$`)

var wantMessageRE = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)

// Want extracts the expected findings from "// want" comments in src,
// ordered by line. Lines without a want comment expect no finding.
func Want(tb testing.TB, src string) []report.Finding {
	tb.Helper()

	var want []report.Finding

	for i, line := range strings.Split(src, "\n") {
		m := wantRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		msgs := wantMessageRE.FindAllStringSubmatch(m[1], -1)
		if len(msgs) == 0 {
			tb.Fatalf("Malformed want comment on line %d: %q", i+1, line)
		}

		for _, msg := range msgs {
			want = append(want, report.Finding{
				Message: strings.ReplaceAll(msg[1], `\"`, `"`),
				Line:    i + 1,
			})
		}
	}

	return want
}
