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

package flow_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/tools/txtar"

	. "github.com/stefan-squareweave/phpstan/internal/flow"
	"github.com/stefan-squareweave/phpstan/internal/report"
	"github.com/stefan-squareweave/phpstan/internal/scope"
	"github.com/stefan-squareweave/phpstan/internal/testsource"
	"github.com/stefan-squareweave/phpstan/internal/usage"
)

// check runs the walker over src as a script body and returns the findings.
func check(tb testing.TB, src string, cliArgs bool) []report.Finding {
	tb.Helper()

	file := testsource.Parse(tb, src)

	entry := scope.Enter(scope.Names{}, usage.Collect(file.Stmts), false, cliArgs)

	sink := &report.Collector{}
	CheckBody(file.Stmts, entry, sink)

	return sink.Findings()
}

// assertFindings compares against the want comments, ordering both sides by
// line: a body with closures reports in analysis order, not line order.
func assertFindings(tb testing.TB, src string, got []report.Finding) {
	tb.Helper()

	want := testsource.Want(tb, src)

	byLine := cmpopts.SortSlices(func(a, b report.Finding) bool {
		if a.Line != b.Line {
			return a.Line < b.Line
		}

		return a.Message < b.Message
	})

	if diff := cmp.Diff(want, got, byLine, cmpopts.EquateEmpty()); diff != "" {
		tb.Errorf("Findings mismatch (-want +got):\n%s", diff)
	}
}

func TestStraightLine(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name string
		src  string
	}{
		{
			name: "read before assignment",
			src: `<?php
echo $x; // want "Undefined variable: $x"
$x = 1;
echo $x;`,
		},
		{
			name: "assignment value sees the old state",
			src: `<?php
$x = $x + 1; // want "Undefined variable: $x"`,
		},
		{
			name: "compound assignment reads the target",
			src: `<?php
$x .= "a"; // want "Undefined variable: $x"
$y = 1;
$y += 2;`,
		},
		{
			name: "chained assignment",
			src: `<?php
$a = $b = 1;
echo $a, $b;`,
		},
		{
			name: "destructuring",
			src: `<?php
[$a, [$b, $c]] = f();
list($d, , $e) = g();
echo $a, $b, $c, $d, $e;`,
		},
		{
			name: "subscript write binds the base",
			src: `<?php
$rows[] = 1;
$rows[2] = 3;
echo $rows;`,
		},
		{
			name: "subscript index is a read",
			src: `<?php
$rows[$i] = 1; // want "Undefined variable: $i"`,
		},
		{
			name: "increment needs a bound target",
			src: `<?php
$i++; // want "Undefined variable: $i"
$j = 0;
$j++;
echo $j;`,
		},
		{
			name: "each undefined read reports once",
			src: `<?php
echo $a + $a; // want "Undefined variable: $a" "Undefined variable: $a"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assertFindings(t, tc.src, check(t, tc.src, false))
		})
	}
}

func TestBranches(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name string
		src  string
	}{
		{
			name: "assignment in one branch is conditional",
			src: `<?php
if (f()) {
    $x = 1;
}
echo $x; // want "Undefined variable: $x"`,
		},
		{
			name: "assignment in both branches is certain",
			src: `<?php
if (f()) {
    $x = 1;
} else {
    $x = 2;
}
echo $x;`,
		},
		{
			name: "elseif chain missing an arm",
			src: `<?php
if ($c1) {
    $x = 1;
} elseif ($c2) {
    $x = 2;
}
echo $x; // want "Undefined variable: $x"`,
		},
		{
			name: "elseif chain covering all arms",
			src: `<?php
if ($c) {
    $x = 1;
} elseif ($d) {
    $x = 2;
} else {
    $x = 3;
}
echo $x;`,
		},
		{
			name: "early return makes the tail unconditional",
			src: `<?php
if (!f()) {
    return;
}
$x = 1;
echo $x;`,
		},
		{
			name: "both branches jump",
			src: `<?php
if (f()) {
    $x = 1;
} else {
    return;
}
echo $x;`,
		},
		{
			name: "throw in one branch",
			src: `<?php
if (f()) {
    throw new RuntimeException("no");
} else {
    $x = 1;
}
echo $x;`,
		},
		{
			name: "dead code is not flagged",
			src: `<?php
return;
echo $never;`,
		},
		{
			name: "exit terminates the path",
			src: `<?php
if (!f()) {
    exit(1);
} else {
    $x = 1;
}
echo $x;`,
		},
		{
			name: "condition bindings reach both branches",
			src: `<?php
if ($x = f()) {
    echo $x;
}
echo $x;`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assertFindings(t, tc.src, check(t, tc.src, false))
		})
	}
}

func TestLoops(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name string
		src  string
	}{
		{
			name: "while body may not run",
			src: `<?php
while (f()) {
    $x = 1;
}
echo $x; // want "Undefined variable: $x"`,
		},
		{
			name: "while body sees prior iterations conservatively",
			src: `<?php
while (f()) {
    echo $x; // want "Undefined variable: $x"
    $x = 1;
}`,
		},
		{
			name: "while true exits only by break",
			src: `<?php
while (true) {
    $x = 1;
    if (g()) {
        break;
    }
}
echo $x;`,
		},
		{
			name: "break before the assignment",
			src: `<?php
while (true) {
    if (g()) {
        break;
    }
    $x = 1;
}
echo $x; // want "Undefined variable: $x"`,
		},
		{
			name: "do while runs at least once",
			src: `<?php
do {
    $x = 1;
} while (f());
echo $x;`,
		},
		{
			name: "do while condition sees the body",
			src: `<?php
do {
    $ok = g();
} while ($ok);`,
		},
		{
			name: "for init always runs",
			src: `<?php
for ($i = 0; $i < 10; $i++) {
    $x = 1;
}
echo $i;
echo $x; // want "Undefined variable: $x"`,
		},
		{
			name: "for without condition exits by break",
			src: `<?php
for (;;) {
    $x = 1;
    break;
}
echo $x;`,
		},
		{
			name: "foreach binds key and value in the body",
			src: `<?php
$rows = f();
foreach ($rows as $k => $v) {
    echo $k, $v;
}
echo $v; // want "Undefined variable: $v"`,
		},
		{
			name: "foreach subject is a read",
			src: `<?php
foreach ($rows as $v) {} // want "Undefined variable: $rows"`,
		},
		{
			name: "foreach destructuring value",
			src: `<?php
foreach (f() as [$a, $b]) {
    echo $a, $b;
}`,
		},
		{
			name: "continue keeps the loop frame",
			src: `<?php
while (f()) {
    if (g()) {
        continue;
    }
    $x = 1;
}
echo $x; // want "Undefined variable: $x"`,
		},
		{
			name: "nested loop break binds to the inner loop",
			src: `<?php
while (true) {
    $x = 1;
    while (f()) {
        break;
    }
    if (g()) {
        break;
    }
}
echo $x;`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assertFindings(t, tc.src, check(t, tc.src, false))
		})
	}
}

func TestSwitch(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name string
		src  string
	}{
		{
			name: "all arms with default",
			src: `<?php
switch (f()) {
case 1:
    $x = "a";
    break;
case 2:
    $x = "b";
    break;
default:
    $x = "c";
}
echo $x;`,
		},
		{
			name: "missing default leaves a bypass",
			src: `<?php
switch (f()) {
case 1:
    $x = "a";
    break;
case 2:
    $x = "b";
    break;
}
echo $x; // want "Undefined variable: $x"`,
		},
		{
			name: "fallthrough carries bindings",
			src: `<?php
switch (f()) {
case 1:
    $x = "a";
case 2:
    echo $x; // want "Undefined variable: $x"
    $x = "b";
    break;
default:
    $x = "c";
}
echo $x;`,
		},
		{
			name: "case condition is a read",
			src: `<?php
switch (f()) {
case $limit: // want "Undefined variable: $limit"
    break;
}`,
		},
		{
			name: "case expression bindings do not reach later arms",
			src: `<?php
switch (f()) {
case $x = g():
    break;
case 2:
    echo $x; // want "Undefined variable: $x"
    break;
}`,
		},
		{
			name: "continue in switch behaves like break",
			src: `<?php
switch (f()) {
case 1:
    $x = 1;
    continue;
default:
    $x = 2;
}
echo $x;`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assertFindings(t, tc.src, check(t, tc.src, false))
		})
	}
}

func TestTryCatch(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name string
		src  string
	}{
		{
			name: "try assignments are conditional in catch",
			src: `<?php
try {
    $x = f();
    $y = g();
} catch (Exception $e) {
    echo $x; // want "Undefined variable: $x"
    $x = 0;
    $y = 0;
}
echo $x, $y;`,
		},
		{
			name: "catch variable is bound",
			src: `<?php
try {
    f();
} catch (Exception $e) {
    echo $e->getMessage();
}`,
		},
		{
			name: "catch without recovery leaves a gap",
			src: `<?php
try {
    $x = f();
} catch (Exception $e) {
}
echo $x; // want "Undefined variable: $x"`,
		},
		{
			name: "rethrowing catch removes its path",
			src: `<?php
try {
    $x = f();
} catch (Exception $e) {
    throw $e;
}
echo $x;`,
		},
		{
			name: "finally always runs",
			src: `<?php
try {
    f();
} catch (Exception $e) {
} finally {
    $done = true;
}
echo $done;`,
		},
		{
			name: "finally runs when every arm terminates",
			src: `<?php
try {
    return f();
} catch (Exception $e) {
    return null;
} finally {
    cleanup($log); // want "Undefined variable: $log"
}`,
		},
		{
			name: "finally keeps assignments shared by terminating arms",
			src: `<?php
try {
    $log = start();
    return f($log);
} catch (Exception $e) {
    $log = fallback();
    throw wrap($e, $log);
} finally {
    finish($log);
}`,
		},
		{
			name: "multiple catch types",
			src: `<?php
try {
    $x = f();
} catch (TypeError | ValueError $e) {
    $x = null;
}
echo $x;`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assertFindings(t, tc.src, check(t, tc.src, false))
		})
	}
}

func TestGuards(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name string
		src  string
	}{
		{
			name: "isset tolerates a conditional binding",
			src: `<?php
if (f()) {
    $x = 1;
}
if (isset($x)) {
    echo $x; // want "Undefined variable: $x"
}`,
		},
		{
			name: "isset on a never assigned name",
			src: `<?php
if (isset($nothing)) {} // want "Undefined variable: $nothing"`,
		},
		{
			name: "empty mirrors isset",
			src: `<?php
if (g()) {
    $x = 1;
}
if (empty($x)) {}`,
		},
		{
			name: "coalesce left side is guarded",
			src: `<?php
if (f()) {
    $x = 1;
}
echo $x ?? "fallback";`,
		},
		{
			name: "coalesce right side is conditional",
			src: `<?php
$v = $u ?? ($w = 1); // want "Undefined variable: $u"
echo $w; // want "Undefined variable: $w"`,
		},
		{
			name: "coalesce assignment target may be unset",
			src: `<?php
$x ??= 0;
echo $x;`,
		},
		{
			name: "coalesce assignment value is conditional",
			src: `<?php
$x ??= ($y = 1);
echo $y; // want "Undefined variable: $y"`,
		},
		{
			name: "guarded subscript keeps the index a read",
			src: `<?php
if (h()) {
    $a = [];
}
if (isset($a[$i])) {} // want "Undefined variable: $i"`,
		},
		{
			name: "boolean operands merge right bindings away",
			src: `<?php
f() && ($x = 1);
echo $x; // want "Undefined variable: $x"`,
		},
		{
			name: "ternary arms are conditional",
			src: `<?php
f() ? ($x = 1) : null;
echo $x; // want "Undefined variable: $x"`,
		},
		{
			name: "ternary arms both binding",
			src: `<?php
f() ? ($x = 1) : ($x = 2);
echo $x;`,
		},
		{
			name: "unset removes the binding",
			src: `<?php
$x = 1;
unset($x);
echo $x; // want "Undefined variable: $x"`,
		},
		{
			name: "isset passes after unset",
			src: `<?php
$x = 1;
unset($x);
if (isset($x)) {}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assertFindings(t, tc.src, check(t, tc.src, false))
		})
	}
}

func TestMagicVariables(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name    string
		src     string
		cliArgs bool
	}{
		{
			name: "superglobals are always defined",
			src: `<?php
echo $_GET["q"], $_SERVER["HTTP_HOST"], $GLOBALS["x"], $_SESSION["u"];`,
		},
		{
			name: "this outside object context",
			src: `<?php
echo $this->name; // want "Undefined variable: $this"`,
		},
		{
			name: "argv without registration",
			src: `<?php
echo $argv[0]; // want "Undefined variable: $argv"
echo $argc; // want "Undefined variable: $argc"`,
		},
		{
			name: "argv with registration",
			src: `<?php
echo $argv[0], $argc;`,
			cliArgs: true,
		},
		{
			name: "http response header before any stream call",
			src: `<?php
echo $http_response_header; // want "Undefined variable: $http_response_header"`,
		},
		{
			name: "http response header after a stream call",
			src: `<?php
$body = file_get_contents("http://example.com");
echo $http_response_header;`,
		},
		{
			name: "http response header only on covered paths",
			src: `<?php
if (f()) {
    $body = file_get_contents("http://example.com");
}
echo $http_response_header; // want "Undefined variable: $http_response_header"`,
		},
		{
			name: "reference outputs become bound",
			src: `<?php
preg_match('/(a)/', 'abc', $m);
echo $m[1];
similar_text('a', 'b', $pct);
echo $pct;`,
		},
		{
			name: "reference output position must match",
			src: `<?php
preg_match($re, 'abc', $m); // want "Undefined variable: $re"`,
		},
		{
			name: "global statement binds",
			src: `<?php
global $db;
$db->query("x");`,
		},
		{
			name: "static statement binds",
			src: `<?php
static $calls = 0;
$calls++;
echo $calls;`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assertFindings(t, tc.src, check(t, tc.src, tc.cliArgs))
		})
	}
}

func TestClosures(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name string
		src  string
	}{
		{
			name: "parameters are bound inside",
			src: `<?php
$fn = function ($a) {
    return $a;
};`,
		},
		{
			name: "enclosing variables need a use clause",
			src: `<?php
$x = 1;
$fn = function () {
    return $x; // want "Undefined variable: $x"
};`,
		},
		{
			name: "by-value use reads at creation time",
			src: `<?php
$fn = function () use ($missing) { // want "Undefined variable: $missing"
    return $missing;
};`,
		},
		{
			name: "by-reference use binds in the enclosing scope",
			src: `<?php
$fn = function () use (&$count) {
    $count = 1;
};
echo $count;`,
		},
		{
			name: "closure bindings stay inside",
			src: `<?php
$fn = function () {
    $inner = 1;

    return $inner;
};
echo $inner; // want "Undefined variable: $inner"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assertFindings(t, tc.src, check(t, tc.src, false))
		})
	}
}

// TestCorpus runs the walker over the txtar fixtures in testdata. Each
// archive file is one independent script with want comments.
func TestCorpus(t *testing.T) {
	t.Parallel()

	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatalf("Globbing testdata: %v", err)
	}

	if len(archives) == 0 {
		t.Fatal("No corpus archives found")
	}

	for _, archive := range archives {
		t.Run(filepath.Base(archive), func(t *testing.T) {
			t.Parallel()

			ar, err := txtar.ParseFile(archive)
			if err != nil {
				t.Fatalf("Parsing %s: %v", archive, err)
			}

			for _, file := range ar.Files {
				t.Run(file.Name, func(t *testing.T) {
					t.Parallel()

					src := string(file.Data)
					assertFindings(t, src, check(t, src, false))
				})
			}
		})
	}
}
