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

package run_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stefan-squareweave/phpstan/internal/config"
	"github.com/stefan-squareweave/phpstan/internal/report"
	. "github.com/stefan-squareweave/phpstan/internal/run"
	"github.com/stefan-squareweave/phpstan/internal/testsource"
)

func analyze(tb testing.TB, src string, cfg config.Config) []report.Finding {
	tb.Helper()

	return Analyze(testsource.Parse(tb, src), cfg, nil)
}

func TestAnalyzeUnits(t *testing.T) {
	t.Parallel()

	src := `<?php
$top = ready();

function a() {
    echo $x; // want "Undefined variable: $x"
}

class C {
    public function m() {
        echo $this->p, $y; // want "Undefined variable: $y"
    }

    public static function s() {
        echo $this; // want "Undefined variable: $this"
    }
}`

	got := analyze(t, src, 0)
	want := testsource.Want(t, src)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Findings mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeStaticClosures(t *testing.T) {
	t.Parallel()

	// Closures inherit the bound $this of their enclosing method unless
	// declared static.
	src := `<?php
class C {
    public function m() {
        $bound = function () { return $this->p; };
        $detached = static function () { return $this->p; }; // want "Undefined variable: $this"
        $bound();
        $detached();
    }
}`

	got := analyze(t, src, 0)
	want := testsource.Want(t, src)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Findings mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeScopesAreIndependent(t *testing.T) {
	t.Parallel()

	// A binding in the script does not leak into functions, and parameters
	// do not leak back out.
	src := `<?php
$shared = 1;

function f($param) {
    echo $shared; // want "Undefined variable: $shared"
    echo $param;
}

echo $param; // want "Undefined variable: $param"`

	got := analyze(t, src, 0)

	if len(got) != 2 {
		t.Fatalf("Got %d findings %v, want 2", len(got), got)
	}
}

func TestAnalyzeNestedDeclarations(t *testing.T) {
	t.Parallel()

	src := `<?php
if (defined("DEBUG")) {
    function debug_log($msg) {
        echo $prefix; // want "Undefined variable: $prefix"
    }
}`

	got := analyze(t, src, 0)

	if len(got) != 1 || got[0].Line != 4 {
		t.Fatalf("Got %v, want one finding on line 4", got)
	}
}

func TestAnalyzeDeclarationsInClosures(t *testing.T) {
	t.Parallel()

	// A named function declared inside a closure body is a unit of its
	// own, even though the closure itself is checked at its call site.
	src := `<?php
$register = function () {
    function helper() {
        echo $undefined; // want "Undefined variable: $undefined"
    }
};
$register();`

	got := analyze(t, src, 0)
	want := testsource.Want(t, src)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Findings mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeArgcArgv(t *testing.T) {
	t.Parallel()

	src := `<?php
echo $argv[1];

function usage() {
    echo $argv[0];
}`

	testCases := [...]struct {
		name string
		cfg  config.Config
		want int
	}{
		// The registration covers every unit; PHP copies $argv into
		// function scope only via global, but the subset treats the
		// registration flag uniformly.
		{"unregistered", 0, 2},
		{"registered", config.RegisterArgcArgv, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := analyze(t, src, tc.cfg); len(got) != tc.want {
				t.Errorf("Got %d findings %v, want %d", len(got), got, tc.want)
			}
		})
	}
}
