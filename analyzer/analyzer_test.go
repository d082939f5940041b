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

package analyzer_test

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/stefan-squareweave/phpstan/analyzer"
	"github.com/stefan-squareweave/phpstan/internal/testsource"
)

// sorted orders findings by line for comparison: the analyzer reports per
// analysis unit, the want comments per source line.
func sorted(findings []Finding) []Finding {
	out := append([]Finding(nil), findings...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}

		return out[i].Message < out[j].Message
	})

	return out
}

func TestCheckFile(t *testing.T) {
	t.Parallel()

	files, err := filepath.Glob(filepath.Join("testdata", "*.php"))
	if err != nil {
		t.Fatalf("Globbing testdata: %v", err)
	}

	if len(files) == 0 {
		t.Fatal("No testdata files found")
	}

	a := New()

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			t.Parallel()

			src, err := os.ReadFile(file)
			if err != nil {
				t.Fatalf("Reading %s: %v", file, err)
			}

			got, err := a.CheckFile(file)
			if err != nil {
				t.Fatalf("CheckFile(%s): %v", file, err)
			}

			want := testsource.Want(t, string(src))

			if diff := cmp.Diff(sorted(want), sorted(got)); diff != "" {
				t.Errorf("Findings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWithArgcArgv(t *testing.T) {
	t.Parallel()

	src := []byte(`<?php
printf("%s called with %d args\n", $argv[0], $argc);`)

	testCases := [...]struct {
		name string
		opts []Option
		want int
	}{
		{"default", nil, 2},
		{"registered", []Option{WithArgcArgv(true)}, 0},
		{"disabled", []Option{WithArgcArgv(false)}, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			findings, err := New(tc.opts...).CheckSource("cli.php", src)
			if err != nil {
				t.Fatalf("CheckSource: %v", err)
			}

			if len(findings) != tc.want {
				t.Errorf("Got %d findings %v, want %d", len(findings), findings, tc.want)
			}
		})
	}
}

func TestCheckSourceParseError(t *testing.T) {
	t.Parallel()

	_, err := New().CheckSource("broken.php", []byte(`<?php if ($a {`))
	if err == nil {
		t.Fatal("CheckSource succeeded on unparsable source, want error")
	}

	if !errors.Is(err, ErrParse) {
		t.Errorf("Got error %v, want ErrParse", err)
	}
}

func TestFindingMessage(t *testing.T) {
	t.Parallel()

	findings, err := New().CheckSource("one.php", []byte("<?php\necho $user;"))
	if err != nil {
		t.Fatalf("CheckSource: %v", err)
	}

	want := []Finding{{Message: "Undefined variable: $user", Line: 2}}

	if diff := cmp.Diff(want, findings); diff != "" {
		t.Errorf("Findings mismatch (-want +got):\n%s", diff)
	}
}
