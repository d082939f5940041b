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

package usage_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stefan-squareweave/phpstan/internal/testsource"
	. "github.com/stefan-squareweave/phpstan/internal/usage"
)

func TestCollect(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name string
		src  string
		want []string
	}{
		{
			name: "plain assignments",
			src:  `$a = 1; $b = $a; $c .= "x";`,
			want: []string{"a", "b", "c"},
		},
		{
			name: "unreachable assignments still count",
			src:  `return; $late = 1;`,
			want: []string{"late"},
		},
		{
			name: "foreach bindings",
			src:  `foreach ($rows as $k => $v) {}`,
			want: []string{"k", "v"},
		},
		{
			name: "catch and static and global",
			src:  `global $db; static $n = 0; try {} catch (E $e) {}`,
			want: []string{"db", "e", "n"},
		},
		{
			name: "destructuring",
			src:  `[$a, [$b, $c]] = $x; list($d, , $e) = $y;`,
			want: []string{"a", "b", "c", "d", "e"},
		},
		{
			name: "reference output arguments",
			src:  `preg_match('/x/', $s, $m); sscanf($s, '%d %d', $a, $b);`,
			want: []string{"a", "b", "m"},
		},
		{
			name: "increment targets",
			src:  `$i++; --$j;`,
			want: []string{"i", "j"},
		},
		{
			name: "subscript and property writes bind the base",
			src:  `$arr[0] = 1; $rows[] = 2; $obj->field = 3;`,
			want: []string{"arr", "rows"},
		},
		{
			name: "nested scopes are opaque",
			src: `function f() { $inner = 1; }
				class C { function m() { $prop = 2; } }
				$fn = function () { $closed = 3; };`,
			want: []string{"fn"},
		},
		{
			name: "by-reference closure captures",
			src:  `$fn = function () use (&$count, $copy) {};`,
			want: []string{"count", "fn"},
		},
		{
			name: "unset contributes nothing",
			src:  `unset($gone);`,
			want: []string{},
		},
		{
			name: "reads contribute nothing",
			src:  `echo $a + $b; f($c);`,
			want: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			file := testsource.Parse(t, tc.src)

			got := Collect(file.Stmts).Sorted()
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Collect mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
