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

// Package analyzer checks PHP source for reads of possibly undefined
// variables.
//
// # Overview
//
// The analyzer walks every execution unit of a file (the top-level script,
// each named function and each method) and tracks, per control-flow path,
// which variables hold an assigned value. A read of a variable that is not
// assigned on every path reaching it produces a finding:
//
//	example.php:4: Undefined variable: $total
//
// # Example
//
// This script reports $total on line 4, because the assignment on line 2
// only happens when the condition holds:
//
//	<?php
//	if ($flag) {
//	    $total = 0;
//	}
//	echo $total;
//
// # Semantics
//
// The analysis is path-insensitive but flow-sensitive: conditional branches
// are merged by intersecting their assignment sets, loops account for zero
// iterations (except do-while), and catch arms assume the try body may have
// stopped anywhere. Superglobals, $this inside non-static methods, and
// isset/empty/?? guards never produce findings.
package analyzer
