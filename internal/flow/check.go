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

package flow

import (
	"github.com/stefan-squareweave/phpstan/internal/php/builtin"
	"github.com/stefan-squareweave/phpstan/internal/report"
	"github.com/stefan-squareweave/phpstan/internal/scope"
)

// checkRead decides whether reading name at line is defined under sn and
// reports a finding if not. In guard context (isset, empty, the left side
// of ??) a name passes as long as it is assigned anywhere in the body.
func (w *Walker) checkRead(sn scope.Snapshot, name string, line int, guard bool) {
	if sn.Unreachable() {
		// Dead code is never flagged.
		return
	}

	if name == builtin.ThisVariable {
		// $this is governed solely by the enclosing function kind.
		if !sn.ThisAvailable() {
			w.sink.Report(report.Undefined(name, line))
		}

		return
	}

	if builtin.Superglobal(name) {
		return
	}

	if sn.Bound(name) {
		return
	}

	if builtin.CLIArg(name) && sn.CLIArgsAvailable() {
		return
	}

	if name == builtin.HTTPHeaderVariable && sn.HTTPHeaderAvailable() {
		return
	}

	if guard && sn.Ever(name) {
		return
	}

	w.sink.Report(report.Undefined(name, line))
}
