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

// Package report collects and renders checker findings.
package report

import "fmt"

// Finding is one diagnostic: a message attached to a source line.
type Finding struct {
	Message string
	Line    int
}

// Undefined constructs the undefined-variable finding for name at line.
func Undefined(name string, line int) Finding {
	return Finding{
		Message: fmt.Sprintf("Undefined variable: $%s", name),
		Line:    line,
	}
}

// Sink consumes findings as the walker produces them.
type Sink interface {
	Report(f Finding)
}

// Collector is an ordered, append-only [Sink], local to one checker run.
type Collector struct {
	findings []Finding
}

// Report implements [Sink].
func (c *Collector) Report(f Finding) {
	c.findings = append(c.findings, f)
}

// Findings returns the collected findings in report order.
func (c *Collector) Findings() []Finding {
	return c.findings
}
