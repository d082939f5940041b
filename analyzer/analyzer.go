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

package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/stefan-squareweave/phpstan/internal/php/parser"
	"github.com/stefan-squareweave/phpstan/internal/report"
	"github.com/stefan-squareweave/phpstan/internal/run"
)

// ErrParse wraps every syntax error returned by [Analyzer.CheckSource], so
// callers can distinguish unparsable input from I/O failures.
var ErrParse = errors.New("parse error")

// Finding is one diagnostic, ordered by analysis unit and line.
type Finding = report.Finding

// Analyzer checks PHP sources for undefined variable reads. Instances are
// immutable after [New] and safe for concurrent use.
type Analyzer struct {
	opts *runOptions
}

// New creates an analyzer with the given configuration. Without options the
// analyzer assumes a web SAPI, where $argv and $argc are unavailable.
func New(opts ...Option) *Analyzer {
	r := makeRunOptions(opts)

	r.logger.LogAttrs(context.Background(), slog.LevelDebug, "configured analyzer", Options(opts).LogAttr())

	return &Analyzer{opts: r}
}

// CheckSource analyzes src, using filename for positions in findings and
// parse errors. It returns a non-nil error only when src does not parse.
func (a *Analyzer) CheckSource(filename string, src []byte) ([]Finding, error) {
	file, err := parser.ParseFile(filename, string(src))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrParse, filename, err)
	}

	return run.Analyze(file, a.opts.behavior, a.opts.logger), nil
}

// CheckFile reads and analyzes the file at path.
func (a *Analyzer) CheckFile(path string) ([]Finding, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return a.CheckSource(path, src)
}
