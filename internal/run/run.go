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

// Package run drives the checker over one parsed file: it enumerates the
// analysis units (the top-level script, every named function, every
// method), builds each unit's entry snapshot and runs the collector and
// flow walker over it.
package run

import (
	"log/slog"

	"github.com/stefan-squareweave/phpstan/internal/config"
	"github.com/stefan-squareweave/phpstan/internal/flow"
	"github.com/stefan-squareweave/phpstan/internal/php/ast"
	"github.com/stefan-squareweave/phpstan/internal/report"
	"github.com/stefan-squareweave/phpstan/internal/scope"
	"github.com/stefan-squareweave/phpstan/internal/usage"
)

// Analyze checks every unit of file and returns the findings in unit order:
// the script body first, then declarations in source order.
func Analyze(file *ast.File, cfg config.Config, logger *slog.Logger) []report.Finding {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sink := &report.Collector{}
	r := runner{cfg: cfg, log: logger, sink: sink}

	r.unit(file.Name+" (script)", file.Stmts, nil, false)
	r.declarations(file.Stmts)

	return sink.Findings()
}

type runner struct {
	cfg  config.Config
	log  *slog.Logger
	sink *report.Collector
}

// unit runs the two analysis phases over one body.
func (r *runner) unit(name string, body []ast.Stmt, params []*ast.Param, thisAvailable bool) {
	bound := scope.Names{}
	for _, p := range params {
		bound = bound.With(p.Name)
	}

	universe := usage.Collect(body)

	entry := scope.Enter(bound, universe, thisAvailable, r.cfg.Enabled(config.RegisterArgcArgv))

	r.log.Debug("checking unit",
		slog.String("unit", name),
		slog.Int("universe", universe.Len()),
		slog.Bool("this", thisAvailable))

	flow.CheckBody(body, entry, r.sink)
}

// declarations finds function and method bodies in source order, including
// declarations nested inside control-flow statements and closure bodies.
// The closures themselves are analyzed by the walker at their occurrence
// site; this pass only descends into them for named declarations.
func (r *runner) declarations(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.FunctionStmt:
			r.unit(s.Name+"()", s.Body, s.Params, false)
			r.declarations(s.Body)

		case *ast.ClassStmt:
			for _, m := range s.Methods {
				r.unit(s.Name+"::"+m.Name+"()", m.Body, m.Params, !m.Static)
				r.declarations(m.Body)
			}

		case *ast.Block:
			r.declarations(s.List)

		case *ast.ExprStmt:
			r.closures(s.X)

		case *ast.EchoStmt:
			r.exprClosures(s.Args)

		case *ast.ReturnStmt:
			r.closures(s.X)

		case *ast.ThrowStmt:
			r.closures(s.X)

		case *ast.UnsetStmt:
			r.exprClosures(s.Vars)

		case *ast.StaticStmt:
			for _, v := range s.Vars {
				r.closures(v.Default)
			}

		case *ast.IfStmt:
			r.closures(s.Cond)
			r.declarations(s.Then)
			r.declarations(s.Else)

		case *ast.WhileStmt:
			r.closures(s.Cond)
			r.declarations(s.Body)

		case *ast.DoWhileStmt:
			r.declarations(s.Body)
			r.closures(s.Cond)

		case *ast.ForStmt:
			r.exprClosures(s.Init)
			r.exprClosures(s.Cond)
			r.exprClosures(s.Post)
			r.declarations(s.Body)

		case *ast.ForeachStmt:
			r.closures(s.Subject)
			r.declarations(s.Body)

		case *ast.SwitchStmt:
			r.closures(s.Subject)
			for _, clause := range s.Cases {
				r.closures(clause.Cond)
				r.declarations(clause.Body)
			}

		case *ast.TryStmt:
			r.declarations(s.Body)
			for _, clause := range s.Catches {
				r.declarations(clause.Body)
			}
			r.declarations(s.Finally)
		}
	}
}

// closures descends an expression looking for closure bodies, so that a
// named function or class declared inside one still becomes its own unit.
func (r *runner) closures(x ast.Expr) {
	switch x := x.(type) {
	case *ast.ClosureExpr:
		r.declarations(x.Body)

	case *ast.AssignExpr:
		r.closures(x.Target)
		r.closures(x.Value)

	case *ast.TernaryExpr:
		r.closures(x.Cond)
		r.closures(x.Then)
		r.closures(x.Else)

	case *ast.BinaryExpr:
		r.closures(x.Left)
		r.closures(x.Right)

	case *ast.UnaryExpr:
		r.closures(x.X)

	case *ast.IncDecExpr:
		r.closures(x.Target)

	case *ast.CallExpr:
		r.closures(x.Fn)
		r.exprClosures(x.Args)

	case *ast.MethodCallExpr:
		r.closures(x.Object)
		r.exprClosures(x.Args)

	case *ast.StaticCallExpr:
		r.exprClosures(x.Args)

	case *ast.NewExpr:
		r.closures(x.Class)
		r.exprClosures(x.Args)

	case *ast.IndexExpr:
		r.closures(x.Target)
		r.closures(x.Index)

	case *ast.PropertyExpr:
		r.closures(x.Object)

	case *ast.ArrayExpr:
		r.itemClosures(x.Items)

	case *ast.ListExpr:
		r.itemClosures(x.Items)

	case *ast.IssetExpr:
		r.exprClosures(x.Vars)

	case *ast.EmptyExpr:
		r.closures(x.X)
	}
}

func (r *runner) exprClosures(list []ast.Expr) {
	for _, x := range list {
		r.closures(x)
	}
}

func (r *runner) itemClosures(items []*ast.ArrayItem) {
	for _, item := range items {
		if item == nil {
			continue
		}

		r.closures(item.Key)
		r.closures(item.Value)
	}
}
