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

// Package usage collects the binding universe of one function body: every
// variable name that appears as an assignment target anywhere inside it,
// regardless of reachability.
//
// The collector is a pure pre-pass; it never descends into nested function
// declarations, methods or closure bodies, which form their own scopes. The
// one exception is a closure's by-reference use list, whose names the engine
// materializes in the enclosing scope.
package usage

import (
	"github.com/stefan-squareweave/phpstan/internal/php/ast"
	"github.com/stefan-squareweave/phpstan/internal/php/builtin"
	"github.com/stefan-squareweave/phpstan/internal/scope"
)

// Collect returns the binding universe of body.
func Collect(body []ast.Stmt) scope.Names {
	c := collector{names: make(map[string]struct{})}
	c.stmts(body)

	collected := make([]string, 0, len(c.names))
	for name := range c.names {
		collected = append(collected, name)
	}

	return scope.NewNames(collected...)
}

type collector struct {
	names map[string]struct{}
}

func (c *collector) add(name string) {
	c.names[name] = struct{}{}
}

func (c *collector) stmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		c.stmt(stmt)
	}
}

func (c *collector) stmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		c.expr(s.X)

	case *ast.EchoStmt:
		c.exprs(s.Args)

	case *ast.Block:
		c.stmts(s.List)

	case *ast.IfStmt:
		c.expr(s.Cond)
		c.stmts(s.Then)
		c.stmts(s.Else)

	case *ast.WhileStmt:
		c.expr(s.Cond)
		c.stmts(s.Body)

	case *ast.DoWhileStmt:
		c.stmts(s.Body)
		c.expr(s.Cond)

	case *ast.ForStmt:
		c.exprs(s.Init)
		c.exprs(s.Cond)
		c.exprs(s.Post)
		c.stmts(s.Body)

	case *ast.ForeachStmt:
		c.expr(s.Subject)
		if s.Key != nil {
			c.add(s.Key.Name)
		}
		c.target(s.Value)
		c.stmts(s.Body)

	case *ast.SwitchStmt:
		c.expr(s.Subject)
		for _, clause := range s.Cases {
			c.expr(clause.Cond)
			c.stmts(clause.Body)
		}

	case *ast.TryStmt:
		c.stmts(s.Body)
		for _, clause := range s.Catches {
			if clause.Var != "" {
				c.add(clause.Var)
			}
			c.stmts(clause.Body)
		}
		c.stmts(s.Finally)

	case *ast.ReturnStmt:
		c.expr(s.X)

	case *ast.ThrowStmt:
		c.expr(s.X)

	case *ast.UnsetStmt:
		// unset removes bindings; it contributes nothing to the universe.

	case *ast.GlobalStmt:
		for _, v := range s.Vars {
			c.add(v.Name)
		}

	case *ast.StaticStmt:
		for _, v := range s.Vars {
			c.add(v.Name)
			c.expr(v.Default)
		}

	case *ast.FunctionStmt, *ast.ClassStmt:
		// Separate scopes.

	default:
		// Statements without binding effects.
	}
}

func (c *collector) exprs(exprs []ast.Expr) {
	for _, x := range exprs {
		c.expr(x)
	}
}

func (c *collector) expr(expr ast.Expr) {
	switch x := expr.(type) {
	case nil:

	case *ast.AssignExpr:
		c.target(x.Target)
		c.expr(x.Value)

	case *ast.TernaryExpr:
		c.expr(x.Cond)
		c.expr(x.Then)
		c.expr(x.Else)

	case *ast.BinaryExpr:
		c.expr(x.Left)
		c.expr(x.Right)

	case *ast.UnaryExpr:
		c.expr(x.X)

	case *ast.IncDecExpr:
		c.target(x.Target)

	case *ast.CallExpr:
		c.call(x)

	case *ast.MethodCallExpr:
		c.expr(x.Object)
		c.exprs(x.Args)

	case *ast.StaticCallExpr:
		c.exprs(x.Args)

	case *ast.NewExpr:
		c.expr(x.Class)
		c.exprs(x.Args)

	case *ast.IndexExpr:
		c.expr(x.Target)
		c.expr(x.Index)

	case *ast.PropertyExpr:
		c.expr(x.Object)

	case *ast.IssetExpr:
		c.exprs(x.Vars)

	case *ast.EmptyExpr:
		c.expr(x.X)

	case *ast.ArrayExpr:
		c.items(x.Items)

	case *ast.ListExpr:
		c.items(x.Items)

	case *ast.ClosureExpr:
		// The body is a separate scope, but by-reference captures come to
		// exist in the enclosing one.
		for _, use := range x.Uses {
			if use.ByRef {
				c.add(use.Name)
			}
		}

	default:
		// Reads and literals.
	}
}

func (c *collector) items(items []*ast.ArrayItem) {
	for _, item := range items {
		if item == nil {
			continue
		}
		c.expr(item.Key)
		c.expr(item.Value)
	}
}

// call records reference-output arguments of the known by-ref builtins and
// otherwise walks the arguments.
func (c *collector) call(x *ast.CallExpr) {
	c.expr(x.Fn)

	name, direct := x.CalledName()
	if !direct {
		c.exprs(x.Args)

		return
	}

	for i, arg := range x.Args {
		if v, ok := arg.(*ast.VariableExpr); ok && builtin.ReferenceOutput(name, i) {
			c.add(v.Name)

			continue
		}
		c.expr(arg)
	}
}

// target records the names bound by an assignment target.
func (c *collector) target(target ast.Expr) {
	switch t := target.(type) {
	case *ast.VariableExpr:
		c.add(t.Name)

	case *ast.IndexExpr:
		c.target(t.Target)
		c.expr(t.Index)

	case *ast.PropertyExpr:
		c.expr(t.Object)

	case *ast.ListExpr:
		c.patternItems(t.Items)

	case *ast.ArrayExpr:
		c.patternItems(t.Items)

	default:
		c.expr(target)
	}
}

func (c *collector) patternItems(items []*ast.ArrayItem) {
	for _, item := range items {
		if item == nil || item.Value == nil {
			continue
		}
		c.expr(item.Key)
		c.target(item.Value)
	}
}
