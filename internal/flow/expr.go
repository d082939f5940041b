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
	"github.com/stefan-squareweave/phpstan/internal/php/ast"
	"github.com/stefan-squareweave/phpstan/internal/php/builtin"
	"github.com/stefan-squareweave/phpstan/internal/php/token"
	"github.com/stefan-squareweave/phpstan/internal/scope"
	"github.com/stefan-squareweave/phpstan/internal/usage"
)

func (w *Walker) exprs(sn scope.Snapshot, exprs []ast.Expr) scope.Snapshot {
	for _, x := range exprs {
		sn = w.expr(sn, x)
	}

	return sn
}

// expr walks one expression, checking every variable read against sn and
// returning the snapshot after evaluation.
func (w *Walker) expr(sn scope.Snapshot, expr ast.Expr) scope.Snapshot {
	switch x := expr.(type) {
	case nil:
		return sn

	case *ast.VariableExpr:
		w.checkRead(sn, x.Name, x.Line(), false)

		return sn

	case *ast.AssignExpr:
		return w.assign(sn, x)

	case *ast.BinaryExpr:
		return w.binary(sn, x)

	case *ast.UnaryExpr:
		return w.expr(sn, x.X)

	case *ast.TernaryExpr:
		return w.ternary(sn, x)

	case *ast.IncDecExpr:
		return w.incDec(sn, x)

	case *ast.CallExpr:
		return w.call(sn, x)

	case *ast.MethodCallExpr:
		sn = w.expr(sn, x.Object)

		return w.exprs(sn, x.Args)

	case *ast.StaticCallExpr:
		return w.exprs(sn, x.Args)

	case *ast.NewExpr:
		sn = w.expr(sn, x.Class)

		return w.exprs(sn, x.Args)

	case *ast.IndexExpr:
		sn = w.expr(sn, x.Target)

		return w.expr(sn, x.Index)

	case *ast.PropertyExpr:
		return w.expr(sn, x.Object)

	case *ast.IssetExpr:
		for _, v := range x.Vars {
			sn = w.guarded(sn, v)
		}

		return sn

	case *ast.EmptyExpr:
		return w.guarded(sn, x.X)

	case *ast.ArrayExpr:
		return w.items(sn, x.Items)

	case *ast.ListExpr:
		return w.items(sn, x.Items)

	case *ast.ClosureExpr:
		return w.closure(sn, x)

	default:
		// Literals, names and unknown shapes: no binding effect.
		return sn
	}
}

func (w *Walker) items(sn scope.Snapshot, items []*ast.ArrayItem) scope.Snapshot {
	for _, item := range items {
		if item == nil {
			continue
		}
		sn = w.expr(sn, item.Key)
		sn = w.expr(sn, item.Value)
	}

	return sn
}

// binary handles the conditionally evaluated operators specially: the right
// operand of &&, || and ?? may never run, so its bindings are merged away.
func (w *Walker) binary(sn scope.Snapshot, x *ast.BinaryExpr) scope.Snapshot {
	switch x.Op {
	case token.Coalesce:
		sn = w.guarded(sn, x.Left)
		rightOut := w.expr(sn, x.Right)

		return scope.Merge(sn, rightOut)

	case token.BoolAnd, token.BoolOr:
		sn = w.expr(sn, x.Left)
		rightOut := w.expr(sn, x.Right)

		return scope.Merge(sn, rightOut)

	default:
		sn = w.expr(sn, x.Left)

		return w.expr(sn, x.Right)
	}
}

func (w *Walker) ternary(sn scope.Snapshot, x *ast.TernaryExpr) scope.Snapshot {
	sn = w.expr(sn, x.Cond)

	thenOut := sn
	if x.Then != nil {
		thenOut = w.expr(sn, x.Then)
	}
	elseOut := w.expr(sn, x.Else)

	return scope.Merge(thenOut, elseOut)
}

// incDec treats ++ and -- as compound assignments: the target must already
// be bound, and is bound afterwards.
func (w *Walker) incDec(sn scope.Snapshot, x *ast.IncDecExpr) scope.Snapshot {
	v, ok := x.Target.(*ast.VariableExpr)
	if !ok {
		return w.expr(sn, x.Target)
	}

	w.checkRead(sn, v.Name, v.Line(), false)

	return sn.Bind(v.Name)
}

// assign walks target = value. The value is walked first, so reads inside
// it are checked against the pre-assignment snapshot even when they mention
// the target's own name.
func (w *Walker) assign(sn scope.Snapshot, x *ast.AssignExpr) scope.Snapshot {
	switch {
	case token.IsCompoundAssign(x.Op):
		sn = w.expr(sn, x.Value)

		if v, ok := x.Target.(*ast.VariableExpr); ok {
			// The compound form reads the target before writing it.
			w.checkRead(sn, v.Name, v.Line(), false)

			return sn.Bind(v.Name)
		}

		return w.expr(sn, x.Target)

	case x.Op == token.CoalesceAssign:
		// The value is only evaluated when the target is unset, so its own
		// bindings are conditional. The target read is a guard context.
		valueOut := w.expr(sn, x.Value)
		sn = scope.Merge(sn, valueOut)

		if v, ok := x.Target.(*ast.VariableExpr); ok {
			return sn.Bind(v.Name)
		}

		sn = w.guarded(sn, x.Target)

		return w.bindBase(sn, x.Target)

	default:
		sn = w.expr(sn, x.Value)

		return w.bindTarget(sn, x.Target)
	}
}

// bindTarget binds the names an assignment target defines, walking its
// subsidiary expressions (indices, keys, receivers) as ordinary reads.
func (w *Walker) bindTarget(sn scope.Snapshot, target ast.Expr) scope.Snapshot {
	switch t := target.(type) {
	case *ast.VariableExpr:
		return sn.Bind(t.Name)

	case *ast.IndexExpr:
		// Writing through a subscript autovivifies the base.
		sn = w.expr(sn, t.Index)

		return w.bindTarget(sn, t.Target)

	case *ast.PropertyExpr:
		// The receiver is read, not bound.
		return w.expr(sn, t.Object)

	case *ast.StaticPropertyExpr:
		return sn

	case *ast.ListExpr:
		return w.bindPattern(sn, t.Items)

	case *ast.ArrayExpr:
		return w.bindPattern(sn, t.Items)

	default:
		return w.expr(sn, target)
	}
}

func (w *Walker) bindPattern(sn scope.Snapshot, items []*ast.ArrayItem) scope.Snapshot {
	for _, item := range items {
		if item == nil || item.Value == nil {
			// Skipped slot.
			continue
		}

		sn = w.expr(sn, item.Key)
		sn = w.bindTarget(sn, item.Value)
	}

	return sn
}

// bindBase binds the base variable of a subscript or property chain without
// re-walking its subsidiary expressions.
func (w *Walker) bindBase(sn scope.Snapshot, target ast.Expr) scope.Snapshot {
	switch t := target.(type) {
	case *ast.VariableExpr:
		return sn.Bind(t.Name)

	case *ast.IndexExpr:
		return w.bindBase(sn, t.Target)

	default:
		return sn
	}
}

// guarded walks an expression in guard context: existence checks tolerate
// names that are only conditionally bound, as long as they are assigned
// somewhere in the body. Subscript indices remain ordinary reads.
func (w *Walker) guarded(sn scope.Snapshot, expr ast.Expr) scope.Snapshot {
	switch x := expr.(type) {
	case *ast.VariableExpr:
		w.checkRead(sn, x.Name, x.Line(), true)

		return sn

	case *ast.IndexExpr:
		sn = w.guarded(sn, x.Target)

		return w.expr(sn, x.Index)

	case *ast.PropertyExpr:
		return w.guarded(sn, x.Object)

	default:
		return w.expr(sn, expr)
	}
}

// call walks a function call, applying the by-ref output and diagnostic
// variable effects of the known builtins.
func (w *Walker) call(sn scope.Snapshot, x *ast.CallExpr) scope.Snapshot {
	name, direct := x.CalledName()
	if !direct {
		sn = w.expr(sn, x.Fn)

		return w.exprs(sn, x.Args)
	}

	// Names of bare variables passed in reference-output positions; they
	// become bound after the call, like assignment targets.
	var refOut []string

	for i, arg := range x.Args {
		if v, ok := arg.(*ast.VariableExpr); ok && builtin.ReferenceOutput(name, i) {
			refOut = append(refOut, v.Name)

			continue
		}
		sn = w.expr(sn, arg)
	}

	for _, out := range refOut {
		sn = sn.Bind(out)
	}

	if builtin.PopulatesHTTPHeader(name) {
		sn = sn.WithHTTPHeader()
	}

	if builtin.Terminates(name) {
		return sn.AsUnreachable()
	}

	return sn
}

// closure checks a closure's use list against the enclosing snapshot and
// analyzes its body as a separate unit with its own universe.
func (w *Walker) closure(sn scope.Snapshot, x *ast.ClosureExpr) scope.Snapshot {
	entryBound := scope.Names{}

	for _, p := range x.Params {
		entryBound = entryBound.With(p.Name)
	}

	for _, use := range x.Uses {
		entryBound = entryBound.With(use.Name)

		if use.ByRef {
			// By-reference captures come to exist in the enclosing scope.
			sn = sn.Bind(use.Name)

			continue
		}

		// By-value captures read the enclosing scope at creation time.
		w.checkRead(sn, use.Name, use.Line(), false)
	}

	entry := scope.Enter(
		entryBound,
		usage.Collect(x.Body),
		sn.ThisAvailable() && !x.Static,
		sn.CLIArgsAvailable(),
	)

	if sn.Unreachable() {
		entry = entry.AsUnreachable()
	}

	sub := &Walker{sink: w.sink}
	sub.stmts(entry, x.Body)

	return sn
}
