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

// Package flow implements the variable-definedness analysis.
//
// The walker threads immutable [scope.Snapshot] values through one function,
// method or script body, applying construct-specific merge rules at every
// join point, and consults the read checker at every variable read. Unknown
// node shapes have no binding effect, so one unusual construct never
// suppresses diagnostics for the rest of a body.
package flow

import (
	"strings"

	"github.com/stefan-squareweave/phpstan/internal/php/ast"
	"github.com/stefan-squareweave/phpstan/internal/php/builtin"
	"github.com/stefan-squareweave/phpstan/internal/report"
	"github.com/stefan-squareweave/phpstan/internal/scope"
)

// Walker traverses one body. It is single-use and not safe for concurrent
// use; independent bodies get independent walkers.
type Walker struct {
	sink   report.Sink
	frames []*frame
}

// frame tracks the jump targets of one enclosing loop or switch.
type frame struct {
	isLoop bool

	// exits collects the snapshots live at each break statement.
	exits []scope.Snapshot
}

// CheckBody walks body under the entry snapshot, reporting every undefined
// read to sink, and returns the snapshot at the body's end.
func CheckBody(body []ast.Stmt, entry scope.Snapshot, sink report.Sink) scope.Snapshot {
	w := &Walker{sink: sink}

	return w.stmts(entry, body)
}

func (w *Walker) pushFrame(isLoop bool) *frame {
	f := &frame{isLoop: isLoop}
	w.frames = append(w.frames, f)

	return f
}

func (w *Walker) popFrame() {
	w.frames = w.frames[:len(w.frames)-1]
}

func (w *Walker) topFrame() *frame {
	if len(w.frames) == 0 {
		return nil
	}

	return w.frames[len(w.frames)-1]
}

func (w *Walker) stmts(sn scope.Snapshot, stmts []ast.Stmt) scope.Snapshot {
	for _, stmt := range stmts {
		sn = w.stmt(sn, stmt)
	}

	return sn
}

func (w *Walker) stmt(sn scope.Snapshot, stmt ast.Stmt) scope.Snapshot {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		sn = w.expr(sn, s.X)
		if name, ok := s.X.(*ast.NameExpr); ok && builtin.Terminates(strings.ToLower(name.Value)) {
			// Bare exit or die.
			return sn.AsUnreachable()
		}

		return sn

	case *ast.EchoStmt:
		return w.exprs(sn, s.Args)

	case *ast.Block:
		return w.stmts(sn, s.List)

	case *ast.IfStmt:
		return w.ifStmt(sn, s)

	case *ast.WhileStmt:
		return w.whileStmt(sn, s)

	case *ast.DoWhileStmt:
		return w.doWhileStmt(sn, s)

	case *ast.ForStmt:
		return w.forStmt(sn, s)

	case *ast.ForeachStmt:
		return w.foreachStmt(sn, s)

	case *ast.SwitchStmt:
		return w.switchStmt(sn, s)

	case *ast.TryStmt:
		return w.tryStmt(sn, s)

	case *ast.BreakStmt:
		if f := w.topFrame(); f != nil {
			f.exits = append(f.exits, sn)
		}

		return sn.AsUnreachable()

	case *ast.ContinueStmt:
		// Inside a switch, continue behaves like break.
		if f := w.topFrame(); f != nil && !f.isLoop {
			f.exits = append(f.exits, sn)
		}

		return sn.AsUnreachable()

	case *ast.ReturnStmt:
		sn = w.expr(sn, s.X)

		return sn.AsUnreachable()

	case *ast.ThrowStmt:
		sn = w.expr(sn, s.X)

		return sn.AsUnreachable()

	case *ast.UnsetStmt:
		return w.unsetStmt(sn, s)

	case *ast.GlobalStmt:
		for _, v := range s.Vars {
			sn = sn.Bind(v.Name)
		}

		return sn

	case *ast.StaticStmt:
		for _, v := range s.Vars {
			sn = w.expr(sn, v.Default)
			sn = sn.Bind(v.Name)
		}

		return sn

	case *ast.FunctionStmt, *ast.ClassStmt:
		// Declarations are separate analysis units.
		return sn

	default:
		// No binding effect.
		return sn
	}
}

func (w *Walker) ifStmt(sn scope.Snapshot, s *ast.IfStmt) scope.Snapshot {
	sn = w.expr(sn, s.Cond)

	thenOut := w.stmts(sn, s.Then)

	elseOut := sn
	if s.HasElse {
		elseOut = w.stmts(sn, s.Else)
	}

	return scope.Merge(thenOut, elseOut)
}

func (w *Walker) whileStmt(sn scope.Snapshot, s *ast.WhileStmt) scope.Snapshot {
	sn = w.expr(sn, s.Cond)

	f := w.pushFrame(true)
	w.stmts(sn, s.Body)
	w.popFrame()

	if isAlwaysTrue(s.Cond) {
		// The loop can only be left through break.
		return scope.MergeAll(f.exits...)
	}

	// Zero iterations are possible; nothing bound only inside the body
	// survives the loop.
	return sn
}

func (w *Walker) doWhileStmt(sn scope.Snapshot, s *ast.DoWhileStmt) scope.Snapshot {
	f := w.pushFrame(true)
	bodyOut := w.stmts(sn, s.Body)
	w.popFrame()

	// The body runs at least once; the condition sees its bindings.
	condOut := w.expr(bodyOut, s.Cond)

	return scope.MergeAll(append(f.exits, condOut)...)
}

func (w *Walker) forStmt(sn scope.Snapshot, s *ast.ForStmt) scope.Snapshot {
	// The init clause always runs; its assignments survive the loop.
	sn = w.exprs(sn, s.Init)
	sn = w.exprs(sn, s.Cond)

	f := w.pushFrame(true)
	bodyOut := w.stmts(sn, s.Body)
	w.exprs(bodyOut, s.Post)
	w.popFrame()

	if len(s.Cond) == 0 || isAlwaysTrue(s.Cond[len(s.Cond)-1]) {
		return scope.MergeAll(f.exits...)
	}

	return sn
}

func (w *Walker) foreachStmt(sn scope.Snapshot, s *ast.ForeachStmt) scope.Snapshot {
	sn = w.expr(sn, s.Subject)

	bodyIn := sn
	if s.Key != nil {
		bodyIn = bodyIn.Bind(s.Key.Name)
	}
	bodyIn = w.bindTarget(bodyIn, s.Value)

	w.pushFrame(true)
	w.stmts(bodyIn, s.Body)
	w.popFrame()

	// The subject may be empty; loop-header names are not guaranteed after.
	return sn
}

func (w *Walker) switchStmt(sn scope.Snapshot, s *ast.SwitchStmt) scope.Snapshot {
	sn = w.expr(sn, s.Subject)

	f := w.pushFrame(false)

	// fall carries the previous case's fall-through exit.
	fall := sn.AsUnreachable()
	hasDefault := false

	for _, clause := range s.Cases {
		if clause.Cond == nil {
			hasDefault = true
		} else {
			// Case expressions are compared, not bound; reads are still
			// checked against the pre-dispatch snapshot, and an
			// assignment inside a case expression does not carry into
			// later arms.
			_ = w.expr(sn, clause.Cond)
		}

		// Execution enters here either by direct match or by falling
		// through the previous case.
		entry := scope.Merge(sn, fall)
		fall = w.stmts(entry, clause.Body)
	}

	w.popFrame()

	exits := append(f.exits, fall)
	if !hasDefault {
		// Without a default the subject may match nothing at all.
		exits = append(exits, sn)
	}

	return scope.MergeAll(exits...)
}

func (w *Walker) tryStmt(sn scope.Snapshot, s *ast.TryStmt) scope.Snapshot {
	outs := make([]scope.Snapshot, 0, len(s.Catches)+1)
	outs = append(outs, w.stmts(sn, s.Body))

	for _, clause := range s.Catches {
		entry := sn
		if clause.Var != "" {
			entry = entry.Bind(clause.Var)
		}

		// Control may leave try before any of its assignments ran, so the
		// catch body starts from the pre-try snapshot.
		outs = append(outs, w.stmts(entry, clause.Body))
	}

	after := scope.MergeAll(outs...)

	if s.HasFinally {
		// finally always runs and its assignments are unconditional.
		entry := after
		if entry.Unreachable() && !sn.Unreachable() {
			// Every try and catch path terminated, but finally still
			// executes; the intersection across the arms holds for its
			// reads.
			live := make([]scope.Snapshot, len(outs))
			for i, out := range outs {
				live[i] = out.AsReachable()
			}
			entry = scope.MergeAll(live...)
		}

		fin := w.stmts(entry, s.Finally)

		if after.Unreachable() {
			// Terminated paths stay terminated past finally.
			fin = fin.AsUnreachable()
		}

		after = fin
	}

	return after
}

func (w *Walker) unsetStmt(sn scope.Snapshot, s *ast.UnsetStmt) scope.Snapshot {
	for _, v := range s.Vars {
		switch x := v.(type) {
		case *ast.VariableExpr:
			sn = sn.Unbind(x.Name)

		case *ast.IndexExpr:
			// Unsetting an element probes the base like an existence check.
			sn = w.guarded(sn, x)

		default:
			sn = w.expr(sn, v)
		}
	}

	return sn
}

// isAlwaysTrue recognizes the literal infinite-loop conditions.
func isAlwaysTrue(cond ast.Expr) bool {
	switch x := cond.(type) {
	case *ast.NameExpr:
		return strings.EqualFold(x.Value, "true")

	case *ast.NumberLit:
		return x.Raw == "1"

	default:
		return false
	}
}
