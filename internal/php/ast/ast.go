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

// Package ast declares the syntax tree of the analyzed PHP subset.
//
// The hierarchy is closed: every construct the checker reasons about has a
// node type here, and consumers dispatch with exhaustive type switches whose
// default case is a no-op, so unknown shapes degrade safely.
package ast

import "github.com/stefan-squareweave/phpstan/internal/php/token"

// Node is the common interface of all tree nodes.
type Node interface {
	// Line is the 1-based source line the node starts on.
	Line() int
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// File is one parsed compilation unit.
type File struct {
	Name  string
	Stmts []Stmt
}

// Pos carries the line number shared by all nodes.
type Pos struct {
	Ln int
}

// Line implements [Node].
func (p Pos) Line() int { return p.Ln }

// At returns a Pos for the given line.
func At(line int) Pos { return Pos{Ln: line} }

// ---- statements ----

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	Pos
	X Expr
}

// EchoStmt is an echo or print statement.
type EchoStmt struct {
	Pos
	Args []Expr
}

// Block is a braced statement group.
type Block struct {
	Pos
	List []Stmt
}

// IfStmt is a conditional. An elseif chain is represented as a nested IfStmt
// in Else, with HasElse set on the outer node.
type IfStmt struct {
	Pos
	Cond    Expr
	Then    []Stmt
	Else    []Stmt
	HasElse bool
}

// WhileStmt is a pre-tested loop.
type WhileStmt struct {
	Pos
	Cond Expr
	Body []Stmt
}

// DoWhileStmt is a post-tested loop; the body runs at least once.
type DoWhileStmt struct {
	Pos
	Body []Stmt
	Cond Expr
}

// ForStmt is a C-style loop. All three clauses may be empty.
type ForStmt struct {
	Pos
	Init []Expr
	Cond []Expr
	Post []Expr
	Body []Stmt
}

// ForeachStmt iterates a subject expression. Key may be nil. Value is a
// variable or a destructuring pattern.
type ForeachStmt struct {
	Pos
	Subject Expr
	Key     *VariableExpr
	Value   Expr
	ByRef   bool
	Body    []Stmt
}

// SwitchStmt is a switch with fallthrough case semantics.
type SwitchStmt struct {
	Pos
	Subject Expr
	Cases   []*CaseClause
}

// CaseClause is one case arm; a nil Cond marks the default arm.
type CaseClause struct {
	Pos
	Cond Expr
	Body []Stmt
}

// TryStmt is a try with catch arms and an optional finally block.
type TryStmt struct {
	Pos
	Body       []Stmt
	Catches    []*CatchClause
	Finally    []Stmt
	HasFinally bool
}

// CatchClause binds the caught value to Var, which may be empty when the
// clause declares no variable.
type CatchClause struct {
	Pos
	Types []string
	Var   string
	Body  []Stmt
}

// BreakStmt leaves the innermost loop or switch. A level argument, when
// present in source, is not modeled.
type BreakStmt struct {
	Pos
}

// ContinueStmt resumes the innermost loop.
type ContinueStmt struct {
	Pos
}

// ReturnStmt exits the enclosing body; X may be nil.
type ReturnStmt struct {
	Pos
	X Expr
}

// ThrowStmt raises an exception.
type ThrowStmt struct {
	Pos
	X Expr
}

// UnsetStmt removes bindings.
type UnsetStmt struct {
	Pos
	Vars []Expr
}

// GlobalStmt imports names from the global scope, binding them locally.
type GlobalStmt struct {
	Pos
	Vars []*VariableExpr
}

// StaticStmt declares function-static variables, binding them locally.
type StaticStmt struct {
	Pos
	Vars []*StaticVar
}

// StaticVar is one declarator of a static statement.
type StaticVar struct {
	Pos
	Name    string
	Default Expr
}

// FunctionStmt is a named function declaration. Its body is a separate
// analysis unit.
type FunctionStmt struct {
	Pos
	Name   string
	Params []*Param
	Body   []Stmt
}

// ClassStmt is a class declaration; only methods carry analyzable bodies.
type ClassStmt struct {
	Pos
	Name    string
	Methods []*Method
}

// Method is a class method. Static methods have no object context.
type Method struct {
	Pos
	Name   string
	Params []*Param
	Static bool
	Body   []Stmt
}

// Param is a declared parameter; parameters are bound on entry.
type Param struct {
	Pos
	Name    string
	ByRef   bool
	Default Expr
}

// ---- expressions ----

// VariableExpr is a read or write of $Name; Name excludes the sigil.
type VariableExpr struct {
	Pos
	Name string
}

// AssignExpr assigns Value to Target with operator Op. Op distinguishes
// plain, compound and null-coalescing assignment.
type AssignExpr struct {
	Pos
	Target Expr
	Op     token.Kind
	Value  Expr
}

// ListExpr is a list(...) destructuring pattern. A nil item is a skipped
// slot.
type ListExpr struct {
	Pos
	Items []*ArrayItem
}

// ArrayExpr is an array literal, which doubles as a [...] destructuring
// pattern in assignment target position.
type ArrayExpr struct {
	Pos
	Items []*ArrayItem
}

// ArrayItem is one element of an array literal or pattern. Key may be nil;
// a nil Value marks a skipped destructuring slot.
type ArrayItem struct {
	Key   Expr
	Value Expr
	ByRef bool
}

// TernaryExpr is Cond ? Then : Else; a nil Then is the short form.
type TernaryExpr struct {
	Pos
	Cond Expr
	Then Expr
	Else Expr
}

// BinaryExpr is a binary operation, including &&, || and ??, whose
// right operand is conditionally evaluated.
type BinaryExpr struct {
	Pos
	Op    token.Kind
	Left  Expr
	Right Expr
}

// UnaryExpr is a prefix operation: !, unary + and -, or error suppression.
type UnaryExpr struct {
	Pos
	Op token.Kind
	X  Expr
}

// IncDecExpr is ++ or -- applied to Target in prefix or postfix position.
type IncDecExpr struct {
	Pos
	Op     token.Kind
	Target Expr
	Prefix bool
}

// CallExpr invokes Fn, which is a NameExpr for an ordinary call or an
// arbitrary expression for a dynamic one.
type CallExpr struct {
	Pos
	Fn   Expr
	Args []Expr
}

// MethodCallExpr is Object->Name(Args).
type MethodCallExpr struct {
	Pos
	Object Expr
	Name   string
	Args   []Expr
}

// StaticCallExpr is Class::Name(Args).
type StaticCallExpr struct {
	Pos
	Class string
	Name  string
	Args  []Expr
}

// NewExpr instantiates a class; Class is a NameExpr or a dynamic expression.
type NewExpr struct {
	Pos
	Class Expr
	Args  []Expr
}

// IndexExpr is Target[Index]; a nil Index is the append form Target[].
type IndexExpr struct {
	Pos
	Target Expr
	Index  Expr
}

// PropertyExpr is Object->Name.
type PropertyExpr struct {
	Pos
	Object Expr
	Name   string
}

// StaticPropertyExpr is Class::$Name. The property name is not a local
// variable.
type StaticPropertyExpr struct {
	Pos
	Class string
	Name  string
}

// IssetExpr is isset(...); its arguments are guard contexts.
type IssetExpr struct {
	Pos
	Vars []Expr
}

// EmptyExpr is empty(...); its argument is a guard context.
type EmptyExpr struct {
	Pos
	X Expr
}

// ClosureExpr is an anonymous function. Use lists capture enclosing
// variables by value or by reference; static closures have no object
// context.
type ClosureExpr struct {
	Pos
	Params []*Param
	Uses   []*ClosureUse
	Static bool
	Body   []Stmt
}

// ClosureUse is one entry of a closure use list.
type ClosureUse struct {
	Pos
	Name  string
	ByRef bool
}

/// NameExpr is a bare identifier: a constant fetch or a function/class name.
type NameExpr struct {
	Pos
	Value string
}

// StringLit is a string literal.
type StringLit struct {
	Pos
	Value string
}

// NumberLit is an integer or float literal, kept as written.
type NumberLit struct {
	Pos
	Raw string
}

func (*ExprStmt) stmtNode()     {}
func (*EchoStmt) stmtNode()     {}
func (*Block) stmtNode()        {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*DoWhileStmt) stmtNode()  {}
func (*ForStmt) stmtNode()      {}
func (*ForeachStmt) stmtNode()  {}
func (*SwitchStmt) stmtNode()   {}
func (*TryStmt) stmtNode()      {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*ReturnStmt) stmtNode()   {}
func (*ThrowStmt) stmtNode()    {}
func (*UnsetStmt) stmtNode()    {}
func (*GlobalStmt) stmtNode()   {}
func (*StaticStmt) stmtNode()   {}
func (*FunctionStmt) stmtNode() {}
func (*ClassStmt) stmtNode()    {}

func (*VariableExpr) exprNode()       {}
func (*AssignExpr) exprNode()         {}
func (*ListExpr) exprNode()           {}
func (*ArrayExpr) exprNode()          {}
func (*TernaryExpr) exprNode()        {}
func (*BinaryExpr) exprNode()         {}
func (*UnaryExpr) exprNode()          {}
func (*IncDecExpr) exprNode()         {}
func (*CallExpr) exprNode()           {}
func (*MethodCallExpr) exprNode()     {}
func (*StaticCallExpr) exprNode()     {}
func (*NewExpr) exprNode()            {}
func (*IndexExpr) exprNode()          {}
func (*PropertyExpr) exprNode()       {}
func (*StaticPropertyExpr) exprNode() {}
func (*IssetExpr) exprNode()          {}
func (*EmptyExpr) exprNode()          {}
func (*ClosureExpr) exprNode()        {}
func (*NameExpr) exprNode()           {}
func (*StringLit) exprNode()          {}
func (*NumberLit) exprNode()          {}

// CalledName returns the lower-cased function name of a direct call, or
// false when the callee is dynamic.
func (c *CallExpr) CalledName() (string, bool) {
	name, ok := c.Fn.(*NameExpr)
	if !ok {
		return "", false
	}

	return lower(name.Value), true
}

func lower(s string) string {
	for i := 0; i < len(s); i++ {
		if 'A' <= s[i] && s[i] <= 'Z' {
			return lowerSlow(s)
		}
	}

	return s
}

func lowerSlow(s string) string {
	b := []byte(s)
	for i, ch := range b {
		if 'A' <= ch && ch <= 'Z' {
			b[i] = ch + ('a' - 'A')
		}
	}

	return string(b)
}
