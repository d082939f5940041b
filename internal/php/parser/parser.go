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

// Package parser builds the syntax tree for the analyzed PHP subset.
//
// Expressions are parsed with a precedence-climbing (Pratt) loop over a
// fixed operator table; statements with plain recursive descent. The parser
// recovers at statement boundaries so one malformed construct does not
// suppress the rest of a file.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stefan-squareweave/phpstan/internal/php/ast"
	"github.com/stefan-squareweave/phpstan/internal/php/lexer"
	"github.com/stefan-squareweave/phpstan/internal/php/token"
)

// ParseFile parses src into a [ast.File]. On syntax errors the partial tree
// is returned alongside the joined error list.
func ParseFile(name, src string) (*ast.File, error) {
	p := &parser{file: name, toks: lexer.Tokens(src)}

	stmts := p.parseStmts(token.EOF)

	return &ast.File{Name: name, Stmts: stmts}, errors.Join(p.errs...)
}

// ParseExpr parses a single expression, mainly for tests.
func ParseExpr(src string) (ast.Expr, error) {
	p := &parser{file: "expr", toks: lexer.Tokens("<?php " + src)}

	x := p.parseExpr(precLowest)

	return x, errors.Join(p.errs...)
}

type parser struct {
	file string
	toks []token.Token
	pos  int
	errs []error
}

// Operator precedence, loosest first. The keyword logical operators bind
// looser than assignment, matching the engine.
const (
	precLowest = iota
	precKeywordOr
	precKeywordAnd
	precAssign
	precTernary
	precCoalesce
	precBoolOr
	precBoolAnd
	precBitOr
	precBitAnd
	precEquality
	precComparison
	precAdditive
	precMultiplicative
	precInstanceof
	precPow
)

func infixPrecedence(kind token.Kind) int {
	switch kind {
	case token.OrKeyword, token.XorKeyword:
		return precKeywordOr
	case token.AndKeyword:
		return precKeywordAnd
	case token.Assign, token.PlusAssign, token.MinusAssign, token.MulAssign,
		token.DivAssign, token.ModAssign, token.PowAssign, token.ConcatAssign,
		token.CoalesceAssign:
		return precAssign
	case token.Question:
		return precTernary
	case token.Coalesce:
		return precCoalesce
	case token.BoolOr:
		return precBoolOr
	case token.BoolAnd:
		return precBoolAnd
	case token.Pipe:
		return precBitOr
	case token.Amp:
		return precBitAnd
	case token.Equal, token.NotEqual, token.Identical, token.NotIdentical:
		return precEquality
	case token.Less, token.Greater, token.LessEqual, token.GreaterEqual:
		return precComparison
	case token.Plus, token.Minus, token.Concat:
		return precAdditive
	case token.Mul, token.Div, token.Mod:
		return precMultiplicative
	case token.Instanceof:
		return precInstanceof
	case token.Pow:
		return precPow
	default:
		return precLowest
	}
}

func (p *parser) cur() token.Token { return p.toks[p.pos] }

func (p *parser) peek() token.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) next() token.Token {
	tok := p.toks[p.pos]
	if p.pos+1 < len(p.toks) {
		p.pos++
	}

	return tok
}

func (p *parser) at(kind token.Kind) bool { return p.cur().Kind == kind }

func (p *parser) accept(kind token.Kind) bool {
	if !p.at(kind) {
		return false
	}
	p.next()

	return true
}

func (p *parser) expect(kind token.Kind) token.Token {
	if !p.at(kind) {
		p.errorf("unexpected %q", p.cur().Literal)

		return token.Token{Kind: kind, Line: p.cur().Line}
	}

	return p.next()
}

func (p *parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, fmt.Errorf("%s:%d: %s", p.file, p.cur().Line, fmt.Sprintf(format, args...)))
}

// sync skips ahead to the next statement boundary after an error.
func (p *parser) sync() {
	for !p.at(token.EOF) {
		if p.accept(token.Semicolon) {
			return
		}

		if p.at(token.RBrace) {
			return
		}
		p.next()
	}
}

// ---- statements ----

func (p *parser) parseStmts(end token.Kind) []ast.Stmt {
	var stmts []ast.Stmt
	for !p.at(end) && !p.at(token.EOF) {
		before := p.pos

		if stmt := p.parseStmt(); stmt != nil {
			stmts = append(stmts, stmt)
		}

		if p.pos == before {
			// No progress on a token we cannot place: drop it.
			p.errorf("unexpected %q", p.cur().Literal)
			p.next()
		}
	}

	return stmts
}

func (p *parser) parseStmt() ast.Stmt {
	tok := p.cur()

	switch tok.Kind {
	case token.Semicolon:
		p.next()

		return nil

	case token.LBrace:
		p.next()
		list := p.parseStmts(token.RBrace)
		p.expect(token.RBrace)

		return &ast.Block{Pos: ast.Pos{Ln: tok.Line}, List: list}

	case token.If:
		return p.parseIf()

	case token.While:
		return p.parseWhile()

	case token.Do:
		return p.parseDoWhile()

	case token.For:
		return p.parseFor()

	case token.Foreach:
		return p.parseForeach()

	case token.Switch:
		return p.parseSwitch()

	case token.Try:
		return p.parseTry()

	case token.Break:
		p.next()
		p.skipOptionalLevel()
		p.accept(token.Semicolon)

		return &ast.BreakStmt{Pos: ast.Pos{Ln: tok.Line}}

	case token.Continue:
		p.next()
		p.skipOptionalLevel()
		p.accept(token.Semicolon)

		return &ast.ContinueStmt{Pos: ast.Pos{Ln: tok.Line}}

	case token.Return:
		p.next()

		var x ast.Expr
		if !p.at(token.Semicolon) && !p.at(token.RBrace) && !p.at(token.EOF) {
			x = p.parseExpr(precLowest)
		}
		p.accept(token.Semicolon)

		return &ast.ReturnStmt{Pos: ast.Pos{Ln: tok.Line}, X: x}

	case token.Throw:
		p.next()
		x := p.parseExpr(precLowest)
		p.accept(token.Semicolon)

		return &ast.ThrowStmt{Pos: ast.Pos{Ln: tok.Line}, X: x}

	case token.Echo:
		p.next()
		args := p.parseExprList()
		p.accept(token.Semicolon)

		return &ast.EchoStmt{Pos: ast.Pos{Ln: tok.Line}, Args: args}

	case token.Unset:
		p.next()
		p.expect(token.LParen)
		vars := p.parseExprList()
		p.expect(token.RParen)
		p.accept(token.Semicolon)

		return &ast.UnsetStmt{Pos: ast.Pos{Ln: tok.Line}, Vars: vars}

	case token.Global:
		return p.parseGlobal()

	case token.Static:
		if p.peek().Kind == token.Variable {
			return p.parseStaticVars()
		}

		return p.parseExprStmt()

	case token.Function:
		if p.peek().Kind == token.Ident || p.peek().Kind == token.Amp {
			return p.parseFunction()
		}

		return p.parseExprStmt()

	case token.Abstract, token.Final:
		p.next()

		return p.parseStmt()

	case token.Class, token.Interface, token.Trait:
		return p.parseClassLike()

	case token.Const:
		p.sync()

		return nil

	case token.Use:
		// Top-level import; no effect on local bindings.
		p.sync()

		return nil

	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseExprStmt() ast.Stmt {
	tok := p.cur()
	x := p.parseExpr(precLowest)

	if !p.accept(token.Semicolon) && !p.at(token.RBrace) && !p.at(token.EOF) {
		p.errorf("expected ';' after expression")
		p.sync()
	}

	if x == nil {
		return nil
	}

	return &ast.ExprStmt{Pos: ast.Pos{Ln: tok.Line}, X: x}
}

func (p *parser) skipOptionalLevel() {
	if p.at(token.Number) {
		p.next()
	}
}

// parseBody parses either a braced block or a single statement.
func (p *parser) parseBody() []ast.Stmt {
	if p.at(token.LBrace) {
		p.next()
		list := p.parseStmts(token.RBrace)
		p.expect(token.RBrace)

		return list
	}

	if stmt := p.parseStmt(); stmt != nil {
		return []ast.Stmt{stmt}
	}

	return nil
}

func (p *parser) parseIf() ast.Stmt {
	tok := p.expect(token.If)
	p.expect(token.LParen)
	cond := p.parseExpr(precLowest)
	p.expect(token.RParen)

	then := p.parseBody()

	stmt := &ast.IfStmt{Pos: ast.Pos{Ln: tok.Line}, Cond: cond, Then: then}

	switch {
	case p.at(token.Elseif):
		stmt.Else = []ast.Stmt{p.parseElseif()}
		stmt.HasElse = true

	case p.at(token.Else):
		p.next()
		if p.at(token.If) {
			stmt.Else = []ast.Stmt{p.parseIf()}
		} else {
			stmt.Else = p.parseBody()
		}
		stmt.HasElse = true
	}

	return stmt
}

func (p *parser) parseElseif() ast.Stmt {
	tok := p.expect(token.Elseif)
	p.expect(token.LParen)
	cond := p.parseExpr(precLowest)
	p.expect(token.RParen)

	then := p.parseBody()

	stmt := &ast.IfStmt{Pos: ast.Pos{Ln: tok.Line}, Cond: cond, Then: then}

	switch {
	case p.at(token.Elseif):
		stmt.Else = []ast.Stmt{p.parseElseif()}
		stmt.HasElse = true

	case p.at(token.Else):
		p.next()
		stmt.Else = p.parseBody()
		stmt.HasElse = true
	}

	return stmt
}

func (p *parser) parseWhile() ast.Stmt {
	tok := p.expect(token.While)
	p.expect(token.LParen)
	cond := p.parseExpr(precLowest)
	p.expect(token.RParen)

	return &ast.WhileStmt{Pos: ast.Pos{Ln: tok.Line}, Cond: cond, Body: p.parseBody()}
}

func (p *parser) parseDoWhile() ast.Stmt {
	tok := p.expect(token.Do)
	body := p.parseBody()
	p.expect(token.While)
	p.expect(token.LParen)
	cond := p.parseExpr(precLowest)
	p.expect(token.RParen)
	p.accept(token.Semicolon)

	return &ast.DoWhileStmt{Pos: ast.Pos{Ln: tok.Line}, Body: body, Cond: cond}
}

func (p *parser) parseFor() ast.Stmt {
	tok := p.expect(token.For)
	p.expect(token.LParen)

	stmt := &ast.ForStmt{Pos: ast.Pos{Ln: tok.Line}}

	if !p.at(token.Semicolon) {
		stmt.Init = p.parseExprList()
	}
	p.expect(token.Semicolon)

	if !p.at(token.Semicolon) {
		stmt.Cond = p.parseExprList()
	}
	p.expect(token.Semicolon)

	if !p.at(token.RParen) {
		stmt.Post = p.parseExprList()
	}
	p.expect(token.RParen)

	stmt.Body = p.parseBody()

	return stmt
}

func (p *parser) parseForeach() ast.Stmt {
	tok := p.expect(token.Foreach)
	p.expect(token.LParen)

	stmt := &ast.ForeachStmt{Pos: ast.Pos{Ln: tok.Line}}
	stmt.Subject = p.parseExpr(precLowest)
	p.expect(token.As)

	stmt.ByRef = p.accept(token.Amp)
	first := p.parseExpr(precTernary)

	if p.accept(token.DoubleArrow) {
		if key, ok := first.(*ast.VariableExpr); ok {
			stmt.Key = key
		} else {
			p.errorf("foreach key must be a variable")
		}

		stmt.ByRef = p.accept(token.Amp)
		stmt.Value = p.parseExpr(precTernary)
	} else {
		stmt.Value = first
	}

	p.expect(token.RParen)
	stmt.Body = p.parseBody()

	return stmt
}

func (p *parser) parseSwitch() ast.Stmt {
	tok := p.expect(token.Switch)
	p.expect(token.LParen)
	subject := p.parseExpr(precLowest)
	p.expect(token.RParen)
	p.expect(token.LBrace)

	stmt := &ast.SwitchStmt{Pos: ast.Pos{Ln: tok.Line}, Subject: subject}

	for !p.at(token.RBrace) && !p.at(token.EOF) {
		clause := &ast.CaseClause{Pos: ast.Pos{Ln: p.cur().Line}}

		switch {
		case p.accept(token.Case):
			clause.Cond = p.parseExpr(precLowest)

		case p.accept(token.Default):

		default:
			p.errorf("expected case or default")
			p.sync()

			continue
		}

		if !p.accept(token.Colon) {
			p.accept(token.Semicolon)
		}

		for !p.at(token.Case) && !p.at(token.Default) && !p.at(token.RBrace) && !p.at(token.EOF) {
			if s := p.parseStmt(); s != nil {
				clause.Body = append(clause.Body, s)
			}
		}

		stmt.Cases = append(stmt.Cases, clause)
	}
	p.expect(token.RBrace)

	return stmt
}

func (p *parser) parseTry() ast.Stmt {
	tok := p.expect(token.Try)
	p.expect(token.LBrace)
	body := p.parseStmts(token.RBrace)
	p.expect(token.RBrace)

	stmt := &ast.TryStmt{Pos: ast.Pos{Ln: tok.Line}, Body: body}

	for p.at(token.Catch) {
		stmt.Catches = append(stmt.Catches, p.parseCatch())
	}

	if p.accept(token.Finally) {
		p.expect(token.LBrace)
		stmt.Finally = p.parseStmts(token.RBrace)
		p.expect(token.RBrace)
		stmt.HasFinally = true
	}

	return stmt
}

func (p *parser) parseCatch() *ast.CatchClause {
	tok := p.expect(token.Catch)
	p.expect(token.LParen)

	clause := &ast.CatchClause{Pos: ast.Pos{Ln: tok.Line}}

	clause.Types = append(clause.Types, p.parseTypeName())
	for p.accept(token.Pipe) {
		clause.Types = append(clause.Types, p.parseTypeName())
	}

	if p.at(token.Variable) {
		clause.Var = p.next().Literal
	}
	p.expect(token.RParen)

	p.expect(token.LBrace)
	clause.Body = p.parseStmts(token.RBrace)
	p.expect(token.RBrace)

	return clause
}

// parseTypeName consumes a possibly qualified class name.
func (p *parser) parseTypeName() string {
	var sb strings.Builder

	for p.at(token.Backslash) {
		p.next()
		sb.WriteByte('\\')
	}
	sb.WriteString(p.expect(token.Ident).Literal)

	for p.at(token.Backslash) {
		p.next()
		sb.WriteByte('\\')
		sb.WriteString(p.expect(token.Ident).Literal)
	}

	return sb.String()
}

func (p *parser) parseGlobal() ast.Stmt {
	tok := p.expect(token.Global)

	stmt := &ast.GlobalStmt{Pos: ast.Pos{Ln: tok.Line}}
	for {
		v := p.expect(token.Variable)
		stmt.Vars = append(stmt.Vars, &ast.VariableExpr{Pos: ast.Pos{Ln: v.Line}, Name: v.Literal})

		if !p.accept(token.Comma) {
			break
		}
	}
	p.accept(token.Semicolon)

	return stmt
}

func (p *parser) parseStaticVars() ast.Stmt {
	tok := p.expect(token.Static)

	stmt := &ast.StaticStmt{Pos: ast.Pos{Ln: tok.Line}}
	for {
		v := p.expect(token.Variable)
		decl := &ast.StaticVar{Pos: ast.Pos{Ln: v.Line}, Name: v.Literal}

		if p.accept(token.Assign) {
			decl.Default = p.parseExpr(precTernary)
		}
		stmt.Vars = append(stmt.Vars, decl)

		if !p.accept(token.Comma) {
			break
		}
	}
	p.accept(token.Semicolon)

	return stmt
}

func (p *parser) parseFunction() ast.Stmt {
	tok := p.expect(token.Function)
	p.accept(token.Amp) // by-ref return

	name := p.expect(token.Ident).Literal
	params := p.parseParams()
	p.skipReturnType()

	p.expect(token.LBrace)
	body := p.parseStmts(token.RBrace)
	p.expect(token.RBrace)

	return &ast.FunctionStmt{Pos: ast.Pos{Ln: tok.Line}, Name: name, Params: params, Body: body}
}

func (p *parser) parseClassLike() ast.Stmt {
	tok := p.next() // class, interface or trait
	name := p.expect(token.Ident).Literal

	if p.accept(token.Extends) {
		p.parseTypeName()
	}

	if p.accept(token.Implements) {
		p.parseTypeName()
		for p.accept(token.Comma) {
			p.parseTypeName()
		}
	}

	stmt := &ast.ClassStmt{Pos: ast.Pos{Ln: tok.Line}, Name: name}

	p.expect(token.LBrace)
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if m := p.parseMember(); m != nil {
			stmt.Methods = append(stmt.Methods, m)
		}
	}
	p.expect(token.RBrace)

	return stmt
}

// parseMember parses one class member, returning non-nil only for methods
// with bodies. Properties, constants and trait uses have no analyzable body.
func (p *parser) parseMember() *ast.Method {
	static := false

	for {
		switch p.cur().Kind {
		case token.Public, token.Protected, token.Private, token.Abstract, token.Final, token.Var:
			p.next()

			continue

		case token.Static:
			static = true
			p.next()

			continue
		}

		break
	}

	switch p.cur().Kind {
	case token.Function:
		tok := p.next()
		p.accept(token.Amp)

		name := p.cur().Literal // method names may be keywords
		p.next()

		params := p.parseParams()
		p.skipReturnType()

		if p.accept(token.Semicolon) {
			// Abstract or interface method: nothing to analyze.
			return nil
		}

		p.expect(token.LBrace)
		body := p.parseStmts(token.RBrace)
		p.expect(token.RBrace)

		return &ast.Method{Pos: ast.Pos{Ln: tok.Line}, Name: name, Params: params, Static: static, Body: body}

	case token.Variable, token.Const, token.Use:
		p.sync()

		return nil

	default:
		p.errorf("unexpected %q in class body", p.cur().Literal)
		p.sync()

		return nil
	}
}

func (p *parser) parseParams() []*ast.Param {
	p.expect(token.LParen)

	var params []*ast.Param
	for !p.at(token.RParen) && !p.at(token.EOF) {
		if param := p.parseParam(); param != nil {
			params = append(params, param)
		}

		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)

	return params
}

func (p *parser) parseParam() *ast.Param {
	// Constructor promotion modifiers.
	for p.accept(token.Public) || p.accept(token.Protected) || p.accept(token.Private) {
	}

	p.skipTypeHint()

	byRef := p.accept(token.Amp)
	p.accept(token.Ellipsis)

	if !p.at(token.Variable) {
		p.errorf("expected parameter variable")

		return nil
	}

	v := p.next()
	param := &ast.Param{Pos: ast.Pos{Ln: v.Line}, Name: v.Literal, ByRef: byRef}

	if p.accept(token.Assign) {
		param.Default = p.parseExpr(precTernary)
	}

	return param
}

// skipTypeHint consumes an optional parameter type declaration.
func (p *parser) skipTypeHint() {
	p.accept(token.Question) // nullable

	if !p.at(token.Ident) && !p.at(token.Backslash) && !p.at(token.Static) {
		return
	}

	if p.at(token.Static) {
		p.next()
	} else {
		p.parseTypeName()
	}

	for p.accept(token.Pipe) {
		p.accept(token.Question)
		p.parseTypeName()
	}
}

// skipReturnType consumes an optional ": type" return declaration.
func (p *parser) skipReturnType() {
	if !p.accept(token.Colon) {
		return
	}

	p.accept(token.Question)
	p.parseTypeName()

	for p.accept(token.Pipe) {
		p.accept(token.Question)
		p.parseTypeName()
	}
}

// ---- expressions ----

func (p *parser) parseExprList() []ast.Expr {
	var list []ast.Expr
	for {
		x := p.parseExpr(precLowest)
		if x == nil {
			return list
		}
		list = append(list, x)

		if !p.accept(token.Comma) {
			return list
		}
	}
}

func (p *parser) parseExpr(minPrec int) ast.Expr {
	left := p.parseUnary()
	if left == nil {
		return nil
	}

	for {
		tok := p.cur()
		prec := infixPrecedence(tok.Kind)
		if prec == precLowest || prec < minPrec {
			return left
		}

		switch {
		case token.IsAssign(tok.Kind):
			p.next()
			// Right-associative.
			value := p.parseExpr(precAssign)
			left = &ast.AssignExpr{Pos: ast.Pos{Ln: tok.Line}, Target: left, Op: tok.Kind, Value: value}

		case tok.Kind == token.Question:
			p.next()

			var then ast.Expr
			if !p.at(token.Colon) {
				then = p.parseExpr(precLowest)
			}
			p.expect(token.Colon)
			alt := p.parseExpr(precTernary)
			left = &ast.TernaryExpr{Pos: ast.Pos{Ln: tok.Line}, Cond: left, Then: then, Else: alt}

		case tok.Kind == token.Coalesce:
			p.next()
			// Right-associative.
			right := p.parseExpr(precCoalesce)
			left = &ast.BinaryExpr{Pos: ast.Pos{Ln: tok.Line}, Op: tok.Kind, Left: left, Right: right}

		case tok.Kind == token.Instanceof:
			p.next()
			p.parseInstanceofClass()
			// The class operand has no binding effect; keep the subject.

		default:
			p.next()
			right := p.parseExpr(prec + 1)
			op := tok.Kind
			if op == token.AndKeyword {
				op = token.BoolAnd
			} else if op == token.OrKeyword {
				op = token.BoolOr
			}
			left = &ast.BinaryExpr{Pos: ast.Pos{Ln: tok.Line}, Op: op, Left: left, Right: right}
		}
	}
}

func (p *parser) parseInstanceofClass() {
	if p.at(token.Ident) || p.at(token.Backslash) {
		p.parseTypeName()

		return
	}

	p.parseExpr(precInstanceof + 1)
}

func (p *parser) parseUnary() ast.Expr {
	tok := p.cur()

	switch tok.Kind {
	case token.Not, token.Minus, token.Plus, token.At:
		p.next()
		x := p.parseUnary()

		return &ast.UnaryExpr{Pos: ast.Pos{Ln: tok.Line}, Op: tok.Kind, X: x}

	case token.Inc, token.Dec:
		p.next()
		x := p.parseUnary()

		return &ast.IncDecExpr{Pos: ast.Pos{Ln: tok.Line}, Op: tok.Kind, Target: x, Prefix: true}

	case token.Print:
		p.next()
		x := p.parseExpr(precAssign)

		return &ast.CallExpr{
			Pos:  ast.Pos{Ln: tok.Line},
			Fn:   &ast.NameExpr{Pos: ast.Pos{Ln: tok.Line}, Value: "print"},
			Args: []ast.Expr{x},
		}

	case token.New:
		return p.parseNew()

	case token.Amp:
		// By-reference value; transparent for definedness.
		p.next()

		return p.parseUnary()
	}

	return p.parsePostfix(p.parsePrimary())
}

func (p *parser) parseNew() ast.Expr {
	tok := p.expect(token.New)

	expr := &ast.NewExpr{Pos: ast.Pos{Ln: tok.Line}}

	switch {
	case p.at(token.Ident), p.at(token.Backslash):
		name := p.parseTypeName()
		expr.Class = &ast.NameExpr{Pos: ast.Pos{Ln: tok.Line}, Value: name}

	case p.at(token.Static):
		p.next()
		expr.Class = &ast.NameExpr{Pos: ast.Pos{Ln: tok.Line}, Value: "static"}

	case p.at(token.Variable):
		v := p.next()
		expr.Class = &ast.VariableExpr{Pos: ast.Pos{Ln: v.Line}, Name: v.Literal}

	default:
		p.errorf("expected class name after new")
	}

	if p.at(token.LParen) {
		expr.Args = p.parseArgs()
	}

	return expr
}

func (p *parser) parsePostfix(x ast.Expr) ast.Expr {
	if x == nil {
		return nil
	}

	for {
		tok := p.cur()

		switch tok.Kind {
		case token.LParen:
			x = &ast.CallExpr{Pos: ast.Pos{Ln: tok.Line}, Fn: x, Args: p.parseArgs()}

		case token.LBracket:
			p.next()

			idx := &ast.IndexExpr{Pos: ast.Pos{Ln: tok.Line}, Target: x}
			if !p.at(token.RBracket) {
				idx.Index = p.parseExpr(precLowest)
			}
			p.expect(token.RBracket)
			x = idx

		case token.Arrow:
			p.next()

			name := p.cur().Literal
			p.next()

			if p.at(token.LParen) {
				x = &ast.MethodCallExpr{Pos: ast.Pos{Ln: tok.Line}, Object: x, Name: name, Args: p.parseArgs()}
			} else {
				x = &ast.PropertyExpr{Pos: ast.Pos{Ln: tok.Line}, Object: x, Name: name}
			}

		case token.DoubleColon:
			x = p.parseStaticAccess(x, tok)

		case token.Inc, token.Dec:
			p.next()
			x = &ast.IncDecExpr{Pos: ast.Pos{Ln: tok.Line}, Op: tok.Kind, Target: x, Prefix: false}

		default:
			return x
		}
	}
}

func (p *parser) parseStaticAccess(x ast.Expr, tok token.Token) ast.Expr {
	p.next() // ::

	class := "?"
	if name, ok := x.(*ast.NameExpr); ok {
		class = name.Value
	}

	switch p.cur().Kind {
	case token.Variable:
		v := p.next()

		return &ast.StaticPropertyExpr{Pos: ast.Pos{Ln: tok.Line}, Class: class, Name: v.Literal}

	case token.Class:
		p.next()

		return &ast.NameExpr{Pos: ast.Pos{Ln: tok.Line}, Value: class}

	default:
		name := p.cur().Literal
		p.next()

		if p.at(token.LParen) {
			return &ast.StaticCallExpr{Pos: ast.Pos{Ln: tok.Line}, Class: class, Name: name, Args: p.parseArgs()}
		}

		// Class constant fetch.
		return &ast.NameExpr{Pos: ast.Pos{Ln: tok.Line}, Value: class + "::" + name}
	}
}

func (p *parser) parseArgs() []ast.Expr {
	p.expect(token.LParen)

	var args []ast.Expr
	for !p.at(token.RParen) && !p.at(token.EOF) {
		p.accept(token.Amp) // call-time by-reference (legacy)
		p.accept(token.Ellipsis)

		if x := p.parseExpr(precLowest); x != nil {
			args = append(args, x)
		}

		if !p.accept(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)

	return args
}

func (p *parser) parsePrimary() ast.Expr {
	tok := p.cur()

	switch tok.Kind {
	case token.Variable:
		p.next()

		return &ast.VariableExpr{Pos: ast.Pos{Ln: tok.Line}, Name: tok.Literal}

	case token.Number:
		p.next()

		return &ast.NumberLit{Pos: ast.Pos{Ln: tok.Line}, Raw: tok.Literal}

	case token.String:
		p.next()

		return &ast.StringLit{Pos: ast.Pos{Ln: tok.Line}, Value: tok.Literal}

	case token.Ident:
		p.next()

		return &ast.NameExpr{Pos: ast.Pos{Ln: tok.Line}, Value: tok.Literal}

	case token.Backslash:
		name := p.parseTypeName()

		return &ast.NameExpr{Pos: ast.Pos{Ln: tok.Line}, Value: name}

	case token.LParen:
		p.next()
		x := p.parseExpr(precLowest)
		p.expect(token.RParen)

		return x

	case token.LBracket:
		return p.parseArrayLiteral()

	case token.List:
		return p.parseListPattern()

	case token.Isset:
		p.next()
		p.expect(token.LParen)
		vars := p.parseExprList()
		p.expect(token.RParen)

		return &ast.IssetExpr{Pos: ast.Pos{Ln: tok.Line}, Vars: vars}

	case token.Empty:
		p.next()
		p.expect(token.LParen)
		x := p.parseExpr(precLowest)
		p.expect(token.RParen)

		return &ast.EmptyExpr{Pos: ast.Pos{Ln: tok.Line}, X: x}

	case token.Function:
		return p.parseClosure(false)

	case token.Static:
		if p.peek().Kind == token.Function {
			p.next()

			return p.parseClosure(true)
		}

		p.next()

		return &ast.NameExpr{Pos: ast.Pos{Ln: tok.Line}, Value: "static"}

	default:
		p.errorf("unexpected %q in expression", tok.Literal)

		return nil
	}
}

func (p *parser) parseArrayLiteral() ast.Expr {
	tok := p.expect(token.LBracket)

	expr := &ast.ArrayExpr{Pos: ast.Pos{Ln: tok.Line}}
	expr.Items = p.parseArrayItems(token.RBracket)
	p.expect(token.RBracket)

	return expr
}

func (p *parser) parseListPattern() ast.Expr {
	tok := p.expect(token.List)
	p.expect(token.LParen)

	expr := &ast.ListExpr{Pos: ast.Pos{Ln: tok.Line}}
	expr.Items = p.parseArrayItems(token.RParen)
	p.expect(token.RParen)

	return expr
}

func (p *parser) parseArrayItems(end token.Kind) []*ast.ArrayItem {
	var items []*ast.ArrayItem

	for !p.at(end) && !p.at(token.EOF) {
		if p.at(token.Comma) {
			// Skipped slot.
			items = append(items, &ast.ArrayItem{})
			p.next()

			continue
		}

		item := &ast.ArrayItem{}
		item.ByRef = p.accept(token.Amp)
		first := p.parseExpr(precTernary)

		if p.accept(token.DoubleArrow) {
			item.Key = first
			item.ByRef = p.accept(token.Amp)
			item.Value = p.parseExpr(precTernary)
		} else {
			item.Value = first
		}

		items = append(items, item)

		if !p.accept(token.Comma) {
			break
		}
	}

	return items
}

func (p *parser) parseClosure(static bool) ast.Expr {
	tok := p.expect(token.Function)
	p.accept(token.Amp)

	expr := &ast.ClosureExpr{Pos: ast.Pos{Ln: tok.Line}, Static: static}
	expr.Params = p.parseParams()

	if p.accept(token.Use) {
		p.expect(token.LParen)
		for !p.at(token.RParen) && !p.at(token.EOF) {
			byRef := p.accept(token.Amp)
			v := p.expect(token.Variable)
			expr.Uses = append(expr.Uses, &ast.ClosureUse{Pos: ast.Pos{Ln: v.Line}, Name: v.Literal, ByRef: byRef})

			if !p.accept(token.Comma) {
				break
			}
		}
		p.expect(token.RParen)
	}

	p.skipReturnType()

	p.expect(token.LBrace)
	expr.Body = p.parseStmts(token.RBrace)
	p.expect(token.RBrace)

	return expr
}
