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

// Package lexer turns PHP source text into a token stream.
//
// The scanner covers the statement and expression subset consumed by the
// parser. Double-quoted strings are scanned as plain literals; interpolation
// is not tokenized.
package lexer

import (
	"strings"

	"github.com/stefan-squareweave/phpstan/internal/php/token"
)

// Lexer scans one source buffer.
type Lexer struct {
	src  string
	pos  int
	line int
}

// New returns a lexer for src. A leading <?php tag is skipped.
func New(src string) *Lexer {
	l := &Lexer{src: src, line: 1}
	l.skipOpenTag()

	return l
}

// Tokens scans the whole buffer and returns the token stream,
// terminated by an EOF token.
func Tokens(src string) []token.Token {
	l := New(src)

	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)

		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) skipOpenTag() {
	rest := l.src[l.pos:]
	if strings.HasPrefix(rest, "<?php") {
		l.pos += len("<?php")
	} else if strings.HasPrefix(rest, "<?") {
		l.pos += len("<?")
	}
}

// Next returns the next token in the stream.
func (l *Lexer) Next() token.Token {
	l.skipIgnored()

	if l.pos >= len(l.src) {
		return token.Token{Kind: token.EOF, Line: l.line}
	}

	line := l.line
	ch := l.src[l.pos]

	switch {
	case ch == '$':
		return l.scanVariable(line)

	case isIdentStart(ch):
		return l.scanIdent(line)

	case isDigit(ch):
		return l.scanNumber(line)

	case ch == '\'' || ch == '"':
		return l.scanString(line)
	}

	return l.scanOperator(line)
}

// skipIgnored consumes whitespace, comments and close tags.
func (l *Lexer) skipIgnored() {
	for l.pos < len(l.src) {
		switch ch := l.src[l.pos]; {
		case ch == '\n':
			l.line++
			l.pos++

		case ch == ' ' || ch == '\t' || ch == '\r':
			l.pos++

		case ch == '/' && l.peekAt(1) == '/':
			l.skipLineComment()

		case ch == '#':
			l.skipLineComment()

		case ch == '/' && l.peekAt(1) == '*':
			l.skipBlockComment()

		case ch == '?' && l.peekAt(1) == '>':
			// Close tag: everything up to the next open tag is inline HTML.
			l.skipInlineHTML()

		default:
			return
		}
	}
}

func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
}

func (l *Lexer) skipBlockComment() {
	l.pos += 2
	for l.pos < len(l.src) {
		if l.src[l.pos] == '*' && l.peekAt(1) == '/' {
			l.pos += 2

			return
		}

		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
}

func (l *Lexer) skipInlineHTML() {
	l.pos += 2
	for l.pos < len(l.src) {
		if l.src[l.pos] == '<' && strings.HasPrefix(l.src[l.pos:], "<?") {
			l.skipOpenTag()

			return
		}

		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
}

func (l *Lexer) scanVariable(line int) token.Token {
	l.pos++ // consume '$'

	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}

	if l.pos == start {
		// A bare '$' (variable variables are out of the subset).
		return token.Token{Kind: token.Illegal, Literal: "$", Line: line}
	}

	return token.Token{Kind: token.Variable, Literal: l.src[start:l.pos], Line: line}
}

func (l *Lexer) scanIdent(line int) token.Token {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}

	lit := l.src[start:l.pos]

	return token.Token{Kind: token.Lookup(lit), Literal: lit, Line: line}
}

// scanNumber accepts decimal, float, exponent and 0x hex forms. On a
// malformed shape like a dangling exponent marker the token ends early
// and the remainder is scanned on its own.
func (l *Lexer) scanNumber(line int) token.Token {
	start := l.pos

	if l.src[l.pos] == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') && isHexDigit(l.peekAt(2)) {
		l.pos += 2
		for l.pos < len(l.src) && (isHexDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
			l.pos++
		}

		return token.Token{Kind: token.Number, Literal: l.src[start:l.pos], Line: line}
	}

	l.scanDigits()

	if l.pos < len(l.src) && l.src[l.pos] == '.' && isDigit(l.peekAt(1)) {
		l.pos++
		l.scanDigits()
	}

	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		switch next := l.peekAt(1); {
		case isDigit(next):
			l.pos++
			l.scanDigits()

		case (next == '+' || next == '-') && isDigit(l.peekAt(2)):
			l.pos += 2
			l.scanDigits()
		}
	}

	return token.Token{Kind: token.Number, Literal: l.src[start:l.pos], Line: line}
}

func (l *Lexer) scanDigits() {
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
		l.pos++
	}
}

func (l *Lexer) scanString(line int) token.Token {
	quote := l.src[l.pos]
	l.pos++

	var sb strings.Builder
	for l.pos < len(l.src) {
		ch := l.src[l.pos]

		switch ch {
		case quote:
			l.pos++

			return token.Token{Kind: token.String, Literal: sb.String(), Line: line}

		case '\\':
			l.pos++
			if l.pos < len(l.src) {
				sb.WriteByte(unescape(l.src[l.pos], quote))
				l.pos++
			}

		case '\n':
			l.line++
			sb.WriteByte(ch)
			l.pos++

		default:
			sb.WriteByte(ch)
			l.pos++
		}
	}

	return token.Token{Kind: token.Illegal, Literal: sb.String(), Line: line}
}

func unescape(ch, quote byte) byte {
	if quote == '\'' {
		// Single-quoted strings only unescape the quote and the backslash.
		return ch
	}

	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return ch
	}
}

// operators maps operator spellings to kinds, tried longest first.
var operators = []struct {
	text string
	kind token.Kind
}{
	{"...", token.Ellipsis},
	{"===", token.Identical},
	{"!==", token.NotIdentical},
	{"**=", token.PowAssign},
	{"??=", token.CoalesceAssign},
	{"==", token.Equal},
	{"!=", token.NotEqual},
	{"<>", token.NotEqual},
	{"<=", token.LessEqual},
	{">=", token.GreaterEqual},
	{"&&", token.BoolAnd},
	{"||", token.BoolOr},
	{"??", token.Coalesce},
	{"++", token.Inc},
	{"--", token.Dec},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.MulAssign},
	{"/=", token.DivAssign},
	{"%=", token.ModAssign},
	{".=", token.ConcatAssign},
	{"**", token.Pow},
	{"->", token.Arrow},
	{"=>", token.DoubleArrow},
	{"::", token.DoubleColon},
	{"=", token.Assign},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Mul},
	{"/", token.Div},
	{"%", token.Mod},
	{".", token.Concat},
	{"!", token.Not},
	{"<", token.Less},
	{">", token.Greater},
	{"?", token.Question},
	{":", token.Colon},
	{";", token.Semicolon},
	{",", token.Comma},
	{"(", token.LParen},
	{")", token.RParen},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{"[", token.LBracket},
	{"]", token.RBracket},
	{"@", token.At},
	{"&", token.Amp},
	{"|", token.Pipe},
	{"\\", token.Backslash},
}

func (l *Lexer) scanOperator(line int) token.Token {
	rest := l.src[l.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			l.pos += len(op.text)

			return token.Token{Kind: op.kind, Literal: op.text, Line: line}
		}
	}

	l.pos++

	return token.Token{Kind: token.Illegal, Literal: rest[:1], Line: line}
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}

	return l.src[l.pos+offset]
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch >= 0x80
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || isHexLetter(ch)
}
