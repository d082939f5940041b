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

// Package token defines the lexical tokens of the analyzed PHP subset.
package token

import "strings"

// Kind identifies the lexical class of a token.
type Kind int

// Token kinds. The operator block is ordered roughly by precedence group;
// the lexer relies only on identity, never on ordering.
const (
	Illegal Kind = iota
	EOF

	// Literals and names.
	Variable // $name, the literal holds the name without the sigil
	Ident
	Number
	String

	// Assignment operators.
	Assign         // =
	PlusAssign     // +=
	MinusAssign    // -=
	MulAssign      // *=
	DivAssign      // /=
	ModAssign      // %=
	PowAssign      // **=
	ConcatAssign   // .=
	CoalesceAssign // ??=

	// Binary and unary operators.
	Coalesce     // ??
	BoolAnd      // &&
	BoolOr       // ||
	Equal        // ==
	Identical    // ===
	NotEqual     // != or <>
	NotIdentical // !==
	Less         // <
	Greater      // >
	LessEqual    // <=
	GreaterEqual // >=
	Plus         // +
	Minus        // -
	Mul          // *
	Div          // /
	Mod          // %
	Pow          // **
	Concat       // .
	Not          // !
	Inc          // ++
	Dec          // --
	At           // @
	Amp          // &
	Pipe         // |
	Ellipsis     // ...

	// Punctuation.
	Question    // ?
	Colon       // :
	Semicolon   // ;
	Comma       // ,
	LParen      // (
	RParen      // )
	LBrace      // {
	RBrace      // }
	LBracket    // [
	RBracket    // ]
	Arrow       // ->
	DoubleArrow // =>
	DoubleColon // ::
	Backslash   // \

	// Keywords.
	If
	Elseif
	Else
	While
	Do
	For
	Foreach
	As
	Switch
	Case
	Default
	Break
	Continue
	Return
	Throw
	Try
	Catch
	Finally
	Function
	Class
	Interface
	Trait
	Extends
	Implements
	Public
	Protected
	Private
	Static
	Abstract
	Final
	Const
	Var
	Echo
	Print
	Unset
	Global
	Isset
	Empty
	List
	New
	Use
	Instanceof
	AndKeyword // and
	OrKeyword  // or
	XorKeyword // xor
)

// Token is a single lexical unit with its source line.
type Token struct {
	Kind    Kind
	Literal string
	Line    int
}

var keywords = map[string]Kind{
	"if":         If,
	"elseif":     Elseif,
	"else":       Else,
	"while":      While,
	"do":         Do,
	"for":        For,
	"foreach":    Foreach,
	"as":         As,
	"switch":     Switch,
	"case":       Case,
	"default":    Default,
	"break":      Break,
	"continue":   Continue,
	"return":     Return,
	"throw":      Throw,
	"try":        Try,
	"catch":      Catch,
	"finally":    Finally,
	"function":   Function,
	"class":      Class,
	"interface":  Interface,
	"trait":      Trait,
	"extends":    Extends,
	"implements": Implements,
	"public":     Public,
	"protected":  Protected,
	"private":    Private,
	"static":     Static,
	"abstract":   Abstract,
	"final":      Final,
	"const":      Const,
	"var":        Var,
	"echo":       Echo,
	"print":      Print,
	"unset":      Unset,
	"global":     Global,
	"isset":      Isset,
	"empty":      Empty,
	"list":       List,
	"new":        New,
	"use":        Use,
	"instanceof": Instanceof,
	"and":        AndKeyword,
	"or":         OrKeyword,
	"xor":        XorKeyword,
}

// Lookup maps an identifier to its keyword kind, or [Ident] if it is not a
// keyword. PHP keywords are case-insensitive.
func Lookup(ident string) Kind {
	if kind, ok := keywords[strings.ToLower(ident)]; ok {
		return kind
	}

	return Ident
}

// IsAssign reports whether kind is one of the assignment operators.
func IsAssign(kind Kind) bool {
	return kind >= Assign && kind <= CoalesceAssign
}

// IsCompoundAssign reports whether kind is an assignment operator that reads
// the target before writing it. Null-coalescing assignment is excluded: it
// tolerates an unbound target.
func IsCompoundAssign(kind Kind) bool {
	return kind > Assign && kind < CoalesceAssign
}
