// Package ctoken defines the token vocabulary emitted by the lexer (§4.1).
package ctoken

import (
	"fmt"

	"rvcc/internal/source"
	"rvcc/internal/strpool"
)

// Kind enumerates every lexeme class the lexer can produce.
type Kind int

const (
	EOF Kind = iota
	Ident
	IntLit
	LongLit

	// Keywords.
	KwInt
	KwLong
	KwVoid
	KwReturn
	KwIf
	KwElse
	KwWhile
	KwDo
	KwFor
	KwBreak
	KwContinue
	KwStatic
	KwExtern

	// Punctuation and operators.
	LParen
	RParen
	LBrace
	RBrace
	Semicolon
	Comma
	Plus
	Minus
	Star
	Slash
	Percent
	Tilde
	Bang
	Lt
	Gt
	Le
	Ge
	EqEq
	NotEq
	AndAnd
	OrOr
	Assign
	Question
	Colon
)

var names = map[Kind]string{
	EOF: "EOF", Ident: "identifier", IntLit: "int literal", LongLit: "long literal",
	KwInt: "int", KwLong: "long", KwVoid: "void", KwReturn: "return", KwIf: "if",
	KwElse: "else", KwWhile: "while", KwDo: "do", KwFor: "for", KwBreak: "break",
	KwContinue: "continue", KwStatic: "static", KwExtern: "extern",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", Semicolon: ";", Comma: ",",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Tilde: "~", Bang: "!",
	Lt: "<", Gt: ">", Le: "<=", Ge: ">=", EqEq: "==", NotEq: "!=", AndAnd: "&&",
	OrOr: "||", Assign: "=", Question: "?", Colon: ":",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps the reserved-word spelling to its Kind.
var Keywords = map[string]Kind{
	"int": KwInt, "long": KwLong, "void": KwVoid, "return": KwReturn, "if": KwIf,
	"else": KwElse, "while": KwWhile, "do": KwDo, "for": KwFor, "break": KwBreak,
	"continue": KwContinue, "static": KwStatic, "extern": KwExtern,
}

// Token is one lexeme tagged with its source span.
type Token struct {
	Kind Kind
	Span source.Span

	// Name is populated for Ident tokens.
	Name strpool.Symbol
	// IntVal/LongVal are populated for IntLit/LongLit tokens.
	IntVal int32
	LongVal int64
}

func (t Token) String() string {
	return fmt.Sprintf("%s @ %s", t.Kind, t.Span)
}
