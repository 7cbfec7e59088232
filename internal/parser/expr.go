package parser

import (
	"rvcc/internal/ast"
	"rvcc/internal/ctoken"
	"rvcc/internal/diag"
)

// precedence returns the binding power of a binary/assignment/ternary
// operator token per the table in §4.2 (low to high: `=` 1, `?:` 2,
// `||` 3, `&&` 4, `==`/`!=` 5, relational 6, `+`/`-` 7, `*`/`/`/`%` 8).
// ok is false for tokens that do not start an infix operator.
func precedence(k ctoken.Kind) (prec int, ok bool) {
	switch k {
	case ctoken.Assign:
		return 1, true
	case ctoken.Question:
		return 2, true
	case ctoken.OrOr:
		return 3, true
	case ctoken.AndAnd:
		return 4, true
	case ctoken.EqEq, ctoken.NotEq:
		return 5, true
	case ctoken.Lt, ctoken.Gt, ctoken.Le, ctoken.Ge:
		return 6, true
	case ctoken.Plus, ctoken.Minus:
		return 7, true
	case ctoken.Star, ctoken.Slash, ctoken.Percent:
		return 8, true
	default:
		return 0, false
	}
}

func binOpFor(k ctoken.Kind) ast.BinaryOp {
	switch k {
	case ctoken.Plus:
		return ast.Add
	case ctoken.Minus:
		return ast.Sub
	case ctoken.Star:
		return ast.Mul
	case ctoken.Slash:
		return ast.Div
	case ctoken.Percent:
		return ast.Rem
	case ctoken.Lt:
		return ast.Less
	case ctoken.Gt:
		return ast.Greater
	case ctoken.Le:
		return ast.LessEq
	case ctoken.Ge:
		return ast.GreaterEq
	case ctoken.EqEq:
		return ast.Equal
	case ctoken.NotEq:
		return ast.NotEqual
	case ctoken.AndAnd:
		return ast.LogAnd
	case ctoken.OrOr:
		return ast.LogOr
	}
	panic("parser: binOpFor: not a binary operator token")
}

// parseExpr implements precedence-climbing over the table in precedence.
// `=` and `?:` are right-associative (recurse at the same precedence on
// the right-hand side); every other binary operator is left-associative
// (recurse at prec+1).
func (p *parser) parseExpr(minPrec int) (ast.Expr, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for {
		tok := p.peek()
		prec, isOp := precedence(tok.Kind)
		if !isOp || prec < minPrec {
			break
		}

		switch tok.Kind {
		case ctoken.Assign:
			p.next()
			rhs, ok := p.parseExpr(prec)
			if !ok {
				return nil, false
			}
			left = &ast.Assign{ExprBase: ast.ExprBase{Span: tok.Span}, Target: left, Value: rhs}
		case ctoken.Question:
			p.next()
			// The middle operand is parsed at the minimum precedence, so
			// it may itself be a ternary (§4.2).
			then, ok := p.parseExpr(0)
			if !ok {
				return nil, false
			}
			if _, ok := p.expect(ctoken.Colon); !ok {
				return nil, false
			}
			els, ok := p.parseExpr(prec)
			if !ok {
				return nil, false
			}
			left = &ast.Ternary{ExprBase: ast.ExprBase{Span: tok.Span}, Cond: left, Then: then, Else: els}
		default:
			p.next()
			right, ok := p.parseExpr(prec + 1)
			if !ok {
				return nil, false
			}
			left = &ast.Binary{ExprBase: ast.ExprBase{Span: tok.Span}, Op: binOpFor(tok.Kind), L: left, R: right}
		}
	}
	return left, true
}

func unaryOpFor(k ctoken.Kind) (ast.UnaryOp, bool) {
	switch k {
	case ctoken.Plus:
		return ast.Plus, true
	case ctoken.Minus:
		return ast.Neg, true
	case ctoken.Tilde:
		return ast.Complement, true
	case ctoken.Bang:
		return ast.Not, true
	}
	return 0, false
}

// parseUnary parses a unary operator (binding tighter than every binary
// operator per §4.2) or falls through to a cast/postfix/primary expression.
func (p *parser) parseUnary() (ast.Expr, bool) {
	tok := p.peek()
	if op, ok := unaryOpFor(tok.Kind); ok {
		p.next()
		x, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return &ast.Unary{ExprBase: ast.ExprBase{Span: tok.Span}, Op: op, X: x}, true
	}
	return p.parsePrimary()
}

func typeKeywordType(k ctoken.Kind) ast.Type {
	switch k {
	case ctoken.KwInt:
		return ast.Int
	case ctoken.KwLong:
		return ast.Long
	default:
		return ast.Void
	}
}

// parsePrimary parses a cast, a parenthesized grouping, a literal, an
// identifier reference, or a function call.
func (p *parser) parsePrimary() (ast.Expr, bool) {
	tok := p.peek()
	switch tok.Kind {
	case ctoken.LParen:
		// Disambiguate `(type) expr` from `(expr)` by lookahead: a cast's
		// parenthesized contents start with a type keyword.
		if isTypeKeyword(p.peekAt(1).Kind) {
			p.next()
			typ := typeKeywordType(p.next().Kind)
			if _, ok := p.expect(ctoken.RParen); !ok {
				return nil, false
			}
			x, ok := p.parseUnary()
			if !ok {
				return nil, false
			}
			return &ast.Cast{ExprBase: ast.ExprBase{Span: tok.Span}, Target: typ, X: x}, true
		}
		p.next()
		inner, ok := p.parseExpr(0)
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(ctoken.RParen); !ok {
			return nil, false
		}
		return inner, true
	case ctoken.IntLit:
		p.next()
		return &ast.IntLit{ExprBase: ast.ExprBase{Span: tok.Span}, Value: tok.IntVal}, true
	case ctoken.LongLit:
		p.next()
		return &ast.LongLit{ExprBase: ast.ExprBase{Span: tok.Span}, Value: tok.LongVal}, true
	case ctoken.Ident:
		p.next()
		if _, has := p.accept(ctoken.LParen); has {
			var args []ast.Expr
			if !p.check(ctoken.RParen) {
				for {
					a, ok := p.parseExpr(1)
					if !ok {
						return nil, false
					}
					args = append(args, a)
					if _, has := p.accept(ctoken.Comma); has {
						continue
					}
					break
				}
			}
			if _, ok := p.expect(ctoken.RParen); !ok {
				return nil, false
			}
			return &ast.Call{ExprBase: ast.ExprBase{Span: tok.Span}, Callee: tok.Name, Args: args}, true
		}
		return &ast.Name{ExprBase: ast.ExprBase{Span: tok.Span}, Ident: tok.Name}, true
	default:
		p.errs.Add(diag.Parse, tok.Span, "unexpected token %s in expression", tok.Kind)
		return nil, false
	}
}
