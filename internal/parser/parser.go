// Package parser turns a token stream into an AST (§4.2): recursive
// descent for declarations and statements, Pratt (precedence-climbing)
// for expressions. Grounded on the teacher's two-layer design
// (src/frontend/tree.go drives a grammar engine fed by the lexer) but the
// grammar engine itself is hand-written here rather than goyacc-generated:
// spec.md explicitly requires Pratt/recursive-descent (§4.2), and no `.y`
// grammar source is available in the retrieval pack to regenerate from.
package parser

import (
	"rvcc/internal/ast"
	"rvcc/internal/ctoken"
	"rvcc/internal/diag"
	"rvcc/internal/source"
	"rvcc/internal/strpool"
)

type parser struct {
	toks []ctoken.Token
	pos  int
	pool *strpool.Pool
	errs diag.List
}

// Parse consumes toks and returns the parsed Program plus any accumulated
// parse errors. Per §6, a non-empty error list means the semantic
// analyzer must not run.
func Parse(toks []ctoken.Token, pool *strpool.Pool) (*ast.Program, diag.List) {
	p := &parser{toks: toks, pool: pool}
	prog := &ast.Program{}
	for !p.atEOF() {
		before := p.pos
		d, ok := p.parseTopDecl()
		if ok {
			prog.Decls = append(prog.Decls, d)
			continue
		}
		// Resynchronize: skip to the next '{' or '}' per §4.2/§7, then
		// continue parsing the remaining declarations.
		if p.pos == before {
			p.next()
		}
		p.resync()
	}
	return prog, p.errs
}

func (p *parser) resync() {
	for !p.atEOF() {
		switch p.peek().Kind {
		case ctoken.LBrace, ctoken.RBrace:
			p.next()
			return
		}
		p.next()
	}
}

func (p *parser) atEOF() bool { return p.toks[p.pos].Kind == ctoken.EOF }

func (p *parser) peek() ctoken.Token { return p.toks[p.pos] }

func (p *parser) peekAt(off int) ctoken.Token {
	i := p.pos + off
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *parser) next() ctoken.Token {
	t := p.toks[p.pos]
	if t.Kind != ctoken.EOF {
		p.pos++
	}
	return t
}

func (p *parser) check(k ctoken.Kind) bool { return p.peek().Kind == k }

func (p *parser) accept(k ctoken.Kind) (ctoken.Token, bool) {
	if p.check(k) {
		return p.next(), true
	}
	return ctoken.Token{}, false
}

func (p *parser) expect(k ctoken.Kind) (ctoken.Token, bool) {
	if t, ok := p.accept(k); ok {
		return t, true
	}
	t := p.peek()
	p.errs.Add(diag.Parse, t.Span, "expected %s, found %s", k, t.Kind)
	return t, false
}

func isTypeKeyword(k ctoken.Kind) bool {
	return k == ctoken.KwInt || k == ctoken.KwLong || k == ctoken.KwVoid
}

func isStorageKeyword(k ctoken.Kind) bool {
	return k == ctoken.KwStatic || k == ctoken.KwExtern
}

// declSpecifiers consumes the contiguous prefix of type- and storage-class
// specifiers per §4.2 ("Declarations consume a contiguous prefix of
// type-specifiers and storage-class-specifiers").
func (p *parser) declSpecifiers() (ast.Type, ast.StorageClass, bool) {
	typ := ast.Indeterminate
	storage := ast.Unspecified
	sawType, sawStorage := false, false
	start := p.peek().Span
	ok := true
	for isTypeKeyword(p.peek().Kind) || isStorageKeyword(p.peek().Kind) {
		t := p.next()
		if isTypeKeyword(t.Kind) {
			if sawType {
				p.errs.Add(diag.Parse, t.Span, "unsupported type combination: multiple type specifiers")
				ok = false
				continue
			}
			sawType = true
			switch t.Kind {
			case ctoken.KwInt:
				typ = ast.Int
			case ctoken.KwLong:
				typ = ast.Long
			case ctoken.KwVoid:
				typ = ast.Void
			}
		} else {
			if sawStorage {
				p.errs.Add(diag.Parse, t.Span, "duplicate storage class specifier")
				ok = false
				continue
			}
			sawStorage = true
			if t.Kind == ctoken.KwStatic {
				storage = ast.Static
			} else {
				storage = ast.Extern
			}
		}
	}
	if !sawType {
		p.errs.Add(diag.Parse, start, "expected a type specifier")
		ok = false
	}
	return typ, storage, ok
}

// parseTopDecl parses one file-scope function or variable declaration.
func (p *parser) parseTopDecl() (ast.Decl, bool) {
	start := p.peek().Span
	typ, storage, ok := p.declSpecifiers()
	if !ok {
		return nil, false
	}
	nameTok, ok := p.expect(ctoken.Ident)
	if !ok {
		return nil, false
	}

	if p.check(ctoken.LParen) {
		return p.parseFuncDeclRest(start, nameTok.Name, typ, storage)
	}

	decl := &ast.VarDecl{Name: nameTok.Name, Type: typ, Storage: storage}
	decl.Span = start
	if _, has := p.accept(ctoken.Assign); has {
		v, ok := p.parseExpr(0)
		if !ok {
			return nil, false
		}
		decl.Init = v
	}
	if _, ok := p.expect(ctoken.Semicolon); !ok {
		return nil, false
	}
	return decl, true
}

func (p *parser) parseFuncDeclRest(start source.Span, name strpool.Symbol, ret ast.Type, storage ast.StorageClass) (ast.Decl, bool) {
	if _, ok := p.expect(ctoken.LParen); !ok {
		return nil, false
	}
	var params []ast.Param
	if p.check(ctoken.KwVoid) && p.peekAt(1).Kind == ctoken.RParen {
		p.next()
	} else if !p.check(ctoken.RParen) {
		for {
			pt, _, ok := p.declSpecifiers()
			if !ok {
				return nil, false
			}
			pn, ok := p.expect(ctoken.Ident)
			if !ok {
				return nil, false
			}
			params = append(params, ast.Param{Name: pn.Name, Type: pt, Span: pn.Span})
			if _, has := p.accept(ctoken.Comma); has {
				continue
			}
			break
		}
	}
	if _, ok := p.expect(ctoken.RParen); !ok {
		return nil, false
	}

	decl := &ast.FuncDecl{Name: name, Params: params, ReturnType: ret, Storage: storage}
	decl.Span = start

	if _, has := p.accept(ctoken.Semicolon); has {
		return decl, true
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	decl.Body = body
	return decl, true
}
