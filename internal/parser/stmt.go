package parser

import (
	"rvcc/internal/ast"
	"rvcc/internal/ctoken"
)

func stmtBaseAt(t ctoken.Token) ast.StmtBase { return ast.StmtBase{Span: t.Span} }

func (p *parser) parseBlock() (*ast.Block, bool) {
	lbrace, ok := p.expect(ctoken.LBrace)
	if !ok {
		return nil, false
	}
	b := &ast.Block{}
	b.Span = lbrace.Span
	for !p.check(ctoken.RBrace) && !p.atEOF() {
		item, ok := p.parseBlockItem()
		if !ok {
			return nil, false
		}
		b.Items = append(b.Items, item)
	}
	if _, ok := p.expect(ctoken.RBrace); !ok {
		return nil, false
	}
	return b, true
}

func (p *parser) startsDecl() bool {
	return isTypeKeyword(p.peek().Kind) || isStorageKeyword(p.peek().Kind)
}

func (p *parser) parseBlockItem() (ast.BlockItem, bool) {
	if p.startsDecl() {
		return p.parseLocalVarDecl()
	}
	s, ok := p.parseStmt()
	if !ok {
		return nil, false
	}
	return ast.AsBlockItem(s), true
}

func (p *parser) parseLocalVarDecl() (*ast.VarDecl, bool) {
	start := p.peek().Span
	typ, storage, ok := p.declSpecifiers()
	if !ok {
		return nil, false
	}
	name, ok := p.expect(ctoken.Ident)
	if !ok {
		return nil, false
	}
	decl := &ast.VarDecl{Name: name.Name, Type: typ, Storage: storage}
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

func (p *parser) parseStmt() (ast.Stmt, bool) {
	tok := p.peek()
	switch tok.Kind {
	case ctoken.LBrace:
		return p.parseBlock()
	case ctoken.Semicolon:
		p.next()
		return &ast.Null{stmtBaseAt(tok)}, true
	case ctoken.KwReturn:
		p.next()
		v, ok := p.parseExpr(0)
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(ctoken.Semicolon); !ok {
			return nil, false
		}
		return &ast.Return{stmtBaseAt(tok), v}, true
	case ctoken.KwIf:
		return p.parseIf()
	case ctoken.KwWhile:
		return p.parseWhile()
	case ctoken.KwDo:
		return p.parseDoWhile()
	case ctoken.KwFor:
		return p.parseFor()
	case ctoken.KwBreak:
		p.next()
		if _, ok := p.expect(ctoken.Semicolon); !ok {
			return nil, false
		}
		return &ast.Break{stmtBaseAt(tok)}, true
	case ctoken.KwContinue:
		p.next()
		if _, ok := p.expect(ctoken.Semicolon); !ok {
			return nil, false
		}
		return &ast.Continue{stmtBaseAt(tok)}, true
	default:
		v, ok := p.parseExpr(0)
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(ctoken.Semicolon); !ok {
			return nil, false
		}
		return &ast.ExprStmt{stmtBaseAt(tok), v}, true
	}
}

func (p *parser) parseIf() (ast.Stmt, bool) {
	tok := p.next() // 'if'
	if _, ok := p.expect(ctoken.LParen); !ok {
		return nil, false
	}
	cond, ok := p.parseExpr(0)
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(ctoken.RParen); !ok {
		return nil, false
	}
	then, ok := p.parseStmt()
	if !ok {
		return nil, false
	}
	var els ast.Stmt
	if _, has := p.accept(ctoken.KwElse); has {
		els, ok = p.parseStmt()
		if !ok {
			return nil, false
		}
	}
	return &ast.If{stmtBaseAt(tok), cond, then, els}, true
}

func (p *parser) parseWhile() (ast.Stmt, bool) {
	tok := p.next() // 'while'
	if _, ok := p.expect(ctoken.LParen); !ok {
		return nil, false
	}
	cond, ok := p.parseExpr(0)
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(ctoken.RParen); !ok {
		return nil, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return nil, false
	}
	return &ast.While{stmtBaseAt(tok), cond, body}, true
}

func (p *parser) parseDoWhile() (ast.Stmt, bool) {
	tok := p.next() // 'do'
	body, ok := p.parseStmt()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(ctoken.KwWhile); !ok {
		return nil, false
	}
	if _, ok := p.expect(ctoken.LParen); !ok {
		return nil, false
	}
	cond, ok := p.parseExpr(0)
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(ctoken.RParen); !ok {
		return nil, false
	}
	if _, ok := p.expect(ctoken.Semicolon); !ok {
		return nil, false
	}
	return &ast.DoWhile{stmtBaseAt(tok), body, cond}, true
}

func (p *parser) parseFor() (ast.Stmt, bool) {
	tok := p.next() // 'for'
	if _, ok := p.expect(ctoken.LParen); !ok {
		return nil, false
	}

	var init ast.ForInit
	if p.startsDecl() {
		d, ok := p.parseLocalVarDecl()
		if !ok {
			return nil, false
		}
		init = d
	} else if p.check(ctoken.Semicolon) {
		p.next()
		init = ast.AsForInit(nil)
	} else {
		e, ok := p.parseExpr(0)
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(ctoken.Semicolon); !ok {
			return nil, false
		}
		init = ast.AsForInit(e)
	}

	var cond ast.Expr
	if !p.check(ctoken.Semicolon) {
		var ok bool
		cond, ok = p.parseExpr(0)
		if !ok {
			return nil, false
		}
	}
	if _, ok := p.expect(ctoken.Semicolon); !ok {
		return nil, false
	}

	var post ast.Expr
	if !p.check(ctoken.RParen) {
		var ok bool
		post, ok = p.parseExpr(0)
		if !ok {
			return nil, false
		}
	}
	if _, ok := p.expect(ctoken.RParen); !ok {
		return nil, false
	}

	body, ok := p.parseStmt()
	if !ok {
		return nil, false
	}
	return &ast.For{stmtBaseAt(tok), init, cond, post, body}, true
}
