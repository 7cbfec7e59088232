package hir

import (
	"rvcc/internal/ast"
	"rvcc/internal/diag"
)

// analyzeBlockBody analyzes a function's top-level block: unlike a
// nested compound statement, it reuses the scope already pushed for
// parameters rather than pushing a new one.
func (a *analyzer) analyzeBlockBody(b *ast.Block) *Block {
	out := &Block{StmtBase: StmtBase{Span: b.Span}}
	for _, item := range b.Items {
		out.Items = append(out.Items, a.analyzeBlockItem(item))
	}
	return out
}

func (a *analyzer) analyzeBlock(b *ast.Block) *Block {
	a.scopes.push(scope{})
	out := a.analyzeBlockBody(b)
	a.scopes.pop()
	return out
}

func (a *analyzer) analyzeBlockItem(item ast.BlockItem) BlockItem {
	if vd, ok := item.(*ast.VarDecl); ok {
		return a.analyzeLocalDecl(vd)
	}
	s, _ := ast.StmtOf(item)
	return AsBlockItem(a.analyzeStmt(s))
}

func (a *analyzer) analyzeLocalDecl(d *ast.VarDecl) *LocalDecl {
	id := a.allocLocal()
	out := &LocalDecl{Span: d.Span, LocalID: id, Type: d.Type}
	if d.Init != nil {
		init := a.analyzeExpr(d.Init)
		out.Init = insertCast(init, d.Type)
	}
	if !a.declareLocal(d.Name, varEntry{Type: d.Type, IsLocal: true, LocalID: id}, d.Span) {
		a.errs.Add(diag.Semantic, d.Span, "duplicate declaration of %q in this scope", a.pool.String(d.Name))
	}
	return out
}

func (a *analyzer) analyzeStmt(s ast.Stmt) Stmt {
	switch s := s.(type) {
	case *ast.Block:
		return a.analyzeBlock(s)
	case *ast.If:
		cond := a.analyzeExpr(s.Cond)
		then := a.analyzeStmt(s.Then)
		var els Stmt
		if s.Else != nil {
			els = a.analyzeStmt(s.Else)
		}
		return &If{StmtBase: StmtBase{Span: s.Span}, Cond: cond, Then: then, Else: els}
	case *ast.While:
		id := a.enterLoop()
		cond := a.analyzeExpr(s.Cond)
		body := a.analyzeStmt(s.Body)
		a.exitLoop()
		return &While{StmtBase: StmtBase{Span: s.Span}, LoopID: id, Cond: cond, Body: body}
	case *ast.DoWhile:
		id := a.enterLoop()
		body := a.analyzeStmt(s.Body)
		cond := a.analyzeExpr(s.Cond)
		a.exitLoop()
		return &DoWhile{StmtBase: StmtBase{Span: s.Span}, LoopID: id, Body: body, Cond: cond}
	case *ast.For:
		return a.analyzeFor(s)
	case *ast.Return:
		v := a.analyzeExpr(s.Value)
		return &Return{StmtBase: StmtBase{Span: s.Span}, Value: insertCast(v, a.retType)}
	case *ast.Break:
		id, ok := a.currentLoop()
		if !ok {
			a.errs.Add(diag.Semantic, s.Span, "break statement not within a loop")
		}
		return &Break{StmtBase: StmtBase{Span: s.Span}, LoopID: id}
	case *ast.Continue:
		id, ok := a.currentLoop()
		if !ok {
			a.errs.Add(diag.Semantic, s.Span, "continue statement not within a loop")
		}
		return &Continue{StmtBase: StmtBase{Span: s.Span}, LoopID: id}
	case *ast.ExprStmt:
		return &ExprStmt{StmtBase: StmtBase{Span: s.Span}, X: a.analyzeExpr(s.X)}
	case *ast.Null:
		return &Null{StmtBase{Span: s.Span}}
	default:
		diag.Internal(s.Pos(), "hir: unhandled statement type %T", s)
		panic("unreachable")
	}
}

func (a *analyzer) analyzeFor(s *ast.For) Stmt {
	// A for-loop's own scope holds its init declaration (if any), per the
	// usual C99 for-scope rule.
	a.scopes.push(scope{})
	var init ForInit
	if vd, ok := s.Init.(*ast.VarDecl); ok {
		init = a.analyzeLocalDecl(vd)
	} else if e, _ := ast.ExprOf(s.Init); e != nil {
		init = AsForInit(a.analyzeExpr(e))
	} else {
		init = AsForInit(nil)
	}

	var cond, post Expr
	if s.Cond != nil {
		cond = a.analyzeExpr(s.Cond)
	}
	id := a.enterLoop()
	if s.Post != nil {
		post = a.analyzeExpr(s.Post)
	}
	body := a.analyzeStmt(s.Body)
	a.exitLoop()
	a.scopes.pop()

	return &For{StmtBase: StmtBase{Span: s.Span}, LoopID: id, Init: init, Cond: cond, Post: post, Body: body}
}

func (a *analyzer) enterLoop() int {
	id := a.nextLoopID
	a.nextLoopID++
	a.loopIDs.push(id)
	return id
}

func (a *analyzer) exitLoop() { a.loopIDs.pop() }

func (a *analyzer) currentLoop() (int, bool) {
	if a.loopIDs.empty() {
		return -1, false
	}
	return a.loopIDs.top(), true
}
