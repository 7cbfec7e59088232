package hir

import (
	"rvcc/internal/ast"
	"rvcc/internal/diag"
)

// analyzeExpr resolves names and checks types bottom-up, producing a
// fully typed HIR expression with every implicit conversion realized as
// a Cast node (§4.3).
func (a *analyzer) analyzeExpr(e ast.Expr) Expr {
	switch e := e.(type) {
	case *ast.IntLit:
		return &IntLit{ExprBase: ExprBase{Span: e.Span, Type: ast.Int}, Value: e.Value}
	case *ast.LongLit:
		return &LongLit{ExprBase: ExprBase{Span: e.Span, Type: ast.Long}, Value: e.Value}
	case *ast.Name:
		return a.resolveName(e)
	case *ast.Unary:
		return a.analyzeUnary(e)
	case *ast.Binary:
		return a.analyzeBinary(e)
	case *ast.Assign:
		return a.analyzeAssign(e)
	case *ast.Ternary:
		return a.analyzeTernary(e)
	case *ast.Call:
		return a.analyzeCall(e)
	case *ast.Cast:
		x := a.analyzeExpr(e.X)
		return &Cast{ExprBase: ExprBase{Span: e.Span, Type: e.Target}, X: x}
	default:
		diag.Internal(e.Pos(), "hir: unhandled expression type %T", e)
		panic("unreachable")
	}
}

func (a *analyzer) resolveName(n *ast.Name) Expr {
	entry, ok := a.lookupVar(n.Ident)
	if !ok {
		a.errs.Add(diag.Semantic, n.Span, "undeclared identifier %q", a.pool.String(n.Ident))
		return &Var{ExprBase: ExprBase{Span: n.Span, Type: ast.Int}, Kind: VarStatic, Name: n.Ident}
	}
	if entry.IsLocal {
		return &Var{ExprBase: ExprBase{Span: n.Span, Type: entry.Type}, Kind: VarLocal, LocalID: entry.LocalID, Name: n.Ident}
	}
	return &Var{ExprBase: ExprBase{Span: n.Span, Type: entry.Type}, Kind: VarStatic, Name: n.Ident}
}

func (a *analyzer) analyzeUnary(u *ast.Unary) Expr {
	x := a.analyzeExpr(u.X)
	typ := x.Ty()
	if u.Op == ast.Not {
		typ = ast.Int
	}
	return &Unary{ExprBase: ExprBase{Span: u.Span, Type: typ}, Op: u.Op, X: x}
}

func (a *analyzer) analyzeBinary(b *ast.Binary) Expr {
	l := a.analyzeExpr(b.L)
	r := a.analyzeExpr(b.R)

	if b.Op.IsLogical() {
		// §4.3: "&&, ||... yield Int; operands are not coerced."
		return &Binary{ExprBase: ExprBase{Span: b.Span, Type: ast.Int}, Op: b.Op, L: l, R: r}
	}

	common, ok := commonType(l.Ty(), r.Ty())
	if !ok {
		a.errs.Add(diag.Semantic, b.Span, "type mismatch between %s and %s", l.Ty(), r.Ty())
		common = l.Ty()
	}
	l = insertCast(l, common)
	r = insertCast(r, common)

	resultType := common
	if b.Op.IsComparison() {
		resultType = ast.Int
	}
	return &Binary{ExprBase: ExprBase{Span: b.Span, Type: resultType}, Op: b.Op, L: l, R: r}
}

func (a *analyzer) analyzeAssign(as *ast.Assign) Expr {
	name, ok := as.Target.(*ast.Name)
	if !ok {
		a.errs.Add(diag.Semantic, as.Target.Pos(), "invalid lvalue in assignment")
		val := a.analyzeExpr(as.Value)
		dummy := &Var{ExprBase: ExprBase{Span: as.Target.Pos(), Type: val.Ty()}}
		return &Assign{ExprBase: ExprBase{Span: as.Span, Type: val.Ty()}, Target: dummy, Value: val}
	}
	target := a.resolveName(name).(*Var)
	val := a.analyzeExpr(as.Value)
	val = insertCast(val, target.Ty())
	return &Assign{ExprBase: ExprBase{Span: as.Span, Type: target.Ty()}, Target: target, Value: val}
}

func (a *analyzer) analyzeTernary(t *ast.Ternary) Expr {
	cond := a.analyzeExpr(t.Cond)
	then := a.analyzeExpr(t.Then)
	els := a.analyzeExpr(t.Else)
	common, ok := commonType(then.Ty(), els.Ty())
	if !ok {
		a.errs.Add(diag.Semantic, t.Span, "type mismatch between %s and %s", then.Ty(), els.Ty())
		common = then.Ty()
	}
	then = insertCast(then, common)
	els = insertCast(els, common)
	return &Ternary{ExprBase: ExprBase{Span: t.Span, Type: common}, Cond: cond, Then: then, Else: els}
}

func (a *analyzer) analyzeCall(c *ast.Call) Expr {
	sig, ok := a.funcs[c.Callee]
	if !ok {
		a.errs.Add(diag.Semantic, c.Span, "call to undeclared function %q", a.pool.String(c.Callee))
		args := make([]Expr, len(c.Args))
		for i, arg := range c.Args {
			args[i] = a.analyzeExpr(arg)
		}
		return &Call{ExprBase: ExprBase{Span: c.Span, Type: ast.Int}, Callee: c.Callee, Args: args}
	}
	if len(c.Args) != len(sig.Params) {
		a.errs.Add(diag.Semantic, c.Span, "call to %q passes %d arguments, expected %d", a.pool.String(c.Callee), len(c.Args), len(sig.Params))
	}
	args := make([]Expr, len(c.Args))
	for i, arg := range c.Args {
		v := a.analyzeExpr(arg)
		if i < len(sig.Params) {
			v = insertCast(v, sig.Params[i])
		}
		args[i] = v
	}
	return &Call{ExprBase: ExprBase{Span: c.Span, Type: sig.Return}, Callee: c.Callee, Args: args}
}
