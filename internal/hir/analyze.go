package hir

import (
	"rvcc/internal/ast"
	"rvcc/internal/diag"
	"rvcc/internal/source"
	"rvcc/internal/strpool"
)

// analyzer holds the whole-translation-unit and per-function state for
// the single combined name/label/type-checking pass (§4.3). A real
// multi-pass compiler might separate these into three tree walks; here
// they are folded into one recursive descent over the AST, since each
// HIR node needs its resolved type at construction time regardless.
type analyzer struct {
	pool *strpool.Pool
	errs diag.List

	funcs        map[strpool.Symbol]*funcSig
	statics      map[strpool.Symbol]*StaticVarDecl
	staticsOrder []strpool.Symbol

	// per-function state, reset in analyzeFuncBody
	scopes      stack[scope]
	loopIDs     stack[int]
	nextLocalID int
	nextLoopID  int
	retType     ast.Type
}

// Analyze runs name resolution, label resolution and type checking over
// prog, producing a Program ready for TAC generation. It never returns a
// partial-but-usable result together with errors: if errs.Ok() is false
// the returned Program should be discarded (§4.3/§6).
func Analyze(prog *ast.Program, pool *strpool.Pool) (*Program, diag.List) {
	a := &analyzer{
		pool:    pool,
		funcs:   map[strpool.Symbol]*funcSig{},
		statics: map[strpool.Symbol]*StaticVarDecl{},
	}

	out := &Program{}
	for _, d := range prog.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			if fd := a.analyzeFuncDecl(d); fd != nil {
				out.Funcs = append(out.Funcs, fd)
			}
		case *ast.VarDecl:
			a.analyzeStaticVarDecl(d)
		}
	}
	for _, name := range a.staticsOrder {
		out.Statics = append(out.Statics, a.statics[name])
	}
	return out, a.errs
}

func paramTypes(params []ast.Param) []ast.Type {
	types := make([]ast.Type, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return types
}

func linkageOf(sc ast.StorageClass) Linkage {
	if sc == ast.Static {
		return Internal
	}
	return External
}

func (a *analyzer) analyzeFuncDecl(d *ast.FuncDecl) *FuncDecl {
	types := paramTypes(d.Params)
	linkage := linkageOf(d.Storage)

	sig, exists := a.funcs[d.Name]
	if exists {
		if !sameTypes(sig.Params, types) || sig.Return != d.ReturnType {
			a.errs.Add(diag.Semantic, d.Span, "conflicting declaration of function %q", a.pool.String(d.Name))
			return nil
		}
		if sig.Linkage != linkage {
			a.errs.Add(diag.Semantic, d.Span, "conflicting linkage for function %q", a.pool.String(d.Name))
			return nil
		}
		if sig.Defined && d.Body != nil {
			a.errs.Add(diag.Semantic, d.Span, "redefinition of function %q", a.pool.String(d.Name))
			return nil
		}
	} else {
		sig = &funcSig{Params: types, Return: d.ReturnType, Linkage: linkage}
		a.funcs[d.Name] = sig
	}
	if d.Body != nil {
		sig.Defined = true
	}

	fd := &FuncDecl{
		Span:       d.Span,
		Name:       d.Name,
		ReturnType: d.ReturnType,
		Linkage:    linkage,
	}

	if d.Body == nil {
		for _, p := range d.Params {
			fd.Params = append(fd.Params, Param{LocalID: -1, Type: p.Type})
		}
		return fd
	}

	a.scopes = stack[scope]{}
	a.loopIDs = stack[int]{}
	a.nextLocalID = 0
	a.nextLoopID = 0
	a.retType = d.ReturnType

	a.scopes.push(scope{})
	for _, p := range d.Params {
		id := a.allocLocal()
		if !a.declareLocal(p.Name, varEntry{Type: p.Type, IsLocal: true, LocalID: id}, p.Span) {
			a.errs.Add(diag.Semantic, p.Span, "duplicate parameter name %q", a.pool.String(p.Name))
		}
		fd.Params = append(fd.Params, Param{LocalID: id, Type: p.Type})
	}
	fd.Body = a.analyzeBlockBody(d.Body)
	a.scopes.pop()
	fd.NumLocals = a.nextLocalID
	return fd
}

// analyzeStaticVarDecl merges a file-scope variable declaration into the
// translation-unit-wide static table, implementing tentative-definition
// semantics (§4.3/§3): a bare `int x;` without `extern` is tentative and
// is materialized to BSS only if no later declaration supplies `= const`.
func (a *analyzer) analyzeStaticVarDecl(d *ast.VarDecl) {
	linkage := linkageOf(d.Storage)
	existing, seen := a.statics[d.Name]
	if !seen {
		existing = &StaticVarDecl{Span: d.Span, Name: d.Name, Type: d.Type, Linkage: linkage, Init: InitNone}
		a.statics[d.Name] = existing
		a.staticsOrder = append(a.staticsOrder, d.Name)
	} else {
		if existing.Type != d.Type {
			a.errs.Add(diag.Semantic, d.Span, "conflicting type for %q", a.pool.String(d.Name))
			return
		}
		if existing.Linkage != linkage {
			a.errs.Add(diag.Semantic, d.Span, "conflicting linkage for %q", a.pool.String(d.Name))
			return
		}
	}

	if d.Init == nil {
		if d.Storage != ast.Extern && existing.Init == InitNone {
			existing.Init = InitTentative
		}
		return
	}

	c, ok := a.constantExpr(d.Init, d.Type)
	if !ok {
		a.errs.Add(diag.Semantic, d.Init.Pos(), "initializer of %q is not a compile-time constant", a.pool.String(d.Name))
		return
	}
	if existing.Init == InitConst {
		a.errs.Add(diag.Semantic, d.Span, "redefinition of %q", a.pool.String(d.Name))
		return
	}
	existing.Init = InitConst
	existing.Const = c
}

// constantExpr evaluates the restricted constant-expression grammar
// accepted for a static initializer: an optional leading `+`/`-` applied
// to an integer or long literal.
func (a *analyzer) constantExpr(e ast.Expr, target ast.Type) (Constant, bool) {
	neg := false
	for {
		if u, ok := e.(*ast.Unary); ok && (u.Op == ast.Plus || u.Op == ast.Neg) {
			if u.Op == ast.Neg {
				neg = !neg
			}
			e = u.X
			continue
		}
		break
	}
	var c Constant
	switch lit := e.(type) {
	case *ast.IntLit:
		v := lit.Value
		if neg {
			v = -v
		}
		c = Constant{Type: ast.Int, I32: v}
	case *ast.LongLit:
		v := lit.Value
		if neg {
			v = -v
		}
		c = Constant{Type: ast.Long, I64: v}
	default:
		return Constant{}, false
	}
	return coerceConstant(c, target), true
}

func coerceConstant(c Constant, target ast.Type) Constant {
	if c.Type == target {
		return c
	}
	if target == ast.Long {
		return Constant{Type: ast.Long, I64: int64(c.I32)}
	}
	return Constant{Type: ast.Int, I32: int32(c.I64)}
}

func (a *analyzer) allocLocal() int {
	id := a.nextLocalID
	a.nextLocalID++
	return id
}

func (a *analyzer) declareLocal(name strpool.Symbol, e varEntry, span source.Span) bool {
	top := a.scopes.top()
	if _, dup := top[name]; dup {
		return false
	}
	top[name] = e
	return true
}

// lookupVar resolves name against the lexical scope stack (innermost
// first), falling back to the file-scope static table.
func (a *analyzer) lookupVar(name strpool.Symbol) (varEntry, bool) {
	for i := len(a.scopes.items) - 1; i >= 0; i-- {
		if e, ok := a.scopes.items[i][name]; ok {
			return e, true
		}
	}
	if s, ok := a.statics[name]; ok {
		return varEntry{Type: s.Type, IsLocal: false}, true
	}
	return varEntry{}, false
}
