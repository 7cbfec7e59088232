// Package strpool implements the process-wide string interning pool shared
// by every pipeline stage. Identifiers are compared by handle, never by
// content, once they leave the lexer.
package strpool

import "github.com/samber/lo"

// Symbol is a dense handle into a Pool. Two symbols compare equal iff the
// strings they were interned from are equal.
type Symbol int

// Pool owns the canonical backing storage for interned strings. A Pool is
// created once per compilation and threaded forward as owned data attached
// to the top-level IR of each stage; it is never shared across compilations.
type Pool struct {
	strs []string
	idx  map[string]Symbol
}

// New returns an empty Pool.
func New() *Pool {
	return &Pool{idx: make(map[string]Symbol, 64)}
}

// Intern returns the Symbol for s, allocating a fresh one if s has not been
// seen before.
func (p *Pool) Intern(s string) Symbol {
	if sym, ok := p.idx[s]; ok {
		return sym
	}
	sym := Symbol(len(p.strs))
	p.strs = append(p.strs, s)
	p.idx[s] = sym
	return sym
}

// String returns the text behind sym. Panics if sym was never interned by
// this Pool: that can only happen due to a stage bug, never user input.
func (p *Pool) String(sym Symbol) string {
	if int(sym) < 0 || int(sym) >= len(p.strs) {
		panic("strpool: invalid symbol")
	}
	return p.strs[sym]
}

// Len returns the number of distinct strings interned so far.
func (p *Pool) Len() int { return len(p.strs) }

// Symbols returns every live symbol, in interning order.
func (p *Pool) Symbols() []Symbol {
	return lo.Map(p.strs, func(_ string, i int) Symbol { return Symbol(i) })
}
