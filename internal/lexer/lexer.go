// Package lexer scans a UTF-8 source buffer into a token stream (§4.1).
//
// The scanning loop is organised as a chain of stateFunc values, the same
// shape as the teacher's Pike-style scanner (src/frontend/lexer.go): a
// state reads runes via next/backup/peek/accept/acceptRun and returns the
// state to run next. Unlike the teacher, the lexer here is a single
// synchronous call with no goroutine and no channel: §5 requires every
// stage to be a pure function of its input, and the teacher's channel
// handshake exists only to let the scanner and the (goyacc) parser run
// concurrently, which this compiler's hand-written recursive-descent
// parser has no need for.
package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"rvcc/internal/ctoken"
	"rvcc/internal/diag"
	"rvcc/internal/source"
	"rvcc/internal/strpool"
)

const eof = rune(0)

type stateFunc func(*lexer) stateFunc

type lexer struct {
	input string
	start int
	pos   int
	width int

	line        int
	col         int // column of l.start within the current line (1-indexed)
	curCol      int // column of l.pos within the current line (1-indexed)

	pool *strpool.Pool
	toks []ctoken.Token
	errs diag.List
}

// Lex scans src to completion and returns the token stream plus any
// accumulated lexical errors. Per §6/§7, a non-empty error list means the
// caller must not proceed to the parser.
func Lex(src string, pool *strpool.Pool) ([]ctoken.Token, diag.List) {
	l := &lexer{input: src, line: 1, col: 1, curCol: 1, pool: pool}
	for state := stateFunc(lexStart); state != nil; {
		state = state(l)
	}
	l.emit(ctoken.EOF)
	return l.toks, l.errs
}

func (l *lexer) span() source.Span {
	return source.Span{Line: l.line, Col: l.col, Len: l.pos - l.start}
}

func (l *lexer) text() string { return l.input[l.start:l.pos] }

func (l *lexer) emit(kind ctoken.Kind) {
	t := ctoken.Token{Kind: kind, Span: l.span()}
	switch kind {
	case ctoken.Ident:
		t.Name = l.pool.Intern(l.text())
	case ctoken.IntLit, ctoken.LongLit:
		l.setNumber(&t, kind)
	}
	l.toks = append(l.toks, t)
	l.start = l.pos
	l.col = l.curCol
}

func (l *lexer) setNumber(t *ctoken.Token, kind ctoken.Kind) {
	text := l.text()
	if kind == ctoken.LongLit {
		text = strings.TrimRight(text, "lL")
	}
	if kind == ctoken.LongLit {
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			l.errs.Add(diag.Lex, l.span(), "long literal %q out of range", l.text())
			return
		}
		t.LongVal = v
		return
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil || v > 1<<32-1 {
		l.errs.Add(diag.Lex, l.span(), "integer literal %q out of range", l.text())
		return
	}
	t.IntVal = int32(uint32(v))
}

func (l *lexer) ignore() {
	l.start = l.pos
	l.col = l.curCol
}

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	if r == '\n' {
		l.line++
		l.curCol = 1
	} else {
		l.curCol++
	}
	return r
}

func (l *lexer) backup() {
	if l.width == 0 {
		return
	}
	l.pos -= l.width
	if l.input[l.pos] == '\n' {
		l.line--
	} else {
		l.curCol--
	}
}

func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *lexer) accept(valid string) bool {
	if strings.IndexRune(valid, l.next()) >= 0 {
		return true
	}
	l.backup()
	return false
}

func (l *lexer) acceptRun(valid string) {
	for strings.IndexRune(valid, l.next()) >= 0 {
	}
	l.backup()
}

func isAlpha(r rune) bool { return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isAlnum(r rune) bool { return isAlpha(r) || isDigit(r) }

const digits = "0123456789"

// lexStart is the top-level dispatch state.
func lexStart(l *lexer) stateFunc {
	r := l.next()
	switch {
	case r == eof:
		return nil
	case r == ' ' || r == '\t' || r == '\r' || r == '\n':
		l.ignore()
		return lexStart
	case isAlpha(r):
		return lexIdent
	case isDigit(r):
		return lexNumber
	}

	switch r {
	case '(':
		l.emit(ctoken.LParen)
	case ')':
		l.emit(ctoken.RParen)
	case '{':
		l.emit(ctoken.LBrace)
	case '}':
		l.emit(ctoken.RBrace)
	case ';':
		l.emit(ctoken.Semicolon)
	case ',':
		l.emit(ctoken.Comma)
	case '+':
		l.emit(ctoken.Plus)
	case '-':
		l.emit(ctoken.Minus)
	case '*':
		l.emit(ctoken.Star)
	case '/':
		if l.accept("/") {
			for l.peek() != '\n' && l.peek() != eof {
				l.next()
			}
			l.ignore()
			return lexStart
		}
		if l.accept("*") {
			return lexBlockComment
		}
		l.emit(ctoken.Slash)
	case '%':
		l.emit(ctoken.Percent)
	case '~':
		l.emit(ctoken.Tilde)
	case '!':
		if l.accept("=") {
			l.emit(ctoken.NotEq)
		} else {
			l.emit(ctoken.Bang)
		}
	case '<':
		if l.accept("=") {
			l.emit(ctoken.Le)
		} else {
			l.emit(ctoken.Lt)
		}
	case '>':
		if l.accept("=") {
			l.emit(ctoken.Ge)
		} else {
			l.emit(ctoken.Gt)
		}
	case '=':
		if l.accept("=") {
			l.emit(ctoken.EqEq)
		} else {
			l.emit(ctoken.Assign)
		}
	case '&':
		if l.accept("&") {
			l.emit(ctoken.AndAnd)
		} else {
			l.errs.Add(diag.Lex, l.span(), "unsupported character '&': bitwise operators are not in the supported subset")
			l.ignore()
		}
	case '|':
		if l.accept("|") {
			l.emit(ctoken.OrOr)
		} else {
			l.errs.Add(diag.Lex, l.span(), "unsupported character '|': bitwise operators are not in the supported subset")
			l.ignore()
		}
	case '?':
		l.emit(ctoken.Question)
	case ':':
		l.emit(ctoken.Colon)
	default:
		l.errs.Add(diag.Lex, l.span(), "invalid character %q", r)
		l.ignore()
	}
	return lexStart
}

func lexBlockComment(l *lexer) stateFunc {
	for {
		r := l.next()
		if r == eof {
			l.errs.Add(diag.Lex, l.span(), "unterminated block comment")
			return nil
		}
		if r == '*' && l.accept("/") {
			l.ignore()
			return lexStart
		}
	}
}

func lexIdent(l *lexer) stateFunc {
	for isAlnum(l.peek()) {
		l.next()
	}
	if kw, ok := ctoken.Keywords[l.text()]; ok {
		l.emit(kw)
	} else {
		l.emit(ctoken.Ident)
	}
	return lexStart
}

func lexNumber(l *lexer) stateFunc {
	l.acceptRun(digits)
	if l.accept("lL") {
		l.emit(ctoken.LongLit)
		return lexStart
	}
	if isAlpha(l.peek()) {
		l.next()
		l.errs.Add(diag.Lex, l.span(), "invalid suffix on numeric literal %q", l.text())
		for isAlnum(l.peek()) {
			l.next()
		}
		l.ignore()
		return lexStart
	}
	l.emit(ctoken.IntLit)
	return lexStart
}
