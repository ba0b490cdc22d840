// Package lexer implements a lexer for bibtex source text. It takes a
// []byte as a source, which can then be tokenized through repeated calls to
// the Scan method.
//
// Grounded on the teacher's scanner package (scanner/scanner.go): the same
// cursor fields (ch, offset, rdOffset), the same next skeleton, and a
// depth-counting brace-balancing loop in scanBraceString. Renamed Scanner -> Lexer to match this spec's
// vocabulary, and narrowed the token set and string-scanning rules to
// spec.md §4.1's simpler model (whole quoted/braced strings as single
// tokens, rather than the teacher's character-by-character string-interior
// tokens for TeX accents and macros, which are out of this spec's scope).
package lexer

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/gocite/bibtex/token"
)

const eof = -1
const bom = 0xFEFF // byte order mark, only permitted as the first character

// ErrorHandler may be provided to Lexer.Init. If a syntax error is
// encountered and a handler was installed, the handler is called with a
// position and an error message. The position points to the beginning of
// the offending token.
type ErrorHandler func(pos token.Position, msg string)

// Context is the lexical context described in spec.md §4.1: the lexer's
// interpretation of "{" changes depending on whether it is looking at
// top-level source, the inside of an entry (between fields), or the inside
// of a field's value.
type Context int

const (
	CtxTop   Context = iota // outside any entry
	CtxEntry                // inside an entry body, between fields
	CtxValue                // inside a field's value
)

func (c Context) String() string {
	switch c {
	case CtxTop:
		return "top-level"
	case CtxEntry:
		return "in-entry"
	case CtxValue:
		return "in-value"
	default:
		return "context(?)"
	}
}

// A Lexer holds the lexer's internal state while processing a given text.
// It can be allocated as part of another data structure but must be
// initialized via Init before use.
type Lexer struct {
	// immutable state
	file *token.File  // source file handle
	dir  string       // directory portion of file.Name()
	src  []byte       // source
	err  ErrorHandler // error reporting; or nil

	// scanning state
	ch       rune  // current character
	offset   int   // character offset
	rdOffset int    // reading offset (position after current character)

	// the two extra state variables besides position. Brace balance inside
	// a value is tracked locally by scanBraceString, not here.
	braceDepth int     // depth of unclosed entry-opening delimiters
	ctx        Context // top-level, in-entry, or in-value

	// public state - ok to read
	ErrorCount int // number of errors encountered
}

// Init prepares the lexer l to tokenize the text src by setting the lexer
// at the beginning of src. The lexer uses the file for position
// information, and it adds line information for each line. Init panics if
// the file size does not match the src size.
func (l *Lexer) Init(file *token.File, src []byte, err ErrorHandler) {
	if file.Size() != len(src) {
		panic(fmt.Sprintf("file size (%d) does not match src len (%d)", file.Size(), len(src)))
	}
	l.file = file
	l.dir, _ = filepath.Split(file.Name())
	l.src = src
	l.err = err

	l.ch = ' '
	l.offset = 0
	l.rdOffset = 0
	l.braceDepth = 0
	l.ctx = CtxTop
	l.ErrorCount = 0

	l.next()
	if l.ch == bom {
		l.next() // ignore BOM at the file beginning
	}
}

// Context returns the lexer's current lexical context.
func (l *Lexer) Context() Context { return l.ctx }

// BraceDepth returns the lexer's current entry-nesting brace depth.
func (l *Lexer) BraceDepth() int { return l.braceDepth }

// Read the next Unicode char into l.ch. l.ch < 0 means end-of-file.
func (l *Lexer) next() {
	if l.rdOffset < len(l.src) {
		l.offset = l.rdOffset
		if l.ch == '\n' {
			l.file.AddLine(l.offset)
		}
		r, w := rune(l.src[l.rdOffset]), 1
		switch {
		case r == 0:
			l.error(l.offset, "illegal character NUL")
		case r >= utf8.RuneSelf:
			r, w = utf8.DecodeRune(l.src[l.rdOffset:])
			if r == utf8.RuneError && w == 1 {
				l.error(l.offset, "illegal UTF-8 encoding")
			} else if r == bom && l.offset > 0 {
				l.error(l.offset, "illegal byte order mark")
			}
		}
		l.rdOffset += w
		l.ch = r
	} else {
		l.offset = len(l.src)
		if l.ch == '\n' {
			l.file.AddLine(l.offset)
		}
		l.ch = eof
	}
}

func (l *Lexer) error(offs int, msg string) {
	if l.err != nil {
		l.err(l.file.Position(l.file.Pos(offs)), msg)
	}
	l.ErrorCount++
}

func (l *Lexer) errorf(offs int, format string, args ...interface{}) {
	l.error(offs, fmt.Sprintf(format, args...))
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.next()
	}
}

func lower(ch rune) rune     { return ('a' - 'A') | ch } // lower-case ch if ch is an ASCII letter
func isDecimal(ch rune) bool { return '0' <= ch && ch <= '9' }

func isIdentStart(ch rune) bool {
	return 'a' <= lower(ch) && lower(ch) <= 'z'
}

// IsIdentRune returns true if ch may appear in a bibtex identifier:
//
//	[A-Za-z][A-Za-z0-9_:+-./']*
func IsIdentRune(ch rune) bool {
	return ('a' <= ch && ch <= 'z') ||
		('A' <= ch && ch <= 'Z') ||
		('0' <= ch && ch <= '9') ||
		ch == '_' || ch == ':' || ch == '+' || ch == '-' || ch == '.' || ch == '/' || ch == '\''
}

func (l *Lexer) scanIdent() string {
	offs := l.offset
	for IsIdentRune(l.ch) {
		l.next()
	}
	return string(l.src[offs:l.offset])
}

func (l *Lexer) scanNumber() string {
	offs := l.offset
	for isDecimal(l.ch) {
		l.next()
	}
	return string(l.src[offs:l.offset])
}

// scanString scans a bibtex string delimited by double quotes. A '"' seen
// while brace-depth (within this string) is greater than zero is literal
// text, not a terminator, per spec.md §4.1; each nested brace group is
// handed to scanBraceString, which consumes it up to its matching '}', so
// any quotes it contains never reach this loop.
func (l *Lexer) scanString() (string, bool) {
	offs := l.offset
	for {
		ch := l.ch
		if ch < 0 || ch == '\n' {
			l.error(offs, "string literal in double quotes not terminated")
			return string(l.src[offs:l.offset]), false
		}
		l.next()
		if ch == '"' {
			return string(l.src[offs : l.offset-1]), true
		}
		if ch == '{' {
			l.scanBraceString()
		}
	}
}

// scanBraceString scans a bibtex string delimited by balanced braces. The
// opening '{' has already been consumed by the caller.
func (l *Lexer) scanBraceString() (string, bool) {
	offs := l.offset
	depth := 1
	for {
		ch := l.ch
		if ch < 0 {
			l.error(offs, "string literal in braces not terminated")
			return string(l.src[offs:l.offset]), false
		}
		l.next()
		if ch == '{' {
			depth++
			continue
		}
		if ch == '}' {
			depth--
			if depth == 0 {
				return string(l.src[offs : l.offset-1]), true
			}
		}
	}
}

// Scan scans the next token and returns the token position, the token, and
// its literal string if applicable. The source end is indicated by
// token.EOF.
//
// Scan never panics: on an unterminated string or an illegal character it
// returns token.Illegal with the partial text consumed so far, having made
// progress, so callers can always continue scanning.
func (l *Lexer) Scan() (pos token.Pos, tok token.Token, lit string) {
	l.skipWhitespace()
	pos = l.file.Pos(l.offset)

	switch ch := l.ch; {
	case isDecimal(ch):
		tok = token.Number
		lit = l.scanNumber()
		return

	case isIdentStart(ch):
		tok = token.Ident
		lit = l.scanIdent()
		return
	}

	ch := l.ch
	l.next() // always make progress
	switch ch {
	case eof:
		tok = token.EOF
	case '@':
		tok = token.At
		l.ctx = CtxEntry
	case '=':
		tok = token.Assign
		l.ctx = CtxValue
	case ',':
		tok = token.Comma
		if l.ctx == CtxValue {
			l.ctx = CtxEntry
		}
	case '#':
		tok = token.Concat
	case '"':
		tok = token.String
		var ok bool
		lit, ok = l.scanString()
		if !ok {
			tok = token.Illegal
		}
	case '{':
		if l.ctx == CtxValue {
			tok = token.BraceString
			var ok bool
			lit, ok = l.scanBraceString()
			if !ok {
				tok = token.Illegal
			}
		} else {
			tok = token.LBrace
			l.braceDepth++
			l.ctx = CtxEntry
		}
	case '}':
		tok = token.RBrace
		l.braceDepth--
		if l.braceDepth <= 0 {
			l.braceDepth = 0
			l.ctx = CtxTop
		}
	case '(':
		tok = token.LParen
		l.braceDepth++
		l.ctx = CtxEntry
	case ')':
		tok = token.RParen
		l.braceDepth--
		if l.braceDepth <= 0 {
			l.braceDepth = 0
			l.ctx = CtxTop
		}
	default:
		if ch != bom {
			l.errorf(l.file.Offset(pos), "illegal character %#U", ch)
		}
		tok = token.Illegal
		lit = string(ch)
	}
	return
}
