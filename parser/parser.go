// Package parser implements the recursive-descent, one-token-lookahead
// grammar builder described in spec.md §4.2. It turns a lexer token stream
// into an *ast.File: an ordered list of *ast.Entry nodes.
//
// Grounded on the teacher's parser/parser.go: the same parser struct shape
// (file, errors, one-token lookahead pos/tok/lit), the same
// next/expect/errorExpected/advance synchronization machinery, and the same
// bailout{} panic/recover pattern from parser/interface.go for internal
// errors. The grammar productions are rebuilt around spec.md's single
// Entry node (discriminated by EntryMetaType) rather than the teacher's
// four separate Decl types.
package parser

import (
	"github.com/gocite/bibtex/ast"
	"github.com/gocite/bibtex/lexer"
	"github.com/gocite/bibtex/token"
	"github.com/gocite/bibtex/warn"
)

// parser holds the parser's internal state for one file.
type parser struct {
	file   *token.File
	src    []byte
	errors warn.List
	sink   warn.Sink
	lx     lexer.Lexer

	// one-token lookahead
	pos token.Pos
	tok token.Token
	lit string

	// error recovery: limits advance() calls without progress
	syncPos token.Pos
	syncCnt int
}

func (p *parser) init(file *token.File, src []byte, sink warn.Sink) {
	p.file = file
	p.src = src
	p.sink = sink
	eh := func(pos token.Position, msg string) {
		p.errors.Add(pos, warn.SyntaxError, msg, p.sink)
	}
	p.lx.Init(file, src, eh)
	p.next()
}

func (p *parser) next() {
	p.pos, p.tok, p.lit = p.lx.Scan()
}

// bailout is panicked to unwind out of a deeply recursive parse on an
// internal error; recovered only at the ParseFile and ParseEntry entry
// points.
type bailout struct{}

func (p *parser) error(pos token.Pos, sev warn.Severity, msg string) {
	p.errors.Add(p.file.Position(pos), sev, msg, p.sink)
}

func (p *parser) errorExpected(pos token.Pos, msg string) {
	msg = "expected " + msg
	if pos == p.pos {
		switch {
		case p.tok.IsLiteral():
			msg += ", found " + p.lit
		default:
			msg += ", found '" + p.tok.String() + "'"
		}
	}
	p.error(pos, warn.SyntaxError, msg)
}

// internalError records an InternalError item and aborts the current parse
// via bailout. Reserved for conditions that indicate a bug in this parser,
// never a malformed input (those are syntax errors, handled by recovery).
func (p *parser) internalError(pos token.Pos, msg string) {
	p.error(pos, warn.InternalError, msg)
	panic(bailout{})
}

func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errorExpected(pos, "'"+tok.String()+"'")
	}
	p.next()
	return pos
}

// entrySync is the token.At set advance() syncs to for entry-level
// recovery (spec.md §4.2: "discards tokens until the next `@` at brace
// depth 0"). The lexer returns quoted and braced values as single tokens,
// so an '@' inside a string value never reaches the parser; an '@' written
// outside any string inside an entry body is still returned as At, and
// recovery stops there too.
var entrySync = map[token.Token]bool{token.At: true}

// advance consumes tokens until the current token is in the to set, or EOF.
func (p *parser) advance(to map[token.Token]bool) {
	for ; p.tok != token.EOF; p.next() {
		if to[p.tok] {
			if p.pos == p.syncPos && p.syncCnt < 10 {
				p.syncCnt++
				return
			}
			if p.pos > p.syncPos {
				p.syncPos = p.pos
				p.syncCnt = 0
				return
			}
		}
	}
}

func asciiFold(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func entryMetaType(typ string) ast.EntryMetaType {
	switch asciiFold(typ) {
	case "comment":
		return ast.Comment
	case "preamble":
		return ast.Preamble
	case "string":
		return ast.MacroDef
	default:
		return ast.Regular
	}
}

// parseFile implements: file := entry*
func (p *parser) parseFile() *ast.File {
	start := p.pos
	var entries []*ast.Entry
	for p.tok != token.EOF {
		entries = append(entries, p.parseEntry())
	}
	return &ast.File{FileStart: start, FileEnd: p.pos, Entries: entries}
}

// parseEntry implements: entry := '@' ident body
func (p *parser) parseEntry() *ast.Entry {
	atPos := p.expect(token.At)

	if p.tok != token.Ident {
		p.errorExpected(p.pos, "entry-type identifier")
		p.advance(entrySync)
		return &ast.Entry{AtPos: atPos, Err: true, Rbrace: p.pos}
	}
	typ := p.lit
	metaType := entryMetaType(typ)
	p.next()

	var closeTok token.Token
	switch p.tok {
	case token.LBrace:
		closeTok = token.RBrace
	case token.LParen:
		closeTok = token.RParen
	default:
		p.errorExpected(p.pos, "'{' or '('")
		p.advance(entrySync)
		return &ast.Entry{AtPos: atPos, Type: typ, MetaType: metaType, Err: true, Rbrace: p.pos}
	}
	p.next()

	entry := &ast.Entry{AtPos: atPos, Type: typ, MetaType: metaType}

	switch metaType {
	case ast.Comment:
		entry.CommentText = p.parseCommentBody(closeTok)
		return entry
	case ast.Preamble:
		entry.PreambleVal = p.parseValue()
	case ast.MacroDef:
		entry.Fields = p.parseFieldList(closeTok)
		if len(entry.Fields) != 1 {
			p.error(atPos, warn.Warning, "macro-def entry should have exactly one field")
		}
	default: // Regular
		entry.HasKey = true
		entry.KeyPos = p.pos
		entry.Key = p.parseKey()
		switch {
		case p.tok == token.Comma:
			p.next()
			entry.Fields = p.parseFieldList(closeTok)
		case p.tok == closeTok:
			// A bare "@type{key}" with no fields at all; accepted
			// defensively even though spec.md's literal grammar requires
			// a comma and at least one field.
		default:
			p.errorExpected(p.pos, "','")
			p.advance(entrySync)
			entry.Err = true
			entry.Rbrace = p.pos
			return entry
		}
	}

	entry.Rbrace = p.expect(closeTok)
	return entry
}

// parseCommentBody consumes and returns the raw source text of a @comment
// entry's body, up to (but not including) its matching closing delimiter.
// Comment bodies are opaque per spec.md §1 ("OUT OF SCOPE ... API
// documentation" aside, @comment contents are never interpreted) so this
// tracks nested delimiters only to find the matching close, without
// attributing any other structure to the tokens in between.
func (p *parser) parseCommentBody(closeTok token.Token) string {
	startOffset := p.file.Offset(p.pos)
	depth := 1
	for p.tok != token.EOF {
		switch p.tok {
		case token.LBrace, token.LParen:
			depth++
		case token.RBrace, token.RParen:
			depth--
			if depth == 0 {
				endOffset := p.file.Offset(p.pos)
				text := string(p.src[startOffset:endOffset])
				p.next()
				return text
			}
		}
		p.next()
	}
	p.errorExpected(p.pos, "'"+closeTok.String()+"'")
	return string(p.src[startOffset:p.file.Offset(p.pos)])
}

// parseFieldList implements: field (',' field)* [',']
func (p *parser) parseFieldList(closeTok token.Token) []*ast.Field {
	var fields []*ast.Field
	for p.tok != closeTok && p.tok != token.EOF {
		fields = append(fields, p.parseField())
		if p.tok == token.Comma {
			p.next()
			continue
		}
		break
	}
	return fields
}

// parseKey implements: key := ident-or-number-or-braced
func (p *parser) parseKey() string {
	switch p.tok {
	case token.Ident, token.Number, token.BraceString:
		lit := p.lit
		p.next()
		return lit
	default:
		p.errorExpected(p.pos, "citation key")
		return ""
	}
}

// parseField implements: field := ident '=' value
func (p *parser) parseField() *ast.Field {
	namePos := p.pos
	name := ""
	if p.tok == token.Ident {
		name = asciiFold(p.lit)
		p.next()
	} else {
		p.errorExpected(p.pos, "field name")
	}
	p.expect(token.Assign)
	val := p.parseValue()
	return &ast.Field{NamePos: namePos, Name: name, Value: val}
}

// parseValue implements: value := simple-value ( '#' simple-value )*
func (p *parser) parseValue() *ast.Value {
	svs := []ast.SimpleValue{p.parseSimpleValue()}
	for p.tok == token.Concat {
		p.next()
		svs = append(svs, p.parseSimpleValue())
	}
	return &ast.Value{Values: svs}
}

// parseSimpleValue implements:
// simple-value := quoted-string | braced-string | number | macro-ref
func (p *parser) parseSimpleValue() ast.SimpleValue {
	pos := p.pos
	switch p.tok {
	case token.String:
		lit := p.lit
		p.next()
		return &ast.StringLit{ValuePos: pos, Value: lit}
	case token.BraceString:
		lit := p.lit
		p.next()
		return &ast.StringLit{ValuePos: pos, Value: lit, Braced: true}
	case token.Number:
		lit := p.lit
		p.next()
		return &ast.NumberLit{ValuePos: pos, Value: lit}
	case token.Ident:
		lit := p.lit
		p.next()
		return &ast.MacroRef{ValuePos: pos, Name: lit}
	default:
		p.errorExpected(pos, "simple value: string, number, or macro reference")
		p.next()
		return &ast.StringLit{ValuePos: pos, Value: ""}
	}
}
