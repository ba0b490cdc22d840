// This file contains the exported entry points for invoking the parser.
package parser

import (
	"github.com/gocite/bibtex/ast"
	"github.com/gocite/bibtex/token"
	"github.com/gocite/bibtex/warn"
)

// ParseFile parses a full bibtex source, recovering at entry boundaries on
// syntax errors. Position information is recorded in file, which must have
// already been added to a token.FileSet with the correct size for src.
//
// The returned error, if non-nil, is a warn.List holding every item
// reported during the parse; it is non-nil only when at least one item has
// SyntaxError severity or higher. The returned *ast.File is
// never nil and contains every entry parsed, including partial entries
// with Err set (never to be treated as valid by callers, per spec.md
// §4.2).
func ParseFile(file *token.File, src []byte, sink warn.Sink) (f *ast.File, err error) {
	var p parser
	defer func() {
		if e := recover(); e != nil {
			if _, ok := e.(bailout); !ok {
				panic(e)
			}
		}
		if f == nil {
			f = &ast.File{}
		}
		p.errors.Sort()
		err = p.errors.ErrIfSyntax()
	}()

	p.init(file, src, sink)
	f = p.parseFile()
	return
}

// ParseEntry parses exactly one entry from the front of src and returns it
// along with the count of bytes consumed. It is used by
// bibtex.Session.ParseEntry to parse incrementally without re-scanning an
// entire multi-entry file.
func ParseEntry(file *token.File, src []byte, sink warn.Sink) (e *ast.Entry, consumed int, err error) {
	var p parser
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
		}
		p.errors.Sort()
		err = p.errors.ErrIfSyntax()
	}()

	p.init(file, src, sink)
	if p.tok == token.EOF {
		return nil, 0, err
	}
	e = p.parseEntry()
	consumed = file.Offset(p.pos)
	return
}
