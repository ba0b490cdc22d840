package lexer

import (
	"testing"

	"github.com/gocite/bibtex/token"
)

type tokLit struct {
	tok token.Token
	lit string
}

func scanAll(t *testing.T, src string) []tokLit {
	t.Helper()
	fset := token.NewFileSet()
	file := fset.AddFile("test.bib", -1, len(src))

	var errs []string
	var l Lexer
	l.Init(file, []byte(src), func(pos token.Position, msg string) {
		errs = append(errs, pos.String()+": "+msg)
	})

	var got []tokLit
	for {
		_, tok, lit := l.Scan()
		got = append(got, tokLit{tok, lit})
		if tok == token.EOF {
			break
		}
	}
	if len(errs) > 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	return got
}

func TestScanSimpleEntry(t *testing.T) {
	src := `@article{key1, author = "A. Author", year = 2005}`
	got := scanAll(t, src)
	want := []tokLit{
		{token.At, ""},
		{token.Ident, "article"},
		{token.LBrace, ""},
		{token.Ident, "key1"},
		{token.Comma, ""},
		{token.Ident, "author"},
		{token.Assign, ""},
		{token.String, "A. Author"},
		{token.Comma, ""},
		{token.Ident, "year"},
		{token.Assign, ""},
		{token.Number, "2005"},
		{token.RBrace, ""},
		{token.EOF, ""},
	}
	assertTokens(t, got, want)
}

func TestScanBraceStringValue(t *testing.T) {
	src := `@book{k, title = {The {Great} Gatsby}}`
	got := scanAll(t, src)
	want := []tokLit{
		{token.At, ""},
		{token.Ident, "book"},
		{token.LBrace, ""},
		{token.Ident, "k"},
		{token.Comma, ""},
		{token.Ident, "title"},
		{token.Assign, ""},
		{token.BraceString, "The {Great} Gatsby"},
		{token.RBrace, ""},
		{token.EOF, ""},
	}
	assertTokens(t, got, want)
}

// A double quote nested inside a brace group within a quoted string is
// literal text, not a terminator: brace-depth > 0 suppresses termination.
func TestScanQuotedStringWithEmbeddedBraceAndQuote(t *testing.T) {
	src := `@misc{k, note = "a {" quoted "} b"}`
	got := scanAll(t, src)
	want := []tokLit{
		{token.At, ""},
		{token.Ident, "misc"},
		{token.LBrace, ""},
		{token.Ident, "k"},
		{token.Comma, ""},
		{token.Ident, "note"},
		{token.Assign, ""},
		{token.String, `a {" quoted "} b`},
		{token.RBrace, ""},
		{token.EOF, ""},
	}
	assertTokens(t, got, want)
}

func TestScanConcatenationWithMacroRef(t *testing.T) {
	src := `@string{j = "Journal"} @article{k, journal = j # " of Foo"}`
	got := scanAll(t, src)
	want := []tokLit{
		{token.At, ""},
		{token.Ident, "string"},
		{token.LBrace, ""},
		{token.Ident, "j"},
		{token.Assign, ""},
		{token.String, "Journal"},
		{token.RBrace, ""},
		{token.At, ""},
		{token.Ident, "article"},
		{token.LBrace, ""},
		{token.Ident, "k"},
		{token.Comma, ""},
		{token.Ident, "journal"},
		{token.Assign, ""},
		{token.Ident, "j"},
		{token.Concat, ""},
		{token.String, " of Foo"},
		{token.RBrace, ""},
		{token.EOF, ""},
	}
	assertTokens(t, got, want)
}

func TestScanParenDelimitedEntry(t *testing.T) {
	src := `@article(key1, year = 2005)`
	got := scanAll(t, src)
	want := []tokLit{
		{token.At, ""},
		{token.Ident, "article"},
		{token.LParen, ""},
		{token.Ident, "key1"},
		{token.Comma, ""},
		{token.Ident, "year"},
		{token.Assign, ""},
		{token.Number, "2005"},
		{token.RParen, ""},
		{token.EOF, ""},
	}
	assertTokens(t, got, want)
}

func TestUnterminatedBraceStringReportsIllegal(t *testing.T) {
	fset := token.NewFileSet()
	src := `@book{k, title = {unterminated`
	file := fset.AddFile("test.bib", -1, len(src))

	var errs []string
	var l Lexer
	l.Init(file, []byte(src), func(pos token.Position, msg string) {
		errs = append(errs, msg)
	})

	sawIllegal := false
	for {
		_, tok, _ := l.Scan()
		if tok == token.Illegal {
			sawIllegal = true
		}
		if tok == token.EOF {
			break
		}
	}
	if !sawIllegal {
		t.Fatal("expected an Illegal token for unterminated brace string")
	}
	if len(errs) == 0 {
		t.Fatal("expected an error for unterminated brace string")
	}
}

func TestContextTransitions(t *testing.T) {
	fset := token.NewFileSet()
	src := `@article{k, year = 2005}`
	file := fset.AddFile("test.bib", -1, len(src))

	var l Lexer
	l.Init(file, []byte(src), nil)

	if got := l.Context(); got != CtxTop {
		t.Fatalf("initial context = %v, want %v", got, CtxTop)
	}
	for {
		_, tok, _ := l.Scan()
		if tok == token.EOF {
			break
		}
	}
	if got := l.Context(); got != CtxTop {
		t.Fatalf("final context = %v, want %v", got, CtxTop)
	}
	if got := l.BraceDepth(); got != 0 {
		t.Fatalf("final brace depth = %d, want 0", got)
	}
}

func assertTokens(t *testing.T, got, want []tokLit) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i].tok != want[i].tok || got[i].lit != want[i].lit {
			t.Errorf("token[%d] = %v %q, want %v %q", i, got[i].tok, got[i].lit, want[i].tok, want[i].lit)
		}
	}
}
