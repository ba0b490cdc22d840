// Package macro implements the Macro Table described in spec.md §4.3: a
// case-folded name-to-expanded-text mapping, mutated across entries, with
// redefinition warnings.
//
// The teacher has no macro table of its own (it has no `@string` support),
// so this is built fresh, in the teacher's idiom: a small struct wrapping a
// map, an ASCII-only fold helper instead of strings.ToLower (spec.md §9
// "Case-insensitive comparison" — ToLower is locale-sensitive for some
// runes, which the source explicitly calls out as a portability concern).
package macro

import (
	"github.com/gocite/bibtex/ast"
	"github.com/gocite/bibtex/postprocess"
	"github.com/gocite/bibtex/token"
	"github.com/gocite/bibtex/warn"
)

// Table is a mapping from case-folded macro name to already-expanded
// string text. One Table exists per parsing session; it is mutated by
// post-processing macro-def entries and by the explicit methods below, and
// is not safe for concurrent use (it shares the session's single-owner
// model, spec.md §5).
type Table struct {
	text map[string]string // folded name -> expansion text
	name map[string]string // folded name -> most recently seen original casing
}

// NewTable returns an empty macro table.
func NewTable() *Table {
	return &Table{
		text: make(map[string]string),
		name: make(map[string]string),
	}
}

// asciiFold lower-cases only ASCII letters, leaving every other byte (and
// all non-ASCII runes) untouched. Macro names are restricted to bibtex
// identifiers, which are themselves ASCII, so this is sufficient and avoids
// the locale-sensitive behavior of strings.ToLower.
func asciiFold(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Add installs name -> text in the table. If name is already defined
// (case-insensitively), the old text is overwritten and a warning is
// reported, per spec.md §4.3 "Redefinition: overwrite and emit a warning."
// warnings, if non-nil, accumulates the item so a caller without (or in
// addition to) a sink can inspect it afterward, per spec.md §7's "a warning
// count is exposed" requirement; sink may be nil.
func (t *Table) Add(name, text string, pos token.Position, warnings *warn.List, sink warn.Sink) {
	if warnings == nil {
		warnings = new(warn.List)
	}
	key := asciiFold(name)
	if _, exists := t.text[key]; exists {
		warnings.Add(pos, warn.Warning, "redefinition of macro "+name, sink)
	}
	t.text[key] = text
	t.name[key] = name
}

// AddFromValue post-processes v and installs the result under name.
//
// Per spec.md §4.3, add-from-ast requires that v has already been
// post-processed with EXPAND|PASTE (and not COLLAPSE, so that a macro like
// `" and "` keeps its surrounding spaces for later interpolation). If the
// caller cannot guarantee this, it passes opts == 0 and AddFromValue
// applies the required post-processing itself before storing.
func (t *Table) AddFromValue(name string, v *ast.Value, opts postprocess.Options, pos token.Position, warnings *warn.List, sink warn.Sink) error {
	if opts == 0 {
		processed, err := postprocess.Process(v, postprocess.EXPAND|postprocess.PASTE, t, pos, warnings, sink)
		if err != nil {
			return err
		}
		v = processed
	}
	t.Add(name, joinedText(v), pos, warnings, sink)
	return nil
}

// joinedText concatenates a post-processed value's simple-values into a
// single string. After EXPAND|PASTE there should be exactly one
// string-literal, but this defensively concatenates every literal present
// rather than assuming the caller's option set was correct.
func joinedText(v *ast.Value) string {
	s := ""
	for _, sv := range v.Values {
		switch t := sv.(type) {
		case *ast.StringLit:
			s += t.Value
		case *ast.NumberLit:
			s += t.Value
		case *ast.MacroRef:
			s += t.Name
		}
	}
	return s
}

// Lookup returns the expansion text for name and whether it is defined.
// Implements postprocess.MacroLookup.
func (t *Table) Lookup(name string) (string, bool) {
	text, ok := t.text[asciiFold(name)]
	return text, ok
}

// Length returns len(text) for name, or 0 if name is undefined. This is a
// usage-error sentinel per spec.md §7 ("Usage errors return a sentinel
// (`null` text, `0` length)"), not a warning.
func (t *Table) Length(name string) int {
	return len(t.text[asciiFold(name)])
}

// Delete removes name from the table. Deleting an undefined name is a
// silent no-op.
func (t *Table) Delete(name string) {
	key := asciiFold(name)
	delete(t.text, key)
	delete(t.name, key)
}

// DeleteAll empties the table.
func (t *Table) DeleteAll() {
	t.text = make(map[string]string)
	t.name = make(map[string]string)
}
