// Package ast declares the types used to represent a parsed bibtex source
// file: entries, fields, values, and the simple-values that compose a
// value. The shapes here follow spec.md §3 exactly — a unified Entry node
// distinguished by EntryMetaType rather than the teacher's four separate
// Decl variants (BibDecl/AbbrevDecl/PreambleDecl/BadDecl) — but the overall
// style (an interface-typed Node with Pos/End, a discriminated SimpleValue
// interface analogous to the teacher's ast.Expr) is grounded on the
// teacher's ast package.
package ast

import "github.com/gocite/bibtex/token"

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Pos // position of first character belonging to the node
	End() token.Pos // position of first character immediately after the node
}

// EntryMetaType classifies an Entry by its case-folded entry-type, per
// spec.md §3 invariant (a). It is computed once at build time and never
// re-derived downstream.
type EntryMetaType int

const (
	Regular  EntryMetaType = iota // any entry-type other than the three below
	Comment                       // @comment
	Preamble                      // @preamble
	MacroDef                      // @string
)

func (m EntryMetaType) String() string {
	switch m {
	case Comment:
		return "comment"
	case Preamble:
		return "preamble"
	case MacroDef:
		return "macro-def"
	default:
		return "regular"
	}
}

// File is the root node produced by parsing one source: an ordered list of
// top-level entries.
type File struct {
	FileStart token.Pos
	FileEnd   token.Pos
	Entries   []*Entry
}

func (f *File) Pos() token.Pos { return f.FileStart }
func (f *File) End() token.Pos { return f.FileEnd }

// Entry is the single AST node for every `@type{...}` declaration, covering
// spec.md's four entry-metatypes. Only the fields relevant to a given
// MetaType are populated: Comment entries use CommentText, Preamble entries
// use PreambleVal, and MacroDef/Regular entries use Fields.
type Entry struct {
	AtPos    token.Pos // position of '@'
	Type     string    // entry-type, case-preserved as written
	MetaType EntryMetaType

	HasKey bool // true for regular entries only; macro-def entries have no key
	KeyPos token.Pos
	Key    string

	Fields []*Field // regular (after the key) and macro-def (exactly one)

	CommentText string // raw contents, MetaType == Comment
	PreambleVal *Value // MetaType == Preamble

	Rbrace token.Pos // position of the closing '}' or ')'

	// Err is set by the parser when this entry was recovered from a
	// syntax error and is only partially populated. Partial entries are
	// never treated as valid by callers (spec.md §4.2).
	Err bool
}

func (e *Entry) Pos() token.Pos { return e.AtPos }
func (e *Entry) End() token.Pos { return e.Rbrace + 1 }

// Field is one `name = value` pair inside an entry body.
type Field struct {
	NamePos token.Pos
	Name    string // case-folded field name
	Value   *Value
}

func (f *Field) Pos() token.Pos { return f.NamePos }
func (f *Field) End() token.Pos {
	if f.Value == nil {
		return f.NamePos
	}
	return f.Value.End()
}

// Value is a nonempty ordered sequence of simple-values joined by the
// concatenation operator '#'.
type Value struct {
	Values []SimpleValue
}

func (v *Value) Pos() token.Pos {
	if len(v.Values) == 0 {
		return token.NoPos
	}
	return v.Values[0].Pos()
}

func (v *Value) End() token.Pos {
	if len(v.Values) == 0 {
		return token.NoPos
	}
	return v.Values[len(v.Values)-1].End()
}

// SimpleValue is the discriminated interface for a value's atomic parts:
// StringLit, NumberLit, or MacroRef. It mirrors the teacher's ast.Expr
// discriminated-interface style rather than a single tagged struct.
type SimpleValue interface {
	Node
	simpleValueNode()
}

// StringLit is a quoted-string or braced-string literal.
type StringLit struct {
	ValuePos token.Pos
	Value    string
	Braced   bool // true if written as {...} rather than "..."
}

func (s *StringLit) Pos() token.Pos { return s.ValuePos }
func (s *StringLit) End() token.Pos { return token.Pos(int(s.ValuePos) + len(s.Value) + 2) } // +2 for the delimiters
func (*StringLit) simpleValueNode()  {}

// NumberLit is a bare numeric literal, kept as its original digit string.
type NumberLit struct {
	ValuePos token.Pos
	Value    string
}

func (n *NumberLit) Pos() token.Pos { return n.ValuePos }
func (n *NumberLit) End() token.Pos { return token.Pos(int(n.ValuePos) + len(n.Value)) }
func (*NumberLit) simpleValueNode()  {}

// MacroRef is a bare identifier appearing in value position: a reference to
// a name in the macro table, resolved at post-process time.
type MacroRef struct {
	ValuePos token.Pos
	Name     string
}

func (m *MacroRef) Pos() token.Pos { return m.ValuePos }
func (m *MacroRef) End() token.Pos { return token.Pos(int(m.ValuePos) + len(m.Name)) }
func (*MacroRef) simpleValueNode()  {}
