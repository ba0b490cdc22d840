// Package bibtex ties the lexer, parser, macro table, and post-processor
// into a single parse session, matching spec.md §6's "Parser API".
//
// Grounded on the teacher's root bibtex.go: the same functional-options
// Option/New(opts ...Option) shape, the same style of EntryType/Field
// string-constant catalog, generalized from a render-and-resolve Biber to
// a parse-and-postprocess Session (rendering to a bibliography and
// citekey cross-reference resolution are explicitly out of scope per
// spec.md §1).
package bibtex

import (
	"github.com/gocite/bibtex/ast"
	"github.com/gocite/bibtex/macro"
	"github.com/gocite/bibtex/name"
	"github.com/gocite/bibtex/parser"
	"github.com/gocite/bibtex/postprocess"
	"github.com/gocite/bibtex/token"
	"github.com/gocite/bibtex/warn"
)

// CiteKey is the citation key for a Bibtex entry, like the "foo" in
// "@article{foo, ...}".
type CiteKey = string

// EntryType is the type of a Bibtex entry. String alias to allow unknown
// entry types; spec.md does not constrain the @type vocabulary.
type EntryType = string

//goland:noinspection GoUnusedConst
const (
	EntryArticle       EntryType = "article"
	EntryBook          EntryType = "book"
	EntryBooklet       EntryType = "booklet"
	EntryInBook        EntryType = "inbook"
	EntryInCollection  EntryType = "incollection"
	EntryInProceedings EntryType = "inproceedings"
	EntryManual        EntryType = "manual"
	EntryMastersThesis EntryType = "mastersthesis"
	EntryMisc          EntryType = "misc"
	EntryPhDThesis     EntryType = "phdthesis"
	EntryProceedings   EntryType = "proceedings"
	EntryTechReport    EntryType = "techreport"
	EntryUnpublished   EntryType = "unpublished"
)

// Field is the name of a Bibtex field.
type Field = string

//goland:noinspection GoUnusedConst
const (
	FieldAddress      Field = "address"
	FieldAnnote       Field = "annote"
	FieldAuthor       Field = "author"
	FieldBookTitle    Field = "booktitle"
	FieldChapter      Field = "chapter"
	FieldCrossref     Field = "crossref"
	FieldEdition      Field = "edition"
	FieldEditor       Field = "editor"
	FieldHowPublished Field = "howpublished"
	FieldInstitution  Field = "institution"
	FieldJournal      Field = "journal"
	FieldKey          Field = "key"
	FieldMonth        Field = "month"
	FieldNote         Field = "note"
	FieldNumber       Field = "number"
	FieldOrganization Field = "organization"
	FieldPages        Field = "pages"
	FieldPublisher    Field = "publisher"
	FieldSchool       Field = "school"
	FieldSeries       Field = "series"
	FieldTitle        Field = "title"
	FieldType         Field = "type"
	FieldVolume       Field = "volume"
	FieldYear         Field = "year"
)

// Options re-exports package postprocess's bitmask so callers need only
// import package bibtex. See postprocess.Options for the full doc.
type Options = postprocess.Options

//goland:noinspection GoUnusedConst
const (
	EXPAND         = postprocess.EXPAND
	PASTE          = postprocess.PASTE
	COLLAPSE       = postprocess.COLLAPSE
	MACRO          = postprocess.MACRO
	FIELD          = postprocess.FIELD
	NOSTORE_MACROS = postprocess.NOSTORE_MACROS
)

// Session owns a macro table, a default post-process option set, a
// default name format, a warning sink, and the accumulated warning list
// every call into the session appends to. Per spec.md §5, a Session is a
// single-owner value: it is not safe for concurrent use without external
// synchronization, mirroring the teacher's Biber struct.
type Session struct {
	macros     *macro.Table
	sink       warn.Sink
	defOpts    Options
	nameFormat name.Format
	warnings   warn.List
}

// Option is a functional option configuring a Session, in the same shape
// as the teacher's bibtex.Option.
type Option func(*Session)

// WithWarningSink sets the sink every warning/error this Session produces
// is reported through.
func WithWarningSink(sink warn.Sink) Option {
	return func(s *Session) { s.sink = sink }
}

// WithOptions sets the default post-process option bitset that ParseEntry
// and ParseAll apply to regular-entry field values and preamble values
// when they are called with opts == 0.
func WithOptions(opts Options) Option {
	return func(s *Session) { s.defOpts = opts }
}

// WithNameFormat sets the default name.Format used by Session helpers that
// need to render a name and are not given an explicit format.
func WithNameFormat(f name.Format) Option {
	return func(s *Session) { s.nameFormat = f }
}

// New constructs a Session. The default post-process option set is
// EXPAND|PASTE|COLLAPSE, matching the common case described in spec.md
// §4.4's Testable scenario 1.
func New(opts ...Option) *Session {
	s := &Session{
		macros:  macro.NewTable(),
		defOpts: postprocess.EXPAND | postprocess.PASTE | postprocess.COLLAPSE,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseEntry parses exactly one entry from the front of src.
func (s *Session) ParseEntry(fset *token.FileSet, filename string, src []byte, opts Options) (*ast.Entry, error) {
	file := fset.AddFile(filename, -1, len(src))
	e, _, err := parser.ParseEntry(file, src, s.sink)
	if err != nil {
		return e, err
	}
	s.applyOptsToEntry(file, e, opts)
	return e, nil
}

// ParseAll parses every entry in src.
func (s *Session) ParseAll(fset *token.FileSet, filename string, src []byte, opts Options) ([]*ast.Entry, error) {
	file := fset.AddFile(filename, -1, len(src))
	f, err := parser.ParseFile(file, src, s.sink)
	if err != nil {
		return f.Entries, err
	}
	for _, e := range f.Entries {
		s.applyOptsToEntry(file, e, opts)
	}
	return f.Entries, nil
}

// applyOptsToEntry records @string{...} definitions into the macro table
// (so later entries can reference them) and post-processes, in place, every
// field value of a regular entry and the value of a preamble, using opts,
// or the Session's default option set when opts is 0. Macro-def field
// values are left as parsed. file
// locates every diagnostic raised during this call against the real
// source positions of the field and preamble values, rather than a blank
// position.
func (s *Session) applyOptsToEntry(file *token.File, e *ast.Entry, opts Options) {
	if e == nil {
		return
	}
	switch e.MetaType {
	case ast.MacroDef:
		if len(e.Fields) == 1 {
			f := e.Fields[0]
			_ = s.macros.AddFromValue(f.Name, f.Value, 0, file.Position(f.Value.Pos()), &s.warnings, s.sink)
		}
	case ast.Regular:
		if opts == 0 {
			opts = s.defOpts
		}
		for _, f := range e.Fields {
			if v, err := postprocess.Process(f.Value, opts, s.macros, file.Position(f.Value.Pos()), &s.warnings, s.sink); err == nil {
				f.Value = v
			}
		}
	case ast.Preamble:
		if e.PreambleVal != nil {
			if opts == 0 {
				opts = s.defOpts
			}
			if v, err := postprocess.Process(e.PreambleVal, opts, s.macros, file.Position(e.PreambleVal.Pos()), &s.warnings, s.sink); err == nil {
				e.PreambleVal = v
			}
		}
	}
}

// PostProcessValue applies opts to v using this Session's macro table. If
// replaceUndefined is false, an unresolved macro reference aborts with an
// error instead of substituting the empty string; this is a Session-level
// convenience spec.md §4.4 leaves to the caller (the package-level
// postprocess.Process always substitutes empty string and only warns,
// matching the C library's historically lenient default).
func (s *Session) PostProcessValue(v *ast.Value, opts Options, replaceUndefined bool) (*ast.Value, error) {
	if !replaceUndefined {
		for _, sv := range v.Values {
			if ref, ok := sv.(*ast.MacroRef); ok {
				if _, found := s.macros.Lookup(ref.Name); !found {
					return nil, &UndefinedMacroError{Name: ref.Name}
				}
			}
		}
	}
	return postprocess.Process(v, opts, s.macros, token.Position{}, &s.warnings, s.sink)
}

// Warnings returns every semantic warning accumulated by this Session so
// far, across ParseEntry, ParseAll, PostProcessValue, and AddMacroText
// calls, per spec.md §7's "a warning count is exposed so embedders can
// decide whether to treat the batch as failed" requirement. The returned
// list aliases the Session's internal state and should be treated as
// read-only.
func (s *Session) Warnings() warn.List { return s.warnings }

// UndefinedMacroError is returned by PostProcessValue when replaceUndefined
// is false and v references a macro this Session has no definition for.
type UndefinedMacroError struct {
	Name string
}

func (e *UndefinedMacroError) Error() string {
	return "bibtex: undefined macro " + e.Name
}

// AddMacroText defines or redefines a macro directly, without going
// through a parsed @string{...} entry.
func (s *Session) AddMacroText(name, text, filename string, line int) {
	s.macros.Add(name, text, token.Position{Filename: filename, Line: line}, &s.warnings, s.sink)
}

// FormatName renders n using f, or this Session's default name.Format
// (set via WithNameFormat) when f is nil.
func (s *Session) FormatName(n name.Name, f *name.Format) string {
	if f == nil {
		f = &s.nameFormat
	}
	return name.FormatName(n, *f)
}

// DeleteMacro removes one macro definition.
func (s *Session) DeleteMacro(name string) { s.macros.Delete(name) }

// DeleteAllMacros clears every macro definition.
func (s *Session) DeleteAllMacros() { s.macros.DeleteAll() }

// MacroText looks up a macro's expansion text. filename and line are
// unused by the current implementation (macro.Table keeps no positional
// history per name) but are part of the signature for callers that want
// to attribute a lookup failure to a source location in their own
// diagnostics.
func (s *Session) MacroText(name, filename string, line int) (string, bool) {
	return s.macros.Lookup(name)
}

// MacroLength returns the byte length of a macro's expansion text, or 0 if
// it is undefined (spec.md §7's usage-error convention: an invalid-usage
// query returns the type's zero value rather than panicking).
func (s *Session) MacroLength(name string) int {
	return s.macros.Length(name)
}

var defaultSession *Session

// Default returns the implicit package-level Session, creating it on
// first use. Grounded on the stdlib's http.DefaultClient/http.Get
// pattern, per SPEC_FULL.md §6's legacy facade.
func Default() *Session {
	if defaultSession == nil {
		defaultSession = New()
	}
	return defaultSession
}

// ParseEntry is the package-level facade for Default().ParseEntry.
func ParseEntry(fset *token.FileSet, filename string, src []byte, opts Options) (*ast.Entry, error) {
	return Default().ParseEntry(fset, filename, src, opts)
}

// ParseAll is the package-level facade for Default().ParseAll.
func ParseAll(fset *token.FileSet, filename string, src []byte, opts Options) ([]*ast.Entry, error) {
	return Default().ParseAll(fset, filename, src, opts)
}

// AddMacroText is the package-level facade for Default().AddMacroText.
func AddMacroText(name, text, filename string, line int) {
	Default().AddMacroText(name, text, filename, line)
}

// DeleteMacro is the package-level facade for Default().DeleteMacro.
func DeleteMacro(name string) { Default().DeleteMacro(name) }

// DeleteAllMacros is the package-level facade for Default().DeleteAllMacros.
func DeleteAllMacros() { Default().DeleteAllMacros() }

// MacroText is the package-level facade for Default().MacroText.
func MacroText(name, filename string, line int) (string, bool) {
	return Default().MacroText(name, filename, line)
}

// MacroLength is the package-level facade for Default().MacroLength.
func MacroLength(name string) int { return Default().MacroLength(name) }
