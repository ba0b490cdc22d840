// Package postprocess implements the three orthogonal value
// transformations described in spec.md §4.4: macro expansion,
// concatenation ("paste"), and whitespace collapsing, selected by an
// option bitmask.
//
// The teacher repo has no equivalent pass of its own (it renders a parsed
// tag's text directly), so this package is built fresh in spec.md's
// design, reusing the teacher's warn-sink/position-carrying conventions
// seen throughout parser/parser.go.
package postprocess

import (
	"strings"

	"github.com/gocite/bibtex/ast"
	"github.com/gocite/bibtex/token"
	"github.com/gocite/bibtex/warn"
)

// Options is the post-processing option bitmask, matching spec.md §6's
// minimum set.
type Options uint

const (
	// EXPAND replaces macro-references with their macro-table text and
	// performs concatenation; the table column in spec.md §4.4 describes
	// this as also collapsing the value down to a single string-literal,
	// since after expansion there are no unresolved references left to
	// keep the sequence apart.
	EXPAND Options = 1 << iota
	// PASTE concatenates adjacent literal simple-values. Applied without
	// EXPAND to a value containing macro-references, it pastes around
	// them rather than through them — accepted but surprising, per
	// spec.md §6.
	PASTE
	// COLLAPSE collapses interior whitespace runs to a single space and
	// trims leading/trailing whitespace in every string-literal
	// simple-value.
	COLLAPSE

	// MACRO tags a Process call as operating on a macro-def entry's sole
	// field value. It has no effect on the transformation itself, and
	// nothing in this module reads it (macro.Table.AddFromValue passes
	// EXPAND|PASTE directly).
	MACRO
	// FIELD tags a Process call as operating on a regular entry's field
	// value. Like MACRO, informational only.
	FIELD
	// NOSTORE_MACROS suppresses the warning Process would otherwise emit
	// for an unresolved macro-reference. Spec.md §9 leaves this
	// ambiguous; the decision recorded here is that NOSTORE_MACROS mutes
	// only the *warning*, not the empty-string substitution — it exists
	// for callers previewing a value (e.g. validating a macro body before
	// it is registered) who expect forward references to be silently
	// tolerated.
	NOSTORE_MACROS
)

// Has reports whether every bit in flags is set in o.
func (o Options) Has(flags Options) bool { return o&flags == flags }

// MacroLookup is the minimal interface Process needs from a macro table.
// macro.Table implements it; declaring it here rather than importing the
// macro package avoids a postprocess<->macro import cycle, since
// macro.Table.AddFromValue needs to call Process.
type MacroLookup interface {
	Lookup(name string) (text string, ok bool)
}

// Process applies the transformations selected by opts to v, returning a
// new Value. v is never mutated in place: every simple-value in the result
// is a freshly allocated node, satisfying spec.md §4.4's independent-
// allocation invariant (trivial in Go, since strings are immutable, but
// kept explicit here rather than aliasing v's slice).
//
// pos is the position attributed to warnings about the value as a whole
// (e.g. an unresolved macro reference). warnings, if non-nil, accumulates
// every item reported during this call, so a caller can inspect the batch
// afterward instead of only observing it through sink, per spec.md §7's
// "a warning count is exposed" requirement; sink may be nil.
func Process(v *ast.Value, opts Options, macros MacroLookup, pos token.Position, warnings *warn.List, sink warn.Sink) (*ast.Value, error) {
	if warnings == nil {
		warnings = new(warn.List)
	}
	values := cloneValues(v.Values)

	if opts.Has(EXPAND) {
		values = expand(values, macros, opts, pos, warnings, sink)
	}
	if opts.Has(EXPAND) || opts.Has(PASTE) {
		values = paste(values)
	}
	if opts.Has(COLLAPSE) {
		values = collapse(values)
	}
	return &ast.Value{Values: values}, nil
}

func cloneValues(in []ast.SimpleValue) []ast.SimpleValue {
	out := make([]ast.SimpleValue, len(in))
	for i, sv := range in {
		out[i] = cloneSimpleValue(sv)
	}
	return out
}

func cloneSimpleValue(sv ast.SimpleValue) ast.SimpleValue {
	switch t := sv.(type) {
	case *ast.StringLit:
		cp := *t
		return &cp
	case *ast.NumberLit:
		cp := *t
		return &cp
	case *ast.MacroRef:
		cp := *t
		return &cp
	default:
		return sv
	}
}

// expand replaces every MacroRef with the macro table's text for its name.
// An unresolved reference is replaced by an empty string-literal and, unless
// NOSTORE_MACROS is set, a warning is emitted, per spec.md §3 invariant (c).
func expand(in []ast.SimpleValue, macros MacroLookup, opts Options, pos token.Position, warnings *warn.List, sink warn.Sink) []ast.SimpleValue {
	out := make([]ast.SimpleValue, len(in))
	for i, sv := range in {
		ref, ok := sv.(*ast.MacroRef)
		if !ok {
			out[i] = sv
			continue
		}
		text, found := "", false
		if macros != nil {
			text, found = macros.Lookup(ref.Name)
		}
		if !found && !opts.Has(NOSTORE_MACROS) {
			warnings.Add(pos, warn.Warning, "undefined macro reference: "+ref.Name, sink)
		}
		out[i] = &ast.StringLit{ValuePos: ref.ValuePos, Value: text}
	}
	return out
}

// paste concatenates runs of adjacent literal simple-values (StringLit and
// NumberLit) into a single StringLit. A MacroRef, if still present (EXPAND
// was not set), breaks the run.
func paste(in []ast.SimpleValue) []ast.SimpleValue {
	var out []ast.SimpleValue
	var buf strings.Builder
	var runPos token.Pos
	haveRun := false

	flush := func() {
		if haveRun {
			out = append(out, &ast.StringLit{ValuePos: runPos, Value: buf.String()})
			buf.Reset()
			haveRun = false
		}
	}

	for _, sv := range in {
		switch t := sv.(type) {
		case *ast.StringLit:
			if !haveRun {
				runPos = t.ValuePos
				haveRun = true
			}
			buf.WriteString(t.Value)
		case *ast.NumberLit:
			if !haveRun {
				runPos = t.ValuePos
				haveRun = true
			}
			buf.WriteString(t.Value)
		default:
			flush()
			out = append(out, sv)
		}
	}
	flush()
	return out
}

// collapse collapses interior whitespace runs to a single space and trims
// leading/trailing whitespace in every string-literal simple-value.
func collapse(in []ast.SimpleValue) []ast.SimpleValue {
	out := make([]ast.SimpleValue, len(in))
	for i, sv := range in {
		s, ok := sv.(*ast.StringLit)
		if !ok {
			out[i] = sv
			continue
		}
		cp := *s
		cp.Value = collapseWhitespace(s.Value)
		out[i] = &cp
	}
	return out
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
