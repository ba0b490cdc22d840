package postprocess

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gocite/bibtex/ast"
	"github.com/gocite/bibtex/token"
	"github.com/gocite/bibtex/warn"
)

type fakeMacros map[string]string

func (f fakeMacros) Lookup(name string) (string, bool) {
	text, ok := f[name]
	return text, ok
}

func values(svs ...ast.SimpleValue) *ast.Value { return &ast.Value{Values: svs} }

func TestProcessExpandAndPaste(t *testing.T) {
	// "J" # and # "B" with and = " and " expands and pastes into "J and B".
	in := values(
		&ast.StringLit{Value: "J"},
		&ast.MacroRef{Name: "and"},
		&ast.StringLit{Value: "B"},
	)
	macros := fakeMacros{"and": " and "}

	got, err := Process(in, EXPAND|PASTE, macros, token.Position{}, nil, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	want := values(&ast.StringLit{Value: "J and B"})
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(ast.StringLit{}, "ValuePos")); diff != "" {
		t.Errorf("Process() mismatch (-want +got)\n%s", diff)
	}
}

func TestProcessUnresolvedMacroWarns(t *testing.T) {
	in := values(&ast.MacroRef{Name: "nope"})
	var got []string
	sink := func(sev warn.Severity, filename string, line int, msg string) {
		got = append(got, msg)
	}
	var warnings warn.List
	_, err := Process(in, EXPAND, fakeMacros{}, token.Position{Filename: "x.bib", Line: 3}, &warnings, sink)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one warning, got %v", got)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected the warning to also be accumulated into warnings, got %v", warnings)
	}
}

func TestProcessNoStoreMacrosSuppressesWarning(t *testing.T) {
	in := values(&ast.MacroRef{Name: "nope"})
	var got []string
	sink := func(sev warn.Severity, filename string, line int, msg string) {
		got = append(got, msg)
	}
	var warnings warn.List
	result, err := Process(in, EXPAND|NOSTORE_MACROS, fakeMacros{}, token.Position{}, &warnings, sink)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no warnings, got %v", got)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no accumulated warnings, got %v", warnings)
	}
	want := values(&ast.StringLit{Value: ""})
	if diff := cmp.Diff(want, result, cmpopts.IgnoreFields(ast.StringLit{}, "ValuePos")); diff != "" {
		t.Errorf("Process() mismatch (-want +got)\n%s", diff)
	}
}

func TestProcessCollapse(t *testing.T) {
	in := values(&ast.StringLit{Value: "  a   b  c  "})
	got, err := Process(in, COLLAPSE, nil, token.Position{}, nil, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	want := values(&ast.StringLit{Value: "a b c"})
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(ast.StringLit{}, "ValuePos")); diff != "" {
		t.Errorf("Process() mismatch (-want +got)\n%s", diff)
	}
}

func TestProcessIdempotentExpand(t *testing.T) {
	// Invariant 2 (spec.md §8): applying EXPAND twice equals applying it once.
	in := values(&ast.StringLit{Value: "year"}, &ast.MacroRef{Name: "year"})
	macros := fakeMacros{"year": "1995"}

	once, err := Process(in, EXPAND|PASTE, macros, token.Position{}, nil, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	twice, err := Process(once, EXPAND|PASTE, macros, token.Position{}, nil, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if diff := cmp.Diff(once, twice, cmpopts.IgnoreFields(ast.StringLit{}, "ValuePos")); diff != "" {
		t.Errorf("second EXPAND changed the value (-once +twice)\n%s", diff)
	}
}

func TestProcessDoesNotMutateInput(t *testing.T) {
	orig := &ast.StringLit{Value: "  spaced  "}
	in := values(orig)
	_, err := Process(in, COLLAPSE, nil, token.Position{}, nil, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if orig.Value != "  spaced  " {
		t.Fatalf("Process mutated its input: %q", orig.Value)
	}
}
