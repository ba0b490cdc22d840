package name

import (
	"reflect"
	"testing"

	"github.com/gocite/bibtex/token"
	"github.com/gocite/bibtex/warn"
)

func partStrings(n Name, idx []int) []string {
	out := make([]string, len(idx))
	for i, ix := range idx {
		out[i] = n.Tokens.At(ix)
	}
	return out
}

func TestSplitNameVonDerGraaf(t *testing.T) {
	// Scenario 4 from spec.md §8.
	fset := token.NewFileSet()
	n := SplitName("van der Graaf, Horace Q.", fset, "test", 1, 0, nil, nil)
	if got := partStrings(n, n.Von); !reflect.DeepEqual(got, []string{"van", "der"}) {
		t.Fatalf("Von = %v", got)
	}
	if got := partStrings(n, n.Last); !reflect.DeepEqual(got, []string{"Graaf"}) {
		t.Fatalf("Last = %v", got)
	}
	if got := partStrings(n, n.First); !reflect.DeepEqual(got, []string{"Horace", "Q."}) {
		t.Fatalf("First = %v", got)
	}
}

func TestSplitNameVonDerFooJrJoe(t *testing.T) {
	// Scenario 5 from spec.md §8.
	fset := token.NewFileSet()
	n := SplitName("von der foo, jr, Joe", fset, "test", 1, 0, nil, nil)
	if got := partStrings(n, n.Von); !reflect.DeepEqual(got, []string{"von", "der"}) {
		t.Fatalf("Von = %v", got)
	}
	if got := partStrings(n, n.Last); !reflect.DeepEqual(got, []string{"foo"}) {
		t.Fatalf("Last = %v", got)
	}
	if got := partStrings(n, n.Jr); !reflect.DeepEqual(got, []string{"jr"}) {
		t.Fatalf("Jr = %v", got)
	}
	if got := partStrings(n, n.First); !reflect.DeepEqual(got, []string{"Joe"}) {
		t.Fatalf("First = %v", got)
	}
}

func TestSplitNameNoCommaSingleToken(t *testing.T) {
	// A bare single-word name is entirely a last name.
	fset := token.NewFileSet()
	n := SplitName("Madonna", fset, "test", 1, 0, nil, nil)
	if got := partStrings(n, n.Last); !reflect.DeepEqual(got, []string{"Madonna"}) {
		t.Fatalf("Last = %v", got)
	}
	if len(n.First) != 0 || len(n.Von) != 0 || len(n.Jr) != 0 {
		t.Fatalf("expected only Last populated: %+v", n)
	}
}

func TestSplitNameNoCommaNoVon(t *testing.T) {
	// No lowercase run: first = all but last token, last = final token.
	fset := token.NewFileSet()
	n := SplitName("Jean Paul Sartre", fset, "test", 1, 0, nil, nil)
	if got := partStrings(n, n.First); !reflect.DeepEqual(got, []string{"Jean", "Paul"}) {
		t.Fatalf("First = %v", got)
	}
	if got := partStrings(n, n.Last); !reflect.DeepEqual(got, []string{"Sartre"}) {
		t.Fatalf("Last = %v", got)
	}
}

func TestSplitNameVonRunReachesFinalTokenWarns(t *testing.T) {
	fset := token.NewFileSet()
	var msgs []string
	var warnings warn.List
	n := SplitName("jean paul de la", fset, "test", 1, 2, &warnings, func(sev warn.Severity, filename string, line int, msg string) {
		msgs = append(msgs, msg)
	})
	if len(msgs) != 1 {
		t.Fatalf("expected one warning about the von run reaching the last token, got %v", msgs)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected the warning to also be accumulated into warnings, got %v", warnings)
	}
	// All four tokens classify lowercase; the run reaches the final token,
	// so the last token is forced into Last and Von shrinks by one.
	if got := partStrings(n, n.Last); !reflect.DeepEqual(got, []string{"la"}) {
		t.Fatalf("Last = %v", got)
	}
	if got := partStrings(n, n.Von); !reflect.DeepEqual(got, []string{"jean", "paul", "de"}) {
		t.Fatalf("Von = %v", got)
	}
}

func TestSplitNameSpecialCharacterToken(t *testing.T) {
	// Scenario 6 from spec.md §8: "{\foo x}y" classifies by its
	// significant character 'x', which is lowercase.
	fset := token.NewFileSet()
	n := SplitName(`{\foo x}y Smith`, fset, "test", 1, 0, nil, nil)
	if got := partStrings(n, n.Von); !reflect.DeepEqual(got, []string{`{\foo x}y`}) {
		t.Fatalf("Von = %v", got)
	}
	if got := partStrings(n, n.Last); !reflect.DeepEqual(got, []string{"Smith"}) {
		t.Fatalf("Last = %v", got)
	}
}

func TestSplitNameWhitespaceOnlyIsEmpty(t *testing.T) {
	// Scenario 7 from spec.md §8.
	fset := token.NewFileSet()
	n := SplitName("   ", fset, "test", 1, 0, nil, nil)
	if n.Tokens.Len() != 0 {
		t.Fatalf("expected no tokens, got %v", n.Tokens.All())
	}
	if len(n.First)+len(n.Von)+len(n.Last)+len(n.Jr) != 0 {
		t.Fatalf("expected all parts empty: %+v", n)
	}
}
