package ast

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type walkOverrideFunc = func(Node) (bool, WalkStatus, error)

func collectTypesWalker(root Node, overrideFunc walkOverrideFunc) (string, error) {
	sb := &strings.Builder{}
	sb.Grow(128)
	err := Walk(root, func(n Node, isEntering bool) (WalkStatus, error) {
		if ok, walkStatus, err := overrideFunc(n); ok {
			return walkStatus, err
		}
		if isEntering {
			_, _ = fmt.Fprintf(sb, "<%T>", n)
			switch v := n.(type) {
			case *StringLit:
				_, _ = fmt.Fprintf(sb, "%s", v.Value)
			case *NumberLit:
				_, _ = fmt.Fprintf(sb, "%s", v.Value)
			case *MacroRef:
				_, _ = fmt.Fprintf(sb, "%s", v.Name)
			}
		} else {
			_, _ = fmt.Fprintf(sb, "</%T>", n)
		}
		return WalkContinue, nil
	})
	return sb.String(), err
}

func TestWalk(t *testing.T) {
	noOverride := func(_ Node) (bool, WalkStatus, error) { return false, WalkContinue, nil }

	tests := []struct {
		name     string
		node     Node
		override walkOverrideFunc
		want     string
	}{
		{
			"visits a value's simple-values in order",
			&Value{Values: []SimpleValue{
				&StringLit{Value: "first"},
				&MacroRef{Name: "and"},
			}},
			noOverride,
			strings.Join([]string{
				"<*ast.Value>",
				"<*ast.StringLit>first</*ast.StringLit>",
				"<*ast.MacroRef>and</*ast.MacroRef>",
				"</*ast.Value>",
			}, ""),
		},
		{
			"visits an entry's fields",
			&Entry{
				Type:     "article",
				MetaType: Regular,
				Fields: []*Field{
					{Name: "year", Value: &Value{Values: []SimpleValue{&NumberLit{Value: "2005"}}}},
				},
			},
			noOverride,
			strings.Join([]string{
				"<*ast.Entry>",
				"<*ast.Field>",
				"<*ast.Value>",
				"<*ast.NumberLit>2005</*ast.NumberLit>",
				"</*ast.Value>",
				"</*ast.Field>",
				"</*ast.Entry>",
			}, ""),
		},
		{
			"WalkStop halts traversal early",
			&Value{Values: []SimpleValue{
				&StringLit{Value: "first"},
				&StringLit{Value: "second"},
			}},
			func(n Node) (bool, WalkStatus, error) {
				if s, ok := n.(*StringLit); ok && s.Value == "second" {
					return true, WalkStop, nil
				}
				return false, WalkContinue, nil
			},
			strings.Join([]string{
				"<*ast.Value>",
				"<*ast.StringLit>first</*ast.StringLit>",
			}, ""),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := collectTypesWalker(tt.node, tt.override)
			if err != nil {
				t.Errorf("Walk() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Walk() mismatch (-want +got)\n%s", diff)
			}
		})
	}
}

func TestWalkPreamble(t *testing.T) {
	e := &Entry{
		Type:        "preamble",
		MetaType:    Preamble,
		PreambleVal: &Value{Values: []SimpleValue{&StringLit{Value: "x"}}},
	}
	var visited int
	err := Walk(e, func(n Node, isEntering bool) (WalkStatus, error) {
		if isEntering {
			visited++
		}
		return WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	// Entry, Value, StringLit
	if visited != 3 {
		t.Fatalf("visited = %d, want 3", visited)
	}
}
