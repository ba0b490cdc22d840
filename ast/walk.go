package ast

// WalkStatus controls how Walk proceeds after a Walker call.
type WalkStatus int

const (
	WalkStop         WalkStatus = iota // stop walking immediately
	WalkContinue                      // continue walking
	WalkSkipChildren                  // don't descend into this node's children
)

// Walker is called on every node recursively as part of the traversal for
// Walk.
type Walker = func(n Node, isEntering bool) (WalkStatus, error)

// Walk walks the AST using depth-first search.
//
// walker is first called on a node with isEntering set to true. Then each
// child is visited recursively. Finally, walker is called again with
// isEntering set to false.
//
// The traversal stops whenever the walker returns WalkStop or an error.
func Walk(n Node, w Walker) error {
	_, err := walkHelper(n, w)
	return err
}

func walkHelper(n Node, walker Walker) (WalkStatus, error) {
	st1, err1 := walker(n, true)
	if st1 == WalkStop || err1 != nil {
		return st1, err1
	}

	if st1 != WalkSkipChildren {
		switch t := n.(type) {
		case *File:
			for _, entry := range t.Entries {
				if st, err := walkHelper(entry, walker); st == WalkStop || err != nil {
					return st, err
				}
			}
		case *Entry:
			for _, field := range t.Fields {
				if st, err := walkHelper(field, walker); st == WalkStop || err != nil {
					return st, err
				}
			}
			if t.PreambleVal != nil {
				if st, err := walkHelper(t.PreambleVal, walker); st == WalkStop || err != nil {
					return st, err
				}
			}
		case *Field:
			if t.Value != nil {
				if st, err := walkHelper(t.Value, walker); st == WalkStop || err != nil {
					return st, err
				}
			}
		case *Value:
			for _, sv := range t.Values {
				if st, err := walkHelper(sv, walker); st == WalkStop || err != nil {
					return st, err
				}
			}
		// StringLit, NumberLit, MacroRef are leaves: no children to visit.
		case *StringLit, *NumberLit, *MacroRef:
		}
	}

	if st, err := walker(n, false); st == WalkStop || err != nil {
		return st, err
	}
	return WalkContinue, nil
}
