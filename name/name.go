package name

import (
	"fmt"

	"github.com/gocite/bibtex/token"
	"github.com/gocite/bibtex/warn"
)

// Name holds one tokenized personal name, split into its four parts per
// spec.md §4.5.4: first, von, last, and jr. Each part is a list of indices
// into Tokens, in name order.
type Name struct {
	Tokens StringList
	First  []int
	Von    []int
	Last   []int
	Jr     []int
}

func isAlpha(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

// tokenizeName splits s into name-tokens on whitespace and commas at brace
// depth 0, per spec.md §4.5.2: "a token boundary is any run of whitespace,
// or a comma, encountered at brace depth 0." commaIdx records, for each
// comma seen, how many tokens had been emitted so far — i.e. a cut point
// into the token slice.
func tokenizeName(s string) (tokens []string, commaIdx []int) {
	var cur []byte
	depth := 0
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = cur[:0]
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '{':
			depth++
			cur = append(cur, c)
		case c == '}':
			if depth > 0 {
				depth--
			}
			cur = append(cur, c)
		case depth == 0 && isSpace(c):
			flush()
		case depth == 0 && c == ',':
			flush()
			commaIdx = append(commaIdx, len(tokens))
		default:
			cur = append(cur, c)
		}
	}
	flush()
	return tokens, commaIdx
}

// significantChar returns the first case-significant character of tok per
// spec.md §4.5.3: a leading '{' opens a brace level whose contents are
// normally invisible to classification, unless it immediately introduces a
// backslash control sequence — "{\foo x}" — in which case the significant
// character is the first letter following the control sequence's name. If
// no alphabetic character is found at the effective level-0 position, ok
// is false (the caller classifies such tokens as uppercase).
func significantChar(tok string) (c byte, ok bool) {
	n := len(tok)
	depth := 0
	for i := 0; i < n; i++ {
		switch {
		case tok[i] == '{' && depth == 0 && i+1 < n && tok[i+1] == '\\':
			j := i + 2
			for j < n && isAlpha(tok[j]) {
				j++
			}
			localDepth := 1
			for j < n {
				cj := tok[j]
				switch {
				case cj == '{':
					localDepth++
				case cj == '}':
					localDepth--
					if localDepth == 0 {
						return 0, false
					}
				case isAlpha(cj):
					return cj, true
				}
				j++
			}
			return 0, false
		case tok[i] == '{':
			depth++
		case tok[i] == '}':
			if depth > 0 {
				depth--
			}
		case depth == 0 && isAlpha(tok[i]):
			return tok[i], true
		}
	}
	return 0, false
}

// isLowerToken classifies tok as a "von" token: lowercase-initial per the
// rules of significantChar. A token with no alphabetic character at all
// (numbers, bare braces) is classified uppercase, i.e. not a von token.
func isLowerToken(tok string) bool {
	c, ok := significantChar(tok)
	if !ok {
		return false
	}
	return c >= 'a' && c <= 'z'
}

// findLowercaseRun returns the first maximal contiguous run of
// lowercase-classified tokens in toks, if any.
func findLowercaseRun(toks []string) (i, j int, found bool) {
	for k, tok := range toks {
		if isLowerToken(tok) {
			i = k
			j = k + 1
			for j < len(toks) && isLowerToken(toks[j]) {
				j++
			}
			return i, j, true
		}
	}
	return 0, 0, false
}

// leadingLowercaseRun returns the length of the run of lowercase-classified
// tokens starting at index 0 of toks (0 if toks is empty or toks[0] is not
// lowercase-classified).
func leadingLowercaseRun(toks []string) int {
	r := 0
	for r < len(toks) && isLowerToken(toks[r]) {
		r++
	}
	return r
}

// SplitName tokenizes and assigns parts to a single personal name, per
// spec.md §4.5.4. nameNum identifies this name's position within its list,
// for warning messages; filename/line locate the warning (fset is not
// consulted). warnings, if
// non-nil, accumulates every warning reported during this call, so a caller
// can inspect the batch afterward instead of only observing it through
// sink, per spec.md §7's "a warning count is exposed" requirement; sink may
// be nil.
func SplitName(s string, fset *token.FileSet, filename string, line int, nameNum int, warnings *warn.List, sink warn.Sink) Name {
	if warnings == nil {
		warnings = new(warn.List)
	}
	toks, commas := tokenizeName(s)
	pos := token.Position{Filename: filename, Line: line}
	warnf := func(format string, args ...interface{}) {
		warnings.Add(pos, warn.Warning, fmt.Sprintf("name %d: ", nameNum)+fmt.Sprintf(format, args...), sink)
	}

	n := len(toks)
	var first, von, last, jr []int

	switch {
	case len(commas) == 0:
		i, j, found := findLowercaseRun(toks)
		switch {
		case !found:
			if n == 0 {
				break
			}
			if n == 1 {
				last = []int{0}
				break
			}
			first = idxRange(0, n-1)
			last = idxRange(n-1, n)
		case j == n:
			warnf("von particle run extends through the final token; moving the last token to the last-name part")
			von = idxRange(i, j-1)
			last = idxRange(j-1, j)
			first = idxRange(0, i)
		default:
			first = idxRange(0, i)
			von = idxRange(i, j)
			last = idxRange(j, n)
		}

	case len(commas) >= 1:
		if len(commas) > 2 {
			warnf("more than two commas in a single name; treating as the two-comma form and ignoring the rest")
		}
		c1 := commas[0]
		preGroup := idxRange(0, c1)
		r := leadingLowercaseRun(toks[:c1])
		if r == len(preGroup) && r > 0 {
			warnf("von particle run consumes the entire pre-comma group; moving the last token to the last-name part")
			von = idxRange(0, r-1)
			last = idxRange(r-1, r)
		} else {
			von = idxRange(0, r)
			last = idxRange(r, c1)
		}

		if len(commas) == 1 {
			first = idxRange(c1, n)
		} else {
			c2 := commas[1]
			jr = idxRange(c1, c2)
			first = idxRange(c2, n)
		}
	}

	return Name{Tokens: newStringList(toks), First: first, Von: von, Last: last, Jr: jr}
}

func idxRange(a, b int) []int {
	if a >= b {
		return nil
	}
	out := make([]int, b-a)
	for i := range out {
		out[i] = a + i
	}
	return out
}
