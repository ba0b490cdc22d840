package name

import "strings"

// PartFormat controls how one name part (first, von, last, or jr) is
// rendered, per spec.md §4.5.5.
type PartFormat struct {
	// Included reports whether this part appears in the output at all.
	Included bool
	// Abbreviated requests that each token render as its initial rather
	// than in full.
	Abbreviated bool
	// PrePart and PostPart bracket the whole part, emitted only if the
	// part is non-empty.
	PrePart, PostPart string
	// PreToken and PostToken bracket each individual token within the
	// part.
	PreToken, PostToken string
	// JoinTokens separates consecutive tokens within the part.
	JoinTokens string
}

// Format describes a complete name rendering template: one PartFormat per
// part, always applied in first/von/last/jr order. A Format cannot reorder
// parts, so a "Last, First" rendering is not expressible with it.
type Format struct {
	First, Von, Last, Jr PartFormat
}

// FormatName renders n according to f. Abbreviation never truncates inside
// an open, unprotected brace group (see abbreviateToken), so when every
// token's braces are balanced the output's braces are balanced too; a token
// with unbalanced braces is emitted with its bytes unchanged.
func FormatName(n Name, f Format) string {
	var sb strings.Builder
	parts := [4]struct {
		pf  PartFormat
		idx []int
	}{
		{f.First, n.First},
		{f.Von, n.Von},
		{f.Last, n.Last},
		{f.Jr, n.Jr},
	}
	for _, part := range parts {
		if !part.pf.Included || len(part.idx) == 0 {
			continue
		}
		sb.WriteString(part.pf.PrePart)
		for i, tokIdx := range part.idx {
			if i > 0 {
				sb.WriteString(part.pf.JoinTokens)
			}
			sb.WriteString(renderToken(n.Tokens.At(tokIdx), part.pf))
		}
		sb.WriteString(part.pf.PostPart)
	}
	return sb.String()
}

func renderToken(tok string, pf PartFormat) string {
	if !pf.Abbreviated {
		return pf.PreToken + tok + pf.PostToken
	}
	components := splitHyphenTopLevel(tok)
	rendered := make([]string, len(components))
	for i, comp := range components {
		prefix, closing := abbreviateToken(comp)
		rendered[i] = prefix + strings.Repeat("}", closing) + pf.PostToken
	}
	return pf.PreToken + strings.Join(rendered, "-")
}

// splitHyphenTopLevel splits tok on '-' at brace depth 0, so a protected
// group like "{Jean-Paul}" is not mistaken for a hyphenated compound.
func splitHyphenTopLevel(tok string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(tok); i++ {
		switch tok[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '-':
			if depth == 0 {
				parts = append(parts, tok[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, tok[start:])
	return parts
}

// abbreviateToken extracts the initial-letter abbreviation of tok, per
// spec.md §4.5.5's brace-balance-preservation design note: it returns the
// prefix bytes plus the number of closing braces the caller must append to
// restore balance.
//
// The cut point follows the same brace-level-0 rule as significantChar:
// the prefix ends either at the first letter outside any brace group or
// after a complete "{\foo x}" special-character group, so it never ends
// inside an open group. The closing count returned is therefore always 0.
func abbreviateToken(tok string) (prefix string, closing int) {
	n := len(tok)
	depth := 0
	for i := 0; i < n; i++ {
		switch {
		case tok[i] == '{' && depth == 0 && i+1 < n && tok[i+1] == '\\':
			// A "{\foo x}"-style special character is one logical letter;
			// abbreviating it keeps the whole balanced group.
			j := i + 1
			localDepth := 1
			for j < n {
				if tok[j] == '{' {
					localDepth++
				}
				if tok[j] == '}' {
					localDepth--
					if localDepth == 0 {
						j++
						return tok[:j], 0
					}
				}
				j++
			}
			return tok, 0
		case tok[i] == '{':
			depth++
		case tok[i] == '}':
			if depth > 0 {
				depth--
			}
		case depth == 0 && isAlpha(tok[i]):
			return tok[:i+1], depth
		}
	}
	return tok, 0
}
