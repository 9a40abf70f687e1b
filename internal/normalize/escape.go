// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import "strings"

// EscapeText escapes '%' and '&' for BibTeX in a single left-to-right pass.
// Sequences that are already escaped (\% and \&) are copied unchanged, so
// EscapeText(EscapeText(s)) == EscapeText(s).
func EscapeText(s string) string {
	if !strings.ContainsAny(s, "%&") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && (s[i+1] == '&' || s[i+1] == '%'):
			b.WriteByte(c)
			b.WriteByte(s[i+1])
			i++
		case c == '&' || c == '%':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// EscapePercent escapes '%' only; used for URLs, where '&' is legal.
func EscapePercent(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '%' {
			b.WriteString(`\%`)
			i++
			continue
		}
		if s[i] == '%' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// braceAmpersands wraps bare '&' as {\&}, leaving \& alone.
func braceAmpersands(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '&' {
			b.WriteString(`\&`)
			i++
			continue
		}
		if s[i] == '&' {
			b.WriteString(`{\&}`)
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// quotedText prepares a value for a "..." delimited field: the text is
// cleaned like any free text and inner double quotes are braced as {"}.
func quotedText(s string) string {
	v, _ := cleanText(s)
	return strings.ReplaceAll(v, `"`, `{"}`)
}

// cleanText is the pipeline applied to free-text field values: character
// repair, brace-protected ampersands, then percent escaping.
func cleanText(s string) (string, RepairResult) {
	rep := Repair(s)
	return EscapeText(braceAmpersands(rep.Text)), rep
}
