// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// latexEscapes maps the non-ASCII characters DBLP commonly returns to
// their BibTeX spellings.
var latexEscapes = map[rune]string{
	'é': `{\'e}`,
	'è': `{\` + "`" + `e}`,
	'á': `{\'a}`,
	'ó': `{\'o}`,
	'ú': `{\'u}`,
	'ý': `{\'y}`,
	'í': `\'{\i}`,
	'É': `{\'E}`,
	'ä': `{\"a}`,
	'ö': `{\"o}`,
	'ü': `{\"u}`,
	'Ä': `{\"A}`,
	'Ö': `{\"O}`,
	'Ü': `{\"U}`,
	'ç': `\c{c}`,
	'ñ': `{\~{n}}`,
	'å': `{\aa}`,
	'ø': `{\o}`,
	'ß': `{\ss}`,
	'≈': `{$\approx$}`,
}

// RepairResult is the outcome of character repair.
type RepairResult struct {
	// Text is the repaired text.
	Text string

	// Fallback is true when the text was not plain ASCII and went through
	// the substitution table.
	Fallback bool

	// Unmapped lists non-ASCII runes passed through unchanged, in order of
	// first appearance.
	Unmapped []rune
}

// Repair makes text safe for BibTeX. ASCII text is returned as is; anything
// else is NFC-normalized and substituted rune by rune using latexEscapes.
// Repair never fails: invalid bytes and unknown runes pass through.
func Repair(s string) RepairResult {
	if isASCII(s) {
		return RepairResult{Text: s}
	}

	res := RepairResult{Fallback: true}
	seen := make(map[rune]bool)
	var b strings.Builder
	b.Grow(len(s) + 16)
	for _, r := range norm.NFC.String(s) {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		if esc, ok := latexEscapes[r]; ok {
			b.WriteString(esc)
			continue
		}
		b.WriteRune(r)
		if !seen[r] {
			seen[r] = true
			res.Unmapped = append(res.Unmapped, r)
		}
	}
	res.Text = b.String()
	return res
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
