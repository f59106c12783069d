package scale

import (
	"regexp"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// quoteMarks maps typographic quote and prime variants to ASCII.
var quoteMarks = map[rune]rune{
	'“': '"', // left double quote
	'”': '"', // right double quote
	'″': '"', // double prime
	'„': '"', // double low-9 quote
	'«': '"',
	'»': '"',
	'‘': '\'', // left single quote
	'’': '\'', // right single quote
	'′': '\'', // prime
}

var blankRun = regexp.MustCompile(`[ \t]+`)

// Normalize canonicalizes scale text for matching. Quote and prime
// variants are mapped first, then full-width forms (as produced by some
// CAD fonts) are folded to ASCII, then runs of spaces and tabs collapse to
// one space. Line breaks are kept.
func Normalize(text string) string {
	t := transform.Chain(
		runes.Map(func(r rune) rune {
			if ascii, ok := quoteMarks[r]; ok {
				return ascii
			}
			return r
		}),
		width.Fold,
	)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	return blankRun.ReplaceAllString(out, " ")
}

// collapseLines joins multi-line text into one line.
func collapseLines(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
