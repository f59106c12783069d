// Package scale reads the drawing scale of a floor plan page.
//
// Scale notation is parsed from page text in two steps. The text is first
// normalized (typographic quotes and primes become ASCII, full-width forms
// are folded, runs of blanks collapse), then a fixed list of patterns is
// tried in order: architectural fractions such as 1/4"=1'-0", whole inch
// notation such as 2"=10'-0" and metric ratios such as 1:100. The first
// pattern that produces a positive factor wins.
//
// When a page carries no scale notation, DetectFromDimensions calibrates
// against dimension annotations: a string such as 24'-6" sitting near a
// line gives the ratio between the annotated length and the line's length
// on paper.
package scale
