package scale

import (
	"regexp"
	"strings"

	"github.com/tsawler/takeoff/model"
)

// TitleBlockFraction is the share of the page height, measured from the
// top, above which text is not considered part of the title block.
const TitleBlockFraction = 0.8

var candidatePattern = regexp.MustCompile(`(?i)(?:scale|1/\d+|1:\d+|\d+/\d+\s*["'=])`)

// ExtractTextBlocks returns the page's text runs centered on their
// bounding boxes. Blank runs are skipped.
func ExtractTextBlocks(page *model.Page) []model.TextBlock {
	if page == nil {
		return nil
	}
	blocks := make([]model.TextBlock, 0, len(page.Text))
	for _, run := range page.Text {
		if strings.TrimSpace(run.Text) == "" {
			continue
		}
		blocks = append(blocks, model.NewTextBlock(run.Text, run.BBox))
	}
	return blocks
}

// PageText joins block texts with newlines.
func PageText(blocks []model.TextBlock) string {
	parts := make([]string, len(blocks))
	for i, tb := range blocks {
		parts[i] = tb.Text
	}
	return strings.Join(parts, "\n")
}

// TitleBlockText returns the trimmed text of blocks centered in the bottom
// part of the page.
func TitleBlockText(blocks []model.TextBlock, pageHeight float64) []string {
	limit := pageHeight * TitleBlockFraction
	var out []string
	for _, tb := range blocks {
		text := strings.TrimSpace(tb.Text)
		if text != "" && tb.Position.Y >= limit {
			out = append(out, text)
		}
	}
	return out
}

// Candidates returns the trimmed text of blocks that look like they carry
// scale information: the word "scale", 1/N, 1:N or N/M followed by a
// quote, prime or equals sign.
func Candidates(blocks []model.TextBlock) []string {
	var out []string
	for _, tb := range blocks {
		text := strings.TrimSpace(tb.Text)
		if text != "" && candidatePattern.MatchString(Normalize(text)) {
			out = append(out, text)
		}
	}
	return out
}
