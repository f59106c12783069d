package model

// TextBlock is a text run with its center position, used for scale
// calibration and room labeling.
type TextBlock struct {
	Text     string
	Position Point
	BBox     BBox
}

// NewTextBlock centers a text block on its bounding box.
func NewTextBlock(text string, bbox BBox) TextBlock {
	return TextBlock{Text: text, Position: bbox.Center(), BBox: bbox}
}
