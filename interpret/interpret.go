package interpret

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/tsawler/takeoff/llm"
	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/rooms"
	"github.com/tsawler/takeoff/scale"
)

// Unknown is used for fields the model could not fill.
const Unknown = "UNKNOWN"

// MaxTextBlocks caps the text blocks listed in a request.
const MaxTextBlocks = 50

var errIncomplete = errors.New("interpretation is missing required room fields")

// RoomSummary describes one detected room to the model. Zero areas and
// perimeters are reported as unknown.
type RoomSummary struct {
	Index       int
	Label       string
	AreaSF      float64
	PerimeterLF float64
}

// Summary is the measured geometry sent to the model.
type Summary struct {
	ScaleNotation string
	ScaleFactor   float64
	TotalAreaSF   float64
	Rooms         []RoomSummary
	TextBlocks    []string
	WallCount     int
	Confidence    model.Confidence
}

// NewSummary collects a summary from pipeline results. s may be nil.
func NewSummary(a rooms.Analysis, s *scale.Result, blocks []model.TextBlock, wallCount int, confidence model.Confidence) Summary {
	sum := Summary{
		TotalAreaSF: a.TotalAreaSF,
		WallCount:   wallCount,
		Confidence:  confidence,
	}
	if s != nil {
		sum.ScaleNotation = s.Notation
		sum.ScaleFactor = s.Factor
	}
	for _, r := range a.Rooms {
		sum.Rooms = append(sum.Rooms, RoomSummary{
			Index:       r.Index,
			Label:       r.Label,
			AreaSF:      r.AreaSF,
			PerimeterLF: r.PerimeterLF,
		})
	}
	for _, tb := range blocks {
		sum.TextBlocks = append(sum.TextBlocks, tb.Text)
	}
	return sum
}

// RoomInterpretation is the model's reading of one room.
type RoomInterpretation struct {
	Index          int    `json:"room_index"`
	ConfirmedLabel string `json:"confirmed_label"`
	RoomType       string `json:"room_type_enum"`
	Notes          string `json:"notes"`
}

// Type maps the model's room type name onto a RoomType.
func (r RoomInterpretation) Type() rooms.RoomType {
	name := strings.ToUpper(strings.TrimSpace(r.RoomType))
	switch name {
	case "OFFICE":
		return rooms.PrivateOffice
	case "":
		return rooms.Other
	}
	t := rooms.RoomType(strings.ToLower(name))
	for _, known := range rooms.AllTypes() {
		if t == known {
			return t
		}
	}
	return rooms.Other
}

// Interpretation is the model's reading of a page.
type Interpretation struct {
	BuildingType      string               `json:"building_type"`
	StructuralSystem  string               `json:"structural_system"`
	Rooms             []RoomInterpretation `json:"rooms"`
	SpecialConditions []string             `json:"special_conditions"`
	MeasurementFlags  []string             `json:"measurement_flags"`
	ConfidenceNotes   string               `json:"confidence_notes"`
}

// Default is the interpretation used when the model gave nothing usable.
func Default() Interpretation {
	return Interpretation{
		BuildingType:     Unknown,
		StructuralSystem: Unknown,
		ConfidenceNotes:  "LLM interpretation unavailable",
	}
}

// IsDefault reports whether i is the fallback interpretation.
func (i Interpretation) IsDefault() bool {
	return i.BuildingType == Unknown && i.StructuralSystem == Unknown && len(i.Rooms) == 0
}

// wire mirrors Interpretation with pointers so missing fields are visible.
type wire struct {
	BuildingType     *string `json:"building_type"`
	StructuralSystem *string `json:"structural_system"`
	Rooms            []struct {
		Index          *int    `json:"room_index"`
		ConfirmedLabel *string `json:"confirmed_label"`
		RoomType       *string `json:"room_type_enum"`
		Notes          string  `json:"notes"`
	} `json:"rooms"`
	SpecialConditions []string `json:"special_conditions"`
	MeasurementFlags  []string `json:"measurement_flags"`
	ConfidenceNotes   string   `json:"confidence_notes"`
}

func (w wire) interpretation() (Interpretation, error) {
	out := Interpretation{
		BuildingType:      valueOr(w.BuildingType, Unknown),
		StructuralSystem:  valueOr(w.StructuralSystem, Unknown),
		SpecialConditions: w.SpecialConditions,
		MeasurementFlags:  w.MeasurementFlags,
		ConfidenceNotes:   w.ConfidenceNotes,
	}
	for _, r := range w.Rooms {
		if r.Index == nil || r.ConfirmedLabel == nil || r.RoomType == nil {
			return Interpretation{}, errIncomplete
		}
		out.Rooms = append(out.Rooms, RoomInterpretation{
			Index:          *r.Index,
			ConfirmedLabel: *r.ConfirmedLabel,
			RoomType:       *r.RoomType,
			Notes:          r.Notes,
		})
	}
	return out, nil
}

func valueOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger for model failures.
func WithLogger(l *log.Logger) Option {
	return func(i *Interpreter) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithMaxAttempts sets how many times a malformed reply is asked again.
func WithMaxAttempts(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.maxAttempts = n
		}
	}
}

// Interpreter sends measured geometry to the model.
type Interpreter struct {
	client      llm.Completer
	maxAttempts int
	logger      *log.Logger
}

// New creates an interpreter backed by client.
func New(client llm.Completer, opts ...Option) *Interpreter {
	i := &Interpreter{
		client:      client,
		maxAttempts: 2,
		logger:      log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interpret asks the model about the page. img may be nil.
func (i *Interpreter) Interpret(ctx context.Context, s Summary, img *llm.Image) Interpretation {
	if i.client == nil {
		return Default()
	}

	var w wire
	req := llm.Request{System: systemPrompt, Text: Serialize(s), Image: img}
	if err := llm.AskJSON(ctx, i.client, req, i.maxAttempts, &w); err != nil {
		i.logger.Printf("Failed to interpret geometry: %v", err)
		return Default()
	}

	out, err := w.interpretation()
	if err != nil {
		i.logger.Printf("Failed to build interpretation: %v", err)
		return Default()
	}
	return out
}

// Serialize renders a summary as the text part of the request.
func Serialize(s Summary) string {
	var b strings.Builder
	b.WriteString("## Extracted Geometry Data\n\n")

	fmt.Fprintf(&b, "Scale notation: %s\n", orUnknown(s.ScaleNotation, "not detected"))
	fmt.Fprintf(&b, "Scale factor: %s\n", number(s.ScaleFactor, "%g"))
	fmt.Fprintf(&b, "Total area (SF): %s\n", number(s.TotalAreaSF, "%.1f"))
	fmt.Fprintf(&b, "Wall count: %d\n", s.WallCount)
	fmt.Fprintf(&b, "Measurement confidence: %s\n", orUnknown(strings.ToUpper(string(s.Confidence)), Unknown))

	if len(s.Rooms) > 0 {
		fmt.Fprintf(&b, "\n### Detected Rooms (%d)\n\n", len(s.Rooms))
		for _, r := range s.Rooms {
			fmt.Fprintf(&b, "- Room %d: %s, %s, %s\n",
				r.Index,
				orUnknown(r.Label, "(unlabeled)"),
				number(r.AreaSF, "%.1f SF"),
				number(r.PerimeterLF, "%.1f LF"))
		}
	}

	if len(s.TextBlocks) > 0 {
		fmt.Fprintf(&b, "\n### Text Blocks (%d)\n\n", len(s.TextBlocks))
		for i, t := range s.TextBlocks {
			if i == MaxTextBlocks {
				fmt.Fprintf(&b, "... and %d more\n", len(s.TextBlocks)-MaxTextBlocks)
				break
			}
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}
	return b.String()
}

func orUnknown(s, unknown string) string {
	if s == "" {
		return unknown
	}
	return s
}

func number(v float64, format string) string {
	if v == 0 {
		return "unknown"
	}
	return fmt.Sprintf(format, v)
}
