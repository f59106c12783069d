package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tsawler/takeoff/measure"
	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/rooms"
)

var (
	accentFg  = lipgloss.Color("#7C3AED")
	dimFg     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	borderCol = lipgloss.Color("#243141")
	warnFg    = lipgloss.Color("#D97706")

	confidenceFg = map[model.Confidence]lipgloss.Color{
		model.ConfidenceHigh:   lipgloss.Color("#16A34A"),
		model.ConfidenceMedium: lipgloss.Color("#CA8A04"),
		model.ConfidenceLow:    lipgloss.Color("#DC2626"),
		model.ConfidenceNone:   lipgloss.Color("#6B7280"),
	}
)

// styles binds the palette to one output's color profile.
type styles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	dim    lipgloss.Style
	box    lipgloss.Style
	warn   lipgloss.Style
	header lipgloss.Style
	r      *lipgloss.Renderer
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:  r.NewStyle().Foreground(accentFg).Bold(true),
		label:  r.NewStyle().Foreground(dimFg).Width(14),
		dim:    r.NewStyle().Foreground(dimFg),
		box:    r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1),
		warn:   r.NewStyle().Foreground(warnFg),
		header: r.NewStyle().Bold(true),
		r:      r,
	}
}

func (s styles) confidence(c model.Confidence) string {
	fg, ok := confidenceFg[c]
	if !ok {
		fg = confidenceFg[model.ConfidenceNone]
	}
	return s.r.NewStyle().Foreground(fg).Bold(true).Render(strings.ToUpper(string(c)))
}

// SF formats square feet as "1,234.5 SF".
func SF(v float64) string {
	return humanize.FormatFloat("#,###.#", v) + " SF"
}

// LF formats linear feet as "96.0 LF".
func LF(v float64) string {
	return humanize.FormatFloat("#,###.#", v) + " LF"
}

// Text writes a terminal report of every page.
func Text(w io.Writer, pages []measure.PageMeasurements) error {
	s := newStyles(w)
	var b strings.Builder
	for i, m := range pages {
		if i > 0 {
			b.WriteString("\n")
		}
		writePage(&b, s, m)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Rooms writes the room table of one page.
func Rooms(w io.Writer, m measure.PageMeasurements) error {
	if len(m.Rooms) == 0 {
		_, err := fmt.Fprintf(w, "Page %d: no rooms\n", m.PageNumber)
		return err
	}
	var b strings.Builder
	writeRooms(&b, newStyles(w), m.Rooms)
	_, err := io.WriteString(w, b.String())
	return err
}

func writePage(b *strings.Builder, s styles, m measure.PageMeasurements) {
	var summary strings.Builder
	summary.WriteString(s.title.Render(fmt.Sprintf("Page %d", m.PageNumber)))
	summary.WriteString("\n")

	row := func(label, value string) {
		summary.WriteString(s.label.Render(label))
		summary.WriteString(value)
		summary.WriteString("\n")
	}

	if !m.HasData() && m.Scale == nil {
		row("Confidence", s.confidence(m.Confidence))
		b.WriteString(s.box.Render(strings.TrimRight(summary.String(), "\n")))
		b.WriteString("\n")
		writeWarnings(b, s, m.Warnings)
		return
	}

	row("Scale", scaleLine(s, m))
	row("Gross area", SF(m.GrossAreaSF))
	row("Perimeter", LF(m.PerimeterLF))

	walls := humanize.Comma(int64(m.WallCount))
	if m.TotalWallLengthLF > 0 {
		walls += s.dim.Render(fmt.Sprintf(" (%s total)", LF(m.TotalWallLengthLF)))
	}
	if m.WallThickness > 0 {
		walls += s.dim.Render(fmt.Sprintf(" %.1fpt thick", m.WallThickness))
	}
	row("Walls", walls)

	method := m.RoomMethod.String()
	if m.Centerlines {
		method += ", centerlines"
	}
	row("Rooms", fmt.Sprintf("%d %s", m.RoomCount, s.dim.Render("("+method+")")))
	row("Confidence", s.confidence(m.Confidence))

	if in := m.Interpretation; in != nil && !in.IsDefault() {
		row("Building", fmt.Sprintf("%s, %s", in.BuildingType, in.StructuralSystem))
	}

	b.WriteString(s.box.Render(strings.TrimRight(summary.String(), "\n")))
	b.WriteString("\n")

	if len(m.Rooms) > 0 {
		writeRooms(b, s, m.Rooms)
	}
	writeWarnings(b, s, m.Warnings)
}

func scaleLine(s styles, m measure.PageMeasurements) string {
	if m.Scale == nil {
		return s.dim.Render("none")
	}
	line := m.Scale.String()
	var notes []string
	if m.ScaleAssumed {
		notes = append(notes, "assumed")
	} else {
		notes = append(notes, string(m.Scale.Confidence))
	}
	if v := m.Verification; v != nil {
		notes = append(notes, string(v.Source))
	}
	return line + " " + s.dim.Render("["+strings.Join(notes, ", ")+"]")
}

func writeRooms(b *strings.Builder, s styles, rs []rooms.Room) {
	nameWidth := len("Room")
	for _, r := range rs {
		nameWidth = max(nameWidth, len(r.Name()))
	}

	format := fmt.Sprintf("  %%-3s %%-%ds %%-16s %%12s %%12s", nameWidth)
	b.WriteString(s.header.Render(fmt.Sprintf(format, "#", "Room", "Type", "Area", "Perimeter")))
	b.WriteString("\n")
	for _, r := range rs {
		area, perim := "-", "-"
		if r.Scaled {
			area, perim = SF(r.AreaSF), LF(r.PerimeterLF)
		}
		typ := string(r.Type)
		if typ == "" {
			typ = "-"
		} else if r.Type.IsWet() {
			typ += " (wet)"
		}
		fmt.Fprintf(b, format, fmt.Sprint(r.Index), r.Name(), typ, area, perim)
		b.WriteString("\n")
	}
}

func writeWarnings(b *strings.Builder, s styles, warnings []string) {
	for _, w := range warnings {
		b.WriteString(s.warn.Render("! " + w))
		b.WriteString("\n")
	}
}
