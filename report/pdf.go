package report

import (
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/tsawler/takeoff/measure"
	"github.com/tsawler/takeoff/model"
)

// roomFill cycles through light fills for room polygons.
var roomFill = [][3]int{
	{124, 58, 237},
	{22, 163, 74},
	{37, 99, 235},
	{217, 119, 6},
	{219, 39, 119},
	{8, 145, 178},
}

// PDF writes a review overlay of one page at drawing size: source
// linework in gray, detected walls in red, rooms tinted with their name
// and area, and a summary line in the top left corner.
func PDF(w io.Writer, m measure.PageMeasurements) error {
	width, height := pageSize(m)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(fmt.Sprintf("Takeoff page %d", m.PageNumber), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// source linework
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.5)
	for _, p := range m.Raw.Paths {
		drawPath(pdf, p)
	}

	// rooms
	for i, r := range m.Rooms {
		if len(r.Polygon) < 3 {
			continue
		}
		c := roomFill[i%len(roomFill)]
		pdf.SetFillColor(c[0], c[1], c[2])
		pdf.SetAlpha(0.2, "Normal")
		pdf.Polygon(points(r.Polygon), "F")
		pdf.SetAlpha(1, "Normal")
	}

	// walls
	pdf.SetDrawColor(220, 38, 38)
	pdf.SetLineWidth(math.Max(1.5, m.WallThickness/2))
	for _, s := range m.Walls {
		pdf.Line(s.Start.X, s.Start.Y, s.End.X, s.End.Y)
	}

	// labels
	pdf.SetTextColor(17, 24, 39)
	for _, r := range m.Rooms {
		name := tr(r.Name())
		pdf.SetFont("Helvetica", "B", 8)
		pdf.Text(r.Centroid.X-pdf.GetStringWidth(name)/2, r.Centroid.Y, name)
		if r.Scaled {
			area := SF(r.AreaSF)
			pdf.SetFont("Helvetica", "", 7)
			pdf.Text(r.Centroid.X-pdf.GetStringWidth(area)/2, r.Centroid.Y+9, area)
		}
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(12, 12)
	pdf.CellFormat(0, 11, tr(summaryLine(m)), "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF overlay: %w", err)
	}
	return nil
}

func summaryLine(m measure.PageMeasurements) string {
	scale := "no scale"
	if m.Scale != nil {
		scale = m.Scale.String()
		if m.ScaleAssumed {
			scale += " (assumed)"
		}
	}
	return fmt.Sprintf("Page %d  |  %s  |  %s  |  %s  |  %d rooms  |  confidence %s",
		m.PageNumber, scale, SF(m.GrossAreaSF), LF(m.PerimeterLF), m.RoomCount, m.Confidence)
}

// pageSize returns the drawing size, falling back to the extent of the
// linework and then to US Letter landscape.
func pageSize(m measure.PageMeasurements) (float64, float64) {
	if m.Raw.PageWidth > 0 && m.Raw.PageHeight > 0 {
		return m.Raw.PageWidth, m.Raw.PageHeight
	}
	var all []model.Point
	for _, p := range m.Raw.Paths {
		all = append(all, p.Points...)
	}
	if b := model.BBoxOf(all); b.Right() > 0 && b.Bottom() > 0 {
		return b.Right() + 36, b.Bottom() + 36
	}
	return 792, 612
}

func drawPath(pdf *gofpdf.Fpdf, p model.VectorPath) {
	pts := p.Points
	switch {
	case p.Kind == model.PathRect && len(pts) == 4:
		pdf.Polygon(points(pts), "D")
	case p.Kind == model.PathCurve && len(pts) == 4:
		pdf.CurveBezierCubic(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y, pts[3].X, pts[3].Y, "D")
	default:
		for i := 1; i < len(pts); i++ {
			pdf.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y)
		}
	}
}

func points(ring []model.Point) []gofpdf.PointType {
	out := make([]gofpdf.PointType, len(ring))
	for i, p := range ring {
		out[i] = gofpdf.PointType{X: p.X, Y: p.Y}
	}
	return out
}
