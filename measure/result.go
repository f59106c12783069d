package measure

import (
	"github.com/tsawler/takeoff/interpret"
	"github.com/tsawler/takeoff/model"
	"github.com/tsawler/takeoff/rooms"
	"github.com/tsawler/takeoff/scale"
	"github.com/tsawler/takeoff/verify"
	"github.com/tsawler/takeoff/walls"
)

// PageMeasurements is everything measured on one page. Real-world values
// are zero when they could not be computed.
type PageMeasurements struct {
	PageNumber int `json:"page"`

	Scale *scale.Result `json:"scale"`
	// True when no scale was found and DefaultScale was assumed
	ScaleAssumed bool `json:"scale_assumed"`

	GrossAreaSF       float64 `json:"gross_area_sf"`
	PerimeterLF       float64 `json:"perimeter_lf"`
	TotalWallLengthLF float64 `json:"total_wall_length_lf"`
	WallCount         int     `json:"wall_count"`

	// Median wall thickness in points; 0 when walls are single lines
	WallThickness float64 `json:"wall_thickness_pts"`

	Rooms       []rooms.Room `json:"rooms"`
	RoomCount   int          `json:"room_count"`
	RoomMethod  rooms.Method `json:"room_method"`
	Centerlines bool         `json:"centerlines"`

	Confidence model.Confidence `json:"confidence"`

	Verification   *verify.Result            `json:"scale_verification,omitempty"`
	Interpretation *interpret.Interpretation `json:"interpretation,omitempty"`

	Walls         []walls.Segment `json:"-"`
	OuterBoundary []model.Point   `json:"outer_boundary,omitempty"`
	TextBlocks    []model.TextBlock `json:"-"`
	Raw           model.DrawingData `json:"-"`

	Warnings []string `json:"warnings,omitempty"`
}

// PolygonizeSuccess reports whether room areas come from real polygons.
func (m PageMeasurements) PolygonizeSuccess() bool {
	return m.RoomMethod == rooms.Polygonized
}

// HasData reports whether the page had any vector data.
func (m PageMeasurements) HasData() bool {
	return len(m.Raw.Paths) > 0
}

// noData is the result for pages without vector paths.
func noData(page *model.Page, data model.DrawingData) PageMeasurements {
	m := PageMeasurements{
		Confidence: model.ConfidenceNone,
		Raw:        data,
		Warnings:   []string{"page has no vector data"},
	}
	if page != nil {
		m.PageNumber = page.Number
	}
	return m
}
