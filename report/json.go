package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tsawler/takeoff/measure"
	"github.com/tsawler/takeoff/model"
)

// Document is the JSON report.
type Document struct {
	Source string                     `json:"source,omitempty"`
	Pages  []measure.PageMeasurements `json:"pages"`
}

// JSON writes the measurements as an indented JSON document.
func JSON(w io.Writer, source string, pages []measure.PageMeasurements) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Source: source, Pages: pages}); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry is a GeoJSON polygon: an outer ring followed by holes.
type Geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// GeoJSON exports the rooms of a page as polygons. With a scale the
// coordinates are real feet, otherwise drawing points. Y is flipped so the
// top of the sheet points north.
func GeoJSON(m measure.PageMeasurements) FeatureCollection {
	unit, factor := "pt", 1.0
	if m.Scale != nil && m.Scale.IsValid() {
		unit, factor = "ft", model.LinearFeet(1, m.Scale.Factor)
	}
	project := func(ring []model.Point) [][2]float64 {
		out := make([][2]float64, len(ring))
		for i, p := range ring {
			out[i] = [2]float64{model.Round(p.X*factor, 4), model.Round(-p.Y*factor, 4)}
		}
		return out
	}

	fc := FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
	for _, r := range m.Rooms {
		coords := [][][2]float64{project(r.Polygon)}
		for _, h := range r.Holes {
			coords = append(coords, project(h))
		}
		props := map[string]any{
			"page":  m.PageNumber,
			"index": r.Index,
			"name":  r.Name(),
			"unit":  unit,
			"wet":   r.Type.IsWet(),
		}
		if r.Label != "" {
			props["label"] = r.Label
			props["room_type"] = string(r.Type)
		}
		if r.Scaled {
			props["area_sf"] = model.Round(r.AreaSF, 2)
			props["perimeter_lf"] = model.Round(r.PerimeterLF, 2)
		}
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: "Polygon", Coordinates: coords},
			Properties: props,
		})
	}
	return fc
}

// WriteGeoJSON writes the GeoJSON export of a page.
func WriteGeoJSON(w io.Writer, m measure.PageMeasurements) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(GeoJSON(m)); err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	return nil
}
