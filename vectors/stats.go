package vectors

import (
	"github.com/tsawler/takeoff/model"
)

// Stats computes path-type counts, the total length of 2-point lines and
// the union bounding box of all paths.
func Stats(data model.DrawingData) model.DrawingStats {
	stats := model.DrawingStats{PathCount: len(data.Paths)}

	for i, p := range data.Paths {
		switch p.Kind {
		case model.PathLine:
			stats.LineCount++
			stats.TotalLineLength += p.Length()
		case model.PathRect:
			stats.RectCount++
		case model.PathCurve:
			stats.CurveCount++
		case model.PathPolyline:
			stats.PolylineCount++
		}

		if i == 0 {
			stats.BBox = p.BBox
		} else {
			stats.BBox = stats.BBox.Union(p.BBox)
		}
	}
	stats.HasBBox = len(data.Paths) > 0

	return stats
}

// FilterByRegion returns only the paths whose bounding box intersects region.
// Page dimensions are carried over unchanged.
func FilterByRegion(data model.DrawingData, region model.BBox) model.DrawingData {
	out := model.DrawingData{
		PageWidth:  data.PageWidth,
		PageHeight: data.PageHeight,
	}
	for _, p := range data.Paths {
		if p.BBox.Intersects(region) {
			out.Paths = append(out.Paths, p)
		}
	}
	return out
}

// Lines returns the 2-point line paths of the drawing.
func Lines(data model.DrawingData) []model.VectorPath {
	var out []model.VectorPath
	for _, p := range data.Paths {
		if p.IsSegment() {
			out = append(out, p)
		}
	}
	return out
}
