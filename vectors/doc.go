// Package vectors normalizes the raw drawing operations of a page into typed
// vector paths.
//
// Each supported operation becomes one or more model.VectorPath values:
//
//   - line ops become 2-point PathLine records
//   - rect ops become 4-corner PathRect rings
//   - curve ops keep their 4 control points as PathCurve
//   - quad ops become 4-point PathPolyline records
//   - path ops are replayed through a Path builder and split into the
//     above kinds, one record per straight edge or curve segment, with
//     closed axis-aligned 4-corner subpaths reported as rectangles
//
// Unknown operation kinds are skipped without error. Colors are normalized
// with model.ColorFromComponents, so grayscale becomes an RGB triple and any
// other component count is treated as unset.
//
// # Basic Usage
//
//	ex := vectors.NewExtractor()
//	data := ex.Extract(page)
//	stats := vectors.Stats(data)
//	roi := vectors.FilterByRegion(data, model.NewBBox(0, 0, 300, 300))
package vectors
