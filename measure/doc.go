// Package measure turns one decoded floor plan page into real-world
// measurements.
//
// Service.Measure extracts vector paths, resolves the drawing scale (page
// text, then dimension calibration, then an assumed default, optionally
// checked by a vision model) while walls and rooms are detected in drawing
// points, and finally converts everything to square and linear feet. Each
// result carries a confidence tier that reflects which fallbacks were
// needed.
//
// When walls are drawn with two faces, rooms are reconstructed from wall
// centerlines with doorway gaps closed; otherwise the raw wall lines are
// polygonized.
package measure
