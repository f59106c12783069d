// Package centerline collapses double-line walls into single centerlines.
//
// Architectural drawings draw each wall as two parallel faces a few points
// apart, and door openings break those faces. Polygon reconstruction works
// much better on one line per wall, so this package:
//
//   - groups horizontal and vertical segments by their perpendicular
//     coordinate
//   - pairs each group with its nearest free neighbour at wall-thickness
//     distance and emits one centerline per merged parallel range
//   - bridges doorway-sized gaps between collinear centerlines (CloseGaps)
//   - extends centerline ends to meet perpendicular neighbours
//     (ExtendToIntersections)
//
// Pairing is greedy in coordinate order.
package centerline
