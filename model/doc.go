// Package model provides the value types shared by every stage of the
// floor-plan measurement pipeline.
//
// All coordinates are in drawing points (1/72 inch) in the page space used
// by the input boundary: the origin is the top-left corner of the page and
// Y grows downward.
//
// # Input
//
// A [Page] is the decoded form of one drawing page: raw drawing operations
// ([DrawOp]) and positioned text runs ([TextRun]). Producing a Page from a
// PDF or other file format is the job of an upstream decoder.
//
// # Normalized geometry
//
// The vectors package turns a Page's operations into [VectorPath] values
// collected in a [DrawingData]. Text runs become [TextBlock] values.
//
// # Geometry
//
// [Point] and [BBox] are small copyable values. Arithmetic that benefits
// from a vector type goes through [Point.Vec], which converts to
// seehuhn.de/go/geom/vec.Vec2.
//
// # Colors
//
// [Color] is a tagged value: either an RGB triple or unset. Decoders hand
// over raw component slices; [ColorFromComponents] performs the
// normalization (gray to RGB, anything else to unset).
package model
