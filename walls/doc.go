// Package walls identifies probable wall segments in extracted vector data.
//
// A line is a wall candidate when it is a heavy, long, dark, horizontal or
// vertical 2-point line. Candidates far longer than the rest (sheet
// borders, title block frames) are dropped with an interquartile range test.
// Parallel candidate pairs a few points apart are read as the two faces of
// one wall, and the median of their gaps is reported as the wall thickness.
package walls
