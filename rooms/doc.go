// Package rooms reconstructs closed room polygons from wall linework and
// attaches room-name labels to them.
//
// Detection snaps segment endpoints, extends every segment a little at both
// ends so junctions overlap, nodes the linework into a planar graph and
// traces its bounded faces (Polygonize). Tiny artifacts and sheet-sized
// faces are dropped. When no face survives, the convex hull of all
// endpoints stands in as a single room and the analysis is tagged
// HullFallback instead of Polygonized.
//
// Labeling walks the text blocks in order and gives each recognized room
// name to the first unlabeled room that contains it, or failing that the
// nearest unlabeled room centroid within reach.
package rooms
