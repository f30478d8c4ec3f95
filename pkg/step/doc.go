// Package step writes built wings as ISO-10303-21 (STEP AP203) exchange
// files.
//
// Every export owns a Writer, a flat list of entities numbered by a single
// counter in creation order. Entities are created leaf first so every
// reference points at an already numbered entity. Topology is built through
// an arena keyed by canonical (segment, corner), (segment, family, index)
// and (pair, bridge, index) keys: faces that meet along a boundary look up
// the same CARTESIAN_POINT, VERTEX_POINT and EDGE_CURVE rather than
// emitting coincident copies.
//
// The entity stream of a surface export is
//
//	CARTESIAN_POINT, VERTEX_POINT, B_SPLINE_CURVE_WITH_KNOTS, EDGE_CURVE,
//	ORIENTED_EDGE, EDGE_LOOP, FACE_OUTER_BOUND, B_SPLINE_SURFACE_WITH_KNOTS,
//	ADVANCED_FACE   (per face)
//	OPEN_SHELL      (per wing)
//	SHELL_BASED_SURFACE_MODEL, MANIFOLD_SURFACE_SHAPE_REPRESENTATION,
//	product graph, SHAPE_DEFINITION_REPRESENTATION
package step
