// Package bspline provides clamped, non-rational B-spline curve and surface
// evaluation used throughout wingsmith: knot vector generation, Cox-de Boor
// evaluation, sampling and the resolution policy derived from the user's
// performance setting.
package bspline
