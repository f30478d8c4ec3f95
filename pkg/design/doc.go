// Package design defines the project model for wingsmith: a shared airfoil
// library plus components that own wings, which own ordered segments.
// Entities are stored in per-kind arenas and addressed by stable handles,
// so every operation receives its project explicitly.
package design
