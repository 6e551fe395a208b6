// Package graph defines the entity graph produced by beam synthesis:
// points, edges, surfaces, solids and reinforcement segments, identified
// by stable integer ids from a per-run registry.
package graph
