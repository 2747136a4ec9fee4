// Package geometry implements the panel tiling engine for story clusters.
//
// Every cluster lays its stories out inside a normalized unit square. The
// package provides:
//   - Panel: a normalized rectangle assigned to one story
//   - Coverage checking: validates that a panel set exactly tiles the square
//   - Splitting: recomputes panel assignments when stories enter or leave
//   - Layout classification: maps a panel set to a layout tag and per-story
//     title-bar insets
//
// All functions are pure: inputs are never mutated and no state is kept
// between calls. Callers (the cluster controller) are responsible for
// serializing structural mutations per cluster.
package geometry
