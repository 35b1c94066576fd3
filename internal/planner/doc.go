// Package planner decides per-file action (convert or skip) and computes the
// scale-and-pad geometry that the ffmpeg package turns into a filter chain.
//
// The math is deliberately integer-exact at the edges: scaled dimensions are
// rounded once, clamped to the canvas, and forced even, and the padding is
// derived from the final scaled dimensions rather than recomputed, so the
// pieces always sum to exactly 1920x1080.
package planner
