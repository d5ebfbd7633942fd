// Package cursor keeps the selection set of one editing session and moves it
// over a buffer and its shaped layout.
//
// Offsets are grapheme clusters. Vertical motion and hit-testing go through a
// Layout (usually *shaping.Cache) so they follow soft-wrapped visual rows.
package cursor
