// Package shaping turns logical lines into positioned glyphs and visual rows.
//
// A Shaper converts one line of text into per-cluster advances and glyphs.
// Cache sits between a line source (usually a *buffer.Buffer) and a Shaper:
// it keeps one ShapedLine per logical line tagged with the line revision it
// was built from and reshapes only lines whose revision moved. Soft wrap is
// applied by the cache after shaping.
package shaping
