// Package buffer implements the text buffer owned by one editing session.
//
// Content is a sequence of grapheme clusters. Offsets count clusters and are
// 0-based; ranges are half-open [Start, End). Lines are separated by "\n",
// which occupies one offset of its own.
package buffer
