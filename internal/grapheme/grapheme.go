// Package grapheme wraps uniseg cluster segmentation and the cluster
// classifications used by buffer editing, word motion and soft wrap.
package grapheme

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Class is the coarse category of a grapheme cluster.
type Class uint8

const (
	ClassWord Class = iota
	ClassSpace
	ClassPunct
	ClassNewline
)

// Split returns the grapheme clusters of text in logical order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// Slice returns the grapheme-safe substring for [start, end).
func Slice(text string, start, end int) string {
	if text == "" {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}

	g := uniseg.NewGraphemes(text)
	idx := 0
	var sb strings.Builder
	for g.Next() {
		if idx >= end {
			break
		}
		if idx >= start {
			sb.WriteString(g.Str())
		}
		idx++
	}
	return sb.String()
}

// Join concatenates clusters.
func Join(clusters []string) string {
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return clusters[0]
	}
	n := 0
	for _, c := range clusters {
		n += len(c)
	}
	var sb strings.Builder
	sb.Grow(n)
	for _, c := range clusters {
		sb.WriteString(c)
	}
	return sb.String()
}

// NormalizeNewlines rewrites "\r\n" and lone "\r" to "\n".
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// IsSpace reports whether all runes in cluster are Unicode whitespace.
func IsSpace(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsPunct reports whether all runes in cluster are Unicode punctuation.
func IsPunct(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

// ClassOf classifies a single cluster.
func ClassOf(cluster string) Class {
	switch {
	case cluster == "\n":
		return ClassNewline
	case IsSpace(cluster):
		return ClassSpace
	case IsPunct(cluster):
		return ClassPunct
	default:
		return ClassWord
	}
}

// Width returns the terminal cell width of a cluster. Zero-width results
// fall back to uniseg, which knows more emoji sequences than runewidth.
func Width(cluster string) int {
	w := runewidth.StringWidth(cluster)
	if w <= 0 {
		w = uniseg.StringWidth(cluster)
	}
	if w < 0 {
		return 0
	}
	return w
}
