package shaping

import "golang.org/x/text/unicode/bidi"

// DetectDirection returns the paragraph direction of text from its first
// strong character. Text without strong characters is LTR.
func DetectDirection(text string) Direction {
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return LTR
		case bidi.R, bidi.AL:
			return RTL
		}
	}
	return LTR
}
