package slop

import "strings"

// FenceMarker is the markdown fence delimiter.
const FenceMarker = "```"

// Sentinel stands in for a literal FenceMarker inside fenced content.
// It starts with "<!--" so an escaped line can never open or close a fence.
const Sentinel = "<!--SLOPIFY_CODE_BLOCK```-->"

// Escape hides every fence marker in text behind Sentinel.
func Escape(text string) string {
	return strings.ReplaceAll(text, FenceMarker, Sentinel)
}

// Unescape restores fence markers hidden by Escape.
// Text that already contained Sentinel before escaping does not round-trip.
func Unescape(text string) string {
	return strings.ReplaceAll(text, Sentinel, FenceMarker)
}
