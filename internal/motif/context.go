// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package motif

// ellipsis marks a context window clipped mid-text.
const ellipsis = "..."

// contextWindow returns up to radius characters of text on each side of the
// span [start, end), with an ellipsis marker on any side that was clipped
// short of the text boundary. Deterministic, no side effects.
func contextWindow(text string, start, end, radius int) (before, after string) {
	from := start - radius
	if from < 0 {
		from = 0
	}
	before = text[from:start]
	if from > 0 {
		before = ellipsis + before
	}

	to := end + radius
	if to > len(text) {
		to = len(text)
	}
	after = text[end:to]
	if to < len(text) {
		after = after + ellipsis
	}
	return before, after
}
