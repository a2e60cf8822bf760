// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package motif

// sentenceBounds returns the smallest enclosing sentence span for a concept
// match at [matchStart, matchEnd) of text.
//
// This is a heuristic, not a sentence tokenizer: a period followed by
// whitespace terminates a sentence, a newline is a hard break, and a period
// directly touching the match start is kept (decimal points, abbreviations
// adjacent to the match). Abbreviations elsewhere ("Dr. Smith") can still
// oversplit; downstream stages depend on these exact boundaries, so the
// heuristic must not be tightened.
func sentenceBounds(text string, matchStart, matchEnd int) (start, end int) {
	start = matchStart
	for start > 0 {
		prev := text[start-1]
		if prev == '\n' {
			break
		}
		// A period ends the prior sentence only when whitespace follows it
		// and it is not immediately adjacent to the match start.
		if prev == '.' && start < matchStart && isSpace(text[start]) {
			break
		}
		start--
	}
	for start < matchStart && isSpace(text[start]) {
		start++
	}

	end = matchEnd
	for end < len(text) {
		c := text[end]
		if c == '\n' {
			break
		}
		if c == '.' && (end+1 == len(text) || isSpace(text[end+1])) {
			end++
			break
		}
		end++
	}
	return start, end
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
