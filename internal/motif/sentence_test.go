// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package motif

import "testing"

func TestSentenceBounds(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		matchStart int
		matchEnd   int
		wantStart  int
		wantEnd    int
	}{
		{
			name: "terminal period at end of text",
			// "The ice holds names."
			text:       "The ice holds names.",
			matchStart: 4, matchEnd: 7, // "ice"
			wantStart: 0, wantEnd: 20,
		},
		{
			name: "period plus space ends prior sentence",
			// second sentence starts after ". "
			text:       "The ice preserves memory. It also records testimony.",
			matchStart: 42, matchEnd: 51, // "testimony"
			wantStart: 26, wantEnd: 52,
		},
		{
			name:       "period plus space ends current sentence",
			text:       "The ice preserves memory. It also records testimony.",
			matchStart: 4, matchEnd: 7, // "ice"
			wantStart: 0, wantEnd: 25,
		},
		{
			name:       "newline is a hard break backward",
			text:       "First line.\nThe ice remembers here",
			matchStart: 16, matchEnd: 19, // "ice"
			wantStart: 12, wantEnd: 34,
		},
		{
			name:       "newline is a hard break forward",
			text:       "First fact about ice-memory.\nSecond unrelated fact.",
			matchStart: 17, matchEnd: 27, // "ice-memory"
			wantStart: 0, wantEnd: 28,
		},
		{
			name: "period adjacent to match start is kept",
			// the "." in "x2.5" directly touches the match, so it is not
			// treated as a sentence boundary
			text:       "x2.5 units of ice",
			matchStart: 3, matchEnd: 10, // "5 units"
			wantStart: 0, wantEnd: 17,
		},
		{
			name: "period without following whitespace is not a boundary",
			text:       "A end.Next ice here",
			matchStart: 11, matchEnd: 14, // "ice"
			wantStart: 0, wantEnd: 19,
		},
		{
			name:       "match spans to unterminated end of text",
			text:       "Something about ice",
			matchStart: 16, matchEnd: 19,
			wantStart: 0, wantEnd: 19,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := sentenceBounds(tt.text, tt.matchStart, tt.matchEnd)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("sentenceBounds() = [%d, %d), want [%d, %d); got %q",
					start, end, tt.wantStart, tt.wantEnd, tt.text[start:end])
			}
			if start > tt.matchStart {
				t.Errorf("start %d exceeds matchStart %d", start, tt.matchStart)
			}
			if end < tt.matchEnd {
				t.Errorf("end %d short of matchEnd %d", end, tt.matchEnd)
			}
		})
	}
}

func TestSentenceBoundsSkipsLeadingWhitespace(t *testing.T) {
	text := "One done.   Padded ice sentence."
	// match "ice" at 19.
	start, end := sentenceBounds(text, 19, 22)
	if got := text[start:end]; got != "Padded ice sentence." {
		t.Errorf("sentence = %q, want %q", got, "Padded ice sentence.")
	}
	if start != 12 {
		t.Errorf("start = %d, want 12", start)
	}
}
