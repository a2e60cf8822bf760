package main

import "testing"

func TestClip(t *testing.T) {
	tests := []struct {
		name string
		s    string
		n    int
		want string
	}{
		{name: "short string unchanged", s: "The Warden", n: 28, want: "The Warden"},
		{name: "exact width unchanged", s: "1234567890", n: 10, want: "1234567890"},
		{name: "long string truncated", s: "a very long document name indeed", n: 10, want: "a very ..."},
		{name: "multibyte clipped on rune boundary", s: "冰冰冰冰冰冰冰冰冰冰冰冰", n: 10, want: "冰冰冰冰冰冰冰..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clip(tt.s, tt.n); got != tt.want {
				t.Errorf("clip(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
			}
		})
	}
}
