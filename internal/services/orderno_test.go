package services

import (
	"errors"
	"testing"
)

func TestNextOrderNo(t *testing.T) {
	cases := []struct{ last, want string }{
		{"", "O1"},
		{"O1", "O2"},
		{"O9", "O10"},
		{"O10", "O11"},
		{"O99", "O100"},
		{"O999", "O1000"},
	}
	for _, c := range cases {
		got, err := NextOrderNo(c.last)
		if err != nil {
			t.Fatalf("NextOrderNo(%q): %v", c.last, err)
		}
		if got != c.want {
			t.Fatalf("NextOrderNo(%q) = %q, want %q", c.last, got, c.want)
		}
	}
}

func TestNextOrderNoCorrupt(t *testing.T) {
	for _, last := range []string{"10", "O", "Oabc", "X10", "O1.5", "O-3", "o10"} {
		if _, err := NextOrderNo(last); !errors.Is(err, ErrOrderNoCorrupt) {
			t.Fatalf("NextOrderNo(%q): expected corrupt order number error, got %v", last, err)
		}
	}
}
