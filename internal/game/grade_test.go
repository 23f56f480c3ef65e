package game

import (
	"testing"

	"github.com/playperu/maptrivia/internal/trivia"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Marcelene, Missouri", "Marcelene, Missouri"},
		{"Marcelene%2C%20Missouri", "Marcelene, Missouri"},
		{"Jack Daniel&#39;s", "Jack Daniel's"},
		{"Jack%20Daniel%26%2339%3Bs", "Jack Daniel's"},
		{"100% sure", "100% sure"},
		{"A &amp; B", "A & B"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGrade(t *testing.T) {
	q := trivia.Question{ID: 0, Text: "Sponsor?", Answers: []string{"Jack Daniel's", "Texaco"}}

	tests := []struct {
		answer string
		want   bool
	}{
		{"Jack Daniel's", true},
		{"Jack%20Daniel's", true},
		{"Jack Daniel&#039;s", true},
		{"jack daniel's", false},
		{"Texaco", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Grade(q, tt.answer); got != tt.want {
			t.Errorf("Grade(%q) = %v, want %v", tt.answer, got, tt.want)
		}
	}

	if Grade(trivia.Question{}, "anything") {
		t.Error("question without answers graded correct")
	}
}
