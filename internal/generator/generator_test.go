package generator

import (
	"strings"
	"testing"
	"unicode"

	"github.com/verte-zerg/tuirace/internal/model"
)

func TestGenerateEasyKeepsWordsPlain(t *testing.T) {
	words := []string{"cat", "dog", "sun"}
	out := NewSeeded(1).Generate(words, 50, ProfileFor(model.Easy))
	if len(out) != 50 {
		t.Fatalf("expected 50 words, got %d", len(out))
	}
	for _, w := range out {
		if w != "cat" && w != "dog" && w != "sun" {
			t.Fatalf("unexpected decorated word %q", w)
		}
	}
}

func TestGenerateHardDecorates(t *testing.T) {
	words := []string{"alpha", "beta", "gamma"}
	out := NewSeeded(7).Generate(words, 200, ProfileFor(model.Hard))
	var caps, punct bool
	for _, w := range out {
		if unicode.IsUpper([]rune(w)[0]) {
			caps = true
		}
		if strings.ContainsAny(w, ".,!?;:'\"()-") {
			punct = true
		}
	}
	if !caps || !punct {
		t.Fatalf("expected capitalized and punctuated words, caps=%v punct=%v", caps, punct)
	}
}

func TestGenerateWithoutWords(t *testing.T) {
	if out := New().Generate(nil, 5, Profile{}); len(out) != 0 {
		t.Fatalf("expected no words, got %v", out)
	}
}
