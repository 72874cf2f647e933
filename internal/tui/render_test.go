package tui

import (
	"strings"
	"testing"
)

func TestBuildStyledRunesCurrentWord(t *testing.T) {
	runes := buildStyledRunes([]string{"ab", "cd"}, wordCursor{index: 0, input: "a"})
	if len(runes) != 5 {
		t.Fatalf("expected 5 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for typed rune")
	}
	if runes[1].s != cursorStyle.Render("b") {
		t.Fatalf("expected cursor style for next rune")
	}
	if runes[3].s != pendingStyle.Render("c") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesAcceptedWords(t *testing.T) {
	runes := buildStyledRunes([]string{"ab", "cd"}, wordCursor{index: 1})
	if runes[0].s != correctStyle.Render("a") || runes[1].s != correctStyle.Render("b") {
		t.Fatalf("expected accepted word in correct style")
	}
	if runes[3].s != cursorStyle.Render("c") {
		t.Fatalf("expected cursor at start of current word")
	}
	if runes[4].s != currentWordStyle.Render("d") {
		t.Fatalf("expected current word style")
	}
}

func TestBuildStyledRunesMisspelled(t *testing.T) {
	runes := buildStyledRunes([]string{"ab"}, wordCursor{input: "ax", misspelled: true})
	if runes[0].s != incorrectStyle.Render("a") || runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected misspelled word in incorrect style")
	}
}

func TestBuildStyledRunesExtraInput(t *testing.T) {
	runes := buildStyledRunes([]string{"ab"}, wordCursor{input: "abc", misspelled: true})
	if len(runes) != 3 {
		t.Fatalf("expected overflow rune, got %d runes", len(runes))
	}
	if runes[2].s != incorrectStyle.Render("c") {
		t.Fatalf("expected overflow rune in incorrect style")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	runes := buildStyledRunes([]string{"aaa", "bbb", "ccc"}, wordCursor{index: 3})
	out := wrapStyledRunes(runes, 7)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != renderStyledRunes(runes[:7]) {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if lines[1] != renderStyledRunes(runes[8:]) {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}

func TestWrapStyledRunesSplitsLongWord(t *testing.T) {
	runes := buildStyledRunes([]string{"abcdef"}, wordCursor{index: 1})
	out := wrapStyledRunes(runes, 4)
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected a single break, got %q", out)
	}
}
