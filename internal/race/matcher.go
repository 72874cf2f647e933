package race

import "strings"

// Verdict is the live evaluation of the word being typed.
type Verdict struct {
	Misspelled   bool
	ShouldSubmit bool
}

// Evaluate compares the in-progress input with the expected word. Input
// running past the end of the word is not flagged here; length is checked
// when the word is submitted.
func Evaluate(expected, typed string, last bool) Verdict {
	want := []rune(expected)
	misspelled := false
	for i, r := range []rune(typed) {
		if i >= len(want) {
			break
		}
		if r != want[i] {
			misspelled = true
			break
		}
	}
	return Verdict{
		Misspelled:   misspelled,
		ShouldSubmit: misspelled || strings.HasSuffix(typed, " ") || (last && typed == expected),
	}
}

// Submitted strips a single trailing delimiter from typed input.
func Submitted(typed string) string {
	return strings.TrimSuffix(typed, " ")
}

// Accepted reports whether a submission completes the expected word exactly.
func Accepted(expected, submitted string) bool {
	return strings.TrimSpace(submitted) == expected
}

// ScoreChars counts typed and correct characters for one submission.
// Submissions longer than the expected word are not counted at all.
func ScoreChars(expected, submitted string) (typed, correct int) {
	want := []rune(expected)
	got := []rune(submitted)
	if len([]rune(strings.TrimSpace(submitted))) > len(want) {
		return 0, 0
	}
	n := min(len(got), len(want))
	for i := 0; i < n; i++ {
		typed++
		if got[i] == want[i] {
			correct++
		}
	}
	return typed, correct
}
