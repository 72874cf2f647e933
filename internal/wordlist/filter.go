package wordlist

import (
	"github.com/samber/lo"

	"github.com/verte-zerg/tuirace/internal/model"
)

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForDifficulty returns the word filter used to build passages of a
// difficulty. Easy passages use short lowercase ASCII words, medium ones
// allow longer words, hard ones keep everything.
func FilterForDifficulty(d model.Difficulty) FilterFunc {
	switch d {
	case model.Easy:
		return maxLenASCII(5)
	case model.Medium:
		return maxLenASCII(8)
	default:
		return func(word string) bool { return word != "" }
	}
}

// Filter returns the words that pass keep.
func Filter(words []string, keep FilterFunc) []string {
	return lo.Filter(words, func(w string, _ int) bool { return keep(w) })
}

func maxLenASCII(n int) FilterFunc {
	return func(word string) bool {
		if word == "" || len(word) > n {
			return false
		}
		for i := 0; i < len(word); i++ {
			ch := word[i]
			if ch < 'a' || ch > 'z' {
				return false
			}
		}
		return true
	}
}
