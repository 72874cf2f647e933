// Package generator builds typing text sequences.
package generator

import (
	"math/rand"
	"time"
	"unicode"

	"github.com/verte-zerg/tuirace/internal/model"
)

// Profile controls how generated words are decorated.
type Profile struct {
	CapsPct  float64
	PunctPct float64
	PunctSet []rune
}

// ProfileFor returns the decoration profile of a difficulty.
func ProfileFor(d model.Difficulty) Profile {
	switch d {
	case model.Hard:
		return Profile{CapsPct: 0.4, PunctPct: 0.3, PunctSet: []rune(".,!?;:'\"()-")}
	case model.Medium:
		return Profile{CapsPct: 0.25, PunctPct: 0.1, PunctSet: []rune(".,")}
	default:
		return Profile{}
	}
}

// Generator produces randomized typing text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate selects words uniformly and applies the profile's caps and
// punctuation rules.
func (g *Generator) Generate(words []string, count int, p Profile) []string {
	result := make([]string, 0, count)
	if len(words) == 0 {
		return result
	}
	for i := 0; i < count; i++ {
		word := words[g.rnd.Intn(len(words))]
		word = applyCaps(g.rnd, word, p.CapsPct)
		word = applyPunct(g.rnd, word, p.PunctPct, p.PunctSet)
		result = append(result, word)
	}
	return result
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
