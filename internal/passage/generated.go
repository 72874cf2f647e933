package passage

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuirace/internal/generator"
	"github.com/verte-zerg/tuirace/internal/model"
	"github.com/verte-zerg/tuirace/internal/wordlist"
)

// Generated builds random passages from a word list. Generated passages are
// not stored, so ByID never finds them.
type Generated struct {
	gen   *generator.Generator
	words []string
	count int
}

// NewGenerated returns a source producing passages of count words.
func NewGenerated(gen *generator.Generator, words []string, count int) *Generated {
	return &Generated{gen: gen, words: words, count: count}
}

// ByID implements Service.
func (g *Generated) ByID(context.Context, string) (model.Passage, error) {
	return model.Passage{}, ErrNotFound
}

// Random implements Service.
func (g *Generated) Random(_ context.Context, difficulty model.Difficulty) (model.Passage, error) {
	pool := wordlist.Filter(g.words, wordlist.FilterForDifficulty(difficulty))
	if len(pool) == 0 || g.count <= 0 {
		return model.Passage{}, ErrNotFound
	}
	words := g.gen.Generate(pool, g.count, generator.ProfileFor(difficulty))
	return model.Passage{
		ID:         uuid.NewString(),
		Text:       strings.Join(words, " "),
		Difficulty: difficulty,
	}, nil
}
