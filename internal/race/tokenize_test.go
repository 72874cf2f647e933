package race

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeCollapsesWhitespace(t *testing.T) {
	tokens, err := Tokenize("  the  cat\tsat\n\non the mat ")
	require.NoError(t, err)
	assert.Equal(t, []string{"the", "cat", "sat", "on", "the", "mat"}, tokens)
}

func TestTokenizeEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := Tokenize(text)
		assert.ErrorIs(t, err, ErrEmptyPassage, "text %q", text)
	}
}

func TestTokenizeJoinReconstructsNormalizedText(t *testing.T) {
	for _, text := range []string{"a", " one two  three ", "x\ny\tz", "déjà  vu"} {
		tokens, err := Tokenize(text)
		require.NoError(t, err)
		assert.Equal(t, strings.Join(strings.Fields(text), " "), strings.Join(tokens, " "))
	}
}
