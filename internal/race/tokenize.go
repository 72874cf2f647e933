// Package race implements the typing-race engine: tokenizing passages,
// matching typed input against the expected word, and deriving live metrics.
package race

import (
	"errors"
	"strings"
)

// ErrEmptyPassage is returned when a passage has no words to type.
var ErrEmptyPassage = errors.New("passage has no text")

// Tokenize splits passage text into words on runs of whitespace.
func Tokenize(text string) ([]string, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, ErrEmptyPassage
	}
	return tokens, nil
}
