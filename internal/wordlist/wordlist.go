// Package wordlist loads and filters the words used for generated passages.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"io"
	"os"
	"strings"
)

//go:embed words.txt
var defaultWords string

// ErrEmpty is returned when a word list has no words.
var ErrEmpty = errors.New("word list is empty")

// Default returns the built-in English word list.
func Default() []string {
	words, _ := parse(strings.NewReader(defaultWords))
	return words
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return parse(file)
}

// LoadOrDefault loads path when set and present, otherwise the built-in list.
func LoadOrDefault(path string) ([]string, error) {
	if path == "" {
		return Default(), nil
	}
	words, err := LoadWords(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return words, err
}

func parse(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			words = append(words, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}
