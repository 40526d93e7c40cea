package utils

import (
	"errors"
	"math/rand"
	"os"
	"strings"
)

// DefaultWords is the vocabulary used when no word bank file is configured.
var DefaultWords = []string{"apple", "banana", "guitar", "elephant", "rocket"}

// LoadWords reads a newline separated word bank, skipping blank lines.
func LoadWords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	tmp := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" {
			tmp = append(tmp, l)
		}
	}
	if len(tmp) == 0 {
		return nil, errors.New("word bank empty after parsing")
	}

	return tmp, nil
}

// GetRandomWord draws uniformly from words. Successive draws may repeat.
func GetRandomWord(words []string) (string, error) {
	if len(words) == 0 {
		return "", errors.New("no words in wordlist")
	}

	idx := rand.Intn(len(words))
	return words[idx], nil
}
