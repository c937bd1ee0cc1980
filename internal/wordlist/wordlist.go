// Package wordlist loads the word lists used to synthesize typing.
package wordlist

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrEmpty is returned when a list has no usable words.
var ErrEmpty = errors.New("word list is empty")

//go:embed default_en.txt
var defaultEnglish []byte

// Default returns the built-in English list.
func Default() []string {
	words, err := parse(bytes.NewReader(defaultEnglish), FilterForLang("en"))
	if err != nil {
		panic(fmt.Sprintf("built-in word list: %v", err))
	}
	return words
}

// LoadWords reads one word per line from path, keeping words accepted by
// the filter for lang.
func LoadWords(path, lang string) ([]string, error) {
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
	words, err := parse(file, FilterForLang(lang))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}

// LoadOrDefault loads path when it exists and falls back to Default otherwise.
func LoadOrDefault(path, lang string) ([]string, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return LoadWords(path, lang)
}

func parse(r io.Reader, keep FilterFunc) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" || !keep(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}
