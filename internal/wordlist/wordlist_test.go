package wordlist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	if !filter("hello") {
		t.Fatalf("expected hello to pass english filter")
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestDefaultListIsUsable(t *testing.T) {
	words := Default()
	if len(words) < 100 {
		t.Fatalf("expected a sizeable built-in list, got %d words", len(words))
	}
}

func TestLoadWordsFiltersAndLowercases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	if err := os.WriteFile(path, []byte("Alpha\n\nbeta\nco-op\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	words, err := LoadWords(path, "en")
	if err != nil {
		t.Fatalf("LoadWords failed: %v", err)
	}
	if len(words) != 2 || words[0] != "alpha" || words[1] != "beta" {
		t.Fatalf("unexpected words %q", words)
	}
}

func TestLoadWordsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	if err := os.WriteFile(path, []byte("co-op\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	if _, err := LoadWords(path, "en"); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	words, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.txt"), "en")
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if len(words) != len(Default()) {
		t.Fatalf("expected built-in list")
	}
}
