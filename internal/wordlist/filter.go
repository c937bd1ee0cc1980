package wordlist

import "strings"

// FilterFunc reports whether a word should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a language-specific filter. Unknown languages keep
// every word.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(lang) {
	case "en", "":
		return isLowerASCII
	default:
		return func(string) bool { return true }
	}
}

func isLowerASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		if ch := word[i]; ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}
