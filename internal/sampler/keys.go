package sampler

import "strings"

// Names of non-character keys understood by the sampler.
const (
	KeyShift     = "shift"
	KeyShiftR    = "shift_r"
	KeyCtrl      = "ctrl"
	KeyCtrlR     = "ctrl_r"
	KeyAlt       = "alt"
	KeyAltR      = "alt_r"
	KeyCmd       = "cmd"
	KeyCmdR      = "cmd_r"
	KeyCapsLock  = "caps_lock"
	KeyTab       = "tab"
	KeyEnter     = "enter"
	KeyBackspace = "backspace"
	KeyDelete    = "delete"
	KeyEsc       = "esc"
	KeyInsert    = "insert"
	KeyUp        = "up"
	KeyDown      = "down"
	KeyLeft      = "left"
	KeyRight     = "right"
	KeyHome      = "home"
	KeyEnd       = "end"
	KeyPageUp    = "page_up"
	KeyPageDown  = "page_down"
)

// DefaultPunctuation lists characters that are still counted while a
// modifier is held. Every entry needs Shift on a US layout.
const DefaultPunctuation = `!@#$%^&*()_+{}|:"<>?~`

// KeySet is a set of normalized key names.
type KeySet map[string]struct{}

// NewKeySet builds a set from key names.
func NewKeySet(names ...string) KeySet {
	set := make(KeySet, len(names))
	for _, name := range names {
		name = normalizeKey(name)
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set.
func (s KeySet) Has(name string) bool {
	_, ok := s[normalizeKey(name)]
	return ok
}

// DefaultExcludedKeys returns modifiers, navigation and editing keys.
func DefaultExcludedKeys() KeySet {
	return NewKeySet(
		KeyShift, KeyShiftR, KeyCtrl, KeyCtrlR, KeyAlt, KeyAltR, KeyCmd, KeyCmdR,
		KeyCapsLock, KeyTab, KeyEnter, KeyBackspace, KeyDelete, KeyEsc, KeyInsert,
		KeyUp, KeyDown, KeyLeft, KeyRight, KeyHome, KeyEnd, KeyPageUp, KeyPageDown,
	)
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func runeSet(chars string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(chars))
	for _, r := range chars {
		set[r] = struct{}{}
	}
	return set
}
