// Package keyhook captures global keyboard events from the operating system.
package keyhook

import (
	"errors"

	"github.com/verte-zerg/typecadence/internal/sampler"
)

// ErrUnavailable is returned when the binary was built without an OS hook.
var ErrUnavailable = errors.New("keyboard hook unavailable: rebuild with CGO_ENABLED=1")

// hookNames maps sampler key names to the names used by the hook's keycode table.
var hookNames = map[string][]string{
	sampler.KeyShift:     {"shift", "lshift"},
	sampler.KeyShiftR:    {"rshift"},
	sampler.KeyCtrl:      {"ctrl", "lctrl"},
	sampler.KeyCtrlR:     {"rctrl"},
	sampler.KeyAlt:       {"alt", "lalt"},
	// AltGr is reported as right alt.
	sampler.KeyAltR:      {"ralt", "altgr"},
	sampler.KeyCmd:       {"cmd", "command", "lcmd"},
	sampler.KeyCmdR:      {"rcmd"},
	sampler.KeyCapsLock:  {"capslock", "caps_lock"},
	sampler.KeyTab:       {"tab"},
	sampler.KeyEnter:     {"enter", "return"},
	sampler.KeyBackspace: {"backspace"},
	sampler.KeyDelete:    {"delete"},
	sampler.KeyEsc:       {"esc", "escape"},
	sampler.KeyInsert:    {"insert"},
	sampler.KeyUp:        {"up"},
	sampler.KeyDown:      {"down"},
	sampler.KeyLeft:      {"left"},
	sampler.KeyRight:     {"right"},
	sampler.KeyHome:      {"home"},
	sampler.KeyEnd:       {"end"},
	sampler.KeyPageUp:    {"pageup"},
	sampler.KeyPageDown:  {"pagedown"},
}

// buildKeyNames inverts table for the names in hookNames.
func buildKeyNames(table map[string]uint16) map[uint16]string {
	names := make(map[uint16]string, len(hookNames))
	for name, aliases := range hookNames {
		for _, alias := range aliases {
			code, ok := table[alias]
			if !ok {
				continue
			}
			if _, taken := names[code]; !taken {
				names[code] = name
			}
		}
	}
	return names
}
