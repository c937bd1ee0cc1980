package keyhook

import (
	"testing"

	"github.com/verte-zerg/typecadence/internal/sampler"
)

func TestBuildKeyNamesPrefersFirstAlias(t *testing.T) {
	table := map[string]uint16{
		"shift":  42,
		"rshift": 54,
		"esc":    1,
		"escape": 1,
		"a":      30,
	}
	names := buildKeyNames(table)
	if names[42] != sampler.KeyShift {
		t.Fatalf("expected shift for 42, got %q", names[42])
	}
	if names[54] != sampler.KeyShiftR {
		t.Fatalf("expected shift_r for 54, got %q", names[54])
	}
	if names[1] != sampler.KeyEsc {
		t.Fatalf("expected esc for 1, got %q", names[1])
	}
	if _, ok := names[30]; ok {
		t.Fatalf("character keys must not be mapped")
	}
}

func TestHookNamesCoverExcludedKeys(t *testing.T) {
	for name := range sampler.DefaultExcludedKeys() {
		if _, ok := hookNames[name]; !ok {
			t.Fatalf("excluded key %q has no hook alias", name)
		}
	}
}
