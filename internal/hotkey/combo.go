package hotkey

import (
	"fmt"
	"strings"

	"github.com/fakeyudi/synctank/internal/settings"
)

// Mod is a modifier bitmask.
type Mod uint32

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
	ModCmd
)

// Combo is one system-level key combination: an opaque key identifier plus
// a modifier bitmask.
type Combo struct {
	Key  string
	Mods Mod
}

// Default is the combination used when nothing is persisted (alt+l).
var Default = Combo{Key: "l", Mods: ModAlt}

var modNames = []struct {
	mod  Mod
	name string
}{
	{ModCtrl, "ctrl"},
	{ModAlt, "alt"},
	{ModShift, "shift"},
	{ModCmd, "cmd"},
}

// ParseCombo converts a binding string like "alt+l" or "ctrl+shift+space"
// into a Combo. At least one modifier is required.
func ParseCombo(binding string) (Combo, error) {
	parts := strings.Split(binding, "+")
	if len(parts) < 2 {
		return Combo{}, fmt.Errorf("invalid binding %q (need modifier+key)", binding)
	}

	key := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	if key == "" {
		return Combo{}, fmt.Errorf("invalid binding %q (empty key)", binding)
	}

	var mods Mod
	for _, raw := range parts[:len(parts)-1] {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "ctrl", "control":
			mods |= ModCtrl
		case "alt", "option", "opt":
			mods |= ModAlt
		case "shift":
			mods |= ModShift
		case "cmd", "command", "super", "meta":
			mods |= ModCmd
		default:
			return Combo{}, fmt.Errorf("unknown modifier %q in binding %q", name, binding)
		}
	}
	return Combo{Key: key, Mods: mods}, nil
}

// String renders the combo in the canonical binding form, e.g. "alt+l".
func (c Combo) String() string {
	var parts []string
	for _, m := range modNames {
		if c.Mods&m.mod != 0 {
			parts = append(parts, m.name)
		}
	}
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}

// toBinding converts the combo to its persisted settings form.
func (c Combo) toBinding() *settings.Binding {
	return &settings.Binding{Key: c.Key, Modifiers: uint32(c.Mods)}
}

// FromBinding restores a combo from its persisted settings form.
func FromBinding(b *settings.Binding) Combo {
	return Combo{Key: b.Key, Mods: Mod(b.Modifiers)}
}
