// Package hotkey owns the process-wide capture hotkey: the persisted key
// combination and the single installed trigger hook. The OS-level key grab
// itself is delegated to an external hotkey daemon (skhd, sxhkd,
// Hammerspoon, ...) that fires the trigger source; the listener owns
// which combination is authoritative and tells the daemon's side of the
// contract through the trigger file path.
package hotkey

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fakeyudi/synctank/internal/bus"
	"github.com/fakeyudi/synctank/internal/settings"
)

// Source delivers trigger events. Events blocks until ctx is cancelled.
type Source interface {
	Events(ctx context.Context) (<-chan struct{}, error)
}

// Listener is the process-wide singleton owning exactly one registered
// combination and one installed trigger hook.
type Listener struct {
	store  settings.Store
	bus    *bus.Bus
	source Source

	mu     sync.Mutex
	combo  Combo
	cancel context.CancelFunc // non-nil while a hook is installed
}

// NewListener wires a listener to its settings store, bus, and trigger
// source. Nothing is registered until RegisterSavedOrDefault.
func NewListener(store settings.Store, b *bus.Bus, source Source) *Listener {
	return &Listener{store: store, bus: b, source: source, combo: Default}
}

// Current returns the authoritative combination.
func (l *Listener) Current() Combo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.combo
}

// RegisterSavedOrDefault loads the persisted combination (falling back to
// the default) and installs exactly one trigger hook invoking onTrigger.
// Idempotent: any existing hook is unregistered first so the hotkey never
// fires twice per press.
func (l *Listener) RegisterSavedOrDefault(onTrigger func()) error {
	combo := Default
	saved, err := l.store.Load()
	if err != nil && !errors.Is(err, settings.ErrNoSettings) {
		return fmt.Errorf("loading hotkey settings: %w", err)
	}
	if saved != nil && saved.Hotkey != nil {
		combo = FromBinding(saved.Hotkey)
	}
	return l.install(combo, onTrigger)
}

// Update atomically replaces the combination: unregister, register the new
// combo, persist it, then broadcast a change notification so any label
// showing the current binding can refresh. On registration failure the
// previous combination remains authoritative and persisted.
func (l *Listener) Update(combo Combo, onTrigger func()) error {
	if err := l.install(combo, onTrigger); err != nil {
		return err
	}

	s, err := l.store.Load()
	if err != nil {
		if !errors.Is(err, settings.ErrNoSettings) {
			return fmt.Errorf("loading settings: %w", err)
		}
		s = &settings.Settings{}
	}
	s.Hotkey = combo.toBinding()
	if err := l.store.Save(s); err != nil {
		return fmt.Errorf("persisting hotkey: %w", err)
	}

	l.bus.PublishHotkeyChanged(bus.HotkeyChanged{Combo: combo.String()})
	return nil
}

// install replaces the active hook. On source failure the previous state
// is restored untouched apart from the old hook, which was already torn
// down; the previous combo stays authoritative.
func (l *Listener) install(combo Combo, onTrigger func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	events, err := l.source.Events(ctx)
	if err != nil {
		cancel()
		return fmt.Errorf("installing trigger hook: %w", err)
	}

	go func() {
		for range events {
			onTrigger()
		}
	}()

	l.cancel = cancel
	l.combo = combo
	return nil
}

// Unregister removes the trigger hook. Safe to call when nothing is
// registered.
func (l *Listener) Unregister() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
