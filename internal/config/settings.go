package config

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// SettingsHub holds the current Settings and notifies subscribers when they change
type SettingsHub struct {
	mu      sync.RWMutex
	current Settings
	subs    map[int]func(Settings)
	nextID  int
}

// NewSettingsHub creates a hub holding initial
func NewSettingsHub(initial Settings) *SettingsHub {
	return &SettingsHub{
		current: initial,
		subs:    make(map[int]func(Settings)),
	}
}

// Current returns the settings in effect
func (h *SettingsHub) Current() Settings {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Subscribe calls fn with the current settings and again after every change.
// The returned function removes the subscription.
func (h *SettingsHub) Subscribe(fn func(Settings)) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	current := h.current
	h.mu.Unlock()

	fn(current)

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Publish validates s and, if it differs from the current settings, notifies every subscriber
func (h *SettingsHub) Publish(s Settings) error {
	if err := validator.New().Struct(s); err != nil {
		return err
	}

	h.mu.Lock()
	if s == h.current {
		h.mu.Unlock()
		return nil
	}
	h.current = s
	subs := make([]func(Settings), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
	return nil
}
