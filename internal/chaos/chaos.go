package chaos

import (
	"fmt"
	"strings"
	"sync"
)

// Mode selects which fault behavior is injected while chaos is enabled.
type Mode string

const (
	// ModeError makes the gated route answer with a simulated server error.
	ModeError Mode = "error"
	// ModeTimeout makes the gated route hang without ever responding.
	ModeTimeout Mode = "timeout"
)

// ParseMode validates an operator-supplied mode string. Matching is
// case-insensitive; anything outside the two known modes is rejected.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case string(ModeError):
		return ModeError, nil
	case string(ModeTimeout):
		return ModeTimeout, nil
	default:
		return "", fmt.Errorf("unknown chaos mode %q", s)
	}
}

// State is the single shared toggle behind the chaos endpoints. One instance
// is created at startup and handed to the server; tests construct their own.
// It always starts disabled with the error mode preselected.
type State struct {
	mu      sync.RWMutex
	enabled bool
	mode    Mode
}

// NewState returns a fresh, disabled State.
func NewState() *State {
	return &State{mode: ModeError}
}

// Enable turns fault injection on with the given mode.
func (s *State) Enable(m Mode) {
	s.mu.Lock()
	s.enabled = true
	s.mode = m
	s.mu.Unlock()
}

// Disable turns fault injection off and reports whether it had been on.
// The mode field is left untouched, so stopping chaos does not lose the
// last selected mode. Disabling an already-disabled state is a no-op.
func (s *State) Disable() bool {
	s.mu.Lock()
	was := s.enabled
	s.enabled = false
	s.mu.Unlock()
	return was
}

// Snapshot returns a consistent view of both fields for the gate and the
// status endpoint.
func (s *State) Snapshot() (enabled bool, mode Mode) {
	s.mu.RLock()
	enabled, mode = s.enabled, s.mode
	s.mu.RUnlock()
	return enabled, mode
}
