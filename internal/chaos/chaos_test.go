package chaos

import (
	"sync"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"error", ModeError, false},
		{"timeout", ModeTimeout, false},
		{"ERROR", ModeError, false},
		{"Timeout", ModeTimeout, false},
		{"latency", "", true},
		{"error ", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStateInitiallyDisabled(t *testing.T) {
	s := NewState()
	enabled, mode := s.Snapshot()
	if enabled {
		t.Fatal("new state should start disabled")
	}
	if mode != ModeError {
		t.Fatalf("new state mode = %q, want %q", mode, ModeError)
	}
}

func TestEnableDisableCycle(t *testing.T) {
	s := NewState()

	s.Enable(ModeTimeout)
	enabled, mode := s.Snapshot()
	if !enabled || mode != ModeTimeout {
		t.Fatalf("after Enable(timeout): enabled=%v mode=%q", enabled, mode)
	}

	// Switching modes while already enabled takes effect directly.
	s.Enable(ModeError)
	enabled, mode = s.Snapshot()
	if !enabled || mode != ModeError {
		t.Fatalf("after Enable(error): enabled=%v mode=%q", enabled, mode)
	}

	if was := s.Disable(); !was {
		t.Fatal("Disable should report chaos had been enabled")
	}
	if enabled, _ := s.Snapshot(); enabled {
		t.Fatal("state should be disabled after Disable")
	}
}

func TestDisableIdempotent(t *testing.T) {
	s := NewState()
	if was := s.Disable(); was {
		t.Fatal("Disable on a fresh state should report wasEnabled=false")
	}

	s.Enable(ModeError)
	if was := s.Disable(); !was {
		t.Fatal("first Disable should report wasEnabled=true")
	}
	if was := s.Disable(); was {
		t.Fatal("second Disable should report wasEnabled=false")
	}
}

func TestDisableKeepsLastMode(t *testing.T) {
	s := NewState()
	s.Enable(ModeTimeout)
	s.Disable()
	if _, mode := s.Snapshot(); mode != ModeTimeout {
		t.Fatalf("mode after Disable = %q, want %q", mode, ModeTimeout)
	}
}

func TestStateConcurrentAccess(t *testing.T) {
	s := NewState()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				switch (n + j) % 4 {
				case 0:
					s.Enable(ModeError)
				case 1:
					s.Enable(ModeTimeout)
				case 2:
					s.Disable()
				default:
					s.Snapshot()
				}
			}
		}(i)
	}
	wg.Wait()

	if _, mode := s.Snapshot(); mode != ModeError && mode != ModeTimeout {
		t.Fatalf("mode corrupted after concurrent use: %q", mode)
	}
}
