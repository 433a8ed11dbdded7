package state

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestGenerateValidateRoundTrip(t *testing.T) {
	m := NewManager([]byte("secret"), 10*time.Minute)

	st, err := m.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := m.Validate(st); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRejectsTampering(t *testing.T) {
	m := NewManager([]byte("secret"), 10*time.Minute)
	st, err := m.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	tests := []struct {
		name  string
		state string
	}{
		{"empty", ""},
		{"no separator", strings.ReplaceAll(st, ".", "")},
		{"flipped payload", "AAAA" + st},
		{"truncated signature", st[:len(st)-2]},
		{"wrong secret", func() string {
			other, _ := NewManager([]byte("other"), 10*time.Minute).Generate()
			return other[:strings.Index(other, ".")] + st[strings.Index(st, "."):]
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.Validate(tt.state); !errors.Is(err, ErrInvalidState) {
				t.Errorf("Validate(%q) = %v, want ErrInvalidState", tt.state, err)
			}
		})
	}
}

func TestValidateExpiry(t *testing.T) {
	m := NewManager([]byte("secret"), time.Minute)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	st, err := m.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if err := m.Validate(st); !errors.Is(err, ErrStateExpired) {
		t.Errorf("Validate = %v, want ErrStateExpired", err)
	}
}
