package policy

import (
	"testing"
	"time"
)

func TestThrottleWait(t *testing.T) {
	p := DefaultSafetyPolicy()
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"integer seconds", "12", 12 * time.Second},
		{"padded", " 7 ", 7 * time.Second},
		{"fractional", "1.5", 1500 * time.Millisecond},
		{"zero", "0", 0},
		{"absent", "", 30 * time.Second},
		{"non numeric", "soon", 30 * time.Second},
		{"negative", "-4", 30 * time.Second},
		{"nan", "NaN", 30 * time.Second},
		{"infinite", "+Inf", 30 * time.Second},
		{"huge exponent", "1e20", 30 * time.Second},
		{"beyond duration range", "9999999999999", 30 * time.Second},
		{"one day", "86400", 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ThrottleWait(tt.value); got != tt.want {
				t.Errorf("ThrottleWait(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestThrottleWaitZeroPolicy(t *testing.T) {
	var p SafetyPolicy
	if got := p.ThrottleWait(""); got != 30*time.Second {
		t.Errorf("ThrottleWait() on zero policy = %v, want 30s", got)
	}
}

func TestTimeout(t *testing.T) {
	p := DefaultSafetyPolicy()
	if got := p.Timeout(0); got != 30*time.Second {
		t.Errorf("Timeout(0) = %v, want 30s", got)
	}
	if got := p.Timeout(2 * time.Second); got != 2*time.Second {
		t.Errorf("Timeout(2s) = %v, want 2s", got)
	}
	var zero SafetyPolicy
	if got := zero.Timeout(-1); got != 30*time.Second {
		t.Errorf("zero policy Timeout(-1) = %v, want 30s", got)
	}
}

func TestConcurrency(t *testing.T) {
	p := DefaultSafetyPolicy()
	tests := []struct {
		in, want int
	}{
		{0, 8},
		{-3, 8},
		{4, 4},
		{100, 32},
	}
	for _, tt := range tests {
		if got := p.Concurrency(tt.in); got != tt.want {
			t.Errorf("Concurrency(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}

	var zero SafetyPolicy
	if got := zero.Concurrency(0); got != 1 {
		t.Errorf("zero policy Concurrency(0) = %d, want 1", got)
	}
}
