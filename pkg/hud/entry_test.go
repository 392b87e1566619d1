package hud

import (
	"testing"
	"time"
)

func TestEffectivePeriod(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{0, MinimumUpdatePeriod},
		{10 * time.Millisecond, MinimumUpdatePeriod},
		{99 * time.Millisecond, MinimumUpdatePeriod},
		{MinimumUpdatePeriod, MinimumUpdatePeriod},
		{150 * time.Millisecond, 150 * time.Millisecond},
		{DefaultUpdatePeriod, DefaultUpdatePeriod},
	}
	for _, tt := range tests {
		if got := effectivePeriod(tt.in); got != tt.want {
			t.Errorf("effectivePeriod(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBaseTokenStable(t *testing.T) {
	var a, b Base
	if a.Token() == "" {
		t.Fatal("empty token")
	}
	if a.Token() != a.Token() {
		t.Fatal("token changed between calls")
	}
	if a.Token() == b.Token() {
		t.Fatal("two entries share a token")
	}
	if a.UpdatePeriod() != DefaultUpdatePeriod {
		t.Fatalf("default period = %v", a.UpdatePeriod())
	}
}

func TestTextEntry(t *testing.T) {
	show := false
	e := NewTextEntry(time.Second, func() (string, bool) { return "fps 60", show })
	if _, ok := e.Update(); ok {
		t.Fatal("expected no change while source is empty")
	}
	show = true
	p, ok := e.Update()
	if !ok || string(p) != "fps 60" {
		t.Fatalf("Update() = %q, %v", p, ok)
	}
	if StaticText("x").UpdatePeriod() != NoPeriodicUpdate {
		t.Fatal("static text should not repeat")
	}
}
