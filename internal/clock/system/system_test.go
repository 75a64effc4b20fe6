// Package system exercises the real-time clock adapter.
package system

import (
	"testing"
	"time"
)

// TestClockNowInConfiguredLocation ensures the clock reports the requested zone.
func TestClockNowInConfiguredLocation(t *testing.T) {
	t.Parallel()

	clk := New(time.UTC)

	before := time.Now().UTC().Add(-time.Second)
	got := clk.Now()
	after := time.Now().UTC().Add(time.Second)

	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
	if got.Before(before) || got.After(after) {
		t.Fatalf("expected %v to be between %v and %v", got, before, after)
	}
}

// TestClockNilLocationFallsBackToLocal checks the nil-location default.
func TestClockNilLocationFallsBackToLocal(t *testing.T) {
	t.Parallel()

	clk := New(nil)
	if clk.Now().Location() != time.Local {
		t.Fatalf("expected local location, got %v", clk.Now().Location())
	}
}

// TestClockNowMonotonic checks successive timestamps are non-decreasing.
func TestClockNowMonotonic(t *testing.T) {
	t.Parallel()

	clk := New(time.UTC)
	first := clk.Now()
	second := clk.Now()
	if second.Before(first) {
		t.Fatalf("expected second call %v to be >= first %v", second, first)
	}
}
