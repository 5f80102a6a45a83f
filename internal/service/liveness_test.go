package service

import (
	"testing"
	"time"
)

func TestLiveness_NeverSeenIsInactive(t *testing.T) {
	t.Parallel()

	tr := NewLivenessTracker()
	if tr.IsActive("ESP-1", DefaultLivenessThreshold) {
		t.Fatal("device never seen must be inactive")
	}
	if tr.AnyActive(DefaultLivenessThreshold) {
		t.Fatal("no writes yet, nothing should be active")
	}
}

func TestLiveness_TouchActivatesWithinThreshold(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := NewLivenessTracker()
	tr.now = func() time.Time { return now }

	tr.Touch("ESP-1")

	now = now.Add(9 * time.Second)
	if !tr.IsActive("ESP-1", DefaultLivenessThreshold) {
		t.Fatal("device seen 9s ago must be active at 10s threshold")
	}
	if !tr.AnyActive(DefaultLivenessThreshold) {
		t.Fatal("global slot must be active too")
	}

	now = now.Add(1 * time.Second) // exactly at threshold → inactive
	if tr.IsActive("ESP-1", DefaultLivenessThreshold) {
		t.Fatal("device seen exactly threshold ago must be inactive")
	}
	if tr.AnyActive(DefaultLivenessThreshold) {
		t.Fatal("global slot must be inactive past threshold")
	}
}

func TestLiveness_CaseInsensitiveIdentity(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := NewLivenessTracker()
	tr.now = func() time.Time { return now }

	tr.Touch("esp-1")
	if !tr.IsActive("ESP-1", DefaultLivenessThreshold) {
		t.Fatal("liveness identity must be case-insensitive")
	}
}

func TestLiveness_PerDeviceIndependence(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := NewLivenessTracker()
	tr.now = func() time.Time { return now }

	tr.Touch("ESP-1")
	now = now.Add(15 * time.Second)
	tr.Touch("ESP-2")

	if tr.IsActive("ESP-1", DefaultLivenessThreshold) {
		t.Fatal("ESP-1 went stale")
	}
	if !tr.IsActive("ESP-2", DefaultLivenessThreshold) {
		t.Fatal("ESP-2 is fresh")
	}
}
