package service

import (
	"strings"
	"sync"
	"time"
)

// globalSlot tracks the most recent write from any device, for gating
// broadcasts when no device identifier is in play.
const globalSlot = "*"

// DefaultLivenessThreshold is how recently a device must have reported to
// count as active.
const DefaultLivenessThreshold = 10 * time.Second

// LivenessTracker records the last time each device reported data.
// Touched by request handlers and read by the broadcast loop, so the map
// is mutex-guarded.
type LivenessTracker struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
	now      func() time.Time
}

func NewLivenessTracker() *LivenessTracker {
	return &LivenessTracker{
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Touch records "now" as last-seen for espID and for the global slot.
func (t *LivenessTracker) Touch(espID string) {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	if id := normalizeEspID(espID); id != "" {
		t.lastSeen[id] = now
	}
	t.lastSeen[globalSlot] = now
}

// IsActive reports whether espID was seen within threshold. A device that
// has never reported is not active.
func (t *LivenessTracker) IsActive(espID string, threshold time.Duration) bool {
	return t.activeSince(normalizeEspID(espID), threshold)
}

// AnyActive reports whether any device was seen within threshold.
func (t *LivenessTracker) AnyActive(threshold time.Duration) bool {
	return t.activeSince(globalSlot, threshold)
}

func (t *LivenessTracker) activeSince(key string, threshold time.Duration) bool {
	t.mu.Lock()
	seen, ok := t.lastSeen[key]
	t.mu.Unlock()
	if !ok {
		return false
	}
	return t.now().Sub(seen) < threshold
}

// normalizeEspID gives devices a case-insensitive identity.
func normalizeEspID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
