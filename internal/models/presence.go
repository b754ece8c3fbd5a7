package models

import (
	"time"

	"github.com/google/uuid"
)

// PresenceRecord is the per-user online status document. Only the owning
// session writes it; anyone may read it.
type PresenceRecord struct {
	UserID        uuid.UUID `json:"userId"`
	IsOnline      bool      `json:"isOnline"`
	LastHeartbeat time.Time `json:"lastHeartbeat"`
}

// EffectiveOnline derives the status a viewer should display. The stored
// flag alone is not trusted: a crashed session leaves isOnline=true behind,
// so a stale heartbeat always reads as offline. An explicit offline write
// (logout) reads as offline immediately even though the heartbeat is fresh.
func (p *PresenceRecord) EffectiveOnline(now time.Time, staleness time.Duration) bool {
	if p == nil {
		return false
	}
	return p.IsOnline && now.Sub(p.LastHeartbeat) < staleness
}
