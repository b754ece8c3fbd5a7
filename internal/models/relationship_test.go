package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPairKeySymmetric(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	assert.Equal(t, PairKey(a, b), PairKey(b, a))
	assert.Equal(t, PairKey(a, b), ConversationID(b, a))
	assert.NotEqual(t, PairKey(a, b), PairKey(a, uuid.New()))
}

func TestViewerStatus(t *testing.T) {
	from := uuid.New()
	to := uuid.New()

	var nilRequest *FriendRequest
	assert.Equal(t, RelationNone, nilRequest.ViewerStatus(from))

	request := &FriendRequest{
		PairKey: PairKey(from, to),
		FromID:  from,
		ToID:    to,
		Status:  RequestPending,
	}
	assert.Equal(t, RelationSent, request.ViewerStatus(from))
	assert.Equal(t, RelationPending, request.ViewerStatus(to))

	request.Status = RequestAccepted
	assert.Equal(t, RelationAccepted, request.ViewerStatus(from))
	assert.Equal(t, RelationAccepted, request.ViewerStatus(to))

	request.Status = RequestDeclined
	assert.Equal(t, RelationNone, request.ViewerStatus(from))
}

func TestEffectiveOnline(t *testing.T) {
	now := time.Now()
	staleness := time.Minute

	var missing *PresenceRecord
	assert.False(t, missing.EffectiveOnline(now, staleness))

	fresh := &PresenceRecord{IsOnline: true, LastHeartbeat: now.Add(-10 * time.Second)}
	assert.True(t, fresh.EffectiveOnline(now, staleness))

	stale := &PresenceRecord{IsOnline: true, LastHeartbeat: now.Add(-2 * time.Minute)}
	assert.False(t, stale.EffectiveOnline(now, staleness))

	loggedOut := &PresenceRecord{IsOnline: false, LastHeartbeat: now}
	assert.False(t, loggedOut.EffectiveOnline(now, staleness))
}
