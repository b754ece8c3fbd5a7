package presence

import (
	"context"
	"sync"
	"testing"
	"time"

	"campus-swamp/internal/live"
	"campus-swamp/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type memoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*models.PresenceRecord
	writes  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[uuid.UUID]*models.PresenceRecord)}
}

func (s *memoryStore) SetPresence(_ context.Context, userID uuid.UUID, isOnline bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.records[userID] = &models.PresenceRecord{
		UserID:        userID,
		IsOnline:      isOnline,
		LastHeartbeat: time.Now(),
	}
	return nil
}

func (s *memoryStore) GetAllPresence(_ context.Context) (map[uuid.UUID]*models.PresenceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make(map[uuid.UUID]*models.PresenceRecord, len(s.records))
	for id, record := range s.records {
		copied := *record
		records[id] = &copied
	}
	return records, nil
}

func (s *memoryStore) get(userID uuid.UUID) *models.PresenceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[userID]
	if !ok {
		return nil
	}
	copied := *record
	return &copied
}

func (s *memoryStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func TestTrackerStartAndStop(t *testing.T) {
	store := newMemoryStore()
	tracker := NewTracker(store, nil, 50*time.Millisecond, 100*time.Millisecond)
	userID := uuid.New()

	stop := tracker.Start(userID)

	// The online record exists by the time Start returns.
	record := store.get(userID)
	assert.NotNil(t, record)
	assert.True(t, record.IsOnline)

	stop()
	record = store.get(userID)
	assert.NotNil(t, record)
	assert.False(t, record.IsOnline)

	stop() // idempotent, no second offline write
	writes := store.writeCount()
	stop()
	assert.Equal(t, writes, store.writeCount())
}

func TestTrackerHeartbeatsRefresh(t *testing.T) {
	store := newMemoryStore()
	tracker := NewTracker(store, nil, 20*time.Millisecond, 40*time.Millisecond)
	userID := uuid.New()

	stop := tracker.Start(userID)
	defer stop()

	assert.Eventually(t, func() bool {
		return store.writeCount() >= 3
	}, time.Second, 10*time.Millisecond)
}

func TestTrackerPublishesPresenceEvents(t *testing.T) {
	store := newMemoryStore()
	bus := live.NewBus()
	sub := bus.Subscribe(live.TopicPresence, 16)
	defer sub.Cancel()

	tracker := NewTracker(store, bus, 50*time.Millisecond, 100*time.Millisecond)
	userID := uuid.New()

	stop := tracker.Start(userID)

	select {
	case event := <-sub.C:
		assert.Equal(t, "online", event.Kind)
		assert.Equal(t, userID.String(), event.Key)
	case <-time.After(time.Second):
		t.Fatal("no online event published")
	}

	stop()

	deadline := time.After(time.Second)
	for {
		select {
		case event := <-sub.C:
			if event.Kind == "offline" {
				assert.Equal(t, userID.String(), event.Key)
				return
			}
		case <-deadline:
			t.Fatal("no offline event published")
		}
	}
}

func TestTrackerRestartReplacesSession(t *testing.T) {
	store := newMemoryStore()
	tracker := NewTracker(store, nil, 20*time.Millisecond, 40*time.Millisecond)
	userID := uuid.New()

	stopOld := tracker.Start(userID)
	stopNew := tracker.Start(userID)

	// The superseded stop must not flip the active session offline.
	stopOld()
	record := store.get(userID)
	assert.NotNil(t, record)
	assert.True(t, record.IsOnline)

	stopNew()
	assert.False(t, store.get(userID).IsOnline)
}

func TestTrackerOnlineUsersAppliesStaleness(t *testing.T) {
	store := newMemoryStore()
	tracker := NewTracker(store, nil, 20*time.Millisecond, 50*time.Millisecond)

	fresh := uuid.New()
	stale := uuid.New()
	offline := uuid.New()

	store.records[fresh] = &models.PresenceRecord{UserID: fresh, IsOnline: true, LastHeartbeat: time.Now()}
	store.records[stale] = &models.PresenceRecord{UserID: stale, IsOnline: true, LastHeartbeat: time.Now().Add(-time.Minute)}
	store.records[offline] = &models.PresenceRecord{UserID: offline, IsOnline: false, LastHeartbeat: time.Now()}

	online, err := tracker.OnlineUsers(context.Background())
	assert.NoError(t, err)
	assert.True(t, online[fresh])
	assert.False(t, online[stale])
	assert.False(t, online[offline])
}

func TestTrackerStopAll(t *testing.T) {
	store := newMemoryStore()
	tracker := NewTracker(store, nil, 20*time.Millisecond, 40*time.Millisecond)

	a := uuid.New()
	b := uuid.New()
	tracker.Start(a)
	tracker.Start(b)

	assert.Eventually(t, func() bool {
		ra, rb := store.get(a), store.get(b)
		return ra != nil && ra.IsOnline && rb != nil && rb.IsOnline
	}, time.Second, 10*time.Millisecond)

	tracker.StopAll()
	assert.False(t, store.get(a).IsOnline)
	assert.False(t, store.get(b).IsOnline)
}
