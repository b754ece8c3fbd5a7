// internal/presence/tracker.go
package presence

import (
	"context"
	"log"
	"sync"
	"time"

	"campus-swamp/internal/live"
	"campus-swamp/internal/models"

	"github.com/google/uuid"
)

// Store persists presence state. Implemented by the MongoDB layer.
type Store interface {
	SetPresence(ctx context.Context, userID uuid.UUID, isOnline bool) error
	GetAllPresence(ctx context.Context) (map[uuid.UUID]*models.PresenceRecord, error)
}

// Tracker owns one heartbeat loop per connected user. While a user has an
// active session the tracker refreshes their presence record every
// interval; when the session ends it writes them offline immediately.
// Consumers derive the effective state from the stored record and the
// staleness window, so a crashed client that stops heartbeating reads as
// offline without any write happening.
type Tracker struct {
	store     Store
	bus       *live.Bus
	interval  time.Duration
	staleness time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

type session struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// end tears down the loop and waits for it to exit.
func (s *session) end() {
	s.cancel()
	<-s.done
}

func NewTracker(store Store, bus *live.Bus, interval, staleness time.Duration) *Tracker {
	return &Tracker{
		store:     store,
		bus:       bus,
		interval:  interval,
		staleness: staleness,
		sessions:  make(map[uuid.UUID]*session),
	}
}

// Staleness returns the window after which a heartbeat no longer counts.
func (t *Tracker) Staleness() time.Duration {
	return t.staleness
}

// Start begins heartbeating for a user and returns a stop function. The
// stop function is idempotent; it ends the loop and writes the user
// offline. Calling Start twice for the same user replaces the previous
// loop without an intervening offline write.
func (t *Tracker) Start(userID uuid.UUID) func() {
	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{cancel: cancel, done: make(chan struct{})}

	t.mu.Lock()
	if prev, ok := t.sessions[userID]; ok {
		// Replacing an existing session: only tear down the old loop, no
		// offline write in between.
		delete(t.sessions, userID)
		t.mu.Unlock()
		prev.end()
		t.mu.Lock()
	}
	t.sessions[userID] = sess
	t.mu.Unlock()

	// The online record must exist before Start returns; only the refresh
	// cadence runs asynchronously.
	t.beat(ctx, userID)
	go t.run(ctx, userID, sess.done)

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			owned := t.sessions[userID] == sess
			if owned {
				delete(t.sessions, userID)
			}
			t.mu.Unlock()

			sess.end()
			if owned {
				t.writeOffline(userID)
			}
		})
	}
}

// StopAll ends every active heartbeat loop, writing each user offline.
// Used at server shutdown.
func (t *Tracker) StopAll() {
	t.mu.Lock()
	sessions := make(map[uuid.UUID]*session, len(t.sessions))
	for id, sess := range t.sessions {
		sessions[id] = sess
	}
	t.sessions = make(map[uuid.UUID]*session)
	t.mu.Unlock()

	for id, sess := range sessions {
		sess.end()
		t.writeOffline(id)
	}
}

func (t *Tracker) run(ctx context.Context, userID uuid.UUID, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.beat(ctx, userID)
		}
	}
}

// beat refreshes the user's heartbeat. Write failures are logged and the
// loop keeps going; a transient store outage must not kill the session.
func (t *Tracker) beat(ctx context.Context, userID uuid.UUID) {
	writeCtx, cancel := context.WithTimeout(context.Background(), t.interval)
	defer cancel()
	if ctx.Err() != nil {
		return
	}
	if err := t.store.SetPresence(writeCtx, userID, true); err != nil {
		log.Printf("presence: heartbeat write failed for %s: %v", userID, err)
		return
	}
	t.publish(userID, true)
}

func (t *Tracker) writeOffline(userID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), t.interval)
	defer cancel()
	if err := t.store.SetPresence(ctx, userID, false); err != nil {
		log.Printf("presence: offline write failed for %s: %v", userID, err)
		return
	}
	t.publish(userID, false)
}

func (t *Tracker) publish(userID uuid.UUID, online bool) {
	if t.bus == nil {
		return
	}
	kind := "offline"
	if online {
		kind = "online"
	}
	t.bus.Publish(live.Event{
		Topic: live.TopicPresence,
		Kind:  kind,
		Key:   userID.String(),
		Payload: map[string]interface{}{
			"userId": userID.String(),
			"online": online,
		},
	})
}

// OnlineUsers returns the set of users whose stored presence is effective
// right now: marked online and heartbeat fresher than the staleness
// window.
func (t *Tracker) OnlineUsers(ctx context.Context) (map[uuid.UUID]bool, error) {
	records, err := t.store.GetAllPresence(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	online := make(map[uuid.UUID]bool, len(records))
	for id, record := range records {
		if record.EffectiveOnline(now, t.staleness) {
			online[id] = true
		}
	}
	return online, nil
}
