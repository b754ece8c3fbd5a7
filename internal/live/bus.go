// internal/live/bus.go
package live

import (
	"log"
	"sync"
	"time"
)

// Topic identifies one stream of live events.
type Topic string

const (
	TopicRoster   Topic = "roster"
	TopicPresence Topic = "presence"
	TopicRequests Topic = "requests"
	TopicGroup    Topic = "groupchat"
	TopicFeed     Topic = "feed"
)

// ConversationTopic returns the per-conversation direct message topic.
func ConversationTopic(conversationID string) Topic {
	return Topic("conversation:" + conversationID)
}

// UserTopic returns a user's private notification topic. Every session's
// aggregator holds it for its own user, so events published here reach
// the user regardless of which conversation they are watching.
func UserTopic(userID string) Topic {
	return Topic("user:" + userID)
}

// Event is one update published on the bus. Key is the primary key of the
// entity the payload describes, so consumers can merge later events for
// the same entity over earlier ones.
type Event struct {
	Topic   Topic       `json:"topic"`
	Kind    string      `json:"kind"`
	Key     string      `json:"key"`
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload"`
}

// Subscription is one subscriber's feed for a topic. Cancel is idempotent
// and closes C.
type Subscription struct {
	C      chan Event
	topic  Topic
	bus    *Bus
	cancel sync.Once
}

// Cancel detaches the subscription from the bus and closes its channel.
func (s *Subscription) Cancel() {
	s.cancel.Do(func() {
		s.bus.unsubscribe(s)
		close(s.C)
	})
}

// Bus is an in-process publish/subscribe fanout. Publish never blocks:
// a subscriber that cannot keep up has events dropped, not the publisher
// stalled.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic]map[*Subscription]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic]map[*Subscription]struct{})}
}

// Subscribe registers for a topic's events with the given channel buffer.
func (b *Bus) Subscribe(topic Topic, buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 16
	}
	sub := &Subscription{
		C:     make(chan Event, buffer),
		topic: topic,
		bus:   b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*Subscription]struct{})
	}
	b.subs[topic][sub] = struct{}{}
	return sub
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if set, ok := b.subs[sub.topic]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(b.subs, sub.topic)
		}
	}
}

// Publish delivers an event to every current subscriber of its topic.
func (b *Bus) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs[event.Topic] {
		select {
		case sub.C <- event:
		default:
			log.Printf("live: dropping %s event on topic %s, slow subscriber", event.Kind, event.Topic)
		}
	}
}

// SubscriberCount reports how many subscriptions a topic has.
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
