// internal/live/aggregator.go
package live

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

const outBuffer = 64

// Aggregator merges the live streams one connected client cares about into
// a single ordered channel. Every client gets the shared base topics;
// additionally, at most one direct message conversation is streamed at a
// time, switched with SelectConversation.
//
// The aggregator also folds events into a per-topic snapshot keyed by the
// event's entity key, so a late consumer can be brought up to date with
// Snapshot instead of replaying the stream.
type Aggregator struct {
	viewer uuid.UUID
	bus    *Bus
	out    chan Event

	mu       sync.Mutex
	state    map[Topic]map[string]Event
	baseSubs []*Subscription
	convID   string
	convSub  *Subscription
	closed   bool

	wg sync.WaitGroup
}

// NewAggregator subscribes the viewer to the base topics and starts
// pumping merged events to Out.
func NewAggregator(bus *Bus, viewer uuid.UUID) *Aggregator {
	a := &Aggregator{
		viewer: viewer,
		bus:    bus,
		out:    make(chan Event, outBuffer),
		state:  make(map[Topic]map[string]Event),
	}
	baseTopics := []Topic{
		TopicRoster, TopicPresence, TopicRequests, TopicGroup, TopicFeed,
		UserTopic(viewer.String()),
	}
	for _, topic := range baseTopics {
		sub := bus.Subscribe(topic, outBuffer)
		a.baseSubs = append(a.baseSubs, sub)
		a.wg.Add(1)
		go a.pump(sub)
	}
	return a
}

// Out is the merged event stream. It is closed by Close.
func (a *Aggregator) Out() <-chan Event {
	return a.out
}

// Viewer returns the user this aggregator serves.
func (a *Aggregator) Viewer() uuid.UUID {
	return a.viewer
}

func (a *Aggregator) pump(sub *Subscription) {
	defer a.wg.Done()
	for event := range sub.C {
		a.deliver(event)
	}
}

func (a *Aggregator) deliver(event Event) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	if a.state[event.Topic] == nil {
		a.state[event.Topic] = make(map[string]Event)
	}
	a.state[event.Topic][event.Key] = event
	a.mu.Unlock()

	select {
	case a.out <- event:
	default:
		log.Printf("live: dropping %s event for viewer %s, slow connection", event.Kind, a.viewer)
	}
}

// SelectConversation switches the streamed conversation. The previous
// conversation's subscription is cancelled and its folded state discarded,
// so events from an abandoned thread never reach the client. Seed events
// (the conversation's stored history) are folded in before the live
// subscription starts. Selecting the already-active conversation is a
// no-op; selecting the empty string just detaches.
func (a *Aggregator) SelectConversation(conversationID string, seed []Event) {
	a.mu.Lock()
	if a.closed || conversationID == a.convID {
		a.mu.Unlock()
		return
	}

	if a.convSub != nil {
		old := a.convSub
		delete(a.state, ConversationTopic(a.convID))
		a.convSub = nil
		a.convID = ""
		a.mu.Unlock()
		old.Cancel()
		a.mu.Lock()
	}

	if a.closed || conversationID == "" {
		a.mu.Unlock()
		return
	}

	topic := ConversationTopic(conversationID)
	a.state[topic] = make(map[string]Event)
	a.convID = conversationID
	sub := a.bus.Subscribe(topic, outBuffer)
	a.convSub = sub
	a.mu.Unlock()

	for _, event := range seed {
		event.Topic = topic
		a.deliver(event)
	}

	a.wg.Add(1)
	go a.pump(sub)
}

// ActiveConversation returns the currently streamed conversation ID, or
// the empty string.
func (a *Aggregator) ActiveConversation() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.convID
}

// Snapshot returns the latest event per entity for one topic.
func (a *Aggregator) Snapshot(topic Topic) []Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	events := make([]Event, 0, len(a.state[topic]))
	for _, event := range a.state[topic] {
		events = append(events, event)
	}
	return events
}

// Close cancels every subscription and closes Out. Safe to call more than
// once.
func (a *Aggregator) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	subs := make([]*Subscription, 0, len(a.baseSubs)+1)
	subs = append(subs, a.baseSubs...)
	if a.convSub != nil {
		subs = append(subs, a.convSub)
	}
	a.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
	a.wg.Wait()
	close(a.out)
}
