package live

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func waitForEvent(t *testing.T, out <-chan Event) Event {
	t.Helper()
	select {
	case event, open := <-out:
		if !open {
			t.Fatal("stream closed unexpectedly")
		}
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestAggregatorReceivesBaseTopics(t *testing.T) {
	bus := NewBus()
	agg := NewAggregator(bus, uuid.New())
	defer agg.Close()

	bus.Publish(Event{Topic: TopicPresence, Kind: "online", Key: "u1"})
	event := waitForEvent(t, agg.Out())
	assert.Equal(t, TopicPresence, event.Topic)
	assert.Equal(t, "u1", event.Key)

	bus.Publish(Event{Topic: TopicFeed, Kind: "post", Key: "p1"})
	event = waitForEvent(t, agg.Out())
	assert.Equal(t, TopicFeed, event.Topic)
}

func TestAggregatorReceivesOwnUserTopic(t *testing.T) {
	bus := NewBus()
	viewer := uuid.New()
	other := uuid.New()
	viewerAgg := NewAggregator(bus, viewer)
	defer viewerAgg.Close()
	otherAgg := NewAggregator(bus, other)
	defer otherAgg.Close()

	bus.Publish(Event{Topic: UserTopic(viewer.String()), Kind: "direct_message", Key: "m1"})
	event := waitForEvent(t, viewerAgg.Out())
	assert.Equal(t, UserTopic(viewer.String()), event.Topic)
	assert.Equal(t, "direct_message", event.Kind)

	// The other user's aggregator must not see someone else's topic.
	bus.Publish(Event{Topic: TopicFeed, Kind: "post", Key: "p1"})
	event = waitForEvent(t, otherAgg.Out())
	assert.Equal(t, TopicFeed, event.Topic)
	assert.Empty(t, otherAgg.Snapshot(UserTopic(viewer.String())))
}

func TestAggregatorSnapshotKeepsLatestPerKey(t *testing.T) {
	bus := NewBus()
	agg := NewAggregator(bus, uuid.New())
	defer agg.Close()

	bus.Publish(Event{Topic: TopicPresence, Kind: "online", Key: "u1"})
	waitForEvent(t, agg.Out())
	bus.Publish(Event{Topic: TopicPresence, Kind: "offline", Key: "u1"})
	waitForEvent(t, agg.Out())

	snapshot := agg.Snapshot(TopicPresence)
	assert.Len(t, snapshot, 1)
	assert.Equal(t, "offline", snapshot[0].Kind)
}

func TestAggregatorConversationSwitching(t *testing.T) {
	bus := NewBus()
	agg := NewAggregator(bus, uuid.New())
	defer agg.Close()

	agg.SelectConversation("a_b", nil)
	assert.Equal(t, "a_b", agg.ActiveConversation())

	bus.Publish(Event{Topic: ConversationTopic("a_b"), Kind: "message", Key: "m1"})
	event := waitForEvent(t, agg.Out())
	assert.Equal(t, ConversationTopic("a_b"), event.Topic)

	// Switching threads must stop delivery from the old one.
	agg.SelectConversation("a_c", nil)
	assert.Equal(t, "a_c", agg.ActiveConversation())
	assert.Equal(t, 0, bus.SubscriberCount(ConversationTopic("a_b")))
	assert.Empty(t, agg.Snapshot(ConversationTopic("a_b")))

	bus.Publish(Event{Topic: ConversationTopic("a_b"), Kind: "message", Key: "m2"})
	bus.Publish(Event{Topic: ConversationTopic("a_c"), Kind: "message", Key: "m3"})
	event = waitForEvent(t, agg.Out())
	assert.Equal(t, ConversationTopic("a_c"), event.Topic)
	assert.Equal(t, "m3", event.Key)
}

func TestAggregatorSeedEvents(t *testing.T) {
	bus := NewBus()
	agg := NewAggregator(bus, uuid.New())
	defer agg.Close()

	seed := []Event{
		{Kind: "message", Key: "m1"},
		{Kind: "message", Key: "m2"},
	}
	agg.SelectConversation("a_b", seed)

	first := waitForEvent(t, agg.Out())
	second := waitForEvent(t, agg.Out())
	assert.Equal(t, "m1", first.Key)
	assert.Equal(t, "m2", second.Key)
	assert.Equal(t, ConversationTopic("a_b"), first.Topic)
	assert.Len(t, agg.Snapshot(ConversationTopic("a_b")), 2)
}

func TestAggregatorCloseReleasesSubscriptions(t *testing.T) {
	bus := NewBus()
	agg := NewAggregator(bus, uuid.New())
	agg.SelectConversation("a_b", nil)

	agg.Close()
	agg.Close() // idempotent

	assert.Equal(t, 0, bus.SubscriberCount(TopicPresence))
	assert.Equal(t, 0, bus.SubscriberCount(ConversationTopic("a_b")))

	_, open := <-agg.Out()
	assert.False(t, open)
}
