package models

import (
	"time"

	"github.com/google/uuid"
)

// DirectMessage is a private message between two users. Messages are
// immutable except for the read flag, which only ever goes false -> true,
// set by the receiver. Sender name and email are snapshots taken when the
// message was sent.
type DirectMessage struct {
	ID             uuid.UUID `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       uuid.UUID `json:"senderId"`
	ReceiverID     uuid.UUID `json:"receiverId"`
	SenderName     string    `json:"senderName"`
	SenderEmail    string    `json:"senderEmail"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
	Read           bool      `json:"read"`
}

// ConversationSummary is one row of a user's inbox: the other participant,
// the latest message, and how many of their messages are still unread.
type ConversationSummary struct {
	ConversationID  string     `json:"conversationId"`
	OtherUserID     uuid.UUID  `json:"otherUserId"`
	LastMessage     string     `json:"lastMessage,omitempty"`
	LastMessageTime *time.Time `json:"lastMessageTime,omitempty"`
	UnreadCount     int        `json:"unreadCount"`
}

// ConversationID maps a user pair to its thread key. Symmetric by
// construction: ConversationID(a,b) == ConversationID(b,a).
func ConversationID(a, b uuid.UUID) string {
	return PairKey(a, b)
}
