package models

import (
	"time"

	"github.com/google/uuid"
)

// ReplySnapshot is a value copy of the message being replied to. It is
// deliberately not a reference: the preview must keep rendering even if the
// original message changes or disappears.
type ReplySnapshot struct {
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
}

// GroupMessage is a message in the global campus channel. Reactions map an
// emoji to the set of user ids who reacted with it.
type GroupMessage struct {
	ID          uuid.UUID           `json:"id"`
	SenderID    uuid.UUID           `json:"senderId"`
	SenderName  string              `json:"senderName"`
	SenderEmail string              `json:"senderEmail"`
	Text        string              `json:"text"`
	CreatedAt   time.Time           `json:"createdAt"`
	Reactions   map[string][]string `json:"reactions,omitempty"`
	ReplyTo     *ReplySnapshot      `json:"replyTo,omitempty"`
}
