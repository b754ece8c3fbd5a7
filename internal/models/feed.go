package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedPost is a media post on the campus feed. Reactions use the same
// emoji -> user-id-set shape as group chat.
type FeedPost struct {
	ID           uuid.UUID           `json:"id"`
	AuthorID     uuid.UUID           `json:"authorId"`
	AuthorName   string              `json:"authorName"`
	AuthorEmail  string              `json:"authorEmail"`
	Caption      string              `json:"caption"`
	MediaURL     string              `json:"mediaUrl,omitempty"`
	MediaType    string              `json:"mediaType,omitempty"` // "photo" or "video"
	CreatedAt    time.Time           `json:"createdAt"`
	Reactions    map[string][]string `json:"reactions,omitempty"`
	CommentCount int                 `json:"commentCount"`
}

// Comment belongs to a feed post. StreakCount is computed at write time:
// if the post's latest comment is by the same author it is that comment's
// streak plus one, otherwise the streak resets to one.
type Comment struct {
	ID          uuid.UUID `json:"id"`
	PostID      uuid.UUID `json:"postId"`
	AuthorID    uuid.UUID `json:"authorId"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"createdAt"`
	StreakCount int       `json:"streakCount"`
}
