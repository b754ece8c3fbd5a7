package models

import (
	"time"

	"github.com/google/uuid"
)

// CommitteeEvent is an announcement posted by a committee member.
type CommitteeEvent struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Venue        string    `json:"venue"`
	PostedByID   uuid.UUID `json:"postedById"`
	PostedByName string    `json:"postedByName"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MediaItem is an uploaded file in the shared gallery. URL points at the
// object storage bucket.
type MediaItem struct {
	ID             uuid.UUID `json:"id"`
	URL            string    `json:"url"`
	Type           string    `json:"type"` // "photo" or "video"
	UploadedByID   uuid.UUID `json:"uploadedById"`
	UploadedByName string    `json:"uploadedByName"`
	CreatedAt      time.Time `json:"createdAt"`
}
