// internal/database/committee_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"campus-swamp/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommitteeEventDocument is the MongoDB schema for a committee event
// announcement.
type CommitteeEventDocument struct {
	ID           string    `bson:"_id"`
	Title        string    `bson:"title"`
	Description  string    `bson:"description,omitempty"`
	Date         time.Time `bson:"date"`
	Venue        string    `bson:"venue,omitempty"`
	PostedByID   string    `bson:"postedById"`
	PostedByName string    `bson:"postedByName"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// MediaItemDocument is the MongoDB schema for an uploaded media gallery
// entry.
type MediaItemDocument struct {
	ID             string    `bson:"_id"`
	URL            string    `bson:"url"`
	Type           string    `bson:"type"`
	UploadedByID   string    `bson:"uploadedById"`
	UploadedByName string    `bson:"uploadedByName"`
	CreatedAt      time.Time `bson:"createdAt"`
}

// CreateEvent persists a committee event.
func (m *MongoDB) CreateEvent(ctx context.Context, event *models.CommitteeEvent) error {
	doc := CommitteeEventDocument{
		ID:           event.ID.String(),
		Title:        event.Title,
		Description:  event.Description,
		Date:         event.Date,
		Venue:        event.Venue,
		PostedByID:   event.PostedByID.String(),
		PostedByName: event.PostedByName,
		CreatedAt:    event.CreatedAt,
	}
	if _, err := m.CommitteeEvents.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to save event: %v", err)
	}
	return nil
}

// GetEvents returns committee events, newest first.
func (m *MongoDB) GetEvents(ctx context.Context) ([]*models.CommitteeEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.CommitteeEvents.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.CommitteeEvent
	for cursor.Next(ctx) {
		var doc CommitteeEventDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid event id: %v", err)
		}
		postedBy, err := uuid.Parse(doc.PostedByID)
		if err != nil {
			return nil, fmt.Errorf("invalid postedById: %v", err)
		}
		events = append(events, &models.CommitteeEvent{
			ID:           id,
			Title:        doc.Title,
			Description:  doc.Description,
			Date:         doc.Date,
			Venue:        doc.Venue,
			PostedByID:   postedBy,
			PostedByName: doc.PostedByName,
			CreatedAt:    doc.CreatedAt,
		})
	}
	return events, cursor.Err()
}

// SaveMediaItem records an uploaded file in the gallery.
func (m *MongoDB) SaveMediaItem(ctx context.Context, item *models.MediaItem) error {
	doc := MediaItemDocument{
		ID:             item.ID.String(),
		URL:            item.URL,
		Type:           item.Type,
		UploadedByID:   item.UploadedByID.String(),
		UploadedByName: item.UploadedByName,
		CreatedAt:      item.CreatedAt,
	}
	if _, err := m.Media.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to save media item: %v", err)
	}
	return nil
}

// GetMedia returns gallery items, newest first.
func (m *MongoDB) GetMedia(ctx context.Context) ([]*models.MediaItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.Media.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*models.MediaItem
	for cursor.Next(ctx) {
		var doc MediaItemDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid media id: %v", err)
		}
		uploadedBy, err := uuid.Parse(doc.UploadedByID)
		if err != nil {
			return nil, fmt.Errorf("invalid uploadedById: %v", err)
		}
		items = append(items, &models.MediaItem{
			ID:             id,
			URL:            doc.URL,
			Type:           doc.Type,
			UploadedByID:   uploadedBy,
			UploadedByName: doc.UploadedByName,
			CreatedAt:      doc.CreatedAt,
		})
	}
	return items, cursor.Err()
}
