// internal/database/presence_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"campus-swamp/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PresenceDocument represents the MongoDB schema for a presence record
type PresenceDocument struct {
	ID            string    `bson:"_id"` // user ID
	IsOnline      bool      `bson:"isOnline"`
	LastHeartbeat time.Time `bson:"lastHeartbeat"`
}

// SetPresence upserts a user's presence record. Each user only ever writes
// their own record, so last-writer-wins is safe here.
func (m *MongoDB) SetPresence(ctx context.Context, userID uuid.UUID, isOnline bool) error {
	doc := PresenceDocument{
		ID:            userID.String(),
		IsOnline:      isOnline,
		LastHeartbeat: time.Now(),
	}

	opts := options.Update().SetUpsert(true)
	_, err := m.UserStatus.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	if err != nil {
		return fmt.Errorf("failed to write presence for %s: %v", userID, err)
	}
	return nil
}

// GetPresence returns a user's presence record, or nil if none was ever
// written (a user who never connected reads as offline).
func (m *MongoDB) GetPresence(ctx context.Context, userID uuid.UUID) (*models.PresenceRecord, error) {
	var doc PresenceDocument
	err := m.UserStatus.FindOne(ctx, bson.M{"_id": userID.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return presenceFromDocument(&doc)
}

// GetAllPresence returns presence records keyed by user ID.
func (m *MongoDB) GetAllPresence(ctx context.Context) (map[uuid.UUID]*models.PresenceRecord, error) {
	cursor, err := m.UserStatus.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make(map[uuid.UUID]*models.PresenceRecord)
	for cursor.Next(ctx) {
		var doc PresenceDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		record, err := presenceFromDocument(&doc)
		if err != nil {
			return nil, err
		}
		records[record.UserID] = record
	}
	return records, cursor.Err()
}

func presenceFromDocument(doc *PresenceDocument) (*models.PresenceRecord, error) {
	userID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in presence record: %v", err)
	}
	return &models.PresenceRecord{
		UserID:        userID,
		IsOnline:      doc.IsOnline,
		LastHeartbeat: doc.LastHeartbeat,
	}, nil
}
