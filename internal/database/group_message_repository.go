// internal/database/group_message_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"campus-swamp/internal/models"
	"campus-swamp/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GroupMessageDocument is the MongoDB schema for a message in the shared
// community chat. Reactions map emoji to the user IDs who added them.
type GroupMessageDocument struct {
	ID          string              `bson:"_id"`
	SenderID    string              `bson:"senderId"`
	SenderName  string              `bson:"senderName"`
	SenderEmail string              `bson:"senderEmail"`
	Text        string              `bson:"text"`
	CreatedAt   time.Time           `bson:"createdAt"`
	Reactions   map[string][]string `bson:"reactions,omitempty"`
	ReplyTo     *ReplySnapshotDoc   `bson:"replyTo,omitempty"`
}

// ReplySnapshotDoc freezes the quoted message at send time. It is a copy,
// not a reference, so later edits or deletions do not change it.
type ReplySnapshotDoc struct {
	SenderName string `bson:"senderName"`
	Text       string `bson:"text"`
}

func groupMessageFromDocument(doc *GroupMessageDocument) (*models.GroupMessage, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid message id: %v", err)
	}
	senderID, err := uuid.Parse(doc.SenderID)
	if err != nil {
		return nil, fmt.Errorf("invalid senderId: %v", err)
	}
	msg := &models.GroupMessage{
		ID:          id,
		SenderID:    senderID,
		SenderName:  doc.SenderName,
		SenderEmail: doc.SenderEmail,
		Text:        doc.Text,
		CreatedAt:   doc.CreatedAt,
		Reactions:   doc.Reactions,
	}
	if msg.Reactions == nil {
		msg.Reactions = map[string][]string{}
	}
	if doc.ReplyTo != nil {
		msg.ReplyTo = &models.ReplySnapshot{
			SenderName: doc.ReplyTo.SenderName,
			Text:       doc.ReplyTo.Text,
		}
	}
	return msg, nil
}

// SaveGroupMessage persists a new group chat message.
func (m *MongoDB) SaveGroupMessage(ctx context.Context, msg *models.GroupMessage) error {
	doc := GroupMessageDocument{
		ID:          msg.ID.String(),
		SenderID:    msg.SenderID.String(),
		SenderName:  msg.SenderName,
		SenderEmail: msg.SenderEmail,
		Text:        msg.Text,
		CreatedAt:   msg.CreatedAt,
		Reactions:   msg.Reactions,
	}
	if msg.ReplyTo != nil {
		doc.ReplyTo = &ReplySnapshotDoc{
			SenderName: msg.ReplyTo.SenderName,
			Text:       msg.ReplyTo.Text,
		}
	}
	if _, err := m.GroupMessages.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to save group message: %v", err)
	}
	return nil
}

// GetGroupMessage loads one message by ID.
func (m *MongoDB) GetGroupMessage(ctx context.Context, messageID uuid.UUID) (*models.GroupMessage, error) {
	var doc GroupMessageDocument
	err := m.GroupMessages.FindOne(ctx, bson.M{"_id": messageID.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Message not found", nil)
	}
	if err != nil {
		return nil, err
	}
	return groupMessageFromDocument(&doc)
}

// GetRecentGroupMessages returns the latest messages in chronological
// order. limit <= 0 means no limit.
func (m *MongoDB) GetRecentGroupMessages(ctx context.Context, limit int) ([]*models.GroupMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := m.GroupMessages.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []*models.GroupMessage
	for cursor.Next(ctx) {
		var doc GroupMessageDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		msg, err := groupMessageFromDocument(&doc)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	// Fetched newest-first for the limit; callers want oldest-first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// ToggleGroupReaction adds the user to an emoji's reaction set, or removes
// them if already present. Returns the updated message.
func (m *MongoDB) ToggleGroupReaction(ctx context.Context, messageID, userID uuid.UUID, emoji string) (*models.GroupMessage, error) {
	msg, err := m.GetGroupMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}

	toggleReaction(msg.Reactions, emoji, userID.String())

	update := bson.M{"$set": bson.M{"reactions": msg.Reactions}}
	if len(msg.Reactions) == 0 {
		update = bson.M{"$unset": bson.M{"reactions": ""}}
	}
	if _, err := m.GroupMessages.UpdateOne(ctx, bson.M{"_id": messageID.String()}, update); err != nil {
		return nil, fmt.Errorf("failed to update reactions: %v", err)
	}
	return msg, nil
}

// toggleReaction flips one user's membership in a reaction set, pruning the
// emoji entry when its last reactor leaves.
func toggleReaction(reactions map[string][]string, emoji, userID string) {
	users := reactions[emoji]
	for i, u := range users {
		if u == userID {
			users = append(users[:i], users[i+1:]...)
			if len(users) == 0 {
				delete(reactions, emoji)
			} else {
				reactions[emoji] = users
			}
			return
		}
	}
	reactions[emoji] = append(users, userID)
}
