// internal/database/message_repository.go
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

// DirectMessageDocument is the MongoDB schema for a direct message.
type DirectMessageDocument struct {
	ID             string    `bson:"_id"`
	ConversationID string    `bson:"conversationId"`
	SenderID       string    `bson:"senderId"`
	ReceiverID     string    `bson:"receiverId"`
	SenderName     string    `bson:"senderName"`
	SenderEmail    string    `bson:"senderEmail"`
	Text           string    `bson:"text"`
	CreatedAt      time.Time `bson:"createdAt"`
	Read           bool      `bson:"read"`
}

func directMessageFromDocument(doc *DirectMessageDocument) (*models.DirectMessage, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid message id: %v", err)
	}
	senderID, err := uuid.Parse(doc.SenderID)
	if err != nil {
		return nil, fmt.Errorf("invalid senderId: %v", err)
	}
	receiverID, err := uuid.Parse(doc.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("invalid receiverId: %v", err)
	}
	return &models.DirectMessage{
		ID:             id,
		ConversationID: doc.ConversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		SenderName:     doc.SenderName,
		SenderEmail:    doc.SenderEmail,
		Text:           doc.Text,
		CreatedAt:      doc.CreatedAt,
		Read:           doc.Read,
	}, nil
}

// SaveDirectMessage persists a new direct message.
func (m *MongoDB) SaveDirectMessage(ctx context.Context, msg *models.DirectMessage) error {
	doc := DirectMessageDocument{
		ID:             msg.ID.String(),
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID.String(),
		ReceiverID:     msg.ReceiverID.String(),
		SenderName:     msg.SenderName,
		SenderEmail:    msg.SenderEmail,
		Text:           msg.Text,
		CreatedAt:      msg.CreatedAt,
		Read:           msg.Read,
	}
	if _, err := m.DirectMessages.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to save direct message: %v", err)
	}
	return nil
}

// GetConversation returns all messages of a conversation ordered oldest
// first.
func (m *MongoDB) GetConversation(ctx context.Context, conversationID string) ([]*models.DirectMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := m.DirectMessages.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	return decodeDirectMessages(ctx, cursor)
}

func decodeDirectMessages(ctx context.Context, cursor *mongo.Cursor) ([]*models.DirectMessage, error) {
	var messages []*models.DirectMessage
	for cursor.Next(ctx) {
		var doc DirectMessageDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		msg, err := directMessageFromDocument(&doc)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, cursor.Err()
}

// MarkMessageRead flips a single message to read. Only the receiver may
// mark a message, and marking an already-read message is a no-op.
func (m *MongoDB) MarkMessageRead(ctx context.Context, messageID, readerID uuid.UUID) error {
	var doc DirectMessageDocument
	err := m.DirectMessages.FindOne(ctx, bson.M{"_id": messageID.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return utils.NewAppError(utils.ErrNotFound, "Message not found", nil)
	}
	if err != nil {
		return err
	}
	if doc.ReceiverID != readerID.String() {
		return utils.NewNotAuthorizedError("only the receiver may mark a message as read")
	}
	if doc.Read {
		return nil
	}
	_, err = m.DirectMessages.UpdateOne(ctx,
		bson.M{"_id": messageID.String()},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %v", err)
	}
	return nil
}

// MarkConversationRead marks every message addressed to the reader in the
// conversation as read and returns how many were flipped.
func (m *MongoDB) MarkConversationRead(ctx context.Context, conversationID string, readerID uuid.UUID) (int64, error) {
	result, err := m.DirectMessages.UpdateMany(ctx,
		bson.M{
			"conversationId": conversationID,
			"receiverId":     readerID.String(),
			"read":           false,
		},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark conversation read: %v", err)
	}
	return result.ModifiedCount, nil
}

// UnreadCount returns the number of unread messages addressed to the user
// in one conversation.
func (m *MongoDB) UnreadCount(ctx context.Context, conversationID string, userID uuid.UUID) (int64, error) {
	return m.DirectMessages.CountDocuments(ctx, bson.M{
		"conversationId": conversationID,
		"receiverId":     userID.String(),
		"read":           false,
	})
}

// GetConversationSummaries returns one summary per conversation the user
// participates in, newest activity first. Built with an aggregation that
// sorts messages newest first and keeps the first per conversation, then a
// second pass counts unread messages.
func (m *MongoDB) GetConversationSummaries(ctx context.Context, userID uuid.UUID) ([]*models.ConversationSummary, error) {
	uid := userID.String()
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"senderId": uid},
			bson.M{"receiverId": uid},
		}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":  "$conversationId",
			"last": bson.M{"$first": "$$ROOT"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "last.createdAt", Value: -1}}}},
	}

	cursor, err := m.DirectMessages.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate conversations: %v", err)
	}
	defer cursor.Close(ctx)

	var summaries []*models.ConversationSummary
	for cursor.Next(ctx) {
		var row struct {
			ID   string                `bson:"_id"`
			Last DirectMessageDocument `bson:"last"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		last, err := directMessageFromDocument(&row.Last)
		if err != nil {
			return nil, err
		}

		other := last.SenderID
		if other == userID {
			other = last.ReceiverID
		}

		unread, err := m.UnreadCount(ctx, row.ID, userID)
		if err != nil {
			return nil, err
		}

		lastAt := last.CreatedAt
		summaries = append(summaries, &models.ConversationSummary{
			ConversationID:  row.ID,
			OtherUserID:     other,
			LastMessage:     last.Text,
			LastMessageTime: &lastAt,
			UnreadCount:     int(unread),
		})
	}
	return summaries, cursor.Err()
}
