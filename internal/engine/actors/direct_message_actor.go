// internal/engine/actors/direct_message_actor.go
package actors

import (
	"strings"
	"time"

	stdctx "context"

	"campus-swamp/internal/database"
	"campus-swamp/internal/live"
	"campus-swamp/internal/models"
	"campus-swamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for the direct message subsystem
type (
	SendDirectMessageMsg struct {
		FromID uuid.UUID
		ToID   uuid.UUID
		Text   string
	}

	GetConversationMsg struct {
		ViewerID uuid.UUID
		OtherID  uuid.UUID
	}

	MarkMessageReadMsg struct {
		MessageID uuid.UUID
		ReaderID  uuid.UUID
	}

	MarkConversationReadMsg struct {
		ConversationID string
		ReaderID       uuid.UUID
	}

	GetUnreadCountMsg struct {
		ConversationID string
		UserID         uuid.UUID
	}

	GetConversationSummariesMsg struct {
		UserID uuid.UUID
	}
)

// UnreadCountResponse carries one conversation's unread total.
type UnreadCountResponse struct {
	ConversationID string `json:"conversationId"`
	Count          int64  `json:"count"`
}

// MarkReadResponse acknowledges a bulk read marking.
type MarkReadResponse struct {
	Marked int64 `json:"marked"`
}

// DirectMessageActor serializes private messaging. Sending requires an
// accepted friendship between the two users.
type DirectMessageActor struct {
	mongodb *database.MongoDB
	bus     *live.Bus
}

func NewDirectMessageActor(mongodb *database.MongoDB, bus *live.Bus) *DirectMessageActor {
	return &DirectMessageActor{mongodb: mongodb, bus: bus}
}

func (a *DirectMessageActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *SendDirectMessageMsg:
		a.handleSend(context, msg)
	case *GetConversationMsg:
		a.handleGetConversation(context, msg)
	case *MarkMessageReadMsg:
		a.handleMarkRead(context, msg)
	case *MarkConversationReadMsg:
		a.handleMarkConversationRead(context, msg)
	case *GetUnreadCountMsg:
		count, err := a.mongodb.UnreadCount(stdctx.Background(), msg.ConversationID, msg.UserID)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to count unread messages", err))
			return
		}
		context.Respond(&UnreadCountResponse{ConversationID: msg.ConversationID, Count: count})
	case *GetConversationSummariesMsg:
		summaries, err := a.mongodb.GetConversationSummaries(stdctx.Background(), msg.UserID)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to load conversations", err))
			return
		}
		if summaries == nil {
			summaries = []*models.ConversationSummary{}
		}
		context.Respond(summaries)
	}
}

func (a *DirectMessageActor) handleSend(context actor.Context, msg *SendDirectMessageMsg) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		context.Respond(utils.NewEmptyTextError())
		return
	}
	if msg.FromID == msg.ToID {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Cannot message yourself", nil))
		return
	}

	ctx := stdctx.Background()
	friends, err := a.mongodb.AreFriends(ctx, msg.FromID, msg.ToID)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to check friendship", err))
		return
	}
	if !friends {
		context.Respond(utils.NewNotAuthorizedError("direct messages require an accepted friendship"))
		return
	}

	sender, err := a.mongodb.GetUser(ctx, msg.FromID)
	if err != nil {
		context.Respond(utils.NewUserNotFoundError(msg.FromID.String()))
		return
	}

	message := &models.DirectMessage{
		ID:             uuid.New(),
		ConversationID: models.ConversationID(msg.FromID, msg.ToID),
		SenderID:       msg.FromID,
		ReceiverID:     msg.ToID,
		SenderName:     sender.Name,
		SenderEmail:    sender.Email,
		Text:           text,
		CreatedAt:      time.Now(),
	}
	if err := a.mongodb.SaveDirectMessage(ctx, message); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save message", err))
		return
	}

	a.bus.Publish(live.Event{
		Topic:   live.ConversationTopic(message.ConversationID),
		Kind:    "message",
		Key:     message.ID.String(),
		Payload: message,
	})
	// The conversation topic only reaches a receiver who has that thread
	// open; their private topic carries the notification regardless.
	a.bus.Publish(live.Event{
		Topic:   live.UserTopic(msg.ToID.String()),
		Kind:    "direct_message",
		Key:     message.ID.String(),
		Payload: message,
	})
	context.Respond(message)
}

func (a *DirectMessageActor) handleGetConversation(context actor.Context, msg *GetConversationMsg) {
	ctx := stdctx.Background()
	conversationID := models.ConversationID(msg.ViewerID, msg.OtherID)
	messages, err := a.mongodb.GetConversation(ctx, conversationID)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to load conversation", err))
		return
	}
	if messages == nil {
		messages = []*models.DirectMessage{}
	}
	context.Respond(messages)
}

func (a *DirectMessageActor) handleMarkRead(context actor.Context, msg *MarkMessageReadMsg) {
	ctx := stdctx.Background()
	if err := a.mongodb.MarkMessageRead(ctx, msg.MessageID, msg.ReaderID); err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to mark message read", err))
		return
	}
	context.Respond(&MarkReadResponse{Marked: 1})
}

func (a *DirectMessageActor) handleMarkConversationRead(context actor.Context, msg *MarkConversationReadMsg) {
	ctx := stdctx.Background()
	marked, err := a.mongodb.MarkConversationRead(ctx, msg.ConversationID, msg.ReaderID)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to mark conversation read", err))
		return
	}
	context.Respond(&MarkReadResponse{Marked: marked})
}
