// internal/engine/actors/group_chat_actor.go
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

// Message types for the shared community chat
type (
	SendGroupMessageMsg struct {
		SenderID  uuid.UUID
		Text      string
		ReplyToID *uuid.UUID
	}

	GetGroupMessagesMsg struct {
		Limit int
	}

	ToggleGroupReactionMsg struct {
		MessageID uuid.UUID
		UserID    uuid.UUID
		Emoji     string
	}
)

// GroupChatActor serializes the single community-wide chat room.
type GroupChatActor struct {
	mongodb *database.MongoDB
	bus     *live.Bus
}

func NewGroupChatActor(mongodb *database.MongoDB, bus *live.Bus) *GroupChatActor {
	return &GroupChatActor{mongodb: mongodb, bus: bus}
}

func (a *GroupChatActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *SendGroupMessageMsg:
		a.handleSend(context, msg)
	case *GetGroupMessagesMsg:
		messages, err := a.mongodb.GetRecentGroupMessages(stdctx.Background(), msg.Limit)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to load messages", err))
			return
		}
		if messages == nil {
			messages = []*models.GroupMessage{}
		}
		context.Respond(messages)
	case *ToggleGroupReactionMsg:
		a.handleToggleReaction(context, msg)
	}
}

func (a *GroupChatActor) handleSend(context actor.Context, msg *SendGroupMessageMsg) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		context.Respond(utils.NewEmptyTextError())
		return
	}

	ctx := stdctx.Background()
	sender, err := a.mongodb.GetUser(ctx, msg.SenderID)
	if err != nil {
		context.Respond(utils.NewUserNotFoundError(msg.SenderID.String()))
		return
	}

	message := &models.GroupMessage{
		ID:          uuid.New(),
		SenderID:    sender.ID,
		SenderName:  sender.Name,
		SenderEmail: sender.Email,
		Text:        text,
		CreatedAt:   time.Now(),
		Reactions:   map[string][]string{},
	}

	// The quoted message is copied, not referenced: the snapshot stays
	// intact no matter what happens to the original.
	if msg.ReplyToID != nil {
		quoted, err := a.mongodb.GetGroupMessage(ctx, *msg.ReplyToID)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrNotFound, "Quoted message not found", err))
			return
		}
		message.ReplyTo = &models.ReplySnapshot{
			SenderName: quoted.SenderName,
			Text:       quoted.Text,
		}
	}

	if err := a.mongodb.SaveGroupMessage(ctx, message); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save message", err))
		return
	}

	a.bus.Publish(live.Event{
		Topic:   live.TopicGroup,
		Kind:    "message",
		Key:     message.ID.String(),
		Payload: message,
	})
	context.Respond(message)
}

func (a *GroupChatActor) handleToggleReaction(context actor.Context, msg *ToggleGroupReactionMsg) {
	if strings.TrimSpace(msg.Emoji) == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Emoji is required", nil))
		return
	}

	ctx := stdctx.Background()
	message, err := a.mongodb.ToggleGroupReaction(ctx, msg.MessageID, msg.UserID, msg.Emoji)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to toggle reaction", err))
		return
	}

	a.bus.Publish(live.Event{
		Topic:   live.TopicGroup,
		Kind:    "reaction",
		Key:     message.ID.String(),
		Payload: message,
	})
	context.Respond(message)
}
