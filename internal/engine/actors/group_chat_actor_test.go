package actors

import (
	"testing"
	"time"

	"campus-swamp/internal/database"
	"campus-swamp/internal/live"
	"campus-swamp/internal/models"
	"campus-swamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func spawnGroupChatActor(system *actor.ActorSystem, mongodb *database.MongoDB, bus *live.Bus) *actor.PID {
	return system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewGroupChatActor(mongodb, bus)
	}))
}

func TestGroupMessageSendAndHistory(t *testing.T) {
	system, mongodb, bus := testEnv(t)
	supervisor := spawnUserSupervisor(system, mongodb, bus)
	chat := spawnGroupChatActor(system, mongodb, bus)

	rita := registerUser(t, system, supervisor, "rita")

	result := askActor(t, system, chat, &SendGroupMessageMsg{SenderID: rita.ID, Text: "  "})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrEmptyText, appErr.Code)

	for _, text := range []string{"morning", "anyone around?", "meeting at 5"} {
		time.Sleep(5 * time.Millisecond) // distinct createdAt at millisecond precision
		result = askActor(t, system, chat, &SendGroupMessageMsg{SenderID: rita.ID, Text: text})
		message, ok := result.(*models.GroupMessage)
		assert.True(t, ok)
		assert.Equal(t, "rita", message.SenderName)
		assert.NotNil(t, message.Reactions)
	}

	// History returns oldest first; limit trims to the newest messages.
	history := askActor(t, system, chat, &GetGroupMessagesMsg{Limit: 2}).([]*models.GroupMessage)
	assert.Len(t, history, 2)
	assert.Equal(t, "anyone around?", history[0].Text)
	assert.Equal(t, "meeting at 5", history[1].Text)
}

func TestGroupMessageReplySnapshot(t *testing.T) {
	system, mongodb, bus := testEnv(t)
	supervisor := spawnUserSupervisor(system, mongodb, bus)
	chat := spawnGroupChatActor(system, mongodb, bus)

	sam := registerUser(t, system, supervisor, "sam")
	tess := registerUser(t, system, supervisor, "tess")

	original := askActor(t, system, chat, &SendGroupMessageMsg{SenderID: sam.ID, Text: "pizza tonight?"}).(*models.GroupMessage)

	reply := askActor(t, system, chat, &SendGroupMessageMsg{
		SenderID:  tess.ID,
		Text:      "count me in",
		ReplyToID: &original.ID,
	}).(*models.GroupMessage)
	assert.NotNil(t, reply.ReplyTo)
	assert.Equal(t, "sam", reply.ReplyTo.SenderName)
	assert.Equal(t, "pizza tonight?", reply.ReplyTo.Text)

	missing := uuid.New()
	result := askActor(t, system, chat, &SendGroupMessageMsg{
		SenderID:  tess.ID,
		Text:      "replying to nothing",
		ReplyToID: &missing,
	})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestGroupReactionToggle(t *testing.T) {
	system, mongodb, bus := testEnv(t)
	supervisor := spawnUserSupervisor(system, mongodb, bus)
	chat := spawnGroupChatActor(system, mongodb, bus)

	uma := registerUser(t, system, supervisor, "uma")
	vic := registerUser(t, system, supervisor, "vic")

	message := askActor(t, system, chat, &SendGroupMessageMsg{SenderID: uma.ID, Text: "big announcement"}).(*models.GroupMessage)

	result := askActor(t, system, chat, &ToggleGroupReactionMsg{MessageID: message.ID, UserID: vic.ID, Emoji: ""})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	updated := askActor(t, system, chat, &ToggleGroupReactionMsg{MessageID: message.ID, UserID: vic.ID, Emoji: "🔥"}).(*models.GroupMessage)
	assert.Equal(t, []string{vic.ID.String()}, updated.Reactions["🔥"])

	updated = askActor(t, system, chat, &ToggleGroupReactionMsg{MessageID: message.ID, UserID: uma.ID, Emoji: "🔥"}).(*models.GroupMessage)
	assert.Len(t, updated.Reactions["🔥"], 2)

	// Toggling again removes only that user's entry.
	updated = askActor(t, system, chat, &ToggleGroupReactionMsg{MessageID: message.ID, UserID: vic.ID, Emoji: "🔥"}).(*models.GroupMessage)
	assert.Equal(t, []string{uma.ID.String()}, updated.Reactions["🔥"])

	// Removing the last reactor prunes the emoji entirely.
	updated = askActor(t, system, chat, &ToggleGroupReactionMsg{MessageID: message.ID, UserID: uma.ID, Emoji: "🔥"}).(*models.GroupMessage)
	_, present := updated.Reactions["🔥"]
	assert.False(t, present)
}
