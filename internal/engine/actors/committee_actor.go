// internal/engine/actors/committee_actor.go
package actors

import (
	"strings"
	"time"

	stdctx "context"

	"campus-swamp/internal/database"
	"campus-swamp/internal/models"
	"campus-swamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for committee announcements and the media gallery
type (
	CreateEventMsg struct {
		PostedByID  uuid.UUID
		Title       string
		Description string
		Date        time.Time
		Venue       string
	}

	GetEventsMsg struct{}

	SaveMediaItemMsg struct {
		UploadedByID uuid.UUID
		URL          string
		Type         string
	}

	GetMediaMsg struct{}
)

type CommitteeActor struct {
	mongodb *database.MongoDB
}

func NewCommitteeActor(mongodb *database.MongoDB) *CommitteeActor {
	return &CommitteeActor{mongodb: mongodb}
}

func (a *CommitteeActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *CreateEventMsg:
		a.handleCreateEvent(context, msg)
	case *GetEventsMsg:
		events, err := a.mongodb.GetEvents(stdctx.Background())
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to load events", err))
			return
		}
		if events == nil {
			events = []*models.CommitteeEvent{}
		}
		context.Respond(events)
	case *SaveMediaItemMsg:
		a.handleSaveMedia(context, msg)
	case *GetMediaMsg:
		items, err := a.mongodb.GetMedia(stdctx.Background())
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to load media", err))
			return
		}
		if items == nil {
			items = []*models.MediaItem{}
		}
		context.Respond(items)
	}
}

func (a *CommitteeActor) handleCreateEvent(context actor.Context, msg *CreateEventMsg) {
	if strings.TrimSpace(msg.Title) == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Event title is required", nil))
		return
	}

	ctx := stdctx.Background()
	author, err := a.mongodb.GetUser(ctx, msg.PostedByID)
	if err != nil {
		context.Respond(utils.NewUserNotFoundError(msg.PostedByID.String()))
		return
	}

	event := &models.CommitteeEvent{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(msg.Title),
		Description:  strings.TrimSpace(msg.Description),
		Date:         msg.Date,
		Venue:        strings.TrimSpace(msg.Venue),
		PostedByID:   author.ID,
		PostedByName: author.Name,
		CreatedAt:    time.Now(),
	}
	if err := a.mongodb.CreateEvent(ctx, event); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save event", err))
		return
	}
	context.Respond(event)
}

func (a *CommitteeActor) handleSaveMedia(context actor.Context, msg *SaveMediaItemMsg) {
	if msg.URL == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Media URL is required", nil))
		return
	}

	ctx := stdctx.Background()
	uploader, err := a.mongodb.GetUser(ctx, msg.UploadedByID)
	if err != nil {
		context.Respond(utils.NewUserNotFoundError(msg.UploadedByID.String()))
		return
	}

	item := &models.MediaItem{
		ID:             uuid.New(),
		URL:            msg.URL,
		Type:           msg.Type,
		UploadedByID:   uploader.ID,
		UploadedByName: uploader.Name,
		CreatedAt:      time.Now(),
	}
	if err := a.mongodb.SaveMediaItem(ctx, item); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save media item", err))
		return
	}
	context.Respond(item)
}
