package actors

import (
	"testing"
	"time"

	"campus-swamp/internal/database"
	"campus-swamp/internal/models"
	"campus-swamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
)

func spawnCommitteeActor(system *actor.ActorSystem, mongodb *database.MongoDB) *actor.PID {
	return system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewCommitteeActor(mongodb)
	}))
}

func TestCommitteeEvents(t *testing.T) {
	system, mongodb, bus := testEnv(t)
	supervisor := spawnUserSupervisor(system, mongodb, bus)
	committee := spawnCommitteeActor(system, mongodb)

	ben := registerUser(t, system, supervisor, "ben")

	result := askActor(t, system, committee, &CreateEventMsg{PostedByID: ben.ID, Title: "  "})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	when := time.Now().Add(48 * time.Hour)
	result = askActor(t, system, committee, &CreateEventMsg{
		PostedByID:  ben.ID,
		Title:       " Swamp Social ",
		Description: "Snacks on the lawn",
		Date:        when,
		Venue:       "Main quad",
	})
	event, ok := result.(*models.CommitteeEvent)
	assert.True(t, ok)
	assert.Equal(t, "Swamp Social", event.Title)
	assert.Equal(t, "ben", event.PostedByName)
	assert.WithinDuration(t, when, event.Date, time.Second)

	events := askActor(t, system, committee, &GetEventsMsg{}).([]*models.CommitteeEvent)
	assert.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)
	assert.WithinDuration(t, when, events[0].Date, time.Second)
}

func TestCommitteeMediaGallery(t *testing.T) {
	system, mongodb, bus := testEnv(t)
	supervisor := spawnUserSupervisor(system, mongodb, bus)
	committee := spawnCommitteeActor(system, mongodb)

	cleo := registerUser(t, system, supervisor, "cleo")

	result := askActor(t, system, committee, &SaveMediaItemMsg{UploadedByID: cleo.ID})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	result = askActor(t, system, committee, &SaveMediaItemMsg{
		UploadedByID: cleo.ID,
		URL:          "https://cdn.example.com/gallery/social.jpg",
		Type:         "image",
	})
	item, ok := result.(*models.MediaItem)
	assert.True(t, ok)
	assert.Equal(t, "cleo", item.UploadedByName)

	gallery := askActor(t, system, committee, &GetMediaMsg{}).([]*models.MediaItem)
	assert.Len(t, gallery, 1)
	assert.Equal(t, item.ID, gallery[0].ID)
}
