// internal/engine/engine.go
package engine

import (
	"campus-swamp/internal/config"
	"campus-swamp/internal/database"
	"campus-swamp/internal/engine/actors"
	"campus-swamp/internal/live"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine wires the actor system together and hands out the PIDs the HTTP
// layer sends requests to.
type Engine struct {
	userSupervisor    *actor.PID
	relationshipActor *actor.PID
	directMessage     *actor.PID
	groupChat         *actor.PID
	feed              *actor.PID
	committee         *actor.PID
}

func NewEngine(system *actor.ActorSystem, mongodb *database.MongoDB, bus *live.Bus, cfg *config.Config) *Engine {
	context := system.Root

	userProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewUserSupervisor(mongodb, bus, cfg.Auth.AllowedEmailDomain)
	})
	relationshipProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewRelationshipActor(mongodb, bus, cfg.Presence.StalenessWindow, cfg.Relationship.AllowRerequestAfterDecline)
	})
	dmProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewDirectMessageActor(mongodb, bus)
	})
	groupProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewGroupChatActor(mongodb, bus)
	})
	feedProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewFeedActor(mongodb, bus)
	})
	committeeProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommitteeActor(mongodb)
	})

	return &Engine{
		userSupervisor:    context.Spawn(userProps),
		relationshipActor: context.Spawn(relationshipProps),
		directMessage:     context.Spawn(dmProps),
		groupChat:         context.Spawn(groupProps),
		feed:              context.Spawn(feedProps),
		committee:         context.Spawn(committeeProps),
	}
}

// GetUserSupervisor returns the PID handling account messages.
func (e *Engine) GetUserSupervisor() *actor.PID {
	return e.userSupervisor
}

// GetRelationshipActor returns the PID handling friend requests.
func (e *Engine) GetRelationshipActor() *actor.PID {
	return e.relationshipActor
}

// GetDirectMessageActor returns the PID handling private messages.
func (e *Engine) GetDirectMessageActor() *actor.PID {
	return e.directMessage
}

// GetGroupChatActor returns the PID handling the community chat.
func (e *Engine) GetGroupChatActor() *actor.PID {
	return e.groupChat
}

// GetFeedActor returns the PID handling the media feed.
func (e *Engine) GetFeedActor() *actor.PID {
	return e.feed
}

// GetCommitteeActor returns the PID handling events and the gallery.
func (e *Engine) GetCommitteeActor() *actor.PID {
	return e.committee
}
