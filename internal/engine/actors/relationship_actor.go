// internal/engine/actors/relationship_actor.go
package actors

import (
	"log"
	"time"

	stdctx "context"

	"campus-swamp/internal/database"
	"campus-swamp/internal/live"
	"campus-swamp/internal/models"
	"campus-swamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for the relationship subsystem
type (
	SendFriendRequestMsg struct {
		FromID uuid.UUID
		ToID   uuid.UUID
	}

	RespondFriendRequestMsg struct {
		ResponderID uuid.UUID
		OtherID     uuid.UUID
		Accept      bool
	}

	GetPendingRequestsMsg struct {
		UserID uuid.UUID
	}

	GetSentRequestsMsg struct {
		UserID uuid.UUID
	}

	GetFriendsMsg struct {
		UserID uuid.UUID
	}

	GetRosterMsg struct {
		ViewerID uuid.UUID
	}
)

// RelationshipActor serializes friend request and friendship operations.
// Single-threaded actor processing plus the one-document-per-pair storage
// rule is what makes a simultaneous mutual request resolve to exactly one
// pending request.
type RelationshipActor struct {
	mongodb        *database.MongoDB
	bus            *live.Bus
	staleness      time.Duration
	allowRerequest bool
}

func NewRelationshipActor(mongodb *database.MongoDB, bus *live.Bus, staleness time.Duration, allowRerequest bool) *RelationshipActor {
	return &RelationshipActor{
		mongodb:        mongodb,
		bus:            bus,
		staleness:      staleness,
		allowRerequest: allowRerequest,
	}
}

func (a *RelationshipActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *SendFriendRequestMsg:
		a.handleSendRequest(context, msg)
	case *RespondFriendRequestMsg:
		a.handleRespond(context, msg)
	case *GetPendingRequestsMsg:
		a.respondList(context)(a.mongodb.GetPendingRequestsFor(stdctx.Background(), msg.UserID))
	case *GetSentRequestsMsg:
		a.respondList(context)(a.mongodb.GetSentRequestsBy(stdctx.Background(), msg.UserID))
	case *GetFriendsMsg:
		ctx := stdctx.Background()
		friends, err := a.mongodb.GetFriends(ctx, msg.UserID)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to list friends", err))
			return
		}
		if friends == nil {
			friends = []*models.Friendship{}
		}
		context.Respond(friends)
	case *GetRosterMsg:
		a.handleRoster(context, msg)
	}
}

func (a *RelationshipActor) respondList(context actor.Context) func([]*models.FriendRequest, error) {
	return func(requests []*models.FriendRequest, err error) {
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to list friend requests", err))
			return
		}
		if requests == nil {
			requests = []*models.FriendRequest{}
		}
		context.Respond(requests)
	}
}

func (a *RelationshipActor) handleSendRequest(context actor.Context, msg *SendFriendRequestMsg) {
	if msg.FromID == msg.ToID {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Cannot send a friend request to yourself", nil))
		return
	}

	ctx := stdctx.Background()
	from, err := a.mongodb.GetUser(ctx, msg.FromID)
	if err != nil {
		context.Respond(utils.NewUserNotFoundError(msg.FromID.String()))
		return
	}
	to, err := a.mongodb.GetUser(ctx, msg.ToID)
	if err != nil {
		context.Respond(utils.NewUserNotFoundError(msg.ToID.String()))
		return
	}

	request := &models.FriendRequest{
		PairKey:   models.PairKey(msg.FromID, msg.ToID),
		FromID:    from.ID,
		FromName:  from.Name,
		ToID:      to.ID,
		ToName:    to.Name,
		Status:    models.RequestPending,
		CreatedAt: time.Now(),
	}
	if err := a.mongodb.CreateFriendRequest(ctx, request, a.allowRerequest); err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to send friend request", err))
		return
	}

	a.bus.Publish(live.Event{
		Topic:   live.TopicRequests,
		Kind:    "sent",
		Key:     request.PairKey,
		Payload: request,
	})
	log.Printf("RelationshipActor: %s -> %s request created", from.Name, to.Name)
	context.Respond(request)
}

func (a *RelationshipActor) handleRespond(context actor.Context, msg *RespondFriendRequestMsg) {
	ctx := stdctx.Background()

	var (
		request *models.FriendRequest
		err     error
	)
	if msg.Accept {
		request, err = a.mongodb.AcceptFriendRequest(ctx, msg.ResponderID, msg.OtherID)
	} else {
		request, err = a.mongodb.DeclineFriendRequest(ctx, msg.ResponderID, msg.OtherID)
	}
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to respond to friend request", err))
		return
	}

	kind := "declined"
	if msg.Accept {
		kind = "accepted"
	}
	a.bus.Publish(live.Event{
		Topic:   live.TopicRequests,
		Kind:    kind,
		Key:     request.PairKey,
		Payload: request,
	})
	context.Respond(request)
}

// handleRoster assembles the community roster for one viewer: every user,
// their effective presence, and the viewer's relationship with each.
func (a *RelationshipActor) handleRoster(context actor.Context, msg *GetRosterMsg) {
	ctx := stdctx.Background()

	users, err := a.mongodb.GetAllUsers(ctx)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to list users", err))
		return
	}
	presenceByID, err := a.mongodb.GetAllPresence(ctx)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to load presence", err))
		return
	}

	statusByUser := make(map[uuid.UUID]models.RelationshipStatus)
	accepted, err := a.mongodb.GetFriends(ctx, msg.ViewerID)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to list friends", err))
		return
	}
	for _, friendship := range accepted {
		statusByUser[friendship.FriendID] = models.RelationAccepted
	}
	pending, err := a.mongodb.GetPendingRequestsFor(ctx, msg.ViewerID)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to list friend requests", err))
		return
	}
	for _, request := range pending {
		statusByUser[request.FromID] = models.RelationPending
	}
	sent, err := a.mongodb.GetSentRequestsBy(ctx, msg.ViewerID)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to list friend requests", err))
		return
	}
	for _, request := range sent {
		statusByUser[request.ToID] = models.RelationSent
	}

	now := time.Now()
	roster := make([]*models.RosterEntry, 0, len(users))
	for _, user := range users {
		if user.ID == msg.ViewerID {
			continue
		}
		status, ok := statusByUser[user.ID]
		if !ok {
			status = models.RelationNone
		}
		roster = append(roster, &models.RosterEntry{
			User:   user,
			Online: presenceByID[user.ID].EffectiveOnline(now, a.staleness),
			Status: status,
		})
	}
	context.Respond(roster)
}
