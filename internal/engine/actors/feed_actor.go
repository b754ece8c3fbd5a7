// internal/engine/actors/feed_actor.go
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

// Message types for the media feed
type (
	CreateFeedPostMsg struct {
		AuthorID  uuid.UUID
		Caption   string
		MediaURL  string
		MediaType string
	}

	GetFeedPostsMsg struct {
		Limit int
	}

	TogglePostReactionMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
		Emoji  string
	}

	CreateCommentMsg struct {
		PostID   uuid.UUID
		AuthorID uuid.UUID
		Text     string
	}

	GetCommentsMsg struct {
		PostID uuid.UUID
	}
)

// FeedActor serializes the media feed. Comment streaks depend on the order
// comments land in, so routing every comment through one actor keeps the
// count deterministic under concurrent posting.
type FeedActor struct {
	mongodb *database.MongoDB
	bus     *live.Bus
}

func NewFeedActor(mongodb *database.MongoDB, bus *live.Bus) *FeedActor {
	return &FeedActor{mongodb: mongodb, bus: bus}
}

func (a *FeedActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *CreateFeedPostMsg:
		a.handleCreatePost(context, msg)
	case *GetFeedPostsMsg:
		posts, err := a.mongodb.GetFeed(stdctx.Background(), msg.Limit)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to load feed", err))
			return
		}
		if posts == nil {
			posts = []*models.FeedPost{}
		}
		context.Respond(posts)
	case *TogglePostReactionMsg:
		a.handleToggleReaction(context, msg)
	case *CreateCommentMsg:
		a.handleCreateComment(context, msg)
	case *GetCommentsMsg:
		comments, err := a.mongodb.GetComments(stdctx.Background(), msg.PostID)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to load comments", err))
			return
		}
		if comments == nil {
			comments = []*models.Comment{}
		}
		context.Respond(comments)
	}
}

func (a *FeedActor) handleCreatePost(context actor.Context, msg *CreateFeedPostMsg) {
	if msg.MediaURL == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Media URL is required", nil))
		return
	}
	if msg.MediaType != "image" && msg.MediaType != "video" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Media type must be image or video", nil))
		return
	}

	ctx := stdctx.Background()
	author, err := a.mongodb.GetUser(ctx, msg.AuthorID)
	if err != nil {
		context.Respond(utils.NewUserNotFoundError(msg.AuthorID.String()))
		return
	}

	post := &models.FeedPost{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		Caption:     strings.TrimSpace(msg.Caption),
		MediaURL:    msg.MediaURL,
		MediaType:   msg.MediaType,
		CreatedAt:   time.Now(),
		Reactions:   map[string][]string{},
	}
	if err := a.mongodb.SaveFeedPost(ctx, post); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save post", err))
		return
	}

	a.bus.Publish(live.Event{
		Topic:   live.TopicFeed,
		Kind:    "post",
		Key:     post.ID.String(),
		Payload: post,
	})
	context.Respond(post)
}

func (a *FeedActor) handleToggleReaction(context actor.Context, msg *TogglePostReactionMsg) {
	if strings.TrimSpace(msg.Emoji) == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Emoji is required", nil))
		return
	}

	ctx := stdctx.Background()
	post, err := a.mongodb.TogglePostReaction(ctx, msg.PostID, msg.UserID, msg.Emoji)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to toggle reaction", err))
		return
	}

	a.bus.Publish(live.Event{
		Topic:   live.TopicFeed,
		Kind:    "reaction",
		Key:     post.ID.String(),
		Payload: post,
	})
	context.Respond(post)
}

func (a *FeedActor) handleCreateComment(context actor.Context, msg *CreateCommentMsg) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		context.Respond(utils.NewEmptyTextError())
		return
	}

	ctx := stdctx.Background()
	author, err := a.mongodb.GetUser(ctx, msg.AuthorID)
	if err != nil {
		context.Respond(utils.NewUserNotFoundError(msg.AuthorID.String()))
		return
	}

	comment := &models.Comment{
		ID:          uuid.New(),
		PostID:      msg.PostID,
		AuthorID:    author.ID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		Text:        text,
		CreatedAt:   time.Now(),
	}
	saved, err := a.mongodb.CreateComment(ctx, comment)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save comment", err))
		return
	}

	a.bus.Publish(live.Event{
		Topic:   live.TopicFeed,
		Kind:    "comment",
		Key:     saved.ID.String(),
		Payload: saved,
	})
	context.Respond(saved)
}
