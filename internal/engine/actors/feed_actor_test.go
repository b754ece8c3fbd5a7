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

func spawnFeedActor(system *actor.ActorSystem, mongodb *database.MongoDB, bus *live.Bus) *actor.PID {
	return system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewFeedActor(mongodb, bus)
	}))
}

func createPost(t *testing.T, system *actor.ActorSystem, feed *actor.PID, author *models.User, caption string) *models.FeedPost {
	t.Helper()
	result := askActor(t, system, feed, &CreateFeedPostMsg{
		AuthorID:  author.ID,
		Caption:   caption,
		MediaURL:  "https://cdn.example.com/" + uuid.NewString() + ".jpg",
		MediaType: "image",
	})
	post, ok := result.(*models.FeedPost)
	if !ok {
		t.Fatalf("post creation failed: %+v", result)
	}
	return post
}

func TestFeedPostValidation(t *testing.T) {
	system, mongodb, bus := testEnv(t)
	supervisor := spawnUserSupervisor(system, mongodb, bus)
	feed := spawnFeedActor(system, mongodb, bus)

	walt := registerUser(t, system, supervisor, "walt")

	result := askActor(t, system, feed, &CreateFeedPostMsg{AuthorID: walt.ID, MediaType: "image"})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	result = askActor(t, system, feed, &CreateFeedPostMsg{
		AuthorID:  walt.ID,
		MediaURL:  "https://cdn.example.com/clip.gif",
		MediaType: "gif",
	})
	appErr, ok = result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	post := createPost(t, system, feed, walt, "  trimmed caption  ")
	assert.Equal(t, "trimmed caption", post.Caption)
	assert.Equal(t, "walt", post.AuthorName)
	assert.Zero(t, post.CommentCount)
}

func TestFeedOrderingAndReactions(t *testing.T) {
	system, mongodb, bus := testEnv(t)
	supervisor := spawnUserSupervisor(system, mongodb, bus)
	feed := spawnFeedActor(system, mongodb, bus)

	xena := registerUser(t, system, supervisor, "xena")
	yuri := registerUser(t, system, supervisor, "yuri")

	older := createPost(t, system, feed, xena, "first")
	time.Sleep(5 * time.Millisecond) // distinct createdAt at millisecond precision
	newer := createPost(t, system, feed, xena, "second")

	posts := askActor(t, system, feed, &GetFeedPostsMsg{Limit: 10}).([]*models.FeedPost)
	assert.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)

	updated := askActor(t, system, feed, &TogglePostReactionMsg{PostID: older.ID, UserID: yuri.ID, Emoji: "❤️"}).(*models.FeedPost)
	assert.Equal(t, []string{yuri.ID.String()}, updated.Reactions["❤️"])

	updated = askActor(t, system, feed, &TogglePostReactionMsg{PostID: older.ID, UserID: yuri.ID, Emoji: "❤️"}).(*models.FeedPost)
	_, present := updated.Reactions["❤️"]
	assert.False(t, present)

	result := askActor(t, system, feed, &TogglePostReactionMsg{PostID: uuid.New(), UserID: yuri.ID, Emoji: "❤️"})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestCommentStreaks(t *testing.T) {
	system, mongodb, bus := testEnv(t)
	supervisor := spawnUserSupervisor(system, mongodb, bus)
	feed := spawnFeedActor(system, mongodb, bus)

	zoe := registerUser(t, system, supervisor, "zoe")
	abe := registerUser(t, system, supervisor, "abe")
	post := createPost(t, system, feed, zoe, "streaks")

	comment := func(author *models.User, text string) *models.Comment {
		time.Sleep(5 * time.Millisecond) // distinct createdAt at millisecond precision
		result := askActor(t, system, feed, &CreateCommentMsg{PostID: post.ID, AuthorID: author.ID, Text: text})
		c, ok := result.(*models.Comment)
		if !ok {
			t.Fatalf("comment failed: %+v", result)
		}
		return c
	}

	// Consecutive comments by the same author extend the streak; a comment
	// from anyone else resets it.
	assert.Equal(t, 1, comment(zoe, "one").StreakCount)
	assert.Equal(t, 2, comment(zoe, "two").StreakCount)
	assert.Equal(t, 3, comment(zoe, "three").StreakCount)
	assert.Equal(t, 1, comment(abe, "interrupt").StreakCount)
	assert.Equal(t, 1, comment(zoe, "starting over").StreakCount)

	comments := askActor(t, system, feed, &GetCommentsMsg{PostID: post.ID}).([]*models.Comment)
	assert.Len(t, comments, 5)
	assert.Equal(t, "one", comments[0].Text)

	posts := askActor(t, system, feed, &GetFeedPostsMsg{Limit: 10}).([]*models.FeedPost)
	assert.Equal(t, 5, posts[0].CommentCount)

	result := askActor(t, system, feed, &CreateCommentMsg{PostID: uuid.New(), AuthorID: zoe.ID, Text: "orphan"})
	appErr, ok := result.(*utils.AppError)
	assert.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}
