// internal/database/feed_repository.go
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

// FeedPostDocument is the MongoDB schema for a media feed post.
type FeedPostDocument struct {
	ID           string              `bson:"_id"`
	AuthorID     string              `bson:"authorId"`
	AuthorName   string              `bson:"authorName"`
	AuthorEmail  string              `bson:"authorEmail"`
	Caption      string              `bson:"caption,omitempty"`
	MediaURL     string              `bson:"mediaUrl"`
	MediaType    string              `bson:"mediaType"`
	CreatedAt    time.Time           `bson:"createdAt"`
	Reactions    map[string][]string `bson:"reactions,omitempty"`
	CommentCount int                 `bson:"commentCount"`
}

// CommentDocument is the MongoDB schema for a comment on a feed post.
type CommentDocument struct {
	ID          string    `bson:"_id"`
	PostID      string    `bson:"postId"`
	AuthorID    string    `bson:"authorId"`
	AuthorName  string    `bson:"authorName"`
	AuthorEmail string    `bson:"authorEmail"`
	Text        string    `bson:"text"`
	CreatedAt   time.Time `bson:"createdAt"`
	StreakCount int       `bson:"streakCount"`
}

func feedPostFromDocument(doc *FeedPostDocument) (*models.FeedPost, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post id: %v", err)
	}
	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid authorId: %v", err)
	}
	post := &models.FeedPost{
		ID:           id,
		AuthorID:     authorID,
		AuthorName:   doc.AuthorName,
		AuthorEmail:  doc.AuthorEmail,
		Caption:      doc.Caption,
		MediaURL:     doc.MediaURL,
		MediaType:    doc.MediaType,
		CreatedAt:    doc.CreatedAt,
		Reactions:    doc.Reactions,
		CommentCount: doc.CommentCount,
	}
	if post.Reactions == nil {
		post.Reactions = map[string][]string{}
	}
	return post, nil
}

func commentFromDocument(doc *CommentDocument) (*models.Comment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment id: %v", err)
	}
	postID, err := uuid.Parse(doc.PostID)
	if err != nil {
		return nil, fmt.Errorf("invalid postId: %v", err)
	}
	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid authorId: %v", err)
	}
	return &models.Comment{
		ID:          id,
		PostID:      postID,
		AuthorID:    authorID,
		AuthorName:  doc.AuthorName,
		AuthorEmail: doc.AuthorEmail,
		Text:        doc.Text,
		CreatedAt:   doc.CreatedAt,
		StreakCount: doc.StreakCount,
	}, nil
}

// SaveFeedPost persists a new feed post.
func (m *MongoDB) SaveFeedPost(ctx context.Context, post *models.FeedPost) error {
	doc := FeedPostDocument{
		ID:           post.ID.String(),
		AuthorID:     post.AuthorID.String(),
		AuthorName:   post.AuthorName,
		AuthorEmail:  post.AuthorEmail,
		Caption:      post.Caption,
		MediaURL:     post.MediaURL,
		MediaType:    post.MediaType,
		CreatedAt:    post.CreatedAt,
		Reactions:    post.Reactions,
		CommentCount: post.CommentCount,
	}
	if _, err := m.FeedPosts.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to save feed post: %v", err)
	}
	return nil
}

// GetFeedPost loads one post by ID.
func (m *MongoDB) GetFeedPost(ctx context.Context, postID uuid.UUID) (*models.FeedPost, error) {
	var doc FeedPostDocument
	err := m.FeedPosts.FindOne(ctx, bson.M{"_id": postID.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	if err != nil {
		return nil, err
	}
	return feedPostFromDocument(&doc)
}

// GetFeed returns the most recent posts, newest first. limit <= 0 means no
// limit.
func (m *MongoDB) GetFeed(ctx context.Context, limit int) ([]*models.FeedPost, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := m.FeedPosts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []*models.FeedPost
	for cursor.Next(ctx) {
		var doc FeedPostDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		post, err := feedPostFromDocument(&doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, cursor.Err()
}

// TogglePostReaction adds or removes the user's reaction on a post and
// returns the updated post.
func (m *MongoDB) TogglePostReaction(ctx context.Context, postID, userID uuid.UUID, emoji string) (*models.FeedPost, error) {
	post, err := m.GetFeedPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	toggleReaction(post.Reactions, emoji, userID.String())

	update := bson.M{"$set": bson.M{"reactions": post.Reactions}}
	if len(post.Reactions) == 0 {
		update = bson.M{"$unset": bson.M{"reactions": ""}}
	}
	if _, err := m.FeedPosts.UpdateOne(ctx, bson.M{"_id": postID.String()}, update); err != nil {
		return nil, fmt.Errorf("failed to update reactions: %v", err)
	}
	return post, nil
}

// CreateComment appends a comment to a post. The streak count continues
// from the post's latest comment when both share an author; any other
// commenter in between resets the streak to 1.
func (m *MongoDB) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if _, err := m.GetFeedPost(ctx, comment.PostID); err != nil {
		return nil, err
	}

	comment.StreakCount = 1
	latest, err := m.latestComment(ctx, comment.PostID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.AuthorID == comment.AuthorID {
		comment.StreakCount = latest.StreakCount + 1
	}

	doc := CommentDocument{
		ID:          comment.ID.String(),
		PostID:      comment.PostID.String(),
		AuthorID:    comment.AuthorID.String(),
		AuthorName:  comment.AuthorName,
		AuthorEmail: comment.AuthorEmail,
		Text:        comment.Text,
		CreatedAt:   comment.CreatedAt,
		StreakCount: comment.StreakCount,
	}
	if _, err := m.Comments.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save comment: %v", err)
	}

	if _, err := m.FeedPosts.UpdateOne(ctx,
		bson.M{"_id": comment.PostID.String()},
		bson.M{"$inc": bson.M{"commentCount": 1}},
	); err != nil {
		return nil, fmt.Errorf("failed to bump comment count: %v", err)
	}
	return comment, nil
}

func (m *MongoDB) latestComment(ctx context.Context, postID uuid.UUID) (*models.Comment, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var doc CommentDocument
	err := m.Comments.FindOne(ctx, bson.M{"postId": postID.String()}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return commentFromDocument(&doc)
}

// GetComments returns a post's comments oldest first.
func (m *MongoDB) GetComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := m.Comments.Find(ctx, bson.M{"postId": postID.String()}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []*models.Comment
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		comment, err := commentFromDocument(&doc)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, cursor.Err()
}
