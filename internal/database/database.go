// internal/database/database.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client          *mongo.Client
	Users           *mongo.Collection
	UserStatus      *mongo.Collection
	FriendRequests  *mongo.Collection
	Friends         *mongo.Collection
	DirectMessages  *mongo.Collection
	GroupMessages   *mongo.Collection
	FeedPosts       *mongo.Collection
	Comments        *mongo.Collection
	CommitteeEvents *mongo.Collection
	Media           *mongo.Collection
}

func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	log.Println("Successfully connected to MongoDB!")

	db := client.Database(dbName)
	m := &MongoDB{
		Client:          client,
		Users:           db.Collection("users"),
		UserStatus:      db.Collection("userStatus"),
		FriendRequests:  db.Collection("friendRequests"),
		Friends:         db.Collection("friends"),
		DirectMessages:  db.Collection("directMessages"),
		GroupMessages:   db.Collection("messages"),
		FeedPosts:       db.Collection("feedPosts"),
		Comments:        db.Collection("comments"),
		CommitteeEvents: db.Collection("committeeEvents"),
		Media:           db.Collection("media"),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	return m, nil
}

// ensureIndexes creates the indexes the invariants depend on. The unique
// email index backs duplicate registration checks; the conversation index
// orders message history; friendship docs are looked up per user.
func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	_, err := m.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = m.DirectMessages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "conversationId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = m.Friends.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = m.Comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// CountUsers returns the number of registered users, for the health endpoint.
func (m *MongoDB) CountUsers(ctx context.Context) (int64, error) {
	return m.Users.CountDocuments(ctx, bson.M{})
}

// CountGroupMessages returns the number of group chat messages.
func (m *MongoDB) CountGroupMessages(ctx context.Context) (int64, error) {
	return m.GroupMessages.CountDocuments(ctx, bson.M{})
}
