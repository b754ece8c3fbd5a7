// internal/database/relationship_repository.go
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
)

// FriendRequestDocument is the MongoDB schema for a friend request. The
// primary key is the canonical pair key (sorted user IDs), so MongoDB's
// unique _id constraint is what serializes two users requesting each other
// at the same time: the second insert fails with a duplicate key error and
// surfaces as ALREADY_REQUESTED. First writer wins the canonical direction.
type FriendRequestDocument struct {
	ID         string     `bson:"_id"` // pair key
	FromID     string     `bson:"fromId"`
	FromName   string     `bson:"fromName"`
	ToID       string     `bson:"toId"`
	ToName     string     `bson:"toName"`
	Status     string     `bson:"status"`
	CreatedAt  time.Time  `bson:"createdAt"`
	AcceptedAt *time.Time `bson:"acceptedAt,omitempty"`
	DeclinedAt *time.Time `bson:"declinedAt,omitempty"`
}

// FriendshipDocument is one direction of an accepted relationship, keyed
// userId_friendId. Both directions are written in the same transaction.
type FriendshipDocument struct {
	ID         string    `bson:"_id"`
	UserID     string    `bson:"userId"`
	FriendID   string    `bson:"friendId"`
	UserName   string    `bson:"userName"`
	FriendName string    `bson:"friendName"`
	CreatedAt  time.Time `bson:"createdAt"`
}

func friendRequestFromDocument(doc *FriendRequestDocument) (*models.FriendRequest, error) {
	fromID, err := uuid.Parse(doc.FromID)
	if err != nil {
		return nil, fmt.Errorf("invalid fromId in friend request: %v", err)
	}
	toID, err := uuid.Parse(doc.ToID)
	if err != nil {
		return nil, fmt.Errorf("invalid toId in friend request: %v", err)
	}
	return &models.FriendRequest{
		PairKey:    doc.ID,
		FromID:     fromID,
		FromName:   doc.FromName,
		ToID:       toID,
		ToName:     doc.ToName,
		Status:     models.FriendRequestStatus(doc.Status),
		CreatedAt:  doc.CreatedAt,
		AcceptedAt: doc.AcceptedAt,
		DeclinedAt: doc.DeclinedAt,
	}, nil
}

// GetFriendRequest returns the request for a pair in either direction, or
// nil if the pair has none.
func (m *MongoDB) GetFriendRequest(ctx context.Context, a, b uuid.UUID) (*models.FriendRequest, error) {
	var doc FriendRequestDocument
	err := m.FriendRequests.FindOne(ctx, bson.M{"_id": models.PairKey(a, b)}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return friendRequestFromDocument(&doc)
}

// CreateFriendRequest records a new pending request from -> to. Fails with
// ALREADY_REQUESTED when a pending or accepted request exists in either
// direction. A declined request may be overwritten back to pending when the
// re-request policy allows it; the overwrite is conditional on the declined
// status so it cannot clobber a concurrent acceptance.
func (m *MongoDB) CreateFriendRequest(ctx context.Context, req *models.FriendRequest, allowRerequest bool) error {
	doc := FriendRequestDocument{
		ID:        req.PairKey,
		FromID:    req.FromID.String(),
		FromName:  req.FromName,
		ToID:      req.ToID.String(),
		ToName:    req.ToName,
		Status:    string(models.RequestPending),
		CreatedAt: req.CreatedAt,
	}

	_, err := m.FriendRequests.InsertOne(ctx, doc)
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to create friend request: %v", err)
	}

	// A record already exists for this pair.
	existing, lookupErr := m.GetFriendRequest(ctx, req.FromID, req.ToID)
	if lookupErr != nil {
		return lookupErr
	}
	if existing == nil {
		// Deleted between insert and lookup; treat as conflict.
		return utils.NewAppError(utils.ErrAlreadyRequested, "A friend request for this pair already exists", nil)
	}

	switch existing.Status {
	case models.RequestAccepted:
		return utils.NewAppError(utils.ErrAlreadyFriends, "You are already friends", nil)
	case models.RequestPending:
		return utils.NewAppError(utils.ErrAlreadyRequested, "A friend request is already pending", nil)
	case models.RequestDeclined:
		if !allowRerequest {
			return utils.NewAppError(utils.ErrAlreadyRequested, "A previous request was declined", nil)
		}
		result, replaceErr := m.FriendRequests.ReplaceOne(ctx,
			bson.M{"_id": req.PairKey, "status": string(models.RequestDeclined)},
			doc,
		)
		if replaceErr != nil {
			return fmt.Errorf("failed to re-create friend request: %v", replaceErr)
		}
		if result.ModifiedCount == 0 {
			return utils.NewAppError(utils.ErrAlreadyRequested, "A friend request is already pending", nil)
		}
		return nil
	default:
		return utils.NewAppError(utils.ErrAlreadyRequested, "A friend request for this pair already exists", nil)
	}
}

// AcceptFriendRequest transitions a pending request to accepted and writes
// both friendship directions in a single transaction: either all three
// writes land or none do. The responder must be the request's to party.
// Display names are snapshotted from the user documents at acceptance time.
func (m *MongoDB) AcceptFriendRequest(ctx context.Context, responder, other uuid.UUID) (*models.FriendRequest, error) {
	req, err := m.getPendingForResponse(ctx, responder, other)
	if err != nil {
		return nil, err
	}

	fromUser, err := m.GetUser(ctx, req.FromID)
	if err != nil {
		return nil, err
	}
	toUser, err := m.GetUser(ctx, req.ToID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	session, err := m.Client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		result, err := m.FriendRequests.UpdateOne(sc,
			bson.M{"_id": req.PairKey, "status": string(models.RequestPending)},
			bson.M{"$set": bson.M{"status": string(models.RequestAccepted), "acceptedAt": now}},
		)
		if err != nil {
			return nil, err
		}
		if result.ModifiedCount == 0 {
			return nil, utils.NewAppError(utils.ErrNotFound, "No pending friend request found", nil)
		}

		docs := []interface{}{
			FriendshipDocument{
				ID:         fromUser.ID.String() + "_" + toUser.ID.String(),
				UserID:     fromUser.ID.String(),
				FriendID:   toUser.ID.String(),
				UserName:   fromUser.Name,
				FriendName: toUser.Name,
				CreatedAt:  now,
			},
			FriendshipDocument{
				ID:         toUser.ID.String() + "_" + fromUser.ID.String(),
				UserID:     toUser.ID.String(),
				FriendID:   fromUser.ID.String(),
				UserName:   toUser.Name,
				FriendName: fromUser.Name,
				CreatedAt:  now,
			},
		}
		if _, err := m.Friends.InsertMany(sc, docs); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if _, ok := err.(*utils.AppError); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to accept friend request: %v", err)
	}

	req.Status = models.RequestAccepted
	req.AcceptedAt = &now
	return req, nil
}

// DeclineFriendRequest transitions a pending request to declined. No
// friendship records are written.
func (m *MongoDB) DeclineFriendRequest(ctx context.Context, responder, other uuid.UUID) (*models.FriendRequest, error) {
	req, err := m.getPendingForResponse(ctx, responder, other)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result, err := m.FriendRequests.UpdateOne(ctx,
		bson.M{"_id": req.PairKey, "status": string(models.RequestPending)},
		bson.M{"$set": bson.M{"status": string(models.RequestDeclined), "declinedAt": now}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to decline friend request: %v", err)
	}
	if result.ModifiedCount == 0 {
		return nil, utils.NewAppError(utils.ErrNotFound, "No pending friend request found", nil)
	}

	req.Status = models.RequestDeclined
	req.DeclinedAt = &now
	return req, nil
}

// getPendingForResponse loads the pair's request and checks that the
// responder is entitled to answer it.
func (m *MongoDB) getPendingForResponse(ctx context.Context, responder, other uuid.UUID) (*models.FriendRequest, error) {
	req, err := m.GetFriendRequest(ctx, responder, other)
	if err != nil {
		return nil, err
	}
	if req == nil || req.Status != models.RequestPending {
		return nil, utils.NewAppError(utils.ErrNotFound, "No pending friend request found", nil)
	}
	if req.ToID != responder {
		return nil, utils.NewNotAuthorizedError("only the recipient may respond to a friend request")
	}
	return req, nil
}

// GetPendingRequestsFor returns requests awaiting the user's response.
func (m *MongoDB) GetPendingRequestsFor(ctx context.Context, userID uuid.UUID) ([]*models.FriendRequest, error) {
	return m.findRequests(ctx, bson.M{"toId": userID.String(), "status": string(models.RequestPending)})
}

// GetSentRequestsBy returns the user's still-pending outgoing requests.
func (m *MongoDB) GetSentRequestsBy(ctx context.Context, userID uuid.UUID) ([]*models.FriendRequest, error) {
	return m.findRequests(ctx, bson.M{"fromId": userID.String(), "status": string(models.RequestPending)})
}

func (m *MongoDB) findRequests(ctx context.Context, filter bson.M) ([]*models.FriendRequest, error) {
	cursor, err := m.FriendRequests.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []*models.FriendRequest
	for cursor.Next(ctx) {
		var doc FriendRequestDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		req, err := friendRequestFromDocument(&doc)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, cursor.Err()
}

// GetFriends returns the user's accepted friendships.
func (m *MongoDB) GetFriends(ctx context.Context, userID uuid.UUID) ([]*models.Friendship, error) {
	cursor, err := m.Friends.Find(ctx, bson.M{"userId": userID.String()})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var friendships []*models.Friendship
	for cursor.Next(ctx) {
		var doc FriendshipDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		uid, err := uuid.Parse(doc.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid userId in friendship: %v", err)
		}
		fid, err := uuid.Parse(doc.FriendID)
		if err != nil {
			return nil, fmt.Errorf("invalid friendId in friendship: %v", err)
		}
		friendships = append(friendships, &models.Friendship{
			UserID:     uid,
			FriendID:   fid,
			UserName:   doc.UserName,
			FriendName: doc.FriendName,
			CreatedAt:  doc.CreatedAt,
		})
	}
	return friendships, cursor.Err()
}

// AreFriends reports whether an accepted friendship exists between two users.
func (m *MongoDB) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	count, err := m.Friends.CountDocuments(ctx, bson.M{"_id": a.String() + "_" + b.String()})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
