package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FriendRequestStatus is the lifecycle state of a friend request.
type FriendRequestStatus string

const (
	RequestPending  FriendRequestStatus = "pending"
	RequestAccepted FriendRequestStatus = "accepted"
	RequestDeclined FriendRequestStatus = "declined"
)

// RelationshipStatus is the combined pair status from one user's perspective.
type RelationshipStatus string

const (
	RelationNone     RelationshipStatus = "none"
	RelationSent     RelationshipStatus = "sent"    // viewer sent, still pending
	RelationPending  RelationshipStatus = "pending" // viewer received, still pending
	RelationAccepted RelationshipStatus = "accepted"
)

// FriendRequest is stored one document per unordered user pair, keyed by
// PairKey. The from/to fields record which direction the active request runs;
// a single document per pair is what keeps two simultaneous mutual requests
// from both succeeding.
type FriendRequest struct {
	PairKey    string              `json:"pairKey"`
	FromID     uuid.UUID           `json:"fromId"`
	FromName   string              `json:"fromName"`
	ToID       uuid.UUID           `json:"toId"`
	ToName     string              `json:"toName"`
	Status     FriendRequestStatus `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
	AcceptedAt *time.Time          `json:"acceptedAt,omitempty"`
	DeclinedAt *time.Time          `json:"declinedAt,omitempty"`
}

// ViewerStatus reports the request from one participant's perspective.
func (r *FriendRequest) ViewerStatus(viewer uuid.UUID) RelationshipStatus {
	if r == nil {
		return RelationNone
	}
	switch r.Status {
	case RequestAccepted:
		return RelationAccepted
	case RequestPending:
		if r.FromID == viewer {
			return RelationSent
		}
		return RelationPending
	default:
		return RelationNone
	}
}

// Friendship is one direction of an accepted relationship. Accepting a
// request writes both directions in a single transaction, so (A,B) exists
// exactly when (B,A) does. Names are snapshots taken at acceptance time.
type Friendship struct {
	UserID     uuid.UUID `json:"userId"`
	FriendID   uuid.UUID `json:"friendId"`
	UserName   string    `json:"userName"`
	FriendName string    `json:"friendName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RosterEntry is one row of the community roster as seen by a particular
// viewer: the user, whether they read as online right now, and where the
// viewer's relationship with them stands.
type RosterEntry struct {
	User   *User              `json:"user"`
	Online bool               `json:"online"`
	Status RelationshipStatus `json:"status"`
}

// PairKey builds the canonical order-independent key for a user pair.
func PairKey(a, b uuid.UUID) string {
	ids := []string{a.String(), b.String()}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}
