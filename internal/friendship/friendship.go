package friendship

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// State machine errors. Handlers map these onto HTTP statuses, so they must
// stay distinguishable from generic store failures.
var (
	ErrSelfFriendship = errors.New("cannot send a friend request to yourself")
	ErrAlreadyExists  = errors.New("friendship already exists between these users")
	ErrNotRecipient   = errors.New("only the request recipient may respond")
	ErrNotPending     = errors.New("friend request is no longer pending")
	ErrNotFriends     = errors.New("users are not friends")
)

// Friendship is the single row per unordered user pair. UserID is the
// requester and FriendID the recipient; once accepted, direction is
// irrelevant for visibility. A rejected row persists and blocks re-requests.
type Friendship struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	FriendID    uuid.UUID  `json:"friend_id" db:"friend_id"`
	Status      Status     `json:"status" db:"status"`
	RequestedAt time.Time  `json:"requested_at" db:"requested_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty" db:"responded_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// RespondableBy reports whether userID may transition this row right now.
// Only the designated recipient may respond, and only while pending.
func (f *Friendship) RespondableBy(userID uuid.UUID) error {
	if f.FriendID != userID {
		return ErrNotRecipient
	}
	if f.Status != StatusPending {
		return ErrNotPending
	}
	return nil
}

// Involves reports whether userID is either side of the pair.
func (f *Friendship) Involves(userID uuid.UUID) bool {
	return f.UserID == userID || f.FriendID == userID
}

// OtherSide returns the counterpart of userID in the pair.
func (f *Friendship) OtherSide(userID uuid.UUID) uuid.UUID {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}

// ValidateRequest checks the invariants of a new request before any write:
// no self-friending, and requester/recipient must be distinct known users.
func ValidateRequest(requester, recipient uuid.UUID) error {
	if requester == recipient {
		return ErrSelfFriendship
	}
	return nil
}
