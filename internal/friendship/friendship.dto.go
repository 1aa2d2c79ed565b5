package friendship

import (
	"github.com/google/uuid"

	"platePaletteAPI/internal/reaction"
	"platePaletteAPI/internal/weekwindow"
)

type SendRequestBody struct {
	Email string `json:"email" validate:"required,email"`
}

type RespondRequestBody struct {
	Accept bool `json:"accept"`
}

// PendingRequest is an incoming request as shown to the recipient.
type PendingRequest struct {
	Friendship
	RequesterEmail    string `json:"requester_email"`
	RequesterUsername string `json:"requester_username,omitempty"`
}

// SentRequest is an outgoing request as shown to the requester.
type SentRequest struct {
	Friendship
	RecipientEmail string `json:"recipient_email"`
}

// FriendProgress is one accepted friend's weekly variety progress from the
// viewer's perspective, including the viewer's own reaction if any.
type FriendProgress struct {
	FriendID    uuid.UUID          `json:"friend_id"`
	Email       string             `json:"email"`
	Username    string             `json:"username,omitempty"`
	FirstName   string             `json:"first_name,omitempty"`
	WeeklyGoal  int                `json:"weekly_goal"`
	FoodsCount  int                `json:"foods_count"`
	GoalMet     bool               `json:"goal_met"`
	Window      weekwindow.Window  `json:"window"`
	MyReaction  *reaction.Reaction `json:"my_reaction,omitempty"`
}
