package reaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Emojis the reaction picker offers. The ledger stores exactly one of these
// per (observer, subject, week).
var Emojis = []string{"🍎", "🥕", "🥦", "🍇", "🍓", "🍊", "🥬", "🍅", "🫐", "🥑"}

var ErrInvalidEmoji = errors.New("emoji is not one of the supported reactions")

// Reaction is the single-slot weekly emoji one user leaves on another's
// progress. Upserts overwrite Emoji in place; no history is kept. Rows never
// expire but only the current week's are surfaced.
type Reaction struct {
	ID               uuid.UUID `json:"id" db:"id"`
	FromUserID       uuid.UUID `json:"from_user_id" db:"from_user_id"`
	ToUserID         uuid.UUID `json:"to_user_id" db:"to_user_id"`
	WeekStartingDate string    `json:"week_starting_date" db:"week_starting_date"`
	Emoji            string    `json:"emoji" db:"emoji"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// ValidateEmoji checks the token against the supported set.
func ValidateEmoji(emoji string) error {
	for _, e := range Emojis {
		if e == emoji {
			return nil
		}
	}
	return ErrInvalidEmoji
}

type ReactRequestBody struct {
	Emoji string `json:"emoji" validate:"required"`
}

// ReceivedReaction pairs a reaction with who sent it, for the subject's view.
type ReceivedReaction struct {
	Reaction
	FromEmail    string `json:"from_email"`
	FromUsername string `json:"from_username,omitempty"`
}
