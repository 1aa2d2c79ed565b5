package sharelog

import (
	"time"

	"github.com/google/uuid"
)

// ShareLog records that a user exported/shared their weekly progress.
// Rendering the share image is out of scope; this is the data trail only.
type ShareLog struct {
	ID               uuid.UUID `json:"id" db:"id"`
	UserID           uuid.UUID `json:"user_id" db:"user_id"`
	WeekStartingDate string    `json:"week_starting_date" db:"week_starting_date"`
	WeekEndingDate   string    `json:"week_ending_date" db:"week_ending_date"`
	FoodsCount       int       `json:"foods_count" db:"foods_count"`
	GoalCount        int       `json:"goal_count" db:"goal_count"`
	Platform         string    `json:"platform,omitempty" db:"platform"`
	SharedAt         time.Time `json:"shared_at" db:"shared_at"`
}

type RecordShareRequest struct {
	Platform string `json:"platform"` // instagram | twitter | facebook | copied
}
