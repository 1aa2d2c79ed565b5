package user

import (
	"errors"
	"time"
)

// Weekly variety goal bounds. The goal counts distinct foods per week.
const (
	MinWeeklyGoal     = 5
	MaxWeeklyGoal     = 100
	DefaultWeeklyGoal = 20
)

// DefaultTimezone is the zone logged_date derivation falls back to when a
// user never picked one. Matches the zone historical rows were corrected to.
const DefaultTimezone = "America/Los_Angeles"

var (
	ErrInvalidWeeklyGoal = errors.New("weekly goal must be between 5 and 100")
	ErrInvalidTimezone   = errors.New("timezone must be a valid IANA zone name")
)

type User struct {
	ID            string    `json:"id"`
	ClerkID       string    `json:"clerkId"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	FirstName     string    `json:"firstName"`
	WeeklyGoal    int       `json:"weeklyGoal"`
	Timezone      string    `json:"timezone"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ValidateWeeklyGoal enforces the [5,100] goal range.
func ValidateWeeklyGoal(goal int) error {
	if goal < MinWeeklyGoal || goal > MaxWeeklyGoal {
		return ErrInvalidWeeklyGoal
	}
	return nil
}
