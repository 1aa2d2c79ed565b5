package foodlog

import (
	"time"

	"github.com/google/uuid"

	"platePaletteAPI/internal/nutrient"
)

// Entry is one logged food. LoggedDate is always derived server-side from
// LoggedAt in the owner's timezone; the two never diverge at write time.
type Entry struct {
	ID            uuid.UUID              `json:"id" db:"id"`
	UserID        uuid.UUID              `json:"user_id" db:"user_id"`
	FdcID         int                    `json:"fdc_id" db:"fdc_id"`
	FoodName      string                 `json:"food_name" db:"food_name"`
	FoodDataType  string                 `json:"food_data_type,omitempty" db:"food_data_type"`
	FoodNutrients []nutrient.Measurement `json:"food_nutrients,omitempty" db:"food_nutrients"`
	LoggedDate    string                 `json:"logged_date" db:"logged_date"`
	LoggedAt      time.Time              `json:"logged_at" db:"logged_at"`
	CreatedAt     time.Time              `json:"created_at" db:"created_at"`
}
