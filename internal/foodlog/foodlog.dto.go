package foodlog

import (
	"platePaletteAPI/internal/nutrient"
	"platePaletteAPI/internal/variety"
	"platePaletteAPI/internal/weekwindow"
)

type LogFoodRequest struct {
	FdcID         int                    `json:"fdcId" validate:"required"`
	FoodName      string                 `json:"foodName" validate:"required"`
	FoodDataType  string                 `json:"foodDataType,omitempty"`
	FoodNutrients []nutrient.Measurement `json:"foodNutrients,omitempty"`
}

type LogFoodsBatchRequest struct {
	Foods []LogFoodRequest `json:"foods"`
}

// BatchItemStatus values for BatchLogResult items.
const (
	BatchLogged    = "logged"
	BatchDuplicate = "already_logged"
)

type BatchLogItem struct {
	FdcID    int    `json:"fdc_id"`
	FoodName string `json:"food_name"`
	Status   string `json:"status"`
}

type BatchLogResult struct {
	Window      weekwindow.Window `json:"window"`
	Items       []BatchLogItem    `json:"items"`
	LoggedCount int               `json:"logged_count"`
}

// DayLog groups a day's entries under its window slot, Monday first.
type DayLog struct {
	Date    string  `json:"date"`
	Entries []Entry `json:"entries"`
}

type WeeklyLogResponse struct {
	Window  weekwindow.Window `json:"window"`
	Days    []DayLog          `json:"days"`
	Summary variety.Summary   `json:"summary"`
}
