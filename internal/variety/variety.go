// Package variety computes weekly food-variety progress: how many distinct
// foods a user logged inside one week window, which days saw any logging,
// and whether the weekly goal is met. Uniqueness is per week; the same food
// in two different weeks counts once in each.
package variety

import "platePaletteAPI/internal/weekwindow"

// LoggedFood is the slice of a food-log entry the tracker needs.
type LoggedFood struct {
	FdcID      int
	LoggedDate string // YYYY-MM-DD
}

type Summary struct {
	UniqueCount    int     `json:"unique_count"`
	PerDayPresence [7]bool `json:"per_day_presence"` // Monday..Sunday
	WeeklyGoal     int     `json:"weekly_goal"`
	GoalMet        bool    `json:"goal_met"`
}

// Summarize filters entries to the window and reduces them to a Summary.
// Duplicate FdcIDs within the window count once.
func Summarize(entries []LoggedFood, win weekwindow.Window, weeklyGoal int) Summary {
	seen := make(map[int]struct{})
	s := Summary{WeeklyGoal: weeklyGoal}

	for _, e := range entries {
		if !win.Contains(e.LoggedDate) {
			continue
		}
		seen[e.FdcID] = struct{}{}
		if idx := win.DayIndex(e.LoggedDate); idx >= 0 {
			s.PerDayPresence[idx] = true
		}
	}

	s.UniqueCount = len(seen)
	s.GoalMet = weeklyGoal > 0 && s.UniqueCount >= weeklyGoal
	return s
}

// UniqueFdcIDs returns the set of distinct food identifiers logged inside
// the window.
func UniqueFdcIDs(entries []LoggedFood, win weekwindow.Window) map[int]struct{} {
	ids := make(map[int]struct{})
	for _, e := range entries {
		if win.Contains(e.LoggedDate) {
			ids[e.FdcID] = struct{}{}
		}
	}
	return ids
}

// PartitionNovel splits candidate food IDs into those not yet logged this
// week and those already present. A candidate repeated earlier in the same
// batch counts as a duplicate too, so a batch can never double-log a food.
// Input order is preserved in both halves.
func PartitionNovel(entries []LoggedFood, win weekwindow.Window, candidates []int) (novel, duplicate []int) {
	logged := UniqueFdcIDs(entries, win)

	for _, fdcID := range candidates {
		if _, exists := logged[fdcID]; exists {
			duplicate = append(duplicate, fdcID)
			continue
		}
		logged[fdcID] = struct{}{}
		novel = append(novel, fdcID)
	}
	return novel, duplicate
}
