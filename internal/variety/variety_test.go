package variety

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"platePaletteAPI/internal/weekwindow"
)

// Week of Mon 2026-01-12 .. Sun 2026-01-18.
func testWindow() weekwindow.Window {
	return weekwindow.Compute(time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC), time.UTC)
}

func TestSummarizeDeduplicatesWithinWeek(t *testing.T) {
	win := testWindow()

	entries := []LoggedFood{
		{FdcID: 1001, LoggedDate: "2026-01-12"}, // Monday
		{FdcID: 1001, LoggedDate: "2026-01-14"}, // same food, Wednesday
		{FdcID: 2002, LoggedDate: "2026-01-14"},
	}

	s := Summarize(entries, win, 5)

	assert.Equal(t, 2, s.UniqueCount)
	assert.True(t, s.PerDayPresence[0])  // Mon
	assert.True(t, s.PerDayPresence[2])  // Wed
	assert.False(t, s.PerDayPresence[1]) // Tue
	assert.False(t, s.GoalMet)
}

func TestSummarizeIgnoresEntriesOutsideWindow(t *testing.T) {
	win := testWindow()

	entries := []LoggedFood{
		{FdcID: 1001, LoggedDate: "2026-01-11"}, // Sunday of previous week
		{FdcID: 1001, LoggedDate: "2026-01-12"}, // Monday of this week
		{FdcID: 3003, LoggedDate: "2026-01-19"}, // Monday of next week
	}

	s := Summarize(entries, win, 5)
	assert.Equal(t, 1, s.UniqueCount)
}

func TestSameFoodCountsOncePerWeekIndependently(t *testing.T) {
	// Food 1001 on Sunday, then again the following Monday: one count in
	// each of the two weeks.
	entries := []LoggedFood{
		{FdcID: 1001, LoggedDate: "2026-01-18"},
		{FdcID: 1001, LoggedDate: "2026-01-19"},
	}

	weekOne := testWindow()
	weekTwo := weekwindow.Compute(time.Date(2026, 1, 19, 12, 0, 0, 0, time.UTC), time.UTC)

	assert.Equal(t, 1, Summarize(entries, weekOne, 5).UniqueCount)
	assert.Equal(t, 1, Summarize(entries, weekTwo, 5).UniqueCount)
}

func TestUniqueCountNeverExceedsDistinctIDs(t *testing.T) {
	win := testWindow()

	entries := []LoggedFood{
		{FdcID: 1001, LoggedDate: "2026-01-12"},
		{FdcID: 1001, LoggedDate: "2026-01-13"},
		{FdcID: 1001, LoggedDate: "2026-01-14"},
		{FdcID: 2002, LoggedDate: "2026-01-15"},
	}

	s := Summarize(entries, win, 5)
	assert.Equal(t, 2, s.UniqueCount)
}

func TestGoalMet(t *testing.T) {
	win := testWindow()

	entries := []LoggedFood{
		{FdcID: 1, LoggedDate: "2026-01-12"},
		{FdcID: 2, LoggedDate: "2026-01-13"},
		{FdcID: 3, LoggedDate: "2026-01-13"},
	}

	assert.True(t, Summarize(entries, win, 3).GoalMet)
	assert.False(t, Summarize(entries, win, 4).GoalMet)
}

func TestPartitionNovelAgainstStoredEntries(t *testing.T) {
	win := testWindow()

	stored := []LoggedFood{
		{FdcID: 1001, LoggedDate: "2026-01-12"},
		{FdcID: 2002, LoggedDate: "2026-01-13"},
	}

	novel, dup := PartitionNovel(stored, win, []int{1001, 3003})

	assert.Equal(t, []int{3003}, novel)
	assert.Equal(t, []int{1001}, dup)
}

func TestPartitionNovelDetectsDuplicatesWithinBatch(t *testing.T) {
	win := testWindow()

	novel, dup := PartitionNovel(nil, win, []int{4004, 4004, 5005})

	assert.Equal(t, []int{4004, 5005}, novel)
	assert.Equal(t, []int{4004}, dup)
}

func TestPartitionNovelIgnoresOtherWeeksEntries(t *testing.T) {
	win := testWindow()

	stored := []LoggedFood{
		{FdcID: 1001, LoggedDate: "2026-01-05"}, // previous week
	}

	novel, dup := PartitionNovel(stored, win, []int{1001})

	assert.Equal(t, []int{1001}, novel)
	assert.Empty(t, dup)
}

func TestPartitionNovelAllDuplicates(t *testing.T) {
	win := testWindow()

	stored := []LoggedFood{{FdcID: 1001, LoggedDate: "2026-01-12"}}

	novel, dup := PartitionNovel(stored, win, []int{1001, 1001})
	assert.Empty(t, novel)
	assert.Equal(t, []int{1001, 1001}, dup)
}
