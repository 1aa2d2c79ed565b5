package weekwindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestComputeMidweek(t *testing.T) {
	loc := mustLoad(t, "America/Los_Angeles")

	// Wednesday 2026-01-14
	ref := time.Date(2026, 1, 14, 15, 30, 0, 0, loc)
	win := Compute(ref, loc)

	assert.Equal(t, "2026-01-12", win.StartDate)
	assert.Equal(t, "2026-01-18", win.EndDate)
}

func TestComputeOnMonday(t *testing.T) {
	loc := mustLoad(t, "America/Los_Angeles")

	ref := time.Date(2026, 1, 12, 0, 0, 1, 0, loc)
	win := Compute(ref, loc)

	assert.Equal(t, "2026-01-12", win.StartDate)
	assert.Equal(t, "2026-01-18", win.EndDate)
}

func TestComputeOnSunday(t *testing.T) {
	loc := mustLoad(t, "America/Los_Angeles")

	// Sunday belongs to the week that started the previous Monday.
	ref := time.Date(2026, 1, 18, 23, 59, 59, 0, loc)
	win := Compute(ref, loc)

	assert.Equal(t, "2026-01-12", win.StartDate)
	assert.Equal(t, "2026-01-18", win.EndDate)
}

func TestStartIsAlwaysMondayAndContainsRef(t *testing.T) {
	loc := mustLoad(t, "America/Los_Angeles")

	// Walk every day of a few months, including a DST transition (Mar 8 2026).
	day := time.Date(2026, 1, 1, 12, 0, 0, 0, loc)
	for i := 0; i < 120; i++ {
		win := Compute(day, loc)

		start, err := time.ParseInLocation(DateLayout, win.StartDate, loc)
		require.NoError(t, err)
		end, err := time.ParseInLocation(DateLayout, win.EndDate, loc)
		require.NoError(t, err)

		assert.Equal(t, time.Monday, start.Weekday(), "start of %s", win.StartDate)
		assert.Equal(t, time.Sunday, end.Weekday(), "end of %s", win.EndDate)
		assert.True(t, win.Contains(FormatDate(day)), "ref %s in [%s, %s]", FormatDate(day), win.StartDate, win.EndDate)

		day = day.AddDate(0, 0, 1)
	}
}

func TestIdempotentForAnyDayInsideWindow(t *testing.T) {
	loc := mustLoad(t, "Europe/Sofia")

	ref := time.Date(2026, 5, 20, 9, 0, 0, 0, loc)
	win := Compute(ref, loc)

	for _, date := range win.DayDates() {
		d, err := time.ParseInLocation(DateLayout, date, loc)
		require.NoError(t, err)
		assert.Equal(t, win, Compute(d, loc))
	}
}

func TestWindowIsLocalNotUTC(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")

	// Monday 05:00 UTC is still Sunday evening in Los Angeles, so the LA
	// window must be the one ending that Sunday.
	ref := time.Date(2026, 1, 19, 5, 0, 0, 0, time.UTC)
	win := Compute(ref, la)

	assert.Equal(t, "2026-01-12", win.StartDate)
	assert.Equal(t, "2026-01-18", win.EndDate)

	utcWin := Compute(ref, time.UTC)
	assert.Equal(t, "2026-01-19", utcWin.StartDate)
}

func TestDayDatesAndIndex(t *testing.T) {
	loc := mustLoad(t, "America/Los_Angeles")

	win := Compute(time.Date(2026, 1, 14, 12, 0, 0, 0, loc), loc)
	days := win.DayDates()

	assert.Equal(t, "2026-01-12", days[0])
	assert.Equal(t, "2026-01-18", days[6])

	assert.Equal(t, 0, win.DayIndex("2026-01-12"))
	assert.Equal(t, 3, win.DayIndex("2026-01-15"))
	assert.Equal(t, 6, win.DayIndex("2026-01-18"))
	assert.Equal(t, -1, win.DayIndex("2026-01-19"))
	assert.Equal(t, -1, win.DayIndex("not-a-date"))
}
