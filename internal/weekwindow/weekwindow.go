package weekwindow

import "time"

const DateLayout = "2006-01-02"

// Window is the Monday-through-Sunday range containing a reference date,
// expressed as plain calendar dates in the user's local timezone. Dates carry
// no time-of-day and no zone suffix so they compare cleanly against stored
// logged_date values. A Window is always derived on demand, never persisted.
type Window struct {
	StartDate string `json:"week_starting_date"`
	EndDate   string `json:"week_ending_date"`
}

// FormatDate renders t as YYYY-MM-DD in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Compute returns the week window containing ref in loc.
// Weeks start Monday 00:00:00 and end Sunday 23:59:59 local time.
func Compute(ref time.Time, loc *time.Location) Window {
	local := ref.In(loc)

	dow := int(local.Weekday()) // Sunday = 0
	diff := 1 - dow
	if dow == 0 {
		diff = -6
	}

	monday := time.Date(local.Year(), local.Month(), local.Day()+diff, 0, 0, 0, 0, loc)
	sunday := monday.AddDate(0, 0, 6)

	return Window{
		StartDate: FormatDate(monday),
		EndDate:   FormatDate(sunday),
	}
}

// Contains reports whether a YYYY-MM-DD date falls inside the window,
// boundaries inclusive. ISO dates compare correctly as strings.
func (w Window) Contains(date string) bool {
	return date >= w.StartDate && date <= w.EndDate
}

// DayDates returns the seven dates of the window, Monday first.
func (w Window) DayDates() [7]string {
	start, _ := time.Parse(DateLayout, w.StartDate)

	var days [7]string
	for i := range days {
		days[i] = FormatDate(start.AddDate(0, 0, i))
	}
	return days
}

// DayIndex maps a date inside the window to its Monday-based offset 0..6.
// Returns -1 for dates outside the window.
func (w Window) DayIndex(date string) int {
	if !w.Contains(date) {
		return -1
	}
	start, _ := time.Parse(DateLayout, w.StartDate)
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return -1
	}
	return int(d.Sub(start).Hours() / 24)
}
