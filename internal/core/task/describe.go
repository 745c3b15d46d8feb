package task

import "time"

const recurringMarker = " ↻"

// DescribeDue renders the task's due info for display. Undated tasks render
// as "". A due string that cannot be resolved renders as its error text so
// that one bad task does not abort a listing.
func DescribeDue(t Task, now time.Time, defaultLoc *time.Location) string {
	c, err := t.Classify(defaultLoc)
	if err != nil {
		return err.Error()
	}

	switch c := c.(type) {
	case Date:
		return describeDay(c.Day, now) + marker(c.Recurring)
	case DateTime:
		return describeDay(startOfDay(c.At), now) + " " + c.At.Format("15:04") + marker(c.Recurring)
	default:
		return ""
	}
}

// describeDay names day relative to now when it is adjacent to today.
func describeDay(day time.Time, now time.Time) string {
	t := today(now, day.Location())
	switch {
	case day.Equal(t):
		return "Today"
	case day.Equal(t.AddDate(0, 0, 1)):
		return "Tomorrow"
	case day.Equal(t.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return day.Format("Mon Jan 2 2006")
	}
}

func marker(recurring bool) string {
	if recurring {
		return recurringMarker
	}
	return ""
}
