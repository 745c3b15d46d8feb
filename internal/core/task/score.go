package task

import "time"

// Date value contributions.
const (
	noDateValue     = 80
	todayValue      = 100
	overdueValue    = 150
	nonRecurring    = 50
	imminentValue   = 200
	unresolvedValue = 50

	// imminentWindow is the distance from now, in whole minutes either side,
	// within which a timed task counts as imminent.
	imminentWindow = 15
)

// Score ranks a task for display. Higher values surface first. Scores are
// only comparable between tasks scored against the same now.
func Score(t Task, now time.Time, defaultLoc *time.Location) int {
	return DateValue(t, now, defaultLoc) + PriorityValue(t.Priority)
}

// DateValue is the due-date part of Score.
func DateValue(t Task, now time.Time, defaultLoc *time.Location) int {
	c, err := t.Classify(defaultLoc)
	if err != nil {
		return unresolvedValue
	}

	switch c := c.(type) {
	case NoDate:
		return noDateValue
	case Date:
		v := 0
		if c.isToday(now) {
			v += todayValue
		}
		if c.isOverdue(now) {
			v += overdueValue
		}
		return v + recurringValue(c.Recurring)
	case DateTime:
		v := 0
		// Duration division truncates toward zero, so 15m59s still counts as 15.
		minutes := int64(c.At.Sub(now) / time.Minute)
		if minutes >= -imminentWindow && minutes <= imminentWindow {
			v += imminentValue
		}
		return v + recurringValue(c.Recurring)
	default:
		return unresolvedValue
	}
}

func recurringValue(recurring bool) int {
	if recurring {
		return 0
	}
	return nonRecurring
}

// PriorityValue maps a stored priority (1 normal .. 4 urgent) onto its
// contribution to Score.
func PriorityValue(priority int) int {
	switch priority {
	case 2:
		return 1
	case 3:
		return 3
	case 4:
		return 4
	default:
		return 2
	}
}
