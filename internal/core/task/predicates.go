package task

import "time"

// HasNoDate reports whether the task has no due info. It does not parse.
func (t Task) HasNoDate() bool {
	return t.Due == nil
}

// IsToday reports whether the task is due on now's calendar date. Unparseable
// due info is never today.
func (t Task) IsToday(now time.Time, defaultLoc *time.Location) bool {
	c, err := t.Classify(defaultLoc)
	if err != nil {
		return false
	}
	switch c := c.(type) {
	case Date:
		return c.isToday(now)
	case DateTime:
		return c.isToday(now)
	default:
		return false
	}
}

// IsOverdue reports whether the task's due date is strictly before today.
// Only calendar dates are compared, so a task timed earlier today is not
// overdue until tomorrow.
func (t Task) IsOverdue(now time.Time, defaultLoc *time.Location) bool {
	c, err := t.Classify(defaultLoc)
	if err != nil {
		return false
	}
	switch c := c.(type) {
	case Date:
		return c.isOverdue(now)
	case DateTime:
		return c.isOverdue(now)
	default:
		return false
	}
}

// HasTime reports whether the task resolves to a timed deadline.
func (t Task) HasTime(defaultLoc *time.Location) bool {
	c, err := t.Classify(defaultLoc)
	if err != nil {
		return false
	}
	_, ok := c.(DateTime)
	return ok
}

func (d Date) isToday(now time.Time) bool {
	return d.Day.Equal(today(now, d.Day.Location()))
}

func (d Date) isOverdue(now time.Time) bool {
	return d.Day.Before(today(now, d.Day.Location()))
}

func (d DateTime) isToday(now time.Time) bool {
	return startOfDay(d.At).Equal(today(now, d.At.Location()))
}

func (d DateTime) isOverdue(now time.Time) bool {
	return startOfDay(d.At).Before(today(now, d.At.Location()))
}
