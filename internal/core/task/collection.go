package task

import (
	"cmp"
	"slices"
	"time"
)

type keyed[K any] struct {
	key  K
	task Task
}

// SortByUrgency returns tasks ordered by descending Score. Equal scores keep
// their input order.
func SortByUrgency(tasks []Task, now time.Time, defaultLoc *time.Location) []Task {
	ks := make([]keyed[int], len(tasks))
	for i, t := range tasks {
		ks[i] = keyed[int]{key: Score(t, now, defaultLoc), task: t}
	}

	slices.SortStableFunc(ks, func(a, b keyed[int]) int {
		return cmp.Compare(b.key, a.key)
	})

	return unkey(ks)
}

// SortByDueInstant returns tasks ordered by ascending due instant. Tasks
// without a timed deadline (no date, all-day, or unparseable) follow all
// timed tasks and keep their input order.
func SortByDueInstant(tasks []Task, now time.Time, defaultLoc *time.Location) []Task {
	ks := make([]keyed[*time.Time], len(tasks))
	for i, t := range tasks {
		ks[i] = keyed[*time.Time]{key: dueInstant(t, defaultLoc), task: t}
	}

	slices.SortStableFunc(ks, func(a, b keyed[*time.Time]) int {
		switch {
		case a.key == nil && b.key == nil:
			return 0
		case a.key == nil:
			return 1
		case b.key == nil:
			return -1
		default:
			return a.key.Compare(*b.key)
		}
	})

	return unkey(ks)
}

// FilterActionable keeps tasks that are due today, overdue, or undated.
func FilterActionable(tasks []Task, now time.Time, defaultLoc *time.Location) []Task {
	return filter(tasks, func(t Task) bool {
		return t.IsToday(now, defaultLoc) || t.HasNoDate() || t.IsOverdue(now, defaultLoc)
	})
}

// FilterDueNow keeps tasks that are timed and due today.
func FilterDueNow(tasks []Task, now time.Time, defaultLoc *time.Location) []Task {
	return filter(tasks, func(t Task) bool {
		return t.IsToday(now, defaultLoc) && t.HasTime(defaultLoc)
	})
}

// FilterOpen drops completed and deleted tasks.
func FilterOpen(tasks []Task) []Task {
	return filter(tasks, func(t Task) bool {
		return !t.Checked && !t.IsDeleted
	})
}

func dueInstant(t Task, defaultLoc *time.Location) *time.Time {
	c, err := t.Classify(defaultLoc)
	if err != nil {
		return nil
	}
	if dt, ok := c.(DateTime); ok {
		return &dt.At
	}
	return nil
}

func filter(tasks []Task, keep func(Task) bool) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func unkey[K any](ks []keyed[K]) []Task {
	out := make([]Task, len(ks))
	for i, k := range ks {
		out[i] = k.task
	}
	return out
}
