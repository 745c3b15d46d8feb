package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/brandonszeto/todo/internal/core/styles"
	"github.com/brandonszeto/todo/internal/core/task"
	"github.com/brandonszeto/todo/pkg/iojson"
)

// taskInfo is the JSON lines shape of a task.
type taskInfo struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"`
	Due         string `json:"due,omitempty"`
	Recurring   bool   `json:"recurring,omitempty"`
	Score       int    `json:"score"`
	Today       bool   `json:"today"`
	Overdue     bool   `json:"overdue"`
}

func newTaskInfo(t task.Task, now time.Time, loc *time.Location) taskInfo {
	info := taskInfo{
		ID:          t.ID,
		Content:     t.Content,
		Description: t.Description,
		Priority:    t.Priority,
		Score:       task.Score(t, now, loc),
		Today:       t.IsToday(now, loc),
		Overdue:     t.IsOverdue(now, loc),
	}
	if t.Due != nil {
		info.Due = t.Due.Date
		info.Recurring = t.Due.IsRecurring
	}
	return info
}

// writeTasks renders tasks as JSON lines or human-readable blocks.
func writeTasks(w io.Writer, tasks []task.Task, now time.Time, loc *time.Location, jsonOutput bool) error {
	for _, t := range tasks {
		if jsonOutput {
			if err := iojson.WriteLine(w, newTaskInfo(t, now, loc)); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
			continue
		}

		if err := writeTask(w, t, now, loc); err != nil {
			return err
		}
	}
	return nil
}

// writeTask prints one task block:
//
//	content
//	description
//	Due: Today 09:30 ↻
func writeTask(w io.Writer, t task.Task, now time.Time, loc *time.Location) error {
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.Priority(t.Priority).Render(t.Content))

	if t.Description != "" {
		_, _ = fmt.Fprintln(w, styles.Markdown(t.Description))
	}

	if t.HasNoDate() {
		return nil
	}

	due := task.DescribeDue(t, now, loc)
	style := styles.DueStyle
	if t.IsOverdue(now, loc) {
		style = styles.OverdueStyle
	}

	_, err := fmt.Fprintln(w, style.Render("Due: "+due))
	return err
}
