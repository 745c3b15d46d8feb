// Package task defines the remote task record and the engine that classifies
// due dates, scores urgency, and sorts or filters task collections.
package task

import (
	"encoding/json"
	"fmt"
	"time"
)

// Task is a single item as returned by the remote API.
type Task struct {
	ID          string   `json:"id"`
	Content     string   `json:"content"`
	Priority    int      `json:"priority"`
	Checked     bool     `json:"checked"`
	Description string   `json:"description"`
	Due         *DueInfo `json:"due"`
	IsDeleted   bool     `json:"is_deleted"`
}

// DueInfo is the deadline payload attached to a task. Date is either a plain
// calendar date (2006-01-02) or a date-time string; its length decides which.
type DueInfo struct {
	Date        string  `json:"date"`
	IsRecurring bool    `json:"is_recurring"`
	Timezone    *string `json:"timezone"`
}

// Classify resolves the task's due info against the default location.
func (t Task) Classify(defaultLoc *time.Location) (Classification, error) {
	return Resolve(t.Due, defaultLoc)
}

type itemsBody struct {
	Items []Task `json:"items"`
}

// DecodeTasks decodes a sync response body of the form {"items": [...]}.
func DecodeTasks(data []byte) ([]Task, error) {
	var body itemsBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("could not parse response for item: %w", err)
	}
	if body.Items == nil {
		return []Task{}, nil
	}
	return body.Items, nil
}

// DecodeTask decodes a single item, as returned by quick add.
func DecodeTask(data []byte) (Task, error) {
	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return Task{}, fmt.Errorf("could not parse response for item: %w", err)
	}
	return t, nil
}
