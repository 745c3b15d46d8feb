package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brandonszeto/todo/internal/core/kv"
	"github.com/brandonszeto/todo/internal/core/task"
	"github.com/brandonszeto/todo/internal/core/validate"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
)

// ErrNoNextItem is returned when there is no task to show or complete.
var ErrNoNextItem = errors.New("no next item")

const (
	nextNamespace = "next"
	nextKey       = "item"
)

// TaskAPI is the subset of the remote client used by TaskService.
type TaskAPI interface {
	QuickAdd(ctx context.Context, text string) (task.Task, error)
	Item(ctx context.Context, itemID string) (task.Task, error)
	ProjectItems(ctx context.Context, projectID string) ([]task.Task, error)
	MoveItem(ctx context.Context, itemID, projectID string) error
	CloseItem(ctx context.Context, itemID string) error
	UpdatePriority(ctx context.Context, itemID string, priority int) error
}

// NextItem is the task remembered by Next for a later CompleteNext.
type NextItem struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// TaskService composes the remote API with the task engine.
type TaskService struct {
	api  TaskAPI
	next *kv.TypedKV[NextItem]
	loc  *time.Location
	now  func() time.Time
	log  zerolog.Logger
}

// NewTaskService creates a TaskService. loc is the default timezone for
// tasks that carry none; nil means UTC.
func NewTaskService(api TaskAPI, store kv.KV, loc *time.Location, now func() time.Time, log zerolog.Logger) *TaskService {
	return &TaskService{
		api:  api,
		next: kv.Scoped[NextItem](store, nextNamespace),
		loc:  loc,
		now:  now,
		log:  log,
	}
}

// Location returns the default timezone used for classification.
func (s *TaskService) Location() *time.Location {
	return s.loc
}

// Now returns the service clock's current time.
func (s *TaskService) Now() time.Time {
	return s.now()
}

// All returns the open tasks of a project in urgency order.
func (s *TaskService) All(ctx context.Context, projectID string) ([]task.Task, error) {
	tasks, err := s.open(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return task.SortByUrgency(tasks, s.now(), s.loc), nil
}

// Actionable returns open tasks that are undated or due on or before today,
// most urgent first.
func (s *TaskService) Actionable(ctx context.Context, projectID string) ([]task.Task, error) {
	tasks, err := s.open(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return task.SortByUrgency(task.FilterActionable(tasks, now, s.loc), now, s.loc), nil
}

// DueNow returns open tasks with a time of day due today, earliest first.
func (s *TaskService) DueNow(ctx context.Context, projectID string) ([]task.Task, error) {
	tasks, err := s.open(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return task.SortByDueInstant(task.FilterDueNow(tasks, now, s.loc), now, s.loc), nil
}

// Next returns the most urgent actionable task and remembers it for
// CompleteNext.
func (s *TaskService) Next(ctx context.Context, projectID string) (task.Task, error) {
	tasks, err := s.Actionable(ctx, projectID)
	if err != nil {
		return task.Task{}, err
	}

	if len(tasks) == 0 {
		if err := s.next.Delete(ctx, nextKey); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear next item")
		}
		return task.Task{}, ErrNoNextItem
	}

	next := tasks[0]
	if err := s.next.Set(ctx, nextKey, NextItem{ID: next.ID, Content: next.Content}); err != nil {
		return task.Task{}, fmt.Errorf("remember next item: %w", err)
	}

	s.log.Debug().Str("id", next.ID).Int("score", task.Score(next, s.now(), s.loc)).Msg("next item selected")
	return next, nil
}

// CompleteNext closes the task remembered by the last Next call and
// forgets it.
func (s *TaskService) CompleteNext(ctx context.Context) (NextItem, error) {
	item, ok, err := s.next.Lookup(ctx, nextKey)
	if err != nil {
		return NextItem{}, fmt.Errorf("load next item: %w", err)
	}
	if !ok {
		return NextItem{}, ErrNoNextItem
	}

	if err := s.api.CloseItem(ctx, item.ID); err != nil {
		return NextItem{}, err
	}

	if err := s.next.Delete(ctx, nextKey); err != nil {
		return item, fmt.Errorf("clear next item: %w", err)
	}

	return item, nil
}

// Add creates a task from natural language text.
func (s *TaskService) Add(ctx context.Context, text string) (task.Task, error) {
	if err := criterio.Run("text", text, validate.Required); err != nil {
		return task.Task{}, err
	}
	return s.api.QuickAdd(ctx, text)
}

// Move moves a task to another project.
func (s *TaskService) Move(ctx context.Context, itemID, projectID string) error {
	err := criterio.ValidateStruct(
		criterio.Run("id", itemID, validate.ItemID),
		criterio.Run("project", projectID, validate.Required),
	)
	if err != nil {
		return err
	}
	return s.api.MoveItem(ctx, itemID, projectID)
}

// Item fetches a single task by id.
func (s *TaskService) Item(ctx context.Context, itemID string) (task.Task, error) {
	if err := criterio.Run("id", itemID, validate.ItemID); err != nil {
		return task.Task{}, err
	}
	return s.api.Item(ctx, itemID)
}

// SetPriority sets a task's priority from a user level, 1 (lowest) to 3
// (highest), stored remotely as 2 to 4. The task then becomes the next item,
// so CompleteNext closes it.
func (s *TaskService) SetPriority(ctx context.Context, t task.Task, level int) error {
	var errs criterio.FieldErrorsBuilder
	if err := validate.ItemID(t.ID); err != nil {
		errs = errs.Append("id", err)
	}
	if err := validate.PriorityLevel(level); err != nil {
		errs = errs.Append("level", err)
	}
	if err := errs.ToError(); err != nil {
		return err
	}

	if err := s.api.UpdatePriority(ctx, t.ID, level+1); err != nil {
		return err
	}

	if err := s.next.Set(ctx, nextKey, NextItem{ID: t.ID, Content: t.Content}); err != nil {
		return fmt.Errorf("remember next item: %w", err)
	}
	return nil
}

func (s *TaskService) open(ctx context.Context, projectID string) ([]task.Task, error) {
	tasks, err := s.api.ProjectItems(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return task.FilterOpen(tasks), nil
}
