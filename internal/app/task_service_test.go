package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/brandonszeto/todo/internal/core/task"
	"github.com/brandonszeto/todo/internal/data/db"
	"github.com/brandonszeto/todo/internal/data/stores"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

type fakeAPI struct {
	items    []task.Task
	itemsErr error
	closeErr error

	added      []string
	closed     []string
	moved      map[string]string
	priorities map[string]int
}

func (f *fakeAPI) QuickAdd(_ context.Context, text string) (task.Task, error) {
	f.added = append(f.added, text)
	return task.Task{ID: "new", Content: text, Priority: 1}, nil
}

func (f *fakeAPI) Item(_ context.Context, itemID string) (task.Task, error) {
	for _, it := range f.items {
		if it.ID == itemID {
			return it, nil
		}
	}
	return task.Task{}, errors.New("item not found")
}

func (f *fakeAPI) ProjectItems(_ context.Context, _ string) ([]task.Task, error) {
	return f.items, f.itemsErr
}

func (f *fakeAPI) MoveItem(_ context.Context, itemID, projectID string) error {
	if f.moved == nil {
		f.moved = map[string]string{}
	}
	f.moved[itemID] = projectID
	return nil
}

func (f *fakeAPI) CloseItem(_ context.Context, itemID string) error {
	if f.closeErr != nil {
		return f.closeErr
	}
	f.closed = append(f.closed, itemID)
	return nil
}

func (f *fakeAPI) UpdatePriority(_ context.Context, itemID string, priority int) error {
	if f.priorities == nil {
		f.priorities = map[string]int{}
	}
	f.priorities[itemID] = priority
	return nil
}

func due(date string) *task.DueInfo {
	return &task.DueInfo{Date: date}
}

// fixtureTasks scored at fixedNow in UTC:
//
//	e 252 (imminent), g 202 (overdue), b 154 (today), a 82 (undated), f 53 (timed later today)
func fixtureTasks() []task.Task {
	return []task.Task{
		{ID: "a", Content: "Read book", Priority: 1},
		{ID: "b", Content: "Pay rent", Priority: 4, Due: due("2024-01-15")},
		{ID: "c", Content: "Dentist", Priority: 4, Due: due("2024-01-16")},
		{ID: "d", Content: "Done already", Priority: 4, Due: due("2024-01-01"), Checked: true},
		{ID: "e", Content: "Standup", Priority: 1, Due: due("2024-01-15T09:10:00")},
		{ID: "f", Content: "Gym", Priority: 3, Due: due("2024-01-15T15:00:00")},
		{ID: "g", Content: "Taxes", Priority: 1, Due: due("2024-01-10")},
		{ID: "h", Content: "Deleted", Priority: 4, IsDeleted: true},
	}
}

func newTestService(t *testing.T, api *fakeAPI) *TaskService {
	t.Helper()
	return newLoggedService(t, api, zerolog.Nop())
}

func newLoggedService(t *testing.T, api *fakeAPI, log zerolog.Logger) *TaskService {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	store := stores.NewKVStore(database)
	return NewTaskService(api, store, time.UTC, func() time.Time { return fixedNow }, log)
}

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestTaskService_Views(t *testing.T) {
	tests := []struct {
		name string
		view func(s *TaskService) ([]task.Task, error)
		want []string
	}{
		{
			name: "actionable",
			view: func(s *TaskService) ([]task.Task, error) { return s.Actionable(context.Background(), "p") },
			want: []string{"e", "g", "b", "a", "f"},
		},
		{
			name: "due now",
			view: func(s *TaskService) ([]task.Task, error) { return s.DueNow(context.Background(), "p") },
			want: []string{"e", "f"},
		},
		{
			name: "all open",
			view: func(s *TaskService) ([]task.Task, error) { return s.All(context.Background(), "p") },
			want: []string{"e", "g", "b", "a", "c", "f"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t, &fakeAPI{items: fixtureTasks()})

			got, err := tt.view(s)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestTaskService_ViewsPropagateErrors(t *testing.T) {
	boom := errors.New("boom")
	s := newTestService(t, &fakeAPI{itemsErr: boom})

	_, err := s.Actionable(context.Background(), "p")
	require.ErrorIs(t, err, boom)

	_, err = s.Next(context.Background(), "p")
	require.ErrorIs(t, err, boom)
}

func TestTaskService_NextAndComplete(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{items: fixtureTasks()}
	s := newTestService(t, api)

	next, err := s.Next(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "e", next.ID)

	done, err := s.CompleteNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, NextItem{ID: "e", Content: "Standup"}, done)
	assert.Equal(t, []string{"e"}, api.closed)

	_, err = s.CompleteNext(ctx)
	require.ErrorIs(t, err, ErrNoNextItem)
	assert.Len(t, api.closed, 1)
}

func TestTaskService_NextEmptyClearsRemembered(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{items: fixtureTasks()}
	s := newTestService(t, api)

	_, err := s.Next(ctx, "p")
	require.NoError(t, err)

	api.items = []task.Task{{ID: "c", Due: due("2024-01-16")}}
	_, err = s.Next(ctx, "p")
	require.ErrorIs(t, err, ErrNoNextItem)

	_, err = s.CompleteNext(ctx)
	require.ErrorIs(t, err, ErrNoNextItem)
	assert.Empty(t, api.closed)
}

func TestTaskService_CompleteNextKeepsItemOnFailure(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{items: fixtureTasks(), closeErr: errors.New("offline")}
	s := newTestService(t, api)

	_, err := s.Next(ctx, "p")
	require.NoError(t, err)

	_, err = s.CompleteNext(ctx)
	require.Error(t, err)

	api.closeErr = nil
	done, err := s.CompleteNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "e", done.ID)
}

func TestTaskService_SetPriority(t *testing.T) {
	tests := []struct {
		level   int
		want    int
		wantErr bool
	}{
		{level: 1, want: 2},
		{level: 2, want: 3},
		{level: 3, want: 4},
		{level: 0, wantErr: true},
		{level: 4, wantErr: true},
	}

	for _, tt := range tests {
		api := &fakeAPI{}
		s := newTestService(t, api)

		err := s.SetPriority(context.Background(), task.Task{ID: "42", Content: "File taxes"}, tt.level)
		if tt.wantErr {
			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs, "level %d", tt.level)
			assert.Equal(t, "level", fieldErrs[0].Field)
			assert.Empty(t, api.priorities)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, api.priorities["42"], "level %d", tt.level)
	}
}

func TestTaskService_SetPriorityRemembersItem(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{items: fixtureTasks()}
	s := newTestService(t, api)

	// Next remembers "e"; prioritizing "c" replaces it.
	_, err := s.Next(ctx, "p")
	require.NoError(t, err)

	item, err := s.Item(ctx, "c")
	require.NoError(t, err)
	require.NoError(t, s.SetPriority(ctx, item, 3))

	done, err := s.CompleteNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, NextItem{ID: "c", Content: "Dentist"}, done)
	assert.Equal(t, []string{"c"}, api.closed)
}

func TestTaskService_Item(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &fakeAPI{items: fixtureTasks()})

	got, err := s.Item(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "Pay rent", got.Content)

	_, err = s.Item(ctx, "")
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "id", fieldErrs[0].Field)
}

func TestTaskService_LogComponent(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel).With().Str("cmp", "tasks").Logger()
	s := newLoggedService(t, &fakeAPI{items: fixtureTasks()}, log)

	_, err := s.Next(context.Background(), "p")
	require.NoError(t, err)

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)
	assert.Equal(t, 1, strings.Count(line, `"cmp":`))
	assert.Contains(t, line, `"cmp":"tasks"`)
}

func TestTaskService_AddAndMove(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	s := newTestService(t, api)

	added, err := s.Add(ctx, "Buy milk tomorrow at 5pm")
	require.NoError(t, err)
	assert.Equal(t, "new", added.ID)
	assert.Equal(t, []string{"Buy milk tomorrow at 5pm"}, api.added)

	_, err = s.Add(ctx, "   ")
	require.Error(t, err)
	assert.Len(t, api.added, 1)

	require.NoError(t, s.Move(ctx, "42", "2200000002"))
	assert.Equal(t, map[string]string{"42": "2200000002"}, api.moved)

	require.Error(t, s.Move(ctx, "", "2200000002"))
}
