package task

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		name       string
		due        *DueInfo
		defaultLoc *time.Location
		want       Classification
	}{
		{
			name: "no due info",
			due:  nil,
			want: NoDate{},
		},
		{
			name: "calendar date defaults to UTC",
			due:  &DueInfo{Date: "2024-01-15"},
			want: Date{Day: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		},
		{
			name:       "calendar date in default location",
			due:        &DueInfo{Date: "2024-01-15", IsRecurring: true},
			defaultLoc: newYork,
			want:       Date{Day: time.Date(2024, 1, 15, 0, 0, 0, 0, newYork), Recurring: true},
		},
		{
			name:       "task timezone overrides default",
			due:        &DueInfo{Date: "2024-01-15T09:05:00", Timezone: strPtr("Europe/Berlin")},
			defaultLoc: newYork,
			want:       DateTime{At: time.Date(2024, 1, 15, 9, 5, 0, 0, berlin)},
		},
		{
			name:       "unknown task timezone falls back to default",
			due:        &DueInfo{Date: "2024-01-15T09:05:00", Timezone: strPtr("Mars/Olympus")},
			defaultLoc: newYork,
			want:       DateTime{At: time.Date(2024, 1, 15, 9, 5, 0, 0, newYork)},
		},
		{
			name:       "utc date-time is converted into the location",
			due:        &DueInfo{Date: "2024-01-15T14:00:00Z", IsRecurring: true},
			defaultLoc: newYork,
			want:       DateTime{At: time.Date(2024, 1, 15, 9, 0, 0, 0, newYork), Recurring: true},
		},
		{
			name: "fractional seconds",
			due:  &DueInfo{Date: "2024-01-15T09:05:00.000000"},
			want: DateTime{At: time.Date(2024, 1, 15, 9, 5, 0, 0, time.UTC)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.due, tt.defaultLoc)
			require.NoError(t, err)

			switch want := tt.want.(type) {
			case NoDate:
				assert.IsType(t, NoDate{}, got)
			case Date:
				d, ok := got.(Date)
				require.True(t, ok, "expected Date, got %T", got)
				assert.True(t, want.Day.Equal(d.Day), "day: want %v, got %v", want.Day, d.Day)
				assert.Equal(t, want.Day.Location().String(), d.Day.Location().String())
				assert.Equal(t, want.Recurring, d.Recurring)
			case DateTime:
				dt, ok := got.(DateTime)
				require.True(t, ok, "expected DateTime, got %T", got)
				assert.True(t, want.At.Equal(dt.At), "instant: want %v, got %v", want.At, dt.At)
				assert.Equal(t, want.At.Location().String(), dt.At.Location().String())
				assert.Equal(t, want.Recurring, dt.Recurring)
			}
		})
	}
}

func TestResolve_DSTTransitions(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		name string
		date string
		loc  *time.Location
		want time.Time
	}{
		{
			name: "spring-forward gap moves ahead",
			date: "2024-03-10T02:30:00",
			loc:  newYork,
			want: time.Date(2024, 3, 10, 7, 30, 0, 0, time.UTC),
		},
		{
			name: "gap start moves ahead",
			date: "2024-03-10T02:00:00",
			loc:  newYork,
			want: time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC),
		},
		{
			name: "fall-back repeat takes first occurrence",
			date: "2024-11-03T01:30:00",
			loc:  newYork,
			want: time.Date(2024, 11, 3, 5, 30, 0, 0, time.UTC),
		},
		{
			name: "berlin gap moves ahead",
			date: "2024-03-31T02:30:00",
			loc:  berlin,
			want: time.Date(2024, 3, 31, 1, 30, 0, 0, time.UTC),
		},
		{
			name: "berlin repeat takes first occurrence",
			date: "2024-10-27T02:30:00",
			loc:  berlin,
			want: time.Date(2024, 10, 27, 0, 30, 0, 0, time.UTC),
		},
		{
			name: "day of transition outside the gap",
			date: "2024-03-10T09:00:00",
			loc:  newYork,
			want: time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC),
		},
		{
			name: "no transition",
			date: "2024-01-15T09:10:00",
			loc:  newYork,
			want: time.Date(2024, 1, 15, 14, 10, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 3 {
				got, err := Resolve(&DueInfo{Date: tt.date, Timezone: strPtr(tt.loc.String())}, nil)
				require.NoError(t, err)

				dt, ok := got.(DateTime)
				require.True(t, ok, "expected DateTime, got %T", got)
				assert.True(t, tt.want.Equal(dt.At), "instant: want %v, got %v", tt.want, dt.At.UTC())
				assert.Equal(t, tt.loc.String(), dt.At.Location().String())
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		date string
		kind error
	}{
		{name: "non-numeric date components", date: "2024-1x-15", kind: ErrMalformedDate},
		{name: "month out of range", date: "2024-13-01", kind: ErrMalformedDate},
		{name: "wrong length", date: "2024-1-15", kind: ErrMalformedDateTime},
		{name: "garbage", date: "next tuesday", kind: ErrMalformedDateTime},
		{name: "empty", date: "", kind: ErrMalformedDateTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(&DueInfo{Date: tt.date}, nil)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.kind)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.date, perr.Value)
		})
	}
}

func TestTask_Classify_IsNotCached(t *testing.T) {
	task := dated("1", "2024-01-15", false)
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	utc, err := task.Classify(nil)
	require.NoError(t, err)
	ny, err := task.Classify(newYork)
	require.NoError(t, err)

	assert.Equal(t, "UTC", utc.(Date).Day.Location().String())
	assert.Equal(t, "America/New_York", ny.(Date).Day.Location().String())
}
