package calendar

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpoint/classpoint-backend/internal/db"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dbh, err := sql.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	dbh.SetMaxOpenConns(1)
	t.Cleanup(func() { dbh.Close() })
	require.NoError(t, db.EnsureSchema(context.Background(), dbh, db.DriverSQLite))
	return dbh
}

func TestUpcomingFiltersAndSorts(t *testing.T) {
	s := NewSQLStore(testDB(t))
	ctx := context.Background()

	_, err := s.Create(ctx, Event{Title: "Past exam", Kind: KindExam, StartsAt: 100})
	require.NoError(t, err)
	_, err = s.Create(ctx, Event{Title: "Staff meeting", Kind: KindMeeting, StartsAt: 300, Audience: "teachers"})
	require.NoError(t, err)
	_, err = s.Create(ctx, Event{Title: "Sports day", Kind: KindActivity, StartsAt: 200})
	require.NoError(t, err)

	events, err := s.Upcoming(ctx, 150, "students", 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Sports day", events[0].Title)

	events, err = s.Upcoming(ctx, 150, "teachers", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Sports day", events[0].Title) // soonest first
}

func TestCreateValidation(t *testing.T) {
	s := NewSQLStore(testDB(t))
	ctx := context.Background()

	_, err := s.Create(ctx, Event{Title: "x", Kind: "party", StartsAt: 10})
	assert.Error(t, err)
	_, err = s.Create(ctx, Event{Kind: KindExam, StartsAt: 10})
	assert.Error(t, err)
	_, err = s.Create(ctx, Event{Title: "x", Kind: KindExam, StartsAt: 10, EndsAt: 5})
	assert.Error(t, err)

	assert.ErrorIs(t, s.Delete(ctx, "missing"), ErrNotFound)
}
