package syllabus

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

func TestTopicStatusFlow(t *testing.T) {
	s := NewSQLStore(testDB(t))
	ctx := context.Background()

	tp, err := s.AddTopic(ctx, Topic{ClassID: "7a", Subject: "math", Title: "Fractions"})
	require.NoError(t, err)
	assert.Equal(t, StatusPlanned, tp.Status)

	tp, err = s.SetStatus(ctx, tp.ID, StatusDone)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, tp.Status)
	assert.NotZero(t, tp.CompletedAt)

	// moving back off done clears the completion stamp
	tp, err = s.SetStatus(ctx, tp.ID, StatusInProgress)
	require.NoError(t, err)
	assert.Zero(t, tp.CompletedAt)

	_, err = s.SetStatus(ctx, tp.ID, "finished")
	assert.Error(t, err)
	_, err = s.SetStatus(ctx, "missing", StatusDone)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgressGroupsBySubject(t *testing.T) {
	s := NewSQLStore(testDB(t))
	ctx := context.Background()

	add := func(subject, title string, done bool) {
		tp, err := s.AddTopic(ctx, Topic{ClassID: "7a", Subject: subject, Title: title})
		require.NoError(t, err)
		if done {
			_, err = s.SetStatus(ctx, tp.ID, StatusDone)
			require.NoError(t, err)
		}
	}
	add("math", "Fractions", true)
	add("math", "Decimals", false)
	add("science", "Cells", true)

	all, err := s.Progress(ctx, "7a", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "math", all[0].Subject)
	assert.Equal(t, 1, all[0].Done)
	assert.Equal(t, 2, all[0].Total)
	assert.InDelta(t, 50.0, all[0].Percent, 0.001)
	assert.InDelta(t, 100.0, all[1].Percent, 0.001)

	one, err := s.Progress(ctx, "7a", "science")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "science", one[0].Subject)
}
