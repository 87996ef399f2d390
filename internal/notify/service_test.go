package notify

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

func TestPushAndRead(t *testing.T) {
	dbh := testDB(t)
	s := NewService(dbh)
	ctx := context.Background()

	n, err := s.Push(ctx, Notification{UserID: "s1", Title: "Marks published", Body: "Unit test 1"})
	require.NoError(t, err)
	require.NotEmpty(t, n.ID)

	// push also lands in the event log
	var logged int
	require.NoError(t, dbh.QueryRow(`SELECT COUNT(*) FROM event_log WHERE typ='NotificationPushed' AND key=$1`, n.ID).Scan(&logged))
	assert.Equal(t, 1, logged)

	list, err := s.ForUser(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Zero(t, list[0].ReadAt)

	require.NoError(t, s.MarkRead(ctx, "s1", n.ID))
	list, err = s.ForUser(ctx, "s1", 10)
	require.NoError(t, err)
	assert.NotZero(t, list[0].ReadAt)

	// another user cannot mark it
	assert.Error(t, s.MarkRead(ctx, "s2", n.ID))
}

func TestPushValidation(t *testing.T) {
	s := NewService(testDB(t))
	_, err := s.Push(context.Background(), Notification{UserID: "", Title: "x"})
	assert.Error(t, err)
}
