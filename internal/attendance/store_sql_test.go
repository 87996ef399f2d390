package attendance

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

func TestMarkAndSummary(t *testing.T) {
	s := NewSQLStore(testDB(t))
	ctx := context.Background()

	require.NoError(t, s.Mark(ctx, []Record{
		{StudentID: "s1", ClassID: "7a", Day: "2026-08-24", Status: StatusPresent},
		{StudentID: "s1", ClassID: "7a", Day: "2026-08-25", Status: StatusAbsent},
		{StudentID: "s1", ClassID: "7a", Day: "2026-08-26", Status: StatusLate},
		{StudentID: "s2", ClassID: "7a", Day: "2026-08-26", Status: StatusPresent},
	}))

	sum, err := s.StudentSummary(ctx, "s1", "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 1, sum.Present)
	assert.Equal(t, 1, sum.Absent)
	assert.Equal(t, 1, sum.Late)
	assert.InDelta(t, 2.0/3.0, sum.Rate, 0.001)

	day, err := s.ForClass(ctx, "7a", "2026-08-26")
	require.NoError(t, err)
	assert.Len(t, day, 2)
}

// Marking the same student twice for a day replaces, never duplicates.
func TestMarkUpserts(t *testing.T) {
	s := NewSQLStore(testDB(t))
	ctx := context.Background()

	require.NoError(t, s.Mark(ctx, []Record{{StudentID: "s1", ClassID: "7a", Day: "2026-08-26", Status: StatusAbsent}}))
	require.NoError(t, s.Mark(ctx, []Record{{StudentID: "s1", ClassID: "7a", Day: "2026-08-26", Status: StatusPresent}}))

	day, err := s.ForClass(ctx, "7a", "2026-08-26")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, StatusPresent, day[0].Status)
}

func TestMarkRejectsBadStatus(t *testing.T) {
	s := NewSQLStore(testDB(t))
	err := s.Mark(context.Background(), []Record{{StudentID: "s1", ClassID: "7a", Day: "2026-08-26", Status: "sick"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status")
}
