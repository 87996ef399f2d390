// Package calendar stores school events (exams, holidays, meetings).
package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	KindExam     = "exam"
	KindHoliday  = "holiday"
	KindMeeting  = "meeting"
	KindActivity = "activity"
)

var ErrNotFound = errors.New("event not found")

type Event struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Kind     string `json:"kind"`
	StartsAt int64  `json:"starts_at"`
	EndsAt   int64  `json:"ends_at"`
	Audience string `json:"audience"` // all|students|teachers
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Create(ctx context.Context, e Event) (Event, error) {
	switch e.Kind {
	case KindExam, KindHoliday, KindMeeting, KindActivity:
	default:
		return Event{}, fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if e.Title == "" || e.StartsAt == 0 {
		return Event{}, errors.New("event needs title and starts_at")
	}
	if e.EndsAt == 0 {
		e.EndsAt = e.StartsAt
	}
	if e.EndsAt < e.StartsAt {
		return Event{}, errors.New("event ends before it starts")
	}
	if e.Audience == "" {
		e.Audience = "all"
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO events (id,title,kind,starts_at,ends_at,audience)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.Title, e.Kind, e.StartsAt, e.EndsAt, e.Audience)
	if err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Upcoming lists events starting at or after the given unix time for an
// audience ("all" matches everyone).
func (s *SQLStore) Upcoming(ctx context.Context, after int64, audience string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT id,title,kind,starts_at,ends_at,audience FROM events
	      WHERE starts_at >= $1 AND (audience = 'all' OR audience = $2)
	      ORDER BY starts_at ASC LIMIT $3`
	rows, err := s.db.QueryContext(ctx, q, after, audience, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Kind, &e.StartsAt, &e.EndsAt, &e.Audience); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
