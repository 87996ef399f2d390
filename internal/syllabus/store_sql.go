// Package syllabus tracks per-class topic coverage.
package syllabus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

var ErrNotFound = errors.New("topic not found")

type Topic struct {
	ID          string `json:"id"`
	ClassID     string `json:"class_id"`
	Subject     string `json:"subject"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	CompletedAt int64  `json:"completed_at,omitempty"`
}

// SubjectProgress is one subject's coverage within a class.
type SubjectProgress struct {
	Subject string  `json:"subject"`
	Done    int     `json:"done"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) AddTopic(ctx context.Context, tp Topic) (Topic, error) {
	if tp.ClassID == "" || tp.Subject == "" || tp.Title == "" {
		return Topic{}, errors.New("topic needs class_id, subject and title")
	}
	if tp.ID == "" {
		tp.ID = uuid.NewString()
	}
	tp.Status = StatusPlanned
	_, err := s.db.ExecContext(ctx, `INSERT INTO syllabus_topics (id,class_id,subject,title,status)
		VALUES ($1,$2,$3,$4,$5)`,
		tp.ID, tp.ClassID, tp.Subject, tp.Title, tp.Status)
	if err != nil {
		return Topic{}, err
	}
	return tp, nil
}

// SetStatus moves a topic along planned -> in_progress -> done and stamps
// the completion time when it lands on done.
func (s *SQLStore) SetStatus(ctx context.Context, topicID, status string) (Topic, error) {
	switch status {
	case StatusPlanned, StatusInProgress, StatusDone:
	default:
		return Topic{}, fmt.Errorf("unknown topic status %q", status)
	}
	var completedAt interface{}
	if status == StatusDone {
		completedAt = time.Now().Unix()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE syllabus_topics SET status=$1, completed_at=$2 WHERE id=$3`,
		status, completedAt, topicID)
	if err != nil {
		return Topic{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Topic{}, ErrNotFound
	}
	return s.getTopic(ctx, topicID)
}

func (s *SQLStore) getTopic(ctx context.Context, id string) (Topic, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,class_id,subject,title,status,COALESCE(completed_at,0) FROM syllabus_topics WHERE id=$1`, id)
	var tp Topic
	if err := row.Scan(&tp.ID, &tp.ClassID, &tp.Subject, &tp.Title, &tp.Status, &tp.CompletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Topic{}, ErrNotFound
		}
		return Topic{}, err
	}
	return tp, nil
}

// Progress reports coverage per subject for a class; subject narrows it
// to one subject when non-empty.
func (s *SQLStore) Progress(ctx context.Context, classID, subject string) ([]SubjectProgress, error) {
	q := `SELECT subject,
	             SUM(CASE WHEN status=$1 THEN 1 ELSE 0 END),
	             COUNT(*)
	      FROM syllabus_topics WHERE class_id=$2`
	args := []interface{}{StatusDone, classID}
	if subject != "" {
		q += ` AND subject=$3`
		args = append(args, subject)
	}
	q += ` GROUP BY subject ORDER BY subject`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []SubjectProgress{}
	for rows.Next() {
		var p SubjectProgress
		if err := rows.Scan(&p.Subject, &p.Done, &p.Total); err != nil {
			return nil, err
		}
		if p.Total > 0 {
			p.Percent = float64(p.Done) / float64(p.Total) * 100
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
