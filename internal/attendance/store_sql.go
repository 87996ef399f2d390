// Package attendance records daily attendance per student and derives
// the summaries the dashboards show.
package attendance

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusExcused = "excused"
)

func validStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// Record is one student's attendance for one day. Day is YYYY-MM-DD.
type Record struct {
	ID        string `json:"id,omitempty"`
	StudentID string `json:"student_id"`
	ClassID   string `json:"class_id"`
	Day       string `json:"day"`
	Status    string `json:"status"`
}

// Summary aggregates one student's records over a date range.
type Summary struct {
	StudentID string  `json:"student_id"`
	Present   int     `json:"present"`
	Absent    int     `json:"absent"`
	Late      int     `json:"late"`
	Excused   int     `json:"excused"`
	Total     int     `json:"total"`
	Rate      float64 `json:"rate"` // (present+late)/total
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Mark upserts a batch of records; marking the same student twice for a
// day replaces the earlier status.
func (s *SQLStore) Mark(ctx context.Context, recs []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range recs {
		if r.StudentID == "" || r.Day == "" {
			return fmt.Errorf("attendance record needs student_id and day")
		}
		if !validStatus(r.Status) {
			return fmt.Errorf("student %s: unknown status %q", r.StudentID, r.Status)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO attendance (id,student_id,class_id,day,status)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (student_id,day) DO UPDATE SET status=EXCLUDED.status, class_id=EXCLUDED.class_id`,
			uuid.NewString(), r.StudentID, r.ClassID, r.Day, r.Status); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) ForClass(ctx context.Context, classID, day string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,student_id,class_id,day,status FROM attendance WHERE class_id=$1 AND day=$2 ORDER BY student_id`,
		classID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.StudentID, &r.ClassID, &r.Day, &r.Status); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// StudentSummary counts a student's records in [from, to] inclusive.
func (s *SQLStore) StudentSummary(ctx context.Context, studentID, from, to string) (Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status FROM attendance WHERE student_id=$1 AND day>=$2 AND day<=$3`,
		studentID, from, to)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()

	sum := Summary{StudentID: studentID}
	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			return Summary{}, err
		}
		sum.Total++
		switch status {
		case StatusPresent:
			sum.Present++
		case StatusAbsent:
			sum.Absent++
		case StatusLate:
			sum.Late++
		case StatusExcused:
			sum.Excused++
		}
	}
	if err := rows.Err(); err != nil {
		return Summary{}, err
	}
	if sum.Total > 0 {
		sum.Rate = float64(sum.Present+sum.Late) / float64(sum.Total)
	}
	return sum, nil
}
