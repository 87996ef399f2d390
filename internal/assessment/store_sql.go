package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("test not found")

type Store interface {
	PutTest(ctx context.Context, t Test) error
	GetTest(ctx context.Context, id string) (Test, error)
	ListTests(ctx context.Context, classID string) ([]Test, error)
	AppendQuestions(ctx context.Context, testID string, qs []Question) (Test, error)
	DeleteTest(ctx context.Context, id string) error

	EnterMarks(ctx context.Context, testID string, entries []MarkEntry) error
	Summary(ctx context.Context, testID string) (MarksSummary, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutTest(ctx context.Context, t Test) error {
	qj, err := json.Marshal(t.Questions)
	if err != nil {
		return err
	}
	if t.MaxPoints == 0 {
		t.MaxPoints = t.TotalPoints()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO tests (id,class_id,subject,title,max_points,questions_json,created_by,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET class_id=EXCLUDED.class_id, subject=EXCLUDED.subject,
			title=EXCLUDED.title, max_points=EXCLUDED.max_points, questions_json=EXCLUDED.questions_json`,
		t.ID, t.ClassID, t.Subject, t.Title, t.MaxPoints, string(qj), t.CreatedBy, time.Now().Unix())
	return err
}

func (s *SQLStore) GetTest(ctx context.Context, id string) (Test, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,class_id,subject,title,max_points,questions_json,created_by,created_at FROM tests WHERE id=$1`, id)
	var t Test
	var qjson string
	if err := row.Scan(&t.ID, &t.ClassID, &t.Subject, &t.Title, &t.MaxPoints, &qjson, &t.CreatedBy, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Test{}, ErrNotFound
		}
		return Test{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &t.Questions); err != nil {
		return Test{}, err
	}
	return t, nil
}

func (s *SQLStore) ListTests(ctx context.Context, classID string) ([]Test, error) {
	q := `SELECT id,class_id,subject,title,max_points,created_at FROM tests ORDER BY created_at DESC`
	args := []interface{}{}
	if classID != "" {
		q = `SELECT id,class_id,subject,title,max_points,created_at FROM tests WHERE class_id=$1 ORDER BY created_at DESC`
		args = append(args, classID)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Test{}
	for rows.Next() {
		var t Test
		if err := rows.Scan(&t.ID, &t.ClassID, &t.Subject, &t.Title, &t.MaxPoints, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// AppendQuestions adds imported questions after the existing ones,
// renumbering order indices to stay contiguous, and bumps max_points.
func (s *SQLStore) AppendQuestions(ctx context.Context, testID string, qs []Question) (Test, error) {
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return Test{}, err
	}
	base := len(t.Questions)
	for i, q := range qs {
		q.OrderIndex = base + i
		t.Questions = append(t.Questions, q)
	}
	t.MaxPoints = t.TotalPoints()
	if err := s.PutTest(ctx, t); err != nil {
		return Test{}, err
	}
	return t, nil
}

func (s *SQLStore) DeleteTest(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// EnterMarks upserts a batch of offline mark entries for one test.
// Marks must sit in [0, max_points]; absent students are recorded with 0.
// Every entry must name a student on the test's class roster.
func (s *SQLStore) EnterMarks(ctx context.Context, testID string, entries []MarkEntry) error {
	var maxPoints int
	var classID string
	err := s.db.QueryRowContext(ctx, `SELECT max_points, class_id FROM tests WHERE id=$1`, testID).Scan(&maxPoints, &classID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, e := range entries {
		if e.StudentID == "" {
			return errors.New("mark entry missing student_id")
		}
		var onRoster bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE id=$1 AND role='student' AND class_id=$2)`,
			e.StudentID, classID).Scan(&onRoster); err != nil {
			return err
		}
		if !onRoster {
			return fmt.Errorf("student %s is not on the roster of class %s", e.StudentID, classID)
		}
		status := e.Status
		if status == "" {
			status = MarkEntered
		}
		if status != MarkEntered && status != MarkAbsent {
			return fmt.Errorf("student %s: unknown mark status %q", e.StudentID, status)
		}
		if status == MarkAbsent {
			e.Marks = 0
		} else if e.Marks < 0 || e.Marks > maxPoints {
			return fmt.Errorf("student %s: marks %d outside [0, %d]", e.StudentID, e.Marks, maxPoints)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO marks (test_id,student_id,marks,status,entered_at)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (test_id,student_id) DO UPDATE SET marks=EXCLUDED.marks, status=EXCLUDED.status, entered_at=EXCLUDED.entered_at`,
			testID, e.StudentID, e.Marks, status, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Board convention: 35% of max points is the pass mark.
const passFraction = 0.35

// Summary derives the progress statistics shown during marks entry.
func (s *SQLStore) Summary(ctx context.Context, testID string) (MarksSummary, error) {
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return MarksSummary{}, err
	}
	sum := MarksSummary{TestID: testID, MaxPoints: t.MaxPoints}

	// roster = students of the test's class
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role='student' AND class_id=$1`, t.ClassID).Scan(&sum.Roster); err != nil {
		return MarksSummary{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT marks, status FROM marks WHERE test_id=$1`, testID)
	if err != nil {
		return MarksSummary{}, err
	}
	defer rows.Close()

	total, passed := 0, 0
	passMark := float64(t.MaxPoints) * passFraction
	for rows.Next() {
		var m int
		var status string
		if err := rows.Scan(&m, &status); err != nil {
			return MarksSummary{}, err
		}
		if status == MarkAbsent {
			sum.Absent++
			continue
		}
		sum.Entered++
		total += m
		if sum.Entered == 1 || m > sum.Highest {
			sum.Highest = m
		}
		if sum.Entered == 1 || m < sum.Lowest {
			sum.Lowest = m
		}
		if float64(m) >= passMark {
			passed++
		}
	}
	if err := rows.Err(); err != nil {
		return MarksSummary{}, err
	}
	if sum.Entered > 0 {
		sum.Mean = float64(total) / float64(sum.Entered)
		sum.PassRate = float64(passed) / float64(sum.Entered)
	}
	if p := sum.Roster - sum.Entered - sum.Absent; p > 0 {
		sum.Pending = p
	}
	return sum, nil
}
