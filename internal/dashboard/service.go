// Package dashboard aggregates the other stores into the role snapshots
// the admin and student home screens render.
package dashboard

import (
	"context"
	"database/sql"
	"time"

	"github.com/classpoint/classpoint-backend/internal/attendance"
	"github.com/classpoint/classpoint-backend/internal/calendar"
	"github.com/classpoint/classpoint-backend/internal/fees"
	"github.com/classpoint/classpoint-backend/internal/syllabus"
)

type AdminSnapshot struct {
	Students            int                        `json:"students"`
	Teachers            int                        `json:"teachers"`
	AttendanceRateToday float64                    `json:"attendance_rate_today"`
	OutstandingCents    int64                      `json:"outstanding_cents"`
	SyllabusProgress    []syllabus.SubjectProgress `json:"syllabus_progress"`
	UpcomingEvents      []calendar.Event           `json:"upcoming_events"`
}

type RecentMark struct {
	TestID    string `json:"test_id"`
	TestTitle string `json:"test_title"`
	Subject   string `json:"subject"`
	Marks     int    `json:"marks"`
	MaxPoints int    `json:"max_points"`
}

type StudentSnapshot struct {
	Attendance      attendance.Summary `json:"attendance"`
	PendingInvoices []fees.Invoice     `json:"pending_invoices"`
	RecentMarks     []RecentMark       `json:"recent_marks"`
	UpcomingEvents  []calendar.Event   `json:"upcoming_events"`
}

type Service struct {
	db         *sql.DB
	attendance *attendance.SQLStore
	fees       *fees.SQLStore
	syllabus   *syllabus.SQLStore
	calendar   *calendar.SQLStore
	now        func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{
		db:         db,
		attendance: attendance.NewSQLStore(db),
		fees:       fees.NewSQLStore(db),
		syllabus:   syllabus.NewSQLStore(db),
		calendar:   calendar.NewSQLStore(db),
		now:        time.Now,
	}
}

func (s *Service) Admin(ctx context.Context) (AdminSnapshot, error) {
	var snap AdminSnapshot
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role='student'`).Scan(&snap.Students); err != nil {
		return AdminSnapshot{}, err
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role='teacher'`).Scan(&snap.Teachers); err != nil {
		return AdminSnapshot{}, err
	}

	today := s.now().Format("2006-01-02")
	var present, total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT SUM(CASE WHEN status IN ('present','late') THEN 1 ELSE 0 END), COUNT(*)
		 FROM attendance WHERE day=$1`, today).Scan(&nullInt{&present}, &nullInt{&total}); err != nil {
		return AdminSnapshot{}, err
	}
	if total > 0 {
		snap.AttendanceRateToday = float64(present) / float64(total)
	}

	out, err := s.fees.OutstandingTotal(ctx, "")
	if err != nil {
		return AdminSnapshot{}, err
	}
	snap.OutstandingCents = out

	// school-wide syllabus view: every class, every subject
	rows, err := s.db.QueryContext(ctx,
		`SELECT subject,
		        SUM(CASE WHEN status='done' THEN 1 ELSE 0 END),
		        COUNT(*)
		 FROM syllabus_topics GROUP BY subject ORDER BY subject`)
	if err != nil {
		return AdminSnapshot{}, err
	}
	defer rows.Close()
	snap.SyllabusProgress = []syllabus.SubjectProgress{}
	for rows.Next() {
		var p syllabus.SubjectProgress
		if err := rows.Scan(&p.Subject, &p.Done, &p.Total); err != nil {
			return AdminSnapshot{}, err
		}
		if p.Total > 0 {
			p.Percent = float64(p.Done) / float64(p.Total) * 100
		}
		snap.SyllabusProgress = append(snap.SyllabusProgress, p)
	}
	if err := rows.Err(); err != nil {
		return AdminSnapshot{}, err
	}

	events, err := s.calendar.Upcoming(ctx, s.now().Unix(), "teachers", 5)
	if err != nil {
		return AdminSnapshot{}, err
	}
	snap.UpcomingEvents = events
	return snap, nil
}

func (s *Service) Student(ctx context.Context, studentID string) (StudentSnapshot, error) {
	var snap StudentSnapshot

	// current month attendance
	now := s.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	to := now.Format("2006-01-02")
	att, err := s.attendance.StudentSummary(ctx, studentID, from, to)
	if err != nil {
		return StudentSnapshot{}, err
	}
	snap.Attendance = att

	invoices, err := s.fees.StudentInvoices(ctx, studentID)
	if err != nil {
		return StudentSnapshot{}, err
	}
	snap.PendingInvoices = []fees.Invoice{}
	for _, inv := range invoices {
		if inv.Status != fees.StatusPaid {
			snap.PendingInvoices = append(snap.PendingInvoices, inv)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT m.test_id, t.title, t.subject, m.marks, t.max_points
		 FROM marks m JOIN tests t ON t.id = m.test_id
		 WHERE m.student_id=$1 AND m.status='entered'
		 ORDER BY m.entered_at DESC LIMIT 5`, studentID)
	if err != nil {
		return StudentSnapshot{}, err
	}
	defer rows.Close()
	snap.RecentMarks = []RecentMark{}
	for rows.Next() {
		var m RecentMark
		if err := rows.Scan(&m.TestID, &m.TestTitle, &m.Subject, &m.Marks, &m.MaxPoints); err != nil {
			return StudentSnapshot{}, err
		}
		snap.RecentMarks = append(snap.RecentMarks, m)
	}
	if err := rows.Err(); err != nil {
		return StudentSnapshot{}, err
	}

	events, err := s.calendar.Upcoming(ctx, now.Unix(), "students", 5)
	if err != nil {
		return StudentSnapshot{}, err
	}
	snap.UpcomingEvents = events
	return snap, nil
}

// nullInt scans SQL NULL (empty aggregate) as zero.
type nullInt struct{ v *int }

func (n *nullInt) Scan(src interface{}) error {
	if src == nil {
		*n.v = 0
		return nil
	}
	switch x := src.(type) {
	case int64:
		*n.v = int(x)
	case int:
		*n.v = x
	}
	return nil
}
