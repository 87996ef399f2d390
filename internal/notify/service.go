// Package notify fans out in-app notifications. Every push also lands in
// the append-only event_log so other sites can replay it later.
package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("notification not found")

type Notification struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	CreatedAt int64  `json:"created_at"`
	ReadAt    int64  `json:"read_at,omitempty"`
}

type Event struct {
	Offset    int64
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4)`,
		e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

type Service struct {
	db     *sql.DB
	events *EventRepo
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, events: NewEventRepo(db)}
}

// Push stores the notification and appends a NotificationPushed event.
func (s *Service) Push(ctx context.Context, n Notification) (Notification, error) {
	if n.UserID == "" || n.Title == "" {
		return Notification{}, errors.New("notification needs user_id and title")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now().Unix()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO notifications (id,user_id,title,body,created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		n.ID, n.UserID, n.Title, n.Body, n.CreatedAt); err != nil {
		return Notification{}, err
	}
	payload, _ := json.Marshal(n)
	if err := s.events.Append(ctx, Event{Type: "NotificationPushed", Key: n.ID, DataJSON: string(payload)}); err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (s *Service) ForUser(ctx context.Context, userID string, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,user_id,title,body,created_at,COALESCE(read_at,0)
		 FROM notifications WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead is scoped to the owner so one user cannot touch another's feed.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read_at=$1 WHERE id=$2 AND user_id=$3`,
		time.Now().Unix(), notificationID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
