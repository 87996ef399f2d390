package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/classpoint/classpoint-backend/internal/attendance"
)

type markAttendanceRequest struct {
	ClassID string `json:"class_id" validate:"required"`
	Day     string `json:"day" validate:"required,datetime=2006-01-02"`
	Records []struct {
		StudentID string `json:"student_id" validate:"required"`
		Status    string `json:"status" validate:"required,oneof=present absent late excused"`
	} `json:"records" validate:"required,min=1,dive"`
}

// POST /attendance
func MarkAttendanceHandler(store *attendance.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req markAttendanceRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		recs := make([]attendance.Record, len(req.Records))
		for i, e := range req.Records {
			recs[i] = attendance.Record{
				StudentID: e.StudentID,
				ClassID:   req.ClassID,
				Day:       req.Day,
				Status:    e.Status,
			}
		}
		if err := store.Mark(r.Context(), recs); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"marked": len(recs)})
	}
}

// GET /attendance?class_id=7a&day=2026-08-26
func ClassAttendanceHandler(store *attendance.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classID := r.URL.Query().Get("class_id")
		day := r.URL.Query().Get("day")
		if classID == "" {
			http.Error(w, "class_id required", 400)
			return
		}
		if day == "" {
			day = time.Now().Format("2006-01-02")
		}
		recs, err := store.ForClass(r.Context(), classID, day)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, recs)
	}
}

// GET /students/{studentID}/attendance?from=2026-08-01&to=2026-08-31
func StudentAttendanceHandler(store *attendance.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		from := r.URL.Query().Get("from")
		if from == "" {
			from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
		}
		to := r.URL.Query().Get("to")
		if to == "" {
			to = now.Format("2006-01-02")
		}
		sum, err := store.StudentSummary(r.Context(), chi.URLParam(r, "studentID"), from, to)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}
