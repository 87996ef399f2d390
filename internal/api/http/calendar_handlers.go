package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/classpoint/classpoint-backend/internal/calendar"
	"github.com/classpoint/classpoint-backend/internal/rbac"
)

type createEventRequest struct {
	Title    string `json:"title" validate:"required"`
	Kind     string `json:"kind" validate:"required,oneof=exam holiday meeting activity"`
	StartsAt int64  `json:"starts_at" validate:"required,gt=0"`
	EndsAt   int64  `json:"ends_at" validate:"omitempty,gtefield=StartsAt"`
	Audience string `json:"audience" validate:"omitempty,oneof=all students teachers"`
}

// POST /events
func CreateEventHandler(store *calendar.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		e, err := store.Create(r.Context(), calendar.Event{
			Title:    req.Title,
			Kind:     req.Kind,
			StartsAt: req.StartsAt,
			EndsAt:   req.EndsAt,
			Audience: req.Audience,
		})
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

// GET /events?after=<unix>&limit=10. Audience follows the caller's role.
func ListEventsHandler(store *calendar.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		after := time.Now().Unix()
		if v := r.URL.Query().Get("after"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				http.Error(w, "bad after", 400)
				return
			}
			after = n
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		audience := "students"
		if role := rbac.RoleFromContext(r.Context()); role == "teacher" || role == "admin" {
			audience = "teachers"
		}
		events, err := store.Upcoming(r.Context(), after, audience, limit)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}

// DELETE /events/{eventID}
func DeleteEventHandler(store *calendar.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.Delete(r.Context(), chi.URLParam(r, "eventID"))
		if errors.Is(err, calendar.ErrNotFound) {
			http.Error(w, "event not found", 404)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
