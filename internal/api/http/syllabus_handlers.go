package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classpoint/classpoint-backend/internal/syllabus"
)

type addTopicRequest struct {
	ClassID string `json:"class_id" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Title   string `json:"title" validate:"required"`
}

// POST /syllabus/topics
func AddTopicHandler(store *syllabus.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addTopicRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		tp, err := store.AddTopic(r.Context(), syllabus.Topic{
			ClassID: req.ClassID,
			Subject: req.Subject,
			Title:   req.Title,
		})
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, http.StatusCreated, tp)
	}
}

type setTopicStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=planned in_progress done"`
}

// PATCH /syllabus/topics/{topicID}
func SetTopicStatusHandler(store *syllabus.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setTopicStatusRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		tp, err := store.SetStatus(r.Context(), chi.URLParam(r, "topicID"), req.Status)
		if errors.Is(err, syllabus.ErrNotFound) {
			http.Error(w, "topic not found", 404)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, http.StatusOK, tp)
	}
}

// GET /syllabus/progress?class_id=7a&subject=math
func SyllabusProgressHandler(store *syllabus.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classID := r.URL.Query().Get("class_id")
		if classID == "" {
			http.Error(w, "class_id required", 400)
			return
		}
		progress, err := store.Progress(r.Context(), classID, r.URL.Query().Get("subject"))
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, progress)
	}
}
