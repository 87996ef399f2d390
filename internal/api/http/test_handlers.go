package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/classpoint/classpoint-backend/internal/assessment"
	auth "github.com/classpoint/classpoint-backend/internal/auth/middleware"
)

type createTestRequest struct {
	Title   string `json:"title" validate:"required"`
	ClassID string `json:"class_id" validate:"required"`
	Subject string `json:"subject" validate:"required"`
}

// POST /tests
func CreateTestHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTestRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		t := assessment.Test{
			ID:        uuid.NewString(),
			Title:     req.Title,
			ClassID:   req.ClassID,
			Subject:   req.Subject,
			Questions: []assessment.Question{},
			CreatedBy: auth.SubjectFromContext(r.Context()),
		}
		if err := store.PutTest(r.Context(), t); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

// GET /tests?class_id=7a
func ListTestsHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tests, err := store.ListTests(r.Context(), r.URL.Query().Get("class_id"))
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, tests)
	}
}

// GET /tests/{testID}
func GetTestHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := store.GetTest(r.Context(), chi.URLParam(r, "testID"))
		if errors.Is(err, assessment.ErrNotFound) {
			http.Error(w, "test not found", 404)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

// DELETE /tests/{testID}
func DeleteTestHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.DeleteTest(r.Context(), chi.URLParam(r, "testID"))
		if errors.Is(err, assessment.ErrNotFound) {
			http.Error(w, "test not found", 404)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type enterMarksRequest struct {
	Entries []assessment.MarkEntry `json:"entries" validate:"required,min=1,dive"`
}

// POST /tests/{testID}/marks
func EnterMarksHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req enterMarksRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		testID := chi.URLParam(r, "testID")
		if err := store.EnterMarks(r.Context(), testID, req.Entries); err != nil {
			if errors.Is(err, assessment.ErrNotFound) {
				http.Error(w, "test not found", 404)
				return
			}
			http.Error(w, err.Error(), 400)
			return
		}
		sum, err := store.Summary(r.Context(), testID)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}

// GET /tests/{testID}/marks/summary
func MarksSummaryHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := store.Summary(r.Context(), chi.URLParam(r, "testID"))
		if errors.Is(err, assessment.ErrNotFound) {
			http.Error(w, "test not found", 404)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}
