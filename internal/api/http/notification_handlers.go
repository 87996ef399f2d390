package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	auth "github.com/classpoint/classpoint-backend/internal/auth/middleware"
	"github.com/classpoint/classpoint-backend/internal/notify"
)

// GET /notifications?limit=20
func ListNotificationsHandler(svc *notify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		ns, err := svc.ForUser(r.Context(), userID, limit)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, ns)
	}
}

// POST /notifications/{notificationID}/read
func MarkNotificationReadHandler(svc *notify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}
		err := svc.MarkRead(r.Context(), userID, chi.URLParam(r, "notificationID"))
		if errors.Is(err, notify.ErrNotFound) {
			http.Error(w, "notification not found", 404)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
