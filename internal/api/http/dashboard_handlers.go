package http

import (
	"net/http"

	auth "github.com/classpoint/classpoint-backend/internal/auth/middleware"
	"github.com/classpoint/classpoint-backend/internal/dashboard"
)

// GET /dashboard/admin
func AdminDashboardHandler(svc *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Admin(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// GET /dashboard/student, scoped to the authenticated user.
func StudentDashboardHandler(svc *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := auth.SubjectFromContext(r.Context())
		if studentID == "" {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}
		snap, err := svc.Student(r.Context(), studentID)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}
