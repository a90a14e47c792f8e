package app

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/cradlelog/cradlelog/pkg/caregiver"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router) {

	// Propagate X-Caregiver-Id header into context for audit attribution
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			caregiverHeader := req.Header.Get("X-Caregiver-Id")
			ctx := req.Context()

			if caregiverHeader != "" {
				log.Debugf("Request acting as caregiver %s", caregiverHeader)
				ctx = caregiver.WithCaregiver(ctx, caregiver.Caregiver{ID: caregiverHeader})
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
