package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Children
	r.HandleFunc("/api/child", deps.ChildHandler.CreateChild).Methods("POST")
	r.HandleFunc("/api/child", deps.ChildHandler.GetAllChildren).Methods("GET")
	r.HandleFunc("/api/child/{childId}", deps.ChildHandler.GetChild).Methods("GET")
	r.HandleFunc("/api/child/{childId}", deps.ChildHandler.UpdateChild).Methods("PUT")
	r.HandleFunc("/api/child/{childId}", deps.ChildHandler.DeleteChild).Methods("DELETE")

	// Events
	r.HandleFunc("/api/child/{childId}/event", deps.EventHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/event/{eventId}", deps.EventHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/event/{eventId}", deps.EventHandler.DeleteEvent).Methods("DELETE")

	// Day view and stats
	r.HandleFunc("/api/child/{childId}/day", deps.StatsHandler.GetDayEvents).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/child/{childId}/stats/daily", deps.StatsHandler.GetDailyStat).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/child/{childId}/stats/export", deps.StatsHandler.ExportRangeCsv).Queries("from", "{from}", "to", "{to}").Methods("GET")

	// Audit trail
	r.HandleFunc("/api/child/{childId}/audit", deps.AuditHandler.GetRecent).Methods("GET")

	// Voice draft intake
	if deps.VoiceHandler != nil {
		r.HandleFunc("/api/child/{childId}/voice-draft", deps.VoiceHandler.SubmitText).Methods("POST")
	}
}
