package rest

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ConflictResponse is returned with 409 when an event collides with an
// existing one. Code is DUPLICATE_ACTIVITY or OVERLAP_ACTIVITY; only the
// latter may be retried with force=true.
type ConflictResponse struct {
	Error              string `json:"error"`
	Code               string `json:"code"`
	ConflictingEventID int    `json:"conflictingEventId"`
}
