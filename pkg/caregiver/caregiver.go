package caregiver

import (
	"context"
)

type contextKey string

const caregiverKey contextKey = "caregiver"

// Caregiver is the acting user behind a request. It is used for audit
// attribution only; authorization is handled outside this service.
type Caregiver struct {
	ID          string
	DisplayName string
}

func WithCaregiver(ctx context.Context, c Caregiver) context.Context {
	return context.WithValue(ctx, caregiverKey, c)
}

// CurrentID returns the acting caregiver's ID, or "" when the request
// carried no caregiver header.
func CurrentID(ctx context.Context) string {
	c, ok := ctx.Value(caregiverKey).(Caregiver)
	if !ok {
		return ""
	}
	return c.ID
}
