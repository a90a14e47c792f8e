package child

import "time"

// Child is the record owner every event and daily stat is scoped to.
type Child struct {
	Id        int
	Uid       string
	Name      string
	BirthDate time.Time
	Settings  Settings
}

type Settings struct {
	// Timezone is the IANA zone used as the default for daily views and the
	// nightly stats recompute. Callers can still pass an explicit zone.
	Timezone string
}
