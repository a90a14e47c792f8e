package eventtype

// Type identifies one kind of caregiving event.
type Type string

const (
	Sleep           Type = "SLEEP"
	Breastfeed      Type = "BREASTFEED"
	Bottle          Type = "BOTTLE"
	Pump            Type = "PUMP"
	Diaper          Type = "DIAPER"
	HeadLift        Type = "HEAD_LIFT"
	PassiveExercise Type = "PASSIVE_EXERCISE"
	GasExercise     Type = "GAS_EXERCISE"
	Bath            Type = "BATH"
	Outdoor         Type = "OUTDOOR"
	EarlyEducation  Type = "EARLY_EDUCATION"
	Supplement      Type = "SUPPLEMENT"
	SpitUp          Type = "SPIT_UP"
	RollOver        Type = "ROLL_OVER"
	PullToSit       Type = "PULL_TO_SIT"
)

// Shape distinguishes instantaneous events from events with a time span.
type Shape string

const (
	Point    Shape = "point"
	Duration Shape = "duration"
)

// DayAttribution describes how a day-crossing event contributes to daily totals.
type DayAttribution string

const (
	// StartAnchored events belong entirely to the day their start time falls on.
	StartAnchored DayAttribution = "start_anchored"
	// Clipped events contribute only the part of their span inside each day.
	Clipped DayAttribution = "clipped"
)

// Policy is the per-type behaviour table. It is the single place where
// type-specific knowledge lives; validation, conflict checking, and
// aggregation all consult it instead of branching on the type directly.
type Policy struct {
	Shape          Shape
	Exclusive      bool
	DayAttribution DayAttribution
}

var policies = map[Type]Policy{
	Sleep:           {Shape: Duration, Exclusive: true, DayAttribution: Clipped},
	Breastfeed:      {Shape: Duration, Exclusive: true, DayAttribution: StartAnchored},
	Bottle:          {Shape: Duration, Exclusive: true, DayAttribution: StartAnchored},
	Pump:            {Shape: Duration, Exclusive: true, DayAttribution: StartAnchored},
	HeadLift:        {Shape: Duration, Exclusive: true, DayAttribution: StartAnchored},
	PassiveExercise: {Shape: Duration, Exclusive: false, DayAttribution: StartAnchored},
	GasExercise:     {Shape: Duration, Exclusive: false, DayAttribution: StartAnchored},
	Bath:            {Shape: Duration, Exclusive: false, DayAttribution: StartAnchored},
	Outdoor:         {Shape: Duration, Exclusive: false, DayAttribution: StartAnchored},
	EarlyEducation:  {Shape: Duration, Exclusive: false, DayAttribution: StartAnchored},
	Diaper:          {Shape: Point, Exclusive: false, DayAttribution: StartAnchored},
	Supplement:      {Shape: Point, Exclusive: false, DayAttribution: StartAnchored},
	SpitUp:          {Shape: Point, Exclusive: false, DayAttribution: StartAnchored},
	RollOver:        {Shape: Point, Exclusive: false, DayAttribution: StartAnchored},
	PullToSit:       {Shape: Point, Exclusive: false, DayAttribution: StartAnchored},
}

// PolicyFor returns the policy for a type. The second value is false for
// unknown types.
func PolicyFor(t Type) (Policy, bool) {
	p, ok := policies[t]
	return p, ok
}

// IsValid reports whether t is a registered event type.
func IsValid(t Type) bool {
	_, ok := policies[t]
	return ok
}

// All returns every registered type in a stable order.
func All() []Type {
	return []Type{
		Sleep, Breastfeed, Bottle, Pump, Diaper,
		HeadLift, PassiveExercise, GasExercise, Bath, Outdoor,
		EarlyEducation, Supplement, SpitUp, RollOver, PullToSit,
	}
}

// ExclusiveTypes returns the types that participate in conflict checking.
func ExclusiveTypes() []Type {
	result := make([]Type, 0, len(policies))
	for _, t := range All() {
		if policies[t].Exclusive {
			result = append(result, t)
		}
	}
	return result
}
