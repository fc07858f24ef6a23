package shortener

import "time"

// Hash is the short identifier of a shortened URL.
type Hash string

// Record represents a shortened URL as persisted by a Repository.
type Record struct {
	URL string

	// Protocol, Domain and Path are captured at creation time for metrics only.
	Protocol string
	Domain   string
	Path     string

	Hash         Hash
	IsCustom     bool
	RemoveToken  string
	Active       bool
	VisitCounter int64
	CreatedAt    time.Time
	RemovedAt    *time.Time
}

// StateChange describes an active-state transition applied by UpdateActiveState.
//
// Enabling sets Active, stamps CreatedAt with At, resets the visit counter to 1
// and stores RemoveToken. Disabling clears Active and stamps RemovedAt with At.
type StateChange struct {
	Active      bool
	At          time.Time
	RemoveToken string
}

// Disabled returns the state change that logically deletes a record.
func Disabled(at time.Time) StateChange {
	return StateChange{Active: false, At: at}
}

// Enabled returns the state change that re-activates a record with a new token.
func Enabled(at time.Time, removeToken string) StateChange {
	return StateChange{Active: true, At: at, RemoveToken: removeToken}
}

// Apply mutates rec according to the change. Stores without server-side
// update expressions use it to keep the transition rules in one place.
func (c StateChange) Apply(rec *Record) {
	if c.Active {
		rec.Active = true
		rec.CreatedAt = c.At
		rec.VisitCounter = 1
		rec.RemoveToken = c.RemoveToken

		return
	}

	at := c.At
	rec.Active = false
	rec.RemovedAt = &at
}
