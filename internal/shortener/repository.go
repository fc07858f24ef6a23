package shortener

import "context"

// Repository defines the persistence operations the lifecycle engine relies on.
// Implementations must enforce uniqueness of Record.Hash.
type Repository interface {
	// FindByHash returns the record for hash, active or not.
	// Returns ErrNotFound if no record exists.
	FindByHash(ctx context.Context, hash Hash) (*Record, error)

	// Insert stores a new record. Returns ErrConflict if the hash is taken.
	Insert(ctx context.Context, rec *Record) error

	// IncrementVisitCounter atomically adds one visit to the active record for
	// hash and returns the updated record. Returns ErrNotFound if there is no
	// active record.
	IncrementVisitCounter(ctx context.Context, hash Hash) (*Record, error)

	// UpdateActiveState applies change to the record for hash and returns the
	// updated record. Enabling only applies to an inactive record and returns
	// ErrAlreadyActive otherwise. Returns ErrNotFound if no record exists.
	UpdateActiveState(ctx context.Context, hash Hash, change StateChange) (*Record, error)
}

// ComponentClass identifies which dictionary a URL component belongs to.
type ComponentClass string

const (
	ClassProtocol ComponentClass = "protocol"
	ClassDomain   ComponentClass = "domain"
	ClassPath     ComponentClass = "path"
)

// Dictionary assigns stable sequential identifiers to URL component values.
type Dictionary interface {
	// Identify returns the identifier for value within class, assigning the
	// next free one on first occurrence.
	Identify(ctx context.Context, class ComponentClass, value string) (uint64, error)
}
