package shortener

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Outcome tells how a Result came to be.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeExisting  Outcome = "existing"
	OutcomeReenabled Outcome = "reenabled"
)

// Result is returned by the operations that hand a record back to the caller.
type Result struct {
	Record  *Record
	View    PublicView
	Outcome Outcome
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for CreatedAt and RemovedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithTokenGenerator overrides the remove token generator.
func WithTokenGenerator(generate TokenGenerator) Option {
	return func(s *Service) {
		s.newToken = generate
	}
}

// Service drives the lifecycle of shortened URLs. It holds no locks: at most
// one record per hash is guaranteed by the repository's unique constraint.
type Service struct {
	repo      Repository
	hasher    Hasher
	formatter *ViewFormatter
	logger    *zap.Logger
	now       func() time.Time
	newToken  TokenGenerator
}

// NewService creates a lifecycle service.
func NewService(
	repo Repository,
	hasher Hasher,
	formatter *ViewFormatter,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		repo:      repo,
		hasher:    hasher,
		formatter: formatter,
		logger:    logger,
		now:       time.Now,
		newToken:  NewRemoveToken,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GenerateHash computes the hash of rawURL with the configured strategy.
func (s *Service) GenerateHash(ctx context.Context, rawURL string) (Hash, error) {
	return s.hasher.Hash(ctx, rawURL)
}

// View returns the public view of rec.
func (s *Service) View(rec *Record) PublicView {
	return s.formatter.View(rec)
}

// Resolve returns the stored record for hash without side effects, whether it
// is active or not. Visibility is the caller's decision.
func (s *Service) Resolve(ctx context.Context, hash Hash) (*Record, error) {
	rec, err := s.repo.FindByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, persistenceError("find by hash", err)
	}

	return rec, nil
}

// Shorten stores a new active record for rawURL under hash.
//
// If the store already holds the hash for rawURL, the record is returned with
// OutcomeExisting, or re-enabled when it was disabled. A hash held by another
// URL is ErrHashCollision.
func (s *Service) Shorten(ctx context.Context, rawURL string, hash Hash) (*Result, error) {
	parts, err := SplitURL(rawURL)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		URL:          rawURL,
		Protocol:     parts.Protocol,
		Domain:       parts.Domain,
		Path:         parts.Path,
		Hash:         hash,
		IsCustom:     false,
		RemoveToken:  s.newToken(),
		Active:       true,
		VisitCounter: 1,
		CreatedAt:    s.now(),
	}

	err = s.repo.Insert(ctx, rec)

	switch {
	case err == nil:
		return s.result(rec, OutcomeCreated), nil
	case errors.Is(err, ErrConflict):
		existing, findErr := s.repo.FindByHash(ctx, hash)
		if findErr != nil {
			return nil, persistenceError("find after conflict", findErr)
		}

		return s.settle(ctx, rawURL, existing)
	default:
		return nil, persistenceError("insert", err)
	}
}

// RegisterVisit adds one visit to rec. Visit tracking is best effort: on
// failure the error is logged and ok is false.
func (s *Service) RegisterVisit(ctx context.Context, rec *Record) (*Record, bool) {
	updated, err := s.repo.IncrementVisitCounter(ctx, rec.Hash)
	if err != nil {
		s.logger.Warn("failed to register visit",
			zap.String("hash", string(rec.Hash)),
			zap.Error(err),
		)

		return nil, false
	}

	return updated, true
}

// Disable logically deletes rec. Disabling an inactive record succeeds.
// The remove token must have been checked by the caller.
func (s *Service) Disable(ctx context.Context, rec *Record) error {
	if _, err := s.repo.UpdateActiveState(ctx, rec.Hash, Disabled(s.now())); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		return persistenceError("disable", err)
	}

	return nil
}

// Enable re-activates rec with a fresh remove token and a visit counter of 1.
// When another caller re-activated it first, the stored record is returned
// with OutcomeExisting so only one remove token is ever handed out.
func (s *Service) Enable(ctx context.Context, rec *Record) (*Result, error) {
	updated, err := s.repo.UpdateActiveState(ctx, rec.Hash, Enabled(s.now(), s.newToken()))

	switch {
	case errors.Is(err, ErrAlreadyActive):
		current, findErr := s.repo.FindByHash(ctx, rec.Hash)
		if findErr != nil {
			return nil, persistenceError("find after enable", findErr)
		}

		return s.result(current, OutcomeExisting), nil
	case errors.Is(err, ErrNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, persistenceError("enable", err)
	}

	return s.result(updated, OutcomeReenabled), nil
}

// CreateOrFetch shortens rawURL, returns the active record already holding its
// hash, or re-enables it when it was disabled.
func (s *Service) CreateOrFetch(ctx context.Context, rawURL string) (*Result, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	hash, err := s.GenerateHash(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	existing, err := s.Resolve(ctx, hash)

	switch {
	case errors.Is(err, ErrNotFound):
		return s.Shorten(ctx, rawURL, hash)
	case err != nil:
		return nil, err
	default:
		return s.settle(ctx, rawURL, existing)
	}
}

// settle decides what a request for rawURL gets when its hash is already
// stored.
func (s *Service) settle(ctx context.Context, rawURL string, existing *Record) (*Result, error) {
	switch {
	case existing.URL != rawURL:
		s.logger.Error("hash collision",
			zap.String("hash", string(existing.Hash)),
			zap.String("url", rawURL),
			zap.String("existingUrl", existing.URL),
		)

		return nil, ErrHashCollision
	case !existing.Active:
		return s.Enable(ctx, existing)
	default:
		return s.result(existing, OutcomeExisting), nil
	}
}

func (s *Service) result(rec *Record, outcome Outcome) *Result {
	return &Result{
		Record:  rec,
		View:    s.formatter.View(rec),
		Outcome: outcome,
	}
}
