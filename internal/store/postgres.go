package store

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlink/internal/shortener"
)

const recordColumns = `url, protocol, domain, path, hash, is_custom, remove_token,
	active, visit_counter, created_at, removed_at`

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) FindByHash(ctx context.Context, hash shortener.Hash) (*shortener.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM short_urls WHERE hash = $1`

	return scanRecord(p.pool.QueryRow(ctx, query, string(hash)))
}

func (p *PostgresStore) Insert(ctx context.Context, rec *shortener.Record) error {
	query := `
		INSERT INTO short_urls (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := p.pool.Exec(ctx, query,
		rec.URL,
		rec.Protocol,
		rec.Domain,
		rec.Path,
		string(rec.Hash),
		rec.IsCustom,
		rec.RemoveToken,
		rec.Active,
		rec.VisitCounter,
		rec.CreatedAt,
		rec.RemovedAt,
	)
	if isUniqueViolation(err) {
		return shortener.ErrConflict
	}

	return err
}

func (p *PostgresStore) IncrementVisitCounter(ctx context.Context, hash shortener.Hash) (*shortener.Record, error) {
	query := `
		UPDATE short_urls
		SET visit_counter = visit_counter + 1
		WHERE hash = $1 AND active
		RETURNING ` + recordColumns

	return scanRecord(p.pool.QueryRow(ctx, query, string(hash)))
}

func (p *PostgresStore) UpdateActiveState(
	ctx context.Context, hash shortener.Hash, change shortener.StateChange,
) (*shortener.Record, error) {
	if change.Active {
		query := `
			UPDATE short_urls
			SET active = TRUE, created_at = $2, visit_counter = 1, remove_token = $3
			WHERE hash = $1 AND NOT active
			RETURNING ` + recordColumns

		rec, err := scanRecord(p.pool.QueryRow(ctx, query, string(hash), change.At, change.RemoveToken))
		if errors.Is(err, shortener.ErrNotFound) {
			if _, findErr := p.FindByHash(ctx, hash); findErr == nil {
				return nil, shortener.ErrAlreadyActive
			}
		}

		return rec, err
	}

	query := `
		UPDATE short_urls
		SET active = FALSE, removed_at = $2
		WHERE hash = $1
		RETURNING ` + recordColumns

	return scanRecord(p.pool.QueryRow(ctx, query, string(hash), change.At))
}

func scanRecord(row pgx.Row) (*shortener.Record, error) {
	var (
		rec  shortener.Record
		hash string
	)

	err := row.Scan(
		&rec.URL,
		&rec.Protocol,
		&rec.Domain,
		&rec.Path,
		&hash,
		&rec.IsCustom,
		&rec.RemoveToken,
		&rec.Active,
		&rec.VisitCounter,
		&rec.CreatedAt,
		&rec.RemovedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	rec.Hash = shortener.Hash(hash)

	return &rec, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
