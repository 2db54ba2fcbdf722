package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortref/internal/shortener"
)

// Constraint names from migrations/000001_create_short_refs.up.sql.
const (
	constraintCode = "short_refs_pkey"
	constraintURL  = "short_refs_url_hash_key"
)

// querier is the subset of *pgxpool.Pool the store needs.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore is a PostgreSQL implementation of shortener.Store. Uniqueness
// of both columns is enforced by the table constraints, not by reads. The url
// is unique through its sha256, computed here and stored in url_hash.
type PostgresStore struct {
	db querier
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool}
}

func (p *PostgresStore) Put(ctx context.Context, code shortener.Code, url string) error {
	const query = `INSERT INTO short_refs (code, url, url_hash) VALUES ($1, $2, $3)`

	if _, err := p.db.Exec(ctx, query, string(code), url, urlDigest(url)); err != nil {
		return translateInsertError(err)
	}

	return nil
}

func (p *PostgresStore) Get(ctx context.Context, code shortener.Code) (string, error) {
	const query = `SELECT url FROM short_refs WHERE code = $1`

	var url string

	if err := p.db.QueryRow(ctx, query, string(code)).Scan(&url); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shortener.ErrNotFound
		}

		return "", fmt.Errorf("select url: %w", err)
	}

	return url, nil
}

func (p *PostgresStore) KeyFor(ctx context.Context, url string) (shortener.Code, error) {
	const query = `
		SELECT code
		FROM short_refs
		WHERE url_hash = $1 AND url = $2
	`

	var code string

	if err := p.db.QueryRow(ctx, query, urlDigest(url), url).Scan(&code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shortener.ErrNotFound
		}

		return "", fmt.Errorf("select code: %w", err)
	}

	return shortener.Code(code), nil
}

// translateInsertError maps unique violations onto the store sentinels.
func translateInsertError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return fmt.Errorf("insert short ref: %w", err)
	}

	switch pgErr.ConstraintName {
	case constraintCode:
		return shortener.ErrDuplicateKey
	case constraintURL:
		return shortener.ErrDuplicateValue
	default:
		return fmt.Errorf("insert short ref: unexpected constraint %q: %w", pgErr.ConstraintName, err)
	}
}

var _ shortener.Store = (*PostgresStore)(nil)
