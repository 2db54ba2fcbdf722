package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortref/internal/shortener"
)

// Postgres stores accesses in the access_events table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Record inserts the access. An access without an ID gets a fresh one;
// an access whose ID is already stored is ignored.
func (p *Postgres) Record(ctx context.Context, code shortener.Code, access shortener.Access) error {
	const query = `
		INSERT INTO access_events (id, code, accessed_at, referrer, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	id, err := uuid.Parse(access.ID)
	if err != nil {
		id = uuid.New()
	}

	_, err = p.pool.Exec(ctx, query,
		id,
		string(code),
		access.At,
		access.Referrer,
		access.ClientIP,
		access.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("insert access event: %w", err)
	}

	return nil
}

func (p *Postgres) Accesses(ctx context.Context, code shortener.Code) ([]shortener.Access, error) {
	const query = `
		SELECT id, code, accessed_at, referrer, client_ip, user_agent
		FROM access_events
		WHERE code = $1
		ORDER BY accessed_at, id
	`

	rows, err := p.pool.Query(ctx, query, string(code))
	if err != nil {
		return nil, fmt.Errorf("select access events: %w", err)
	}

	accesses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shortener.Access, error) {
		var (
			a  shortener.Access
			id uuid.UUID
		)

		err := row.Scan(&id, &a.Code, &a.At, &a.Referrer, &a.ClientIP, &a.UserAgent)
		a.ID = id.String()

		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan access events: %w", err)
	}

	if accesses == nil {
		accesses = []shortener.Access{}
	}

	return accesses, nil
}

var _ shortener.AccessLog = (*Postgres)(nil)
