package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func MustOpen(ctx context.Context, dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect fail")
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping fail")
	}
	return pool
}

const schema = `
CREATE TABLE IF NOT EXISTS payment_state_snapshots (
	id           BIGSERIAL PRIMARY KEY,
	pos_id       TEXT        NOT NULL,
	session_id   TEXT        NOT NULL,
	status       TEXT        NOT NULL DEFAULT '',
	trans_status TEXT        NOT NULL DEFAULT '',
	trans_id     TEXT        NOT NULL DEFAULT '',
	order_id     TEXT        NOT NULL DEFAULT '',
	amount       TEXT        NOT NULL DEFAULT '',
	error_nr     TEXT        NOT NULL DEFAULT '',
	fields       JSONB       NOT NULL,
	taken_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS payment_state_snapshots_session_idx
	ON payment_state_snapshots (session_id, taken_at DESC);
`

// EnsureSchema creates the snapshot table when missing.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return err
}
