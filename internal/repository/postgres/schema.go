package postgres

import (
	"context"
	_ "embed"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-goal-tracker/internal/repository"
)

//go:embed schema.sql
var schema string

// Migrate creates the tables if they don't exist yet.
func Migrate(ctx context.Context, pgPool *pgxpool.Pool) error {
	_, err := pgPool.Exec(ctx, schema)
	return err
}

// mapWriteError translates constraint violations into repository errors.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return repository.ErrReferenceNotFound
	}
	return err
}
