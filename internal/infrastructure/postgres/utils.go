package postgres

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txKey struct{}

// txState transacción abierta que viaja en el ctx. depth cuenta los Begin anidados.
type txState struct {
	mu       sync.Mutex
	tx       pgx.Tx
	depth    int
	affected int64
	failed   bool
	done     bool
}

func (s *txState) addAffected(n int64) {
	s.mu.Lock()
	s.affected += n
	s.mu.Unlock()
}

func txFromContext(ctx context.Context) *txState {
	st, _ := ctx.Value(txKey{}).(*txState)
	return st
}

// conn resuelve el Querier del ctx: la transacción si hay una abierta, el pool si no.
type conn struct {
	pool Querier
}

func (c conn) q(ctx context.Context) Querier {
	if st := txFromContext(ctx); st != nil {
		st.mu.Lock()
		defer st.mu.Unlock()
		if !st.done {
			return st.tx
		}
	}
	return c.pool
}

// exec ejecuta una sentencia y acumula las filas afectadas en la transacción actual.
func (c conn) exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := c.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	if st := txFromContext(ctx); st != nil {
		st.addAffected(tag.RowsAffected())
	}
	return tag.RowsAffected(), nil
}

func (c conn) sendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return c.q(ctx).SendBatch(ctx, b)
}

// validID descarta ids que no son UUID antes de llegar a la DB; Postgres los rechazaría con 22P02.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation verifica si un error es una violación de FK (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
