package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnexpectedQuery = errors.New("consulta inesperada")

// strictQuerier cuenta las consultas; QueryRow responde "sin filas" y el resto falla.
type strictQuerier struct {
	calls int
	sql   []string
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func (q *strictQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.record(sql)
	return pgconn.CommandTag{}, errUnexpectedQuery
}

func (q *strictQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.record(sql)
	return nil, errUnexpectedQuery
}

func (q *strictQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.record(sql)
	return errRow{err: pgx.ErrNoRows}
}

func (q *strictQuerier) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults {
	q.record("batch")
	return nil
}

func (q *strictQuerier) record(sql string) {
	q.calls++
	q.sql = append(q.sql, sql)
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("3f1c2a9e-6b7d-4c1e-9a52-0d4f8e7b6a13"))
	assert.True(t, validID("3F1C2A9E-6B7D-4C1E-9A52-0D4F8E7B6A13"))
	for _, id := range []string{"", "abc", "1", "3f1c2a9e-6b7d-4c1e-9a52", "3f1c2a9e-6b7d-4c1e-9a52-0d4f8e7b6a1z"} {
		assert.False(t, validID(id), id)
	}
}

// Un id mal formado es "no encontrado" y no llega a Postgres (que respondería 22P02).
func TestGetByID_MalformedIDSkipsQuery(t *testing.T) {
	ctx := context.Background()
	ids := []string{"abc", "p1", "1 OR 1=1", ""}

	for _, id := range ids {
		q := &strictQuerier{}
		c := conn{pool: q}

		cat, err := (&CategoryRepo{c}).GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, cat)

		p, err := (&ProductRepo{c}).GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, p)

		g, err := (&ProductGroupRepo{c}).GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, g)

		u, err := (&UserRepo{c}).GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, u)

		assert.Zero(t, q.calls, "id %q", id)
	}
}

func TestGetByID_WellFormedIDQueriesAndMapsNoRows(t *testing.T) {
	ctx := context.Background()
	const id = "3f1c2a9e-6b7d-4c1e-9a52-0d4f8e7b6a13"
	q := &strictQuerier{}
	c := conn{pool: q}

	cat, err := (&CategoryRepo{c}).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, cat)

	p, err := (&ProductRepo{c}).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, p)

	g, err := (&ProductGroupRepo{c}).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, g)

	u, err := (&UserRepo{c}).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, u)

	assert.Equal(t, 4, q.calls)
}
