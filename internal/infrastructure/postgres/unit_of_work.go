package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/myshop-api/internal/application/ports"
	"github.com/jhoicas/myshop-api/pkg/logger"
	"github.com/jhoicas/myshop-api/pkg/metrics"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// ErrNoTransaction Commit sin transacción abierta en el ctx.
var ErrNoTransaction = errors.New("no hay transacción abierta")

// errRolledBack el Begin externo intenta confirmar una transacción que un nivel anidado marcó como fallida.
var errRolledBack = errors.New("la transacción fue marcada para rollback por un nivel anidado")

// beginner abre transacciones; lo implementa *pgxpool.Pool.
type beginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// UnitOfWork implementa ports.UnitOfWork sobre pgx. La transacción vive en el ctx.
type UnitOfWork struct {
	db  beginner
	log *logger.Logger
}

// NewUnitOfWork construye la unidad de trabajo con el pool.
func NewUnitOfWork(pool *pgxpool.Pool, log *logger.Logger) *UnitOfWork {
	return &UnitOfWork{db: pool, log: log.Component("uow")}
}

// Begin abre una transacción read committed. Un Begin anidado solo incrementa la profundidad.
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if st := txFromContext(ctx); st != nil {
		st.mu.Lock()
		defer st.mu.Unlock()
		if !st.done {
			st.depth++
			return ctx, nil
		}
	}
	tx, err := u.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return ctx, fmt.Errorf("begin transaction: %w", err)
	}
	u.log.Debug().Msg("transacción iniciada")
	return context.WithValue(ctx, txKey{}, &txState{tx: tx}), nil
}

// Commit confirma la transacción del ctx. En un nivel anidado no hace nada.
// Si el commit falla se hace rollback; en ambos casos el handle queda liberado.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	st := txFromContext(ctx)
	if st == nil {
		return ErrNoTransaction
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.done {
		return ErrNoTransaction
	}
	if st.depth > 0 {
		st.depth--
		return nil
	}
	defer u.release(st)

	if st.failed {
		u.rollback(ctx, st)
		return errRolledBack
	}
	if err := st.tx.Commit(ctx); err != nil {
		u.rollback(ctx, st)
		return fmt.Errorf("commit transaction: %w", err)
	}
	metrics.Transactions.WithLabelValues("commit").Inc()
	u.log.Debug().Int64("rows_affected", st.affected).Msg("transacción confirmada")
	return nil
}

// Rollback deshace la transacción del ctx. En un nivel anidado la marca para rollback.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	st := txFromContext(ctx)
	if st == nil {
		return nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.done {
		return nil
	}
	if st.depth > 0 {
		st.depth--
		st.failed = true
		return nil
	}
	defer u.release(st)
	return u.rollback(ctx, st)
}

// SaveChanges devuelve las filas afectadas en la transacción actual.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	st := txFromContext(ctx)
	if st == nil {
		return 0, nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.affected, nil
}

// Run abre (o reutiliza) la transacción, ejecuta fn y hace Commit; ante error o panic hace Rollback.
func (u *UnitOfWork) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return ports.RunInTx(ctx, u, fn)
}

func (u *UnitOfWork) rollback(ctx context.Context, st *txState) error {
	// El ctx de la petición puede estar cancelado; el rollback debe llegar igual a la DB.
	if err := st.tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		u.log.Error().Err(err).Msg("rollback fallido")
		metrics.Transactions.WithLabelValues("rollback").Inc()
		return fmt.Errorf("rollback transaction: %w", err)
	}
	metrics.Transactions.WithLabelValues("rollback").Inc()
	u.log.Debug().Msg("transacción revertida")
	return nil
}

func (u *UnitOfWork) release(st *txState) {
	st.done = true
	st.tx = nil
}
