package ports

import "context"

// UnitOfWork límite transaccional alrededor de la persistencia.
// La transacción viaja en el ctx devuelto por Begin; los repositorios la toman de ahí.
type UnitOfWork interface {
	// Begin abre una transacción (read committed). Si ctx ya lleva una abierta no hace nada.
	Begin(ctx context.Context) (context.Context, error)
	// Commit confirma y libera la transacción; si el commit falla hace rollback.
	Commit(ctx context.Context) error
	// Rollback deshace y libera la transacción. Sin transacción abierta no hace nada.
	Rollback(ctx context.Context) error
	// SaveChanges devuelve las filas afectadas en la transacción actual hasta el momento.
	SaveChanges(ctx context.Context) (int64, error)
	// Run ejecuta fn entre Begin y Commit; ante error o panic hace Rollback.
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// RunInTx guarda begin/commit sobre cualquier UnitOfWork: ante error de fn o panic hace Rollback
// (y re-lanza el panic). Sirve para implementar Run.
func RunInTx(ctx context.Context, uow UnitOfWork, fn func(ctx context.Context) error) error {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback(txCtx)
			panic(p)
		}
	}()
	if err := fn(txCtx); err != nil {
		_ = uow.Rollback(txCtx)
		return err
	}
	return uow.Commit(txCtx)
}
