package pgdb

import (
	"context"

	"github.com/DRSN-tech/store/pkg/e"
	"github.com/DRSN-tech/store/pkg/logger"
	"github.com/DRSN-tech/store/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// TxRunner выполняет функцию в транзакции PostgreSQL. Транзакция доступна репозиторию через tr.TxFromCtx.
type TxRunner struct {
	dbPool transaction.Transactional
	logger logger.Logger
}

func NewTxRunner(dbPool transaction.Transactional, logger logger.Logger) *TxRunner {
	return &TxRunner{
		dbPool: dbPool,
		logger: logger,
	}
}

// Do коммитит транзакцию, если fn завершилась без ошибки, иначе откатывает её.
func (r *TxRunner) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	const op = "TxRunner.Do"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, r.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.Errorf(rbErr, "%s: rollback failed", op)
			}
		}
	}()

	if err = fn(tr.WithTx(ctx, tx.Transaction())); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
