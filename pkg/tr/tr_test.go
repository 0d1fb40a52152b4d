package tr_test

import (
	"context"
	"testing"

	"github.com/DRSN-tech/store/pkg/e"
	"github.com/DRSN-tech/store/pkg/tr"
	qt "github.com/frankban/quicktest"
	"github.com/jackc/pgx/v5"
)

type fakeTx struct{ pgx.Tx }

func TestTxFromCtx(t *testing.T) {
	c := qt.New(t)

	_, err := tr.TxFromCtx(context.Background())
	c.Assert(err, qt.ErrorIs, e.ErrTransactionNotFound)

	tx := &fakeTx{}
	got, err := tr.TxFromCtx(tr.WithTx(context.Background(), tx))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, pgx.Tx(tx))
}

func TestTxFromCtxRejectsForeignValue(t *testing.T) {
	c := qt.New(t)

	_, err := tr.TxFromCtx(tr.WithTx(context.Background(), "not a tx"))
	c.Assert(err, qt.ErrorIs, e.ErrTransactionNotFound)
}
