package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// TransactionManager provides a thin abstraction to execute a function within a
// database transaction, passing the underlying transaction handle via `tx`.
//
// Use-case code calls repositories with the same ctx and tx so that a
// check-then-act sequence (duplicate-slip insert, code allocation, usage
// increment) is one atomic unit. Repositories MUST gracefully accept a nil
// tx (non-transactional path). The concrete type of `tx` is infra-defined
// (pgx.Tx for Postgres).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
