package wallet

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Repository interface {
	GetOrCreate(ctx context.Context, userID int) (*Wallet, error)
	GetByUser(ctx context.Context, userID int) (*Wallet, error)

	// GetByUserTx reads the wallet row with SELECT ... FOR UPDATE,
	// holding the lock for the rest of the caller's transaction.
	GetByUserTx(ctx context.Context, tx *sqlx.Tx, userID int) (*Wallet, error)

	// AdjustBalanceTx applies balance += delta inside the caller's
	// transaction. The wallet row is locked for update first; a delta
	// that would drive the balance negative fails with
	// ErrInsufficientFunds and leaves the row untouched.
	AdjustBalanceTx(ctx context.Context, tx *sqlx.Tx, userID int, delta decimal.Decimal) (decimal.Decimal, error)

	// AppendTransactionTx appends one immutable log entry inside the
	// caller's transaction. Amount must be the non-negative magnitude.
	AppendTransactionTx(ctx context.Context, tx *sqlx.Tx, userID int, amount decimal.Decimal, kind Kind, description string) (*Transaction, error)

	Deposit(ctx context.Context, userID int, amount decimal.Decimal) (*Wallet, error)
	ListTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error)
}
