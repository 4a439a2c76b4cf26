package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrInvalidKind       = errors.New("invalid transaction kind")
	ErrInvalidAmount     = errors.New("transaction amount must not be negative")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreate(ctx context.Context, userID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w, `SELECT * FROM wallets WHERE user_id = $1`, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 RETURNING id, user_id, balance, created_at, updated_at`,
		userID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}

	return w, nil
}

func (r *repository) GetByUser(ctx context.Context, userID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w, `SELECT * FROM wallets WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *repository) GetByUserTx(ctx context.Context, tx *sqlx.Tx, userID int) (*Wallet, error) {
	w := &Wallet{}
	err := tx.QueryRowxContext(ctx,
		`SELECT id, user_id, balance, created_at, updated_at
		 FROM wallets
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(w)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *repository) AdjustBalanceTx(ctx context.Context, tx *sqlx.Tx, userID int, delta decimal.Decimal) (decimal.Decimal, error) {
	w, err := r.GetByUserTx(ctx, tx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	newBalance := w.Balance.Add(delta)
	if newBalance.IsNegative() {
		return decimal.Zero, ErrInsufficientFunds
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance = $1, updated_at = NOW()
		 WHERE id = $2`,
		newBalance, w.ID,
	)
	if err != nil {
		return decimal.Zero, err
	}

	return newBalance, nil
}

func (r *repository) AppendTransactionTx(ctx context.Context, tx *sqlx.Tx, userID int, amount decimal.Decimal, kind Kind, description string) (*Transaction, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	entry := &Transaction{}
	err := tx.QueryRowxContext(ctx,
		`INSERT INTO transaction_log (user_id, amount, kind, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, amount, kind, description, created_at`,
		userID, amount, kind, description,
	).StructScan(entry)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *repository) Deposit(ctx context.Context, userID int, amount decimal.Decimal) (*Wallet, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	newBalance, err := r.AdjustBalanceTx(ctx, tx, userID, amount)
	if err != nil {
		return nil, err
	}

	if _, err := r.AppendTransactionTx(ctx, tx, userID, amount, KindDeposit, "Funds added to wallet"); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	w := &Wallet{UserID: userID, Balance: newBalance}
	if fresh, err := r.GetByUser(ctx, userID); err == nil {
		w = fresh
	}
	return w, nil
}

func (r *repository) ListTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	txs := []Transaction{}
	err := r.db.SelectContext(ctx, &txs,
		`SELECT id, user_id, amount, kind, description, created_at
		 FROM transaction_log
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return txs, nil
}
