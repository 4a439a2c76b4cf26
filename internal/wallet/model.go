package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the closed set of transaction kinds. Purchase is a debit,
// deposit and refund are credits; the logged amount is always the
// non-negative magnitude.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindPurchase Kind = "purchase"
	KindRefund   Kind = "refund"
)

func (k Kind) Valid() bool {
	switch k {
	case KindDeposit, KindPurchase, KindRefund:
		return true
	}
	return false
}

type Wallet struct {
	ID        int             `db:"id" json:"id"`
	UserID    int             `db:"user_id" json:"user_id"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

type Transaction struct {
	ID          int             `db:"id" json:"id"`
	UserID      int             `db:"user_id" json:"user_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Kind        Kind            `db:"kind" json:"kind"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}
