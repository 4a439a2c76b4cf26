package equipment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Equipment struct {
	ID          int             `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Type        string          `db:"type" json:"type"`
	RentalPrice decimal.Decimal `db:"rental_price" json:"rental_price"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

type CreateEquipmentRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Type        string          `json:"type" binding:"required"`
	RentalPrice decimal.Decimal `json:"rental_price" binding:"required"`
}

type UpdateEquipmentRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Type        *string          `json:"type"`
	RentalPrice *decimal.Decimal `json:"rental_price"`
}
