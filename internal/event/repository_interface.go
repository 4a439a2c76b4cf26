package event

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, ev *Event) (*Event, error)
	// GetByIDForUserTx locks the owner's event row (SELECT ... FOR UPDATE)
	// so concurrent updates and cancels of the same event serialize on it.
	GetByIDForUserTx(ctx context.Context, tx *sqlx.Tx, id, userID int) (*Event, error)
	AddEquipmentTx(ctx context.Context, tx *sqlx.Tx, eventID int, equipmentIDs []int) error
	RemoveEquipmentTx(ctx context.Context, tx *sqlx.Tx, eventID int, equipmentIDs []int) error
	ClearEquipmentTx(ctx context.Context, tx *sqlx.Tx, eventID int) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, ev *Event) error
	SetStatusTx(ctx context.Context, tx *sqlx.Tx, eventID int, status Status) error

	GetByID(ctx context.Context, id int) (*Event, error)
	EquipmentIDs(ctx context.Context, eventID int) ([]int, error)
	ListByUser(ctx context.Context, userID int) ([]Event, error)
	ListAll(ctx context.Context) ([]Event, error)

	// SetStatus persists a status recomputed on a read path.
	SetStatus(ctx context.Context, eventID int, status Status) error
}
