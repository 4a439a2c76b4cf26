package event

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrEventNotFound = errors.New("event not found")

const eventColumns = `id, user_id, name, description, date, start_time, end_time, location, capacity, category_id, status, total_price, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTx(ctx context.Context, tx *sqlx.Tx, ev *Event) (*Event, error) {
	created := &Event{}
	err := tx.QueryRowxContext(ctx,
		`INSERT INTO events (user_id, name, description, date, start_time, end_time, location, capacity, category_id, status, total_price)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+eventColumns,
		ev.UserID, ev.Name, ev.Description, ev.Date, ev.StartTime, ev.EndTime,
		ev.Location, ev.Capacity, ev.CategoryID, ev.Status, ev.TotalPrice,
	).StructScan(created)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) AddEquipmentTx(ctx context.Context, tx *sqlx.Tx, eventID int, equipmentIDs []int) error {
	for _, equipmentID := range equipmentIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO event_equipment (event_id, equipment_id) VALUES ($1, $2)`,
			eventID, equipmentID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) RemoveEquipmentTx(ctx context.Context, tx *sqlx.Tx, eventID int, equipmentIDs []int) error {
	if len(equipmentIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(
		`DELETE FROM event_equipment WHERE event_id = ? AND equipment_id IN (?)`,
		eventID, equipmentIDs)
	if err != nil {
		return err
	}
	query = tx.Rebind(query)

	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

func (r *repository) ClearEquipmentTx(ctx context.Context, tx *sqlx.Tx, eventID int) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM event_equipment WHERE event_id = $1`, eventID)
	return err
}

func (r *repository) UpdateTx(ctx context.Context, tx *sqlx.Tx, ev *Event) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE events
		 SET name = $1, description = $2, date = $3, start_time = $4, end_time = $5,
		     location = $6, capacity = $7, category_id = $8, status = $9, total_price = $10
		 WHERE id = $11`,
		ev.Name, ev.Description, ev.Date, ev.StartTime, ev.EndTime,
		ev.Location, ev.Capacity, ev.CategoryID, ev.Status, ev.TotalPrice, ev.ID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *repository) SetStatusTx(ctx context.Context, tx *sqlx.Tx, eventID int, status Status) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE events SET status = $1 WHERE id = $2`, status, eventID)
	return err
}

func (r *repository) GetByID(ctx context.Context, id int) (*Event, error) {
	ev := &Event{}
	err := r.db.GetContext(ctx, ev,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func (r *repository) GetByIDForUserTx(ctx context.Context, tx *sqlx.Tx, id, userID int) (*Event, error) {
	ev := &Event{}
	err := tx.GetContext(ctx, ev,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE id = $1 AND user_id = $2
		 FOR UPDATE`,
		id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func (r *repository) EquipmentIDs(ctx context.Context, eventID int) ([]int, error) {
	ids := []int{}
	err := r.db.SelectContext(ctx, &ids,
		`SELECT equipment_id FROM event_equipment WHERE event_id = $1 ORDER BY equipment_id`,
		eventID)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Event, error) {
	events := []Event{}
	err := r.db.SelectContext(ctx, &events,
		`SELECT `+eventColumns+` FROM events WHERE user_id = $1 ORDER BY date DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Event, error) {
	events := []Event{}
	err := r.db.SelectContext(ctx, &events,
		`SELECT `+eventColumns+` FROM events ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) SetStatus(ctx context.Context, eventID int, status Status) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE events SET status = $1 WHERE id = $2`, status, eventID)
	return err
}
