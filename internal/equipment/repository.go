package equipment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var ErrEquipmentNotFound = errors.New("equipment not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req CreateEquipmentRequest) (*Equipment, error) {
	e := &Equipment{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO equipment (name, description, type, rental_price)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, description, type, rental_price, created_at`,
		req.Name, req.Description, req.Type, req.RentalPrice,
	).StructScan(e)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *repository) Update(ctx context.Context, id int, req UpdateEquipmentRequest) (*Equipment, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.Type != nil {
		current.Type = *req.Type
	}
	if req.RentalPrice != nil {
		current.RentalPrice = *req.RentalPrice
	}

	e := &Equipment{}
	err = r.db.QueryRowxContext(ctx,
		`UPDATE equipment
		 SET name = $1, description = $2, type = $3, rental_price = $4
		 WHERE id = $5
		 RETURNING id, name, description, type, rental_price, created_at`,
		current.Name, current.Description, current.Type, current.RentalPrice, id,
	).StructScan(e)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEquipmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEquipmentNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Equipment, error) {
	e := &Equipment{}
	err := r.db.GetContext(ctx, e,
		`SELECT id, name, description, type, rental_price, created_at
		 FROM equipment
		 WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEquipmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *repository) List(ctx context.Context) ([]Equipment, error) {
	items := []Equipment{}
	err := r.db.SelectContext(ctx, &items,
		`SELECT id, name, description, type, rental_price, created_at
		 FROM equipment
		 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) PriceFor(ctx context.Context, ids []int) (decimal.Decimal, error) {
	if len(ids) == 0 {
		return decimal.Zero, nil
	}

	query, args, err := sqlx.In(
		`SELECT id, rental_price FROM equipment WHERE id IN (?)`, ids)
	if err != nil {
		return decimal.Zero, err
	}
	query = r.db.Rebind(query)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	found := make(map[int]bool, len(ids))
	total := decimal.Zero
	for rows.Next() {
		var (
			id    int
			price decimal.Decimal
		)
		if err := rows.Scan(&id, &price); err != nil {
			return decimal.Zero, err
		}
		found[id] = true
		total = total.Add(price)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, err
	}

	for _, id := range ids {
		if !found[id] {
			return decimal.Zero, ErrEquipmentNotFound
		}
	}

	return total, nil
}
