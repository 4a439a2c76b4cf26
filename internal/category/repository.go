package category

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Alisl001/EMS/internal/db"
)

var ErrCategoryNotFound = errors.New("category not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	cat := &Category{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO categories (name, description)
		 VALUES ($1, $2)
		 RETURNING id, name, description, created_at`,
		req.Name, req.Description,
	).StructScan(cat)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (r *Repository) Update(ctx context.Context, id int, req UpdateCategoryRequest) (*Category, error) {
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

	cat := &Category{}
	err = r.db.QueryRowxContext(ctx,
		`UPDATE categories
		 SET name = $1, description = $2
		 WHERE id = $3
		 RETURNING id, name, description, created_at`,
		current.Name, current.Description, id,
	).StructScan(cat)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Category, error) {
	cat := &Category{}
	err := r.db.GetContext(ctx, cat,
		`SELECT id, name, description, created_at FROM categories WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (r *Repository) Exists(ctx context.Context, id int) (bool, error) {
	return db.Exists(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id)
}

func (r *Repository) List(ctx context.Context) ([]Category, error) {
	cats := []Category{}
	err := r.db.SelectContext(ctx, &cats,
		`SELECT id, name, description, created_at FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return cats, nil
}
