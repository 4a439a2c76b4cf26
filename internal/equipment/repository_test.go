package equipment

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func setupEquipmentMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func TestPriceFor_SumsPrices(t *testing.T) {
	repo, mock, closer := setupEquipmentMock(t)
	defer closer()

	rows := sqlmock.NewRows([]string{"id", "rental_price"}).
		AddRow(1, "10.00").
		AddRow(2, "25.50").
		AddRow(3, "4.50")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, rental_price FROM equipment WHERE id IN ($1, $2, $3)")).
		WithArgs(1, 2, 3).
		WillReturnRows(rows)

	total, err := repo.PriceFor(context.Background(), []int{1, 2, 3})
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.RequireFromString("40.00")), "got %s", total)
}

func TestPriceFor_OrderIndependent(t *testing.T) {
	repo, mock, closer := setupEquipmentMock(t)
	defer closer()

	// rows come back in a different order than requested
	rows := sqlmock.NewRows([]string{"id", "rental_price"}).
		AddRow(2, "25.50").
		AddRow(1, "10.00")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id IN ($1, $2)")).
		WithArgs(2, 1).
		WillReturnRows(rows)

	total, err := repo.PriceFor(context.Background(), []int{2, 1})
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.RequireFromString("35.50")))
}

func TestPriceFor_EmptySetIsZero(t *testing.T) {
	repo, _, closer := setupEquipmentMock(t)
	defer closer()

	total, err := repo.PriceFor(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, total.IsZero())
}

func TestPriceFor_MissingIDFails(t *testing.T) {
	repo, mock, closer := setupEquipmentMock(t)
	defer closer()

	rows := sqlmock.NewRows([]string{"id", "rental_price"}).
		AddRow(1, "10.00")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id IN ($1, $2)")).
		WithArgs(1, 99).
		WillReturnRows(rows)

	_, err := repo.PriceFor(context.Background(), []int{1, 99})
	require.ErrorIs(t, err, ErrEquipmentNotFound)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, closer := setupEquipmentMock(t)
	defer closer()

	mock.ExpectQuery("SELECT id, name, description").
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrEquipmentNotFound)
}

func TestCreate(t *testing.T) {
	repo, mock, closer := setupEquipmentMock(t)
	defer closer()

	price := decimal.RequireFromString("120.00")
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO equipment (name, description, type, rental_price)")).
		WithArgs("Speaker set", "PA system", "audio", price).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "type", "rental_price", "created_at"}).
			AddRow(1, "Speaker set", "PA system", "audio", "120.00", time.Now()))

	e, err := repo.Create(context.Background(), CreateEquipmentRequest{
		Name:        "Speaker set",
		Description: "PA system",
		Type:        "audio",
		RentalPrice: price,
	})
	require.NoError(t, err)
	require.Equal(t, 1, e.ID)
	require.True(t, e.RentalPrice.Equal(price))
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, closer := setupEquipmentMock(t)
	defer closer()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM equipment WHERE id = $1")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 42)
	require.ErrorIs(t, err, ErrEquipmentNotFound)
}
