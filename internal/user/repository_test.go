package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "username", "email", "password_hash", "role", "created_at",
	})
}

func TestCreateReturnsInsertedUser(t *testing.T) {
	db, mock := newRepoDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Ana", "Haddad", "ana", "ana@example.com", "hashed", "customer").
		WillReturnRows(userRows().AddRow(
			5, "Ana", "Haddad", "ana", "ana@example.com", "hashed", "customer", time.Now()))

	u, err := repo.Create(context.Background(), "Ana", "Haddad", "ana", "ana@example.com", "hashed", "customer")
	require.NoError(t, err)
	assert.Equal(t, 5, u.ID)
	assert.Equal(t, "ana", u.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUsernameMissing(t *testing.T) {
	db, mock := newRepoDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnRows(userRows())

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUsernameExists(t *testing.T) {
	db, mock := newRepoDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("ana").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.UsernameExists(context.Background(), "ana")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUpdateProfilePartialFields(t *testing.T) {
	db, mock := newRepoDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(5).
		WillReturnRows(userRows().AddRow(
			5, "Ana", "Haddad", "ana", "ana@example.com", "hashed", "customer", time.Now()))
	mock.ExpectQuery(`UPDATE users`).
		WithArgs("Anna", "Haddad", "ana@example.com", 5).
		WillReturnRows(userRows().AddRow(
			5, "Anna", "Haddad", "ana", "ana@example.com", "hashed", "customer", time.Now()))

	first := "Anna"
	u, err := repo.UpdateProfile(context.Background(), 5, UpdateProfileRequest{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Anna", u.FirstName)
	assert.Equal(t, "Haddad", u.LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePasswordMissingUser(t *testing.T) {
	db, mock := newRepoDB(t)
	repo := NewRepository(db)

	mock.ExpectExec(`UPDATE users SET password_hash`).
		WithArgs("newhash", 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword(context.Background(), 99, "newhash")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
