package integration

import (
	"fmt"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/Alisl001/EMS/internal/auth"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL.
// Tests are skipped when the variable is unset or -short is given.
func setupTestDB(t *testing.T) *sqlx.DB {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	return db
}

func cleanTables(t *testing.T, db *sqlx.DB) {
	tables := []string{"transaction_log", "event_equipment", "events", "wallets", "equipment", "categories", "users"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		require.NoError(t, err, "Failed to clean table "+table)
	}
}

func createTestUser(t *testing.T, db *sqlx.DB, username, email string) int {
	hashedPassword, _ := auth.HashPassword("password123")

	var userID int
	err := db.QueryRow(`
		INSERT INTO users (first_name, last_name, username, email, password_hash, role)
		VALUES ('Test', 'User', $1, $2, $3, 'customer')
		RETURNING id
	`, username, email, hashedPassword).Scan(&userID)

	require.NoError(t, err)
	return userID
}

func createTestCategory(t *testing.T, db *sqlx.DB, name string) int {
	var id int
	err := db.QueryRow(`INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func createTestEquipment(t *testing.T, db *sqlx.DB, name, price string) int {
	var id int
	err := db.QueryRow(`
		INSERT INTO equipment (name, rental_price) VALUES ($1, $2) RETURNING id
	`, name, price).Scan(&id)
	require.NoError(t, err)
	return id
}
