package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alisl001/EMS/internal/category"
	"github.com/Alisl001/EMS/internal/equipment"
	"github.com/Alisl001/EMS/internal/event"
	"github.com/Alisl001/EMS/internal/user"
	"github.com/Alisl001/EMS/internal/wallet"
)

func TestEventBookingFlow_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	cleanTables(t, db)

	ctx := context.Background()
	userID := createTestUser(t, db, "flow", "flow@test.com")
	categoryID := createTestCategory(t, db, "Conference")
	projector := createTestEquipment(t, db, "Projector", "100.00")
	speakers := createTestEquipment(t, db, "Speakers", "50.00")

	walletRepo := wallet.NewRepository(db)
	_, err := walletRepo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	_, err = walletRepo.Deposit(ctx, userID, decimal.RequireFromString("200.00"))
	require.NoError(t, err)

	svc := event.NewService(db, event.NewRepository(db), equipment.NewRepository(db),
		category.NewRepository(db), walletRepo, user.NewRepository(db), nil, time.UTC)

	// Book an event with both items: 150.00 charged.
	detail, err := svc.Create(ctx, userID, event.CreateEventRequest{
		Name:       "Launch Party",
		Date:       time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		StartTime:  "18:00:00",
		EndTime:    "22:00:00",
		Location:   "Rooftop",
		Capacity:   50,
		CategoryID: categoryID,
		Equipment:  []int{projector, speakers},
	})
	require.NoError(t, err)
	assert.Equal(t, event.StatusUpcoming, detail.Status)
	assert.True(t, detail.TotalPrice.Equal(decimal.RequireFromString("150.00")))

	w, err := walletRepo.GetByUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("50.00")))

	// Drop the speakers: 50.00 refunded.
	updated, err := svc.Update(ctx, userID, detail.ID, event.UpdateEventRequest{
		Equipment: []int{projector},
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalPrice.Equal(decimal.RequireFromString("100.00")))

	w, err = walletRepo.GetByUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("100.00")))

	// Cancel: the remaining 100.00 comes back.
	canceled, err := svc.Cancel(ctx, userID, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, event.StatusCanceled, canceled.Status)

	w, err = walletRepo.GetByUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("200.00")))

	// Ledger shows the whole history, newest first.
	txs, err := walletRepo.ListTransactions(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 4)
	assert.Equal(t, wallet.KindRefund, txs[0].Kind)
	assert.Equal(t, wallet.KindRefund, txs[1].Kind)
	assert.Equal(t, wallet.KindPurchase, txs[2].Kind)
	assert.Equal(t, wallet.KindDeposit, txs[3].Kind)

	// A canceled event rejects further changes.
	_, err = svc.Cancel(ctx, userID, detail.ID)
	assert.ErrorIs(t, err, event.ErrEventCanceled)
}

func TestInsufficientFundsLeavesNoTrace_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	cleanTables(t, db)

	ctx := context.Background()
	userID := createTestUser(t, db, "poor", "poor@test.com")
	categoryID := createTestCategory(t, db, "Workshop")
	equipmentID := createTestEquipment(t, db, "Stage", "500.00")

	walletRepo := wallet.NewRepository(db)
	_, err := walletRepo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	_, err = walletRepo.Deposit(ctx, userID, decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	svc := event.NewService(db, event.NewRepository(db), equipment.NewRepository(db),
		category.NewRepository(db), walletRepo, user.NewRepository(db), nil, time.UTC)

	_, err = svc.Create(ctx, userID, event.CreateEventRequest{
		Name:       "Big Show",
		Date:       time.Now().AddDate(0, 0, 14).Format("2006-01-02"),
		StartTime:  "10:00:00",
		EndTime:    "16:00:00",
		Location:   "Arena",
		Capacity:   500,
		CategoryID: categoryID,
		Equipment:  []int{equipmentID},
	})
	assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)

	// The whole booking rolled back: no event, untouched balance,
	// only the deposit in the log.
	var eventCount int
	require.NoError(t, db.Get(&eventCount, "SELECT COUNT(*) FROM events"))
	assert.Zero(t, eventCount)

	w, err := walletRepo.GetByUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("100.00")))

	txs, err := walletRepo.ListTransactions(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, wallet.KindDeposit, txs[0].Kind)
}
