package integration

import (
	"context"
	"sync"
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

// Two cancels race on the same event. The event row lock serializes them:
// the loser sees the committed canceled status and the wallet is credited
// exactly once.
func TestConcurrentCancelRefundsExactlyOnce_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	cleanTables(t, db)

	ctx := context.Background()
	userID := createTestUser(t, db, "racer", "racer@test.com")
	categoryID := createTestCategory(t, db, "Concert")
	stageID := createTestEquipment(t, db, "Stage", "150.00")

	walletRepo := wallet.NewRepository(db)
	_, err := walletRepo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	_, err = walletRepo.Deposit(ctx, userID, decimal.RequireFromString("150.00"))
	require.NoError(t, err)

	svc := event.NewService(db, event.NewRepository(db), equipment.NewRepository(db),
		category.NewRepository(db), walletRepo, user.NewRepository(db), nil, time.UTC)

	detail, err := svc.Create(ctx, userID, event.CreateEventRequest{
		Name:       "Open Air",
		Date:       time.Now().AddDate(0, 0, 10).Format("2006-01-02"),
		StartTime:  "18:00:00",
		EndTime:    "23:00:00",
		Location:   "Park",
		Capacity:   300,
		CategoryID: categoryID,
		Equipment:  []int{stageID},
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Cancel(ctx, userID, detail.ID)
		}(i)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, event.ErrEventCanceled)
			rejected++
		}
	}
	assert.Equal(t, 1, ok, "exactly one cancel must commit")
	assert.Equal(t, 1, rejected)

	// One refund, balance restored once.
	w, err := walletRepo.GetByUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("150.00")),
		"balance is %s, wallet was credited more than once", w.Balance)

	var refunds int
	require.NoError(t, db.Get(&refunds,
		"SELECT COUNT(*) FROM transaction_log WHERE user_id = $1 AND kind = 'refund'", userID))
	assert.Equal(t, 1, refunds)
}

// Two updates race on the same event and would jointly overdraw the wallet.
// Exactly one commits; the other prices against the committed total under
// the row lock and fails on funds, leaving the ledger consistent.
func TestConcurrentUpdatesCannotOverdraw_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	cleanTables(t, db)

	ctx := context.Background()
	userID := createTestUser(t, db, "overdraw", "overdraw@test.com")
	categoryID := createTestCategory(t, db, "Meetup")
	lightsID := createTestEquipment(t, db, "Lights", "60.00")
	screenID := createTestEquipment(t, db, "LED Screen", "130.00")

	walletRepo := wallet.NewRepository(db)
	_, err := walletRepo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	_, err = walletRepo.Deposit(ctx, userID, decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	svc := event.NewService(db, event.NewRepository(db), equipment.NewRepository(db),
		category.NewRepository(db), walletRepo, user.NewRepository(db), nil, time.UTC)

	detail, err := svc.Create(ctx, userID, event.CreateEventRequest{
		Name:       "Community Night",
		Date:       time.Now().AddDate(0, 0, 5).Format("2006-01-02"),
		StartTime:  "19:00:00",
		EndTime:    "21:00:00",
		Location:   "Hall B",
		Capacity:   80,
		CategoryID: categoryID,
	})
	require.NoError(t, err)

	sets := [][]int{{lightsID}, {screenID}}
	var wg sync.WaitGroup
	errs := make([]error, len(sets))
	for i, ids := range sets {
		wg.Add(1)
		go func(i int, ids []int) {
			defer wg.Done()
			_, errs[i] = svc.Update(ctx, userID, detail.ID, event.UpdateEventRequest{Equipment: ids})
		}(i, ids)
	}
	wg.Wait()

	var ok, broke int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)
			broke++
		}
	}
	assert.Equal(t, 1, ok, "exactly one update must commit")
	assert.Equal(t, 1, broke)

	// Whatever won, the books balance: deposit minus the final event price.
	w, err := walletRepo.GetByUser(ctx, userID)
	require.NoError(t, err)
	assert.False(t, w.Balance.IsNegative())

	final, err := svc.Get(ctx, detail.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("100.00").Sub(final.TotalPrice).Equal(w.Balance),
		"balance %s does not match deposit minus final price %s", w.Balance, final.TotalPrice)
}
