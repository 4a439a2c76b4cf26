package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Alisl001/EMS/internal/auth"
	"github.com/Alisl001/EMS/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo: NewRepository(db),
	}
}

// GetBalance godoc
// @Summary      My wallet
// @Description  Returns the current user's wallet, creating it if absent.
// @Tags         wallets
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} Wallet
// @Failure      401 {object} gin.H
// @Failure      500 {object} gin.H
// @Router       /api/wallets/my-wallet/ [get]
func (h *Handler) GetBalance(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	w, err := h.repo.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load wallet"})
		return
	}

	c.JSON(http.StatusOK, w)
}

// AddFunds godoc
// @Summary      Add funds
// @Description  Deposits a positive amount into the current user's wallet.
// @Tags         wallets
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload body DepositRequest true "Deposit amount"
// @Success      200 {object} gin.H
// @Failure      400 {object} gin.H
// @Failure      401 {object} gin.H
// @Failure      500 {object} gin.H
// @Router       /api/wallets/add-funds/ [post]
func (h *Handler) AddFunds(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	w, err := h.repo.Deposit(c.Request.Context(), userID, req.Amount)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add funds"})
		return
	}

	metrics.RecordWalletTransaction(string(KindDeposit))

	c.JSON(http.StatusOK, gin.H{
		"message": "funds added successfully",
		"wallet":  w,
	})
}

// ListTransactions godoc
// @Summary      My transactions
// @Description  Lists the current user's transaction log, newest first.
// @Tags         wallets
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query int false "Page size"  default(50)
// @Param        offset query int false "Offset"     default(0)
// @Success      200 {array}  Transaction
// @Failure      401 {object} gin.H
// @Failure      500 {object} gin.H
// @Router       /api/wallets/my-transactions/ [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.repo.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, txs)
}
