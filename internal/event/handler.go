package event

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Alisl001/EMS/internal/auth"
	"github.com/Alisl001/EMS/internal/category"
	"github.com/Alisl001/EMS/internal/equipment"
	"github.com/Alisl001/EMS/internal/wallet"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
	case errors.Is(err, equipment.ErrEquipmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "equipment not found"})
	case errors.Is(err, category.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
	case errors.Is(err, wallet.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient wallet balance"})
	case errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrEventCanceled):
		c.JSON(http.StatusConflict, gin.H{"error": "event is already canceled"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// Create godoc
// @Summary      Book an event
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload body CreateEventRequest true "Event to book"
// @Success      201 {object} EventDetail
// @Failure      400 {object} gin.H
// @Failure      404 {object} gin.H
// @Router       /api/events/create/ [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, detail)
}

// Update godoc
// @Summary      Update an event I booked
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path int true "Event ID"
// @Param        payload body UpdateEventRequest true "Fields to update"
// @Success      200 {object} EventDetail
// @Failure      400 {object} gin.H
// @Failure      404 {object} gin.H
// @Failure      409 {object} gin.H
// @Router       /api/events/update/{id}/ [put]
func (h *Handler) Update(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.service.Update(c.Request.Context(), userID, eventID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Cancel godoc
// @Summary      Cancel an event I booked
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Event ID"
// @Success      200 {object} Event
// @Failure      404 {object} gin.H
// @Failure      409 {object} gin.H
// @Router       /api/events/cancel/{id}/ [post]
func (h *Handler) Cancel(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ev, err := h.service.Cancel(c.Request.Context(), userID, eventID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event canceled and refunded", "event": ev})
}

// Get godoc
// @Summary      Event details
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Event ID"
// @Success      200 {object} EventDetail
// @Failure      404 {object} gin.H
// @Router       /api/events/details/{id}/ [get]
func (h *Handler) Get(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	detail, err := h.service.Get(c.Request.Context(), eventID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// ListMine godoc
// @Summary      My events
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} Event
// @Router       /api/events/my-events/ [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	evs, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, evs)
}

// ListAll godoc
// @Summary      All events
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} Event
// @Failure      403 {object} gin.H
// @Router       /api/events/list/ [get]
func (h *Handler) ListAll(c *gin.Context) {
	evs, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, evs)
}
