package equipment

import (
	"errors"
	"net/http"
	"strconv"

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

// Create godoc
// @Summary      Create equipment
// @Tags         equipment
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload body CreateEquipmentRequest true "Equipment"
// @Success      201 {object} Equipment
// @Failure      400 {object} gin.H
// @Failure      500 {object} gin.H
// @Router       /api/equipment/create/ [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RentalPrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rental_price must not be negative"})
		return
	}

	e, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create equipment"})
		return
	}

	c.JSON(http.StatusCreated, e)
}

// Update godoc
// @Summary      Update equipment
// @Tags         equipment
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path int                    true "Equipment ID"
// @Param        payload body UpdateEquipmentRequest true "Fields to update"
// @Success      200 {object} Equipment
// @Failure      400 {object} gin.H
// @Failure      404 {object} gin.H
// @Failure      500 {object} gin.H
// @Router       /api/equipment/update/{id}/ [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid equipment id"})
		return
	}

	var req UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RentalPrice != nil && req.RentalPrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rental_price must not be negative"})
		return
	}

	e, err := h.repo.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrEquipmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "equipment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update equipment"})
		return
	}

	c.JSON(http.StatusOK, e)
}

// Delete godoc
// @Summary      Delete equipment
// @Tags         equipment
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Equipment ID"
// @Success      200 {object} gin.H
// @Failure      400 {object} gin.H
// @Failure      404 {object} gin.H
// @Failure      500 {object} gin.H
// @Router       /api/equipment/delete/{id}/ [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid equipment id"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrEquipmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "equipment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete equipment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "equipment deleted successfully"})
}

// List godoc
// @Summary      List equipment
// @Tags         equipment
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array}  Equipment
// @Failure      500 {object} gin.H
// @Router       /api/equipment/list/ [get]
func (h *Handler) List(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load equipment"})
		return
	}

	c.JSON(http.StatusOK, items)
}
