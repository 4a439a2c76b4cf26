package event

import (
	"time"

	"github.com/Alisl001/EMS/internal/equipment"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

type Event struct {
	ID          int             `db:"id" json:"id"`
	UserID      int             `db:"user_id" json:"user_id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Date        time.Time       `db:"date" json:"date"`
	StartTime   string          `db:"start_time" json:"start_time"`
	EndTime     string          `db:"end_time" json:"end_time"`
	Location    string          `db:"location" json:"location"`
	Capacity    int             `db:"capacity" json:"capacity"`
	CategoryID  int             `db:"category_id" json:"category_id"`
	Status      Status          `db:"status" json:"status"`
	TotalPrice  decimal.Decimal `db:"total_price" json:"total_price"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// EventDetail is an event together with its rented equipment.
type EventDetail struct {
	Event
	Equipment []equipment.Equipment `json:"equipment"`
}

type CreateEventRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" binding:"required,timeofday"`
	EndTime     string `json:"end_time" binding:"required,timeofday"`
	Location    string `json:"location" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
	CategoryID  int    `json:"category" binding:"required"`
	Equipment   []int  `json:"equipment"`
}

type UpdateEventRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Location    *string `json:"location"`
	Capacity    *int    `json:"capacity"`
	CategoryID  *int    `json:"category"`
	Equipment   []int   `json:"equipment"`
}
