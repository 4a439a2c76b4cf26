package event

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Alisl001/EMS/internal/category"
	"github.com/Alisl001/EMS/internal/equipment"
	"github.com/Alisl001/EMS/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// stubService returns the same error from every operation.
type stubService struct {
	err error
}

func (s *stubService) Create(context.Context, int, CreateEventRequest) (*EventDetail, error) {
	return nil, s.err
}
func (s *stubService) Update(context.Context, int, int, UpdateEventRequest) (*EventDetail, error) {
	return nil, s.err
}
func (s *stubService) Cancel(context.Context, int, int) (*Event, error) { return nil, s.err }
func (s *stubService) Get(context.Context, int) (*EventDetail, error)   { return nil, s.err }
func (s *stubService) ListMine(context.Context, int) ([]Event, error)   { return nil, s.err }
func (s *stubService) ListAll(context.Context) ([]Event, error)         { return nil, s.err }

func TestErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"event missing", ErrEventNotFound, http.StatusNotFound},
		{"equipment missing", equipment.ErrEquipmentNotFound, http.StatusNotFound},
		{"category missing", category.ErrCategoryNotFound, http.StatusNotFound},
		{"insufficient funds", wallet.ErrInsufficientFunds, http.StatusBadRequest},
		{"validation failure", ErrValidation, http.StatusBadRequest},
		{"already canceled", ErrEventCanceled, http.StatusConflict},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&stubService{err: tt.err})
			router := gin.New()
			router.Use(func(c *gin.Context) { c.Set("user_id", 5) })
			router.POST("/events/cancel/:id/", handler.Cancel)

			req := httptest.NewRequest("POST", "/events/cancel/7/", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCancelRejectsBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(&stubService{})
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set("user_id", 5) })
	router.POST("/events/cancel/:id/", handler.Cancel)

	req := httptest.NewRequest("POST", "/events/cancel/abc/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
