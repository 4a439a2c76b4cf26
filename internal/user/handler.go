package user

import (
	"errors"
	"net/http"

	"github.com/Alisl001/EMS/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         *User  `json:"user"`
}

// Register godoc
// @Summary      Register
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload body RegisterRequest true "New user"
// @Success      201 {object} gin.H
// @Failure      400 {object} gin.H
// @Router       /api/register/ [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, _, _, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already exists"})
		case errors.Is(err, ErrEmailExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user registered successfully"})
}

// Login godoc
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload body LoginRequest true "Credentials"
// @Success      200 {object} loginResponse
// @Failure      400 {object} gin.H
// @Failure      401 {object} gin.H
// @Router       /api/login/ [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, accessToken, refreshToken, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(auth.AccessTokenTTL.Seconds()),
		User:         u,
	})
}

// Refresh godoc
// @Summary      Refresh access token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload body RefreshRequest true "Refresh token"
// @Success      200 {object} gin.H
// @Failure      400 {object} gin.H
// @Failure      401 {object} gin.H
// @Router       /api/token-refresh/ [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accessToken, u, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"token_type":   "bearer",
		"user":         u,
	})
}

// MyProfile godoc
// @Summary      My profile
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} User
// @Failure      401 {object} gin.H
// @Failure      404 {object} gin.H
// @Router       /api/my-profile/ [get]
func (h *Handler) MyProfile(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// UpdateProfile godoc
// @Summary      Update my profile
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload body UpdateProfileRequest true "Fields to update"
// @Success      200 {object} User
// @Failure      400 {object} gin.H
// @Failure      401 {object} gin.H
// @Router       /api/my-profile/ [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// PasswordResetRequest godoc
// @Summary      Request password reset
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload body PasswordResetRequest true "Account email"
// @Success      200 {object} gin.H
// @Failure      400 {object} gin.H
// @Failure      404 {object} gin.H
// @Router       /api/password-reset-request/ [post]
func (h *Handler) PasswordResetRequest(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to request password reset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password reset code sent"})
}

// PasswordResetCheck godoc
// @Summary      Check password reset code
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload body PasswordResetCheckRequest true "Email and code"
// @Success      200 {object} gin.H
// @Failure      400 {object} gin.H
// @Router       /api/password-reset-code-check/ [post]
func (h *Handler) PasswordResetCheck(c *gin.Context) {
	var req PasswordResetCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.CheckResetCode(c.Request.Context(), req.Email, req.Code); err != nil {
		if errors.Is(err, ErrInvalidResetCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired reset code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check reset code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "code is valid"})
}

// PasswordResetConfirm godoc
// @Summary      Confirm password reset
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload body PasswordResetConfirmRequest true "Email, code and new password"
// @Success      200 {object} gin.H
// @Failure      400 {object} gin.H
// @Router       /api/password-reset-confirm/ [post]
func (h *Handler) PasswordResetConfirm(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.ConfirmPasswordReset(c.Request.Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidResetCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired reset code"})
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password reset successfully"})
}
