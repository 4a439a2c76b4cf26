package user

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Alisl001/EMS/internal/auth"
	"github.com/Alisl001/EMS/internal/logger"
	"github.com/Alisl001/EMS/internal/wallet"

	"github.com/redis/go-redis/v9"
)

var (
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
)

const resetCodeTTL = 10 * time.Minute

// EmailSender is the slice of the email service this package needs.
type EmailSender interface {
	SendPasswordResetCode(ctx context.Context, email, name, code string) error
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)

	RequestPasswordReset(ctx context.Context, email string) error
	CheckResetCode(ctx context.Context, email, code string) error
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error
}

type service struct {
	repo       Repository
	walletRepo wallet.Repository
	redis      *redis.Client
	email      EmailSender
	jwtSecret  string
}

func NewService(repo Repository, walletRepo wallet.Repository, redisClient *redis.Client, emailSender EmailSender, jwtSecret string) Service {
	return &service{
		repo:       repo,
		walletRepo: walletRepo,
		redis:      redisClient,
		email:      emailSender,
		jwtSecret:  jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	taken, err := s.repo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, "", "", err
	}
	if taken {
		return nil, "", "", ErrUsernameExists
	}

	taken, err = s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if taken {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	u, err := s.repo.Create(ctx, req.FirstName, req.LastName, req.Username, req.Email, passwordHash, auth.RoleCustomer)
	if err != nil {
		return nil, "", "", err
	}

	// every user owns exactly one wallet
	if _, err := s.walletRepo.GetOrCreate(ctx, u.ID); err != nil {
		return nil, "", "", fmt.Errorf("create wallet: %w", err)
	}

	accessToken, refreshToken, err := auth.GenerateTokens(u.ID, u.Username, u.Role, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return u, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(u.ID, u.Username, u.Role, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return u, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	if req.Email != nil {
		current, err := s.repo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if current.Email != *req.Email {
			taken, err := s.repo.EmailExists(ctx, *req.Email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrEmailExists
			}
		}
	}

	return s.repo.UpdateProfile(ctx, userID, req)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	accessToken, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, err
	}

	return accessToken, u, nil
}

func resetCodeKey(email string) string {
	return "password-reset:" + email
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := generateResetCode()
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, resetCodeKey(email), code, resetCodeTTL).Err(); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	if err := s.email.SendPasswordResetCode(ctx, u.Email, u.FirstName, code); err != nil {
		logger.Errorf("Failed to queue reset code email for %s: %v", email, err)
	}

	return nil
}

func (s *service) CheckResetCode(ctx context.Context, email, code string) error {
	stored, err := s.redis.Get(ctx, resetCodeKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidResetCode
		}
		return err
	}

	if stored != code {
		return ErrInvalidResetCode
	}

	return nil
}

func (s *service) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	if err := s.CheckResetCode(ctx, email, code); err != nil {
		return err
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, u.ID, passwordHash); err != nil {
		return err
	}

	s.redis.Del(ctx, resetCodeKey(email))

	return nil
}
