package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ecotrack/internal/model"
	"ecotrack/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many attempts")
)

// AttemptLimiter throttles repeated login and registration attempts per
// email. The redis-backed implementation lives in ratelimit.go; a nil-safe
// no-op is used when redis is disabled.
type AttemptLimiter interface {
	CheckLogin(ctx context.Context, email string) error
	CheckRegister(ctx context.Context, email string) error
	ResetAttempts(ctx context.Context, email, operation string) error
}

type AuthService struct {
	repo    repository.Repository
	limiter AttemptLimiter
}

func NewAuthService(repo repository.Repository, limiter AttemptLimiter) *AuthService {
	return &AuthService{repo: repo, limiter: limiter}
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (model.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if s.limiter != nil {
		if err := s.limiter.CheckRegister(ctx, email); err != nil {
			return model.User{}, err
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (model.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if s.limiter != nil {
		if err := s.limiter.CheckLogin(ctx, email); err != nil {
			return model.User{}, err
		}
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same error as a wrong password, to prevent email enumeration.
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.ResetAttempts(ctx, email, "login"); err != nil {
			// Throttle bookkeeping must not fail a successful login.
			return user, nil
		}
	}
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	return s.repo.GetUserByID(ctx, id)
}
