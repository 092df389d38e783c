package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Anayo007/linkup/internal/domain/model"
	pgrepo "github.com/Anayo007/linkup/internal/repo/postgres"
)

const minPasswordLength = 8

type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (model.User, error)
	GetByID(ctx context.Context, userID int64) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	Delete(ctx context.Context, userID int64) error
}

type SettingsStore interface {
	Get(ctx context.Context) (model.AppSettings, error)
}

type Service struct {
	jwt      *JWTManager
	users    UserStore
	settings SettingsStore
	now      func() time.Time
}

type Dependencies struct {
	JWT      *JWTManager
	Users    UserStore
	Settings SettingsStore
}

func NewService(deps Dependencies) *Service {
	return &Service{
		jwt:      deps.JWT,
		users:    deps.Users,
		settings: deps.Settings,
		now:      time.Now,
	}
}

func (s *Service) Signup(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return AuthResult{}, ErrInvalidInput
	}
	if len(password) < minPasswordLength {
		return AuthResult{}, ErrInvalidInput
	}

	if s.settings != nil {
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return AuthResult{}, fmt.Errorf("check signup settings: %w", err)
		}
		if !settings.SignupsEnabled {
			return AuthResult{}, ErrSignupsDisabled
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, email, string(hash))
	if err != nil {
		if errors.Is(err, pgrepo.ErrEmailTaken) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return AuthResult{}, ErrInvalidInput
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("get user for login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	if user.IsBanned {
		return AuthResult{}, ErrAccountBanned
	}
	if user.Suspended(s.now().UTC()) {
		return AuthResult{}, ErrAccountSuspended
	}

	return s.issue(user)
}

func (s *Service) ValidateAccessToken(accessToken string) (AccessClaims, error) {
	return s.jwt.ParseAccessToken(accessToken)
}

// CurrentUser re-reads the account so mid-session bans take effect on the
// next request.
func (s *Service) CurrentUser(ctx context.Context, userID int64) (Me, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Me{}, ErrUnauthorized
		}
		return Me{}, fmt.Errorf("get current user: %w", err)
	}
	if user.IsBanned {
		return Me{}, ErrAccountBanned
	}

	return Me{
		ID:      user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Tier:    user.Tier,
	}, nil
}

// DeleteAccount removes the caller's account; all dependent rows cascade.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidInput
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func (s *Service) issue(user model.User) (AuthResult, error) {
	token, expiresAt, err := s.jwt.GenerateAccessToken(user.ID, user.IsAdmin)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return AuthResult{
		AccessToken:   token,
		AccessExpires: expiresAt,
		Me: Me{
			ID:      user.ID,
			Email:   user.Email,
			IsAdmin: user.IsAdmin,
			Tier:    user.Tier,
		},
	}, nil
}
