package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"taskplan/internal/auth"
	"taskplan/internal/model"
)

// ErrInvalidCredentials covers both unknown email and wrong password so the
// two cases are indistinguishable to a caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AccountService handles registration, login, and notification linking.
type AccountService struct {
	users UserStore
	auth  *auth.Manager
}

func NewAccountService(users UserStore, authManager *auth.Manager) *AccountService {
	return &AccountService{users: users, auth: authManager}
}

// Register creates a user and returns a session token.
func (s *AccountService) Register(ctx context.Context, email, password, displayName string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", invalid("email", "a valid email is required")
	}
	if len(password) < 8 {
		return nil, "", invalid("password", "password must be at least 8 characters")
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	user := model.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, "", storeErr(err)
	}
	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login checks credentials and returns a session token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", storeErr(err)
	}
	if err := s.auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Current returns the authenticated user's profile.
func (s *AccountService) Current(ctx context.Context) (*model.User, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return user, nil
}

// LinkTelegram binds (or with nil unbinds) the chat daily digests go to.
func (s *AccountService) LinkTelegram(ctx context.Context, chatID *int64) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if err := s.users.SetTelegramChatID(ctx, userID, chatID); err != nil {
		return storeErr(err)
	}
	return nil
}
