package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"taskplan/internal/auth"
	"taskplan/internal/model"
)

type fakeUserStore struct {
	users  map[string]*model.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*model.User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		f.nextID++
		user.ID = "user-" + string(rune('0'+f.nextID))
	}
	c := *user
	f.users[user.ID] = &c
	return nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *user
	return &c, nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			c := *user
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) SetTelegramChatID(ctx context.Context, userID string, chatID *int64) error {
	if user, ok := f.users[userID]; ok {
		user.TelegramChatID = chatID
	}
	return nil
}

func newAccountService() (*AccountService, *fakeUserStore) {
	store := newFakeUserStore()
	return NewAccountService(store, auth.NewManager("test-secret", time.Hour)), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "  Ada@Example.COM ", "longenough", "Ada")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash == "longenough" || user.PasswordHash == "" {
		t.Error("password not hashed")
	}
	if token == "" {
		t.Error("no session token issued")
	}

	logged, token, err := svc.Login(ctx, "ada@example.com", "longenough")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != user.ID || token == "" {
		t.Error("login did not return the registered user with a token")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, store := newAccountService()
	ctx := context.Background()

	var ve *ValidationError
	if _, _, err := svc.Register(ctx, "not-an-email", "longenough", ""); !errors.As(err, &ve) {
		t.Errorf("bad email: err = %v, want *ValidationError", err)
	}
	if _, _, err := svc.Register(ctx, "ok@example.com", "short", ""); !errors.As(err, &ve) {
		t.Errorf("short password: err = %v, want *ValidationError", err)
	}
	if len(store.users) != 0 {
		t.Error("rejected registration reached the store")
	}
}

func TestLogin_BadCredentialsIndistinguishable(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()
	if _, _, err := svc.Register(ctx, "ada@example.com", "longenough", "Ada"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, unknownErr := svc.Login(ctx, "nobody@example.com", "longenough")
	_, _, wrongErr := svc.Login(ctx, "ada@example.com", "wrongwrong")
	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Errorf("unknown email -> %v, wrong password -> %v; both must be ErrInvalidCredentials", unknownErr, wrongErr)
	}
}

func TestLinkTelegram(t *testing.T) {
	svc, store := newAccountService()
	user, _, err := svc.Register(context.Background(), "ada@example.com", "longenough", "Ada")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	ctx := auth.WithUserID(context.Background(), user.ID)

	chatID := int64(12345)
	if err := svc.LinkTelegram(ctx, &chatID); err != nil {
		t.Fatalf("LinkTelegram: %v", err)
	}
	if got := store.users[user.ID].TelegramChatID; got == nil || *got != chatID {
		t.Error("chat id not stored")
	}
	if err := svc.LinkTelegram(ctx, nil); err != nil {
		t.Fatalf("unlink: %v", err)
	}
	if store.users[user.ID].TelegramChatID != nil {
		t.Error("chat id not cleared")
	}

	if err := svc.LinkTelegram(context.Background(), &chatID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("unauthenticated link: err = %v, want ErrUnauthorized", err)
	}
}
