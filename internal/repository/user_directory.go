package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/spec-kit/homeservices/internal/domain"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// Account is a directory record: the public identity plus its credential.
type Account struct {
	User         domain.User
	PasswordHash string
}

// UserDirectory is the identity store behind the authentication
// collaborator. Emails are matched case-insensitively.
type UserDirectory interface {
	Create(ctx context.Context, account Account) error
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
}

// MemoryDirectory keeps accounts in process. It is used when no
// Postgres DSN is configured and in tests.
type MemoryDirectory struct {
	mu      sync.RWMutex
	byID    map[string]Account
	byEmail map[string]string
}

// NewMemoryDirectory returns an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		byID:    make(map[string]Account),
		byEmail: make(map[string]string),
	}
}

func (d *MemoryDirectory) Create(_ context.Context, account Account) error {
	key := normalizeEmail(account.User.Email)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byEmail[key]; exists {
		return emailTaken(account.User.Email)
	}
	if _, exists := d.byID[account.User.ID]; exists {
		return apperrors.NewConflict("account id already exists", map[string]any{"id": account.User.ID})
	}
	d.byID[account.User.ID] = account
	d.byEmail[key] = account.User.ID
	return nil
}

func (d *MemoryDirectory) GetByEmail(_ context.Context, email string) (Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byEmail[normalizeEmail(email)]
	if !ok {
		return Account{}, apperrors.NewNotFound("account", nil)
	}
	return d.byID[id], nil
}

func (d *MemoryDirectory) GetByID(_ context.Context, id string) (Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	account, ok := d.byID[id]
	if !ok {
		return Account{}, apperrors.NewNotFound("account", map[string]any{"id": id})
	}
	return account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func emailTaken(email string) error {
	return apperrors.NewConflict("email already registered", map[string]any{"email": email})
}
