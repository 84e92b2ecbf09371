package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homeservices/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	u := domain.NewCustomer("u-1", "Ada", "ada@x.io", "1 Main", time.Now())

	tok, exp, err := tm.GenerateToken(u)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(tok)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.Subject)
	require.Equal(t, domain.RoleCustomer, claims.Role)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	u := domain.NewCustomer("u-1", "Ada", "ada@x.io", "1 Main", time.Now())
	tok, _, err := NewTokenManager("one", 5).GenerateToken(u)
	require.NoError(t, err)

	_, err = NewTokenManager("two", 5).ParseToken(tok)
	require.Error(t, err)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return issued }

	tok, _, err := tm.GenerateToken(domain.NewCustomer("u-1", "Ada", "ada@x.io", "1 Main", issued))
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tm.ParseToken(tok)
	require.Error(t, err)
}

func TestTokenManager_RequiresRole(t *testing.T) {
	_, _, err := NewTokenManager("secret", 5).GenerateToken(domain.User{ID: "u-1"})
	require.Error(t, err)
}

func TestPassword_HashAndCompare(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	require.NoError(t, err)

	require.NoError(t, ComparePassword(hash, "hunter22"))
	require.ErrorIs(t, ComparePassword(hash, "wrong-one"), ErrPasswordMismatch)
}
