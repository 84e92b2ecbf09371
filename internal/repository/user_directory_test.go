package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homeservices/internal/domain"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

func TestMemoryDirectory_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	u := domain.NewCustomer("u-1", "Ada", "Ada@Example.com", "1 Main St", now)

	require.NoError(t, dir.Create(ctx, Account{User: u, PasswordHash: "hash"}))

	got, err := dir.GetByEmail(ctx, "  ada@example.COM ")
	require.NoError(t, err)
	require.Equal(t, "u-1", got.User.ID)
	require.Equal(t, "hash", got.PasswordHash)

	byID, err := dir.GetByID(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, domain.RoleCustomer, byID.User.Role())
}

func TestMemoryDirectory_DuplicateEmailConflicts(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory()
	now := time.Now()

	require.NoError(t, dir.Create(ctx, Account{User: domain.NewCustomer("a", "A", "a@x.io", "addr", now)}))
	err := dir.Create(ctx, Account{User: domain.NewCustomer("b", "B", "A@X.IO", "addr", now)})
	require.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestMemoryDirectory_Missing(t *testing.T) {
	dir := NewMemoryDirectory()

	_, err := dir.GetByEmail(context.Background(), "nobody@x.io")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = dir.GetByID(context.Background(), "nope")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestProfileCodec_RoundTripsProfessional(t *testing.T) {
	pro := domain.NewProfessional("p-1", "Bo", "bo@x.io", domain.ProfessionalProfile{
		BusinessName:      "Bo's Pipes",
		LicenseNumber:     "L-1",
		InsuranceNumber:   "I-1",
		ServiceCategories: []domain.ServiceCategory{domain.CategoryPlumbing},
	}, time.Now())

	raw, err := encodeProfile(pro)
	require.NoError(t, err)

	p, err := decodeProfile(domain.RoleProfessional, raw)
	require.NoError(t, err)
	got, ok := p.(domain.ProfessionalProfile)
	require.True(t, ok)
	require.Equal(t, "Bo's Pipes", got.BusinessName)
	require.Equal(t, []domain.ServiceCategory{domain.CategoryPlumbing}, got.ServiceCategories)
	require.False(t, got.IsApproved)
}

func TestProfileCodec_RejectsMissingRole(t *testing.T) {
	_, err := encodeProfile(domain.User{ID: "x"})
	require.Error(t, err)

	_, err = decodeProfile("janitor", []byte("{}"))
	require.Error(t, err)
}
