package gateway

import (
	"context"
	"time"

	"github.com/spec-kit/homeservices/internal/auth"
	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/repository"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// Demo identities available when demo seeding is on.
const (
	DemoCustomerID        = "1"
	DemoCustomerEmail     = "john@example.com"
	DemoProfessionalID    = "2"
	DemoProfessionalEmail = "pro@example.com"
	DemoPassword          = "password"
)

// DemoJobs returns the two starter jobs owned by the demo customer.
func DemoJobs(now time.Time) []domain.Job {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return []domain.Job{
		{
			ID:              "1",
			CustomerID:      DemoCustomerID,
			ServiceCategory: domain.CategoryHVAC,
			Description:     "AC unit not cooling properly, need inspection and repair",
			Address:         "123 Main St, City, State",
			PreferredDate:   day,
			Status:          domain.JobStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:              "2",
			CustomerID:      DemoCustomerID,
			ProfessionalID:  strPtr(DemoProfessionalID),
			ServiceCategory: domain.CategoryPlumbing,
			Description:     "Leaky faucet in kitchen, needs replacement",
			Address:         "123 Main St, City, State",
			PreferredDate:   day,
			Status:          domain.JobStatusAccepted,
			CreatedAt:       now.Add(-time.Minute),
			UpdatedAt:       now.Add(-time.Minute),
		},
	}
}

// SeedDemoAccounts registers the demo customer and an approved demo
// professional. Existing accounts are left alone.
func SeedDemoAccounts(ctx context.Context, dir repository.UserDirectory, bcryptCost int, now time.Time) error {
	hash, err := auth.HashPassword(DemoPassword, bcryptCost)
	if err != nil {
		return err
	}

	pro := domain.NewProfessional(DemoProfessionalID, "Pat Fixit", DemoProfessionalEmail, domain.ProfessionalProfile{
		BusinessName:    "Fixit Home Services",
		LicenseNumber:   "LIC-0001",
		InsuranceNumber: "INS-0001",
		ServiceCategories: []domain.ServiceCategory{
			domain.CategoryHVAC,
			domain.CategoryPlumbing,
			domain.CategoryGeneralHandyman,
		},
	}, now)
	profile, _ := pro.Professional()
	profile.IsApproved = true
	pro.Profile = profile

	accounts := []repository.Account{
		{User: domain.NewCustomer(DemoCustomerID, "John Doe", DemoCustomerEmail, "123 Main St, City, State", now), PasswordHash: hash},
		{User: pro, PasswordHash: hash},
	}
	for _, account := range accounts {
		if err := dir.Create(ctx, account); err != nil && !apperrors.IsCode(err, apperrors.CodeConflict) {
			return err
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
