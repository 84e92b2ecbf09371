package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/homeservices/internal/auth"
	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/repository"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

const invalidCredentials = "invalid email or password"

// SimulatedAuth authenticates against a user directory with bcrypt hashes.
type SimulatedAuth struct {
	sim        *Simulator
	directory  repository.UserDirectory
	bcryptCost int
	now        func() time.Time
}

// NewSimulatedAuth wires the auth collaborator.
func NewSimulatedAuth(sim *Simulator, directory repository.UserDirectory, bcryptCost int) *SimulatedAuth {
	return &SimulatedAuth{sim: sim, directory: directory, bcryptCost: bcryptCost, now: time.Now}
}

// SignIn resolves credentials to a user. The selected role must match the
// account's role; mismatches read as bad credentials.
func (a *SimulatedAuth) SignIn(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	if err := a.sim.call(ctx, OpSignIn); err != nil {
		return domain.User{}, err
	}

	account, err := a.directory.GetByEmail(ctx, creds.Email)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return domain.User{}, apperrors.NewUnauthorized(invalidCredentials)
		}
		return domain.User{}, err
	}

	if err := auth.ComparePassword(account.PasswordHash, creds.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return domain.User{}, apperrors.NewUnauthorized(invalidCredentials)
		}
		return domain.User{}, err
	}
	if creds.Role != "" && account.User.Role() != creds.Role {
		return domain.User{}, apperrors.NewUnauthorized(invalidCredentials)
	}
	return account.User, nil
}

// SignUp creates a new identity for a validated registration.
func (a *SimulatedAuth) SignUp(ctx context.Context, reg domain.Registration) (domain.User, error) {
	if err := a.sim.call(ctx, OpSignUp); err != nil {
		return domain.User{}, err
	}

	hash, err := auth.HashPassword(reg.Password, a.bcryptCost)
	if err != nil {
		return domain.User{}, apperrors.NewInternalError(err)
	}

	user, err := userFromRegistration(uuid.NewString(), reg, a.now())
	if err != nil {
		return domain.User{}, err
	}
	if err := a.directory.Create(ctx, repository.Account{User: user, PasswordHash: hash}); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func userFromRegistration(id string, reg domain.Registration, now time.Time) (domain.User, error) {
	email := strings.TrimSpace(reg.Email)
	name := strings.TrimSpace(reg.Name)

	var user domain.User
	switch reg.Role {
	case domain.RoleCustomer:
		user = domain.NewCustomer(id, name, email, strings.TrimSpace(reg.Address), now)
	case domain.RoleProfessional:
		user = domain.NewProfessional(id, name, email, domain.ProfessionalProfile{
			BusinessName:      strings.TrimSpace(reg.BusinessName),
			LicenseNumber:     strings.TrimSpace(reg.LicenseNumber),
			InsuranceNumber:   strings.TrimSpace(reg.InsuranceNumber),
			ServiceCategories: reg.ServiceCategories,
		}, now)
	default:
		return domain.User{}, apperrors.NewValidationError("validation failed", map[string]any{
			"userType": "Choose homeowner or professional",
		})
	}
	if phone := strings.TrimSpace(reg.Phone); phone != "" {
		user.Phone = &phone
	}
	return user, nil
}
