package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

var today = time.Date(2026, time.October, 17, 15, 30, 0, 0, time.UTC)

func validDraft() JobDraft {
	return JobDraft{
		Description:     "AC broken",
		Address:         "123 Main St",
		PreferredDate:   "2026-10-17",
		ServiceCategory: CategoryHVAC,
	}
}

func TestValidateJobDraft_AcceptsToday(t *testing.T) {
	require.True(t, IsValidJobDraft(validDraft(), today))
}

func TestValidateJobDraft_ReportsEachFieldIndependently(t *testing.T) {
	d := JobDraft{
		PreferredDate:   "not a date",
		Photos:          []string{"a", "b", "c", "d"},
		ServiceCategory: "Roofing",
	}

	errs := ValidateJobDraft(d, today)
	require.Equal(t, []string{"address", "description", "photos", "preferredDate", "serviceCategory"}, errs.Fields())
	require.Equal(t, "Preferred date is invalid", errs["preferredDate"])
}

func TestValidateJobDraft_RejectsPastDate(t *testing.T) {
	d := validDraft()
	d.PreferredDate = "2026-10-16"

	errs := ValidateJobDraft(d, today)
	require.Equal(t, []string{"preferredDate"}, errs.Fields())
}

func TestValidateJobDraft_AcceptsRFC3339(t *testing.T) {
	d := validDraft()
	d.PreferredDate = "2026-10-20T09:00:00Z"

	require.True(t, IsValidJobDraft(d, today))
}

func TestValidateJobDraft_ThreePhotosAllowed(t *testing.T) {
	d := validDraft()
	d.Photos = []string{"file:///1.jpg", "file:///2.jpg", "file:///3.jpg"}

	require.True(t, IsValidJobDraft(d, today))
}

func TestFieldErrors_ErrCarriesDetails(t *testing.T) {
	errs := FieldErrors{"email": "Email is invalid", "name": "Name is required"}

	err := errs.Err()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	require.Equal(t, apperrors.CodeValidation, de.Code)
	require.Len(t, de.Details, 2)
	require.Equal(t, "Email is invalid", de.Details["email"])

	require.NoError(t, FieldErrors{}.Err())
}

func TestValidateUser(t *testing.T) {
	customer := NewCustomer("c-1", "John Doe", "john@example.com", "1 Elm St", today)
	require.True(t, IsValidUser(customer))

	bad := NewCustomer("c-2", "", "john-at-example", "", today)
	errs := ValidateUser(bad)
	require.Equal(t, []string{"email", "name"}, errs.Fields())

	pro := NewProfessional("p-1", "Pat", "pat@fix.it", ProfessionalProfile{
		BusinessName: "Pat's Fixes",
	}, today)
	errs = ValidateUser(pro)
	require.Equal(t, []string{"categories", "insuranceNumber", "licenseNumber"}, errs.Fields())
}

func TestValidateCredentials(t *testing.T) {
	errs := ValidateCredentials(Credentials{Email: "a@b.co", Password: "12345", Role: RoleCustomer})
	require.Equal(t, []string{"password"}, errs.Fields())

	errs = ValidateCredentials(Credentials{Email: "", Password: "", Role: RoleAdmin})
	require.Equal(t, []string{"email", "password", "userType"}, errs.Fields())

	require.True(t, ValidateCredentials(Credentials{Email: "a@b.co", Password: "123456", Role: RoleProfessional}).Valid())
}

func TestValidateRegistration(t *testing.T) {
	r := Registration{
		Name:            "Jane",
		Email:           "jane@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret2",
		Role:            RoleCustomer,
	}
	errs := ValidateRegistration(r)
	require.Equal(t, []string{"address", "confirmPassword"}, errs.Fields())

	r = Registration{
		Name:              "Pat",
		Email:             "pat@fix.it",
		Password:          "secret1",
		ConfirmPassword:   "secret1",
		Role:              RoleProfessional,
		BusinessName:      "Pat's Fixes",
		LicenseNumber:     "LIC-1",
		InsuranceNumber:   "INS-1",
		ServiceCategories: []ServiceCategory{CategoryPlumbing},
	}
	require.True(t, ValidateRegistration(r).Valid())
}

func TestMessageSenderFor(t *testing.T) {
	pro := "p-1"
	job := Job{ID: "j-1", CustomerID: "c-1", ProfessionalID: &pro}

	customer := NewCustomer("c-1", "John", "john@example.com", "", today)
	sender, ok := MessageSenderFor(job, customer)
	require.True(t, ok)
	require.Equal(t, SenderCustomer, sender)

	professional := NewProfessional("p-1", "Pat", "pat@fix.it", ProfessionalProfile{}, today)
	sender, ok = MessageSenderFor(job, professional)
	require.True(t, ok)
	require.Equal(t, SenderProfessional, sender)

	stranger := NewCustomer("c-9", "Eve", "eve@example.com", "", today)
	_, ok = MessageSenderFor(job, stranger)
	require.False(t, ok)

	// A professional id that happens to equal the owner id does not let a
	// professional post as the customer.
	impostor := NewProfessional("c-1", "Mallory", "m@example.com", ProfessionalProfile{}, today)
	_, ok = MessageSenderFor(job, impostor)
	require.False(t, ok)
}
