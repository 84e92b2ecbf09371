package domain

import (
	"regexp"
	"sort"
	"strings"
	"time"

	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// PreferredDateLayout is the calendar-date layout accepted for drafts.
const PreferredDateLayout = "2006-01-02"

// MinPasswordLength mirrors the sign-in form rule.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// FieldErrors maps an input field to a human readable problem. An empty
// map means the input is valid.
type FieldErrors map[string]string

// Valid reports whether no field failed.
func (fe FieldErrors) Valid() bool { return len(fe) == 0 }

// Fields returns the offending field names in stable order.
func (fe FieldErrors) Fields() []string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Err converts the map into a validation DomainError, or nil when valid.
func (fe FieldErrors) Err() error {
	if fe.Valid() {
		return nil
	}
	details := make(map[string]any, len(fe))
	for k, v := range fe {
		details[k] = v
	}
	return apperrors.NewValidationError("validation failed", details)
}

// IsValidEmail applies the simple address pattern used by the forms.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateUser checks the identity fields every user must carry.
func ValidateUser(u User) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(u.Email) == "" {
		errs["email"] = "Email is required"
	} else if !IsValidEmail(u.Email) {
		errs["email"] = "Email is invalid"
	}
	if strings.TrimSpace(u.Name) == "" {
		errs["name"] = "Name is required"
	}
	if u.Profile == nil {
		errs["userType"] = "User type is required"
	}
	if pro, ok := u.Professional(); ok {
		validateCredentials(errs, pro.BusinessName, pro.LicenseNumber, pro.InsuranceNumber, pro.ServiceCategories)
		if pro.Rating < 0 || pro.Rating > MaxRating {
			errs["rating"] = "Rating must be between 0 and 5"
		}
		if pro.TotalReviews < 0 {
			errs["totalReviews"] = "Total reviews cannot be negative"
		}
		if pro.Earnings < 0 {
			errs["earnings"] = "Earnings cannot be negative"
		}
	}
	return errs
}

// IsValidUser is the boolean form of ValidateUser.
func IsValidUser(u User) bool {
	return ValidateUser(u).Valid()
}

// ParsePreferredDate reads a calendar date in loc. RFC 3339 timestamps are
// accepted and truncated to their date.
func ParsePreferredDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if loc == nil {
		loc = time.UTC
	}
	if d, err := time.ParseInLocation(PreferredDateLayout, raw, loc); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	ts = ts.In(loc)
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc), nil
}

// ValidateJobDraft checks a draft against today's date.
func ValidateJobDraft(d JobDraft, today time.Time) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(d.Description) == "" {
		errs["description"] = "Description is required"
	}
	if strings.TrimSpace(d.Address) == "" {
		errs["address"] = "Address is required"
	}
	if strings.TrimSpace(d.PreferredDate) == "" {
		errs["preferredDate"] = "Preferred date is required"
	} else if date, err := ParsePreferredDate(d.PreferredDate, today.Location()); err != nil {
		errs["preferredDate"] = "Preferred date is invalid"
	} else if date.Before(startOfDay(today)) {
		errs["preferredDate"] = "Preferred date cannot be in the past"
	}
	if len(d.Photos) > MaxJobPhotos {
		errs["photos"] = "You can only upload up to 3 photos"
	}
	if !d.ServiceCategory.Valid() {
		errs["serviceCategory"] = "Service category is invalid"
	}
	return errs
}

// IsValidJobDraft is the boolean form of ValidateJobDraft.
func IsValidJobDraft(d JobDraft, today time.Time) bool {
	return ValidateJobDraft(d, today).Valid()
}

// Credentials is sign-in input.
type Credentials struct {
	Email    string
	Password string
	Role     UserRole
}

// ValidateCredentials checks sign-in input.
func ValidateCredentials(c Credentials) FieldErrors {
	errs := FieldErrors{}
	validateEmailPassword(errs, c.Email, c.Password)
	if c.Role != RoleCustomer && c.Role != RoleProfessional {
		errs["userType"] = "Choose homeowner or professional"
	}
	return errs
}

// Registration is sign-up input.
type Registration struct {
	Name              string
	Email             string
	Phone             string
	Password          string
	ConfirmPassword   string
	Role              UserRole
	Address           string
	BusinessName      string
	LicenseNumber     string
	InsuranceNumber   string
	ServiceCategories []ServiceCategory
}

// ValidateRegistration checks sign-up input, including role-specific fields.
func ValidateRegistration(r Registration) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "Name is required"
	}
	validateEmailPassword(errs, r.Email, r.Password)
	if r.Password != r.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	switch r.Role {
	case RoleCustomer:
		if strings.TrimSpace(r.Address) == "" {
			errs["address"] = "Address is required"
		}
	case RoleProfessional:
		validateCredentials(errs, r.BusinessName, r.LicenseNumber, r.InsuranceNumber, r.ServiceCategories)
	default:
		errs["userType"] = "Choose homeowner or professional"
	}
	return errs
}

func validateEmailPassword(errs FieldErrors, email, password string) {
	if email == "" {
		errs["email"] = "Email is required"
	} else if !IsValidEmail(email) {
		errs["email"] = "Email is invalid"
	}
	if password == "" {
		errs["password"] = "Password is required"
	} else if len(password) < MinPasswordLength {
		errs["password"] = "Password must be at least 6 characters"
	}
}

func validateCredentials(errs FieldErrors, business, license, insurance string, categories []ServiceCategory) {
	if strings.TrimSpace(business) == "" {
		errs["businessName"] = "Business name is required"
	}
	if strings.TrimSpace(license) == "" {
		errs["licenseNumber"] = "License number is required"
	}
	if strings.TrimSpace(insurance) == "" {
		errs["insuranceNumber"] = "Insurance number is required"
	}
	if len(categories) == 0 {
		errs["categories"] = "Please select at least one service category"
		return
	}
	for _, c := range categories {
		if !c.Valid() {
			errs["categories"] = "Unknown service category"
			return
		}
	}
}

// MessageSenderFor returns the sender type a user posts under on job, or
// false when the user is not a party to the job in that role.
func MessageSenderFor(job Job, sender User) (SenderType, bool) {
	switch sender.Role() {
	case RoleCustomer:
		if job.CustomerID == sender.ID {
			return SenderCustomer, true
		}
	case RoleProfessional:
		if job.AssignedTo(sender.ID) {
			return SenderProfessional, true
		}
	}
	return "", false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
