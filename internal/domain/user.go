package domain

import "time"

// UserRole identifies which side of the marketplace an identity belongs to.
type UserRole string

const (
	RoleCustomer     UserRole = "customer"
	RoleProfessional UserRole = "professional"
	RoleAdmin        UserRole = "admin"
)

// Profile is the role-specific payload of a User. The set of
// implementations is closed to this package.
type Profile interface {
	role() UserRole
}

// CustomerProfile holds homeowner fields.
type CustomerProfile struct {
	Address string
	JobIDs  []string
}

// ProfessionalProfile holds contractor credentials and standing.
type ProfessionalProfile struct {
	BusinessName      string
	LicenseNumber     string
	InsuranceNumber   string
	ServiceCategories []ServiceCategory
	IsApproved        bool
	Rating            float64
	TotalReviews      int
	CompletedJobIDs   []string
	Earnings          float64
}

// AdminProfile marks an operator identity.
type AdminProfile struct{}

func (CustomerProfile) role() UserRole     { return RoleCustomer }
func (ProfessionalProfile) role() UserRole { return RoleProfessional }
func (AdminProfile) role() UserRole        { return RoleAdmin }

// User is an authenticated identity. Its role is derived from Profile and
// cannot change for the lifetime of the value; switching roles means a new
// identity.
type User struct {
	ID        string
	Email     string
	Phone     *string
	Name      string
	Profile   Profile
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role returns the role encoded by the profile payload. A user without a
// profile, or with a nil pointer payload, has no role.
func (u User) Role() UserRole {
	p := u.payload()
	if p == nil {
		return ""
	}
	return p.role()
}

// Customer returns the customer payload when u is a customer.
func (u User) Customer() (CustomerProfile, bool) {
	p, ok := u.payload().(CustomerProfile)
	return p, ok
}

// Professional returns the professional payload when u is a professional.
func (u User) Professional() (ProfessionalProfile, bool) {
	p, ok := u.payload().(ProfessionalProfile)
	return p, ok
}

// payload unwraps pointer payloads to their values. A nil pointer counts
// as no profile.
func (u User) payload() Profile {
	switch p := u.Profile.(type) {
	case *CustomerProfile:
		if p == nil {
			return nil
		}
		return *p
	case *ProfessionalProfile:
		if p == nil {
			return nil
		}
		return *p
	case *AdminProfile:
		if p == nil {
			return nil
		}
		return *p
	}
	return u.Profile
}

// Clone returns a deep copy of u. Pointer payloads come back as values.
func (u User) Clone() User {
	out := u
	if u.Phone != nil {
		phone := *u.Phone
		out.Phone = &phone
	}
	switch p := u.payload().(type) {
	case CustomerProfile:
		p.JobIDs = cloneStrings(p.JobIDs)
		out.Profile = p
	case ProfessionalProfile:
		if p.ServiceCategories != nil {
			p.ServiceCategories = append([]ServiceCategory(nil), p.ServiceCategories...)
		}
		p.CompletedJobIDs = cloneStrings(p.CompletedJobIDs)
		out.Profile = p
	default:
		out.Profile = p
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// NewCustomer builds a customer identity.
func NewCustomer(id, name, email, address string, now time.Time) User {
	return User{
		ID:        id,
		Name:      name,
		Email:     email,
		Profile:   CustomerProfile{Address: address},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewProfessional builds a professional identity. New professionals start
// unapproved with no rating history.
func NewProfessional(id, name, email string, creds ProfessionalProfile, now time.Time) User {
	creds.IsApproved = false
	creds.Rating = 0
	creds.TotalReviews = 0
	creds.CompletedJobIDs = nil
	creds.Earnings = 0
	creds.ServiceCategories = append([]ServiceCategory(nil), creds.ServiceCategories...)
	return User{
		ID:        id,
		Name:      name,
		Email:     email,
		Profile:   creds,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
