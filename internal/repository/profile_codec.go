package repository

import (
	"encoding/json"
	"fmt"

	"github.com/spec-kit/homeservices/internal/domain"
)

type customerRecord struct {
	Address string   `json:"address"`
	JobIDs  []string `json:"job_ids,omitempty"`
}

type professionalRecord struct {
	BusinessName      string                   `json:"business_name"`
	LicenseNumber     string                   `json:"license_number"`
	InsuranceNumber   string                   `json:"insurance_number"`
	ServiceCategories []domain.ServiceCategory `json:"service_categories"`
	IsApproved        bool                     `json:"is_approved"`
	Rating            float64                  `json:"rating"`
	TotalReviews      int                      `json:"total_reviews"`
	CompletedJobIDs   []string                 `json:"completed_job_ids,omitempty"`
	Earnings          float64                  `json:"earnings"`
}

// encodeProfile flattens the role payload into a JSONB column value.
func encodeProfile(u domain.User) ([]byte, error) {
	switch u.Role() {
	case domain.RoleCustomer:
		p, _ := u.Customer()
		return json.Marshal(customerRecord{Address: p.Address, JobIDs: p.JobIDs})
	case domain.RoleProfessional:
		p, _ := u.Professional()
		return json.Marshal(professionalRecord(p))
	case domain.RoleAdmin:
		return []byte("{}"), nil
	default:
		return nil, fmt.Errorf("user %s has no role payload", u.ID)
	}
}

func decodeProfile(role domain.UserRole, raw []byte) (domain.Profile, error) {
	switch role {
	case domain.RoleCustomer:
		var rec customerRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode customer profile: %w", err)
		}
		return domain.CustomerProfile{Address: rec.Address, JobIDs: rec.JobIDs}, nil
	case domain.RoleProfessional:
		var rec professionalRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode professional profile: %w", err)
		}
		return domain.ProfessionalProfile(rec), nil
	case domain.RoleAdmin:
		return domain.AdminProfile{}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}
