package dto

import "time"

// SignInRequest payload for sign-in.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

// SignUpRequest payload for new accounts. Customer and professional fields
// share one body; the user type decides which are required.
type SignUpRequest struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Password          string   `json:"password"`
	ConfirmPassword   string   `json:"confirm_password"`
	UserType          string   `json:"user_type"`
	Address           string   `json:"address"`
	BusinessName      string   `json:"business_name"`
	LicenseNumber     string   `json:"license_number"`
	InsuranceNumber   string   `json:"insurance_number"`
	ServiceCategories []string `json:"service_categories"`
}

// AuthResponse standard response for session endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Route     string       `json:"route"`
	User      UserResponse `json:"user"`
}

// UserResponse is the public view of an identity.
type UserResponse struct {
	ID           string                       `json:"id"`
	Email        string                       `json:"email"`
	Phone        *string                      `json:"phone,omitempty"`
	Name         string                       `json:"name"`
	UserType     string                       `json:"user_type"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
	Customer     *CustomerProfileResponse     `json:"customer,omitempty"`
	Professional *ProfessionalProfileResponse `json:"professional,omitempty"`
}

// CustomerProfileResponse carries customer-only fields.
type CustomerProfileResponse struct {
	Address string   `json:"address"`
	JobIDs  []string `json:"job_ids"`
}

// ProfessionalProfileResponse carries professional-only fields.
type ProfessionalProfileResponse struct {
	BusinessName      string   `json:"business_name"`
	LicenseNumber     string   `json:"license_number"`
	InsuranceNumber   string   `json:"insurance_number"`
	ServiceCategories []string `json:"service_categories"`
	IsApproved        bool     `json:"is_approved"`
	Rating            float64  `json:"rating"`
	TotalReviews      int      `json:"total_reviews"`
	CompletedJobIDs   []string `json:"completed_job_ids"`
	Earnings          float64  `json:"earnings"`
}

// RouteResponse names the reachable navigation root.
type RouteResponse struct {
	Route   string   `json:"route"`
	Screens []string `json:"screens"`
}

// NotificationResponse is one inbox entry.
type NotificationResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data,omitempty"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}
