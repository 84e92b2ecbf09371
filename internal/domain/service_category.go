package domain

import "fmt"

// ServiceCategory is the closed set of trades a job can be posted under.
type ServiceCategory string

const (
	CategoryHVAC            ServiceCategory = "HVAC"
	CategoryGutterCleaning  ServiceCategory = "Gutter Cleaning"
	CategoryPlumbing        ServiceCategory = "Plumbing"
	CategoryElectrical      ServiceCategory = "Electrical"
	CategoryGeneralHandyman ServiceCategory = "General Handyman"
)

var serviceCategories = []ServiceCategory{
	CategoryHVAC,
	CategoryGutterCleaning,
	CategoryPlumbing,
	CategoryElectrical,
	CategoryGeneralHandyman,
}

// AllServiceCategories returns the categories in display order.
func AllServiceCategories() []ServiceCategory {
	out := make([]ServiceCategory, len(serviceCategories))
	copy(out, serviceCategories)
	return out
}

// Valid reports whether c belongs to the closed set.
func (c ServiceCategory) Valid() bool {
	for _, candidate := range serviceCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseServiceCategory maps a raw value onto the closed set.
func ParseServiceCategory(raw string) (ServiceCategory, error) {
	c := ServiceCategory(raw)
	if !c.Valid() {
		return "", fmt.Errorf("unknown service category %q", raw)
	}
	return c, nil
}

// ContainsCategory reports whether set includes c.
func ContainsCategory(set []ServiceCategory, c ServiceCategory) bool {
	for _, candidate := range set {
		if candidate == c {
			return true
		}
	}
	return false
}
