// Package feed derives read-only views over the job collection. Every
// function returns a new slice and leaves its input untouched.
package feed

import (
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/spec-kit/homeservices/internal/domain"
)

// CategoryFilter is a service category or All.
type CategoryFilter string

// All matches every category.
const All CategoryFilter = "all"

// RecentLimit is how many jobs the customer home screen shows.
const RecentLimit = 3

// ParseCategoryFilter accepts "all", "" or a service category.
func ParseCategoryFilter(raw string) (CategoryFilter, error) {
	if raw == "" || raw == string(All) {
		return All, nil
	}
	c, err := domain.ParseServiceCategory(raw)
	if err != nil {
		return "", err
	}
	return CategoryFilter(c), nil
}

// Matches reports whether job passes the filter.
func (f CategoryFilter) Matches(job domain.Job) bool {
	return f == All || domain.ServiceCategory(f) == job.ServiceCategory
}

// FilterByCategory keeps the jobs in category, preserving relative order.
func FilterByCategory(jobs []domain.Job, f CategoryFilter) []domain.Job {
	return filter(jobs, f.Matches)
}

// SortByRecency orders jobs newest first. Ties keep their input order, so
// the store's newest-first list comes back unchanged.
func SortByRecency(jobs []domain.Job) []domain.Job {
	out := filter(jobs, nil)
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	return out
}

// Recent returns at most n jobs from the head of the list.
func Recent(jobs []domain.Job, n int) []domain.Job {
	if n < 0 {
		n = 0
	}
	if n > len(jobs) {
		n = len(jobs)
	}
	return filter(jobs[:n], nil)
}

// Available keeps jobs still open for acceptance.
func Available(jobs []domain.Job) []domain.Job {
	return filter(jobs, func(j domain.Job) bool {
		return j.Status == domain.JobStatusPending
	})
}

// ForProfessional keeps pending jobs in any of the professional's categories.
func ForProfessional(jobs []domain.Job, categories []domain.ServiceCategory) []domain.Job {
	return filter(jobs, func(j domain.Job) bool {
		return j.Status == domain.JobStatusPending && domain.ContainsCategory(categories, j.ServiceCategory)
	})
}

// OwnedBy keeps jobs created by customerID.
func OwnedBy(jobs []domain.Job, customerID string) []domain.Job {
	return filter(jobs, func(j domain.Job) bool { return j.CustomerID == customerID })
}

// AssignedTo keeps jobs assigned to professionalID.
func AssignedTo(jobs []domain.Job, professionalID string) []domain.Job {
	return filter(jobs, func(j domain.Job) bool { return j.AssignedTo(professionalID) })
}

// TimeAgo renders the age of t relative to now for job cards.
func TimeAgo(now, t time.Time) string {
	minutes := int(now.Sub(t) / time.Minute)
	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%dh ago", minutes/60)
	default:
		return fmt.Sprintf("%dd ago", minutes/1440)
	}
}

// Locator is the geolocation collaborator that would measure the distance
// from the viewer to a job address.
type Locator interface {
	DistanceMiles(address string) (float64, error)
}

// PlaceholderLocator stands in for a real Locator. The value it returns is
// a stable hash of the address, not a distance.
type PlaceholderLocator struct{}

// DistanceMiles returns a deterministic pseudo-distance in [0.5, 10.4].
func (PlaceholderLocator) DistanceMiles(address string) (float64, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(address))
	return 0.5 + float64(h.Sum32()%100)/10, nil
}

// DistanceLabel formats the placeholder distance for a job card.
func DistanceLabel(address string) string {
	return FormatDistance(PlaceholderLocator{}, address)
}

// FormatDistance renders loc's distance for address.
func FormatDistance(loc Locator, address string) string {
	miles, err := loc.DistanceMiles(address)
	if err != nil {
		return "Distance unavailable"
	}
	return fmt.Sprintf("%.1f miles away", miles)
}

func filter(jobs []domain.Job, keep func(domain.Job) bool) []domain.Job {
	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if keep == nil || keep(j) {
			out = append(out, j.Clone())
		}
	}
	return out
}
