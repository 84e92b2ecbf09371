package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homeservices/internal/api/dto"
	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/feed"
	"github.com/spec-kit/homeservices/internal/service"
	apperrors "github.com/spec-kit/homeservices/pkg/util/errorutil"
)

// JobsHandler manages job endpoints for both roles.
type JobsHandler struct {
	jobs *service.JobService
}

// NewJobsHandler constructs handler.
func NewJobsHandler(jobs *service.JobService) *JobsHandler {
	return &JobsHandler{jobs: jobs}
}

// ListJobs GET /jobs.
func (h *JobsHandler) ListJobs(c *fiber.Ctx) error {
	q, err := parseFeedQuery(c)
	if err != nil {
		return err
	}
	views, err := h.jobs.Feed(q)
	if err != nil {
		return err
	}
	items := make([]dto.JobCardResponse, 0, len(views))
	for _, v := range views {
		items = append(items, jobCard(v))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Refresh POST /jobs/refresh.
func (h *JobsHandler) Refresh(c *fiber.Ctx) error {
	jobs, err := h.jobs.Refresh(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": len(jobs)}})
}

// GetJob GET /jobs/:id.
func (h *JobsHandler) GetJob(c *fiber.Ctx) error {
	job, err := h.jobs.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": jobResponse(job)})
}

// CreateJob POST /jobs.
func (h *JobsHandler) CreateJob(c *fiber.Ctx) error {
	var req dto.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	job, err := h.jobs.CreateJob(c.UserContext(), domain.JobDraft{
		Description:     req.Description,
		Address:         req.Address,
		PreferredDate:   req.PreferredDate,
		Photos:          req.Photos,
		ServiceCategory: domain.ServiceCategory(req.ServiceCategory),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": jobResponse(job)})
}

// SelectJob POST /jobs/:id/select.
func (h *JobsHandler) SelectJob(c *fiber.Ctx) error {
	job, err := h.jobs.Select(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": jobResponse(job)})
}

// AcceptJob POST /jobs/:id/accept.
func (h *JobsHandler) AcceptJob(c *fiber.Ctx) error {
	return respondJob(c)(h.jobs.Accept(c.UserContext(), c.Params("id")))
}

// StartJob POST /jobs/:id/start.
func (h *JobsHandler) StartJob(c *fiber.Ctx) error {
	return respondJob(c)(h.jobs.Start(c.UserContext(), c.Params("id")))
}

// CompleteJob POST /jobs/:id/complete.
func (h *JobsHandler) CompleteJob(c *fiber.Ctx) error {
	var req dto.CompleteJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return respondJob(c)(h.jobs.Complete(c.UserContext(), c.Params("id"), req.FinalPrice))
}

// CancelJob POST /jobs/:id/cancel.
func (h *JobsHandler) CancelJob(c *fiber.Ctx) error {
	return respondJob(c)(h.jobs.Cancel(c.UserContext(), c.Params("id")))
}

// RateJob POST /jobs/:id/rate.
func (h *JobsHandler) RateJob(c *fiber.Ctx) error {
	var req dto.RateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return respondJob(c)(h.jobs.Rate(c.UserContext(), c.Params("id"), req.Rating, req.Review))
}

func respondJob(c *fiber.Ctx) func(domain.Job, error) error {
	return func(job domain.Job, err error) error {
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": jobResponse(job)})
	}
}

func parseFeedQuery(c *fiber.Ctx) (service.FeedQuery, error) {
	category, err := feed.ParseCategoryFilter(c.Query("category"))
	if err != nil {
		return service.FeedQuery{}, apperrors.NewValidationError("invalid query", map[string]any{
			"category": "Unknown service category",
		})
	}
	q := service.FeedQuery{
		Category:  category,
		Available: c.QueryBool("available", false),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return service.FeedQuery{}, apperrors.NewValidationError("invalid query", map[string]any{
				"limit": "Limit must be a non-negative integer",
			})
		}
		q.Limit = limit
	}
	return q, nil
}
