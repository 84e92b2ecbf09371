package handlers

import (
	"github.com/spec-kit/homeservices/internal/api/dto"
	"github.com/spec-kit/homeservices/internal/domain"
	"github.com/spec-kit/homeservices/internal/service"
)

func userResponse(u domain.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Phone:     u.Phone,
		Name:      u.Name,
		UserType:  string(u.Role()),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if c, ok := u.Customer(); ok {
		resp.Customer = &dto.CustomerProfileResponse{Address: c.Address, JobIDs: nonNil(c.JobIDs)}
	}
	if p, ok := u.Professional(); ok {
		resp.Professional = &dto.ProfessionalProfileResponse{
			BusinessName:      p.BusinessName,
			LicenseNumber:     p.LicenseNumber,
			InsuranceNumber:   p.InsuranceNumber,
			ServiceCategories: categoryStrings(p.ServiceCategories),
			IsApproved:        p.IsApproved,
			Rating:            p.Rating,
			TotalReviews:      p.TotalReviews,
			CompletedJobIDs:   nonNil(p.CompletedJobIDs),
			Earnings:          p.Earnings,
		}
	}
	return resp
}

func jobResponse(j domain.Job) dto.JobResponse {
	return dto.JobResponse{
		ID:              j.ID,
		CustomerID:      j.CustomerID,
		ProfessionalID:  j.ProfessionalID,
		ServiceCategory: string(j.ServiceCategory),
		Description:     j.Description,
		Photos:          nonNil(j.Photos),
		Address:         j.Address,
		PreferredDate:   j.PreferredDate.Format(domain.PreferredDateLayout),
		Status:          string(j.Status),
		FinalPrice:      j.FinalPrice,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
		CompletedAt:     j.CompletedAt,
		Rating:          j.Rating,
		Review:          j.Review,
	}
}

func jobCard(v service.JobView) dto.JobCardResponse {
	events := make([]string, 0, len(v.AllowedEvents))
	for _, ev := range v.AllowedEvents {
		events = append(events, string(ev))
	}
	return dto.JobCardResponse{
		JobResponse:   jobResponse(v.Job),
		PostedAgo:     v.PostedAgo,
		Distance:      v.Distance,
		AllowedEvents: events,
	}
}

func messageResponse(m domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:         m.ID,
		JobID:      m.JobID,
		SenderID:   m.SenderID,
		SenderType: string(m.SenderType),
		Content:    m.Content,
		Timestamp:  m.Timestamp,
	}
}

func paymentResponse(p domain.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:          p.ID,
		JobID:       p.JobID,
		Amount:      p.Amount,
		Status:      string(p.Status),
		ExternalRef: p.ExternalRef,
		CreatedAt:   p.CreatedAt,
		CompletedAt: p.CompletedAt,
	}
}

func notificationResponse(n domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Body:      n.Body,
		Data:      n.Data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func categoryStrings(cats []domain.ServiceCategory) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, string(c))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
