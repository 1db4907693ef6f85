package bookings

import (
	"context"
	"time"

	"roamio/apperr"
	"roamio/experiences"
	"roamio/models"
	"roamio/policy"
	"roamio/utils"
)

type Service struct {
	store       Store
	experiences experiences.Store
}

func NewService(store Store, expStore experiences.Store) *Service {
	return &Service{store: store, experiences: expStore}
}

// Book runs the booking protocol. The precondition order is part of the
// contract: role, then input shape (both before any store lookup), then
// existence, then status, then duplication, so the returned code names
// the first true root cause.
func (s *Service) Book(ctx context.Context, p *models.Principal, experienceID string, seats int) (*models.Booking, error) {
	if err := policy.Decide(p, policy.ActionBookExperience, nil); err != nil {
		return nil, err
	}
	if seats < 1 {
		return nil, apperr.Validation("seats", "seats must be an integer >= 1")
	}

	exp, err := s.experiences.FindByID(ctx, experienceID)
	if err == experiences.ErrNotFound {
		return nil, apperr.New(apperr.CodeNotFound, "experience not found")
	}
	if err != nil {
		return nil, err
	}
	if exp.Status != models.StatusPublished {
		return nil, apperr.New(apperr.CodeBookingNotAllowed, "experience is not open for booking")
	}

	// Pre-check so the common double-booking gets its error without an
	// insert attempt. Not a guarantee: the partial unique index behind
	// Insert is what makes the second of two racing attempts lose.
	exists, err := s.store.HasConfirmed(ctx, p.UserID, experienceID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.New(apperr.CodeBookingExists, "you already have a booking for this experience")
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		BookingID:    utils.GetUUID(),
		ExperienceID: experienceID,
		UserID:       p.UserID,
		Seats:        seats,
		Status:       models.BookingConfirmed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Insert(ctx, booking); err != nil {
		if err == ErrDuplicate {
			return nil, apperr.New(apperr.CodeBookingExists, "you already have a booking for this experience")
		}
		return nil, err
	}
	return booking, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}
