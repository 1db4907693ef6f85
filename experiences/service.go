package experiences

import (
	"context"
	"math"
	"time"

	"roamio/apperr"
	"roamio/models"
	"roamio/policy"
	"roamio/utils"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput carries the raw create payload. Price and StartTime stay
// loosely typed so validation can name the exact offending field instead
// of failing at decode time.
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Price       *float64 `json:"price"`
	StartTime   string   `json:"start_time"`
}

// validate checks fields in the documented order: title, location,
// price presence, price integer, start time presence, start time validity.
func (in CreateInput) validate() (int64, time.Time, error) {
	if in.Title == "" {
		return 0, time.Time{}, apperr.Validation("title", "title is required")
	}
	if in.Location == "" {
		return 0, time.Time{}, apperr.Validation("location", "location is required")
	}
	if in.Price == nil {
		return 0, time.Time{}, apperr.Validation("price", "price is required")
	}
	if *in.Price < 0 || *in.Price != math.Trunc(*in.Price) {
		return 0, time.Time{}, apperr.Validation("price", "price must be a non-negative integer")
	}
	if in.StartTime == "" {
		return 0, time.Time{}, apperr.Validation("start_time", "start_time is required")
	}
	startTime, err := time.Parse(time.RFC3339, in.StartTime)
	if err != nil {
		return 0, time.Time{}, apperr.Validation("start_time", "start_time must be a valid RFC3339 timestamp")
	}
	return int64(*in.Price), startTime.UTC(), nil
}

func (s *Service) Create(ctx context.Context, p *models.Principal, in CreateInput) (*models.Experience, error) {
	if err := policy.Decide(p, policy.ActionCreateExperience, nil); err != nil {
		return nil, err
	}
	price, startTime, err := in.validate()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	exp := &models.Experience{
		ExperienceID: "x" + utils.GenerateID(13),
		Title:        in.Title,
		Description:  in.Description,
		Location:     in.Location,
		Price:        price,
		StartTime:    startTime,
		CreatedBy:    p.UserID,
		Status:       models.StatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Insert(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// Publish moves a draft experience to published. Existence is checked
// before permission for this transition: an unknown id is NOT_FOUND even
// for callers who could not have published it.
func (s *Service) Publish(ctx context.Context, p *models.Principal, id string) (*models.Experience, error) {
	exp, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(p, policy.ActionPublishExperience, exp); err != nil {
		return nil, err
	}
	next, err := Transition(exp.Status, actionPublish)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetStatus(ctx, id, next); err != nil {
		return nil, err
	}
	exp.Status = next
	return exp, nil
}

// Block sets status to blocked regardless of the prior status. Blocking
// an already-blocked experience succeeds without error.
func (s *Service) Block(ctx context.Context, p *models.Principal, id string) (*models.Experience, error) {
	exp, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Decide(p, policy.ActionBlockExperience, nil); err != nil {
		return nil, err
	}
	next, err := Transition(exp.Status, actionBlock)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetStatus(ctx, id, next); err != nil {
		return nil, err
	}
	exp.Status = next
	return exp, nil
}

// Get returns a single experience. Non-published experiences are visible
// to their owner and admins only; everyone else gets the same NOT_FOUND
// an unknown id produces, so draft existence does not leak.
func (s *Service) Get(ctx context.Context, p *models.Principal, id string) (*models.Experience, error) {
	exp, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp.Status == models.StatusPublished {
		return exp, nil
	}
	if p != nil && (p.Role == models.RoleAdmin || p.UserID == exp.CreatedBy) {
		return exp, nil
	}
	return nil, apperr.New(apperr.CodeNotFound, "experience not found")
}

type BrowseResult struct {
	Experiences []models.Experience `json:"experiences"`
	Total       int64               `json:"total"`
	Page        int64               `json:"page"`
	Limit       int64               `json:"limit"`
}

func (s *Service) Browse(ctx context.Context, q BrowseQuery) (*BrowseResult, error) {
	experiences, total, err := s.store.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if experiences == nil {
		experiences = []models.Experience{}
	}
	return &BrowseResult{
		Experiences: experiences,
		Total:       total,
		Page:        q.Page,
		Limit:       q.Limit,
	}, nil
}

func (s *Service) find(ctx context.Context, id string) (*models.Experience, error) {
	exp, err := s.store.FindByID(ctx, id)
	if err == ErrNotFound {
		return nil, apperr.New(apperr.CodeNotFound, "experience not found")
	}
	if err != nil {
		return nil, err
	}
	return exp, nil
}
