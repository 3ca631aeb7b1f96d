package discount

import (
	"context"
	"strings"
	"time"

	"studentdeal-be/internal/logger"
	"studentdeal-be/internal/pricing"
	"studentdeal-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, in CreateInput) (*EventDiscount, error)
	SetActive(ctx context.Context, id int64, active bool) (*EventDiscount, error)
	List(ctx context.Context, page, limit int) (*ListResult, error)
	// Active returns the single event discount applying at now, or nil.
	Active(ctx context.Context, now time.Time) (*EventDiscount, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, in CreateInput) (*EventDiscount, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidEventDiscount.WithMessage("name is required")
	}
	if err := pricing.ValidatePercentage(pricing.Percent(in.Percentage)); err != nil {
		return nil, err
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() || !in.EndDate.After(in.StartDate) {
		return nil, ErrInvalidDateRange
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	e, err := s.repo.Create(ctx, EventDiscount{
		Name:       name,
		Percentage: in.Percentage,
		StartDate:  in.StartDate.UTC(),
		EndDate:    in.EndDate.UTC(),
		Active:     active,
	})
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	return e, nil
}

func (s *service) SetActive(ctx context.Context, id int64, active bool) (*EventDiscount, error) {
	e, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	if e == nil {
		return nil, ErrEventDiscountNotFound
	}
	return e, nil
}

func (s *service) List(ctx context.Context, page, limit int) (*ListResult, error) {
	page, limit = utils.NormalizePagination(page, limit)

	items, total, err := s.repo.List(ctx, limit, utils.Offset(page, limit))
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	return &ListResult{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *service) Active(ctx context.Context, now time.Time) (*EventDiscount, error) {
	candidates, err := s.repo.ListActiveAt(ctx, now)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load active event discounts",
			zap.String("layer", "service"),
			zap.Error(err),
		)
		return nil, ErrStorage.WithCause(err)
	}
	return pricing.SelectEventDiscount(candidates, now), nil
}
