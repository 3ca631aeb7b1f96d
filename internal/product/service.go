package product

import (
	"context"
	"strings"

	"studentdeal-be/internal/logger"
	"studentdeal-be/internal/pricing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	GetProduct(ctx context.Context, id int64, includeInactive bool) (*Product, error)
	CreateProduct(ctx context.Context, in CreateInput) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, in UpdateInput) (*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProduct(ctx context.Context, id int64, includeInactive bool) (*Product, error) {
	if id <= 0 {
		return nil, ErrProductNotFound
	}

	p, err := s.repo.GetByID(ctx, id, !includeInactive)
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *service) CreateProduct(ctx context.Context, in CreateInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidProduct.WithMessage("name is required")
	}
	if err := validatePrice(in.BasePrice); err != nil {
		return nil, err
	}
	if in.Stock < 0 {
		return nil, ErrInvalidProduct.WithMessage("stock must not be negative")
	}
	if err := pricing.ValidatePercentage(in.StudentDiscountPercentage); err != nil {
		return nil, err
	}
	if err := in.Properties.Validate(); err != nil {
		return nil, ErrInvalidProduct.WithMessage(err.Error())
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	props := in.Properties
	if props == nil {
		props = Properties{}
	}
	images := in.Images
	if images == nil {
		images = []string{}
	}

	p, err := s.repo.Create(ctx, Product{
		Name:                      name,
		BasePrice:                 pricing.Round(in.BasePrice),
		Stock:                     in.Stock,
		Active:                    active,
		StudentDiscountPercentage: in.StudentDiscountPercentage,
		Properties:                props,
		Images:                    images,
	})
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, ErrStorage.WithCause(err)
	}

	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, id int64, in UpdateInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProduct"),
		zap.Int64("product_id", id),
	)

	if in.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, ErrInvalidProduct.WithMessage("name must not be empty")
	}
	if in.BasePrice != nil {
		if err := validatePrice(*in.BasePrice); err != nil {
			return nil, err
		}
		rounded := pricing.Round(*in.BasePrice)
		in.BasePrice = &rounded
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, ErrInvalidProduct.WithMessage("stock must not be negative")
	}
	if in.StudentDiscountPercentage != nil {
		if err := pricing.ValidatePercentage(pricing.Percent(*in.StudentDiscountPercentage)); err != nil {
			return nil, err
		}
	}
	if err := in.Properties.Validate(); err != nil {
		return nil, ErrInvalidProduct.WithMessage(err.Error())
	}

	p, err := s.repo.Update(ctx, id, in)
	if err != nil {
		log.Error("failed to update product", zap.Error(err))
		return nil, ErrStorage.WithCause(err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func validatePrice(price decimal.Decimal) error {
	if !pricing.Round(price).IsPositive() {
		return ErrInvalidProduct.WithMessage("base price must be positive")
	}
	return nil
}
