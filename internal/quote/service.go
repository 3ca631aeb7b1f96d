// Package quote prices a product for a specific caller by combining the
// product's student tier, the running event discount and the caller's
// verification status.
package quote

import (
	"context"
	"time"

	"studentdeal-be/internal/auth"
	"studentdeal-be/internal/discount"
	"studentdeal-be/internal/logger"
	"studentdeal-be/internal/pricing"
	"studentdeal-be/internal/product"

	"go.uber.org/zap"
)

type ProductGetter interface {
	GetProduct(ctx context.Context, id int64, includeInactive bool) (*product.Product, error)
}

type ActiveDiscounter interface {
	Active(ctx context.Context, now time.Time) (*discount.EventDiscount, error)
}

type EligibilityChecker interface {
	IsEligible(ctx context.Context, userID uint) (bool, error)
}

type ProductQuote struct {
	Product       *product.Product        `json:"product"`
	StudentTier   bool                    `json:"student_tier_applied"`
	EventDiscount *discount.EventDiscount `json:"event_discount,omitempty"`
	Pricing       pricing.Quote           `json:"pricing"`
}

type Service interface {
	ProductQuote(ctx context.Context, productID int64, caller auth.Identity) (*ProductQuote, error)
}

type service struct {
	products    ProductGetter
	discounts   ActiveDiscounter
	eligibility EligibilityChecker
	now         func() time.Time
}

func NewService(products ProductGetter, discounts ActiveDiscounter, eligibility EligibilityChecker) Service {
	return &service{
		products:    products,
		discounts:   discounts,
		eligibility: eligibility,
		now:         time.Now,
	}
}

// ProductQuote applies the student tier only to verified users. Admins may
// quote inactive products.
func (s *service) ProductQuote(ctx context.Context, productID int64, caller auth.Identity) (*ProductQuote, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ProductQuote"),
		zap.Int64("product_id", productID),
	)

	p, err := s.products.GetProduct(ctx, productID, caller.IsAdmin())
	if err != nil {
		return nil, err
	}

	event, err := s.discounts.Active(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}

	eligible := false
	if caller.IsAuthenticated() {
		eligible, err = s.eligibility.IsEligible(ctx, caller.UserID)
		if err != nil {
			return nil, err
		}
	}

	studentPct := pricing.NoDiscount
	if eligible {
		studentPct = p.StudentDiscountPercentage
	}

	q, err := pricing.Breakdown(p.BasePrice, studentPct, event.Percent())
	if err != nil {
		log.Error("stored discount out of range", zap.Error(err))
		return nil, err
	}

	return &ProductQuote{
		Product:       p,
		StudentTier:   eligible && studentPct.Valid,
		EventDiscount: event,
		Pricing:       q,
	}, nil
}
