package order

import (
	"context"
	"errors"

	"studentdeal-be/internal/auth"
	"studentdeal-be/internal/logger"
	"studentdeal-be/internal/metrics"
	"studentdeal-be/internal/utils"

	"go.uber.org/zap"
)

const (
	MetricOrdersPlaced      = "orders_placed_total"
	MetricEmptyCartRejected = "orders_rejected_empty_cart_total"
	MetricOutOfStock        = "orders_rejected_out_of_stock_total"
)

type Service interface {
	PlaceOrder(ctx context.Context, userID uint) (*Order, error)
	GetOrder(ctx context.Context, orderID int64, caller auth.Identity) (*Order, error)
	ListMyOrders(ctx context.Context, userID uint, page, limit int) (*ListResult, error)
	ListOrders(ctx context.Context, status *Status, page, limit int) (*ListResult, error)
	UpdateStatus(ctx context.Context, orderID int64, next Status) (*Order, error)
}

// orderNumberAttempts bounds regeneration after an order number collision.
const orderNumberAttempts = 3

type service struct {
	repo       Repository
	newNumber  func() string
	placed     *metrics.Counter
	emptyCart  *metrics.Counter
	outOfStock *metrics.Counter
}

func NewService(repo Repository, reg *metrics.Registry) Service {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &service{
		repo:       repo,
		newNumber:  utils.GenerateOrderNumber,
		placed:     reg.Counter(MetricOrdersPlaced),
		emptyCart:  reg.Counter(MetricEmptyCartRejected),
		outOfStock: reg.Counter(MetricOutOfStock),
	}
}

// PlaceOrder requires an authenticated user; guest carts are never ordered.
func (s *service) PlaceOrder(ctx context.Context, userID uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.Uint("user_id", userID),
	)

	if userID == 0 {
		return nil, ErrGuestCheckout
	}

	timer := metrics.StartTimer()
	var (
		o   *Order
		err error
	)
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		o, err = s.repo.PlaceOrder(ctx, userID, s.newNumber())
		if !errors.Is(err, ErrDuplicateOrderNumber) {
			break
		}
		log.Warn("order number taken, regenerating", zap.Int("attempt", attempt))
	}

	switch {
	case errors.Is(err, ErrEmptyCart):
		s.emptyCart.Inc()
		return nil, err
	case errors.Is(err, ErrOutOfStock):
		s.outOfStock.Inc()
		return nil, err
	case err != nil:
		log.Error("place order failed", zap.Error(err))
		return nil, ErrStorage.WithCause(err)
	}

	s.placed.Inc()
	log.Info("order placed",
		zap.Int64("order_id", o.ID),
		zap.String("total", o.Total.StringFixed(2)),
		zap.Duration("duration", timer.Duration()),
	)
	return o, nil
}

// GetOrder is visible to its owner and to admins.
func (s *service) GetOrder(ctx context.Context, orderID int64, caller auth.Identity) (*Order, error) {
	if !caller.IsAuthenticated() {
		return nil, ErrGuestCheckout.WithMessage("sign in to view orders")
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if !caller.IsAdmin() && o.UserID != caller.UserID {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *service) ListMyOrders(ctx context.Context, userID uint, page, limit int) (*ListResult, error) {
	if userID == 0 {
		return nil, ErrGuestCheckout.WithMessage("sign in to view orders")
	}
	return s.list(ctx, ListFilter{UserID: &userID}, page, limit)
}

func (s *service) ListOrders(ctx context.Context, status *Status, page, limit int) (*ListResult, error) {
	return s.list(ctx, ListFilter{Status: status}, page, limit)
}

func (s *service) list(ctx context.Context, filter ListFilter, page, limit int) (*ListResult, error) {
	page, limit = utils.NormalizePagination(page, limit)

	orders, total, err := s.repo.List(ctx, filter, limit, utils.Offset(page, limit))
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	return &ListResult{Items: orders, Total: total, Page: page, Limit: limit}, nil
}

// UpdateStatus validates the transition against the status graph and
// applies it with a compare-and-set, so a concurrent change is reported as
// a conflict instead of skipping a state.
func (s *service) UpdateStatus(ctx context.Context, orderID int64, next Status) (*Order, error) {
	next, err := ParseStatus(string(next))
	if err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.Int64("order_id", orderID),
		zap.String("to", string(next)),
	)

	current, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	if current == nil {
		return nil, ErrOrderNotFound
	}

	if !current.Status.CanTransitionTo(next) {
		log.Info("rejected status transition", zap.String("from", string(current.Status)))
		return nil, ErrInvalidStatusTransition.WithMessage(
			"cannot move order from " + string(current.Status) + " to " + string(next),
		)
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, current.Status, next)
	if err != nil {
		return nil, ErrStorage.WithCause(err)
	}
	if updated == nil {
		return nil, ErrInvalidStatusTransition.WithMessage("order status changed concurrently")
	}

	updated.Items = current.Items
	return updated, nil
}
